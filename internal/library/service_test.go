package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/compliee/compliee/internal/apperr"
	"github.com/compliee/compliee/internal/index"
	"github.com/compliee/compliee/internal/models"
	"github.com/compliee/compliee/internal/storage"
)

func testService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(store, db), dir
}

func TestCreateWritesEnvelope(t *testing.T) {
	svc, dir := testService(t)
	doc, err := svc.Create(context.Background(), "Q4 Policy!!", "#4f46e5", "compliance-team")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.Path != "q4_policy.html" {
		t.Errorf("path = %q", doc.Path)
	}

	raw, err := os.ReadFile(filepath.Join(dir, doc.Path))
	if err != nil {
		t.Fatal(err)
	}
	blob := string(raw)
	if !strings.Contains(blob, `data-color="#4f46e5"`) {
		t.Errorf("stored blob missing color marker: %s", blob)
	}
	if !strings.Contains(blob, "<h1>Q4 Policy!!</h1>") {
		t.Errorf("stored blob missing title element: %s", blob)
	}
	if !strings.Contains(blob, "Owner: compliance-team") {
		t.Errorf("stored blob missing owner line: %s", blob)
	}
}

func TestCreateDedupesName(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	first, _ := svc.Create(ctx, "Policy", "", "")
	second, err := svc.Create(ctx, "Policy", "", "")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.Path == second.Path {
		t.Errorf("expected distinct paths, both %q", first.Path)
	}
	if second.Path != "policy-1.html" {
		t.Errorf("second path = %q, want policy-1.html", second.Path)
	}
}

func TestCreateSymbolOnlyTitle(t *testing.T) {
	svc, _ := testService(t)
	doc, err := svc.Create(context.Background(), "!!!", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.Path != "untitled.html" {
		t.Errorf("path = %q, want untitled.html", doc.Path)
	}
}

func TestLoadMissing(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Load(context.Background(), "nope.html")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadTolerantOfMissingMarkers(t *testing.T) {
	svc, dir := testService(t)
	_ = os.WriteFile(filepath.Join(dir, "legacy_import.html"), []byte("<p>just a body</p>"), 0o644)

	doc, err := svc.Load(context.Background(), "legacy_import.html")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Title != "legacy import" {
		t.Errorf("title = %q, want filename-derived", doc.Title)
	}
	if doc.Color != "#ffffff" {
		t.Errorf("color = %q, want default", doc.Color)
	}
	if doc.Body != "<p>just a body</p>" {
		t.Errorf("body = %q", doc.Body)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	doc, _ := svc.Create(ctx, "Retention", "#112233", "")

	saved, err := svc.Save(ctx, doc.Path, "Retention v2", "#112233", "<p>updated body</p>")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Title != "Retention v2" {
		t.Errorf("title = %q", saved.Title)
	}

	loaded, err := svc.Load(ctx, doc.Path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Title != "Retention v2" || loaded.Body != "<p>updated body</p>" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.Color != "#112233" {
		t.Errorf("color = %q", loaded.Color)
	}
}

func TestSaveMissingDocument(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Save(context.Background(), "ghost.html", "T", "#ffffff", "<p>x</p>")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveColorChange(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	doc, _ := svc.Create(ctx, "Colors", "#111111", "")

	saved, err := svc.Save(ctx, doc.Path, "Colors", "#222222", doc.Body)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Color != "#222222" {
		t.Errorf("color = %q, want #222222", saved.Color)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	doc, _ := svc.Create(ctx, "Gone", "", "")

	if err := svc.Delete(ctx, doc.Path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Load(ctx, doc.Path); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
	items, _ := svc.List(ctx)
	if len(items) != 0 {
		t.Errorf("list still has %d items", len(items))
	}
}

func TestDeleteMissing(t *testing.T) {
	svc, _ := testService(t)
	if err := svc.Delete(context.Background(), "nope.html"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, title, "", ""); err != nil {
			t.Fatal(err)
		}
	}
	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
}

func TestScoreAndStatus(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	doc, _ := svc.Create(ctx, "Scored", "", "")

	long := strings.Repeat("<p>word word word word word word word word word word</p>", 50)
	saved, err := svc.Save(ctx, doc.Path, "Scored", "#ffffff", long)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Score != 100 {
		t.Errorf("score = %d, want 100", saved.Score)
	}
	if saved.Status != models.StatusAudited {
		t.Errorf("status = %q, want %q", saved.Status, models.StatusAudited)
	}

	short, _ := svc.Save(ctx, doc.Path, "Scored", "#ffffff", "<p>tiny</p>")
	if short.Status != models.StatusDraft {
		t.Errorf("status = %q, want %q", short.Status, models.StatusDraft)
	}
}
