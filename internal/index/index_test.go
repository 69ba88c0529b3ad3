package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "compliee-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := DocumentRow{
		Path:      "policy.html",
		Title:     "Data Retention Policy",
		Color:     "#4f46e5",
		Checksum:  "abc123",
		WordCount: 42,
		Score:     8,
		Status:    "Draft",
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertDocument(row, "retention policy body text"); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}
	cs, err := db.GetChecksum("policy.html")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	db := testDB(t)
	row := DocumentRow{Path: "keep.html", Title: "v1", Checksum: "1", UpdatedAt: time.Now()}
	if err := db.UpsertDocument(row, "body"); err != nil {
		t.Fatal(err)
	}
	first, err := db.GetDocument("keep.html")
	if err != nil || first == nil {
		t.Fatalf("GetDocument: %v %v", first, err)
	}

	row.Title = "v2"
	row.Checksum = "2"
	row.UpdatedAt = time.Now().Add(time.Hour)
	if err := db.UpsertDocument(row, "body v2"); err != nil {
		t.Fatal(err)
	}
	second, _ := db.GetDocument("keep.html")
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on upsert: %v → %v", first.CreatedAt, second.CreatedAt)
	}
	if second.Title != "v2" {
		t.Errorf("title = %q, want v2", second.Title)
	}
}

func TestListDocumentsNewestFirst(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, p := range []string{"oldest.html", "middle.html", "newest.html"} {
		ts := base.Add(time.Duration(i) * time.Hour)
		_, err := db.conn.Exec(`
			INSERT INTO documents (path, title, checksum, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, p, p, "cs", ts, ts)
		if err != nil {
			t.Fatal(err)
		}
	}

	docs, err := db.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("len = %d, want 3", len(docs))
	}
	if docs[0].Path != "newest.html" || docs[2].Path != "oldest.html" {
		t.Errorf("order = %s, %s, %s", docs[0].Path, docs[1].Path, docs[2].Path)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "del.html", Checksum: "x", UpdatedAt: time.Now()}, "body")

	if err := db.DeleteDocument("del.html"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	cs, _ := db.GetChecksum("del.html")
	if cs != "" {
		t.Errorf("deleted document still has checksum %q", cs)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	db := testDB(t)
	d, err := db.GetDocument("missing.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != nil {
		t.Errorf("expected nil row, got %+v", d)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(DocumentRow{Path: "s.html", Title: "Search Me", Checksum: "1", UpdatedAt: time.Now()}, "uniqueword appears here")

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.html" {
		t.Errorf("search results = %+v, want 1 hit for s.html", results)
	}
}
