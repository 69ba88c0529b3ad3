package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/compliee/compliee/internal/apperr"
)

type fakeProvider struct {
	reply   string
	err     error
	lastReq CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &CompletionResponse{Content: f.reply}, nil
}

func TestSanitizeStripsFence(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"lowercase fence", "```html\n<p>hi</p>\n```", "<p>hi</p>"},
		{"uppercase fence", "```HTML\n<p>hi</p>\n```", "<p>hi</p>"},
		{"bare fence", "```\n<p>hi</p>\n```", "<p>hi</p>"},
		{"no fence", "<p>hi</p>", "<p>hi</p>"},
		{"other language untouched", "```json\n{}\n```", "```json\n{}\n```"},
		{"inner fence kept", "<p>use ```code``` blocks</p>", "<p>use ```code``` blocks</p>"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Sanitize(c.in); got != c.want {
				t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	in := "```html\n<p>body</p>\n[[PAGE_BREAK]]\n<p>more</p>\n```"
	once := Sanitize(in)
	twice := Sanitize(once)
	if once != twice {
		t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
	if strings.Contains(once, PageBreakToken) {
		t.Errorf("page break token survived: %q", once)
	}
	if !strings.Contains(once, `<hr class="page-break">`) {
		t.Errorf("missing page break rule: %q", once)
	}
}

func TestDraftIncludesContextTail(t *testing.T) {
	fp := &fakeProvider{reply: "<p>drafted</p>"}
	d := NewDrafter(fp, "test-model")

	doc := "<p>" + strings.Repeat("alpha ", 1000) + "ending-marker</p>"
	out, err := d.Draft(context.Background(), "continue the policy", doc, nil)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if out != "<p>drafted</p>" {
		t.Errorf("out = %q", out)
	}

	user := fp.lastReq.Messages[len(fp.lastReq.Messages)-1].Content
	if !strings.Contains(user, "ending-marker") {
		t.Error("context tail missing from prompt")
	}
	if !strings.Contains(user, "continue the policy") {
		t.Error("instruction missing from prompt")
	}
	// Only the tail travels, not the whole 6000 char document.
	if len(user) > 4000 {
		t.Errorf("prompt too large: %d chars", len(user))
	}
}

func TestDraftIncludesAttachment(t *testing.T) {
	fp := &fakeProvider{reply: "<p>ok</p>"}
	d := NewDrafter(fp, "test-model")

	att := &Attachment{Name: "evidence.pdf", Content: "extracted text"}
	if _, err := d.Draft(context.Background(), "summarize", "", att); err != nil {
		t.Fatalf("Draft: %v", err)
	}

	user := fp.lastReq.Messages[len(fp.lastReq.Messages)-1].Content
	if !strings.Contains(user, "=== ATTACHED FILE: evidence.pdf ===") {
		t.Error("attachment header missing")
	}
	if !strings.Contains(user, "=== END ATTACHMENT ===") {
		t.Error("attachment footer missing")
	}
}

func TestDraftProviderFailure(t *testing.T) {
	fp := &fakeProvider{err: errors.New("boom")}
	d := NewDrafter(fp, "test-model")

	out, err := d.Draft(context.Background(), "x", "", nil)
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
	if out != "" {
		t.Errorf("expected no content on failure, got %q", out)
	}
}

func TestRefine(t *testing.T) {
	fp := &fakeProvider{reply: "```html\n<p>polished</p>\n```"}
	d := NewDrafter(fp, "test-model")

	out, err := d.Refine(context.Background(), "<p>rough</p>", "make it formal")
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if out != "<p>polished</p>" {
		t.Errorf("out = %q", out)
	}
	user := fp.lastReq.Messages[len(fp.lastReq.Messages)-1].Content
	if !strings.Contains(user, "<p>rough</p>") || !strings.Contains(user, "make it formal") {
		t.Errorf("prompt = %q", user)
	}
}
