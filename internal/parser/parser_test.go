package parser

import (
	"strings"
	"testing"
)

func TestParseFullEnvelope(t *testing.T) {
	blob := `<div id="metadata" style="display:none;" data-color="#4f46e5"></div><h1>Q4 Policy!!</h1><p>Body text.</p>`
	res := Parse([]byte(blob))

	if res.Color != "#4f46e5" {
		t.Errorf("color = %q, want #4f46e5", res.Color)
	}
	if res.Title != "Q4 Policy!!" {
		t.Errorf("title = %q", res.Title)
	}
	if res.Body != "<p>Body text.</p>" {
		t.Errorf("body = %q", res.Body)
	}
	if !strings.Contains(res.Metadata, `data-color="#4f46e5"`) {
		t.Errorf("metadata not preserved: %q", res.Metadata)
	}
}

func TestParseRenderRoundTrip(t *testing.T) {
	blob := `<div id="metadata" style="display:none;" data-color="#4f46e5"></div><h1>Q4 Policy!!</h1><p>Body <strong>text</strong>.</p>`
	res := Parse([]byte(blob))
	out := Render(res.Metadata, res.Color, res.Title, res.Body)
	if string(out) != blob {
		t.Errorf("round trip changed blob:\n in: %s\nout: %s", blob, out)
	}
}

func TestParseMissingMetadata(t *testing.T) {
	res := Parse([]byte(`<h1>Plain</h1><p>hi</p>`))
	if res.Color != DefaultColor {
		t.Errorf("color = %q, want default", res.Color)
	}
	if res.Metadata != "" {
		t.Errorf("metadata = %q, want empty", res.Metadata)
	}
	if res.Title != "Plain" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestParseMissingTitle(t *testing.T) {
	res := Parse([]byte(`<p>no heading here</p>`))
	if res.Title != "" {
		t.Errorf("title = %q, want empty", res.Title)
	}
	if res.Body != "<p>no heading here</p>" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestParseEmptyInput(t *testing.T) {
	res := Parse(nil)
	if res.Title != "" || res.Body != "" || res.Color != DefaultColor {
		t.Errorf("unexpected result for empty input: %+v", res)
	}
}

func TestParseOnlySecondH1StaysInBody(t *testing.T) {
	res := Parse([]byte(`<h1>First</h1><h1>Second</h1>`))
	if res.Title != "First" {
		t.Errorf("title = %q", res.Title)
	}
	if res.Body != "<h1>Second</h1>" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestParseTitleWithInlineMarkup(t *testing.T) {
	res := Parse([]byte(`<h1>Data <em>Retention</em></h1><p>x</p>`))
	if res.Title != "Data <em>Retention</em>" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestRenderSynthesizesMetadata(t *testing.T) {
	out := string(Render("", "#112233", "T", "<p>b</p>"))
	if !strings.Contains(out, `data-color="#112233"`) {
		t.Errorf("missing synthesized metadata: %q", out)
	}
	if !strings.Contains(out, `id="metadata"`) {
		t.Errorf("missing metadata id: %q", out)
	}
	if !strings.Contains(out, "<h1>T</h1>") {
		t.Errorf("missing title element: %q", out)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Q4 Policy!!", "q4_policy"},
		{"Data Retention Policy", "data_retention_policy"},
		{"  spaced  out  ", "spaced_out"},
		{"!!!", "untitled"},
		{"", "untitled"},
		{"MixedCASE123", "mixedcase123"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"data_retention_policy.html", "data retention policy"},
		{"untitled.html", "untitled"},
		{".html", "Untitled"},
	}
	for _, c := range cases {
		if got := TitleFromFilename(c.in); got != c.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText(`<p>one <strong>two</strong></p><p>three</p>`)
	if got != "one two three" {
		t.Errorf("PlainText = %q", got)
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("alpha beta  gamma"); n != 3 {
		t.Errorf("WordCount = %d, want 3", n)
	}
	if n := WordCount(""); n != 0 {
		t.Errorf("WordCount empty = %d", n)
	}
}
