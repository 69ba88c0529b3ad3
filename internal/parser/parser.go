// Package parser reads and writes the Compliee document envelope: a hidden
// metadata div, an <h1> title, and the remaining rich-text body, stored as a
// single HTML blob.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultColor is the cover color used when a document carries no metadata
// marker.
const DefaultColor = "#ffffff"

// DefaultSlug is the filename stem used when a title slugs down to nothing.
const DefaultSlug = "untitled"

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Result holds the parsed envelope of a document blob.
type Result struct {
	// Metadata is the verbatim metadata block (the whole hidden div),
	// preserved so attributes this version does not model still round-trip.
	// Empty when the document has no metadata marker.
	Metadata string
	// Color is the data-color attribute of the metadata div, or
	// DefaultColor when absent.
	Color string
	// Title is the inner content of the first <h1>, or "" when the
	// document has none.
	Title string
	// Body is the input with the metadata block and title element removed.
	Body string
}

// Parse extracts the envelope from raw document bytes. It never fails:
// a blob missing either marker yields defaults and the untouched remainder
// as body.
func Parse(data []byte) *Result {
	res := &Result{Color: DefaultColor}

	z := html.NewTokenizer(bytes.NewReader(data))
	var body bytes.Buffer
	sawTitle := false
	sawMeta := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or malformed input; either way everything consumed so
			// far is already routed, and the tokenizer emits no more.
			break
		}
		raw := string(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if !sawMeta && tok.DataAtom == atom.Div && attrVal(tok, "id") == "metadata" {
				sawMeta = true
				res.Color = colorOf(tok)
				if tt == html.SelfClosingTagToken {
					res.Metadata = raw
					continue
				}
				res.Metadata = raw + consumeUntilClose(z, atom.Div)
				continue
			}
			if !sawTitle && tok.DataAtom == atom.H1 {
				sawTitle = true
				inner := consumeUntilClose(z, atom.H1)
				res.Title = strings.TrimSuffix(inner, "</h1>")
				continue
			}
			body.WriteString(raw)
		default:
			body.WriteString(raw)
		}
	}

	res.Body = body.String()
	return res
}

// consumeUntilClose advances the tokenizer until the matching close tag of
// element a and returns the raw bytes consumed, close tag included. Nesting
// of the same element is respected.
func consumeUntilClose(z *html.Tokenizer, a atom.Atom) string {
	var buf bytes.Buffer
	depth := 1
	for depth > 0 {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()
		switch tt {
		case html.StartTagToken:
			if tagAtom(raw) == a {
				depth++
			}
		case html.EndTagToken:
			if tagAtom(raw) == a {
				depth--
			}
		}
		buf.Write(raw)
	}
	return buf.String()
}

// tagAtom resolves the atom of a raw tag token like "<h1>" or "</div>".
func tagAtom(raw []byte) atom.Atom {
	name := bytes.Trim(raw, "</> \t\r\n")
	if i := bytes.IndexAny(name, " \t\r\n/"); i >= 0 {
		name = name[:i]
	}
	return atom.Lookup(bytes.ToLower(name))
}

func attrVal(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func colorOf(tok html.Token) string {
	if c := attrVal(tok, "data-color"); c != "" {
		return c
	}
	return DefaultColor
}

// Render serializes an envelope back into the on-disk blob form. A missing
// metadata block is re-emitted from color so that save always writes both
// markers.
func Render(metadata, color, title, body string) []byte {
	var buf bytes.Buffer
	if metadata == "" {
		metadata = MetadataBlock(color)
	}
	buf.WriteString(metadata)
	buf.WriteString("<h1>")
	buf.WriteString(title)
	buf.WriteString("</h1>")
	buf.WriteString(body)
	return buf.Bytes()
}

// MetadataBlock builds a fresh hidden metadata div for the given color.
func MetadataBlock(color string) string {
	if color == "" {
		color = DefaultColor
	}
	return `<div id="metadata" style="display:none;" data-color="` + color + `"></div>`
}

// Slugify derives a filesystem-safe filename stem from a title: runs of
// non-alphanumerics collapse to a single underscore, the result is
// lowercased, and a title that slugs down to nothing yields DefaultSlug.
func Slugify(title string) string {
	s := nonAlnumRe.ReplaceAllString(title, "_")
	s = strings.Trim(s, "_")
	s = strings.ToLower(s)
	if s == "" {
		return DefaultSlug
	}
	return s
}

// TitleFromFilename derives a display title from a library filename:
// "data_retention_policy.html" → "data retention policy".
func TitleFromFilename(name string) string {
	name = strings.TrimSuffix(name, ".html")
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return "Untitled"
	}
	return name
}

// PlainText strips markup from an HTML fragment, inserting spaces at block
// boundaries so words do not run together. Used for word counts and for the
// AI context window.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var buf bytes.Buffer
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			buf.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			buf.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

// WordCount counts whitespace-separated words in plain text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
