package ai

import "strings"

// PageBreakToken is the marker the model emits where a printed page should
// end. Sanitize rewrites it to a styled horizontal rule.
const PageBreakToken = "[[PAGE_BREAK]]"

const pageBreakHTML = `<hr class="page-break">`

// Sanitize normalizes raw model output into an insertable HTML fragment:
// a wrapping markdown code fence is stripped and page-break tokens become
// rule elements. Sanitize is idempotent, so already-clean fragments pass
// through unchanged.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	s = stripFence(s)
	s = strings.ReplaceAll(s, PageBreakToken, pageBreakHTML)
	return strings.TrimSpace(s)
}

// stripFence removes a surrounding ```html ... ``` fence (any casing of the
// language tag, which may also be absent). Fences inside the fragment are
// left alone.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[len("```"):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		lang := strings.TrimSpace(rest[:nl])
		if lang == "" || strings.EqualFold(lang, "html") {
			rest = rest[nl+1:]
		} else {
			return s
		}
	} else {
		return s
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest)
}
