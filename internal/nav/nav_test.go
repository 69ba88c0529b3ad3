package nav

import (
	"testing"

	"github.com/compliee/compliee/internal/session"
)

func TestParseUnknownFallsBackToLanding(t *testing.T) {
	cases := map[string]View{
		"landing":  ViewLanding,
		"library":  ViewLibrary,
		"editor":   ViewEditor,
		"login":    ViewLogin,
		"pricing":  ViewPricing,
		"features": ViewFeatures,
		"terms":    ViewTerms,
		"bogus":    ViewLanding,
		"":         ViewLanding,
	}
	for in, want := range cases {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestProtectedViews(t *testing.T) {
	for _, v := range []View{ViewLibrary, ViewEditor} {
		if !Protected(v) {
			t.Errorf("Protected(%v) = false", v)
		}
	}
	for _, v := range []View{ViewLanding, ViewLogin, ViewPricing, ViewFeatures, ViewHelp, ViewPrivacy, ViewTerms, ViewSecurity} {
		if Protected(v) {
			t.Errorf("Protected(%v) = true", v)
		}
	}
}

func TestResolveRedirects(t *testing.T) {
	cases := []struct {
		requested View
		decision  session.Decision
		want      View
	}{
		{ViewEditor, session.Allow, ViewEditor},
		{ViewLibrary, session.Allow, ViewLibrary},
		{ViewEditor, session.RedirectLogin, ViewLogin},
		{ViewLibrary, session.RedirectPricing, ViewPricing},
		// Public views are never redirected; the gate lives inside the
		// protected destinations, not the router.
		{ViewPricing, session.RedirectLogin, ViewPricing},
		{ViewFeatures, session.RedirectPricing, ViewFeatures},
		{ViewLanding, session.RedirectLogin, ViewLanding},
	}
	for _, c := range cases {
		if got := Resolve(c.requested, c.decision); got != c.want {
			t.Errorf("Resolve(%v, %v) = %v, want %v", c.requested, c.decision, got, c.want)
		}
	}
}

func TestRouterHooksFireOnChange(t *testing.T) {
	r := NewRouter()
	var transitions []string
	r.OnNavigate(func(from, to View) {
		transitions = append(transitions, string(from)+"->"+string(to))
	})

	r.Navigate(ViewEditor, session.Allow)
	r.Navigate(ViewEditor, session.Allow) // no-op, same view
	r.Navigate(ViewLibrary, session.Allow)

	if len(transitions) != 2 {
		t.Fatalf("transitions = %v", transitions)
	}
	if transitions[0] != "landing->editor" || transitions[1] != "editor->library" {
		t.Errorf("transitions = %v", transitions)
	}
	if r.Current() != ViewLibrary {
		t.Errorf("current = %v", r.Current())
	}
}

func TestRouterGateOverride(t *testing.T) {
	r := NewRouter()
	got := r.Navigate(ViewEditor, session.RedirectPricing)
	if got != ViewPricing {
		t.Errorf("landed on %v, want pricing", got)
	}
	if r.Current() != ViewPricing {
		t.Errorf("current = %v", r.Current())
	}
}
