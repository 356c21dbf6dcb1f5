// internal/form/renderer_test.go
//
// Unit-tests for the HTML renderer edges.
//
// Context
// -------
// The rendered form is the only carrier of state between requests, so what
// the browser parses back out must equal what the widget held.  These tests
// cover:
//
//   • a textarea value with a leading newline surviving render and re-post
//   • a CSRF token failure surfacing from Render instead of a dead token
//
// Workflow
// --------
// Token failures swap newToken for a failing func and restore it with
// t.Cleanup, so the tests in this package must not run in parallel.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package form

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/yanizio/adept-contact/internal/testsupport"
)

func TestRender_TextareaKeepsLeadingNewline(t *testing.T) {
	const msg = "\nhello\n  world"
	w := NewWidget(contactDef(t))
	w.OnFieldChange("message", msg)

	ctl := testsupport.ByLabelText(render(t, w), regexp.MustCompile(`(?i)message`))
	if ctl == nil {
		t.Fatalf("no message control")
	}
	got := testsupport.Value(ctl)
	if got != msg {
		t.Fatalf("textarea value = %q, want %q", got, msg)
	}

	again := FromValues(w.def, url.Values{"message": {got}, "touched": {"message"}})
	if again.Value("message") != msg {
		t.Fatalf("re-posted message = %q, want %q", again.Value("message"), msg)
	}
}

func TestRender_TokenFailureIsReturned(t *testing.T) {
	boom := errors.New("entropy exhausted")
	prev := newToken
	newToken = func() (string, error) { return "", boom }
	t.Cleanup(func() { newToken = prev })

	var sb strings.Builder
	err := NewWidget(contactDef(t)).Render(&sb, RenderOptions{Action: "/contact"})
	if !errors.Is(err, boom) {
		t.Fatalf("Render err = %v, want %v", err, boom)
	}
	if sb.Len() != 0 {
		t.Fatalf("markup written despite token failure: %q", sb.String())
	}
}

func TestRender_ConfirmationNeedsNoToken(t *testing.T) {
	prev := newToken
	newToken = func() (string, error) { return "", errors.New("unused") }
	t.Cleanup(func() { newToken = prev })

	w := NewWidget(contactDef(t))
	w.OnFieldChange("firstName", "charlie")
	w.OnFieldChange("lastName", "may")
	w.OnFieldChange("email", "charlie@gmail.com")
	w.OnSubmit()

	if _, err := w.HTML(RenderOptions{}); err != nil {
		t.Fatalf("confirmation render failed: %v", err)
	}
}
