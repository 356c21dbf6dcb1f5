// internal/form/fixtures_test.go
//
// Shared fixtures for the form tests.
//
// Context
// -------
// contactYAML mirrors the shipped contact form: firstName (five characters
// minimum), lastName, email, and an optional message.  The helpers drive a
// Widget the way a user does, by finding controls through their labels.
//
// Workflow
// --------
//  1. contactDef parses the fixture.
//  2. typeInto renders, locates the labelled control, and fires a change.
//  3. render returns the parsed markup for assertions.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package form

import (
	"regexp"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/yanizio/adept-contact/internal/testsupport"
)

const contactYAML = `
id: test/contact
title: Contact Form
fields:
  - name: firstName
    label: First Name*
    type: text
    required: true
    minlength: 5
    error: "Error: firstname must have at least 5 characters."
  - name: lastName
    label: Last Name*
    type: text
    required: true
    error: "Error: lastname is a required field."
  - name: email
    label: Email*
    type: email
    required: true
    error: "Error: email must be a valid email address."
  - name: message
    label: Message
    type: textarea
actions:
  - type: notify
    subject: hello
`

var errorText = regexp.MustCompile(`(?i)error:`)

func contactDef(t *testing.T) *FormDef {
	t.Helper()
	fd, err := ParseFormDef([]byte(contactYAML), "fixture")
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return fd
}

// render parses the widget markup.
func render(t *testing.T, w *Widget) *html.Node {
	t.Helper()
	var sb strings.Builder
	if err := w.Render(&sb, RenderOptions{Action: "/contact", ChangeAction: "/contact/change", CSRFToken: "tok"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	return testsupport.ParseHTML(t, sb.String())
}

// typeInto mimics a user typing into the control labelled by re.
func typeInto(t *testing.T, w *Widget, re string, value string) {
	t.Helper()
	ctl := testsupport.ByLabelText(render(t, w), regexp.MustCompile(re))
	if ctl == nil {
		t.Fatalf("no control labelled %s", re)
	}
	w.OnFieldChange(testsupport.Attr(ctl, "name"), value)
}

func countText(doc *html.Node, re string) int {
	return len(testsupport.AllByText(doc, regexp.MustCompile(re)))
}
