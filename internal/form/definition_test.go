// internal/form/definition_test.go
//
// Unit-tests for the YAML loader and registry.
//
// Context
// -------
// Form definitions live in components/*/forms/*.yaml.  RegisterForms walks
// only those directories, parses each file into a FormDef, and registers a
// widget for it.  These tests pin the parsed contact definition, the
// rejection of malformed files, and the widget a page template receives.
//
// Workflow
// --------
// Tests that touch the filesystem build a throwaway tree under t.TempDir().
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package form

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yanizio/adept-contact/internal/widget"
)

func TestParseFormDef_Contact(t *testing.T) {
	fd := contactDef(t)
	if fd.ID != "test/contact" || fd.Title != "Contact Form" || len(fd.Fields) != 4 {
		t.Fatalf("unexpected definition: %+v", fd)
	}
	if got := fd.Field("firstName").SummaryLabel(); got != "First Name" {
		t.Errorf("SummaryLabel = %q", got)
	}
	if fd.Field("nope") != nil {
		t.Errorf("Field returned a match for an unknown name")
	}
	if len(fd.Actions) != 1 || fd.Actions[0].Params["subject"] != "hello" {
		t.Errorf("actions = %+v", fd.Actions)
	}
}

func TestParseFormDef_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing 'id'":       "title: x\nfields: [{name: a, label: A, type: text}]",
		"must have 'fields'": "id: x/y",
		"missing 'name'":     "id: x/y\nfields: [{label: A, type: text}]",
		"missing 'label'":    "id: x/y\nfields: [{name: a, type: text}]",
		"unsupported type":   "id: x/y\nfields: [{name: a, label: A, type: select}]",
		"is reserved":        "id: x/y\nfields: [{name: touched, label: A, type: text}]",
		"duplicate field":    "id: x/y\nfields: [{name: a, label: A, type: text}, {name: a, label: B, type: text}]",
		"invalid regex":      "id: x/y\nfields: [{name: a, label: A, type: text, pattern: '('}]",
		"greater than":       "id: x/y\nfields: [{name: a, label: A, type: text, minlength: 5, maxlength: 2}]",
		"unknown action":     "id: x/y\nfields: [{name: a, label: A, type: text}]\nactions: [{type: webhook}]",
		"parse YAML":         "id: [",
	}
	for want, src := range cases {
		_, err := ParseFormDef([]byte(src), "case")
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("ParseFormDef(%q) err = %v, want %q", src, err, want)
		}
	}
}

func TestRegisterForms_ReadsFormsDirsOnly(t *testing.T) {
	root := t.TempDir()
	formsDir := filepath.Join(root, "components", "demo", "forms")
	otherDir := filepath.Join(root, "components", "demo", "config")
	for _, d := range []string{formsDir, otherDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	def := "id: demo/signup\ntitle: Signup\nfields: [{name: email, label: Email*, type: email, required: true}]\n"
	if err := os.WriteFile(filepath.Join(formsDir, "signup.yaml"), []byte(def), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(otherDir, "ignored.yaml"), []byte("not: a form"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := RegisterForms([]string{root, filepath.Join(root, "missing")})
	if err != nil || n != 1 {
		t.Fatalf("RegisterForms = %d, %v", n, err)
	}
	fd, ok := GetFormDef("demo/signup")
	if !ok || fd.Title != "Signup" {
		t.Fatalf("GetFormDef = %+v, %v", fd, ok)
	}
	if widget.Lookup("demo/signup") == nil {
		t.Fatalf("form not exposed as widget")
	}
}

func TestRegisterForms_FailsOnBadFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "components", "bad", "forms")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad/bad"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := RegisterForms([]string{root}); err == nil {
		t.Fatalf("expected error for invalid definition")
	}
	if _, err := RegisterForms(nil); err == nil {
		t.Fatalf("expected error for no base directories")
	}
}

func TestFormWidget_RendersFreshState(t *testing.T) {
	Register(contactDef(t))
	wd := widget.Lookup("test/contact")
	if wd == nil {
		t.Fatal("widget not registered")
	}

	st := NewWidget(contactDef(t))
	st.OnFieldChange("firstName", "chas")
	out, _, err := wd.Render(nil, map[string]any{"state": st, "action": "/contact"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Error: firstname") || !strings.Contains(out, `action="/contact"`) {
		t.Fatalf("state not rendered:\n%s", out)
	}

	out, _, err = wd.Render(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Error:") {
		t.Fatalf("fresh widget shows errors:\n%s", out)
	}
}
