// internal/form/validate_test.go
//
// Unit-tests for field rule evaluation.
//
// Context
// -------
// Field rules compile to go-playground/validator tags.  These tests check
// the tag built for each field shape, the configured and default messages,
// and that ValidateValues only reports fields with a rule violation.
//
// Workflow
// --------
// Table tests feed FieldDef shapes and raw values straight to CheckField and
// ruleTag, with no Widget involved.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckField(t *testing.T) {
	fd := contactDef(t)

	cases := []struct {
		field string
		value string
		fail  bool
	}{
		{"firstName", "", true},
		{"firstName", "chas", true},
		{"firstName", "charlie", false},
		{"firstName", "     ", false}, // length counts raw characters
		{"firstName", "日本語です", false},
		{"firstName", "日本語", true},
		{"lastName", "", true},
		{"lastName", "m", false},
		{"email", "", true},
		{"email", "charliemay", true},
		{"email", "charlie@", true},
		{"email", "charlie@gmail.com", false},
		{"message", "", false},
		{"message", "anything at all", false},
	}
	for _, tc := range cases {
		msg := CheckField(fd.Field(tc.field), tc.value)
		if (msg != "") != tc.fail {
			t.Errorf("CheckField(%s, %q) = %q, want fail=%v", tc.field, tc.value, msg, tc.fail)
		}
	}
}

func TestCheckField_UsesConfiguredMessage(t *testing.T) {
	fd := contactDef(t)
	want := "Error: firstname must have at least 5 characters."
	if got := CheckField(fd.Field("firstName"), "chas"); got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
	if got := CheckField(fd.Field("firstName"), ""); got != want {
		t.Fatalf("empty value message = %q, want %q", got, want)
	}
}

func TestCheckField_DefaultMessages(t *testing.T) {
	cases := []struct {
		f     FieldDef
		value string
		want  string
	}{
		{FieldDef{Name: "a", Type: "text", Required: true}, "", "This field is required."},
		{FieldDef{Name: "a", Type: "text", MinLength: 3}, "ab", "Must be at least 3 characters."},
		{FieldDef{Name: "a", Type: "text", MaxLength: 2}, "abc", "Must be at most 2 characters."},
		{FieldDef{Name: "a", Type: "email"}, "nope", "Must be a valid email address."},
		{FieldDef{Name: "a", Type: "text", Pattern: `[0-9]+`}, "12a", "Input does not match required format."},
		{FieldDef{Name: "a", Type: "text", Pattern: `[0-9]+`}, "", ""},
		{FieldDef{Name: "a", Type: "text", MinLength: 3}, "", ""},
	}
	for _, tc := range cases {
		if got := CheckField(&tc.f, tc.value); got != tc.want {
			t.Errorf("CheckField(%+v, %q) = %q, want %q", tc.f, tc.value, got, tc.want)
		}
	}
}

func TestRuleTag(t *testing.T) {
	cases := map[string]FieldDef{
		"required,min=5":        {Required: true, MinLength: 5, Type: "text"},
		"required,email":        {Required: true, Type: "email"},
		"omitempty,max=10":      {MaxLength: 10, Type: "textarea"},
		"":                      {Type: "textarea"},
		"omitempty,min=1,max=2": {MinLength: 1, MaxLength: 2, Type: "text"},
	}
	for want, f := range cases {
		if got := ruleTag(&f); got != want {
			t.Errorf("ruleTag(%+v) = %q, want %q", f, got, want)
		}
	}
}

func TestValidateValues(t *testing.T) {
	fd := contactDef(t)
	got := ValidateValues(fd, map[string]string{"firstName": "charlie", "email": "charliemay"})
	want := ValidationErrors{
		"lastName": "Error: lastname is a required field.",
		"email":    "Error: email must be a valid email address.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ValidateValues (-want +got):\n%s", diff)
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(validationError{Fields: ValidationErrors{"a": "b"}}) {
		t.Fatalf("validationError not recognised")
	}
	if IsValidationError(ErrCSRF) {
		t.Fatalf("ErrCSRF reported as validation error")
	}
}
