// internal/form/validate.go
//
// Forms subsystem: field rule evaluation.
//
// Context
//   Every rule in a FieldDef (required, minlength, maxlength, email shape,
//   pattern) is checked here.  The widget calls CheckField on every change and
//   on submit, so the function is pure: same definition and value, same
//   answer.  Length and email rules are expressed as go-playground/validator
//   tags built from the FieldDef, so the email boundary is the validator’s
//   `email` rule (accepts “charlie@gmail.com”, rejects “charliemay”).
//
// Workflow
//   •  ruleTag turns a FieldDef into a validator tag, e.g. “required,min=5”.
//   •  CheckField runs the tag, then the optional pattern, and returns the
//      user-facing message or "".
//   •  A FieldDef with an `error` string reports that text for every rule;
//      otherwise a default per rule is used.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	v        = validator.New()
	patterns sync.Map // pattern → *regexp.Regexp
)

// ValidationErrors maps a field name to its visible error message.  Fields
// without an entry are valid (or not yet shown).
type ValidationErrors map[string]string

// Has reports whether name currently shows an error.
func (e ValidationErrors) Has(name string) bool {
	_, ok := e[name]
	return ok
}

// Get returns the message for name or "".
func (e ValidationErrors) Get(name string) string { return e[name] }

// validationError wraps ValidationErrors and satisfies the error interface so
// HandleSubmit callers can tell user input errors from system failures.
type validationError struct{ Fields ValidationErrors }

func (ve validationError) Error() string {
	return fmt.Sprintf("form validation failed: %d field(s)", len(ve.Fields))
}

// IsValidationError reports whether err came from a failed submit.
func IsValidationError(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// CheckField validates one raw value against f.  It returns "" when the value
// passes every rule.  Values are checked as typed; no trimming happens here.
func CheckField(f *FieldDef, value string) string {
	if tag := ruleTag(f); tag != "" {
		if err := v.Var(value, tag); err != nil {
			return messageFor(f, err)
		}
	}
	if f.Pattern != "" && value != "" && !compiled(f.Pattern).MatchString(value) {
		return patternMsg(f)
	}
	return ""
}

// ValidateValues checks every field of fd against values and returns the
// failing ones.
func ValidateValues(fd *FormDef, values map[string]string) ValidationErrors {
	errs := make(ValidationErrors)
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if msg := CheckField(f, values[f.Name]); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// ruleTag builds the validator tag for f.  Optional fields get omitempty so
// an empty value skips the remaining rules.
func ruleTag(f *FieldDef) string {
	var parts []string
	if f.Required {
		parts = append(parts, "required")
	} else {
		parts = append(parts, "omitempty")
	}
	if f.MinLength > 0 {
		parts = append(parts, "min="+strconv.Itoa(f.MinLength))
	}
	if f.MaxLength > 0 {
		parts = append(parts, "max="+strconv.Itoa(f.MaxLength))
	}
	if f.Type == "email" {
		parts = append(parts, "email")
	}
	if len(parts) == 1 && parts[0] == "omitempty" {
		return ""
	}
	return strings.Join(parts, ",")
}

// messageFor maps the first failing validator rule to a user message.
func messageFor(f *FieldDef, err error) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "Invalid input."
	}
	switch ves[0].Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Must be at least %d characters.", f.MinLength)
	case "max":
		return fmt.Sprintf("Must be at most %d characters.", f.MaxLength)
	case "email":
		return "Must be a valid email address."
	default:
		return "Invalid input."
	}
}

func patternMsg(f *FieldDef) string {
	if f.ErrorMsg != "" {
		return f.ErrorMsg
	}
	return "Input does not match required format."
}

// compiled returns a cached regexp.  Patterns are pre-validated at load.
func compiled(pattern string) *regexp.Regexp {
	if re, ok := patterns.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`^(?:` + pattern + `)$`)
	patterns.Store(pattern, re)
	return re
}
