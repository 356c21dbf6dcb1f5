// internal/form/submit.go
//
// Forms subsystem: request helpers.
//
// Context
//   The widget lives for one request.  The rendered markup carries its state
//   (field values, `touched` markers, the `submitted` flag), so a POST holds
//   everything needed to rebuild the widget, apply one event, and render
//   again.  HandleChange and HandleSubmit do exactly that and keep component
//   handlers terse.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
	"net/url"
)

// Reserved request keys.  Field names may not use them.
const (
	keyCSRF      = "csrf_token"
	keyTouched   = "touched"
	keySubmitted = "submitted"
	keyField     = "field"
)

var reservedNames = map[string]bool{
	keyCSRF: true, keyTouched: true, keySubmitted: true, keyField: true,
}

// ErrCSRF is returned when a request carries a missing or invalid token.
var ErrCSRF = errors.New("form: security token invalid")

// ErrUnknownField is returned by HandleChange for a field the form lacks.
var ErrUnknownField = errors.New("form: unknown field")

// FromValues rebuilds a widget from posted values.  Only defined fields are
// read; unknown keys are ignored.
func FromValues(fd *FormDef, posted url.Values) *Widget {
	w := NewWidget(fd)
	for _, f := range fd.Fields {
		if vals, ok := posted[f.Name]; ok && len(vals) > 0 {
			w.state.Values[f.Name] = vals[0]
		}
	}
	for _, name := range posted[keyTouched] {
		if fd.Field(name) != nil {
			w.state.Touched[name] = true
		}
	}
	w.state.Submitted = posted.Get(keySubmitted) == "1"
	return w
}

// HandleChange parses r, verifies the token, and applies one change event
// for the field named by the `field` key.
func HandleChange(fd *FormDef, r *http.Request) (*Widget, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	w := FromValues(fd, r.PostForm)

	name := r.PostForm.Get(keyField)
	if fd.Field(name) == nil {
		return w, ErrUnknownField
	}
	w.OnFieldChange(name, r.PostForm.Get(name))
	return w, nil
}

// HandleSubmit parses r, verifies the token, applies the submit event, and
// runs the form actions when the widget is valid.  A failed validation
// returns the widget together with an error satisfying IsValidationError.
func HandleSubmit(fd *FormDef, r *http.Request) (*Widget, error) {
	if err := parse(r); err != nil {
		return nil, err
	}
	w := FromValues(fd, r.PostForm)

	if !w.OnSubmit() {
		return w, validationError{Fields: w.Errors()}
	}
	ExecuteActions(r.Context(), w)
	return w, nil
}

func parse(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if !VerifyToken(r.PostForm.Get(keyCSRF)) {
		return ErrCSRF
	}
	return nil
}
