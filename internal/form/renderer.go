// internal/form/renderer.go
//
// Forms subsystem: HTML renderer.
//
// Context
//   Render turns the current Widget state into markup.  There is no diffing:
//   every call re-derives the visible errors and writes the whole view tree,
//   either the editing form or the confirmation view.
//
// Workflow
//   •  Editing: a header, then one block per field with a <label for> bound to
//      the input id “fld-{name}”, the current value, and an error paragraph
//      when the field shows one.  Hidden inputs carry the touched markers,
//      the submitted flag, and a fresh CSRF token, so the next request can
//      rebuild the same state.
//   •  SubmittedValid: a header and one “Label: value” line per field.  Empty
//      optional fields are left out.
//   •  html/template escapes every user value.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var widgetTmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// newToken mints the CSRF token for renders that were not handed one.
var newToken = GenerateToken

// RenderOptions bundles request-specific parameters for the editing view.
type RenderOptions struct {
	Action       string // submit URL
	ChangeAction string // live validation URL
	CSRFToken    string // empty means generate one
}

type fieldView struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
	Touched     bool
}

type lineView struct {
	Name  string
	Label string
	Value string
}

type widgetView struct {
	DOMID        string
	Title        string
	Confirmed    bool
	Lines        []lineView
	Fields       []fieldView
	Submitted    bool
	Action       string
	ChangeAction string
	CSRFToken    string
}

// Render writes the widget markup to out.
func (w *Widget) Render(out io.Writer, opts RenderOptions) error {
	wv, err := w.view(opts)
	if err != nil {
		return fmt.Errorf("render form %s: %w", w.def.ID, err)
	}
	if err := widgetTmpl.ExecuteTemplate(out, "widget", wv); err != nil {
		return fmt.Errorf("render form %s: %w", w.def.ID, err)
	}
	return nil
}

// HTML renders the widget into a template.HTML so page templates can embed
// it without double escaping.
func (w *Widget) HTML(opts RenderOptions) (template.HTML, error) {
	var buf bytes.Buffer
	if err := w.Render(&buf, opts); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// view derives the template model from state.
func (w *Widget) view(opts RenderOptions) (widgetView, error) {
	wv := widgetView{
		DOMID: "form-" + strings.ReplaceAll(w.def.ID, "/", "-"),
		Title: w.def.Title,
	}

	if w.phase == SubmittedValid {
		wv.Confirmed = true
		for _, f := range w.def.Fields {
			val := w.state.Values[f.Name]
			if val == "" && !f.Required {
				continue
			}
			wv.Lines = append(wv.Lines, lineView{Name: f.Name, Label: f.SummaryLabel(), Value: val})
		}
		return wv, nil
	}

	errs := w.Errors()
	for _, f := range w.def.Fields {
		wv.Fields = append(wv.Fields, fieldView{
			Name:        f.Name,
			Label:       f.Label,
			Type:        f.Type,
			Placeholder: f.Placeholder,
			Value:       w.state.Values[f.Name],
			Error:       errs.Get(f.Name),
			Touched:     w.state.Touched[f.Name],
		})
	}
	wv.Submitted = w.state.Submitted
	wv.Action = opts.Action
	wv.ChangeAction = opts.ChangeAction
	wv.CSRFToken = opts.CSRFToken
	if wv.CSRFToken == "" {
		token, err := newToken()
		if err != nil {
			return widgetView{}, fmt.Errorf("csrf token: %w", err)
		}
		wv.CSRFToken = token
	}
	return wv, nil
}
