// internal/form/state.go
//
// Forms subsystem: widget state machine.
//
// Context
//   A Widget owns one FormState and re-derives everything else from it.
//   Two events mutate state, OnFieldChange and OnSubmit; each one is applied
//   synchronously and the next Render reflects it in full.  Nothing is cached
//   between events, so the visible errors can never go stale.
//
//   States are Editing (initial) and SubmittedValid (terminal).  A submit
//   with zero errors moves to SubmittedValid; a submit with errors stays in
//   Editing and reveals every failing field.
//
//   Before the first submit only fields that received a change event show
//   their error.  After a submit every failing field shows.
//
//------------------------------------------------------------------------------

package form

// Phase is the rendering state of a Widget.
type Phase int

const (
	Editing Phase = iota
	SubmittedValid
)

func (p Phase) String() string {
	if p == SubmittedValid {
		return "submitted"
	}
	return "editing"
}

// FormState is the raw widget state.  Values is keyed by field name.
type FormState struct {
	Values    map[string]string
	Touched   map[string]bool
	Submitted bool
}

// Widget is one instance of a form.  It is not safe for concurrent use;
// each request builds its own.
type Widget struct {
	def   *FormDef
	state FormState
	phase Phase
}

// NewWidget returns an empty Widget in the Editing phase.
func NewWidget(def *FormDef) *Widget {
	return &Widget{
		def: def,
		state: FormState{
			Values:  make(map[string]string, len(def.Fields)),
			Touched: make(map[string]bool, len(def.Fields)),
		},
	}
}

// Def returns the definition backing the widget.
func (w *Widget) Def() *FormDef { return w.def }

// Phase reports the current rendering state.
func (w *Widget) Phase() Phase { return w.phase }

// Value returns the current raw value of a field.
func (w *Widget) Value(name string) string { return w.state.Values[name] }

// Touched reports whether name has received a change event.
func (w *Widget) Touched(name string) bool { return w.state.Touched[name] }

// Submitted reports whether a submit event has happened.
func (w *Widget) Submitted() bool { return w.state.Submitted }

// Values returns a copy of the field values keyed by field name.
func (w *Widget) Values() map[string]string {
	out := make(map[string]string, len(w.def.Fields))
	for _, f := range w.def.Fields {
		out[f.Name] = w.state.Values[f.Name]
	}
	return out
}

// OnFieldChange stores value for the named field and marks it touched.
// Unknown names are ignored, and so is every change after a valid submit.
func (w *Widget) OnFieldChange(name, value string) {
	if w.phase == SubmittedValid || w.def.Field(name) == nil {
		return
	}
	w.state.Values[name] = value
	w.state.Touched[name] = true
}

// OnSubmit marks the form submitted and validates every field.  It returns
// true when the widget moved to (or already was in) SubmittedValid.
func (w *Widget) OnSubmit() bool {
	if w.phase == SubmittedValid {
		return true
	}
	w.state.Submitted = true
	if len(ValidateValues(w.def, w.state.Values)) == 0 {
		w.phase = SubmittedValid
		return true
	}
	return false
}

// Errors returns the errors currently visible: failing fields that were
// touched, or every failing field once a submit happened.
func (w *Widget) Errors() ValidationErrors {
	errs := make(ValidationErrors)
	if w.phase == SubmittedValid {
		return errs
	}
	for i := range w.def.Fields {
		f := &w.def.Fields[i]
		if !w.state.Submitted && !w.state.Touched[f.Name] {
			continue
		}
		if msg := CheckField(f, w.state.Values[f.Name]); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}
