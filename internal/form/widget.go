// internal/form/widget.go
//
// Forms subsystem: widget integration.
//
// Context
//   Page templates embed forms through the widget system:
//
//       {{ widget "contact/contact" (dict "state" .Form "action" "/contact") }}
//
//   This adapter wraps Widget.Render and always returns view.CacheSkip so
//   pages never cache CSRF tokens.
//
//------------------------------------------------------------------------------

package form

import (
	"go.uber.org/zap"

	"github.com/yanizio/adept-contact/internal/view"
	"github.com/yanizio/adept-contact/internal/widget"
)

var _ widget.Widget = (*formWidget)(nil)

type formWidget struct{ def *FormDef }

// ID implements widget.Widget.
func (w *formWidget) ID() string { return w.def.ID }

// Render converts widget state into HTML.  params may include:
//
//   - "state"  *Widget – current state; a fresh widget when absent
//   - "action" string  – submit URL
//   - "change" string  – live validation URL
func (w *formWidget) Render(_ any, params map[string]any) (string, int, error) {
	st, _ := params["state"].(*Widget)
	if st == nil || st.def.ID != w.def.ID {
		st = NewWidget(w.def)
	}
	action, _ := params["action"].(string)
	change, _ := params["change"].(string)

	out, err := st.HTML(RenderOptions{Action: action, ChangeAction: change})
	if err != nil {
		return "", int(view.CacheSkip), err
	}
	return string(out), int(view.CacheSkip), nil
}

// injectWidgetRegistration is called by Register after each FormDef loads.
func injectWidgetRegistration(fd *FormDef) {
	if widget.Register(&formWidget{def: fd}) {
		zap.S().Infow("form widget overridden", "form", fd.ID)
	}
}
