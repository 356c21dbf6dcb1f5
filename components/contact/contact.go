// components/contact/contact.go
//
// Contact component – the contact form page, live validation, and submit.
//
// Context
//   Every request rebuilds the widget from the posted values and hidden
//   state markers, applies exactly one event, and renders again.  Nothing is
//   kept server-side between requests.
//
//     GET  /contact             fresh form page
//     POST /contact/change      one change event, returns the widget fragment
//     POST /contact             submit event, returns the full page
//     GET  /assets/contact.js   live-validation script
//
//------------------------------------------------------------------------------

package contact

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/adept-contact/internal/component"
	"github.com/yanizio/adept-contact/internal/form"
	"github.com/yanizio/adept-contact/internal/logger"
	"github.com/yanizio/adept-contact/internal/metrics"
	"github.com/yanizio/adept-contact/internal/view"
)

const (
	formID       = "contact/contact"
	submitPath   = "/contact"
	changePath   = "/contact/change"
	scriptPath   = "/assets/contact.js"
	componentKey = "contact"
)

//go:embed forms/contact.yaml
var defaultDef []byte

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed assets/contact.js
var assetsFS embed.FS

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct{}

// page is the model handed to contact.html.
type page struct {
	Form *form.Widget
}

func (c *Comp) Name() string { return componentKey }

// Init registers the embedded form definition, then any operator override
// under <root>/components/contact/forms, then the page templates.
func (c *Comp) Init(root string) error {
	fd, err := form.ParseFormDef(defaultDef, "contact.yaml (embedded)")
	if err != nil {
		return err
	}
	form.Register(fd)

	if _, err := form.RegisterForms([]string{root}); err != nil {
		return fmt.Errorf("contact: form overrides: %w", err)
	}

	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return err
	}
	view.RegisterTemplates(componentKey, sub)
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get(submitPath, c.handlePage)
	r.Post(changePath, c.handleChange)
	r.Post(submitPath, c.handleSubmit)
	r.Get(scriptPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.ServeFileFS(w, r, assetsFS, "assets/contact.js")
	})
	return r
}

// Register component at package init.
func init() { component.Register(&Comp{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Comp) handlePage(w http.ResponseWriter, r *http.Request) {
	fd, ok := form.GetFormDef(formID)
	if !ok {
		c.fail(w, r, errors.New("form definition not registered"))
		return
	}
	c.renderPage(w, r, fd, form.NewWidget(fd))
}

func (c *Comp) handleChange(w http.ResponseWriter, r *http.Request) {
	fd, ok := form.GetFormDef(formID)
	if !ok {
		c.fail(w, r, errors.New("form definition not registered"))
		return
	}

	wd, err := form.HandleChange(fd, r)
	switch {
	case errors.Is(err, form.ErrCSRF):
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	case err != nil:
		logger.FromContext(r.Context()).Debugw("change rejected", "form", fd.ID, "err", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	metrics.FormChangesTotal.Inc()

	frag, err := wd.HTML(form.RenderOptions{Action: submitPath, ChangeAction: changePath})
	if err != nil {
		c.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, string(frag))
}

func (c *Comp) handleSubmit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	fd, ok := form.GetFormDef(formID)
	if !ok {
		c.fail(w, r, errors.New("form definition not registered"))
		return
	}

	wd, err := form.HandleSubmit(fd, r)
	switch {
	case err == nil:
		metrics.FormSubmissionsTotal.WithLabelValues(metrics.ResultAccepted).Inc()
	case form.IsValidationError(err):
		metrics.FormSubmissionsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		for name := range wd.Errors() {
			metrics.FormFieldErrorsTotal.WithLabelValues(name).Inc()
		}
		log.Debugw("submit invalid", "form", fd.ID, "fields", len(wd.Errors()))
	case errors.Is(err, form.ErrCSRF):
		metrics.FormSubmissionsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		log.Warnw("submit rejected", "form", fd.ID, "err", err)
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	default:
		metrics.FormSubmissionsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		log.Warnw("submit rejected", "form", fd.ID, "err", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	c.renderPage(w, r, fd, wd)
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

func (c *Comp) renderPage(w http.ResponseWriter, r *http.Request, fd *form.FormDef, wd *form.Widget) {
	vctx := view.NewContext(r)
	vctx.Head.SetTitle(fd.Title)
	vctx.Head.Script(`<script src="` + scriptPath + `" defer></script>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := view.Render(vctx, w, componentKey, page{Form: wd}, view.CacheDefault); err != nil {
		c.fail(w, r, err)
	}
}

func (c *Comp) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Errorw("contact handler failed", "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
