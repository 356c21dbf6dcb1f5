// internal/view/render.go
//
// Central view engine: per-component template sets, func-map injection,
// and an LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - RegisterTemplates – a component hands over its embedded templates.
//   - Render            – run the page layout with a component’s “content”.
//
// Every set is parsed from the shared layout plus all *.html files of the
// component, so sub-templates ({{ template "row" . }}) work out-of-the-box.
// Parsed sets are cached; each execution clones the cached set and binds the
// func map to the current request so widgets never see a stale context.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sync"

	"go.uber.org/zap"

	"github.com/yanizio/adept-contact/internal/cache"
	"github.com/yanizio/adept-contact/internal/head"
	"github.com/yanizio/adept-contact/internal/widget"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // reuse the parsed set
	CacheSkip                       // parse fresh every time
)

//go:embed templates/*.html
var layoutFS embed.FS

// Parsed template sets keyed by component; tweak capacity when perf-testing.
var tmplLRU = cache.New(64)

var (
	sourcesMu sync.RWMutex
	sources   = map[string]fs.FS{}
)

// Page is the data handed to the layout.  Data is the component’s own model.
type Page struct {
	Ctx  *Context
	Head *head.Builder
	Data any
}

//
// public helpers
//

// RegisterTemplates records fsys as the template source for comp.  fsys
// must contain the component’s *.html files at its root.
func RegisterTemplates(comp string, fsys fs.FS) {
	sourcesMu.Lock()
	sources[comp] = fsys
	sourcesMu.Unlock()
	tmplLRU.Remove(comp)
}

// Render executes the layout around the component template that defines
// “content” and streams the result to w.
func Render(ctx *Context, w io.Writer, comp string, data any, policy CachePolicy) error {
	t, err := load(ctx, comp, policy)
	if err != nil {
		return err
	}
	page := Page{Ctx: ctx, Head: ctx.Head, Data: data}
	if err := t.ExecuteTemplate(w, "layout", page); err != nil {
		return fmt.Errorf("view %s: %w", comp, err)
	}
	return nil
}

//
// internal: load
//

// load returns a request-bound clone of the component’s template set.
func load(ctx *Context, comp string, policy CachePolicy) (*template.Template, error) {
	var base *template.Template
	if policy != CacheSkip {
		if v, ok := tmplLRU.Get(comp); ok {
			base = v.(*template.Template)
		}
	}

	if base == nil {
		sourcesMu.RLock()
		fsys, ok := sources[comp]
		sourcesMu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("view: no templates registered for %q", comp)
		}

		t, err := template.New(comp).Funcs(buildFuncMap(nil)).ParseFS(layoutFS, "templates/*.html")
		if err != nil {
			return nil, fmt.Errorf("view: parse layout: %w", err)
		}
		if t, err = t.ParseFS(fsys, "*.html"); err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", comp, err)
		}
		base = t
		if policy != CacheSkip {
			tmplLRU.Add(comp, base)
		}
	}

	t, err := base.Clone()
	if err != nil {
		return nil, err
	}
	return t.Funcs(buildFuncMap(ctx)), nil
}

//
// func-map builders
//

func buildFuncMap(rctx *Context) template.FuncMap {
	return template.FuncMap{
		"dict":   dict,
		"widget": widgetFunc(rctx),
	}
}

//
// helpers
//

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// widgetFunc renders a registered widget and returns safe HTML.  Errors are
// hidden behind <!-- comments --> so end-users never see stack traces.
func widgetFunc(rctx *Context) func(string, map[string]any) template.HTML {
	return func(key string, params map[string]any) template.HTML {
		w := widget.Lookup(key)
		if w == nil {
			return template.HTML("<!-- widget not found -->")
		}
		html, _, err := w.Render(rctx, params)
		if err != nil {
			zap.S().Warnw("widget render failed", "widget", key, "err", err)
			return template.HTML("<!-- widget error -->")
		}
		return template.HTML(html)
	}
}
