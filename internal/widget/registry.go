// internal/widget/registry.go
//
// Embeddable fragments keyed by "<component>/<name>".
//
// Every loaded form definition registers itself here, so a page template
// embeds the contact form with
//
//	{{ widget "contact/contact" (dict "state" .Data.Form) }}
//
// and view resolves the key at render time.
package widget

import "sync"

// Widget renders one fragment.  policy is a view.CachePolicy value; forms
// always answer CacheSkip since each render carries a fresh CSRF token.
// Render is called concurrently and must not write to the response itself.
type Widget interface {
	ID() string
	Render(rctx any, params map[string]any) (html string, policy int, err error)
}

var (
	mu      sync.RWMutex
	widgets = map[string]Widget{}
)

// Register stores w under w.ID().  replaced reports that an earlier widget
// held the key; the new one wins.
func Register(w Widget) (replaced bool) {
	mu.Lock()
	defer mu.Unlock()
	_, replaced = widgets[w.ID()]
	widgets[w.ID()] = w
	return replaced
}

// Lookup returns the widget for key, or nil.
func Lookup(key string) Widget {
	mu.RLock()
	defer mu.RUnlock()
	return widgets[key]
}
