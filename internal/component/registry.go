// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web mounts every
// component’s Routes() at “/” and, before serving, invokes Init() when the
// component implements the Initializer interface.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Initializer is optional.  If a Component implements it, cmd/web calls
// Init(root) once at start-up with the service root directory so the
// component can register forms, templates, or operator overrides.
type Initializer interface {
	Init(root string) error
}

// Component contract.
//
// Routes() should mount BOTH page and asset endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/contact", getContact)
//	r.Post("/contact", postContact)
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name so mount order is
// stable between runs.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// InitAll runs Init on every component that implements Initializer.
func InitAll(root string) error {
	for _, c := range All() {
		if in, ok := c.(Initializer); ok {
			if err := in.Init(root); err != nil {
				return err
			}
		}
	}
	return nil
}
