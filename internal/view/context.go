// context.go defines the per-request Context passed into page templates.
// It owns the head.Builder so components can push tags into the eventual
// <head> section before the layout renders.
package view

import (
	"net/http"

	"github.com/yanizio/adept-contact/internal/head"
)

// Context is created once per request.
type Context struct {
	Request *http.Request
	Head    *head.Builder
}

// NewContext initialises a Context with the default head tags.
func NewContext(r *http.Request) *Context {
	h := head.New()
	h.Meta(`<meta charset="utf-8">`)
	h.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	return &Context{Request: r, Head: h}
}
