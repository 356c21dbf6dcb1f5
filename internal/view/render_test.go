// internal/view/render_test.go
//
// Unit-tests for the layout renderer and widget func map.
//
// Run: go test ./internal/view -v

package view

import (
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/yanizio/adept-contact/internal/widget"
)

type echoWidget struct{}

func (echoWidget) ID() string { return "test/echo" }

func (echoWidget) Render(rctx any, params map[string]any) (string, int, error) {
	ctx, _ := rctx.(*Context)
	path := ""
	if ctx != nil {
		path = ctx.Request.URL.Path
	}
	name, _ := params["name"].(string)
	return "<em>" + name + "@" + path + "</em>", int(CacheSkip), nil
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"page.html": {Data: []byte(`{{define "content"}}<p>{{.Data}}</p>{{widget "test/echo" (dict "name" "w")}}{{widget "test/missing" nil}}{{end}}`)},
	}
}

func TestRender_LayoutAndWidgets(t *testing.T) {
	widget.Register(echoWidget{})
	RegisterTemplates("viewtest", testFS())

	for _, path := range []string{"/first", "/second"} {
		ctx := NewContext(httptest.NewRequest("GET", path, nil))
		ctx.Head.SetTitle("Hello <you>")

		var sb strings.Builder
		if err := Render(ctx, &sb, "viewtest", "a & b", CacheDefault); err != nil {
			t.Fatal(err)
		}
		out := sb.String()
		for _, want := range []string{
			"<title>Hello &lt;you&gt;</title>",
			`<meta charset="utf-8">`,
			"<p>a &amp; b</p>",
			"<em>w@" + path + "</em>",
			"<!-- widget not found -->",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("%s: missing %q in\n%s", path, want, out)
			}
		}
	}
}

func TestRender_UnknownComponent(t *testing.T) {
	ctx := NewContext(httptest.NewRequest("GET", "/", nil))
	if err := Render(ctx, &strings.Builder{}, "nope", nil, CacheSkip); err == nil {
		t.Fatal("expected error for unregistered component")
	}
}

func TestDict(t *testing.T) {
	m := dict("a", 1, "b", "two", "dangling")
	if len(m) != 2 || m["a"] != 1 || m["b"] != "two" {
		t.Fatalf("dict = %v", m)
	}
}
