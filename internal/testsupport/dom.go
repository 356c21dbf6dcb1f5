// Package testsupport holds helpers shared by package tests.  The DOM helpers
// query rendered HTML the way a user reads a page: by label text and by
// visible text, never by internal ids.
package testsupport

import (
	"regexp"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// ParseHTML parses markup or fails the test.
func ParseHTML(tb testing.TB, markup string) *html.Node {
	tb.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		tb.Fatalf("parse html: %v", err)
	}
	return doc
}

// AllByText returns every element whose own text (direct text children,
// whitespace collapsed) matches re.
func AllByText(root *html.Node, re *regexp.Regexp) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data == "script" || n.Data == "style" {
			return
		}
		if txt := OwnText(n); txt != "" && re.MatchString(txt) {
			out = append(out, n)
		}
	})
	return out
}

// AllByExactText returns every element whose own text equals s.
func AllByExactText(root *html.Node, s string) []*html.Node {
	return AllByText(root, regexp.MustCompile(`^`+regexp.QuoteMeta(s)+`$`))
}

// ByLabelText returns the control bound to the single label matching re, or
// nil when no label or more than one label matches.
func ByLabelText(root *html.Node, re *regexp.Regexp) *html.Node {
	var labels []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "label" && re.MatchString(TextContent(n)) {
			labels = append(labels, n)
		}
	})
	if len(labels) != 1 {
		return nil
	}
	id := Attr(labels[0], "for")
	if id == "" {
		return nil
	}
	return ByID(root, id)
}

// ByID returns the element with the given id, or nil.
func ByID(root *html.Node, id string) *html.Node {
	var hit *html.Node
	walk(root, func(n *html.Node) {
		if hit == nil && n.Type == html.ElementNode && Attr(n, "id") == id {
			hit = n
		}
	})
	return hit
}

// AllByTag returns every element with the given tag name.
func AllByTag(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

// Attr returns the attribute value or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// Value returns what a form control currently holds.  Textarea content is
// returned as parsed, whitespace intact.
func Value(n *html.Node) string {
	if n.Data != "textarea" {
		return Attr(n, "value")
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// OwnText joins the direct text children of n with whitespace collapsed.
func OwnText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// TextContent joins all descendant text with whitespace collapsed.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
