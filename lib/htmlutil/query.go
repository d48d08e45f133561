package htmlutil

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Filter matches an attribute against a set of accepted values.
// For "class" an element matches when any of its classes is accepted,
// for every other attribute the whole value must be accepted.
type Filter struct {
	Attr   string
	Values []string
}

func Class(values ...string) *Filter {
	return &Filter{Attr: "class", Values: values}
}

func Attr(key string, values ...string) *Filter {
	return &Filter{Attr: key, Values: values}
}

func (f *Filter) match(node *html.Node) bool {
	if f == nil {
		return true
	}
	for _, a := range node.Attr {
		if a.Key != f.Attr {
			continue
		}
		if f.Attr == "class" {
			for _, class := range strings.Fields(a.Val) {
				if slices.Contains(f.Values, class) {
					return true
				}
			}
			return false
		}
		return slices.Contains(f.Values, a.Val)
	}
	return false
}

// Query is a tag name with an optional attribute filter.
type Query struct {
	Tag    string
	Filter *Filter
}

func (q Query) Match(node *html.Node) bool {
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	if q.Tag != "" && node.Data != q.Tag {
		return false
	}
	return q.Filter.match(node)
}

// FindAll returns every element under root (excluding root) that matches,
// in document order.
func (q Query) FindAll(root *html.Node) []*html.Node {
	var out []*html.Node
	for node := next(root, root); node != nil; node = next(node, root) {
		if q.Match(node) {
			out = append(out, node)
		}
	}
	return out
}

// FindFirst returns the first element under root that matches or nil.
func (q Query) FindFirst(root *html.Node) *html.Node {
	for node := next(root, root); node != nil; node = next(node, root) {
		if q.Match(node) {
			return node
		}
	}
	return nil
}

// FindNext returns the first element after node in document order that
// matches, this includes node's own descendants. It returns nil when
// nothing in the rest of the document matches.
func (q Query) FindNext(node *html.Node) *html.Node {
	for current := next(node, nil); current != nil; current = next(current, nil) {
		if q.Match(current) {
			return current
		}
	}
	return nil
}

// next steps through the tree in document order (pre-order), never
// leaving the subtree rooted at boundary. A nil boundary walks to the
// end of the document.
func next(node, boundary *html.Node) *html.Node {
	if node.FirstChild != nil {
		return node.FirstChild
	}
	for node != nil && node != boundary {
		if node.NextSibling != nil {
			return node.NextSibling
		}
		node = node.Parent
	}
	return nil
}
