package tex2html

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document wraps a parsed HTML tree. The transformer owns the tree for the
// duration of one transform call; afterwards it belongs to the caller.
type Document struct {
	root *html.Node
}

// Element is one element node in a Document.
type Element struct {
	node *html.Node
}

// ParseDocument parses markup into a Document.
func ParseDocument(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarkupParse, err)
	}
	return &Document{root: root}, nil
}

// ElementsByTag returns all elements with the given tag name in document
// order.
func (d *Document) ElementsByTag(tag string) []*Element {
	var out []*Element
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, &Element{node: n})
		}
	})
	return out
}

// Render serializes the tree back to markup.
func (d *Document) Render() (string, error) {
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkupRender, err)
	}
	return b.String(), nil
}

// Text returns the concatenated text content of the whole tree.
func (d *Document) Text() string {
	var b strings.Builder
	walk(d.root, func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	})
	return b.String()
}

// walk visits n and its descendants depth-first.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.node.Data }

// Attr returns the value of the named attribute, or "".
func (e *Element) Attr(name string) string {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// SetAttr sets or adds the named attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// HasClass reports whether the element's class attribute contains name.
func (e *Element) HasClass(name string) bool {
	for _, c := range strings.Fields(e.Attr("class")) {
		if c == name {
			return true
		}
	}
	return false
}

// Text returns the element's concatenated text content.
func (e *Element) Text() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	})
	return b.String()
}

// ReplaceWith substitutes the element with the parsed fragment, in place.
func (e *Element) ReplaceWith(fragment string) error {
	parent := e.node.Parent
	if parent == nil {
		return ErrDetachedNode
	}

	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFragmentParse, err)
	}

	for _, n := range nodes {
		parent.InsertBefore(n, e.node)
	}
	parent.RemoveChild(e.node)
	return nil
}
