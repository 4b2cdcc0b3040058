package domain

import "slices"

// Node is an in-memory Element. Parsers build trees of Nodes and hand them
// out as Elements; nothing mutates a tree once it has been returned.
type Node struct {
	name     string
	attrs    []nodeAttr
	children map[ElementKind][]Element
}

type nodeAttr struct {
	name  string
	value string
}

// NewNode creates an element with the given name.
func NewNode(name string) *Node {
	return &Node{name: name, children: make(map[ElementKind][]Element)}
}

// With appends an attribute value. Repeating a name adds another value.
func (n *Node) With(name, value string) *Node {
	n.attrs = append(n.attrs, nodeAttr{name: name, value: value})
	return n
}

// Append adds children of the given kind after any existing ones.
func (n *Node) Append(kind ElementKind, children ...*Node) *Node {
	for _, c := range children {
		n.children[kind] = append(n.children[kind], c)
	}
	return n
}

// Attr implements Element.
func (n *Node) Attr(name string) (Attribute, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return StringAttribute(a.value), true
		}
	}
	return nil, false
}

// Attributes implements Element.
func (n *Node) Attributes(name string) []Attribute {
	var out []Attribute
	for _, a := range n.attrs {
		if a.name == name {
			out = append(out, StringAttribute(a.value))
		}
	}
	return out
}

// ElementsOfKind implements Element. The returned slice is a copy.
func (n *Node) ElementsOfKind(kind ElementKind) []Element {
	return slices.Clone(n.children[kind])
}

// Name implements Element.
func (n *Node) Name() string { return n.name }
