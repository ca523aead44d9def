package model

// Attribute names used by UIAutomator2 page sources.
const (
	AttrText        = "text"
	AttrResourceID  = "resource-id"
	AttrContentDesc = "content-desc"
	AttrIndex       = "index"
	AttrPackage     = "package"
	AttrClass       = "class"
	AttrEnabled     = "enabled"
	AttrBounds      = "bounds"
	AttrDisplayed   = "displayed"
)

// Attr is a single name/value pair on a Node, in document order.
type Attr struct {
	Name  string `yaml:"name"  json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Node is an element of a UI hierarchy snapshot. Class is the element tag,
// which for Android is the fully-qualified widget class name.
type Node struct {
	Class    string
	Attrs    []Attr
	Children []*Node

	parent *Node
}

// NewNode creates a detached node.
func NewNode(class string, attrs ...Attr) *Node {
	return &Node{Class: class, Attrs: attrs}
}

// Append adds child as the last child of n and returns child.
func (n *Node) Append(child *Node) *Node {
	child.parent = n
	n.Children = append(n.Children, child)
	return child
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Text returns the display text attribute.
func (n *Node) Text() string { return n.Attr(AttrText) }

// ResourceID returns the resource identifier attribute.
func (n *Node) ResourceID() string { return n.Attr(AttrResourceID) }

// ContentDesc returns the accessibility description attribute.
func (n *Node) ContentDesc() string { return n.Attr(AttrContentDesc) }

// CopyAttrs returns a copy of the attribute list that stays valid after the
// tree is discarded.
func (n *Node) CopyAttrs() []Attr {
	out := make([]Attr, len(n.Attrs))
	copy(out, n.Attrs)
	return out
}

// Ancestors returns the chain of parents from the nearest to the root.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for p := n.parent; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	return chain
}

// Depth is the number of ancestors above n.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}
