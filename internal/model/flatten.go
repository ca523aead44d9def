package model

import "strings"

// FlatNode is a node with a path breadcrumb and its position in the
// canonical traversal order.
type FlatNode struct {
	Order int    `yaml:"order" json:"order"`
	Depth int    `yaml:"depth" json:"depth"`
	Class string `yaml:"class" json:"class"`
	Path  string `yaml:"path"  json:"path"`
	Node  *Node  `yaml:"-"     json:"-"`
}

// Walk visits every node under root exactly once in pre-order, children in
// document order. This is the canonical traversal order: selection ties are
// broken by it. Returning false from fn stops the walk.
func Walk(root *Node, fn func(n *Node) bool) {
	if root == nil {
		return
	}
	walkRecursive(root, fn)
}

func walkRecursive(n *Node, fn func(n *Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !walkRecursive(child, fn) {
			return false
		}
	}
	return true
}

// Flatten converts a tree into a flat list in canonical order. Each entry
// carries a path of short class names joined with " > ".
func Flatten(root *Node) []FlatNode {
	var result []FlatNode
	if root == nil {
		return result
	}
	flattenRecursive(root, "", 0, &result)
	return result
}

func flattenRecursive(n *Node, parentPath string, depth int, result *[]FlatNode) {
	currentPath := ShortClassName(n.Class)
	if parentPath != "" {
		currentPath = parentPath + " > " + currentPath
	}

	*result = append(*result, FlatNode{
		Order: len(*result),
		Depth: depth,
		Class: n.Class,
		Path:  currentPath,
		Node:  n,
	})

	for _, child := range n.Children {
		flattenRecursive(child, currentPath, depth+1, result)
	}
}

// PathOf returns the breadcrumb from the root to n, e.g.
// "hierarchy > FrameLayout > ListView > TextView".
func PathOf(n *Node) string {
	if n == nil {
		return ""
	}
	chain := n.Ancestors()
	parts := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		parts = append(parts, ShortClassName(chain[i].Class))
	}
	parts = append(parts, ShortClassName(n.Class))
	return strings.Join(parts, " > ")
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node) bool {
		total++
		return true
	})
	return total
}
