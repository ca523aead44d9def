// Package excerpt renders the markup surrounding a matched node.
package excerpt

import (
	"strings"

	"github.com/mj1618/element-inspector/internal/model"
)

const (
	// DefaultDepth is how many levels below the container are rendered.
	DefaultDepth = 4

	indentStep   = 2
	maxAttrRunes = 35
	keepAttr     = 32
	maxLineRunes = 96
	keepLine     = 93
	ellipsis     = "..."
)

// rendered attributes, in output order
var blockAttrs = []string{model.AttrText, model.AttrResourceID, model.AttrContentDesc}

// ContainerOf returns the nearest ancestor of n whose class marks it as a
// container. When no ancestor qualifies, n itself is returned.
func ContainerOf(n *model.Node) *model.Node {
	if n == nil {
		return nil
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if model.IsContainer(p.Class) {
			return p
		}
	}
	return n
}

// Render returns the subtree rooted at n as indented XML-like text, one
// element per line. Subtrees deeper than maxDepth collapse into "...".
func Render(n *model.Node, maxDepth int) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	renderRecursive(&b, n, 0, maxDepth)
	return b.String()
}

// Lines is Render split into lines with blank lines dropped.
func Lines(n *model.Node, maxDepth int) []string {
	var lines []string
	for _, line := range strings.Split(Render(n, maxDepth), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func renderRecursive(b *strings.Builder, n *model.Node, indent, maxDepth int) {
	pad := strings.Repeat(" ", indent)
	if maxDepth < 0 {
		writeLine(b, pad+ellipsis)
		return
	}

	tag := model.ShortClassName(n.Class)
	var open strings.Builder
	open.WriteString(pad)
	open.WriteString("<")
	open.WriteString(tag)
	for _, name := range blockAttrs {
		value := n.Attr(name)
		if value == "" {
			continue
		}
		open.WriteString(" ")
		open.WriteString(name)
		open.WriteString(`="`)
		open.WriteString(attrValue(name, value))
		open.WriteString(`"`)
	}

	if len(n.Children) == 0 {
		open.WriteString("/>")
		writeLine(b, open.String())
		return
	}

	open.WriteString(">")
	writeLine(b, open.String())
	for _, child := range n.Children {
		renderRecursive(b, child, indent+indentStep, maxDepth-1)
	}
	writeLine(b, pad+"</"+tag+">")
}

func attrValue(name, value string) string {
	short := truncate(value, maxAttrRunes, keepAttr)
	if name == model.AttrResourceID && strings.Contains(short, ":id/") {
		short = short[strings.LastIndex(short, "/")+1:]
	}
	return short
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(truncate(line, maxLineRunes, keepLine))
	b.WriteString("\n")
}

// truncate cuts s to keep runes plus an ellipsis when it is longer than limit.
func truncate(s string, limit, keep int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:keep]) + ellipsis
}
