// Package snapshot converts UI hierarchy page sources into model trees.
package snapshot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/mj1618/element-inspector/internal/model"
)

// ErrUnavailable means no usable snapshot could be obtained. Inspection is
// skipped when it is returned; it is never a fatal condition.
var ErrUnavailable = errors.New("no snapshot available")

// Parse builds a node tree from a page source document.
//
// The decoder runs in strict mode with no entity map: DOCTYPE declarations are
// kept as opaque directives, external DTDs and SYSTEM/PUBLIC entities are never
// fetched, and any entity reference beyond the five XML built-ins fails the
// parse. Empty, oversized, too deep or malformed input returns an error
// wrapping ErrUnavailable.
func Parse(markup string, opts ...Option) (*model.Node, error) {
	l, err := resolveLimits(opts)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(markup) == "" {
		return nil, fmt.Errorf("%w: empty page source", ErrUnavailable)
	}
	if len(markup) > l.maxBytes {
		return nil, fmt.Errorf("%w: page source is %d bytes, limit %d", ErrUnavailable, len(markup), l.maxBytes)
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = false
	doc.ReadSettings.Entity = nil
	if err := doc.ReadFromString(markup); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrUnavailable)
	}

	node, err := convert(root, 0, l.maxDepth)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// convert copies an etree element and its element children into model nodes.
// Text, comments and processing instructions are dropped.
func convert(el *etree.Element, depth, maxDepth int) (*model.Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: element depth exceeds %d", ErrUnavailable, maxDepth)
	}
	n := model.NewNode(el.FullTag())
	if len(el.Attr) > 0 {
		n.Attrs = make([]model.Attr, 0, len(el.Attr))
		for _, a := range el.Attr {
			n.Attrs = append(n.Attrs, model.Attr{Name: a.FullKey(), Value: a.Value})
		}
	}
	for _, child := range el.ChildElements() {
		c, err := convert(child, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		n.Append(c)
	}
	return n, nil
}
