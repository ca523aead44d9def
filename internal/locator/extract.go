// Package locator turns failed lookup descriptors into search terms and
// derives replacement locators for a matched node.
package locator

import (
	"regexp"
	"strings"
)

// Identifier lookups in the "By.<strategy>: <value>" descriptor convention.
const (
	idPrefix    = "By.id:"
	descPrefix  = "By.accessibilityId:"
	classPrefix = "By.className:"
)

// idNamespace separates an Android package from a resource name.
const idNamespace = ":id/"

var (
	textCondRe = regexp.MustCompile(`@text\s*=\s*['"]([^'"]+)['"]`)
	idCondRe   = regexp.MustCompile(`@resource-id\s*=\s*['"]([^'"]+)['"]`)
	descCondRe = regexp.MustCompile(`@content-desc\s*=\s*['"]([^'"]+)['"]`)
)

// ExtractTerm derives the search term from a failed locator descriptor.
// Rules are tried in order and the first that applies wins:
//
//  1. identifier lookup ("By.id: pkg:id/name"): the resource name;
//     "By.accessibilityId: v" and "By.className: v" yield v
//  2. an @text='…' condition: its value
//  3. an @resource-id='…' condition: its resource name
//  4. an @content-desc='…' condition: its value
//  5. otherwise the descriptor itself
//
// The result is trimmed; case is preserved.
func ExtractTerm(descriptor string) string {
	if descriptor == "" {
		return ""
	}

	if strings.Contains(descriptor, idPrefix) {
		id := strings.TrimSpace(strings.ReplaceAll(descriptor, idPrefix, ""))
		return ResourceName(id)
	}
	for _, prefix := range []string{descPrefix, classPrefix} {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(descriptor), prefix); ok {
			return strings.TrimSpace(rest)
		}
	}

	if m := textCondRe.FindStringSubmatch(descriptor); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := idCondRe.FindStringSubmatch(descriptor); m != nil {
		return strings.TrimSpace(ResourceName(m[1]))
	}
	if m := descCondRe.FindStringSubmatch(descriptor); m != nil {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(descriptor)
}

// ResourceName reduces "com.app:id/search" to "search". Identifiers without
// the namespace marker are returned unchanged.
func ResourceName(id string) string {
	if !strings.Contains(id, idNamespace) {
		return id
	}
	return id[strings.LastIndex(id, "/")+1:]
}
