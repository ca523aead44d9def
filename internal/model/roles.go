package model

import "strings"

// ContainerKeywords are lower-case class name fragments that mark a node as a
// structural container (layouts, lists, scroll areas and similar groupings).
var ContainerKeywords = []string{
	"layout",
	"viewgroup",
	"group",
	"view",
	"scroll",
	"list",
	"recycler",
	"grid",
	"frame",
	"linear",
	"relative",
	"constraint",
}

// IsContainer reports whether class names a grouping element.
func IsContainer(class string) bool {
	lower := strings.ToLower(class)
	for _, kw := range ContainerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ShortClassName strips the package prefix from a class name:
// "android.widget.TextView" becomes "TextView". An empty class yields "Unknown".
func ShortClassName(class string) string {
	if class == "" {
		return "Unknown"
	}
	if i := strings.LastIndex(class, "."); i >= 0 {
		return class[i+1:]
	}
	return class
}
