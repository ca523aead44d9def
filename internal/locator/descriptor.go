package locator

import "strings"

// Descriptor prefixes in the "By.<strategy>: <value>" convention that failed
// lookups are reported with.
const (
	ByIDPrefix              = "By.id: "
	ByXPathPrefix           = "By.xpath: "
	ByAccessibilityIDPrefix = "By.accessibilityId: "
	ByClassNamePrefix       = "By.className: "
)

// ByID describes an identifier lookup.
func ByID(id string) string { return ByIDPrefix + id }

// ByXPath describes an XPath lookup.
func ByXPath(expr string) string { return ByXPathPrefix + expr }

// ByText describes a lookup of any element whose text equals text.
func ByText(text string) string { return ByXPath(TextXPath(text)) }

// TextXPath matches any element whose text equals text.
func TextXPath(text string) string {
	lit := "'" + text + "'"
	if strings.Contains(text, "'") {
		lit = xpathLiteral(text)
	}
	return "//*[@text=" + lit + "]"
}

// ByAccessibilityID describes a content-desc lookup.
func ByAccessibilityID(desc string) string { return ByAccessibilityIDPrefix + desc }

// ByClassName describes a class lookup.
func ByClassName(class string) string { return ByClassNamePrefix + class }

// Split breaks a descriptor into its strategy and value. ok is false when the
// descriptor does not follow the convention.
func Split(descriptor string) (strategy, value string, ok bool) {
	for _, p := range []struct{ prefix, strategy string }{
		{ByIDPrefix, StrategyID},
		{ByXPathPrefix, StrategyXPath},
		{ByAccessibilityIDPrefix, StrategyAccessibilityID},
		{ByClassNamePrefix, StrategyClassName},
	} {
		if strings.HasPrefix(descriptor, p.prefix) {
			return p.strategy, strings.TrimSpace(strings.TrimPrefix(descriptor, p.prefix)), true
		}
	}
	return "", "", false
}
