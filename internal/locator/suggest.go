package locator

import (
	"strings"

	"github.com/mj1618/element-inspector/internal/model"
)

// Strategy names as accepted by Appium clients.
const (
	StrategyAccessibilityID = "accessibility id"
	StrategyID              = "id"
	StrategyUiAutomator     = "-android uiautomator"
	StrategyXPath           = "xpath"
	StrategyClassName       = "class name"
)

// Suggestion is one alternative way of locating a node.
type Suggestion struct {
	Strategy string `yaml:"strategy" json:"strategy"`
	Selector string `yaml:"selector" json:"selector"`
}

// Suggest lists locators for n, most robust first. The list always ends with
// an XPath, so it is never empty.
func Suggest(n *model.Node) []Suggestion {
	var out []Suggestion

	if desc := n.ContentDesc(); desc != "" {
		out = append(out, Suggestion{Strategy: StrategyAccessibilityID, Selector: desc})
	}
	if id := n.ResourceID(); id != "" {
		out = append(out,
			Suggestion{Strategy: StrategyID, Selector: id},
			Suggestion{Strategy: StrategyUiAutomator, Selector: `new UiSelector().resourceId(` + javaString(id) + `)`},
		)
	}
	if text := n.Text(); text != "" {
		out = append(out, Suggestion{Strategy: StrategyUiAutomator, Selector: `new UiSelector().text(` + javaString(text) + `)`})
	}

	return append(out, Suggestion{Strategy: StrategyXPath, Selector: XPathFor(n)})
}

// XPathFor builds the preferred XPath for n: content-desc, then resource-id,
// then text, then the bare short class name.
func XPathFor(n *model.Node) string {
	short := model.ShortClassName(n.Class)
	switch {
	case n.ContentDesc() != "":
		return "//" + short + "[@content-desc=" + xpathLiteral(n.ContentDesc()) + "]"
	case n.ResourceID() != "":
		return "//*[@resource-id=" + xpathLiteral(n.ResourceID()) + "]"
	case n.Text() != "":
		return "//" + short + "[@text=" + xpathLiteral(n.Text()) + "]"
	}
	return "//" + short
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, '"', `)
		}
		b.WriteString(`"` + p + `"`)
	}
	b.WriteString(")")
	return b.String()
}

// javaString renders s as a double-quoted Java string literal for UiSelector
// expressions.
func javaString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
