package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mj1618/element-inspector/internal/inspector"
	"github.com/mj1618/element-inspector/internal/model"
)

// ANSI escape codes used by the text layout.
const (
	ansiReset   = "\u001B[0m"
	ansiRed     = "\u001B[31m"
	ansiGreen   = "\u001B[32m"
	ansiYellow  = "\u001B[33m"
	ansiBlue    = "\u001B[34m"
	ansiMagenta = "\u001B[35m"
	ansiCyan    = "\u001B[36m"
	ansiWhite   = "\u001B[37m"
	ansiBold    = "\u001B[1m"
	ansiDim     = "\u001B[2m"
)

const (
	boxInner       = 98
	labelWidth     = 36
	maxSelector    = 55
	keepSelector   = 52
	maxAttrValue   = 50
	keepAttrValue  = 47
	emptyValue     = "-"
	defaultFailure = "NoSuchElementException"
)

// attribute rows of the match table, in order
var attrRows = []string{
	model.AttrIndex,
	model.AttrPackage,
	model.AttrClass,
	model.AttrText,
	model.AttrContentDesc,
	model.AttrResourceID,
	model.AttrEnabled,
	model.AttrBounds,
	model.AttrDisplayed,
}

// TextOptions controls the text layout.
type TextOptions struct {
	Color     bool
	Exception string // failure name in the header (default NoSuchElementException)
}

type palette struct {
	reset, red, green, yellow, blue, magenta, cyan, white, bold, dim string
}

func newPalette(color bool) palette {
	if !color {
		return palette{}
	}
	return palette{
		reset: ansiReset, red: ansiRed, green: ansiGreen, yellow: ansiYellow,
		blue: ansiBlue, magenta: ansiMagenta, cyan: ansiCyan, white: ansiWhite,
		bold: ansiBold, dim: ansiDim,
	}
}

func border(left, fill, right string) string {
	return left + strings.Repeat(fill, boxInner) + right
}

// WriteText writes the text layout of r followed by a newline.
func WriteText(w io.Writer, r *inspector.Report, opts TextOptions) error {
	_, err := io.WriteString(w, RenderText(r, opts)+"\n")
	return err
}

// RenderText lays out r as the boxed inspector report. A nil report renders
// as an empty string.
func RenderText(r *inspector.Report, opts TextOptions) string {
	if r == nil {
		return ""
	}
	p := newPalette(opts.Color)
	exception := opts.Exception
	if exception == "" {
		exception = defaultFailure
	}

	var sb strings.Builder
	line := func(parts ...string) {
		for _, s := range parts {
			sb.WriteString(s)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n\n")
	line(p.red, border("╔", "═", "╗"), p.reset)
	line(p.red, "║ ", p.bold, "🔍 ANDROID ELEMENT INSPECTOR", p.reset, p.red, strings.Repeat(" ", 68), "║", p.reset)
	line(p.red, border("╚", "═", "╝"), p.reset)
	sb.WriteString("\n")

	line(p.yellow, "⚠️  EXCEPTION: ", p.reset, p.red, exception, p.reset)
	line(p.yellow, "📍 TARGET LOCATOR: ", p.reset, p.white, r.Locator, p.reset)

	m := r.Match
	if m == nil {
		line(p.red, "\n❌ NO SIMILAR ELEMENT FOUND ON PAGE!", p.reset)
		sb.WriteString("\n")
		return sb.String()
	}

	line(p.green, "✅ CLOSEST MATCHING ELEMENT FOUND", p.reset)

	sb.WriteString("\n")
	line(p.cyan, border("┌", "─", "┐"), p.reset)
	line(p.cyan, "│ ", p.bold, "Find By                              Selector", p.reset, strings.Repeat(" ", 29), p.cyan, "│", p.reset)
	line(p.cyan, border("├", "─", "┤"), p.reset)
	for _, s := range m.Suggestions {
		line(p.cyan, "│ ", p.reset, pad(s.Strategy), p.green, truncate(s.Selector, maxSelector, keepSelector), p.reset)
	}
	line(p.cyan, border("└", "─", "┘"), p.reset)

	sb.WriteString("\n")
	line(p.magenta, border("┌", "─", "┐"), p.reset)
	line(p.magenta, "│ ", p.bold, "Attribute                            Value", p.reset, strings.Repeat(" ", 32), p.magenta, "│", p.reset)
	line(p.magenta, border("├", "─", "┤"), p.reset)
	for _, name := range attrRows {
		value := m.Attr(name)
		if name == model.AttrClass {
			value = m.Class
		}
		if value == "" {
			line(p.magenta, "│ ", p.reset, pad(name), p.dim, emptyValue, p.reset)
			continue
		}
		line(p.magenta, "│ ", p.reset, pad(name), p.white, truncate(value, maxAttrValue, keepAttrValue), p.reset)
	}
	line(p.magenta, border("└", "─", "┘"), p.reset)

	sb.WriteString("\n")
	line(p.blue, border("┌", "─", "┐"), p.reset)
	line(p.blue, "│ ", p.bold, "📦 XML Block (Parent: ", model.ShortClassName(m.ContainerClass), ")", p.reset)
	line(p.blue, border("├", "─", "┤"), p.reset)
	for _, l := range m.Context {
		if strings.TrimSpace(l) == "" {
			continue
		}
		line(p.blue, "│ ", p.reset, p.dim, l, p.reset)
	}
	line(p.blue, border("└", "─", "┘"), p.reset)
	sb.WriteString("\n")

	return sb.String()
}

// WriteRanking writes a plain table of scored candidates.
func WriteRanking(w io.Writer, r *inspector.Ranking, opts TextOptions) error {
	p := newPalette(opts.Color)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sTERM:%s %s  (%d of %d candidates)\n", p.yellow, p.reset, r.Term, len(r.Candidates), r.Total)
	if len(r.Candidates) == 0 {
		sb.WriteString("no node scored above zero\n")
	}
	for i, c := range r.Candidates {
		label := c.Text
		if label == "" {
			label = c.ContentDesc
		}
		if label == "" {
			label = c.ResourceID
		}
		if label == "" {
			label = emptyValue
		}
		fmt.Fprintf(&sb, "%3d. %s%6d%s  %s  %s%s%s\n",
			i+1, p.green, c.Score, p.reset,
			truncate(c.Path, maxSelector, keepSelector),
			p.white, truncate(label, maxAttrValue, keepAttrValue), p.reset)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func pad(s string) string {
	return fmt.Sprintf("%-*s", labelWidth, s)
}

// truncate cuts s to keep runes plus "..." when it is longer than limit.
func truncate(s string, limit, keep int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:keep]) + "..."
}
