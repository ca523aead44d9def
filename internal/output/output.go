package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/element-inspector/internal/inspector"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format: %q (expected text, yaml, or json)", s)
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat = FormatText

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ColorOutput enables ANSI colours in text output. The root command resolves
// it from --color.
var ColorOutput bool

// Options controls how a value is written.
type Options struct {
	Format Format
	Pretty bool
	Color  bool
}

// CurrentOptions returns the options set by the root command's flags.
func CurrentOptions() Options {
	return Options{Format: OutputFormat, Pretty: PrettyOutput, Color: ColorOutput}
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Write(os.Stdout, v, CurrentOptions())
}

// Write serializes v to w. Reports and rankings have a dedicated text
// layout; other values fall back to YAML in text mode.
func Write(w io.Writer, v interface{}, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return WriteJSON(w, v, opts.Pretty)
	case FormatYAML:
		return WriteYAML(w, v)
	case FormatText, "":
		textOpts := TextOptions{Color: opts.Color}
		switch r := v.(type) {
		case *inspector.Report:
			return WriteText(w, r, textOpts)
		case *inspector.Ranking:
			return WriteRanking(w, r, textOpts)
		}
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

// NewReporter returns an inspector.Reporter that writes each report to w.
func NewReporter(w io.Writer, opts Options) inspector.Reporter {
	return inspector.ReporterFunc(func(r *inspector.Report) error {
		return Write(w, r, opts)
	})
}
