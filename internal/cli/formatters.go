package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how a subcommand renders its result.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// OutputResults renders a result in the requested format. Text mode
// just prints the value; subcommands with tabular text output render
// that themselves through Table.
func OutputResults(w io.Writer, format string, data interface{}) error {
	switch OutputFormat(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case FormatText:
		_, err := fmt.Fprintln(w, data)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Table writes aligned columns for text mode listings.
type Table struct {
	w *tabwriter.Writer
}

func NewTable(w io.Writer) *Table {
	return &Table{w: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

// Header writes the column titles with a dashed rule under each.
func (t *Table) Header(columns ...string) {
	fmt.Fprintln(t.w, strings.Join(columns, "\t"))
	rules := make([]string, len(columns))
	for i, col := range columns {
		rules[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(t.w, strings.Join(rules, "\t"))
}

func (t *Table) Row(cells ...string) {
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *Table) Flush() {
	t.w.Flush()
}

// Truncate shortens a cell to width, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

// PadRight left-aligns a value within a fixed-width column.
func PadRight(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
