package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// TableFormatter helps format tabular output
type TableFormatter struct {
	writer *tabwriter.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	return &TableFormatter{writer: tw}
}

// Header writes the table header
func (t *TableFormatter) Header(columns ...string) {
	fmt.Fprintln(t.writer, strings.Join(columns, "\t"))
	fmt.Fprintln(t.writer, strings.Repeat("-", 80))
}

// Row writes a table row
func (t *TableFormatter) Row(values ...string) {
	fmt.Fprintln(t.writer, strings.Join(values, "\t"))
}

// Flush writes the buffered table to output
func (t *TableFormatter) Flush() {
	t.writer.Flush()
}

// OutputResults formats and outputs results based on the specified format
func OutputResults(w io.Writer, format string, data interface{}) error {
	switch OutputFormat(format) {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case FormatYAML:
		yamlData, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(yamlData))
		return nil

	case FormatText:
		// Callers format text themselves; this is a fallback.
		fmt.Fprintf(w, "%v\n", data)
		return nil

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteRecords prints records as a table with an ID column first
func WriteRecords[T any](w io.Writer, schema *resource.Schema[T], records []T, showIDs bool) {
	table := NewTableFormatter(w)

	headers := make([]string, 0, len(schema.Columns)+1)
	if showIDs {
		headers = append(headers, "ID")
	}
	for _, col := range schema.Columns {
		headers = append(headers, col.Header)
	}
	table.Header(headers...)

	for _, r := range records {
		row := make([]string, 0, len(headers))
		if showIDs {
			row = append(row, schema.ID(r))
		}
		for _, col := range schema.Columns {
			row = append(row, TruncateString(col.Value(r), 40))
		}
		table.Row(row...)
	}
	table.Flush()
}

// WriteCounts prints summary counts on one line: "Active: 2  Inactive: 1"
func WriteCounts(w io.Writer, counts []resource.Count) {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s: %d", c.Label, c.Value)
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

// TruncateString truncates a string to maxLen runes
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
