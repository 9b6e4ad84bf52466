// Package tabular parses delimiter-formatted text returned by a generation
// backend into a fixed-width table.
//
// Responses are expected to start with a header row and use a single
// delimiter throughout. Rows that do not produce the expected field count
// are dropped and counted rather than repaired; a response with no valid
// data rows at all is a *ParseError carrying the raw text so callers can
// fall back to displaying it unparsed.
package tabular

import (
	"fmt"
	"strings"
)

// Delimiter selects the column separator for a parse call.
type Delimiter string

const (
	// Pipe splits columns on '|', the format the stage prompts request.
	Pipe Delimiter = "|"

	// Comma splits columns on ','.
	Comma Delimiter = ","
)

// Table is the parsed result: a header plus zero or more data rows, each
// with exactly len(Columns) fields.
type Table struct {
	// Columns holds the normalized header fields.
	Columns []string

	// Rows holds the data rows that matched the expected column count.
	Rows [][]string

	// Dropped counts data rows discarded for having the wrong field count.
	Dropped int
}

// ParseError indicates a response that could not be parsed into at least
// one valid data row. Raw preserves the full response text and Dropped
// counts the malformed data rows seen before parsing gave up.
type ParseError struct {
	Raw     string
	Columns int
	Dropped int
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tabular: %s (expected %d columns)", e.Reason, e.Columns)
}

// Parse converts a delimited text blob into a Table with exactly columns
// fields per row. Parsing is a pure function of its inputs: the same text
// always yields the same table. It never attempts an alternative split
// strategy; a response whose fields embed the delimiter loses those rows.
func Parse(raw string, delim Delimiter, columns int) (*Table, error) {
	if columns < 1 {
		return nil, fmt.Errorf("tabular: column count must be at least 1, got %d", columns)
	}

	lines := strings.Split(raw, "\n")

	table := &Table{}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFields(line, delim)
		if len(fields) == 0 || isSeparatorRow(fields) {
			continue
		}

		if table.Columns == nil {
			table.Columns = normalizeHeader(fields, columns)
			continue
		}

		if len(fields) != columns {
			table.Dropped++
			continue
		}
		table.Rows = append(table.Rows, fields)
	}

	if table.Columns == nil {
		return nil, &ParseError{Raw: raw, Columns: columns, Reason: "response has no header row"}
	}
	if len(table.Rows) == 0 {
		return nil, &ParseError{Raw: raw, Columns: columns, Dropped: table.Dropped, Reason: "response has no valid data rows"}
	}
	return table, nil
}

// splitFields splits a line on the delimiter, trims each field, and drops
// the empty leading/trailing fragments produced by edge delimiters
// ("| a | b |" has two).
func splitFields(line string, delim Delimiter) []string {
	parts := strings.Split(line, string(delim))
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// isSeparatorRow reports whether every field is a markdown rule like "---"
// or ":--:". Models often emit one below the header despite instructions.
func isSeparatorRow(fields []string) bool {
	for _, f := range fields {
		if f == "" {
			return false
		}
		if strings.Trim(f, "-: ") != "" {
			return false
		}
	}
	return true
}

// normalizeHeader trims the header to the expected width. Models sometimes
// prepend an index column; the rightmost fields are the meaningful ones, so
// an overlong header keeps its last columns fields.
func normalizeHeader(fields []string, columns int) []string {
	if len(fields) > columns {
		return fields[len(fields)-columns:]
	}
	return fields
}
