package model

import "strings"

// Table represents a table with a header row and body rows
type Table struct {
	// Headers holds the header cell texts; empty if the source table
	// had no <th> row
	Headers []string

	// Rows holds the body cell texts, one slice per row
	Rows [][]string
}

func (t *Table) Type() ElementType { return ElementTypeTable }

func (t *Table) GetText() string {
	var sb strings.Builder
	if len(t.Headers) > 0 {
		sb.WriteString(strings.Join(t.Headers, "\t"))
		sb.WriteString("\n")
	}
	for _, row := range t.Rows {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RowCount returns the number of body rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns, taken from the header row when
// present and the first body row otherwise
func (t *Table) ColCount() int {
	if len(t.Headers) > 0 {
		return len(t.Headers)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// ToMarkdown converts the table to a GitHub-style markdown table
func (t *Table) ToMarkdown() string {
	cols := t.ColCount()
	if cols == 0 {
		return ""
	}

	var sb strings.Builder

	headers := t.Headers
	if len(headers) == 0 {
		// Markdown tables require a header row; synthesize an empty one
		headers = make([]string, cols)
	}

	sb.WriteString("|")
	for _, h := range headers {
		sb.WriteString(" ")
		sb.WriteString(escapeTableCell(h))
		sb.WriteString(" |")
	}
	sb.WriteString("\n|")
	for i := 0; i < cols; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(" ")
			sb.WriteString(escapeTableCell(cell))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// escapeTableCell makes cell text safe for markdown table syntax
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
