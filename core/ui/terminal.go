// Package ui - Terminal user interface
// Tables and colored status lines for CLI output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Colors for terminal output
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// Writer is the UI output destination
type Writer struct {
	out     io.Writer
	noColor bool
}

// NewWriter creates a UI writer
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:     out,
		noColor: noColor,
	}
}

// Color applies color if enabled
func (w *Writer) Color(c, text string) string {
	if w.noColor {
		return text
	}
	return c + text + Reset
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("")
	w.Println("%s", w.Color(Bold+Cyan, "━━━ "+title+" ━━━"))
	w.Println("")
}

// SubHeader prints a subsection header
func (w *Writer) SubHeader(title string) {
	w.Println("%s", w.Color(Bold, "▸ "+title))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s%s", w.Color(Green, "✓ "), fmt.Sprintf(format, args...))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Println("%s%s", w.Color(Yellow, "⚠ "), fmt.Sprintf(format, args...))
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.Println("%s%s", w.Color(Red, "✗ "), fmt.Sprintf(format, args...))
}

// Align is a column alignment
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table renders a table
type Table struct {
	w       *Writer
	headers []string
	align   []Align
	rows    [][]cell
	widths  []int
}

type cell struct {
	text  string
	color string
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	return &Table{
		w:       w,
		headers: headers,
		align:   make([]Align, len(headers)),
		widths:  widths,
	}
}

// SetAlign sets the alignment of a column
func (t *Table) SetAlign(col int, a Align) {
	if col >= 0 && col < len(t.align) {
		t.align[col] = a
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	t.addRow(cells, "")
}

// AddColoredRow adds a row whose cells after the first are colored
func (t *Table) AddColoredRow(color string, cells ...string) {
	t.addRow(cells, color)
}

func (t *Table) addRow(cells []string, color string) {
	// Pad or truncate cells to match header count
	row := make([]cell, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i].text = cells[i]
		}
		if i > 0 {
			row[i].color = color
		}
		if n := utf8.RuneCountInString(row[i].text); n > t.widths[i] {
			t.widths[i] = n
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) pad(col int, text string) string {
	gap := t.widths[col] - utf8.RuneCountInString(text)
	if gap <= 0 {
		return text
	}
	if t.align[col] == AlignRight {
		return strings.Repeat(" ", gap) + text
	}
	return text + strings.Repeat(" ", gap)
}

// Render prints the table
func (t *Table) Render() {
	header := make([]string, len(t.headers))
	for i, h := range t.headers {
		header[i] = t.pad(i, h)
	}
	t.w.Println("%s", t.w.Color(Bold, strings.Join(header, " │ ")))

	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("─", w)
	}
	t.w.Println("%s", strings.Join(sep, "─┼─"))

	for _, row := range t.rows {
		out := make([]string, len(row))
		for i, c := range row {
			text := t.pad(i, c.text)
			if c.color != "" {
				text = t.w.Color(c.color, text)
			}
			out[i] = text
		}
		t.w.Println("%s", strings.Join(out, " │ "))
	}
}
