package ui

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"knewkarma/pkg/export"
	"knewkarma/pkg/normalize"
)

// Null is shown in place of absent values
const Null = "null"

// maxColumnWidth wraps long bodies and descriptions instead of stretching the
// table past the terminal
const maxColumnWidth = 60

// NewTable creates a rounded table writer mirrored to the console
func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	if ColorEnabled() {
		t.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
	}
	t.SetOutputMirror(writer())
	return t
}

// Render prints records as a table. A single record is laid out as key/value
// rows. It returns the number of records rendered.
func Render(records []normalize.Record, single bool) int {
	if len(records) == 0 {
		PrintWarning("No data")
		return 0
	}

	header, rows := export.Tabulate(records, single, Null)
	t := NewTable()
	t.AppendHeader(header)
	t.AppendRows(rows)

	configs := make([]table.ColumnConfig, len(header))
	for i := range header {
		configs[i] = table.ColumnConfig{Number: i + 1, WidthMax: maxColumnWidth}
	}
	t.SetColumnConfigs(configs)
	t.Render()
	return len(records)
}
