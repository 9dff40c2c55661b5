package export

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"knewkarma/pkg/normalize"
)

// Tabulate lays records out as a table. A single record becomes key/value
// rows; a list becomes one row per record under the first record's field
// names. Absent values render as null.
func Tabulate(records []normalize.Record, single bool, null string) (table.Row, []table.Row) {
	if len(records) == 0 {
		return table.Row{}, nil
	}

	if single {
		fields := records[0].Fields()
		rows := make([]table.Row, len(fields))
		for i, f := range fields {
			rows[i] = table.Row{f.Name, Cell(f.Value, null)}
		}
		return table.Row{"key", "value"}, rows
	}

	names := normalize.Names(records[0])
	header := make(table.Row, len(names))
	for i, n := range names {
		header[i] = n
	}
	rows := make([]table.Row, len(records))
	for i, r := range records {
		fields := r.Fields()
		row := make(table.Row, len(fields))
		for j, f := range fields {
			row[j] = Cell(f.Value, null)
		}
		rows[i] = row
	}
	return header, rows
}

// Cell converts a field value to its display form. Nested records are
// rendered as compact JSON.
func Cell(v interface{}, null string) string {
	switch val := v.(type) {
	case nil:
		return null
	case string:
		return val
	case bool, int, int64, float64:
		return fmt.Sprint(val)
	case normalize.Record:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// NewTable creates a writer filled with records
func NewTable(records []normalize.Record, single bool, null string) table.Writer {
	t := table.NewWriter()
	header, rows := Tabulate(records, single, null)
	if len(header) > 0 {
		t.AppendHeader(header)
	}
	t.AppendRows(rows)
	return t
}
