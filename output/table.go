package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/listview/view"
)

// TableFormatter outputs records as an aligned text table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders records under their column titles, with a row count footer line
func (t *TableFormatter) Format(result view.Result) error {
	columns := Columns(result)
	if len(columns) == 0 {
		_, err := fmt.Fprintf(t.writer, "(%d rows)\n", len(result.Records))
		return err
	}

	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(titles(columns))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, rec := range result.Records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = DisplayValue(rec.Get(col.Key))
		}
		table.Append(row)
	}
	table.Render()

	_, err := fmt.Fprintf(t.writer, "(%d rows)\n", len(result.Records))
	return err
}
