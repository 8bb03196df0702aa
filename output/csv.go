package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vegasq/listview/view"
)

// CSVFormatter outputs records as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes a header row of column titles followed by one row per record
func (c *CSVFormatter) Format(result view.Result) error {
	csvWriter := csv.NewWriter(c.writer)

	columns := Columns(result)
	if len(columns) > 0 {
		if err := csvWriter.Write(titles(columns)); err != nil {
			return err
		}
	}

	for _, rec := range result.Records {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = sanitizeCell(DisplayValue(rec.Get(col.Key)))
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// sanitizeCell guards against CSV injection by quoting cells starting with
// characters that trigger formula execution in spreadsheet applications
func sanitizeCell(val string) string {
	if val == "" {
		return val
	}
	switch val[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		// Numbers are not formulas
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			return val
		}
		return "'" + strings.ReplaceAll(val, "'", "''")
	}
	return val
}
