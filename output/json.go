package output

import (
	"encoding/json"
	"io"

	"github.com/vegasq/listview/view"
)

// JSONFormatter outputs records as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per record, keyed by column key.
// Values keep their JSON types; lookups use the {LookupId, LookupValue} shape.
func (j *JSONFormatter) Format(result view.Result) error {
	columns := Columns(result)
	encoder := json.NewEncoder(j.writer)
	for _, rec := range result.Records {
		obj := make(map[string]view.Value, len(columns))
		for _, col := range columns {
			obj[col.Key] = rec.Get(col.Key)
		}
		if err := encoder.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}

// DocumentFormatter outputs the whole result, headers and relationships
// included, as one indented JSON document
type DocumentFormatter struct {
	writer io.Writer
}

// NewDocumentFormatter creates a new JSON document formatter
func NewDocumentFormatter(w io.Writer) *DocumentFormatter {
	return &DocumentFormatter{writer: w}
}

// SetOutput sets the output writer
func (d *DocumentFormatter) SetOutput(w io.Writer) {
	d.writer = w
}

// Format writes result as a single JSON document
func (d *DocumentFormatter) Format(result view.Result) error {
	encoder := json.NewEncoder(d.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
