package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vegasq/listview/view"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a materialized view in the
// target format and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the records of result in the formatter's specific format
	Format(result view.Result) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Names of the supported formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Names lists the supported format names
var Names = []string{FormatTable, FormatJSON, FormatJSONL, FormatCSV}

// New returns the formatter registered under name
func New(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case FormatTable, "":
		return NewTableFormatter(w), nil
	case FormatJSON:
		return NewDocumentFormatter(w), nil
	case FormatJSONL:
		return NewJSONFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid: %s)", name, strings.Join(Names, ", "))
	}
}

// Columns returns the columns to present for result. Without headers every
// key found in the records is shown, sorted by name, since records may be
// heterogeneous across source lists.
func Columns(result view.Result) []view.Header {
	if len(result.Headers) > 0 {
		return result.Headers
	}

	keySet := make(map[string]bool)
	for _, rec := range result.Records {
		for key := range rec {
			keySet[key] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	headers := make([]view.Header, len(keys))
	for i, key := range keys {
		headers[i] = view.Header{Key: key, Title: key}
	}
	return headers
}

// DisplayValue renders a value for people: lookups show their display
// values, booleans show Yes or No and null is empty.
func DisplayValue(v view.Value) string {
	if b, ok := v.AsBool(); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	return v.String()
}

// titles returns the display titles of headers
func titles(headers []view.Header) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = h.Title
	}
	return out
}
