package view

import "fmt"

// Header describes one output column for presentation
type Header struct {
	Key          string      `json:"key"`   // Record key holding the column's value
	Title        string      `json:"title"` // Display title
	SourceListID string      `json:"sourceListId"`
	Aggregation  Aggregation `json:"aggregation,omitempty"`
}

// BuildHeaders generates the display headers of a view. In aggregate mode
// aggregated columns that are not grouped on are titled "Name (agg)".
func BuildHeaders(def ViewDefinition) []Header {
	grouped := make(map[string]bool, len(def.GroupBy))
	for _, col := range def.GroupBy {
		grouped[col] = true
	}

	headers := make([]Header, 0, len(def.Columns))
	for _, col := range def.Columns {
		title := col.DisplayName
		if title == "" {
			title = col.InternalName
		}

		h := Header{Key: col.InternalName, Title: title, SourceListID: col.SourceListID}
		if def.Mode == ModeAggregate && col.Aggregation != AggNone && !grouped[col.InternalName] {
			h.Aggregation = col.Aggregation
			h.Title = fmt.Sprintf("%s (%s)", title, col.Aggregation)
		}
		headers = append(headers, h)
	}

	return headers
}
