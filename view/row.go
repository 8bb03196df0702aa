package view

// Reserved column names carried by every fetched row
const (
	ColSourceListID   = "_sourceListId"
	ColSourceListName = "_sourceListName"
	ColItemID         = "_itemId"
)

// Getter is implemented by anything a filter or sort rule can read columns from
type Getter interface {
	Get(column string) Value
}

// Row is one record fetched from a source list
type Row struct {
	SourceListID   string
	SourceListName string
	ItemID         string
	Fields         map[string]Value

	// Children holds rows of each child list matched to this row by a join,
	// keyed by child list ID. It is nil for rows that were not joined.
	Children map[string][]Row
}

// Get returns the value of a column, resolving the reserved tag columns.
// Missing columns are null.
func (r Row) Get(column string) Value {
	switch column {
	case ColSourceListID:
		return String(r.SourceListID)
	case ColSourceListName:
		return String(r.SourceListName)
	case ColItemID:
		return String(r.ItemID)
	}
	return r.Fields[column]
}

// ChildRows returns the rows of childListID joined under r, and whether the join attached that list at all
func (r Row) ChildRows(childListID string) ([]Row, bool) {
	rows, ok := r.Children[childListID]
	return rows, ok
}

// Record converts r into a flat record holding every field plus the tag columns
func (r Row) Record() Record {
	rec := make(Record, len(r.Fields)+3)
	for k, v := range r.Fields {
		rec[k] = v
	}
	rec[ColSourceListID] = String(r.SourceListID)
	rec[ColSourceListName] = String(r.SourceListName)
	rec[ColItemID] = String(r.ItemID)
	return rec
}

// withChildren returns a copy of r with the given child rows attached
func (r Row) withChildren(children map[string][]Row) Row {
	out := r
	out.Children = children
	return out
}

// Record is one output row: a union row or an aggregate result
type Record map[string]Value

// Get returns the value of a column; missing columns are null
func (rec Record) Get(column string) Value {
	return rec[column]
}
