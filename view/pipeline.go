package view

// Snapshot is the fetched data a view is materialized from, keyed by list ID
type Snapshot struct {
	Rows    map[string][]Row
	Columns map[string][]ColumnMetadata
}

// Result is a materialized view
type Result struct {
	Mode          Mode                 `json:"mode"`
	Headers       []Header             `json:"headers"`
	Records       []Record             `json:"records"`
	Relationships []LookupRelationship `json:"relationships,omitempty"`
}

// Materialize computes the rows of a view.
//
// Union mode concatenates the rows of every source in source order, then
// filters and sorts them; joins and aggregation never run. Aggregate mode
// detects relationships, joins child rows under the primary parent when any
// were found, filters, groups and aggregates, then sorts the results.
//
// Materialize never fails: missing columns read as null and values that do
// not coerce to numbers are left out of numeric work.
func Materialize(def ViewDefinition, snap Snapshot) Result {
	result := Result{
		Mode:    def.Mode,
		Headers: BuildHeaders(def),
	}

	rows := concatSources(def.Sources, snap.Rows)

	switch def.Mode {
	case ModeAggregate:
		relationships := DetectRelationships(def.Sources, snap.Columns)
		result.Relationships = relationships

		opts := AggregateOptions{GroupBy: def.GroupBy}
		if len(relationships) > 0 {
			rows = ExecuteJoin(rows, relationships)
			opts.JoinedLists = childListIDs(relationships)
		}

		rows = ApplyFilters(rows, def.Filters)
		result.Records = ApplySorting(ApplyAggregation(rows, def.Columns, opts), def.Sorting)
	default:
		rows = ApplyFilters(rows, def.Filters)
		rows = ApplySorting(rows, def.Sorting)

		records := make([]Record, len(rows))
		for i, row := range rows {
			records[i] = row.Record()
		}
		result.Records = records
	}

	return result
}

// concatSources stacks the rows of each source in source order, tagging
// rows that arrive without their origin. A list appearing twice is read once.
func concatSources(sources []Source, rowsByList map[string][]Row) []Row {
	var rows []Row
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if seen[src.ListID] {
			continue
		}
		seen[src.ListID] = true

		for _, row := range rowsByList[src.ListID] {
			if row.SourceListID == "" {
				row.SourceListID = src.ListID
			}
			if row.SourceListName == "" {
				row.SourceListName = src.ListName
			}
			rows = append(rows, row)
		}
	}
	return rows
}
