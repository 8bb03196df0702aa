package view

// LookupIDSuffix is appended to a lookup column name to form the sibling
// column holding the bare referenced item ID
const LookupIDSuffix = "LookupId"

// LookupIDs returns the item IDs a row references through a lookup column.
//
// A non-null sibling "<column>LookupId" wins. Otherwise the column itself is
// inspected for lookup references. It returns nil when the row references nothing.
func LookupIDs(row Row, lookupColumn string) []string {
	if sibling := row.Get(lookupColumn + LookupIDSuffix); !sibling.IsNull() {
		return []string{sibling.String()}
	}

	refs := row.Get(lookupColumn).Refs()
	if len(refs) == 0 {
		return nil
	}
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids
}

// partitionBySource groups rows by their source list, keeping input order within each list
func partitionBySource(rows []Row) map[string][]Row {
	byList := make(map[string][]Row)
	for _, row := range rows {
		byList[row.SourceListID] = append(byList[row.SourceListID], row)
	}
	return byList
}

// ExecuteJoin attaches child rows to each row of the primary parent list.
//
// Every relationship whose parent is the primary parent contributes one
// child list; each parent row gets the child rows referencing its item ID,
// or an empty slice when none do. A child list with several lookup columns
// to the parent attaches a child once if any of them references the parent.
// Only the primary parent's rows are returned: rows of other lists survive
// solely as attached children. The input rows are not modified.
func ExecuteJoin(rows []Row, relationships []LookupRelationship) []Row {
	primary := PrimaryParent(relationships)
	if primary == "" {
		return rows
	}

	byList := partitionBySource(rows)

	// Lookup columns per child list, child lists in detection order
	var childLists []string
	lookupColumns := make(map[string][]string)
	for _, rel := range relationships {
		if rel.ParentListID != primary {
			continue
		}
		if _, ok := lookupColumns[rel.ChildListID]; !ok {
			childLists = append(childLists, rel.ChildListID)
		}
		lookupColumns[rel.ChildListID] = append(lookupColumns[rel.ChildListID], rel.LookupColumnName)
	}

	// Index each child list by referenced parent ID once
	indexes := make(map[string]map[string][]Row, len(childLists))
	for _, childList := range childLists {
		idx := make(map[string][]Row)
		for _, child := range byList[childList] {
			var ids []string
			for _, col := range lookupColumns[childList] {
				ids = append(ids, LookupIDs(child, col)...)
			}
			for _, id := range uniqueStrings(ids) {
				idx[id] = append(idx[id], child)
			}
		}
		indexes[childList] = idx
	}

	parents := byList[primary]
	joined := make([]Row, 0, len(parents))
	for _, parent := range parents {
		children := make(map[string][]Row, len(childLists))
		for _, childList := range childLists {
			matches := indexes[childList][parent.ItemID]
			if matches == nil {
				matches = []Row{}
			}
			children[childList] = matches
		}
		joined = append(joined, parent.withChildren(children))
	}

	return joined
}

func uniqueStrings(values []string) []string {
	if len(values) < 2 {
		return values
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
