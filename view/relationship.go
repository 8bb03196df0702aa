package view

// DetectRelationships finds the lookup columns whose target list is one of
// the given sources.
//
// Sources are scanned in order and each source's columns in metadata order,
// so the result order is deterministic. Only direct references are reported;
// a list with two qualifying lookup columns yields two relationships.
func DetectRelationships(sources []Source, columnsByList map[string][]ColumnMetadata) []LookupRelationship {
	inView := make(map[string]bool, len(sources))
	for _, src := range sources {
		inView[src.ListID] = true
	}

	var relationships []LookupRelationship
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if seen[src.ListID] {
			continue
		}
		seen[src.ListID] = true

		for _, col := range columnsByList[src.ListID] {
			if col.Type != TypeLookup || col.LookupListID == "" || !inView[col.LookupListID] {
				continue
			}
			relationships = append(relationships, LookupRelationship{
				ChildListID:      src.ListID,
				ParentListID:     col.LookupListID,
				LookupColumnName: col.InternalName,
			})
		}
	}

	return relationships
}

// childListIDs returns the set of lists acting as a child in any relationship
func childListIDs(relationships []LookupRelationship) map[string]bool {
	children := make(map[string]bool, len(relationships))
	for _, rel := range relationships {
		children[rel.ChildListID] = true
	}
	return children
}

// PrimaryParent picks the join root: the parent of the first relationship,
// in detection order, whose parent is not also a child elsewhere. When every
// parent is also a child (a cycle) the first relationship's parent is used.
// It returns "" when there are no relationships.
func PrimaryParent(relationships []LookupRelationship) string {
	if len(relationships) == 0 {
		return ""
	}

	children := childListIDs(relationships)
	for _, rel := range relationships {
		if !children[rel.ParentListID] {
			return rel.ParentListID
		}
	}
	return relationships[0].ParentListID
}
