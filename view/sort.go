package view

import "slices"

// ApplySorting returns a stably sorted copy of data.
//
// Rules are evaluated in order and a later rule only breaks ties of the
// earlier ones. Nulls sort after every defined value in both directions.
// With no rules the input order is kept and data is returned as-is.
func ApplySorting[T Getter](data []T, rules []SortRule) []T {
	if len(data) == 0 || len(rules) == 0 {
		return data
	}

	sorted := make([]T, len(data))
	copy(sorted, data)

	cmp := NewComparator()
	slices.SortStableFunc(sorted, func(a, b T) int {
		for _, rule := range rules {
			if c := cmp.compareNullsLast(a.Get(rule.Column), b.Get(rule.Column), rule.Direction); c != 0 {
				return c
			}
		}
		return 0
	})

	return sorted
}
