package view

import (
	"math"
	"strings"
)

// MatchFilter reports whether row passes a single filter.
//
// eq, ne and contains compare the stringified operands case-insensitively.
// gt and lt compare numerically and are false when either side is not a number.
func MatchFilter(row Getter, filter ViewFilter) bool {
	field := row.Get(filter.Column)

	switch filter.Operator {
	case OpEq:
		return strings.EqualFold(field.String(), filter.Value)
	case OpNe:
		return !strings.EqualFold(field.String(), filter.Value)
	case OpGt, OpLt:
		left := ToNumber(field)
		right := parseFloat(filter.Value)
		if math.IsNaN(left) || math.IsNaN(right) {
			return false
		}
		if filter.Operator == OpGt {
			return left > right
		}
		return left < right
	case OpContains:
		return strings.Contains(strings.ToLower(field.String()), strings.ToLower(filter.Value))
	default:
		// Operators are closed; decoding rejects anything else
		return false
	}
}

// MatchAll reports whether row passes every filter. No filters matches every row.
func MatchAll(row Getter, filters []ViewFilter) bool {
	for _, f := range filters {
		if !MatchFilter(row, f) {
			return false
		}
	}
	return true
}

// ApplyFilters returns the rows passing every filter, in input order
func ApplyFilters[T Getter](rows []T, filters []ViewFilter) []T {
	if len(filters) == 0 {
		return rows
	}

	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		if MatchAll(row, filters) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
