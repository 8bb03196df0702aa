package view

import (
	"math"
	"strings"
)

// groupKeySeparator joins the group-by values of a row into its bucket key
const groupKeySeparator = "|||"

// Group represents a bucket of rows sharing the same group-by values
type Group struct {
	Key  string // Joined group-by values
	Rows []Row  // Rows in the bucket, in input order
}

// GroupRows buckets rows by their group-by column values. Buckets are
// returned in order of first appearance. With no group-by columns every row
// lands in a single bucket, even when there are no rows.
func GroupRows(rows []Row, groupBy []string) []Group {
	if len(groupBy) == 0 {
		return []Group{{Rows: rows}}
	}

	var groups []Group
	index := make(map[string]int)
	for _, row := range rows {
		key := groupKey(row, groupBy)
		if i, ok := index[key]; ok {
			groups[i].Rows = append(groups[i].Rows, row)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, Rows: []Row{row}})
	}

	return groups
}

// groupKey joins the stringified group-by values of a row; null is the empty string
func groupKey(row Row, groupBy []string) string {
	parts := make([]string, len(groupBy))
	for i, col := range groupBy {
		parts[i] = row.Get(col).String()
	}
	return strings.Join(parts, groupKeySeparator)
}

// ComputeAggregation evaluates a column's aggregation over the column values of rows
func ComputeAggregation(rows []Row, col ViewColumn) Value {
	values := make([]Value, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Get(col.InternalName))
	}
	return aggregateValues(values, col.Aggregation)
}

// ComputeJoinedAggregation evaluates a column's aggregation over the child
// rows of childListID attached to every row, pooled across all rows
func ComputeJoinedAggregation(rows []Row, col ViewColumn, childListID string) Value {
	var values []Value
	for _, row := range rows {
		children, _ := row.ChildRows(childListID)
		for _, child := range children {
			values = append(values, child.Get(col.InternalName))
		}
	}
	return aggregateValues(values, col.Aggregation)
}

// aggregateValues drops nulls and applies the aggregation.
//
// count counts every non-null value, numeric or not. sum, avg, min and max
// only consider values that coerce to a number and are 0 when there are none.
// avg is rounded to two decimals.
func aggregateValues(values []Value, agg Aggregation) Value {
	nonNull := make([]Value, 0, len(values))
	for _, v := range values {
		if !v.IsNull() {
			nonNull = append(nonNull, v)
		}
	}

	if agg == AggCount {
		return Number(float64(len(nonNull)))
	}

	nums := make([]float64, 0, len(nonNull))
	for _, v := range nonNull {
		if n := ToNumber(v); !math.IsNaN(n) {
			nums = append(nums, n)
		}
	}

	switch agg {
	case AggSum:
		return Number(sum(nums))
	case AggAvg:
		if len(nums) == 0 {
			return Number(0)
		}
		return Number(roundTo(sum(nums)/float64(len(nums)), 2))
	case AggMin:
		if len(nums) == 0 {
			return Number(0)
		}
		m := nums[0]
		for _, n := range nums[1:] {
			m = math.Min(m, n)
		}
		return Number(m)
	case AggMax:
		if len(nums) == 0 {
			return Number(0)
		}
		m := nums[0]
		for _, n := range nums[1:] {
			m = math.Max(m, n)
		}
		return Number(m)
	default:
		// AggNone never reaches here; callers pass through instead
		return Null()
	}
}

func sum(nums []float64) float64 {
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return total
}

// roundTo rounds to the given number of decimals with halves rounded up,
// toward positive infinity: -0.125 becomes -0.12 and 0.125 becomes 0.13
func roundTo(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Floor(f*p+0.5) / p
}

// AggregateOptions controls ApplyAggregation
type AggregateOptions struct {
	GroupBy []string
	// JoinedLists are child lists whose columns aggregate over attached child rows
	JoinedLists map[string]bool
}

// ApplyAggregation produces one record per group.
//
// Group-by columns and columns without an aggregation take the value of the
// group's first row. Aggregated columns from a joined child list aggregate
// over the child rows attached to every row of the group; other aggregated
// columns aggregate over the group's rows directly.
func ApplyAggregation(rows []Row, columns []ViewColumn, opts AggregateOptions) []Record {
	grouped := make(map[string]bool, len(opts.GroupBy))
	for _, col := range opts.GroupBy {
		grouped[col] = true
	}

	groups := GroupRows(rows, opts.GroupBy)

	results := make([]Record, 0, len(groups))
	for _, group := range groups {
		results = append(results, computeAggregates(group, columns, grouped, opts.JoinedLists))
	}
	return results
}

// computeAggregates computes the output record for a group
func computeAggregates(group Group, columns []ViewColumn, grouped, joinedLists map[string]bool) Record {
	result := make(Record, len(columns))

	passthrough := func(col string) Value {
		if len(group.Rows) == 0 {
			return Null()
		}
		return group.Rows[0].Get(col)
	}

	for _, col := range columns {
		switch {
		case grouped[col.InternalName] || col.Aggregation == AggNone:
			result[col.InternalName] = passthrough(col.InternalName)
		case joinedLists[col.SourceListID]:
			result[col.InternalName] = ComputeJoinedAggregation(group.Rows, col, col.SourceListID)
		default:
			result[col.InternalName] = ComputeAggregation(group.Rows, col)
		}
	}

	// Group-by columns not rendered as columns still identify the group
	for col := range grouped {
		if _, ok := result[col]; !ok {
			result[col] = passthrough(col)
		}
	}

	return result
}
