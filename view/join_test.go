package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectRelationships(t *testing.T) {
	sources := []Source{
		{SiteID: "s", ListID: "orders"},
		{SiteID: "s", ListID: "lines"},
		{SiteID: "s", ListID: "notes"},
	}
	columns := map[string][]ColumnMetadata{
		"orders": {
			{InternalName: "Title", Type: TypeText},
			{InternalName: "Customer", Type: TypeLookup, LookupListID: "customers"}, // not a source
		},
		"lines": {
			{InternalName: "Order", Type: TypeLookup, LookupListID: "orders"},
			{InternalName: "Amount", Type: TypeNumber},
		},
		"notes": {
			{InternalName: "Order", Type: TypeLookup, LookupListID: "orders"},
			{InternalName: "Line", Type: TypeLookup, LookupListID: "lines"},
			{InternalName: "Broken", Type: TypeLookup},
		},
	}

	got := DetectRelationships(sources, columns)
	assert.Equal(t, []LookupRelationship{
		{ChildListID: "lines", ParentListID: "orders", LookupColumnName: "Order"},
		{ChildListID: "notes", ParentListID: "orders", LookupColumnName: "Order"},
		{ChildListID: "notes", ParentListID: "lines", LookupColumnName: "Line"},
	}, got)
}

func TestDetectRelationships_None(t *testing.T) {
	sources := []Source{{ListID: "a"}, {ListID: "b"}}
	columns := map[string][]ColumnMetadata{
		"a": {{InternalName: "X", Type: TypeText}},
	}
	assert.Empty(t, DetectRelationships(sources, columns))
}

func TestDetectRelationships_FollowsSourceOrder(t *testing.T) {
	columns := map[string][]ColumnMetadata{
		"a": {{InternalName: "B", Type: TypeLookup, LookupListID: "b"}},
		"b": {{InternalName: "C", Type: TypeLookup, LookupListID: "c"}},
	}
	forward := DetectRelationships([]Source{{ListID: "a"}, {ListID: "b"}, {ListID: "c"}}, columns)
	backward := DetectRelationships([]Source{{ListID: "c"}, {ListID: "b"}, {ListID: "a"}}, columns)

	require.Len(t, forward, 2)
	require.Len(t, backward, 2)
	assert.Equal(t, "a", forward[0].ChildListID)
	assert.Equal(t, "b", backward[0].ChildListID)
}

func TestPrimaryParent(t *testing.T) {
	tests := []struct {
		name string
		rels []LookupRelationship
		want string
	}{
		{name: "none", rels: nil, want: ""},
		{
			name: "single star",
			rels: []LookupRelationship{{ChildListID: "c1", ParentListID: "p"}, {ChildListID: "c2", ParentListID: "p"}},
			want: "p",
		},
		{
			name: "chain picks root",
			rels: []LookupRelationship{{ChildListID: "c", ParentListID: "b"}, {ChildListID: "b", ParentListID: "a"}},
			want: "a",
		},
		{
			name: "two stars pick first detected",
			rels: []LookupRelationship{{ChildListID: "x", ParentListID: "p2"}, {ChildListID: "y", ParentListID: "p1"}},
			want: "p2",
		},
		{
			name: "cycle falls back to first parent",
			rels: []LookupRelationship{{ChildListID: "a", ParentListID: "b"}, {ChildListID: "b", ParentListID: "a"}},
			want: "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryParent(tt.rels))
		})
	}
}

func TestLookupIDs(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
		want   []string
	}{
		{name: "sibling id", fields: map[string]interface{}{"StudentLookupId": "1"}, want: []string{"1"}},
		{name: "numeric sibling id", fields: map[string]interface{}{"StudentLookupId": int64(12)}, want: []string{"12"}},
		{
			name: "sibling wins over embedded",
			fields: map[string]interface{}{
				"StudentLookupId": "1",
				"Student":         map[string]interface{}{"LookupId": "2", "LookupValue": "B"},
			},
			want: []string{"1"},
		},
		{
			name: "null sibling falls back to embedded",
			fields: map[string]interface{}{
				"StudentLookupId": nil,
				"Student":         map[string]interface{}{"LookupId": int64(2), "LookupValue": "B"},
			},
			want: []string{"2"},
		},
		{
			name: "multi lookup",
			fields: map[string]interface{}{
				"Student": []interface{}{
					map[string]interface{}{"LookupId": "3", "LookupValue": "C"},
					map[string]interface{}{"LookupId": "4", "LookupValue": "D"},
				},
			},
			want: []string{"3", "4"},
		},
		{name: "plain text is not a reference", fields: map[string]interface{}{"Student": "Alice"}, want: nil},
		{name: "missing", fields: map[string]interface{}{}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIDs(newRow("c", "1", tt.fields), "Student"))
		})
	}
}

func TestExecuteJoin(t *testing.T) {
	parents := []Row{
		newRow("students", "1", map[string]interface{}{"Name": "Ann"}),
		newRow("students", "2", map[string]interface{}{"Name": "Ben"}),
		newRow("students", "3", map[string]interface{}{"Name": "Cy"}),
	}
	children := []Row{
		newRow("grades", "", map[string]interface{}{"StudentLookupId": "1", "Score": int64(90)}),
		newRow("grades", "", map[string]interface{}{"StudentLookupId": "1", "Score": int64(70)}),
		newRow("grades", "", map[string]interface{}{"StudentLookupId": "2", "Score": int64(80)}),
		newRow("grades", "", map[string]interface{}{"StudentLookupId": "9", "Score": int64(10)}),
	}
	input := append(append([]Row{}, parents...), children...)
	rels := []LookupRelationship{{ChildListID: "grades", ParentListID: "students", LookupColumnName: "Student"}}

	joined := ExecuteJoin(input, rels)

	require.Len(t, joined, 3, "only primary parent rows remain at the top level")
	counts := make([]int, len(joined))
	for i, row := range joined {
		assert.Equal(t, "students", row.SourceListID)
		kids, ok := row.ChildRows("grades")
		require.True(t, ok, "child list is attached even without matches")
		require.NotNil(t, kids)
		counts[i] = len(kids)
	}
	assert.Equal(t, []int{2, 1, 0}, counts)

	// Inputs are untouched
	for _, row := range input {
		assert.Nil(t, row.Children)
	}
}

func TestExecuteJoin_MultipleChildLists(t *testing.T) {
	input := []Row{
		newRow("orders", "10", nil),
		newRow("lines", "a", map[string]interface{}{"Order": map[string]interface{}{"LookupId": int64(10), "LookupValue": "O-10"}}),
		newRow("payments", "p", map[string]interface{}{"OrderLookupId": "10"}),
		newRow("payments", "q", map[string]interface{}{"OrderLookupId": "10"}),
	}
	rels := []LookupRelationship{
		{ChildListID: "lines", ParentListID: "orders", LookupColumnName: "Order"},
		{ChildListID: "payments", ParentListID: "orders", LookupColumnName: "Order"},
	}

	joined := ExecuteJoin(input, rels)
	require.Len(t, joined, 1)
	lines, _ := joined[0].ChildRows("lines")
	payments, _ := joined[0].ChildRows("payments")
	assert.Len(t, lines, 1)
	assert.Len(t, payments, 2)
}

func TestExecuteJoin_ChildWithTwoLookupsToParent(t *testing.T) {
	input := []Row{
		newRow("people", "1", nil),
		newRow("people", "2", nil),
		newRow("tasks", "t1", map[string]interface{}{"OwnerLookupId": "1", "ReviewerLookupId": "1"}),
		newRow("tasks", "t2", map[string]interface{}{"OwnerLookupId": "1", "ReviewerLookupId": "2"}),
	}
	rels := []LookupRelationship{
		{ChildListID: "tasks", ParentListID: "people", LookupColumnName: "Owner"},
		{ChildListID: "tasks", ParentListID: "people", LookupColumnName: "Reviewer"},
	}

	joined := ExecuteJoin(input, rels)
	require.Len(t, joined, 2)
	first, _ := joined[0].ChildRows("tasks")
	second, _ := joined[1].ChildRows("tasks")
	assert.Len(t, first, 2, "t1 references person 1 twice but attaches once")
	assert.Len(t, second, 1)
}

func TestExecuteJoin_NoRelationships(t *testing.T) {
	input := rowsWith("l", "A", 1, 2)
	assert.Equal(t, input, ExecuteJoin(input, nil))
}
