package view

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validDefinition() ViewDefinition {
	return ViewDefinition{
		Name:    "Orders",
		Mode:    ModeAggregate,
		Sources: ordersSources,
		Columns: []ViewColumn{
			{SourceListID: "list1", InternalName: "Customer"},
			{SourceListID: "list2", InternalName: "Amount", Aggregation: AggSum},
		},
		GroupBy: []string{"Customer"},
		Sorting: []SortRule{{Column: "Amount", Direction: Desc}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ViewDefinition)
		wantErr string
	}{
		{name: "valid", mutate: func(*ViewDefinition) {}},
		{name: "missing name", mutate: func(d *ViewDefinition) { d.Name = " " }, wantErr: "name is required"},
		{name: "no sources", mutate: func(d *ViewDefinition) { d.Sources = nil; d.Columns = nil }, wantErr: "at least one source"},
		{
			name:    "duplicate source",
			mutate:  func(d *ViewDefinition) { d.Sources = append(d.Sources, Source{SiteID: "siteA", ListID: "list1"}) },
			wantErr: "duplicate source siteA/list1",
		},
		{
			name: "list ID shared across sites",
			mutate: func(d *ViewDefinition) {
				d.Sources = append(d.Sources, Source{SiteID: "siteB", ListID: "list1", ListName: "Other orders"})
			},
			wantErr: `list ID "list1" is used by sources on sites "siteA" and "siteB"`,
		},
		{
			name:    "unknown column source",
			mutate:  func(d *ViewDefinition) { d.Columns[0].SourceListID = "nope" },
			wantErr: `references unknown source list "nope"`,
		},
		{
			name:    "group by in union mode",
			mutate:  func(d *ViewDefinition) { d.Mode = ModeUnion },
			wantErr: "groupBy is only valid in aggregate mode",
		},
		{
			name: "too many sort rules",
			mutate: func(d *ViewDefinition) {
				d.Sorting = []SortRule{{Column: "a"}, {Column: "b"}, {Column: "c"}}
			},
			wantErr: "at most 2 sort rules",
		},
		{
			name:    "filter without column",
			mutate:  func(d *ViewDefinition) { d.Filters = []ViewFilter{{Operator: OpEq}} },
			wantErr: "filter column is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			def.Columns = append([]ViewColumn(nil), def.Columns...)
			tt.mutate(&def)

			err := def.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidView)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	err := ViewDefinition{Mode: ModeUnion, GroupBy: []string{"x"}}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "at least one source")
	assert.Contains(t, err.Error(), "groupBy is only valid")
}

const viewYAML = `
name: Order totals
mode: aggregate
sources:
  - siteId: siteA
    listId: list1
    listName: Orders
  - siteId: siteA
    listId: list2
    listName: LineItems
columns:
  - sourceListId: list1
    internalName: Customer
    displayName: Customer
  - sourceListId: list2
    internalName: Amount
    displayName: Amount
    aggregation: sum
groupBy: [Customer]
filters:
  - column: Amount
    operator: gt
    value: "5"
sorting:
  - column: Amount
    direction: desc
`

func TestViewDefinition_YAML(t *testing.T) {
	var def ViewDefinition
	require.NoError(t, yaml.Unmarshal([]byte(viewYAML), &def))

	assert.Equal(t, ModeAggregate, def.Mode)
	assert.Equal(t, AggSum, def.Columns[1].Aggregation)
	assert.Equal(t, AggNone, def.Columns[0].Aggregation)
	assert.Equal(t, OpGt, def.Filters[0].Operator)
	assert.Equal(t, Desc, def.Sorting[0].Direction)
	require.NoError(t, def.Validate())

	out, err := yaml.Marshal(def)
	require.NoError(t, err)

	var again ViewDefinition
	require.NoError(t, yaml.Unmarshal(out, &again))
	assert.Equal(t, def, again)
}

func TestViewDefinition_RejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "mode", doc: `{"name":"x","mode":"merge"}`, wantErr: `unknown mode "merge"`},
		{
			name:    "operator",
			doc:     `{"name":"x","mode":"union","filters":[{"column":"a","operator":"like","value":"b"}]}`,
			wantErr: `unknown filter operator "like"`,
		},
		{
			name:    "aggregation",
			doc:     `{"name":"x","mode":"aggregate","columns":[{"internalName":"a","aggregation":"median"}]}`,
			wantErr: `unknown aggregation "median"`,
		},
		{
			name:    "direction",
			doc:     `{"name":"x","mode":"union","sorting":[{"column":"a","direction":"up"}]}`,
			wantErr: `unknown sort direction "up"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var def ViewDefinition
			err := json.Unmarshal([]byte(tt.doc), &def)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseEnums(t *testing.T) {
	mode, err := ParseMode(" Union ")
	require.NoError(t, err)
	assert.Equal(t, ModeUnion, mode)

	agg, err := ParseAggregation("")
	require.NoError(t, err)
	assert.Equal(t, AggNone, agg)

	ct, err := ParseColumnType("lookup")
	require.NoError(t, err)
	assert.Equal(t, TypeLookup, ct)

	_, err = ParseFilterOperator("between")
	assert.EqualError(t, err, `unknown filter operator "between" (valid: eq, ne, gt, lt, contains)`)
}
