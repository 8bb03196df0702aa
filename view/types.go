package view

import (
	"fmt"
	"strings"
)

// Mode selects how a view combines its sources
type Mode int

const (
	ModeUnion     Mode = iota // Stack rows from every source
	ModeAggregate             // Join, group and summarize rows
)

var modeNames = []string{"union", "aggregate"}

// FilterOperator is the comparison applied by a ViewFilter
type FilterOperator int

const (
	OpEq       FilterOperator = iota // Case-insensitive equality
	OpNe                             // Case-insensitive inequality
	OpGt                             // Numeric greater than
	OpLt                             // Numeric less than
	OpContains                       // Case-insensitive substring
)

var operatorNames = []string{"eq", "ne", "gt", "lt", "contains"}

// Aggregation is the summary function computed for a column in aggregate mode.
// AggNone means the column passes through the first row's value.
type Aggregation int

const (
	AggNone Aggregation = iota
	AggCount
	AggSum
	AggAvg
	AggMin
	AggMax
)

var aggregationNames = []string{"", "count", "sum", "avg", "min", "max"}

// Direction is a sort direction
type Direction int

const (
	Asc Direction = iota
	Desc
)

var directionNames = []string{"asc", "desc"}

// ColumnType is the type tag reported by the fetch layer for a column
type ColumnType int

const (
	TypeUnknown ColumnType = iota
	TypeText
	TypeNumber
	TypeBoolean
	TypeDateTime
	TypeLookup
)

var columnTypeNames = []string{"unknown", "text", "number", "boolean", "datetime", "lookup"}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%d", i)
	}
	return names[i]
}

func parseEnum(kind string, names []string, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (valid: %s)", kind, s, strings.Join(nonEmpty(names), ", "))
}

func nonEmpty(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (m Mode) String() string { return enumName(modeNames, int(m)) }

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	i, err := parseEnum("mode", modeNames, s)
	return Mode(i), err
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (op FilterOperator) String() string { return enumName(operatorNames, int(op)) }

// ParseFilterOperator parses a filter operator name
func ParseFilterOperator(s string) (FilterOperator, error) {
	i, err := parseEnum("filter operator", operatorNames, s)
	return FilterOperator(i), err
}

func (op FilterOperator) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

func (op *FilterOperator) UnmarshalText(b []byte) error {
	v, err := ParseFilterOperator(string(b))
	if err != nil {
		return err
	}
	*op = v
	return nil
}

func (a Aggregation) String() string { return enumName(aggregationNames, int(a)) }

// ParseAggregation parses an aggregation name. The empty string is AggNone.
func ParseAggregation(s string) (Aggregation, error) {
	i, err := parseEnum("aggregation", aggregationNames, s)
	return Aggregation(i), err
}

func (a Aggregation) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Aggregation) UnmarshalText(b []byte) error {
	v, err := ParseAggregation(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (d Direction) String() string { return enumName(directionNames, int(d)) }

// ParseDirection parses "asc" or "desc"
func ParseDirection(s string) (Direction, error) {
	i, err := parseEnum("sort direction", directionNames, s)
	return Direction(i), err
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (t ColumnType) String() string { return enumName(columnTypeNames, int(t)) }

// ParseColumnType parses a column type tag
func ParseColumnType(s string) (ColumnType, error) {
	i, err := parseEnum("column type", columnTypeNames, s)
	return ColumnType(i), err
}

func (t ColumnType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ColumnType) UnmarshalText(b []byte) error {
	v, err := ParseColumnType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Source identifies one list participating in a view. (SiteID, ListID) is unique per view.
type Source struct {
	SiteID   string `json:"siteId" yaml:"siteId"`
	ListID   string `json:"listId" yaml:"listId"`
	ListName string `json:"listName" yaml:"listName"`
}

// ViewColumn is a rendered column of a view
type ViewColumn struct {
	SourceListID string      `json:"sourceListId" yaml:"sourceListId"`
	InternalName string      `json:"internalName" yaml:"internalName"`
	DisplayName  string      `json:"displayName" yaml:"displayName"`
	Aggregation  Aggregation `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
}

// ViewFilter is a single predicate; filters of a view are AND-ed
type ViewFilter struct {
	Column   string         `json:"column" yaml:"column"`
	Operator FilterOperator `json:"operator" yaml:"operator"`
	Value    string         `json:"value" yaml:"value"`
}

// SortRule orders results by a column
type SortRule struct {
	Column    string    `json:"column" yaml:"column"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// MaxSortRules is the number of sort levels a view may define (primary, secondary)
const MaxSortRules = 2

// ViewDefinition is the user-authored description of a view.
// ID is empty for a view that has not been saved yet.
type ViewDefinition struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Mode        Mode         `json:"mode" yaml:"mode"`
	Sources     []Source     `json:"sources" yaml:"sources"`
	Columns     []ViewColumn `json:"columns" yaml:"columns"`
	GroupBy     []string     `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
	Filters     []ViewFilter `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sorting     []SortRule   `json:"sorting,omitempty" yaml:"sorting,omitempty"`
}

// ColumnMetadata describes a column of a source list as reported by the fetch layer
type ColumnMetadata struct {
	InternalName string     `json:"internalName" yaml:"internalName"`
	DisplayName  string     `json:"displayName" yaml:"displayName"`
	Type         ColumnType `json:"type" yaml:"type"`
	LookupListID string     `json:"lookupListId,omitempty" yaml:"lookupListId,omitempty"` // Target list for lookup columns
}

// LookupRelationship is a detected reference from a child list to a parent list
type LookupRelationship struct {
	ChildListID      string `json:"childListId"`
	ParentListID     string `json:"parentListId"`
	LookupColumnName string `json:"lookupColumnName"`
}
