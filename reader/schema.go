package reader

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/listview/view"
)

// Field names of a lookup stored as a parquet group
const (
	lookupIDField    = "LookupId"
	lookupValueField = "LookupValue"
)

// SchemaInfo represents metadata about a single column in a Parquet file.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// ExtractSchemaInfo extracts schema information from a Parquet file.
//
// For nested types, field names use dot notation (e.g., "Order.LookupId").
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	reader, err := NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = reader.Close() }()

	return SchemaInfoOf(reader.Schema()), nil
}

// SchemaInfoOf flattens a parquet schema into one SchemaInfo per leaf column
func SchemaInfoOf(schema *parquet.Schema) []SchemaInfo {
	var infos []SchemaInfo
	for _, field := range schema.Fields() {
		infos = append(infos, extractFieldInfo(field, "", false)...)
	}
	return infos
}

// extractFieldInfo recursively extracts leaf columns, propagating the
// repeated flag of enclosing groups down to their children.
func extractFieldInfo(field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		var infos []SchemaInfo
		for _, child := range children {
			infos = append(infos, extractFieldInfo(child, name, repeated)...)
		}
		return infos
	}

	return []SchemaInfo{{
		Name:         name,
		Type:         friendlyType(field),
		PhysicalType: physicalType(field),
		LogicalType:  logicalType(field),
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     repeated,
	}}
}

func physicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

func logicalType(field parquet.Field) string {
	if field.Type() == nil {
		return ""
	}
	lt := field.Type().LogicalType()
	if lt == nil {
		return ""
	}
	return lt.String()
}

// friendlyType converts parquet's physical and logical types into the
// simpler names shown to users.
func friendlyType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	if lt := field.Type().LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil, lt.Enum != nil, lt.UUID != nil, lt.Json != nil:
			return "STRING"
		case lt.Date != nil:
			return "DATE"
		case lt.Time != nil:
			return "TIME"
		case lt.Timestamp != nil:
			return "TIMESTAMP"
		case lt.Decimal != nil:
			return "DECIMAL"
		}
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT32"
	case parquet.Double:
		return "FLOAT64"
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return "BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// columnType maps a friendly parquet type onto a view column type
func columnType(friendly string) view.ColumnType {
	switch friendly {
	case "STRING", "BYTE_ARRAY":
		return view.TypeText
	case "INT32", "INT64", "INT96", "FLOAT32", "FLOAT64", "DECIMAL":
		return view.TypeNumber
	case "BOOLEAN":
		return view.TypeBoolean
	case "DATE", "TIME", "TIMESTAMP":
		return view.TypeDateTime
	default:
		return view.TypeUnknown
	}
}

// ColumnsFor derives the column metadata of a list from its parquet schema.
//
// A group holding LookupId and LookupValue leaves collapses into a single
// lookup column named after the group. Lookups declared in the catalog mark
// their column as a lookup into the declared target list, even when the
// list stores it flat as a text column with a "<column>LookupId" sibling.
// Display names come from the catalog and default to the internal name.
func ColumnsFor(src ListSource, infos []SchemaInfo) []view.ColumnMetadata {
	targets := make(map[string]string, len(src.Lookups))
	for _, l := range src.Lookups {
		targets[l.Column] = l.TargetListID
	}

	var columns []view.ColumnMetadata
	seen := make(map[string]bool)
	add := func(col view.ColumnMetadata) {
		if seen[col.InternalName] {
			return
		}
		seen[col.InternalName] = true
		if target, ok := targets[col.InternalName]; ok {
			col.Type = view.TypeLookup
			col.LookupListID = target
		}
		col.DisplayName = src.displayName(col.InternalName)
		columns = append(columns, col)
	}

	for _, info := range infos {
		if group, ok := lookupGroup(info.Name); ok {
			add(view.ColumnMetadata{InternalName: group, Type: view.TypeLookup})
			continue
		}
		add(view.ColumnMetadata{InternalName: info.Name, Type: columnType(info.Type)})
	}

	// A declared lookup may exist only as its "<column>LookupId" sibling
	for _, l := range src.Lookups {
		if !seen[l.Column] && seen[l.Column+view.LookupIDSuffix] {
			add(view.ColumnMetadata{InternalName: l.Column})
		}
	}

	return columns
}

// lookupGroup reports the top-level column a LookupId or LookupValue leaf
// belongs to. List-wrapped groups such as "Tags.list.element.LookupId"
// resolve to their outermost name.
func lookupGroup(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	leaf := name[i+1:]
	if leaf != lookupIDField && leaf != lookupValueField {
		return "", false
	}
	group, _, _ := strings.Cut(name, ".")
	return group, true
}
