package view

// newRow builds a row of list with the given item ID, converting raw field values
func newRow(list, itemID string, fields map[string]interface{}) Row {
	converted := make(map[string]Value, len(fields))
	for k, v := range fields {
		converted[k] = ValueOf(v)
	}
	return Row{SourceListID: list, SourceListName: list, ItemID: itemID, Fields: converted}
}

// rowsWith builds rows of list carrying a single column, item IDs numbered from 1
func rowsWith(list, column string, values ...interface{}) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = newRow(list, itoa(i+1), map[string]interface{}{column: v})
	}
	return rows
}

func itoa(i int) string {
	return Number(float64(i)).String()
}

// column collects the values of a column across records
func column[T Getter](rows []T, name string) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r.Get(name).Interface()
	}
	return out
}
