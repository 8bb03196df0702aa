package reader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
)

type lookupCell struct {
	LookupId    int64  `parquet:"LookupId"`
	LookupValue string `parquet:"LookupValue"`
}

type orderRow struct {
	ID       int64   `parquet:"ID"`
	Customer string  `parquet:"Customer"`
	Total    float64 `parquet:"Total"`
	Paid     bool    `parquet:"Paid"`
}

type lineRow struct {
	ID     int64      `parquet:"ID"`
	Order  lookupCell `parquet:"Order"`
	Amount float64    `parquet:"Amount"`
}

// expiringContext reports no error for its first remaining Err calls and
// context.DeadlineExceeded after that, so a deadline can pass at an exact
// point of a read
type expiringContext struct {
	context.Context
	remaining int
}

func (c *expiringContext) Err() error {
	if c.remaining > 0 {
		c.remaining--
		return nil
	}
	return context.DeadlineExceeded
}

// writeParquet writes rows to dir/name and returns the file path
func writeParquet[T any](t *testing.T, dir, name string, rows []T) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)

	writer := parquet.NewGenericWriter[T](f)
	_, err = writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	require.NoError(t, f.Close())
	return path
}

// writeCatalog writes an orders/lines dataset and its catalog, returning the catalog path
func writeCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeParquet(t, dir, "orders.parquet", []orderRow{
		{ID: 1, Customer: "acme", Total: 25, Paid: true},
		{ID: 2, Customer: "globex", Total: 7},
	})
	writeParquet(t, dir, "lines-1.parquet", []lineRow{
		{ID: 10, Order: lookupCell{LookupId: 1, LookupValue: "acme"}, Amount: 10},
		{ID: 11, Order: lookupCell{LookupId: 1, LookupValue: "acme"}, Amount: 15},
	})
	writeParquet(t, dir, "lines-2.parquet", []lineRow{
		{ID: 12, Order: lookupCell{LookupId: 2, LookupValue: "globex"}, Amount: 7},
	})

	catalog := `
lists:
  - siteId: sales
    listId: orders
    name: Orders
    path: orders.parquet
    displayNames:
      Total: Order Total
  - siteId: sales
    listId: lines
    name: Order Lines
    path: lines-*.parquet
    lookups:
      - column: Order
        targetListId: orders
`
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))
	return path
}
