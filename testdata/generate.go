// Generate writes a sample catalog, its parquet lists and a few views.
//
//	go run testdata/generate.go -out ./sample
//	listview --catalog sample/catalog.yaml --views-dir sample/views views list
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
)

type Lookup struct {
	LookupId    int64  `parquet:"LookupId"`
	LookupValue string `parquet:"LookupValue"`
}

type Customer struct {
	ID     int64  `parquet:"ID"`
	Name   string `parquet:"Name"`
	Region string `parquet:"Region"`
}

// Order stores its customer flat, as a display value plus an ID sibling
type Order struct {
	ID               int64     `parquet:"ID"`
	Title            string    `parquet:"Title"`
	Customer         string    `parquet:"Customer"`
	CustomerLookupId int64     `parquet:"CustomerLookupId"`
	Status           string    `parquet:"Status"`
	Paid             bool      `parquet:"Paid"`
	Placed           time.Time `parquet:"Placed,timestamp"`
}

// Line stores its order as a lookup group and its tags as a repeated group
type Line struct {
	ID       int64    `parquet:"ID"`
	Order    Lookup   `parquet:"Order"`
	Product  string   `parquet:"Product"`
	Quantity int32    `parquet:"Quantity"`
	Amount   float64  `parquet:"Amount"`
	Tags     []Lookup `parquet:"Tags"`
}

const catalogYAML = `lists:
  - siteId: sales
    listId: customers
    name: Customers
    path: customers.parquet
  - siteId: sales
    listId: orders
    name: Orders
    path: orders.parquet
    lookups:
      - column: Customer
        targetListId: customers
  - siteId: sales
    listId: lines
    name: Order Lines
    path: lines-*.parquet
    lookups:
      - column: Order
        targetListId: orders
    displayNames:
      Amount: Line Amount
`

var views = map[string]string{
	"order-totals.yaml": `name: Order totals by status
mode: aggregate
sources:
  - {siteId: sales, listId: orders, listName: Orders}
  - {siteId: sales, listId: lines, listName: Order Lines}
columns:
  - {sourceListId: orders, internalName: Status, displayName: Status}
  - {sourceListId: orders, internalName: ID, displayName: Orders, aggregation: count}
  - {sourceListId: lines, internalName: Amount, displayName: Revenue, aggregation: sum}
  - {sourceListId: lines, internalName: Quantity, displayName: Avg Quantity, aggregation: avg}
groupBy: [Status]
sorting:
  - {column: Amount, direction: desc}
`,
	"open-items.yaml": `name: Open items
mode: union
sources:
  - {siteId: sales, listId: orders, listName: Orders}
  - {siteId: sales, listId: lines, listName: Order Lines}
columns:
  - {sourceListId: orders, internalName: Title, displayName: Title}
  - {sourceListId: orders, internalName: Status, displayName: Status}
  - {sourceListId: lines, internalName: Product, displayName: Product}
  - {sourceListId: lines, internalName: Amount, displayName: Amount}
filters:
  - {column: Status, operator: ne, value: closed}
sorting:
  - {column: _sourceListName, direction: asc}
  - {column: Amount, direction: desc}
`,
	"regions.yaml": `name: Orders per region
mode: aggregate
sources:
  - {siteId: sales, listId: customers, listName: Customers}
  - {siteId: sales, listId: orders, listName: Orders}
columns:
  - {sourceListId: customers, internalName: Region, displayName: Region}
  - {sourceListId: orders, internalName: ID, displayName: Orders, aggregation: count}
groupBy: [Region]
`,
}

func writeParquet[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func main() {
	out := flag.String("out", "sample", "Output directory")
	flag.Parse()

	if err := os.MkdirAll(filepath.Join(*out, "views"), 0o755); err != nil {
		log.Fatal(err)
	}

	customers := []Customer{
		{ID: 1, Name: "Acme", Region: "EMEA"},
		{ID: 2, Name: "Globex", Region: "AMER"},
		{ID: 3, Name: "Initech", Region: "AMER"},
	}

	day := func(d int) time.Time { return time.Date(2024, time.March, d, 9, 0, 0, 0, time.UTC) }
	orders := []Order{
		{ID: 1, Title: "SO-1001", Customer: "Acme", CustomerLookupId: 1, Status: "open", Paid: false, Placed: day(1)},
		{ID: 2, Title: "SO-1002", Customer: "Globex", CustomerLookupId: 2, Status: "closed", Paid: true, Placed: day(3)},
		{ID: 3, Title: "SO-1003", Customer: "Acme", CustomerLookupId: 1, Status: "open", Paid: true, Placed: day(7)},
		{ID: 4, Title: "SO-1004", Customer: "Initech", CustomerLookupId: 3, Status: "shipped", Paid: true, Placed: day(9)},
	}

	ref := func(id int64, value string) Lookup { return Lookup{LookupId: id, LookupValue: value} }
	express, fragile := ref(1, "express"), ref(2, "fragile")
	lines := [][]Line{
		{
			{ID: 1, Order: ref(1, "SO-1001"), Product: "Widget", Quantity: 4, Amount: 40, Tags: []Lookup{express}},
			{ID: 2, Order: ref(1, "SO-1001"), Product: "Gadget", Quantity: 1, Amount: 125.5},
			{ID: 3, Order: ref(2, "SO-1002"), Product: "Widget", Quantity: 10, Amount: 100, Tags: []Lookup{express, fragile}},
		},
		{
			{ID: 4, Order: ref(3, "SO-1003"), Product: "Sprocket", Quantity: 3, Amount: 19.99},
			{ID: 5, Order: ref(4, "SO-1004"), Product: "Gadget", Quantity: 2, Amount: 251, Tags: []Lookup{fragile}},
		},
	}

	if err := writeParquet(filepath.Join(*out, "customers.parquet"), customers); err != nil {
		log.Fatal(err)
	}
	if err := writeParquet(filepath.Join(*out, "orders.parquet"), orders); err != nil {
		log.Fatal(err)
	}
	for i, shard := range lines {
		if err := writeParquet(filepath.Join(*out, fmt.Sprintf("lines-%d.parquet", i+1)), shard); err != nil {
			log.Fatal(err)
		}
	}

	if err := os.WriteFile(filepath.Join(*out, "catalog.yaml"), []byte(catalogYAML), 0o644); err != nil {
		log.Fatal(err)
	}
	for name, body := range views {
		if err := os.WriteFile(filepath.Join(*out, "views", name), []byte(body), 0o644); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("Generated sample catalog with %d customers, %d orders and %d line shards in %s",
		len(customers), len(orders), len(lines), *out)
}
