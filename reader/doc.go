// Package reader provides the source lists views are materialized from.
//
// Every list lives in one or more parquet files described by a YAML catalog.
// The package reads those files, derives column metadata from their schema
// and converts parquet rows into view rows tagged with their origin.
//
// # Catalog
//
// A catalog names each list and where its rows are stored:
//
//	lists:
//	  - siteId: sales
//	    listId: orders
//	    name: Orders
//	    path: data/orders.parquet
//	    idColumn: ID
//	  - siteId: sales
//	    listId: lines
//	    name: Order Lines
//	    path: data/lines-*.parquet
//	    lookups:
//	      - column: Order
//	        targetListId: orders
//	    displayNames:
//	      Amount: Line Amount
//
// Relative paths resolve against the catalog's directory. A path may be a
// glob pattern when a list is sharded across files.
//
// # Lookup Columns
//
// A lookup stored as a parquet group with LookupId and LookupValue leaves
// becomes one lookup column named after the group; a repeated group is a
// multi-valued lookup. Lookups can also be declared in the catalog, which is
// how a flat "Order" text column with an "OrderLookupId" sibling is linked
// to its target list.
//
// # Fetching
//
//	cat, err := reader.LoadCatalog("catalog.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fetcher := reader.NewFetcher(cat, logger)
//	snap, err := fetcher.Fetch(ctx, def.Sources)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result := view.Materialize(def, snap)
//
// Lists are read concurrently, and a failure in any one of them fails the
// whole fetch.
//
// # Resource Management
//
// Always call Close() when reading a file directly with NewReader:
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
// The package uses github.com/parquet-go/parquet-go for the underlying
// parquet file operations.
package reader
