// Package view materializes list views for display.
//
// A view combines rows fetched from several source lists into one table.
// Two modes are supported:
//   - union: rows from every source are stacked, filtered and sorted
//   - aggregate: related sources are joined, rows are filtered, grouped and
//     summarized with COUNT, SUM, AVG, MIN or MAX, then sorted
//
// # Basic Usage
//
//	def := view.ViewDefinition{
//	    Name: "Order totals",
//	    Mode: view.ModeAggregate,
//	    Sources: []view.Source{
//	        {SiteID: "siteA", ListID: "orders", ListName: "Orders"},
//	        {SiteID: "siteA", ListID: "lines", ListName: "LineItems"},
//	    },
//	    Columns: []view.ViewColumn{
//	        {SourceListID: "orders", InternalName: "Title", DisplayName: "Order"},
//	        {SourceListID: "lines", InternalName: "Amount", DisplayName: "Amount", Aggregation: view.AggSum},
//	    },
//	    GroupBy: []string{"Title"},
//	}
//
//	result := view.Materialize(def, snapshot)
//	for _, rec := range result.Records {
//	    fmt.Println(rec.Get("Title"), rec.Get("Amount"))
//	}
//
// # Relationships and Joins
//
// In aggregate mode a lookup column whose target list is also a source of
// the view is detected as a relationship. The list that is only ever a
// parent becomes the primary parent; each of its rows carries the matching
// child rows, and columns from child lists aggregate over every matched
// child of every row in the group. Only one level of parent/child join is
// supported.
//
// # Values
//
// Field values are held in a tagged Value (null, bool, number, string,
// lookup or multi-lookup). ValueOf converts decoded data once at the fetch
// boundary; the engine never inspects raw interface{} values.
//
// # Comparison
//
// Sorting compares numerically when both sides parse as numbers and falls
// back to case-insensitive collation that orders digit runs by value, so
// "Item 9" sorts before "Item 10". Nulls sort last in both directions.
//
// Materialize is a pure function of its inputs: it does no I/O, never
// fails, and never mutates the snapshot it is given.
package view
