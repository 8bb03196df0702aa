// Package output provides formatters for presenting materialized views.
//
// Every formatter writes the records of a view.Result under the result's
// headers. Supported formats:
//
//   - table: aligned text table titled with the display headers
//   - json: the whole result, headers and relationships included, as one document
//   - jsonl: one JSON object per record, keyed by column key
//   - csv: a title row followed by one row per record
//
// # Basic Usage
//
//	result := view.Materialize(def, snap)
//
//	formatter, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(result); err != nil {
//	    log.Fatal(err)
//	}
//
// # Display Rules
//
// The text formats (table and csv) show lookups by their display values,
// joining multi-valued lookups with "; ", show booleans as Yes or No and
// leave null cells empty. JSON formats keep native JSON types and render
// lookups as {"LookupId": ..., "LookupValue": ...} objects.
//
// CSV cells that a spreadsheet would execute as a formula are prefixed
// with a single quote.
package output
