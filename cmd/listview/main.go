// Command listview materializes views over parquet-backed lists.
//
// Usage:
//
//	listview run views/open-orders.yaml -f csv
//	listview views import views/open-orders.yaml
//	listview lists columns sales orders
//	listview serve --addr :8080
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
