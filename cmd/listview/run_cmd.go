package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vegasq/listview/store"
	"github.com/vegasq/listview/view"
)

func newRunCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "run <view-file|view-id>",
		Short: "Materialize a view and print its records",
		Long: `Materialize a view read from a YAML or JSON file, or a saved view by ID,
and print its records in the selected format.`,
		Example: `  listview run views/totals.yaml
  listview run 6f1c2e2a-8f0e-4b0a-9a57-1f5f0b1d2c3e -f csv
  listview run views/totals.yaml -f jsonl --limit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative, got %d", limit)
			}

			def, err := a.resolveView(args[0])
			if err != nil {
				return err
			}
			if err := def.Validate(); err != nil {
				return err
			}

			result, err := a.materialize(cmd.Context(), def)
			if err != nil {
				return err
			}
			if limit > 0 && len(result.Records) > limit {
				result.Records = result.Records[:limit]
			}
			return a.print(cmd, result)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Limit number of records (0 = unlimited)")
	return cmd
}

// resolveView loads a view from a file when ref names one, otherwise from the store
func (a *app) resolveView(ref string) (view.ViewDefinition, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return store.LoadFile(afero.NewOsFs(), ref)
	}

	def, err := a.store().Get(ref)
	if errors.Is(err, store.ErrNotFound) {
		return view.ViewDefinition{}, fmt.Errorf("%q is neither a view file nor a saved view ID", ref)
	}
	return def, err
}

// materialize fetches the lists of def and runs the view over them
func (a *app) materialize(ctx context.Context, def view.ViewDefinition) (view.Result, error) {
	fetcher, err := a.fetcher()
	if err != nil {
		return view.Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	snap, err := fetcher.Fetch(ctx, def.Sources)
	if err != nil {
		return view.Result{}, err
	}

	result := view.Materialize(def, snap)
	a.logger.Debug("view materialized",
		"view", def.Name,
		"records", len(result.Records),
		"relationships", len(result.Relationships),
		"duration", time.Since(start))
	return result, nil
}
