package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vegasq/listview/internal/config"
	"github.com/vegasq/listview/output"
	"github.com/vegasq/listview/reader"
	"github.com/vegasq/listview/store"
	"github.com/vegasq/listview/view"
)

// app carries the resolved configuration shared by every command
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	format string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var (
		catalogPath string
		viewsDir    string
		logLevel    string
		logFormat   string
	)

	rootCmd := &cobra.Command{
		Use:           "listview",
		Short:         "Materialize views over parquet-backed lists",
		Long:          "Combine lists from a catalog into union or aggregate views with filters, grouping and sorting.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}

			// Flags override the environment
			flags := cmd.Flags()
			if flags.Changed("catalog") {
				cfg.CatalogPath = catalogPath
			}
			if flags.Changed("views-dir") {
				cfg.ViewsDir = viewsDir
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}

			a.cfg = cfg
			a.logger = cfg.NewLogger(cmd.ErrOrStderr())
			for _, w := range cfg.Warnings {
				a.logger.Warn(w)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&catalogPath, "catalog", "", "List catalog file (env "+config.EnvCatalog+")")
	flags.StringVar(&viewsDir, "views-dir", "", "Directory of saved views (env "+config.EnvViewsDir+")")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env "+config.EnvLogLevel+")")
	flags.StringVar(&logFormat, "log-format", "", "Log format: text, json (env "+config.EnvLogFormat+")")
	flags.StringVarP(&a.format, "format", "f", output.FormatTable, "Output format: table, json, jsonl, csv")

	rootCmd.AddCommand(
		newRunCmd(a),
		newViewsCmd(a),
		newListsCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) fetcher() (*reader.Fetcher, error) {
	cat, err := reader.LoadCatalog(a.cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return reader.NewFetcher(cat, a.logger), nil
}

func (a *app) store() *store.Store {
	return store.NewOS(a.cfg.ViewsDir)
}

// print writes result to cmd's output in the selected format
func (a *app) print(cmd *cobra.Command, result view.Result) error {
	formatter, err := output.New(a.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := formatter.Format(result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// table builds a result for presenting plain listings through a formatter
func table(keys []string, records []view.Record) view.Result {
	headers := make([]view.Header, len(keys))
	for i, k := range keys {
		headers[i] = view.Header{Key: k, Title: k}
	}
	return view.Result{Mode: view.ModeUnion, Headers: headers, Records: records}
}
