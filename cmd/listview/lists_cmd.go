package main

import (
	"github.com/spf13/cobra"

	"github.com/vegasq/listview/reader"
	"github.com/vegasq/listview/view"
)

func newListsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "List the catalog's source lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetcher, err := a.fetcher()
			if err != nil {
				return err
			}

			sources := fetcher.Sources()
			records := make([]view.Record, len(sources))
			for i, src := range sources {
				records[i] = view.Record{
					"siteId":   view.String(src.SiteID),
					"listId":   view.String(src.ListID),
					"listName": view.String(src.ListName),
				}
			}
			return a.print(cmd, table([]string{"siteId", "listId", "listName"}, records))
		},
	}
	cmd.AddCommand(newListsColumnsCmd(a))
	return cmd
}

func newListsColumnsCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "columns <siteId> <listId>",
		Short: "Show the columns of a list",
		Long: `Show the columns of a list as views see them. With --raw, show the
parquet schema of the list's first file instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher, err := a.fetcher()
			if err != nil {
				return err
			}

			if raw {
				return a.printSchema(cmd, fetcher, args[0], args[1])
			}

			columns, err := fetcher.Columns(args[0], args[1])
			if err != nil {
				return err
			}
			records := make([]view.Record, len(columns))
			for i, col := range columns {
				records[i] = view.Record{
					"internalName": view.String(col.InternalName),
					"displayName":  view.String(col.DisplayName),
					"type":         view.String(col.Type.String()),
					"lookupListId": view.ValueOf(nonEmpty(col.LookupListID)),
				}
			}
			return a.print(cmd, table([]string{"internalName", "displayName", "type", "lookupListId"}, records))
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Show the parquet schema")
	return cmd
}

func (a *app) printSchema(cmd *cobra.Command, fetcher *reader.Fetcher, siteID, listID string) error {
	infos, err := fetcher.Schema(siteID, listID)
	if err != nil {
		return err
	}

	records := make([]view.Record, len(infos))
	for i, info := range infos {
		records[i] = view.Record{
			"name":          view.String(info.Name),
			"type":          view.String(info.Type),
			"physical_type": view.String(info.PhysicalType),
			"logical_type":  view.String(info.LogicalType),
			"required":      view.Bool(info.Required),
			"repeated":      view.Bool(info.Repeated),
		}
	}
	return a.print(cmd, table([]string{"name", "type", "physical_type", "logical_type", "required", "repeated"}, records))
}

// nonEmpty returns nil for an empty string so it presents as null
func nonEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
