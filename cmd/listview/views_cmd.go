package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vegasq/listview/store"
	"github.com/vegasq/listview/view"
)

func newViewsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Manage saved views",
	}
	cmd.AddCommand(
		newViewsListCmd(a),
		newViewsShowCmd(a),
		newViewsImportCmd(a),
		newViewsDeleteCmd(a),
	)
	return cmd
}

func newViewsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs, err := a.store().List()
			if err != nil {
				return err
			}

			records := make([]view.Record, len(defs))
			for i, def := range defs {
				records[i] = view.Record{
					"id":      view.String(def.ID),
					"name":    view.String(def.Name),
					"mode":    view.String(def.Mode.String()),
					"sources": view.Number(float64(len(def.Sources))),
				}
			}
			return a.print(cmd, table([]string{"id", "name", "mode", "sources"}, records))
		},
	}
}

func newViewsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved view as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.store().Get(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(def); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newViewsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Save a view from a YAML or JSON file",
		Long:  "Save a view from a file. A view without an id is assigned a new one; a view with an id replaces the saved view with that id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := store.LoadFile(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			saved, err := a.store().Save(def)
			if err != nil {
				return err
			}
			a.logger.Info("view saved", "id", saved.ID, "name", saved.Name)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
			return err
		},
	}
}

func newViewsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.store().Delete(args[0]); err != nil {
				return err
			}
			a.logger.Info("view deleted", "id", args[0])
			return nil
		},
	}
}
