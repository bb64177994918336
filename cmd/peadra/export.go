package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peadra/peadra/internal/cli"
	"github.com/peadra/peadra/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger to a file",
	}

	cmd.AddCommand(exportJSONCmd())
	cmd.AddCommand(exportCSVCmd())

	return cmd
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json <path>",
		Short: "Export accounts and transactions as a JSON archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := export.WriteJSON(ctx, store, args[0]); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Exported ledger to " + args[0]))
			return nil
		},
	}
}

func exportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv <path>",
		Short: "Export all transactions as a flat CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := export.WriteCSV(ctx, store, args[0]); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Exported transactions to " + args[0]))
			return nil
		},
	}
}
