package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/peadra/peadra/internal/cli"
	"github.com/peadra/peadra/internal/export"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from a file",
	}

	cmd.AddCommand(importCSVCmd())

	return cmd
}

func importCSVCmd() *cobra.Command {
	var (
		dateCol int
		descCol int
		amntCol int
		account string
	)

	cmd := &cobra.Command{
		Use:   "csv <path>",
		Short: "Import transactions from a CSV file",
		Long: `Import transactions from a CSV file. The delimiter is sniffed from the
first line; --date-col, --description-col, and --amount-col map the input
columns. Negative amounts import as expenses, positive as income.
Rows with unparseable dates or amounts are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer func() { _ = f.Close() }()

			// Count lines up front so the progress bar has a total.
			lines, err := countLines(path)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts := export.ImportOptions{
				Mapping: export.ColumnMapping{
					Date:        dateCol,
					Description: descCol,
					Amount:      amntCol,
				},
			}

			if account != "" {
				acc, err := resolveAccount(ctx, store, account)
				if err != nil {
					return err
				}
				opts.AccountID = &acc.ID
			}

			bar := progressbar.NewOptions(lines,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing transactions..."),
			)
			opts.OnRow = func() { _ = bar.Add(1) }

			result, err := export.ImportCSV(ctx, store, f, opts)
			_ = bar.Finish()
			fmt.Println()
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d transactions", result.Imported)))
			if result.Skipped > 0 {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("  Skipped %d unparseable rows", result.Skipped)))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&dateCol, "date-col", 0, "zero-based index of the date column")
	cmd.Flags().IntVar(&descCol, "description-col", 1, "zero-based index of the description column")
	cmd.Flags().IntVar(&amntCol, "amount-col", 2, "zero-based index of the amount column")
	cmd.Flags().StringVar(&account, "account", "", "account name or id to import into")

	return cmd
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	count := 0
	scan := bufio.NewScanner(f)
	scan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scan.Scan() {
		count++
	}
	if err := scan.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan import file: %w", err)
	}
	return count, nil
}
