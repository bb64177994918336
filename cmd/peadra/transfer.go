package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peadra/peadra/internal/cli"
	"github.com/peadra/peadra/internal/ledger"
	"github.com/peadra/peadra/internal/service"
)

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between accounts",
		Long: `A transfer is stored as two linked rows: an expense on the source
account and an income on the destination, sharing date and amount. The
transaction list shows them as one grouped row.`,
	}

	cmd.AddCommand(addTransferCmd())
	cmd.AddCommand(deleteTransferCmd())

	return cmd
}

func addTransferCmd() *cobra.Command {
	var (
		date  string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "add <source-account> <dest-account> <amount>",
		Short: "Record a transfer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			transferDate, err := parseDate(date)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			source, err := resolveAccount(ctx, store, args[0])
			if err != nil {
				return err
			}
			if source == nil {
				return fmt.Errorf("unknown account %q", args[0])
			}
			dest, err := resolveAccount(ctx, store, args[1])
			if err != nil {
				return err
			}
			if dest == nil {
				return fmt.Errorf("unknown account %q", args[1])
			}

			expenseID, incomeID, err := ledger.CreateTransfer(ctx, store, ledger.NewTransfer{
				Date:     transferDate,
				Amount:   amount,
				SourceID: source.ID,
				DestID:   dest.ID,
				Notes:    notes,
			})
			if err != nil {
				return fmt.Errorf("failed to create transfer: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"✓ Transferred %s from %q to %q (rows %d, %d)",
				cli.FormatAmount(amount), source.Name, dest.Name, expenseID, incomeID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transfer date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func deleteTransferCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete both legs of a transfer",
		Long: `Given the id of either leg, find its paired row and delete both.
If the row is not part of a recognizable pair, nothing is deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			group, err := findTransferGroup(cmd, store, id)
			if err != nil {
				return err
			}
			if group == nil {
				return fmt.Errorf("transaction %d is not part of a transfer pair", id)
			}

			if !force {
				ok, err := cli.Confirm(os.Stdin, os.Stdout,
					fmt.Sprintf("Delete transfer %q (%s)?", group.Description, cli.FormatAmount(group.Amount)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.InfoStyle.Render("Aborted."))
					return nil
				}
			}

			ok, err := ledger.DeleteTransfer(ctx, store, group)
			if err != nil {
				return fmt.Errorf("failed to delete transfer: %w", err)
			}
			if !ok {
				return fmt.Errorf("transfer rows %d and %d were not both found", group.ExpenseID, group.IncomeID)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted transfer (rows %d, %d)", group.ExpenseID, group.IncomeID)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

// findTransferGroup re-derives the pair grouping over the full list and
// returns the group containing the given row id, if any.
func findTransferGroup(cmd *cobra.Command, store service.Storage, id int64) (*ledger.TransferGroup, error) {
	rows, err := store.GetTransactions(cmd.Context(), service.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	for _, entry := range ledger.GroupTransfers(rows) {
		if entry.Transfer == nil {
			continue
		}
		if entry.Transfer.ExpenseID == id || entry.Transfer.IncomeID == id {
			return entry.Transfer, nil
		}
	}
	return nil, nil
}
