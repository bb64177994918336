package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/peadra/peadra/internal/cli"
	"github.com/peadra/peadra/internal/ledger"
	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
		Long:  `Add, list, update, delete, and search ledger transactions.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(searchTxCmd())
	cmd.AddCommand(updateTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func searchTxCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search transactions by description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rows, err := store.GetTransactions(ctx, service.TransactionFilter{
				Search: args[0],
				Limit:  limit,
			})
			if err != nil {
				return fmt.Errorf("failed to search transactions: %w", err)
			}

			entries := ledger.GroupTransfers(rows)
			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("No transactions matching %q.", args[0])))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			for _, entry := range entries {
				printEntry(w, entry)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to show (0 for all)")

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		date    string
		account string
		notes   string
		income  bool
	)

	cmd := &cobra.Command{
		Use:   "add <description> <amount>",
		Short: "Add a transaction",
		Long: `Record an expense (default) or an income (--income). The amount is a
positive magnitude; direction comes from the type.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			txnDate, err := parseDate(date)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			acc, err := resolveAccount(ctx, store, account)
			if err != nil {
				return err
			}

			txnType := model.TypeExpense
			if income {
				txnType = model.TypeIncome
			}

			txn := model.NewTransaction{
				Date:        txnDate,
				Description: args[0],
				Amount:      amount,
				Type:        txnType,
				Notes:       notes,
			}
			if acc != nil {
				txn.AccountID = &acc.ID
			}

			id, err := store.AddTransaction(ctx, txn)
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Added transaction %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&account, "account", "", "account name or id")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&income, "income", false, "record an income instead of an expense")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		limit  int
		offset int
		from   string
		to     string
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List transactions newest first, with transfer pairs grouped into a
single row. --from/--to narrow to an inclusive date range.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.TransactionFilter{
				Limit:  limit,
				Offset: offset,
				Search: search,
			}
			if from != "" {
				start, err := parseDate(from)
				if err != nil {
					return err
				}
				filter.StartDate = &start
			}
			if to != "" {
				end, err := parseDate(to)
				if err != nil {
					return err
				}
				filter.EndDate = &end
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rows, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			entries := ledger.GroupTransfers(rows)
			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Date"),
				cli.TableHeaderStyle.Render("Description"),
				cli.TableHeaderStyle.Render("Account"),
				cli.TableHeaderStyle.Render("Amount"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 6),
				strings.Repeat("-", 10),
				strings.Repeat("-", 30),
				strings.Repeat("-", 15),
				strings.Repeat("-", 12))

			for _, entry := range entries {
				printEntry(w, entry)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to show (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&search, "search", "", "filter by description substring")

	return cmd
}

func printEntry(w *tabwriter.Writer, entry ledger.Entry) {
	if entry.Transfer != nil {
		g := entry.Transfer
		fmt.Fprintf(w, "%d+%d\t%s\t%s\t%s\t%s\n",
			g.ExpenseID, g.IncomeID,
			g.Date.Format(model.DateLayout),
			g.Description,
			fmt.Sprintf("%s → %s", g.SourceName, g.DestName),
			cli.FormatAmount(g.Amount))
		return
	}

	txn := entry.Transaction
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
		txn.ID,
		txn.Date.Format(model.DateLayout),
		txn.Description,
		txn.AccountName,
		cli.FormatSignedAmount(txn.SignedAmount()))
}

func updateTxCmd() *cobra.Command {
	var (
		date        string
		description string
		amount      string
		txnType     string
		account     string
		notes       string
		noAccount   bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a transaction",
		Long:  `Apply a partial update: only the given flags change; everything else is left alone.`,
		Args:  cobra.ExactArgs(1),
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

			var update model.TransactionUpdate
			if cmd.Flags().Changed("date") {
				parsed, err := parseDate(date)
				if err != nil {
					return err
				}
				update.Date = &parsed
			}
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if cmd.Flags().Changed("amount") {
				parsed, err := parseAmount(amount)
				if err != nil {
					return err
				}
				update.Amount = &parsed
			}
			if cmd.Flags().Changed("type") {
				parsed := model.TransactionType(txnType)
				if !parsed.Valid() {
					return fmt.Errorf("invalid type %q (income, expense, transfer)", txnType)
				}
				update.Type = &parsed
			}
			if noAccount {
				update.ClearAccount = true
			} else if cmd.Flags().Changed("account") {
				acc, err := resolveAccount(ctx, store, account)
				if err != nil {
					return err
				}
				if acc == nil {
					return fmt.Errorf("unknown account %q", account)
				}
				update.AccountID = &acc.ID
			}
			if cmd.Flags().Changed("notes") {
				update.Notes = &notes
			}

			ok, err := store.UpdateTransaction(ctx, id, update)
			if err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}
			if !ok {
				return fmt.Errorf("transaction %d not found (or nothing to change)", id)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Updated transaction %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount (positive magnitude)")
	cmd.Flags().StringVar(&txnType, "type", "", "new type (income, expense)")
	cmd.Flags().StringVar(&account, "account", "", "new account name or id")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	cmd.Flags().BoolVar(&noAccount, "no-account", false, "detach the transaction from its account")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
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

			txn, err := store.GetTransaction(ctx, id)
			if err != nil {
				return err
			}
			if txn == nil {
				return fmt.Errorf("transaction %d not found", id)
			}

			if !force {
				ok, err := cli.Confirm(os.Stdin, os.Stdout,
					fmt.Sprintf("Delete transaction %q (%s)?", txn.Description, cli.FormatAmount(txn.Amount)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.InfoStyle.Render("Aborted."))
					return nil
				}
			}

			ok, err := store.DeleteTransaction(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
			if !ok {
				return fmt.Errorf("transaction %d not found", id)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted transaction %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
