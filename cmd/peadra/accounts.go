package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/peadra/peadra/internal/cli"
	"github.com/peadra/peadra/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List, add, update, delete, and merge the accounts that transactions are posted against.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(updateAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(mergeAccountsCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to get accounts: %w", err)
			}

			if len(accounts) == 0 {
				fmt.Println(cli.InfoStyle.Render("No accounts found. Use 'peadra accounts add' to create one."))
				return nil
			}

			distribution, err := store.GetAccountsDistribution(ctx)
			if err != nil {
				return fmt.Errorf("failed to get account balances: %w", err)
			}
			balances := make(map[int64]float64, len(distribution))
			for _, entry := range distribution {
				balances[entry.ID] = entry.Balance
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Type"),
				cli.TableHeaderStyle.Render("Balance"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 10),
				strings.Repeat("-", 12))

			for _, acc := range accounts {
				accountType := string(acc.Type)
				if accountType == "" {
					accountType = cli.SubtleStyle.Render("(untyped)")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					acc.ID, acc.Name, accountType, cli.FormatAmount(balances[acc.ID]))
			}

			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		color       string
		accountType string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := store.CreateAccount(ctx, args[0], color, model.AccountType(accountType))
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created account %q (id %d)", account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#1976D2", "display color (hex)")
	cmd.Flags().StringVar(&accountType, "type", "", "account type (checking, savings, or empty)")

	return cmd
}

func updateAccountCmd() *cobra.Command {
	var (
		name        string
		color       string
		accountType string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account's name, color, or type",
		Long: `Update an account. Renaming also rewrites the transfer descriptions
("Transfer to/from <name>") that reference it.`,
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

			current, err := store.GetAccountByID(ctx, id)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("account %d not found", id)
			}

			// Unset flags keep the current values.
			if !cmd.Flags().Changed("name") {
				name = current.Name
			}
			if !cmd.Flags().Changed("color") {
				color = current.Color
			}
			if !cmd.Flags().Changed("type") {
				accountType = string(current.Type)
			}

			ok, err := store.UpdateAccount(ctx, id, name, color, model.AccountType(accountType))
			if err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}
			if !ok {
				return fmt.Errorf("account %d not found", id)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Updated account %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new account name")
	cmd.Flags().StringVar(&color, "color", "", "new display color (hex)")
	cmd.Flags().StringVar(&accountType, "type", "", "new account type (checking, savings, or empty)")

	return cmd
}

func deleteAccountCmd() *cobra.Command {
	var (
		deleteTransactions bool
		force              bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Long: `Delete an account. By default its transactions survive without an
account reference; --delete-transactions removes them as well.`,
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

			account, err := store.GetAccountByID(ctx, id)
			if err != nil {
				return err
			}
			if account == nil {
				return fmt.Errorf("account %d not found", id)
			}

			if !force {
				question := fmt.Sprintf("Delete account %q?", account.Name)
				if deleteTransactions {
					question = fmt.Sprintf("Delete account %q and all its transactions?", account.Name)
				}
				ok, err := cli.Confirm(os.Stdin, os.Stdout, question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.InfoStyle.Render("Aborted."))
					return nil
				}
			}

			ok, err := store.DeleteAccount(ctx, id, deleteTransactions)
			if err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}
			if !ok {
				return fmt.Errorf("account %d not found", id)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted account %q", account.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&deleteTransactions, "delete-transactions", false, "also delete the account's transactions")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func mergeAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <source-id> <target-id>",
		Short: "Merge one account into another",
		Long:  `Reassign every transaction of the source account to the target, then delete the source.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sourceID, err := parseID(args[0])
			if err != nil {
				return err
			}
			targetID, err := parseID(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.MergeAccounts(ctx, sourceID, targetID); err != nil {
				return fmt.Errorf("failed to merge accounts: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Merged account %d into %d", sourceID, targetID)))
			return nil
		},
	}
}
