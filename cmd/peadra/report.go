package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/peadra/peadra/internal/cli"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Balances and summaries",
		Long:  `Read-only reports derived from the ledger: balances, monthly flow, per-account distribution, and month-over-month trends.`,
	}

	cmd.AddCommand(balanceReportCmd())
	cmd.AddCommand(monthlyReportCmd())
	cmd.AddCommand(distributionReportCmd())
	cmd.AddCommand(trendReportCmd())

	return cmd
}

func balanceReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show balance, savings, and patrimony",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			balance, err := store.GetBalance(ctx)
			if err != nil {
				return fmt.Errorf("failed to get balance: %w", err)
			}
			savings, err := store.GetSavingsTotal(ctx)
			if err != nil {
				return fmt.Errorf("failed to get savings: %w", err)
			}
			patrimony, err := store.GetTotalPatrimony(ctx)
			if err != nil {
				return fmt.Errorf("failed to get patrimony: %w", err)
			}

			fmt.Printf("%s %s\n", cli.BoldStyle.Render("Balance:  "), cli.FormatAmount(balance))
			fmt.Printf("%s %s\n", cli.BoldStyle.Render("Savings:  "), cli.FormatAmount(savings))
			fmt.Printf("%s %s\n", cli.BoldStyle.Render("Patrimony:"), cli.FormatAmount(patrimony))
			return nil
		},
	}
}

func monthlyReportCmd() *cobra.Command {
	var (
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Show one month of checking-account flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month %d", month)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := store.GetMonthlySummary(ctx, year, time.Month(month))
			if err != nil {
				return fmt.Errorf("failed to get monthly summary: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s %d", time.Month(month), year)))
			fmt.Printf("%s %s\n", cli.BoldStyle.Render("Income:  "), cli.IncomeStyle.Render(cli.FormatAmount(summary.Income)))
			fmt.Printf("%s %s\n", cli.BoldStyle.Render("Expenses:"), cli.ExpenseStyle.Render(cli.FormatAmount(summary.Expenses)))
			fmt.Printf("%s %s\n", cli.BoldStyle.Render("Net:     "), cli.FormatAmount(summary.Balance))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12 (default: current)")

	return cmd
}

func distributionReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distribution",
		Short: "Show the net balance of every account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			distribution, err := store.GetAccountsDistribution(ctx)
			if err != nil {
				return fmt.Errorf("failed to get distribution: %w", err)
			}

			if len(distribution) == 0 {
				fmt.Println(cli.InfoStyle.Render("No accounts found."))
				return nil
			}

			var total float64
			for _, entry := range distribution {
				total += entry.Balance
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Account"),
				cli.TableHeaderStyle.Render("Balance"),
				cli.TableHeaderStyle.Render("Share"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 7))

			for _, entry := range distribution {
				share := "—"
				if total != 0 {
					share = fmt.Sprintf("%.1f%%", entry.Balance/total*100)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Name, cli.FormatAmount(entry.Balance), share)
			}

			return nil
		},
	}
}

func trendReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Compare balances against the start of the month",
		Long: `Show balance, savings, and patrimony next to their value at the first
day of the current month, yielding a month-over-month delta.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			now := time.Now()
			monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

			rows := []struct {
				name    string
				current func() (float64, error)
				history func() (float64, error)
			}{
				{"Balance", func() (float64, error) { return store.GetBalance(ctx) },
					func() (float64, error) { return store.GetHistoryBalance(ctx, monthStart) }},
				{"Savings", func() (float64, error) { return store.GetSavingsTotal(ctx) },
					func() (float64, error) { return store.GetHistorySavings(ctx, monthStart) }},
				{"Patrimony", func() (float64, error) { return store.GetTotalPatrimony(ctx) },
					func() (float64, error) { return store.GetHistoryPatrimony(ctx, monthStart) }},
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render(""),
				cli.TableHeaderStyle.Render("Now"),
				cli.TableHeaderStyle.Render("Month start"),
				cli.TableHeaderStyle.Render("Delta"))

			for _, row := range rows {
				current, err := row.current()
				if err != nil {
					return fmt.Errorf("failed to get %s: %w", strings.ToLower(row.name), err)
				}
				history, err := row.history()
				if err != nil {
					return fmt.Errorf("failed to get historical %s: %w", strings.ToLower(row.name), err)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					cli.BoldStyle.Render(row.name),
					cli.FormatAmount(current),
					cli.FormatAmount(history),
					cli.FormatSignedAmount(current-history))
			}

			return nil
		},
	}
}
