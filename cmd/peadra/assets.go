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

func assetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Track asset holdings",
		Long: `Track assets (real estate, brokerage positions, vehicles) alongside the
ledger. Every value change is recorded in an append-only history.`,
	}

	cmd.AddCommand(listAssetsCmd())
	cmd.AddCommand(addAssetCmd())
	cmd.AddCommand(setAssetValueCmd())
	cmd.AddCommand(deleteAssetCmd())
	cmd.AddCommand(assetHistoryCmd())

	return cmd
}

func listAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all assets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			assets, err := store.GetAssets(ctx)
			if err != nil {
				return fmt.Errorf("failed to get assets: %w", err)
			}

			if len(assets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No assets found. Use 'peadra assets add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Value"),
				cli.TableHeaderStyle.Render("Purchase"),
				cli.TableHeaderStyle.Render("Gain"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 12),
				strings.Repeat("-", 12),
				strings.Repeat("-", 12))

			for i := range assets {
				asset := &assets[i]
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					asset.ID,
					asset.Name,
					cli.FormatAmount(asset.CurrentValue),
					cli.FormatAmount(asset.PurchaseValue),
					cli.FormatSignedAmount(asset.Gain()))
			}

			return nil
		},
	}
}

func addAssetCmd() *cobra.Command {
	var (
		value         string
		purchaseValue string
		purchaseDate  string
		account       string
		notes         string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			currentValue, err := parseAmount(value)
			if err != nil {
				return err
			}

			asset := model.Asset{
				Name:         args[0],
				CurrentValue: currentValue,
				Notes:        notes,
			}

			if purchaseValue != "" {
				parsed, err := parseAmount(purchaseValue)
				if err != nil {
					return err
				}
				asset.PurchaseValue = parsed
			}
			if purchaseDate != "" {
				parsed, err := parseDate(purchaseDate)
				if err != nil {
					return err
				}
				asset.PurchaseDate = parsed
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if account != "" {
				acc, err := resolveAccount(ctx, store, account)
				if err != nil {
					return err
				}
				if acc == nil {
					return fmt.Errorf("unknown account %q", account)
				}
				asset.AccountID = &acc.ID
			}

			created, err := store.CreateAsset(ctx, asset)
			if err != nil {
				return fmt.Errorf("failed to create asset: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created asset %q (id %d)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "current value (required)")
	cmd.Flags().StringVar(&purchaseValue, "purchase-value", "", "value at purchase")
	cmd.Flags().StringVar(&purchaseDate, "purchase-date", "", "purchase date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&account, "account", "", "linked account name or id")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func setAssetValueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-value <id> <value>",
		Short: "Record a new current value for an asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			value, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ok, err := store.UpdateAssetValue(ctx, id, value)
			if err != nil {
				return fmt.Errorf("failed to update asset value: %w", err)
			}
			if !ok {
				return fmt.Errorf("asset %d not found", id)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Asset %d is now worth %s", id, cli.FormatAmount(value))))
			return nil
		},
	}
}

func deleteAssetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an asset and its history",
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

			asset, err := store.GetAssetByID(ctx, id)
			if err != nil {
				return err
			}
			if asset == nil {
				return fmt.Errorf("asset %d not found", id)
			}

			if !force {
				ok, err := cli.Confirm(os.Stdin, os.Stdout,
					fmt.Sprintf("Delete asset %q and its value history?", asset.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.InfoStyle.Render("Aborted."))
					return nil
				}
			}

			ok, err := store.DeleteAsset(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to delete asset: %w", err)
			}
			if !ok {
				return fmt.Errorf("asset %d not found", id)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted asset %q", asset.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func assetHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the value history of an asset",
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

			asset, err := store.GetAssetByID(ctx, id)
			if err != nil {
				return err
			}
			if asset == nil {
				return fmt.Errorf("asset %d not found", id)
			}

			history, err := store.GetAssetHistory(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get asset history: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render(asset.Name))
			for _, entry := range history {
				fmt.Printf("%s  %s\n",
					entry.RecordedAt.Format("2006-01-02 15:04"),
					cli.FormatAmount(entry.Value))
			}

			return nil
		},
	}
}
