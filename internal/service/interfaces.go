// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/peadra/peadra/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Limit 0 means no limit. StartDate/EndDate bound the period inclusively.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Limit     int
	Offset    int
}

// MonthlySummary aggregates one calendar month of checking-account flow.
// Income and Expenses are positive magnitudes; Balance is their difference.
type MonthlySummary struct {
	Income   float64
	Expenses float64
	Balance  float64
}

// AccountBalance is one slice of the per-account distribution.
type AccountBalance struct {
	Name    string
	Color   string
	ID      int64
	Balance float64
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Ledger rows
	AddTransaction(ctx context.Context, txn model.NewTransaction) (int64, error)
	UpdateTransaction(ctx context.Context, id int64, update model.TransactionUpdate) (bool, error)
	DeleteTransaction(ctx context.Context, id int64) (bool, error)
	GetTransaction(ctx context.Context, id int64) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Accounts
	CreateAccount(ctx context.Context, name, color string, accountType model.AccountType) (*model.Account, error)
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*model.Account, error)
	GetAccountByName(ctx context.Context, name string) (*model.Account, error)
	UpdateAccount(ctx context.Context, id int64, name, color string, accountType model.AccountType) (bool, error)
	DeleteAccount(ctx context.Context, id int64, deleteTransactions bool) (bool, error)
	MergeAccounts(ctx context.Context, sourceID, targetID int64) error

	// Aggregations
	GetBalance(ctx context.Context) (float64, error)
	GetSavingsTotal(ctx context.Context) (float64, error)
	GetTotalPatrimony(ctx context.Context) (float64, error)
	GetMonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error)
	GetHistoryBalance(ctx context.Context, dateLimit time.Time) (float64, error)
	GetHistorySavings(ctx context.Context, dateLimit time.Time) (float64, error)
	GetHistoryPatrimony(ctx context.Context, dateLimit time.Time) (float64, error)
	GetAccountsDistribution(ctx context.Context) ([]AccountBalance, error)

	// Assets
	CreateAsset(ctx context.Context, asset model.Asset) (*model.Asset, error)
	GetAssets(ctx context.Context) ([]model.Asset, error)
	GetAssetByID(ctx context.Context, id int64) (*model.Asset, error)
	UpdateAssetValue(ctx context.Context, id int64, value float64) (bool, error)
	DeleteAsset(ctx context.Context, id int64) (bool, error)
	GetAssetHistory(ctx context.Context, assetID int64) ([]model.AssetValue, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
