package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
)

// signedSum folds ledger rows into a net balance: income adds, expense
// subtracts, anything else contributes nothing. COALESCE guarantees a
// numeric zero on an empty set instead of NULL.
const signedSum = `COALESCE(SUM(CASE WHEN t.transaction_type = 'income' THEN t.amount
	WHEN t.transaction_type = 'expense' THEN -t.amount
	ELSE 0 END), 0)`

// GetBalance returns the net balance across checking accounts.
func (s *SQLiteStorage) GetBalance(ctx context.Context) (float64, error) {
	return s.sumByAccountType(ctx, model.AccountTypeChecking, nil)
}

// GetSavingsTotal returns the net balance across savings accounts.
func (s *SQLiteStorage) GetSavingsTotal(ctx context.Context) (float64, error) {
	return s.sumByAccountType(ctx, model.AccountTypeSavings, nil)
}

// GetTotalPatrimony returns net worth: the signed sum over every ledger row
// regardless of account assignment.
func (s *SQLiteStorage) GetTotalPatrimony(ctx context.Context) (float64, error) {
	return s.sumAll(ctx, nil)
}

// GetHistoryBalance returns the checking balance considering only rows
// strictly before dateLimit.
func (s *SQLiteStorage) GetHistoryBalance(ctx context.Context, dateLimit time.Time) (float64, error) {
	return s.sumByAccountType(ctx, model.AccountTypeChecking, &dateLimit)
}

// GetHistorySavings returns the savings total considering only rows strictly
// before dateLimit.
func (s *SQLiteStorage) GetHistorySavings(ctx context.Context, dateLimit time.Time) (float64, error) {
	return s.sumByAccountType(ctx, model.AccountTypeSavings, &dateLimit)
}

// GetHistoryPatrimony returns the patrimony considering only rows strictly
// before dateLimit.
func (s *SQLiteStorage) GetHistoryPatrimony(ctx context.Context, dateLimit time.Time) (float64, error) {
	return s.sumAll(ctx, &dateLimit)
}

func (s *SQLiteStorage) sumByAccountType(ctx context.Context, accountType model.AccountType, dateLimit *time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := `
		SELECT ` + signedSum + `
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.type = ?`
	args := []any{string(accountType)}

	if dateLimit != nil {
		query += ` AND t.date < ?`
		args = append(args, dateLimit.Format(model.DateLayout))
	}

	var total float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum %s accounts: %w", accountType, err)
	}
	return total, nil
}

func (s *SQLiteStorage) sumAll(ctx context.Context, dateLimit *time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := `SELECT ` + signedSum + ` FROM transactions t`
	var args []any
	if dateLimit != nil {
		query += ` WHERE t.date < ?`
		args = append(args, dateLimit.Format(model.DateLayout))
	}

	var total float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

// GetMonthlySummary aggregates one calendar month of checking-account flow
// (rows without an account count too, matching the dashboard's notion of
// day-to-day money). Income and expenses come back as positive magnitudes.
func (s *SQLiteStorage) GetMonthlySummary(ctx context.Context, year int, month time.Month) (*service.MonthlySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN t.transaction_type = 'income' THEN t.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.transaction_type = 'expense' THEN t.amount ELSE 0 END), 0)
		FROM transactions t
		LEFT JOIN accounts a ON t.account_id = a.id
		WHERE t.date >= ? AND t.date < ?
		AND (a.type = ? OR t.account_id IS NULL)`

	var summary service.MonthlySummary
	err := s.db.QueryRowContext(ctx, query,
		start.Format(model.DateLayout),
		end.Format(model.DateLayout),
		string(model.AccountTypeChecking),
	).Scan(&summary.Income, &summary.Expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly summary: %w", err)
	}

	summary.Balance = summary.Income - summary.Expenses
	return &summary, nil
}

// GetAccountsDistribution returns the net signed balance of every account,
// one row per account, for pie/legend rendering.
func (s *SQLiteStorage) GetAccountsDistribution(ctx context.Context) ([]service.AccountBalance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT a.id, a.name, a.color, ` + signedSum + `
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		GROUP BY a.id, a.name, a.color
		ORDER BY a.name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var distribution []service.AccountBalance
	for rows.Next() {
		var entry service.AccountBalance
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Color, &entry.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan distribution entry: %w", err)
		}
		distribution = append(distribution, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution: %w", err)
	}
	return distribution, nil
}
