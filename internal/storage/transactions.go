package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
)

// AddTransaction inserts a new ledger row and returns its id.
func (s *SQLiteStorage) AddTransaction(ctx context.Context, txn model.NewTransaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateNewTransaction(txn); err != nil {
		return 0, err
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (date, description, amount, transaction_type, account_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.Date.Format(model.DateLayout),
		txn.Description,
		txn.Amount,
		string(txn.Type),
		nullableID(txn.AccountID),
		txn.Notes,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	slog.Debug("added transaction", "id", id, "type", txn.Type, "amount", txn.Amount)
	return id, nil
}

// UpdateTransaction applies a partial update. It returns false when the
// update carries no fields or no row matched the id.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, id int64, update model.TransactionUpdate) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if update.Empty() {
		return false, nil
	}

	setClauses := make([]string, 0, 7)
	args := make([]any, 0, 8)

	if update.Date != nil {
		setClauses = append(setClauses, "date = ?")
		args = append(args, update.Date.Format(model.DateLayout))
	}
	if update.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Amount != nil {
		setClauses = append(setClauses, "amount = ?")
		args = append(args, *update.Amount)
	}
	if update.Type != nil {
		if !update.Type.Valid() {
			return false, fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, *update.Type)
		}
		setClauses = append(setClauses, "transaction_type = ?")
		args = append(args, string(*update.Type))
	}
	switch {
	case update.ClearAccount:
		setClauses = append(setClauses, "account_id = NULL")
	case update.AccountID != nil:
		setClauses = append(setClauses, "account_id = ?")
		args = append(args, *update.AccountID)
	}
	if update.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, *update.Notes)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, id)

	query := "UPDATE transactions SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// DeleteTransaction hard-deletes a single row. No cascade side effects: the
// partner leg of a transfer pair is untouched.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

const transactionColumns = `
	t.id, t.date, t.description, t.amount, t.transaction_type,
	t.account_id, t.notes, t.created_at, t.updated_at,
	a.name, a.color`

// GetTransaction returns a single row by id, or nil when absent.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN accounts a ON t.account_id = a.id
		WHERE t.id = ?`

	txn, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// GetTransactions returns ledger rows ordered by date DESC, id DESC,
// joined with account name and color. The filter narrows by inclusive date
// range, description substring, and limit/offset.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: %v after %v", ErrInvalidDateRange,
			filter.StartDate.Format(model.DateLayout), filter.EndDate.Format(model.DateLayout))
	}

	var conditions []string
	var args []any

	if filter.StartDate != nil {
		conditions = append(conditions, "t.date >= ?")
		args = append(args, filter.StartDate.Format(model.DateLayout))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "t.date <= ?")
		args = append(args, filter.EndDate.Format(model.DateLayout))
	}
	if filter.Search != "" {
		conditions = append(conditions, "t.description LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN accounts a ON t.account_id = a.id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.date DESC, t.id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		transactions = append(transactions, *txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "count", len(transactions))
	return transactions, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		txn          model.Transaction
		txnType      string
		accountID    sql.NullInt64
		accountName  sql.NullString
		accountColor sql.NullString
	)
	err := row.Scan(
		&txn.ID, &txn.Date, &txn.Description, &txn.Amount, &txnType,
		&accountID, &txn.Notes, &txn.CreatedAt, &txn.UpdatedAt,
		&accountName, &accountColor,
	)
	if err != nil {
		return nil, err
	}

	txn.Type = model.TransactionType(txnType)
	if accountID.Valid {
		id := accountID.Int64
		txn.AccountID = &id
	}
	txn.AccountName = accountName.String
	txn.AccountColor = accountColor.String
	return &txn, nil
}

// nullableID converts an optional account reference to a driver value.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
