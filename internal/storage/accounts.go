package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/peadra/peadra/internal/common"
	"github.com/peadra/peadra/internal/model"
)

// GetAccounts returns all accounts ordered by name.
func (s *SQLiteStorage) GetAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, color, created_at
		FROM accounts
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var acc model.Account
		var accountType string
		if err := rows.Scan(&acc.ID, &acc.Name, &accountType, &acc.Color, &acc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		acc.Type = model.AccountType(accountType)
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	slog.Debug("retrieved accounts", "count", len(accounts))
	return accounts, nil
}

// GetAccountByID returns an account by id, or nil when absent.
func (s *SQLiteStorage) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getAccount(ctx, `WHERE id = ?`, id)
}

// GetAccountByName returns an account by its unique name, or nil when absent.
func (s *SQLiteStorage) GetAccountByName(ctx context.Context, name string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getAccount(ctx, `WHERE name = ?`, name)
}

func (s *SQLiteStorage) getAccount(ctx context.Context, where string, arg any) (*model.Account, error) {
	query := `SELECT id, name, type, color, created_at FROM accounts ` + where

	var acc model.Account
	var accountType string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&acc.ID, &acc.Name, &accountType, &acc.Color, &acc.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	acc.Type = model.AccountType(accountType)
	return &acc, nil
}

// CreateAccount creates a new account. A name collision surfaces
// common.ErrDuplicateName.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, name, color string, accountType model.AccountType) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if err := validateAccountType(accountType); err != nil {
		return nil, err
	}

	existing, err := s.GetAccountByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account %q", common.ErrDuplicateName, name)
	}

	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (name, type, color, created_at)
		VALUES (?, ?, ?, ?)`,
		name, string(accountType), color, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get account ID: %w", err)
	}

	account := &model.Account{
		ID:        id,
		Name:      name,
		Type:      accountType,
		Color:     color,
		CreatedAt: now,
	}

	slog.Info("created account", "name", name, "id", id, "type", accountType)
	return account, nil
}

// UpdateAccount updates an account's name, color, and type. Renaming an
// account rewrites the "Transfer to/from <old name>" descriptions of its
// transfer legs so pairing keeps working under the new name. Returns false
// when no account matched.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, id int64, name, color string, accountType model.AccountType) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}
	if err := validateAccountType(accountType); err != nil {
		return false, err
	}

	current, err := s.GetAccountByID(ctx, id)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}

	if name != current.Name {
		collision, nameErr := s.GetAccountByName(ctx, name)
		if nameErr != nil {
			return false, nameErr
		}
		if collision != nil && collision.ID != id {
			return false, fmt.Errorf("%w: account %q", common.ErrDuplicateName, name)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE accounts SET name = ?, type = ?, color = ? WHERE id = ?`,
		name, string(accountType), color, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected > 0 && name != current.Name {
		if err := propagateRename(ctx, tx, current.Name, name); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit account update: %w", err)
	}

	slog.Info("updated account", "id", id, "name", name)
	return affected > 0, nil
}

// propagateRename rewrites transfer-leg descriptions that reference the old
// account name. The description prefix is the only link between an account
// and the legs of its transfers, so it must follow renames.
func propagateRename(ctx context.Context, tx *sql.Tx, oldName, newName string) error {
	for _, prefix := range []string{"Transfer to ", "Transfer from "} {
		_, err := tx.ExecContext(ctx, `
			UPDATE transactions SET description = ? WHERE description = ?`,
			prefix+newName, prefix+oldName,
		)
		if err != nil {
			return fmt.Errorf("failed to propagate rename to transfers: %w", err)
		}
	}
	return nil
}

// DeleteAccount removes an account. With deleteTransactions the account's
// rows are removed as well; otherwise their account reference is nulled and
// the rows survive. Returns false when no account matched.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id int64, deleteTransactions bool) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if deleteTransactions {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = ?`, id); err != nil {
			return false, fmt.Errorf("failed to delete account transactions: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, `UPDATE transactions SET account_id = NULL WHERE account_id = ?`, id); err != nil {
			return false, fmt.Errorf("failed to detach account transactions: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit account deletion: %w", err)
	}

	slog.Info("deleted account", "id", id, "cascade", deleteTransactions)
	return affected > 0, nil
}

// MergeAccounts reassigns every transaction of the source account to the
// target, then deletes the source. Both steps run inside one SQL transaction
// so a crash cannot leave a half-merged ledger.
func (s *SQLiteStorage) MergeAccounts(ctx context.Context, sourceID, targetID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if sourceID == targetID {
		return fmt.Errorf("%w: cannot merge an account into itself", common.ErrInvalidInput)
	}

	source, err := s.GetAccountByID(ctx, sourceID)
	if err != nil {
		return err
	}
	if source == nil {
		return fmt.Errorf("%w: source account %d", common.ErrNotFound, sourceID)
	}
	target, err := s.GetAccountByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: target account %d", common.ErrNotFound, targetID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE transactions SET account_id = ? WHERE account_id = ?`,
		targetID, sourceID,
	); err != nil {
		return fmt.Errorf("failed to reassign transactions: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, sourceID); err != nil {
		return fmt.Errorf("failed to delete source account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge: %w", err)
	}

	slog.Info("merged accounts", "source", source.Name, "target", target.Name)
	return nil
}
