package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/peadra/peadra/internal/model"
)

// CreateAsset inserts a new asset and records its current value as the first
// entry of its history log.
func (s *SQLiteStorage) CreateAsset(ctx context.Context, asset model.Asset) (*model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateAsset(asset); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	var purchaseDate any
	if !asset.PurchaseDate.IsZero() {
		purchaseDate = asset.PurchaseDate.Format(model.DateLayout)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO assets (name, account_id, current_value, purchase_value, purchase_date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.Name,
		nullableID(asset.AccountID),
		asset.CurrentValue,
		asset.PurchaseValue,
		purchaseDate,
		asset.Notes,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get asset ID: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO asset_history (asset_id, value, recorded_at) VALUES (?, ?, ?)`,
		id, asset.CurrentValue, now,
	); err != nil {
		return nil, fmt.Errorf("failed to record initial asset value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit asset creation: %w", err)
	}

	created := asset
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	slog.Info("created asset", "name", asset.Name, "id", id)
	return &created, nil
}

// GetAssets returns all assets ordered by name, joined with their account
// name.
func (s *SQLiteStorage) GetAssets(ctx context.Context) ([]model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT s.id, s.name, s.account_id, s.current_value, s.purchase_value,
			s.purchase_date, s.notes, s.created_at, s.updated_at, a.name
		FROM assets s
		LEFT JOIN accounts a ON s.account_id = a.id
		ORDER BY s.name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assets []model.Asset
	for rows.Next() {
		asset, scanErr := scanAsset(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", scanErr)
		}
		assets = append(assets, *asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}
	return assets, nil
}

// GetAssetByID returns an asset by id, or nil when absent.
func (s *SQLiteStorage) GetAssetByID(ctx context.Context, id int64) (*model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT s.id, s.name, s.account_id, s.current_value, s.purchase_value,
			s.purchase_date, s.notes, s.created_at, s.updated_at, a.name
		FROM assets s
		LEFT JOIN accounts a ON s.account_id = a.id
		WHERE s.id = ?`

	asset, err := scanAsset(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query asset: %w", err)
	}
	return asset, nil
}

// UpdateAssetValue sets the asset's current value and appends one history
// row, both inside the same SQL transaction. Returns false when no asset
// matched.
func (s *SQLiteStorage) UpdateAssetValue(ctx context.Context, id int64, value float64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if value < 0 {
		return false, fmt.Errorf("%w: negative value", ErrInvalidAsset)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE assets SET current_value = ?, updated_at = ? WHERE id = ?`,
		value, now, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update asset value: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO asset_history (asset_id, value, recorded_at) VALUES (?, ?, ?)`,
		id, value, now,
	); err != nil {
		return false, fmt.Errorf("failed to record asset value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit asset value update: %w", err)
	}

	slog.Debug("updated asset value", "id", id, "value", value)
	return true, nil
}

// DeleteAsset removes an asset; its history rows cascade away with it.
// Returns false when no asset matched.
func (s *SQLiteStorage) DeleteAsset(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected > 0, nil
}

// GetAssetHistory returns the value log of one asset, oldest first.
func (s *SQLiteStorage) GetAssetHistory(ctx context.Context, assetID int64) ([]model.AssetValue, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, asset_id, value, recorded_at
		FROM asset_history
		WHERE asset_id = ?
		ORDER BY recorded_at, id`

	rows, err := s.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []model.AssetValue
	for rows.Next() {
		var entry model.AssetValue
		if err := rows.Scan(&entry.ID, &entry.AssetID, &entry.Value, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset value: %w", err)
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset history: %w", err)
	}
	return history, nil
}

func scanAsset(row scanner) (*model.Asset, error) {
	var (
		asset        model.Asset
		accountID    sql.NullInt64
		purchaseDate sql.NullTime
		accountName  sql.NullString
	)
	err := row.Scan(
		&asset.ID, &asset.Name, &accountID, &asset.CurrentValue, &asset.PurchaseValue,
		&purchaseDate, &asset.Notes, &asset.CreatedAt, &asset.UpdatedAt, &accountName,
	)
	if err != nil {
		return nil, err
	}

	if accountID.Valid {
		id := accountID.Int64
		asset.AccountID = &id
	}
	if purchaseDate.Valid {
		asset.PurchaseDate = purchaseDate.Time
	}
	asset.AccountName = accountName.String
	return &asset, nil
}
