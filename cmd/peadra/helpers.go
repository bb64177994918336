package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/peadra/peadra/internal/config"
	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
	"github.com/peadra/peadra/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// parseDate parses a YYYY-MM-DD command-line date.
func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return date, nil
}

// parseAmount parses a positive command-line amount. Comma decimals are
// accepted for convenience.
func parseAmount(value string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %s", value)
	}
	return amount, nil
}

// parseID parses a numeric command-line id.
func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

// resolveAccount finds an account by name or numeric id. An empty value
// resolves to nil (no account).
func resolveAccount(ctx context.Context, store service.Storage, value string) (*model.Account, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		account, err := store.GetAccountByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if account != nil {
			return account, nil
		}
	}

	account, err := store.GetAccountByName(ctx, value)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("unknown account %q", value)
	}
	return account, nil
}
