package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
	"github.com/peadra/peadra/internal/storage"
)

func newTestStore(t *testing.T) service.Storage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse(model.DateLayout, value)
	require.NoError(t, err)
	return date
}

func TestWriteAndReadJSON(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account, err := store.CreateAccount(ctx, "Archived", "#FF5722", model.AccountTypeChecking)
	require.NoError(t, err)

	_, err = store.AddTransaction(ctx, model.NewTransaction{
		Date:        mustDate(t, "2024-08-01"),
		Description: "Paycheck",
		Amount:      1500,
		Type:        model.TypeIncome,
		AccountID:   &account.ID,
	})
	require.NoError(t, err)
	_, err = store.AddTransaction(ctx, model.NewTransaction{
		Date:        mustDate(t, "2024-08-03"),
		Description: "Groceries",
		Amount:      63.40,
		Type:        model.TypeExpense,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "archive.json")
	require.NoError(t, WriteJSON(ctx, store, path))

	archive, err := ReadJSON(path)
	require.NoError(t, err)

	// Seeded defaults plus the created account.
	assert.Len(t, archive.Accounts, 4)
	require.Len(t, archive.Transactions, 2)
	assert.False(t, archive.ExportedAt.IsZero())

	// List order, date DESC.
	groceries := archive.Transactions[0]
	assert.Equal(t, "2024-08-03", groceries.Date)
	assert.Equal(t, "Groceries", groceries.Description)
	assert.Equal(t, 63.40, groceries.Amount)
	assert.Equal(t, "expense", groceries.Type)
	assert.Nil(t, groceries.AccountID)

	paycheck := archive.Transactions[1]
	assert.Equal(t, "Paycheck", paycheck.Description)
	require.NotNil(t, paycheck.AccountID)
	assert.Equal(t, account.ID, *paycheck.AccountID)
	assert.Equal(t, "Archived", paycheck.Account)
}

func TestReadJSON_MissingFile(t *testing.T) {
	_, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
