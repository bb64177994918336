package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peadra/peadra/internal/common"
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

func newTestAccounts(t *testing.T, store service.Storage) (source, dest *model.Account) {
	t.Helper()
	ctx := context.Background()
	source, err := store.CreateAccount(ctx, "Main", "#4CAF50", model.AccountTypeChecking)
	require.NoError(t, err)
	dest, err = store.CreateAccount(ctx, "Reserve", "#2196F3", model.AccountTypeSavings)
	require.NoError(t, err)
	return source, dest
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse(model.DateLayout, value)
	require.NoError(t, err)
	return date
}

func TestTransferDescriptions(t *testing.T) {
	expense, income := TransferDescriptions("Main", "Reserve")
	assert.Equal(t, "Transfer to Reserve", expense)
	assert.Equal(t, "Transfer from Main", income)
}

func TestCreateTransfer(t *testing.T) {
	store := newTestStore(t)
	source, dest := newTestAccounts(t, store)
	ctx := context.Background()

	expenseID, incomeID, err := CreateTransfer(ctx, store, NewTransfer{
		Date:     mustDate(t, "2024-07-01"),
		SourceID: source.ID,
		DestID:   dest.ID,
		Amount:   250,
		Notes:    "monthly top-up",
	})
	require.NoError(t, err)
	require.NotEqual(t, expenseID, incomeID)

	expense, err := store.GetTransaction(ctx, expenseID)
	require.NoError(t, err)
	require.NotNil(t, expense)
	assert.Equal(t, model.TypeExpense, expense.Type)
	assert.Equal(t, "Transfer to Reserve", expense.Description)
	require.NotNil(t, expense.AccountID)
	assert.Equal(t, source.ID, *expense.AccountID)

	income, err := store.GetTransaction(ctx, incomeID)
	require.NoError(t, err)
	require.NotNil(t, income)
	assert.Equal(t, model.TypeIncome, income.Type)
	assert.Equal(t, "Transfer from Main", income.Description)
	require.NotNil(t, income.AccountID)
	assert.Equal(t, dest.ID, *income.AccountID)

	assert.Equal(t, expense.Amount, income.Amount)
	assert.True(t, expense.Date.Equal(income.Date))
	assert.Equal(t, "monthly top-up", income.Notes)
}

func TestCreateTransfer_Validation(t *testing.T) {
	store := newTestStore(t)
	source, dest := newTestAccounts(t, store)
	ctx := context.Background()
	date := mustDate(t, "2024-07-01")

	tests := []struct {
		wantErr  error
		name     string
		transfer NewTransfer
	}{
		{
			name:     "zero amount",
			transfer: NewTransfer{Date: date, SourceID: source.ID, DestID: dest.ID, Amount: 0},
			wantErr:  common.ErrInvalidAmount,
		},
		{
			name:     "negative amount",
			transfer: NewTransfer{Date: date, SourceID: source.ID, DestID: dest.ID, Amount: -10},
			wantErr:  common.ErrInvalidAmount,
		},
		{
			name:     "same endpoints",
			transfer: NewTransfer{Date: date, SourceID: source.ID, DestID: source.ID, Amount: 10},
			wantErr:  common.ErrInvalidInput,
		},
		{
			name:     "missing source",
			transfer: NewTransfer{Date: date, SourceID: 9999, DestID: dest.ID, Amount: 10},
			wantErr:  common.ErrNotFound,
		},
		{
			name:     "missing destination",
			transfer: NewTransfer{Date: date, SourceID: source.ID, DestID: 9999, Amount: 10},
			wantErr:  common.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := CreateTransfer(ctx, store, tt.transfer)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGroupTransfers_PairsLegs(t *testing.T) {
	store := newTestStore(t)
	source, dest := newTestAccounts(t, store)
	ctx := context.Background()

	expenseID, incomeID, err := CreateTransfer(ctx, store, NewTransfer{
		Date:     mustDate(t, "2024-07-01"),
		SourceID: source.ID,
		DestID:   dest.ID,
		Amount:   250,
	})
	require.NoError(t, err)

	_, err = store.AddTransaction(ctx, model.NewTransaction{
		Date:        mustDate(t, "2024-07-02"),
		Description: "Groceries",
		Amount:      60,
		Type:        model.TypeExpense,
		AccountID:   &source.ID,
	})
	require.NoError(t, err)

	rows, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	entries := GroupTransfers(rows)
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].Transaction)
	assert.Equal(t, "Groceries", entries[0].Transaction.Description)

	group := entries[1].Transfer
	require.NotNil(t, group)
	assert.Equal(t, expenseID, group.ExpenseID)
	assert.Equal(t, incomeID, group.IncomeID)
	assert.Equal(t, "Main", group.SourceName)
	assert.Equal(t, "Reserve", group.DestName)
	assert.Equal(t, "Transfer: Main → Reserve", group.Description)
	assert.Equal(t, 250.0, group.Amount)
}

func TestGroupTransfers_InterleavedRowBreaksPair(t *testing.T) {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	// An unrelated expense with the same date and amount sits between the
	// legs, so neither adjacent pair qualifies and all three rows stay
	// standalone.
	rows := []model.Transaction{
		{ID: 3, Date: date, Description: "Transfer from Main", Amount: 100, Type: model.TypeIncome},
		{ID: 2, Date: date, Description: "Restaurant", Amount: 100, Type: model.TypeExpense},
		{ID: 1, Date: date, Description: "Transfer to Reserve", Amount: 100, Type: model.TypeExpense},
	}

	entries := GroupTransfers(rows)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Nil(t, entry.Transfer)
	}
}

func TestGroupTransfers_EitherLegOrder(t *testing.T) {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rows []model.Transaction
	}{
		{
			name: "income leg first",
			rows: []model.Transaction{
				{ID: 2, Date: date, Description: "Transfer from Main", Amount: 80, Type: model.TypeIncome},
				{ID: 1, Date: date, Description: "Transfer to Reserve", Amount: 80, Type: model.TypeExpense},
			},
		},
		{
			name: "expense leg first",
			rows: []model.Transaction{
				{ID: 2, Date: date, Description: "Transfer to Reserve", Amount: 80, Type: model.TypeExpense},
				{ID: 1, Date: date, Description: "Transfer from Main", Amount: 80, Type: model.TypeIncome},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := GroupTransfers(tt.rows)
			require.Len(t, entries, 1)
			group := entries[0].Transfer
			require.NotNil(t, group)
			assert.Equal(t, "Main", group.SourceName)
			assert.Equal(t, "Reserve", group.DestName)
		})
	}
}

func TestGroupTransfers_RejectsNearMisses(t *testing.T) {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	otherDate := date.AddDate(0, 0, 1)

	tests := []struct {
		name string
		rows []model.Transaction
	}{
		{
			name: "different amounts",
			rows: []model.Transaction{
				{ID: 2, Date: date, Description: "Transfer from Main", Amount: 80, Type: model.TypeIncome},
				{ID: 1, Date: date, Description: "Transfer to Reserve", Amount: 81, Type: model.TypeExpense},
			},
		},
		{
			name: "different dates",
			rows: []model.Transaction{
				{ID: 2, Date: otherDate, Description: "Transfer from Main", Amount: 80, Type: model.TypeIncome},
				{ID: 1, Date: date, Description: "Transfer to Reserve", Amount: 80, Type: model.TypeExpense},
			},
		},
		{
			name: "same direction",
			rows: []model.Transaction{
				{ID: 2, Date: date, Description: "Transfer from Main", Amount: 80, Type: model.TypeIncome},
				{ID: 1, Date: date, Description: "Transfer from Main", Amount: 80, Type: model.TypeIncome},
			},
		},
		{
			name: "plain descriptions",
			rows: []model.Transaction{
				{ID: 2, Date: date, Description: "Paycheck", Amount: 80, Type: model.TypeIncome},
				{ID: 1, Date: date, Description: "Groceries", Amount: 80, Type: model.TypeExpense},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := GroupTransfers(tt.rows)
			assert.Len(t, entries, 2)
			for _, entry := range entries {
				assert.Nil(t, entry.Transfer)
			}
		})
	}
}

func TestDeleteTransfer_RemovesBothLegs(t *testing.T) {
	store := newTestStore(t)
	source, dest := newTestAccounts(t, store)
	ctx := context.Background()

	expenseID, incomeID, err := CreateTransfer(ctx, store, NewTransfer{
		Date:     mustDate(t, "2024-07-01"),
		SourceID: source.ID,
		DestID:   dest.ID,
		Amount:   250,
	})
	require.NoError(t, err)

	ok, err := DeleteTransfer(ctx, store, &TransferGroup{ExpenseID: expenseID, IncomeID: incomeID})
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateTransfer_KeepsPairRecognizable(t *testing.T) {
	store := newTestStore(t)
	source, dest := newTestAccounts(t, store)
	ctx := context.Background()

	expenseID, incomeID, err := CreateTransfer(ctx, store, NewTransfer{
		Date:     mustDate(t, "2024-07-01"),
		SourceID: source.ID,
		DestID:   dest.ID,
		Amount:   250,
	})
	require.NoError(t, err)

	newDate := mustDate(t, "2024-07-15")
	newAmount := 300.0
	ok, err := UpdateTransfer(ctx, store, &TransferGroup{ExpenseID: expenseID, IncomeID: incomeID}, TransferUpdate{
		Date:   &newDate,
		Amount: &newAmount,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	entries := GroupTransfers(rows)
	require.Len(t, entries, 1)
	group := entries[0].Transfer
	require.NotNil(t, group)
	assert.Equal(t, 300.0, group.Amount)
	assert.True(t, group.Date.Equal(newDate))
}

func TestUpdateTransfer_EmptyUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := UpdateTransfer(ctx, store, &TransferGroup{ExpenseID: 1, IncomeID: 2}, TransferUpdate{})
	require.NoError(t, err)
	assert.False(t, ok)
}
