package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
)

func TestAddAndGetTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	account := createAccount(t, store, "Joint", model.AccountTypeChecking)
	date := testDate(t, "2024-03-15")

	id := addTransaction(t, store, model.NewTransaction{
		Date:        date,
		Description: "Groceries",
		Amount:      42.50,
		Type:        model.TypeExpense,
		AccountID:   &account.ID,
		Notes:       "weekly shop",
	})

	txn, err := store.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if txn == nil {
		t.Fatal("Expected transaction, got nil")
	}
	if !txn.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", txn.Date, date)
	}
	if txn.Description != "Groceries" {
		t.Errorf("Description = %q, want %q", txn.Description, "Groceries")
	}
	if txn.Amount != 42.50 {
		t.Errorf("Amount = %v, want 42.50", txn.Amount)
	}
	if txn.Type != model.TypeExpense {
		t.Errorf("Type = %q, want expense", txn.Type)
	}
	if txn.AccountID == nil || *txn.AccountID != account.ID {
		t.Errorf("AccountID = %v, want %d", txn.AccountID, account.ID)
	}
	if txn.AccountName != "Joint" {
		t.Errorf("AccountName = %q, want %q", txn.AccountName, "Joint")
	}
	if txn.Notes != "weekly shop" {
		t.Errorf("Notes = %q, want %q", txn.Notes, "weekly shop")
	}
	if txn.SignedAmount() != -42.50 {
		t.Errorf("SignedAmount = %v, want -42.50", txn.SignedAmount())
	}
}

func TestAddTransaction_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	date := testDate(t, "2024-01-01")

	tests := []struct {
		name string
		txn  model.NewTransaction
	}{
		{
			name: "missing date",
			txn:  model.NewTransaction{Description: "x", Amount: 1, Type: model.TypeIncome},
		},
		{
			name: "blank description",
			txn:  model.NewTransaction{Date: date, Description: "   ", Amount: 1, Type: model.TypeIncome},
		},
		{
			name: "negative amount",
			txn:  model.NewTransaction{Date: date, Description: "x", Amount: -5, Type: model.TypeIncome},
		},
		{
			name: "unknown type",
			txn:  model.NewTransaction{Date: date, Description: "x", Amount: 1, Type: "refund"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.AddTransaction(ctx, tt.txn)
			if !errors.Is(err, ErrInvalidTransaction) {
				t.Errorf("Expected ErrInvalidTransaction, got %v", err)
			}
		})
	}
}

func TestGetTransaction_Missing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	txn, err := store.GetTransaction(context.Background(), 9999)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if txn != nil {
		t.Errorf("Expected nil for missing id, got %+v", txn)
	}
}

func TestUpdateTransaction_PartialFields(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	account := createAccount(t, store, "Wallet", model.AccountTypeChecking)
	id := addTransaction(t, store, model.NewTransaction{
		Date:        testDate(t, "2024-05-01"),
		Description: "Coffee",
		Amount:      3.20,
		Type:        model.TypeExpense,
		AccountID:   &account.ID,
	})

	newAmount := 4.80
	newNotes := "double shot"
	ok, err := store.UpdateTransaction(ctx, id, model.TransactionUpdate{
		Amount: &newAmount,
		Notes:  &newNotes,
	})
	if err != nil {
		t.Fatalf("Failed to update: %v", err)
	}
	if !ok {
		t.Fatal("Expected update to report a matched row")
	}

	txn, err := store.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if txn.Amount != 4.80 {
		t.Errorf("Amount = %v, want 4.80", txn.Amount)
	}
	if txn.Notes != "double shot" {
		t.Errorf("Notes = %q, want %q", txn.Notes, "double shot")
	}
	// Untouched fields keep their values.
	if txn.Description != "Coffee" {
		t.Errorf("Description = %q, want %q", txn.Description, "Coffee")
	}
	if txn.AccountID == nil || *txn.AccountID != account.ID {
		t.Errorf("AccountID = %v, want %d", txn.AccountID, account.ID)
	}
}

func TestUpdateTransaction_ClearAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	account := createAccount(t, store, "Detachable", model.AccountTypeChecking)
	id := addTransaction(t, store, model.NewTransaction{
		Date:        testDate(t, "2024-05-01"),
		Description: "Orphan me",
		Amount:      10,
		Type:        model.TypeIncome,
		AccountID:   &account.ID,
	})

	ok, err := store.UpdateTransaction(ctx, id, model.TransactionUpdate{ClearAccount: true})
	if err != nil {
		t.Fatalf("Failed to update: %v", err)
	}
	if !ok {
		t.Fatal("Expected update to report a matched row")
	}

	txn, err := store.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if txn.AccountID != nil {
		t.Errorf("Expected nil AccountID after clear, got %d", *txn.AccountID)
	}
}

func TestUpdateTransaction_MissingID(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	desc := "nobody"
	ok, err := store.UpdateTransaction(context.Background(), 123456, model.TransactionUpdate{Description: &desc})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected false for missing id")
	}
}

func TestUpdateTransaction_EmptyUpdate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	id := addTransaction(t, store, model.NewTransaction{
		Date:        testDate(t, "2024-05-01"),
		Description: "Untouched",
		Amount:      1,
		Type:        model.TypeIncome,
	})

	ok, err := store.UpdateTransaction(context.Background(), id, model.TransactionUpdate{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected false for an empty update")
	}
}

func TestDeleteTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id := addTransaction(t, store, model.NewTransaction{
		Date:        testDate(t, "2024-05-01"),
		Description: "Doomed",
		Amount:      1,
		Type:        model.TypeExpense,
	})

	ok, err := store.DeleteTransaction(ctx, id)
	if err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if !ok {
		t.Fatal("Expected delete to report a matched row")
	}

	txn, err := store.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get transaction: %v", err)
	}
	if txn != nil {
		t.Error("Expected transaction to be gone")
	}

	ok, err = store.DeleteTransaction(ctx, id)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected false on second delete")
	}
}

func TestGetTransactions_OrderAndFilters(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Inserted out of order on purpose.
	mid := addTransaction(t, store, model.NewTransaction{
		Date: testDate(t, "2024-02-10"), Description: "Rent", Amount: 800, Type: model.TypeExpense,
	})
	oldest := addTransaction(t, store, model.NewTransaction{
		Date: testDate(t, "2024-01-05"), Description: "Salary", Amount: 2000, Type: model.TypeIncome,
	})
	newest := addTransaction(t, store, model.NewTransaction{
		Date: testDate(t, "2024-03-01"), Description: "Refund rent deposit", Amount: 50, Type: model.TypeIncome,
	})

	t.Run("date desc then id desc", func(t *testing.T) {
		all, err := store.GetTransactions(ctx, service.TransactionFilter{})
		if err != nil {
			t.Fatalf("Failed to get transactions: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("Expected 3 transactions, got %d", len(all))
		}
		gotIDs := []int64{all[0].ID, all[1].ID, all[2].ID}
		wantIDs := []int64{newest, mid, oldest}
		for i := range wantIDs {
			if gotIDs[i] != wantIDs[i] {
				t.Errorf("Position %d: id %d, want %d", i, gotIDs[i], wantIDs[i])
			}
		}
	})

	t.Run("inclusive date range", func(t *testing.T) {
		start := testDate(t, "2024-01-05")
		end := testDate(t, "2024-02-10")
		ranged, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("Failed to get transactions: %v", err)
		}
		if len(ranged) != 2 {
			t.Fatalf("Expected 2 transactions in range, got %d", len(ranged))
		}
		if ranged[0].ID != mid || ranged[1].ID != oldest {
			t.Errorf("Range returned ids %d,%d, want %d,%d", ranged[0].ID, ranged[1].ID, mid, oldest)
		}
	})

	t.Run("search substring", func(t *testing.T) {
		found, err := store.GetTransactions(ctx, service.TransactionFilter{Search: "rent"})
		if err != nil {
			t.Fatalf("Failed to get transactions: %v", err)
		}
		if len(found) != 2 {
			t.Fatalf("Expected 2 matches for %q, got %d", "rent", len(found))
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		page, err := store.GetTransactions(ctx, service.TransactionFilter{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("Failed to get transactions: %v", err)
		}
		if len(page) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(page))
		}
		if page[0].ID != mid {
			t.Errorf("Second page id = %d, want %d", page[0].ID, mid)
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		start := testDate(t, "2024-03-01")
		end := testDate(t, "2024-01-01")
		_, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &start, EndDate: &end})
		if !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}
	})
}

func TestGetTransactions_SameDateNewestInsertFirst(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	date := testDate(t, "2024-06-01")
	first := addTransaction(t, store, model.NewTransaction{
		Date: date, Description: "First insert", Amount: 1, Type: model.TypeIncome,
	})
	second := addTransaction(t, store, model.NewTransaction{
		Date: date, Description: "Second insert", Amount: 2, Type: model.TypeIncome,
	})

	rows, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		t.Fatalf("Failed to get transactions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(rows))
	}
	if rows[0].ID != second || rows[1].ID != first {
		t.Errorf("Same-date order is %d,%d, want %d,%d", rows[0].ID, rows[1].ID, second, first)
	}
}
