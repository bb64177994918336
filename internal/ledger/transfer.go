// Package ledger implements the transfer-pair convention on top of the
// storage layer: one logical transfer between two accounts is persisted as
// two complementary ledger rows, and re-grouped at read time for display,
// edit, and delete.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/peadra/peadra/internal/common"
	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
)

// Description prefixes linking the two legs of a transfer. The prefix is a
// convention, not a foreign key: pairing is re-derived from it on every read.
const (
	transferToPrefix   = "Transfer to "
	transferFromPrefix = "Transfer from "
)

// TransferDescriptions returns the pair of leg descriptions for a transfer
// between two named accounts.
func TransferDescriptions(sourceName, destName string) (expense, income string) {
	return transferToPrefix + destName, transferFromPrefix + sourceName
}

// NewTransfer describes a movement of money between two accounts.
type NewTransfer struct {
	Date     time.Time
	Notes    string
	SourceID int64
	DestID   int64
	Amount   float64
}

// CreateTransfer inserts the two rows that represent one transfer: an
// expense on the source account and an income on the destination, sharing
// date and amount. Returns both row ids, expense first.
func CreateTransfer(ctx context.Context, store service.Storage, transfer NewTransfer) (expenseID, incomeID int64, err error) {
	if transfer.Amount <= 0 {
		return 0, 0, common.ErrInvalidAmount
	}
	if transfer.SourceID == transfer.DestID {
		return 0, 0, fmt.Errorf("%w: transfer endpoints must differ", common.ErrInvalidInput)
	}

	source, err := store.GetAccountByID(ctx, transfer.SourceID)
	if err != nil {
		return 0, 0, err
	}
	if source == nil {
		return 0, 0, fmt.Errorf("%w: source account %d", common.ErrNotFound, transfer.SourceID)
	}
	dest, err := store.GetAccountByID(ctx, transfer.DestID)
	if err != nil {
		return 0, 0, err
	}
	if dest == nil {
		return 0, 0, fmt.Errorf("%w: destination account %d", common.ErrNotFound, transfer.DestID)
	}

	expenseDesc, incomeDesc := TransferDescriptions(source.Name, dest.Name)

	expenseID, err = store.AddTransaction(ctx, model.NewTransaction{
		Date:        transfer.Date,
		Description: expenseDesc,
		Amount:      transfer.Amount,
		Type:        model.TypeExpense,
		AccountID:   &transfer.SourceID,
		Notes:       transfer.Notes,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert transfer expense leg: %w", err)
	}

	incomeID, err = store.AddTransaction(ctx, model.NewTransaction{
		Date:        transfer.Date,
		Description: incomeDesc,
		Amount:      transfer.Amount,
		Type:        model.TypeIncome,
		AccountID:   &transfer.DestID,
		Notes:       transfer.Notes,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert transfer income leg: %w", err)
	}

	return expenseID, incomeID, nil
}

// TransferGroup is the synthetic record produced when two complementary legs
// are recognized as one transfer.
type TransferGroup struct {
	Date            time.Time
	Description     string
	SourceName      string
	DestName        string
	Notes           string
	SourceAccountID *int64
	DestAccountID   *int64
	ExpenseID       int64
	IncomeID        int64
	Amount          float64
}

// Entry is one display row of the transaction list: exactly one of
// Transaction (standalone row) or Transfer (paired legs) is set.
type Entry struct {
	Transaction *model.Transaction
	Transfer    *TransferGroup
}

// GroupTransfers collapses complementary transfer legs in a list already
// sorted by date DESC, id DESC. The scan is a single left-to-right pass with
// no backtracking: a leg pairs only with the immediately following row, so
// an unrelated interleaved row with identical date and amount leaves both
// legs displayed standalone. That mirrors how the pairs were written and
// keeps grouping deterministic.
func GroupTransfers(rows []model.Transaction) []Entry {
	entries := make([]Entry, 0, len(rows))

	for i := 0; i < len(rows); i++ {
		if i+1 < len(rows) {
			if group, ok := pairLegs(&rows[i], &rows[i+1]); ok {
				entries = append(entries, Entry{Transfer: group})
				i++
				continue
			}
		}
		txn := rows[i]
		entries = append(entries, Entry{Transaction: &txn})
	}

	return entries
}

// pairLegs recognizes two adjacent rows as the legs of one transfer: same
// date and amount, opposite transaction types, complementary description
// prefixes. Leg order within the pair is not fixed; with id DESC ordering
// the income leg (inserted second) usually comes first.
func pairLegs(first, second *model.Transaction) (*TransferGroup, bool) {
	if !first.Date.Equal(second.Date) || first.Amount != second.Amount {
		return nil, false
	}

	var expense, income *model.Transaction
	switch {
	case first.Type == model.TypeExpense && second.Type == model.TypeIncome:
		expense, income = first, second
	case first.Type == model.TypeIncome && second.Type == model.TypeExpense:
		expense, income = second, first
	default:
		return nil, false
	}

	destName, ok := strings.CutPrefix(expense.Description, transferToPrefix)
	if !ok {
		return nil, false
	}
	sourceName, ok := strings.CutPrefix(income.Description, transferFromPrefix)
	if !ok {
		return nil, false
	}

	return &TransferGroup{
		Date:            expense.Date,
		Amount:          expense.Amount,
		Description:     fmt.Sprintf("Transfer: %s → %s", sourceName, destName),
		SourceName:      sourceName,
		DestName:        destName,
		SourceAccountID: expense.AccountID,
		DestAccountID:   income.AccountID,
		ExpenseID:       expense.ID,
		IncomeID:        income.ID,
		Notes:           expense.Notes,
	}, true
}

// DeleteTransfer removes both legs of a paired transfer. It reports whether
// both rows were found.
func DeleteTransfer(ctx context.Context, store service.Storage, group *TransferGroup) (bool, error) {
	expenseOK, err := store.DeleteTransaction(ctx, group.ExpenseID)
	if err != nil {
		return false, fmt.Errorf("failed to delete transfer expense leg: %w", err)
	}
	incomeOK, err := store.DeleteTransaction(ctx, group.IncomeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete transfer income leg: %w", err)
	}
	return expenseOK && incomeOK, nil
}

// TransferUpdate carries the editable fields of a paired transfer. Nil
// fields are left untouched on both legs.
type TransferUpdate struct {
	Date   *time.Time
	Amount *float64
	Notes  *string
}

// UpdateTransfer applies the same edit to both legs so the pair stays
// recognizable: matching date, matching amount, shared notes.
func UpdateTransfer(ctx context.Context, store service.Storage, group *TransferGroup, update TransferUpdate) (bool, error) {
	rowUpdate := model.TransactionUpdate{
		Date:   update.Date,
		Amount: update.Amount,
		Notes:  update.Notes,
	}
	if rowUpdate.Empty() {
		return false, nil
	}

	expenseOK, err := store.UpdateTransaction(ctx, group.ExpenseID, rowUpdate)
	if err != nil {
		return false, fmt.Errorf("failed to update transfer expense leg: %w", err)
	}
	incomeOK, err := store.UpdateTransaction(ctx, group.IncomeID, rowUpdate)
	if err != nil {
		return false, fmt.Errorf("failed to update transfer income leg: %w", err)
	}
	return expenseOK && incomeOK, nil
}
