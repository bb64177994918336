// Package export reads and writes the ledger's interchange formats: a JSON
// archive of the whole database and flat CSV transaction dumps.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
)

// Archive is the JSON export envelope.
type Archive struct {
	ExportedAt   time.Time           `json:"exported_at"`
	Accounts     []AccountRecord     `json:"accounts"`
	Transactions []TransactionRecord `json:"transactions"`
}

// AccountRecord is the JSON shape of one account.
type AccountRecord struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
	ID        int64  `json:"id"`
}

// TransactionRecord is the JSON shape of one ledger row.
type TransactionRecord struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Type        string  `json:"transaction_type"`
	Account     string  `json:"account_name,omitempty"`
	Notes       string  `json:"notes,omitempty"`
	AccountID   *int64  `json:"account_id"`
	Amount      float64 `json:"amount"`
	ID          int64   `json:"id"`
}

// WriteJSON exports every account and transaction to an indented JSON file.
func WriteJSON(ctx context.Context, store service.Storage, path string) error {
	accounts, err := store.GetAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts for export: %w", err)
	}
	transactions, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return fmt.Errorf("failed to load transactions for export: %w", err)
	}

	archive := Archive{
		ExportedAt:   time.Now(),
		Accounts:     make([]AccountRecord, 0, len(accounts)),
		Transactions: make([]TransactionRecord, 0, len(transactions)),
	}

	for _, acc := range accounts {
		archive.Accounts = append(archive.Accounts, AccountRecord{
			ID:        acc.ID,
			Name:      acc.Name,
			Type:      string(acc.Type),
			Color:     acc.Color,
			CreatedAt: acc.CreatedAt.Format(time.RFC3339),
		})
	}
	for i := range transactions {
		archive.Transactions = append(archive.Transactions, transactionRecord(&transactions[i]))
	}

	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// ReadJSON parses an archive previously written by WriteJSON.
func ReadJSON(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("failed to parse archive: %w", err)
	}
	return &archive, nil
}

func transactionRecord(txn *model.Transaction) TransactionRecord {
	return TransactionRecord{
		ID:          txn.ID,
		Date:        txn.Date.Format(model.DateLayout),
		Description: txn.Description,
		Amount:      txn.Amount,
		Type:        string(txn.Type),
		AccountID:   txn.AccountID,
		Account:     txn.AccountName,
		Notes:       txn.Notes,
	}
}
