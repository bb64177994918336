package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/peadra/peadra/internal/model"
	"github.com/peadra/peadra/internal/service"
)

// csvHeader is the column set of a CSV export, matching the transaction list
// field set.
var csvHeader = []string{
	"id", "date", "description", "amount", "transaction_type",
	"account", "notes", "created_at", "updated_at",
}

// WriteCSV dumps every transaction, list order (date DESC, id DESC), as a
// flat header+rows CSV file.
func WriteCSV(ctx context.Context, store service.Storage, path string) error {
	transactions, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return fmt.Errorf("failed to load transactions for export: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range transactions {
		txn := &transactions[i]
		record := []string{
			strconv.FormatInt(txn.ID, 10),
			txn.Date.Format(model.DateLayout),
			txn.Description,
			strconv.FormatFloat(txn.Amount, 'f', -1, 64),
			string(txn.Type),
			txn.AccountName,
			txn.Notes,
			txn.CreatedAt.Format(time.RFC3339),
			txn.UpdatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// dateLayouts are tried in order when parsing import dates.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ColumnMapping assigns source CSV columns to ledger fields. Indexes are
// zero-based positions in the input records.
type ColumnMapping struct {
	Date        int
	Description int
	Amount      int
}

// DefaultColumnMapping is the conventional date, description, amount layout.
// A zero ColumnMapping in ImportOptions selects it.
var DefaultColumnMapping = ColumnMapping{Date: 0, Description: 1, Amount: 2}

// ImportOptions controls a CSV import.
type ImportOptions struct {
	// OnRow, when set, is invoked once per input record, header included.
	OnRow     func()
	AccountID *int64
	Mapping   ColumnMapping
}

// ImportResult counts what happened during an import.
type ImportResult struct {
	Imported int
	Skipped  int
}

// SniffDelimiter picks the CSV delimiter by counting candidates on the first
// line. Comma wins ties.
func SniffDelimiter(firstLine string) rune {
	delimiter := ','
	best := separatorCommas(firstLine)
	for _, candidate := range []rune{';', '\t'} {
		if n := strings.Count(firstLine, string(candidate)); n > best {
			best = n
			delimiter = candidate
		}
	}
	return delimiter
}

// separatorCommas counts the commas in line that could separate fields.
// A comma between two digits is a decimal separator, common in French
// bank exports, and is left out of the count.
func separatorCommas(line string) int {
	count := 0
	for i := 0; i < len(line); i++ {
		if line[i] != ',' {
			continue
		}
		if i > 0 && i+1 < len(line) && isDigit(line[i-1]) && isDigit(line[i+1]) {
			continue
		}
		count++
	}
	return count
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ImportCSV reads transactions from r and inserts them through the store.
// The amount's sign picks the direction: negative becomes an expense, the
// magnitude is stored. Rows whose date or amount cannot be parsed are
// skipped and counted, never fatal. A header row is detected by its
// unparseable date cell and skipped silently.
func ImportCSV(ctx context.Context, store service.Storage, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import data: %w", err)
	}

	firstLine, _, _ := strings.Cut(string(content), "\n")
	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.Comma = SniffDelimiter(firstLine)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if opts.Mapping == (ColumnMapping{}) {
		opts.Mapping = DefaultColumnMapping
	}

	maxIndex := opts.Mapping.Date
	if opts.Mapping.Description > maxIndex {
		maxIndex = opts.Mapping.Description
	}
	if opts.Mapping.Amount > maxIndex {
		maxIndex = opts.Mapping.Amount
	}

	result := &ImportResult{}
	for rowNum, record := range records {
		if opts.OnRow != nil {
			opts.OnRow()
		}

		if len(record) <= maxIndex {
			result.Skipped++
			continue
		}

		date, ok := parseImportDate(record[opts.Mapping.Date])
		if !ok {
			// The header row lands here too: its date cell never parses.
			if rowNum > 0 {
				result.Skipped++
			}
			continue
		}

		amount, err := parseImportAmount(record[opts.Mapping.Amount])
		if err != nil {
			result.Skipped++
			continue
		}

		txnType := model.TypeIncome
		if amount < 0 {
			txnType = model.TypeExpense
			amount = -amount
		}

		description := strings.TrimSpace(record[opts.Mapping.Description])
		if description == "" {
			description = "Imported transaction"
		}

		if _, err := store.AddTransaction(ctx, model.NewTransaction{
			Date:        date,
			Description: description,
			Amount:      amount,
			Type:        txnType,
			AccountID:   opts.AccountID,
		}); err != nil {
			return result, fmt.Errorf("failed to insert imported row %d: %w", rowNum+1, err)
		}
		result.Imported++
	}

	return result, nil
}

func parseImportDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseImportAmount(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	cell = strings.ReplaceAll(cell, " ", "")
	// European exports write decimals with a comma.
	if strings.Contains(cell, ",") && !strings.Contains(cell, ".") {
		cell = strings.ReplaceAll(cell, ",", ".")
	}
	return strconv.ParseFloat(cell, 64)
}
