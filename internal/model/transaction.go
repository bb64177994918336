package model

import "time"

// TransactionType carries the direction of a ledger row. Amounts are always
// stored as positive magnitudes; the type decides the sign during
// aggregation.
type TransactionType string

const (
	// TypeIncome adds to a balance.
	TypeIncome TransactionType = "income"
	// TypeExpense subtracts from a balance.
	TypeExpense TransactionType = "expense"
	// TypeTransfer is reserved for legacy rows; transfers created through
	// the ledger are stored as an expense/income pair.
	TypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is one of the stored transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// DateLayout is the storage format for transaction dates: day precision,
// lexicographically ordered.
const DateLayout = "2006-01-02"

// Transaction is a single dated ledger row. AccountID is nil for rows not
// posted against any account. AccountName and AccountColor are populated by
// list queries that join the accounts table; they are not stored columns.
type Transaction struct {
	Date         time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Description  string
	Notes        string
	AccountName  string
	AccountColor string
	Type         TransactionType
	AccountID    *int64
	Amount       float64
	ID           int64
}

// SignedAmount returns the amount with the sign implied by the transaction
// type: positive for income, negative for expense, zero otherwise.
func (t *Transaction) SignedAmount() float64 {
	switch t.Type {
	case TypeIncome:
		return t.Amount
	case TypeExpense:
		return -t.Amount
	default:
		return 0
	}
}

// NewTransaction carries the fields required to insert a ledger row.
type NewTransaction struct {
	Date        time.Time
	Description string
	Notes       string
	Type        TransactionType
	AccountID   *int64
	Amount      float64
}

// TransactionUpdate is a partial update: nil fields are left untouched.
// ClearAccount detaches the row from its account and wins over AccountID.
type TransactionUpdate struct {
	Date         *time.Time
	Description  *string
	Amount       *float64
	Type         *TransactionType
	AccountID    *int64
	Notes        *string
	ClearAccount bool
}

// Empty reports whether the update would change nothing.
func (u TransactionUpdate) Empty() bool {
	return u.Date == nil && u.Description == nil && u.Amount == nil &&
		u.Type == nil && u.AccountID == nil && u.Notes == nil && !u.ClearAccount
}
