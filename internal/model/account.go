package model

import "time"

// AccountType discriminates how an account participates in balance
// aggregation.
type AccountType string

const (
	// AccountTypeChecking marks accounts counted in the current balance.
	AccountTypeChecking AccountType = "checking"
	// AccountTypeSavings marks accounts counted in the savings total.
	AccountTypeSavings AccountType = "savings"
	// AccountTypeNone is an untyped account used as a plain color tag.
	AccountTypeNone AccountType = ""
)

// Account represents a money container (bank account, savings vehicle, or
// investment bucket) that transactions are posted against.
type Account struct {
	CreatedAt time.Time
	Name      string
	Color     string
	Type      AccountType
	ID        int64
}

// Counted reports whether the account carries an explicit type and therefore
// participates in the balance/savings split.
func (a *Account) Counted() bool {
	return a.Type == AccountTypeChecking || a.Type == AccountTypeSavings
}
