package model

import (
	"testing"
	"time"
)

func TestTransactionTypeValid(t *testing.T) {
	tests := []struct {
		txnType TransactionType
		want    bool
	}{
		{TypeIncome, true},
		{TypeExpense, true},
		{TypeTransfer, true},
		{"", false},
		{"refund", false},
		{"Income", false},
	}

	for _, tt := range tests {
		if got := tt.txnType.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.txnType, got, tt.want)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		want float64
	}{
		{"income adds", Transaction{Type: TypeIncome, Amount: 100}, 100},
		{"expense subtracts", Transaction{Type: TypeExpense, Amount: 100}, -100},
		{"legacy transfer contributes nothing", Transaction{Type: TypeTransfer, Amount: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.txn.SignedAmount(); got != tt.want {
				t.Errorf("SignedAmount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionUpdateEmpty(t *testing.T) {
	if !(TransactionUpdate{}).Empty() {
		t.Error("Zero update should be empty")
	}

	desc := "changed"
	if (TransactionUpdate{Description: &desc}).Empty() {
		t.Error("Update with a field should not be empty")
	}
	if (TransactionUpdate{ClearAccount: true}).Empty() {
		t.Error("ClearAccount alone should not be empty")
	}

	date := time.Now()
	if (TransactionUpdate{Date: &date}).Empty() {
		t.Error("Update with a date should not be empty")
	}
}

func TestAccountCounted(t *testing.T) {
	tests := []struct {
		accountType AccountType
		want        bool
	}{
		{AccountTypeChecking, true},
		{AccountTypeSavings, true},
		{AccountTypeNone, false},
	}

	for _, tt := range tests {
		acc := Account{Type: tt.accountType}
		if got := acc.Counted(); got != tt.want {
			t.Errorf("Counted() with type %q = %v, want %v", tt.accountType, got, tt.want)
		}
	}
}
