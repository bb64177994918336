// Package storage provides the data persistence layer for the peadra ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/peadra/peadra/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidAsset       = errors.New("invalid asset")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateNewTransaction validates a ledger row before insertion.
// The amount is trusted to be a positive magnitude; direction lives in the
// transaction type.
func validateNewTransaction(txn model.NewTransaction) error {
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if txn.Amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	}
	return nil
}

// validateAccountType accepts the two explicit account types or the empty
// untyped tag.
func validateAccountType(accountType model.AccountType) error {
	switch accountType {
	case model.AccountTypeChecking, model.AccountTypeSavings, model.AccountTypeNone:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidAccountType, accountType)
}

// validateAsset validates an asset before insertion.
func validateAsset(asset model.Asset) error {
	if strings.TrimSpace(asset.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAsset)
	}
	if asset.CurrentValue < 0 || asset.PurchaseValue < 0 {
		return fmt.Errorf("%w: negative value", ErrInvalidAsset)
	}
	return nil
}
