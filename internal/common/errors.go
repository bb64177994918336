// Package common provides shared utilities and types used across the
// application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("duplicate name")

	// Input errors.
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidAmount = errors.New("amount must be positive")
)
