package domain

import "errors"

// Ledger domain errors. They are expected, user-facing conditions and are
// mapped to client responses by the transport layer.
var (
	// ErrDuplicateAccount is returned when registering a CPF that is already in use.
	ErrDuplicateAccount = errors.New("customer already exists")
	// ErrAccountNotFound is returned when an operation references an unknown CPF.
	ErrAccountNotFound = errors.New("customer not found")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Input errors raised before the domain is reached.
var (
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrNegativeAmount is returned for amounts below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrNilAccount is returned when an operation receives a nil account.
	ErrNilAccount = errors.New("nil account")
)
