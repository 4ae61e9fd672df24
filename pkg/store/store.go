// Package store owns the CPF → account mapping.
package store

import (
	"context"

	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/google/uuid"
)

// AccountStore defines the account data access operations.
//
// Every method returning an account returns a snapshot: mutating it does not
// change stored state. The only way to mutate a stored account's statement is
// Update, which runs the mutation while the account is exclusively held.
type AccountStore interface {
	// Register creates an account with an empty statement.
	// Fails with domain.ErrDuplicateAccount if cpf is already registered.
	Register(ctx context.Context, cpf, name string) (*account.Account, error)

	// FindByCPF is an exact-match lookup.
	// Fails with domain.ErrAccountNotFound.
	FindByCPF(ctx context.Context, cpf string) (*account.Account, error)

	// UpdateName replaces the name in place.
	// Fails with domain.ErrAccountNotFound.
	UpdateName(ctx context.Context, cpf, name string) (*account.Account, error)

	// Remove deletes the account keyed by cpf.
	// Fails with domain.ErrAccountNotFound.
	Remove(ctx context.Context, cpf string) error

	// Update applies fn to the stored account under exclusive access and
	// returns a snapshot of the result. The error from fn is returned as is.
	Update(ctx context.Context, cpf string, fn func(*account.Account) error) (*account.Account, error)

	// Len returns the number of registered accounts.
	Len() int
}

// IDGenerator produces account identifiers.
type IDGenerator func() uuid.UUID
