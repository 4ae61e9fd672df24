package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/google/uuid"
)

// Account is a customer account keyed by CPF. It owns its statement; the
// statement is only ever appended to by the ledger engine.
//
// Invariants:
// - CPF is non-empty and never changes after creation.
// - ID is assigned once at creation.
// - Statement is append-only.
type Account struct {
	ID        uuid.UUID     `json:"id"`
	CPF       string        `json:"cpf"`
	Name      string        `json:"name"`
	Statement []Transaction `json:"statement"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uuid.UUID
	cpf       string
	name      string
	statement []Transaction
	createdAt time.Time
}

// New creates a new Builder with a fresh UUID and the current time.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		createdAt: time.Now(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// NormalizeCPF returns the canonical form of a CPF used as the account key.
func NormalizeCPF(cpf string) string { return strings.TrimSpace(cpf) }

// WithCPF sets the CPF for the account being built. This is a mandatory field.
func (b *Builder) WithCPF(cpf string) *Builder {
	b.cpf = NormalizeCPF(cpf)
	return b
}

// WithName sets the customer name.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithStatement seeds the statement. This should only be used for test setup.
func (b *Builder) WithStatement(txs ...Transaction) *Builder {
	b.statement = append([]Transaction(nil), txs...)
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// Build validates the builder state and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if strings.TrimSpace(b.cpf) == "" {
		return nil, fmt.Errorf("%w: cpf is required", domain.ErrValidation)
	}
	if b.id == uuid.Nil {
		return nil, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	statement := b.statement
	if statement == nil {
		statement = []Transaction{}
	}
	return &Account{
		ID:        b.id,
		CPF:       b.cpf,
		Name:      b.name,
		Statement: statement,
		CreatedAt: b.createdAt,
		UpdatedAt: b.createdAt,
	}, nil
}

// Rename replaces the customer name. Statement and ID are untouched.
func (a *Account) Rename(name string, at time.Time) {
	a.Name = name
	a.UpdatedAt = at
}

// Append adds tx to the end of the statement.
func (a *Account) Append(tx Transaction) {
	a.Statement = append(a.Statement, tx)
	a.UpdatedAt = tx.CreatedAt
}

// Clone returns a deep copy; the statement backing array is not shared.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Statement = make([]Transaction, len(a.Statement))
	copy(cp.Statement, a.Statement)
	return &cp
}
