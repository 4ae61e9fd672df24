package store

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/google/uuid"
)

// Memory is an in-process AccountStore. A single RWMutex guards the map and
// every account in it, so a check-then-append inside Update cannot interleave
// with any other write.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
	newID    IDGenerator
	now      func() time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithIDGenerator overrides uuid.New as the account ID source.
func WithIDGenerator(gen IDGenerator) MemoryOption {
	return func(m *Memory) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// WithClock overrides the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory returns an empty store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		accounts: make(map[string]*account.Account),
		newID:    uuid.New,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Register(ctx context.Context, cpf, name string) (*account.Account, error) {
	cpf = account.NormalizeCPF(cpf)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[cpf]; exists {
		return nil, domain.ErrDuplicateAccount
	}
	acc, err := account.New().
		WithID(m.newID()).
		WithCPF(cpf).
		WithName(name).
		WithCreatedAt(m.now()).
		Build()
	if err != nil {
		return nil, err
	}
	m.accounts[cpf] = acc
	return acc.Clone(), nil
}

func (m *Memory) FindByCPF(ctx context.Context, cpf string) (*account.Account, error) {
	cpf = account.NormalizeCPF(cpf)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[cpf]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acc.Clone(), nil
}

func (m *Memory) UpdateName(ctx context.Context, cpf, name string) (*account.Account, error) {
	return m.Update(ctx, cpf, func(acc *account.Account) error {
		acc.Rename(name, m.now())
		return nil
	})
}

func (m *Memory) Remove(ctx context.Context, cpf string) error {
	cpf = account.NormalizeCPF(cpf)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[cpf]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, cpf)
	return nil
}

func (m *Memory) Update(
	ctx context.Context,
	cpf string,
	fn func(*account.Account) error,
) (*account.Account, error) {
	cpf = account.NormalizeCPF(cpf)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[cpf]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if err := fn(acc); err != nil {
		return nil, err
	}
	return acc.Clone(), nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}

// Compile-time check: ensure Memory implements AccountStore.
var _ AccountStore = (*Memory)(nil)
