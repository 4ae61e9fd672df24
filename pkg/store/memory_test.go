package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/amirasaad/cpfledger/pkg/ledger"
	"github.com/amirasaad/cpfledger/pkg/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := uuid.MustParse("9b2f0a54-7a0e-4a3e-9d43-0d7f9b6c1a11")
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s := store.NewMemory(
		store.WithIDGenerator(func() uuid.UUID { return id }),
		store.WithClock(func() time.Time { return created }),
	)

	acc, err := s.Register(ctx, "111", "Alice")
	require.NoError(t, err)
	assert.Equal(t, id, acc.ID)
	assert.Equal(t, "111", acc.CPF)
	assert.Equal(t, "Alice", acc.Name)
	assert.Empty(t, acc.Statement)
	assert.Equal(t, created, acc.CreatedAt)
	assert.Equal(t, 1, s.Len())
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()

	first, err := s.Register(ctx, "111", "Alice")
	require.NoError(t, err)

	_, err = s.Register(ctx, "111", "Mallory")
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
	assert.Equal(t, 1, s.Len())

	got, err := s.FindByCPF(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)
}

func TestCPFIsNormalized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()

	acc, err := s.Register(ctx, " 222 ", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "222", acc.CPF)

	_, err = s.Register(ctx, "222", "Bobby")
	assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
	assert.Equal(t, 1, s.Len())

	got, err := s.FindByCPF(ctx, "222")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)

	_, err = s.UpdateName(ctx, "\t222", "Robert")
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, "222 "))
	assert.Equal(t, 0, s.Len())

	_, err = s.Register(ctx, "   ", "Nobody")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterRejectsEmptyCPF(t *testing.T) {
	t.Parallel()
	s := store.NewMemory()
	_, err := s.Register(context.Background(), "", "Nobody")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, s.Len())
}

func TestFindByCPF(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()
	_, err := s.Register(ctx, "111", "Alice")
	require.NoError(t, err)

	t.Run("exact match only", func(t *testing.T) {
		_, err := s.FindByCPF(ctx, "11")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		_, err = s.FindByCPF(ctx, "1111")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("returns a snapshot", func(t *testing.T) {
		got, err := s.FindByCPF(ctx, "111")
		require.NoError(t, err)
		got.Name = "changed"
		got.Append(account.NewCredit("", decimal.NewFromInt(1), time.Now()))

		again, err := s.FindByCPF(ctx, "111")
		require.NoError(t, err)
		assert.Equal(t, "Alice", again.Name)
		assert.Empty(t, again.Statement)
	})
}

func TestUpdateName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()
	acc, err := s.Register(ctx, "111", "Alice")
	require.NoError(t, err)
	_, err = s.Update(ctx, "111", func(a *account.Account) error {
		a.Append(account.NewCredit("", decimal.NewFromInt(5), time.Now()))
		return nil
	})
	require.NoError(t, err)

	renamed, err := s.UpdateName(ctx, "111", "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", renamed.Name)
	assert.Equal(t, acc.ID, renamed.ID)
	assert.Len(t, renamed.Statement, 1)

	_, err = s.UpdateName(ctx, "222", "Bob")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()
	_, err := s.Register(ctx, "111", "Alice")
	require.NoError(t, err)
	_, err = s.Register(ctx, "222", "Bob")
	require.NoError(t, err)
	_, err = s.Register(ctx, "333", "Carol")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Remove(ctx, "999"), domain.ErrAccountNotFound)
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Remove(ctx, "222"))
	assert.Equal(t, 2, s.Len())
	_, err = s.FindByCPF(ctx, "222")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	for cpf, name := range map[string]string{"111": "Alice", "333": "Carol"} {
		got, err := s.FindByCPF(ctx, cpf)
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
	}

	assert.ErrorIs(t, s.Remove(ctx, "222"), domain.ErrAccountNotFound)

	// The CPF becomes available again.
	_, err = s.Register(ctx, "222", "Bob again")
	assert.NoError(t, err)
}

func TestUpdatePropagatesError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()
	_, err := s.Register(ctx, "111", "Alice")
	require.NoError(t, err)

	boom := errors.New("boom")
	got, err := s.Update(ctx, "111", func(*account.Account) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)

	_, err = s.Update(ctx, "404", func(*account.Account) error { return nil })
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := store.NewMemory()

	_, err := s.Register(ctx, "111", "Alice")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.FindByCPF(ctx, "111")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Remove(ctx, "111"), context.Canceled)
	assert.Zero(t, s.Len())
}

// TestConcurrentWithdrawalsNeverOverdraw runs many withdrawals that together
// exceed the balance; exactly balance/amount of them may succeed.
func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()
	engine := ledger.New()
	_, err := s.Register(ctx, "111", "Alice")
	require.NoError(t, err)
	_, err = s.Update(ctx, "111", func(a *account.Account) error {
		return engine.Deposit(a, "", decimal.NewFromInt(100))
	})
	require.NoError(t, err)

	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "111", func(a *account.Account) error {
				return engine.Withdraw(a, decimal.NewFromInt(10))
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, domain.ErrInsufficientFunds) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.FindByCPF(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, 10, succeeded)
	assert.Len(t, got.Statement, 11)
	assert.True(t, ledger.ComputeBalance(got.Statement).IsZero())
}

func TestConcurrentDeposits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := store.NewMemory()
	engine := ledger.New()
	_, err := s.Register(ctx, "111", "Alice")
	require.NoError(t, err)

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "111", func(a *account.Account) error {
				return engine.Deposit(a, "", decimal.NewFromInt(1))
			})
			if err != nil {
				t.Errorf("deposit err: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.FindByCPF(ctx, "111")
	require.NoError(t, err)
	assert.True(t, ledger.ComputeBalance(got.Statement).Equal(decimal.NewFromInt(workers)))
}
