// Package ledger implements the statement arithmetic of an account: the
// balance fold, credit and debit appends, and calendar-day filtering.
//
// The engine holds no account state of its own. Callers hand it an account
// obtained from the store and are responsible for serialising access to that
// account (see store.AccountStore.Update).
package ledger

import (
	"time"

	"github.com/amirasaad/cpfledger/pkg/date"
	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// Engine applies ledger operations to a single account.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used to stamp new transactions.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the reference zone for calendar-day comparisons.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// New returns an Engine stamping with time.Now and comparing days in UTC.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the zone used by FilterByDate.
func (e *Engine) Location() *time.Location { return e.loc }

// ComputeBalance folds the statement left to right from zero: credits add,
// debits subtract.
func ComputeBalance(statement []account.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range statement {
		balance = balance.Add(tx.Signed())
	}
	return balance
}

// Balance returns the current balance of acc.
func (e *Engine) Balance(acc *account.Account) decimal.Decimal {
	if acc == nil {
		return decimal.Zero
	}
	return ComputeBalance(acc.Statement)
}

// Deposit appends a credit for amount to the statement of acc.
func (e *Engine) Deposit(acc *account.Account, description string, amount decimal.Decimal) error {
	if acc == nil {
		return domain.ErrNilAccount
	}
	acc.Append(account.NewCredit(description, amount, e.now()))
	return nil
}

// Withdraw appends a debit for amount unless it exceeds the current balance,
// in which case the statement is left untouched and ErrInsufficientFunds is
// returned.
func (e *Engine) Withdraw(acc *account.Account, amount decimal.Decimal) error {
	if acc == nil {
		return domain.ErrNilAccount
	}
	balance := ComputeBalance(acc.Statement)
	if amount.GreaterThan(balance) {
		return domain.ErrInsufficientFunds
	}
	acc.Append(account.NewDebit(amount, e.now()))
	return nil
}

// FilterByDate returns, in statement order, the transactions of acc created on
// day as observed in the engine's location.
func (e *Engine) FilterByDate(acc *account.Account, day date.Date) []account.Transaction {
	out := []account.Transaction{}
	if acc == nil {
		return out
	}
	for _, tx := range acc.Statement {
		if day.Contains(tx.CreatedAt, e.loc) {
			out = append(out, tx)
		}
	}
	return out
}
