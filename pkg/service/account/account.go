// Package account provides the business operations of the ledger: registering
// customers, moving money in and out of their accounts and reading statements.
//
// Callers resolve the customer with ResolveAccount before anything else; reads
// and Remove go through it as well. Deposit, Withdraw and UpdateName look the
// account up inside the store's Update instead, so the lookup, the funds check
// and the append happen under one lock and an unknown CPF still reports
// domain.ErrAccountNotFound. After a successful
// mutation the matching domain event is emitted on the bus.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/cpfledger/pkg/date"
	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/amirasaad/cpfledger/pkg/domain/events"
	"github.com/amirasaad/cpfledger/pkg/eventbus"
	"github.com/amirasaad/cpfledger/pkg/ledger"
	"github.com/amirasaad/cpfledger/pkg/store"
	"github.com/shopspring/decimal"
)

// Service provides business logic for account operations.
type Service struct {
	store  store.AccountStore
	engine *ledger.Engine
	bus    eventbus.Bus
	logger *slog.Logger
	now    func() time.Time
}

// New creates a new Service with the provided dependencies. A nil engine or
// logger falls back to the defaults; a nil bus disables event emission.
func New(
	bus eventbus.Bus,
	accounts store.AccountStore,
	engine *ledger.Engine,
	logger *slog.Logger,
) *Service {
	if engine == nil {
		engine = ledger.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  accounts,
		engine: engine,
		bus:    bus,
		logger: logger.With("service", "account"),
		now:    time.Now,
	}
}

// Location returns the zone used to decide which calendar day a transaction
// belongs to.
func (s *Service) Location() *time.Location { return s.engine.Location() }

// Register creates a new customer account.
func (s *Service) Register(ctx context.Context, cpf, name string) (*account.Account, error) {
	cpf = account.NormalizeCPF(cpf)
	logger := s.logger.With("cpf", cpf)
	acc, err := s.store.Register(ctx, cpf, name)
	if err != nil {
		logger.Warn("Register failed", "error", err)
		return nil, fmt.Errorf("register account: %w", err)
	}
	logger.Info("Register successful", "account_id", acc.ID)
	s.emit(ctx, events.AccountRegistered{AccountEvent: s.accountEvent(acc), Name: acc.Name})
	return acc, nil
}

// ResolveAccount looks up the customer for cpf. Handlers call it before any
// other operation so an unknown CPF is rejected up front.
func (s *Service) ResolveAccount(ctx context.Context, cpf string) (*account.Account, error) {
	acc, err := s.store.FindByCPF(ctx, cpf)
	if err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}
	return acc, nil
}

// BalanceOf computes the balance of an already resolved account.
func (s *Service) BalanceOf(acc *account.Account) decimal.Decimal {
	return s.engine.Balance(acc)
}

// UpdateName replaces the holder name of an account.
func (s *Service) UpdateName(ctx context.Context, cpf, name string) (*account.Account, error) {
	acc, err := s.store.UpdateName(ctx, cpf, name)
	if err != nil {
		s.logger.Warn("UpdateName failed", "cpf", cpf, "error", err)
		return nil, fmt.Errorf("update name: %w", err)
	}
	s.emit(ctx, events.AccountRenamed{AccountEvent: s.accountEvent(acc), Name: acc.Name})
	return acc, nil
}

// Remove deletes the account registered under cpf.
func (s *Service) Remove(ctx context.Context, cpf string) error {
	acc, err := s.ResolveAccount(ctx, cpf)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, cpf); err != nil {
		s.logger.Warn("Remove failed", "cpf", cpf, "error", err)
		return fmt.Errorf("remove account: %w", err)
	}
	s.logger.Info("Remove successful", "cpf", cpf, "account_id", acc.ID)
	s.emit(ctx, events.AccountRemoved{AccountEvent: s.accountEvent(acc)})
	return nil
}

// Deposit credits amount to the account.
func (s *Service) Deposit(
	ctx context.Context,
	cpf, description string,
	amount decimal.Decimal,
) (*account.Account, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("deposit: %w", domain.ErrNegativeAmount)
	}
	acc, err := s.store.Update(ctx, cpf, func(a *account.Account) error {
		return s.engine.Deposit(a, description, amount)
	})
	if err != nil {
		s.logger.Warn("Deposit failed", "cpf", cpf, "amount", amount.String(), "error", err)
		return nil, fmt.Errorf("deposit: %w", err)
	}
	balance := s.engine.Balance(acc)
	s.logger.Info("Deposit successful", "cpf", cpf, "amount", amount.String(), "balance", balance.String())
	s.emit(ctx, events.DepositMade{
		AccountEvent: s.accountEvent(acc),
		Description:  description,
		Amount:       amount,
		Balance:      balance,
	})
	return acc, nil
}

// Withdraw debits amount from the account. It fails with
// domain.ErrInsufficientFunds, leaving the statement untouched, when amount
// exceeds the current balance.
func (s *Service) Withdraw(ctx context.Context, cpf string, amount decimal.Decimal) (*account.Account, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("withdraw: %w", domain.ErrNegativeAmount)
	}
	acc, err := s.store.Update(ctx, cpf, func(a *account.Account) error {
		return s.engine.Withdraw(a, amount)
	})
	if err != nil {
		s.logger.Warn("Withdraw failed", "cpf", cpf, "amount", amount.String(), "error", err)
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	balance := s.engine.Balance(acc)
	s.logger.Info("Withdraw successful", "cpf", cpf, "amount", amount.String(), "balance", balance.String())
	s.emit(ctx, events.WithdrawalMade{
		AccountEvent: s.accountEvent(acc),
		Amount:       amount,
		Balance:      balance,
	})
	return acc, nil
}

// Statement returns every transaction of the account in append order.
func (s *Service) Statement(ctx context.Context, cpf string) ([]account.Transaction, error) {
	acc, err := s.ResolveAccount(ctx, cpf)
	if err != nil {
		return nil, err
	}
	return acc.Statement, nil
}

// StatementByDate returns the transactions created on day.
func (s *Service) StatementByDate(ctx context.Context, cpf string, day date.Date) ([]account.Transaction, error) {
	acc, err := s.ResolveAccount(ctx, cpf)
	if err != nil {
		return nil, err
	}
	return s.engine.FilterByDate(acc, day), nil
}

// Balance returns the current balance of the account.
func (s *Service) Balance(ctx context.Context, cpf string) (decimal.Decimal, error) {
	acc, err := s.ResolveAccount(ctx, cpf)
	if err != nil {
		return decimal.Zero, err
	}
	return s.engine.Balance(acc), nil
}

func (s *Service) accountEvent(acc *account.Account) events.AccountEvent {
	return events.AccountEvent{AccountID: acc.ID, CPF: acc.CPF, Timestamp: s.now()}
}

// emit publishes an event for a mutation that has already been applied, so a
// bus failure is logged rather than returned.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit event", "type", event.Type(), "error", err)
	}
}
