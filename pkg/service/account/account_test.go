package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/cpfledger/infra/eventbus"
	"github.com/amirasaad/cpfledger/pkg/date"
	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/events"
	pkgeventbus "github.com/amirasaad/cpfledger/pkg/eventbus"
	"github.com/amirasaad/cpfledger/pkg/ledger"
	accountsvc "github.com/amirasaad/cpfledger/pkg/service/account"
	"github.com/amirasaad/cpfledger/pkg/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

// MockBus is a mock implementation of the event bus for testing
type MockBus struct {
	mock.Mock
}

func (m *MockBus) Register(eventType events.EventType, handler pkgeventbus.HandlerFunc) {
	m.Called(eventType, handler)
}

func (m *MockBus) Emit(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type ServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	bus   *eventbus.MemoryEventBus
	store *store.Memory
	svc   *accountsvc.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.bus = eventbus.NewWithMemory(slog.Default())
	s.store = store.NewMemory()
	s.svc = accountsvc.New(s.bus, s.store, ledger.New(), slog.Default())
}

func (s *ServiceTestSuite) register(cpf, name string) {
	_, err := s.svc.Register(s.ctx, cpf, name)
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) publishedTypes() []string {
	var out []string
	for _, e := range s.bus.Published() {
		out = append(out, e.Type())
	}
	return out
}

func (s *ServiceTestSuite) TestRegister() {
	acc, err := s.svc.Register(s.ctx, "111", "Alice")
	s.Require().NoError(err)
	s.Equal("111", acc.CPF)
	s.Equal("Alice", acc.Name)

	_, err = s.svc.Register(s.ctx, "111", "Alice")
	s.ErrorIs(err, domain.ErrDuplicateAccount)
	s.Equal(1, s.store.Len())
	s.Equal([]string{"Account.Registered"}, s.publishedTypes())
}

func (s *ServiceTestSuite) TestResolveAccount() {
	s.register("111", "Alice")

	acc, err := s.svc.ResolveAccount(s.ctx, "111")
	s.Require().NoError(err)
	s.Equal("Alice", acc.Name)

	_, err = s.svc.ResolveAccount(s.ctx, "999")
	s.ErrorIs(err, domain.ErrAccountNotFound)
}

func (s *ServiceTestSuite) TestUpdateName() {
	s.register("111", "Alice")

	acc, err := s.svc.UpdateName(s.ctx, "111", "Alicia")
	s.Require().NoError(err)
	s.Equal("Alicia", acc.Name)

	_, err = s.svc.UpdateName(s.ctx, "999", "Bob")
	s.ErrorIs(err, domain.ErrAccountNotFound)

	renamed, ok := s.bus.Published()[1].(events.AccountRenamed)
	s.Require().True(ok)
	s.Equal("Alicia", renamed.Name)
}

func (s *ServiceTestSuite) TestRemove() {
	s.register("111", "Alice")
	s.register("222", "Bob")

	s.ErrorIs(s.svc.Remove(s.ctx, "999"), domain.ErrAccountNotFound)
	s.Require().NoError(s.svc.Remove(s.ctx, "111"))

	_, err := s.svc.ResolveAccount(s.ctx, "111")
	s.ErrorIs(err, domain.ErrAccountNotFound)
	_, err = s.svc.ResolveAccount(s.ctx, "222")
	s.NoError(err)
	s.Contains(s.publishedTypes(), "Account.Removed")
}

func (s *ServiceTestSuite) TestLedgerScenario() {
	s.register("111", "Alice")

	_, err := s.svc.Deposit(s.ctx, "111", "salary", decimal.NewFromInt(100))
	s.Require().NoError(err)

	_, err = s.svc.Withdraw(s.ctx, "111", decimal.NewFromInt(150))
	s.ErrorIs(err, domain.ErrInsufficientFunds)
	balance, err := s.svc.Balance(s.ctx, "111")
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(100)))

	_, err = s.svc.Withdraw(s.ctx, "111", decimal.NewFromInt(40))
	s.Require().NoError(err)
	balance, err = s.svc.Balance(s.ctx, "111")
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(60)), balance.String())

	statement, err := s.svc.Statement(s.ctx, "111")
	s.Require().NoError(err)
	s.Len(statement, 2)
	s.Equal("salary", statement[0].Description)
	s.Empty(statement[1].Description)

	s.Equal([]string{"Account.Registered", "Deposit.Made", "Withdrawal.Made"}, s.publishedTypes())
	w, ok := s.bus.Published()[2].(events.WithdrawalMade)
	s.Require().True(ok)
	s.True(w.Balance.Equal(decimal.NewFromInt(60)))
}

func (s *ServiceTestSuite) TestNegativeAmountsRejected() {
	s.register("111", "Alice")

	_, err := s.svc.Deposit(s.ctx, "111", "", decimal.NewFromInt(-1))
	s.ErrorIs(err, domain.ErrNegativeAmount)
	_, err = s.svc.Withdraw(s.ctx, "111", decimal.NewFromInt(-1))
	s.ErrorIs(err, domain.ErrNegativeAmount)

	statement, err := s.svc.Statement(s.ctx, "111")
	s.Require().NoError(err)
	s.Empty(statement)
}

func (s *ServiceTestSuite) TestUnknownCustomer() {
	_, err := s.svc.Deposit(s.ctx, "999", "", decimal.NewFromInt(1))
	s.ErrorIs(err, domain.ErrAccountNotFound)
	_, err = s.svc.Withdraw(s.ctx, "999", decimal.NewFromInt(1))
	s.ErrorIs(err, domain.ErrAccountNotFound)
	_, err = s.svc.UpdateName(s.ctx, "999", "Nobody")
	s.ErrorIs(err, domain.ErrAccountNotFound)
	_, err = s.svc.Statement(s.ctx, "999")
	s.ErrorIs(err, domain.ErrAccountNotFound)
	_, err = s.svc.StatementByDate(s.ctx, "999", date.Today(nil))
	s.ErrorIs(err, domain.ErrAccountNotFound)
	_, err = s.svc.Balance(s.ctx, "999")
	s.ErrorIs(err, domain.ErrAccountNotFound)
	s.Empty(s.bus.Published())
}

func (s *ServiceTestSuite) TestStatementByDate() {
	day1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	clock := day1
	engine := ledger.New(ledger.WithClock(func() time.Time { return clock }))
	svc := accountsvc.New(s.bus, s.store, engine, slog.Default())

	_, err := svc.Register(s.ctx, "111", "Alice")
	s.Require().NoError(err)
	_, err = svc.Deposit(s.ctx, "111", "a", decimal.NewFromInt(10))
	s.Require().NoError(err)
	clock = day2
	_, err = svc.Deposit(s.ctx, "111", "b", decimal.NewFromInt(20))
	s.Require().NoError(err)
	_, err = svc.Withdraw(s.ctx, "111", decimal.NewFromInt(5))
	s.Require().NoError(err)

	got, err := svc.StatementByDate(s.ctx, "111", date.New(2025, time.March, 2))
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("b", got[0].Description)
	s.True(got[1].Amount.Equal(decimal.NewFromInt(5)))

	none, err := svc.StatementByDate(s.ctx, "111", date.New(2025, time.March, 3))
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *ServiceTestSuite) TestBalanceOf() {
	s.register("111", "Alice")
	_, err := s.svc.Deposit(s.ctx, "111", "", decimal.RequireFromString("10.50"))
	s.Require().NoError(err)
	acc, err := s.svc.ResolveAccount(s.ctx, "111")
	s.Require().NoError(err)
	s.Equal("10.5", s.svc.BalanceOf(acc).String())
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestEmitFailureDoesNotFailMutation(t *testing.T) {
	bus := &MockBus{}
	bus.On("Emit", mock.Anything, mock.AnythingOfType("events.AccountRegistered")).
		Return(errors.New("broker down")).Once()
	bus.On("Emit", mock.Anything, mock.AnythingOfType("events.DepositMade")).
		Return(errors.New("broker down")).Once()

	svc := accountsvc.New(bus, store.NewMemory(), nil, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "111", "Alice")
	require.NoError(t, err)
	acc, err := svc.Deposit(ctx, "111", "", decimal.NewFromInt(7))
	require.NoError(t, err)
	assert.Len(t, acc.Statement, 1)
	bus.AssertExpectations(t)
}

func TestNilBus(t *testing.T) {
	svc := accountsvc.New(nil, store.NewMemory(), nil, nil)
	_, err := svc.Register(context.Background(), "111", "Alice")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, svc.Location())
}
