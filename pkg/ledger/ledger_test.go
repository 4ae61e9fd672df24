package ledger_test

import (
	"testing"
	"time"

	"github.com/amirasaad/cpfledger/pkg/date"
	"github.com/amirasaad/cpfledger/pkg/domain"
	"github.com/amirasaad/cpfledger/pkg/domain/account"
	"github.com/amirasaad/cpfledger/pkg/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a clock that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(step)
		return t
	}
}

func newAccount(t *testing.T) *account.Account {
	t.Helper()
	acc, err := account.New().WithCPF("111").WithName("Alice").Build()
	require.NoError(t, err)
	return acc
}

func dec(i int64) decimal.Decimal { return decimal.NewFromInt(i) }

func TestComputeBalance(t *testing.T) {
	t.Parallel()
	now := time.Now()
	tests := []struct {
		name      string
		statement []account.Transaction
		want      decimal.Decimal
	}{
		{"empty", nil, decimal.Zero},
		{"credits only", []account.Transaction{
			account.NewCredit("a", dec(100), now),
			account.NewCredit("b", dec(50), now),
		}, dec(150)},
		{"credits and debits", []account.Transaction{
			account.NewCredit("a", dec(100), now),
			account.NewDebit(dec(40), now),
			account.NewCredit("b", dec(5), now),
			account.NewDebit(dec(65), now),
		}, decimal.Zero},
		{"fractional", []account.Transaction{
			account.NewCredit("a", decimal.RequireFromString("10.10"), now),
			account.NewDebit(decimal.RequireFromString("0.20"), now),
		}, decimal.RequireFromString("9.90")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := ledger.ComputeBalance(tt.statement)
			second := ledger.ComputeBalance(tt.statement)
			assert.True(t, tt.want.Equal(first), "got %s want %s", first, tt.want)
			assert.True(t, first.Equal(second), "balance must be idempotent")
		})
	}
}

func TestComputeBalanceMatchesSums(t *testing.T) {
	t.Parallel()
	e := ledger.New()
	acc := newAccount(t)
	credits, debits := decimal.Zero, decimal.Zero
	for i := int64(1); i <= 20; i++ {
		require.NoError(t, e.Deposit(acc, "", dec(i*3)))
		credits = credits.Add(dec(i * 3))
		if i%2 == 0 {
			require.NoError(t, e.Withdraw(acc, dec(i)))
			debits = debits.Add(dec(i))
		}
	}
	assert.True(t, credits.Sub(debits).Equal(ledger.ComputeBalance(acc.Statement)))
	assert.True(t, e.Balance(acc).Equal(e.Balance(acc)))
}

func TestDepositAppendsOneCredit(t *testing.T) {
	t.Parallel()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	e := ledger.New(ledger.WithClock(func() time.Time { return at }))
	acc := newAccount(t)
	require.NoError(t, e.Deposit(acc, "opening", dec(10)))
	before := e.Balance(acc)

	require.NoError(t, e.Deposit(acc, "salary", dec(100)))

	require.Len(t, acc.Statement, 2)
	last := acc.Statement[1]
	assert.Equal(t, account.Credit, last.Type)
	assert.Equal(t, "salary", last.Description)
	assert.Equal(t, at, last.CreatedAt)
	assert.True(t, e.Balance(acc).Sub(before).Equal(dec(100)))
}

func TestWithdraw(t *testing.T) {
	t.Parallel()
	e := ledger.New()
	acc := newAccount(t)
	require.NoError(t, e.Deposit(acc, "", dec(100)))

	t.Run("insufficient funds leaves statement unchanged", func(t *testing.T) {
		before := append([]account.Transaction(nil), acc.Statement...)
		err := e.Withdraw(acc, dec(150))
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Equal(t, before, acc.Statement)
		assert.True(t, e.Balance(acc).Equal(dec(100)))
	})

	t.Run("sufficient funds appends debit", func(t *testing.T) {
		require.NoError(t, e.Withdraw(acc, dec(40)))
		require.Len(t, acc.Statement, 2)
		assert.Equal(t, account.Debit, acc.Statement[1].Type)
		assert.Empty(t, acc.Statement[1].Description)
		assert.True(t, e.Balance(acc).Equal(dec(60)))
	})

	t.Run("withdrawing the whole balance is allowed", func(t *testing.T) {
		require.NoError(t, e.Withdraw(acc, dec(60)))
		assert.True(t, e.Balance(acc).IsZero())
		assert.ErrorIs(t, e.Withdraw(acc, decimal.RequireFromString("0.01")), domain.ErrInsufficientFunds)
	})
}

func TestNilAccount(t *testing.T) {
	t.Parallel()
	e := ledger.New()
	assert.ErrorIs(t, e.Deposit(nil, "", dec(1)), domain.ErrNilAccount)
	assert.ErrorIs(t, e.Withdraw(nil, dec(1)), domain.ErrNilAccount)
	assert.Empty(t, e.FilterByDate(nil, date.MustParse("2025-01-01")))
	assert.True(t, e.Balance(nil).IsZero())
}

func TestFilterByDate(t *testing.T) {
	t.Parallel()
	day1 := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC)
	clock := []time.Time{day1, day1.Add(time.Hour), day2, day1.Add(2 * time.Hour), day2.Add(time.Hour)}
	i := 0
	e := ledger.New(ledger.WithClock(func() time.Time { ts := clock[i]; i++; return ts }))
	acc := newAccount(t)
	require.NoError(t, e.Deposit(acc, "one", dec(10)))
	require.NoError(t, e.Deposit(acc, "two", dec(20)))
	require.NoError(t, e.Deposit(acc, "three", dec(30)))
	require.NoError(t, e.Deposit(acc, "four", dec(40)))
	require.NoError(t, e.Withdraw(acc, dec(5)))

	got := e.FilterByDate(acc, date.MustParse("2025-07-01"))
	require.Len(t, got, 3)
	assert.Equal(t, "one", got[0].Description)
	assert.Equal(t, "two", got[1].Description)
	assert.Equal(t, "four", got[2].Description)

	got = e.FilterByDate(acc, date.MustParse("2025-07-02"))
	require.Len(t, got, 2)
	assert.Equal(t, "three", got[0].Description)
	assert.Equal(t, account.Debit, got[1].Type)

	assert.Empty(t, e.FilterByDate(acc, date.MustParse("2025-07-03")))
	assert.NotNil(t, e.FilterByDate(acc, date.MustParse("2025-07-03")))
}

func TestFilterByDateUsesEngineLocation(t *testing.T) {
	t.Parallel()
	// 02:00 UTC on the 2nd is the evening of the 1st at UTC-3.
	at := time.Date(2025, 7, 2, 2, 0, 0, 0, time.UTC)
	brt := time.FixedZone("BRT", -3*60*60)
	acc := newAccount(t)

	utc := ledger.New(ledger.WithClock(func() time.Time { return at }))
	require.NoError(t, utc.Deposit(acc, "late", dec(1)))

	assert.Len(t, utc.FilterByDate(acc, date.MustParse("2025-07-02")), 1)
	assert.Empty(t, utc.FilterByDate(acc, date.MustParse("2025-07-01")))

	local := ledger.New(ledger.WithLocation(brt))
	assert.Equal(t, brt, local.Location())
	assert.Len(t, local.FilterByDate(acc, date.MustParse("2025-07-01")), 1)
	assert.Empty(t, local.FilterByDate(acc, date.MustParse("2025-07-02")))
}

func TestExampleScenario(t *testing.T) {
	t.Parallel()
	e := ledger.New(ledger.WithClock(fixedClock(time.Now(), time.Second)))
	acc := newAccount(t)

	require.NoError(t, e.Deposit(acc, "", dec(100)))
	assert.True(t, e.Balance(acc).Equal(dec(100)))

	assert.ErrorIs(t, e.Withdraw(acc, dec(150)), domain.ErrInsufficientFunds)
	assert.True(t, e.Balance(acc).Equal(dec(100)))

	require.NoError(t, e.Withdraw(acc, dec(40)))
	assert.True(t, e.Balance(acc).Equal(dec(60)))
}
