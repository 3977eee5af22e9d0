package ledger

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustAccount(t *testing.T, number, owner, balance string) *Account {
	t.Helper()
	a, err := NewAccountWithBalance(number, owner, d(balance))
	require.NoError(t, err)
	return a
}

// replayBalance recomputes a balance from the opening balance and the history.
func replayBalance(a *Account) decimal.Decimal {
	total := a.OpeningBalance()
	for _, tx := range a.History() {
		switch tx.Kind() {
		case Deposit, Transfer:
			total = total.Add(tx.Amount())
		case Withdrawal:
			total = total.Sub(tx.Amount())
		}
	}
	return total
}

func TestNewAccount(t *testing.T) {
	a := NewAccount("A1", "Alice")

	assert.Equal(t, "A1", a.Number())
	assert.Equal(t, "Alice", a.Owner())
	assert.True(t, a.Balance().IsZero())
	assert.Empty(t, a.History())
	assert.True(t, a.TotalDeposits().IsZero())
}

func TestNewAccountWithBalance(t *testing.T) {
	t.Run("Opening balance", func(t *testing.T) {
		a := mustAccount(t, "A1", "Alice", "100.50")
		assert.True(t, a.Balance().Equal(d("100.50")))
		assert.Empty(t, a.History())
	})

	t.Run("Zero is allowed", func(t *testing.T) {
		a := mustAccount(t, "A1", "Alice", "0")
		assert.True(t, a.Balance().IsZero())
	})

	t.Run("Negative is rejected", func(t *testing.T) {
		a, err := NewAccountWithBalance("A1", "Alice", d("-5.0"))
		assert.Nil(t, a)
		assert.ErrorIs(t, err, ErrNegativeOpeningBalance)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestDepositWithdrawScenario(t *testing.T) {
	a := NewAccount("A1", "Alice")

	require.NoError(t, a.Deposit(d("100.0"), "salary"))
	assert.True(t, a.Balance().Equal(d("100.0")))
	assert.Len(t, a.History(), 1)

	require.NoError(t, a.Withdraw(d("40.0"), "rent"))
	assert.True(t, a.Balance().Equal(d("60.0")))
	assert.Len(t, a.History(), 2)

	err := a.Withdraw(d("1000.0"), "car")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, a.Balance().Equal(d("60.0")))
	assert.Len(t, a.History(), 2)

	history := a.History()
	assert.Equal(t, Deposit, history[0].Kind())
	assert.Equal(t, "salary", history[0].Description())
	assert.Equal(t, Withdrawal, history[1].Kind())
	assert.True(t, history[1].Amount().Equal(d("40.0")))
}

func TestInvalidAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-0.01", "-100"} {
		t.Run(amount, func(t *testing.T) {
			a := mustAccount(t, "A1", "Alice", "10")
			b := mustAccount(t, "A2", "Bob", "10")

			assert.ErrorIs(t, a.Deposit(d(amount), "x"), ErrInvalidAmount)
			assert.ErrorIs(t, a.Withdraw(d(amount), "x"), ErrInvalidAmount)
			assert.ErrorIs(t, a.Transfer(b, d(amount), "x"), ErrInvalidAmount)

			assert.True(t, a.Balance().Equal(d("10")))
			assert.True(t, b.Balance().Equal(d("10")))
			assert.Empty(t, a.History())
			assert.Empty(t, b.History())
		})
	}
}

func TestInvalidAmountReportedBeforeFunds(t *testing.T) {
	a := NewAccount("A1", "Alice")
	b := NewAccount("A2", "Bob")

	assert.ErrorIs(t, a.Withdraw(d("-1"), ""), ErrInvalidAmount)
	assert.ErrorIs(t, a.Transfer(b, d("0"), ""), ErrInvalidAmount)
	assert.ErrorIs(t, a.Transfer(a, d("0"), ""), ErrInvalidAmount)
}

func TestTransfer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		a1 := mustAccount(t, "A1", "Alice", "100.0")
		a2 := mustAccount(t, "A2", "Bob", "50.0")

		require.NoError(t, a1.Transfer(a2, d("30.0"), "lunch"))

		assert.True(t, a1.Balance().Equal(d("70.0")))
		assert.True(t, a2.Balance().Equal(d("80.0")))
		require.Len(t, a1.History(), 1)
		require.Len(t, a2.History(), 1)

		out := a1.History()[0]
		in := a2.History()[0]
		assert.Equal(t, Withdrawal, out.Kind())
		assert.Equal(t, Transfer, in.Kind())
		assert.Equal(t, "transfer to A2: lunch", out.Description())
		assert.Equal(t, "transfer from A1: lunch", in.Description())
		assert.True(t, out.Amount().Equal(in.Amount()))
		assert.Equal(t, out.Timestamp(), in.Timestamp())
	})

	t.Run("Destination is incremented", func(t *testing.T) {
		a1 := mustAccount(t, "A1", "Alice", "10")
		a2 := mustAccount(t, "A2", "Bob", "1000")

		require.NoError(t, a1.Transfer(a2, d("5"), ""))
		assert.True(t, a2.Balance().Equal(d("1005")))
		assert.Equal(t, "transfer from A1", a2.History()[0].Description())
	})

	t.Run("Insufficient funds", func(t *testing.T) {
		a1 := mustAccount(t, "A1", "Alice", "10")
		a2 := mustAccount(t, "A2", "Bob", "0")

		assert.ErrorIs(t, a1.Transfer(a2, d("10.01"), ""), ErrInsufficientFunds)
		assert.True(t, a1.Balance().Equal(d("10")))
		assert.True(t, a2.Balance().IsZero())
		assert.Empty(t, a1.History())
		assert.Empty(t, a2.History())
	})

	t.Run("Exact balance", func(t *testing.T) {
		a1 := mustAccount(t, "A1", "Alice", "10")
		a2 := NewAccount("A2", "Bob")

		require.NoError(t, a1.Transfer(a2, d("10"), ""))
		assert.True(t, a1.Balance().IsZero())
	})

	t.Run("Self transfer", func(t *testing.T) {
		a1 := mustAccount(t, "A1", "Alice", "10")
		twin := mustAccount(t, "A1", "Alice", "10")

		assert.ErrorIs(t, a1.Transfer(a1, d("1"), ""), ErrSelfTransfer)
		assert.ErrorIs(t, a1.Transfer(twin, d("1"), ""), ErrSelfTransfer)
		assert.True(t, a1.Balance().Equal(d("10")))
		assert.Empty(t, a1.History())
	})

	t.Run("Nil destination", func(t *testing.T) {
		a1 := mustAccount(t, "A1", "Alice", "10")
		assert.ErrorIs(t, a1.Transfer(nil, d("1"), ""), ErrAccountNotFound)
	})
}

func TestTotalDeposits(t *testing.T) {
	a := NewAccount("A1", "Alice")
	b := NewAccount("A2", "Bob")
	assert.True(t, a.TotalDeposits().IsZero())

	require.NoError(t, a.Deposit(d("10.25"), ""))
	require.NoError(t, a.Deposit(d("4.75"), ""))
	require.NoError(t, a.Withdraw(d("3"), ""))
	require.NoError(t, a.Transfer(b, d("2"), ""))
	require.NoError(t, b.Transfer(a, d("1"), ""))

	assert.True(t, a.TotalDeposits().Equal(d("15")))
	assert.True(t, a.TotalWithdrawals().Equal(d("5")))
	assert.True(t, b.TotalDeposits().IsZero())
}

func TestHistoryIsACopy(t *testing.T) {
	a := NewAccount("A1", "Alice")
	require.NoError(t, a.Deposit(d("1"), "first"))
	require.NoError(t, a.Deposit(d("2"), "second"))

	h := a.History()
	h[0] = Transaction{}

	again := a.History()
	require.Len(t, again, 2)
	assert.Equal(t, "first", again[0].Description())
	assert.Equal(t, "second", again[1].Description())

	_ = a.Balance()
	_ = a.TotalDeposits()
	assert.Equal(t, 2, a.Len())
}

func TestTimestampsRecordedAtAppend(t *testing.T) {
	a := NewAccount("A1", "Alice")
	ticks := []time.Time{
		time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 21, 9, 30, 0, 0, time.UTC),
	}
	i := 0
	a.now = func() time.Time {
		at := ticks[i]
		i++
		return at
	}

	require.NoError(t, a.Deposit(d("5"), ""))
	require.NoError(t, a.Withdraw(d("1"), ""))

	h := a.History()
	assert.Equal(t, ticks[0], h[0].Timestamp())
	assert.Equal(t, ticks[1], h[1].Timestamp())
}

func TestBalanceMatchesReplayedHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	accounts := []*Account{
		mustAccount(t, "A1", "Alice", "100"),
		mustAccount(t, "A2", "Bob", "0"),
		mustAccount(t, "A3", "Carol", "12.34"),
	}

	for i := 0; i < 500; i++ {
		a := accounts[rng.Intn(len(accounts))]
		amount := decimal.New(int64(rng.Intn(5000)-500), -2)
		switch rng.Intn(3) {
		case 0:
			_ = a.Deposit(amount, "")
		case 1:
			_ = a.Withdraw(amount, "")
		case 2:
			_ = a.Transfer(accounts[rng.Intn(len(accounts))], amount, "")
		}
	}

	for _, a := range accounts {
		assert.True(t, a.Balance().Equal(replayBalance(a)), "account %s", a.Number())
		assert.False(t, a.Balance().IsNegative(), "account %s", a.Number())
		for _, tx := range a.History() {
			assert.True(t, tx.Amount().IsPositive())
		}
	}
}

func TestConcurrentTransfersAreAtomic(t *testing.T) {
	a1 := mustAccount(t, "A1", "Alice", "1000")
	a2 := mustAccount(t, "A2", "Bob", "1000")

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, a1.Transfer(a2, d("1"), ""))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, a2.Transfer(a1, d("1"), ""))
		}()
	}
	wg.Wait()

	assert.True(t, a1.Balance().Add(a2.Balance()).Equal(d("2000")))
	assert.Equal(t, 2*n, a1.Len())
	assert.Equal(t, 2*n, a2.Len())
	assert.True(t, a1.Balance().Equal(replayBalance(a1)))
	assert.True(t, a2.Balance().Equal(replayBalance(a2)))
}
