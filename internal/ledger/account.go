package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a balance and the ordered history of transactions that produced it.
// All methods are safe for concurrent use.
type Account struct {
	mu      sync.RWMutex
	number  string
	owner   string
	opening decimal.Decimal
	balance decimal.Decimal
	history []Transaction
	now     func() time.Time
}

// NewAccount creates an account with a zero balance and an empty history.
func NewAccount(number, owner string) *Account {
	return &Account{
		number:  number,
		owner:   owner,
		opening: decimal.Zero,
		balance: decimal.Zero,
		now:     time.Now,
	}
}

// NewAccountWithBalance creates an account with a non-negative opening balance.
// The opening balance is not recorded as a transaction.
func NewAccountWithBalance(number, owner string, balance decimal.Decimal) (*Account, error) {
	if balance.IsNegative() {
		return nil, ErrNegativeOpeningBalance
	}
	a := NewAccount(number, owner)
	a.opening = balance
	a.balance = balance
	return a, nil
}

func (a *Account) Number() string { return a.number }

func (a *Account) Owner() string { return a.owner }

func (a *Account) Balance() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.balance
}

// OpeningBalance is the balance the account was created with.
func (a *Account) OpeningBalance() decimal.Decimal { return a.opening }

// History returns a copy of the transaction log, oldest first.
func (a *Account) History() []Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Transaction, len(a.history))
	copy(out, a.history)
	return out
}

// Len reports the number of recorded transactions.
func (a *Account) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.history)
}

// Deposit adds amount to the balance and records a Deposit.
func (a *Account) Deposit(amount decimal.Decimal, description string) error {
	_, err := a.deposit(amount, description)
	return err
}

func (a *Account) deposit(amount decimal.Decimal, description string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.credit(Deposit, amount, description, a.now()), nil
}

// Withdraw subtracts amount from the balance and records a Withdrawal.
// Amount positivity is checked before funds sufficiency.
func (a *Account) Withdraw(amount decimal.Decimal, description string) error {
	_, err := a.withdraw(amount, description)
	return err
}

func (a *Account) withdraw(amount decimal.Decimal, description string) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, ErrInvalidAmount
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.GreaterThan(a.balance) {
		return Transaction{}, ErrInsufficientFunds
	}
	return a.debit(amount, description, a.now()), nil
}

// Transfer moves amount from a to other. The source records a Withdrawal and the
// destination a Transfer, both describing the counterparty. Either both accounts
// change or neither does.
func (a *Account) Transfer(other *Account, amount decimal.Decimal, description string) error {
	_, _, err := a.transfer(other, amount, description)
	return err
}

func (a *Account) transfer(other *Account, amount decimal.Decimal, description string) (Transaction, Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, Transaction{}, ErrInvalidAmount
	}
	if other == nil {
		return Transaction{}, Transaction{}, ErrAccountNotFound
	}
	if a == other || a.number == other.number {
		return Transaction{}, Transaction{}, ErrSelfTransfer
	}

	unlock := lockPair(a, other)
	defer unlock()

	if amount.GreaterThan(a.balance) {
		return Transaction{}, Transaction{}, ErrInsufficientFunds
	}

	at := a.now()
	out := a.debit(amount, legDescription("transfer to", other.number, description), at)
	in := other.credit(Transfer, amount, legDescription("transfer from", a.number, description), at)
	return out, in, nil
}

// TotalDeposits sums every Deposit in the history. It is recomputed on each call.
func (a *Account) TotalDeposits() decimal.Decimal {
	return a.sumKind(Deposit)
}

// TotalWithdrawals sums every Withdrawal, including outgoing transfer legs.
func (a *Account) TotalWithdrawals() decimal.Decimal {
	return a.sumKind(Withdrawal)
}

func (a *Account) sumKind(kind Kind) decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	total := decimal.Zero
	for _, tx := range a.history {
		if tx.kind == kind {
			total = total.Add(tx.amount)
		}
	}
	return total
}

// credit and debit expect the write lock to be held.
func (a *Account) credit(kind Kind, amount decimal.Decimal, description string, at time.Time) Transaction {
	tx := newTransaction(kind, amount, at, description)
	a.balance = a.balance.Add(amount)
	a.history = append(a.history, tx)
	return tx
}

func (a *Account) debit(amount decimal.Decimal, description string, at time.Time) Transaction {
	tx := newTransaction(Withdrawal, amount, at, description)
	a.balance = a.balance.Sub(amount)
	a.history = append(a.history, tx)
	return tx
}

// lockPair write-locks both accounts in account-number order.
func lockPair(a, b *Account) func() {
	first, second := a, b
	if b.number < a.number {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

func legDescription(direction, counterparty, description string) string {
	if description == "" {
		return fmt.Sprintf("%s %s", direction, counterparty)
	}
	return fmt.Sprintf("%s %s: %s", direction, counterparty, description)
}
