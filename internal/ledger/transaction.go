package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction record.
type Kind int

const (
	Deposit Kind = iota + 1
	Withdrawal
	Transfer
)

func (k Kind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Transfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// ParseKind maps the textual form produced by String back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "deposit":
		return Deposit, nil
	case "withdrawal":
		return Withdrawal, nil
	case "transfer":
		return Transfer, nil
	}
	return 0, ErrUnknownKind
}

// Transaction is one completed monetary event in an account's history.
// Values are created by Account when an operation succeeds and never change afterwards.
type Transaction struct {
	kind        Kind
	amount      decimal.Decimal
	timestamp   time.Time
	description string
}

func newTransaction(kind Kind, amount decimal.Decimal, at time.Time, description string) Transaction {
	return Transaction{
		kind:        kind,
		amount:      amount,
		timestamp:   at,
		description: description,
	}
}

func (t Transaction) Kind() Kind { return t.kind }
func (t Transaction) Amount() decimal.Decimal { return t.amount }
func (t Transaction) Timestamp() time.Time { return t.timestamp }
func (t Transaction) Description() string { return t.description }

// signed returns the amount with the sign it contributes to the owning balance.
// Withdrawal covers both plain withdrawals and the debit leg of a transfer.
func (t Transaction) signed() decimal.Decimal {
	if t.kind == Withdrawal {
		return t.amount.Neg()
	}
	return t.amount
}
