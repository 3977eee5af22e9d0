package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRequest is an intent to move money, as received from a caller.
// FromAccount is the account debited by withdrawals and transfers; ToAccount is the
// account credited by deposits and transfers.
type TransactionRequest struct {
	ID             string          `json:"id"`
	IdempotencyKey string          `json:"-"`
	Kind           string          `json:"kind"`
	FromAccount    string          `json:"from_account,omitempty"`
	ToAccount      string          `json:"to_account,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PostResult reports the outcome of posting a TransactionRequest.
type PostResult struct {
	TransactionID string        `json:"transaction_id"`
	Replayed      bool          `json:"replayed"`
	Entries       []LedgerEntry `json:"entries"`
}
