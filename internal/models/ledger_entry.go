package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the journal row written for one transaction record
type LedgerEntry struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"` // positive for credits, negative for debits
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}
