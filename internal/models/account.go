package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountSummary struct {
	AccountNumber    string          `json:"account_number"`
	Owner            string          `json:"owner"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	Balance          decimal.Decimal `json:"balance"`
	TotalDeposits    decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	Transactions     int             `json:"transactions"`
}

// HistoryItem is the serialisable form of one transaction record.
type HistoryItem struct {
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}
