package interfaces

import (
	"context"

	"github.com/sheikh-saqib/account-ledger/internal/models"
)

// LedgerStore is the append-only journal mirroring every posted transaction.
type LedgerStore interface {
	TransactionExists(ctx context.Context, idempotencyKey string) (bool, error)
	SaveTransaction(ctx context.Context, tx models.TransactionRequest, entries []models.LedgerEntry) error
	GetEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error)
	GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error)
}
