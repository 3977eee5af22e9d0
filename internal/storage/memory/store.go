package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger/internal/models"
)

// MemoryLedgerStore is an in-memory journal. It is safe for concurrent use.
type MemoryLedgerStore struct {
	mu           sync.Mutex
	entries      []models.LedgerEntry
	transactions map[string]models.TransactionRequest // by idempotency key
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		entries:      make([]models.LedgerEntry, 0),
		transactions: make(map[string]models.TransactionRequest),
	}
}

// SaveTransaction appends all entries of one transaction together.
func (m *MemoryLedgerStore) SaveTransaction(ctx context.Context, tx models.TransactionRequest, entries []models.LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tx.IdempotencyKey != "" {
		m.transactions[tx.IdempotencyKey] = tx
	}
	m.entries = append(m.entries, entries...)
	return nil
}

// GetLedgerEntries returns a copy of every entry in insertion order.
func (m *MemoryLedgerStore) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.LedgerEntry, len(m.entries))
	copy(copied, m.entries)
	return copied, nil
}

func (m *MemoryLedgerStore) GetEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]models.LedgerEntry, 0)
	for _, e := range m.entries {
		if e.AccountID == accountID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MemoryLedgerStore) TransactionExists(ctx context.Context, idempotencyKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.transactions[idempotencyKey]
	return exists, nil
}

var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
