package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/account-ledger/internal/models"
	"github.com/sheikh-saqib/account-ledger/internal/storage/memory"
)

func TestMemoryLedgerStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Save and read back", func(t *testing.T) {
		store := memory.NewMemoryLedgerStore()
		tx := models.TransactionRequest{ID: "tx-1", IdempotencyKey: "key-1", Kind: "transfer"}
		entries := []models.LedgerEntry{
			{ID: "e1", TransactionID: "tx-1", AccountID: "A1", Amount: decimal.NewFromInt(-30), CreatedAt: now},
			{ID: "e2", TransactionID: "tx-1", AccountID: "A2", Amount: decimal.NewFromInt(30), CreatedAt: now},
		}
		require.NoError(t, store.SaveTransaction(ctx, tx, entries))

		all, err := store.GetLedgerEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, entries, all)

		a2, err := store.GetEntriesByAccount(ctx, "A2")
		require.NoError(t, err)
		require.Len(t, a2, 1)
		assert.Equal(t, "e2", a2[0].ID)

		none, err := store.GetEntriesByAccount(ctx, "A9")
		require.NoError(t, err)
		assert.Empty(t, none)

		exists, err := store.TransactionExists(ctx, "key-1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.TransactionExists(ctx, "key-2")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Returned slice is a copy", func(t *testing.T) {
		store := memory.NewMemoryLedgerStore()
		require.NoError(t, store.SaveTransaction(ctx, models.TransactionRequest{ID: "tx-1"},
			[]models.LedgerEntry{{ID: "e1", AccountID: "A1"}}))

		all, _ := store.GetLedgerEntries(ctx)
		all[0].ID = "changed"

		again, _ := store.GetLedgerEntries(ctx)
		assert.Equal(t, "e1", again[0].ID)
	})

	t.Run("Empty key is not recorded", func(t *testing.T) {
		store := memory.NewMemoryLedgerStore()
		require.NoError(t, store.SaveTransaction(ctx, models.TransactionRequest{ID: "tx-1"}, nil))

		exists, err := store.TransactionExists(ctx, "")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		store := memory.NewMemoryLedgerStore()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := store.SaveTransaction(cctx, models.TransactionRequest{ID: "tx-1"}, []models.LedgerEntry{{ID: "e1"}})
		assert.ErrorIs(t, err, context.Canceled)

		all, _ := store.GetLedgerEntries(ctx)
		assert.Empty(t, all)
	})
}
