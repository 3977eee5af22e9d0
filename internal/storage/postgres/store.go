package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger/internal/models"
)

const (
	transactionExistsQuery = `SELECT 1 FROM transactions WHERE idempotency_key = $1 LIMIT 1`

	insertTransactionQuery = `INSERT INTO transactions (id, idempotency_key, kind, from_account, to_account, amount, description, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertEntryQuery = `INSERT INTO ledger_entries (id, transaction_id, account_id, kind, amount, description, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectEntriesQuery = `SELECT id, transaction_id, account_id, kind, amount, description, created_at FROM ledger_entries ORDER BY seq`

	selectEntriesByAccountQuery = `SELECT id, transaction_id, account_id, kind, amount, description, created_at FROM ledger_entries
	WHERE account_id = $1 ORDER BY seq`
)

type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

func (p *PostgresLedgerStore) TransactionExists(ctx context.Context, idempotencyKey string) (bool, error) {
	var exists int
	err := p.db.QueryRowContext(ctx, transactionExistsQuery, idempotencyKey).Scan(&exists)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// SaveTransaction writes the transaction row and all of its entries in one database transaction.
func (p *PostgresLedgerStore) SaveTransaction(ctx context.Context, tx models.TransactionRequest, entries []models.LedgerEntry) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	_, err = dbTx.ExecContext(ctx, insertTransactionQuery,
		tx.ID, nullString(tx.IdempotencyKey), tx.Kind,
		nullString(tx.FromAccount), nullString(tx.ToAccount),
		tx.Amount, tx.Description, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
	}

	for _, entry := range entries {
		_, err = dbTx.ExecContext(ctx, insertEntryQuery,
			entry.ID, entry.TransactionID, entry.AccountID, entry.Kind,
			entry.Amount, entry.Description, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert ledger entry %s: %w", entry.ID, err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (p *PostgresLedgerStore) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	rows, err := p.db.QueryContext(ctx, selectEntriesQuery)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (p *PostgresLedgerStore) GetEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	rows, err := p.db.QueryContext(ctx, selectEntriesByAccountQuery, accountID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]models.LedgerEntry, error) {
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0)
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.TransactionID,
			&entry.AccountID,
			&entry.Kind,
			&entry.Amount,
			&entry.Description,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
