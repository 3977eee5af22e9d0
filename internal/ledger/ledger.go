package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger/internal/models"
	"github.com/sheikh-saqib/account-ledger/internal/models/events"
)

// Ledger owns every account, keyed by account number, and is the single entry point
// for callers that address accounts by number. Each successful posting is mirrored
// to the journal store and announced on the event publisher.
type Ledger struct {
	store     interfaces.LedgerStore    // may be nil
	publisher interfaces.EventPublisher // may be nil
	logger    *slog.Logger
	now       func() time.Time
	topic     string

	mu        sync.RWMutex
	accounts  map[string]*Account
	completed map[string]models.PostResult // by idempotency key

	inflight singleflight.Group
}

type Option func(*Ledger)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithClock overrides the time source used for new transactions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithTopic(topic string) Option {
	return func(l *Ledger) { l.topic = topic }
}

// NewLedger creates an empty ledger. store and publisher may be nil.
func NewLedger(store interfaces.LedgerStore, publisher interfaces.EventPublisher, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		publisher: publisher,
		logger:    slog.Default(),
		now:       time.Now,
		topic:     events.TopicTransactionCompleted,
		accounts:  make(map[string]*Account),
		completed: make(map[string]models.PostResult),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OpenAccount registers a new account under number.
func (l *Ledger) OpenAccount(ctx context.Context, number, owner string, opening decimal.Decimal) (models.AccountSummary, error) {
	if number == "" {
		return models.AccountSummary{}, ErrMissingAccountNumber
	}
	a, err := NewAccountWithBalance(number, owner, opening)
	if err != nil {
		return models.AccountSummary{}, err
	}
	a.now = l.now

	l.mu.Lock()
	if _, exists := l.accounts[number]; exists {
		l.mu.Unlock()
		return models.AccountSummary{}, fmt.Errorf("%w: %s", ErrAccountExists, number)
	}
	l.accounts[number] = a
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "account opened",
		slog.String("account", number),
		slog.String("opening_balance", opening.String()),
	)
	return summarize(a), nil
}

// Account returns the live account registered under number.
func (l *Ledger) Account(number string) (*Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.accounts[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, number)
	}
	return a, nil
}

// Accounts lists a summary of every account, ordered by account number.
func (l *Ledger) Accounts() []models.AccountSummary {
	l.mu.RLock()
	out := make([]models.AccountSummary, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, summarize(a))
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out
}

func (l *Ledger) Summary(number string) (models.AccountSummary, error) {
	a, err := l.Account(number)
	if err != nil {
		return models.AccountSummary{}, err
	}
	return summarize(a), nil
}

// PostTransaction applies a deposit, withdrawal or transfer request.
// Requests carrying an idempotency key that was already posted are not applied again;
// the original result is returned with Replayed set.
func (l *Ledger) PostTransaction(ctx context.Context, req models.TransactionRequest) (models.PostResult, error) {
	if req.IdempotencyKey == "" {
		return l.post(ctx, req)
	}

	v, err, _ := l.inflight.Do(req.IdempotencyKey, func() (any, error) {
		if res, ok := l.replay(ctx, req.IdempotencyKey); ok {
			return res, nil
		}
		if l.store != nil {
			exists, err := l.store.TransactionExists(ctx, req.IdempotencyKey)
			if err != nil {
				return models.PostResult{}, fmt.Errorf("failed to check idempotency key: %w", err)
			}
			if exists {
				return models.PostResult{Replayed: true}, nil
			}
		}
		res, err := l.post(ctx, req)
		if err != nil {
			return models.PostResult{}, err
		}
		l.mu.Lock()
		l.completed[req.IdempotencyKey] = res
		l.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return models.PostResult{}, err
	}
	return v.(models.PostResult), nil
}

func (l *Ledger) replay(ctx context.Context, key string) (models.PostResult, bool) {
	l.mu.RLock()
	res, ok := l.completed[key]
	l.mu.RUnlock()
	if !ok {
		return models.PostResult{}, false
	}
	l.logger.DebugContext(ctx, "idempotent replay", slog.String("idempotency_key", key))
	res.Replayed = true
	return res, true
}

func (l *Ledger) post(ctx context.Context, req models.TransactionRequest) (models.PostResult, error) {
	kind, err := ParseKind(req.Kind)
	if err != nil {
		return models.PostResult{}, fmt.Errorf("%w: %q", err, req.Kind)
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = l.now()
	}

	var entries []models.LedgerEntry
	switch kind {
	case Deposit:
		to, err := l.Account(req.ToAccount)
		if err != nil {
			return models.PostResult{}, err
		}
		tx, err := to.deposit(req.Amount, req.Description)
		if err != nil {
			return models.PostResult{}, err
		}
		entries = append(entries, toEntry(req.ID, to.number, tx))

	case Withdrawal:
		from, err := l.Account(req.FromAccount)
		if err != nil {
			return models.PostResult{}, err
		}
		tx, err := from.withdraw(req.Amount, req.Description)
		if err != nil {
			return models.PostResult{}, err
		}
		entries = append(entries, toEntry(req.ID, from.number, tx))

	case Transfer:
		if !req.Amount.IsPositive() {
			return models.PostResult{}, ErrInvalidAmount
		}
		if req.FromAccount == req.ToAccount {
			return models.PostResult{}, ErrSelfTransfer
		}
		from, err := l.Account(req.FromAccount)
		if err != nil {
			return models.PostResult{}, err
		}
		to, err := l.Account(req.ToAccount)
		if err != nil {
			return models.PostResult{}, err
		}
		out, in, err := from.transfer(to, req.Amount, req.Description)
		if err != nil {
			return models.PostResult{}, err
		}
		entries = append(entries,
			toEntry(req.ID, from.number, out),
			toEntry(req.ID, to.number, in),
		)
	}

	l.logger.InfoContext(ctx, "transaction posted",
		slog.String("transaction_id", req.ID),
		slog.String("kind", kind.String()),
		slog.String("amount", req.Amount.String()),
	)

	l.journal(ctx, req, entries)
	l.announce(ctx, req, kind, entries)

	return models.PostResult{TransactionID: req.ID, Entries: entries}, nil
}

// journal mirrors the entries to the store. The in-memory posting stands even when
// the store rejects them.
func (l *Ledger) journal(ctx context.Context, req models.TransactionRequest, entries []models.LedgerEntry) {
	if l.store == nil {
		return
	}
	if err := l.store.SaveTransaction(ctx, req, entries); err != nil {
		l.logger.ErrorContext(ctx, "failed to journal transaction",
			slog.String("transaction_id", req.ID),
			slog.Any("error", err),
		)
	}
}

func (l *Ledger) announce(ctx context.Context, req models.TransactionRequest, kind Kind, entries []models.LedgerEntry) {
	if l.publisher == nil {
		return
	}
	event := events.TransactionCompleted{
		TransactionID: req.ID,
		Kind:          kind.String(),
		Amount:        req.Amount,
		OccurredAt:    entries[0].CreatedAt,
	}
	if kind != Deposit {
		event.FromAccount = req.FromAccount
	}
	if kind != Withdrawal {
		event.ToAccount = req.ToAccount
	}
	if err := l.publisher.Publish(ctx, l.topic, event); err != nil {
		l.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("transaction_id", req.ID),
			slog.String("topic", l.topic),
			slog.Any("error", err),
		)
	}
}

func (l *Ledger) GetBalance(accountID string) (decimal.Decimal, error) {
	a, err := l.Account(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance(), nil
}

func (l *Ledger) GetTotalDeposits(accountID string) (decimal.Decimal, error) {
	a, err := l.Account(accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return a.TotalDeposits(), nil
}

// GetHistory returns the account's transaction records in serialisable form.
func (l *Ledger) GetHistory(accountID string) ([]models.HistoryItem, error) {
	a, err := l.Account(accountID)
	if err != nil {
		return nil, err
	}
	history := a.History()
	out := make([]models.HistoryItem, len(history))
	for i, tx := range history {
		out[i] = models.HistoryItem{
			Kind:        tx.Kind().String(),
			Amount:      tx.Amount(),
			Description: tx.Description(),
			Timestamp:   tx.Timestamp(),
		}
	}
	return out, nil
}

func (l *Ledger) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	if l.store == nil {
		return []models.LedgerEntry{}, nil
	}
	entries, err := l.store.GetLedgerEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}
	return entries, nil
}

func (l *Ledger) GetEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	if l.store == nil {
		return []models.LedgerEntry{}, nil
	}
	entries, err := l.store.GetEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries for account %s: %w", accountID, err)
	}
	return entries, nil
}

func toEntry(txID, accountID string, tx Transaction) models.LedgerEntry {
	return models.LedgerEntry{
		ID:            uuid.New().String(),
		TransactionID: txID,
		AccountID:     accountID,
		Kind:          tx.Kind().String(),
		Amount:        tx.signed(),
		Description:   tx.Description(),
		CreatedAt:     tx.Timestamp(),
	}
}

func summarize(a *Account) models.AccountSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := models.AccountSummary{
		AccountNumber:    a.number,
		Owner:            a.owner,
		OpeningBalance:   a.opening,
		Balance:          a.balance,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		Transactions:     len(a.history),
	}
	for _, tx := range a.history {
		switch tx.kind {
		case Deposit:
			s.TotalDeposits = s.TotalDeposits.Add(tx.amount)
		case Withdrawal:
			s.TotalWithdrawals = s.TotalWithdrawals.Add(tx.amount)
		}
	}
	return s
}
