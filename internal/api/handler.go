package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/account-ledger/internal/ledger"
	"github.com/sheikh-saqib/account-ledger/internal/models"
)

// LedgerService is the part of the ledger the HTTP layer depends on.
type LedgerService interface {
	OpenAccount(ctx context.Context, number, owner string, opening decimal.Decimal) (models.AccountSummary, error)
	Accounts() []models.AccountSummary
	Summary(number string) (models.AccountSummary, error)
	GetHistory(number string) ([]models.HistoryItem, error)
	PostTransaction(ctx context.Context, req models.TransactionRequest) (models.PostResult, error)
	GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error)
	GetEntriesByAccount(ctx context.Context, accountID string) ([]models.LedgerEntry, error)
}

type Handler struct {
	ledger LedgerService
	logger *slog.Logger
}

func NewHandler(svc LedgerService, logger *slog.Logger) *Handler {
	return &Handler{ledger: svc, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountNumber  string          `json:"account_number"`
		Owner          string          `json:"owner"`
		OpeningBalance decimal.Decimal `json:"opening_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := h.ledger.OpenAccount(r.Context(), req.AccountNumber, req.Owner, req.OpeningBalance)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Accounts())
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.Summary(chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.ledger.GetHistory(chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// PostTransaction answers 201 for a new posting and 200 for an idempotent replay.
func (h *Handler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	// identifiers and timestamps are assigned by the ledger
	req.ID = ""
	req.CreatedAt = time.Time{}

	result, err := h.ledger.PostTransaction(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if result.Replayed {
		writeJSON(w, http.StatusOK, result)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) ListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	var (
		entries []models.LedgerEntry
		err     error
	)
	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		entries, err = h.ledger.GetEntriesByAccount(r.Context(), accountID)
	} else {
		entries, err = h.ledger.GetLedgerEntries(r.Context())
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", slog.Any("error", err))
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSelfTransfer),
		errors.Is(err, ledger.ErrUnknownKind),
		errors.Is(err, ledger.ErrMissingAccountNumber):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
