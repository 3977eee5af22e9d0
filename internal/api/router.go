package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(NewStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.OpenAccount)
		r.Get("/", h.ListAccounts)
		r.Get("/{number}", h.GetAccount)
		r.Get("/{number}/history", h.GetHistory)
	})

	r.Post("/transactions", h.PostTransaction)
	r.Get("/ledgerEntries", h.ListLedgerEntries)

	return r
}
