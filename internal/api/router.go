package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/ledgerbook/internal/ledger"
)

// Ledger is the slice of the bookkeeping engine the HTTP adapter needs.
type Ledger interface {
	CreateAccount(ctx context.Context, id *int64, name string, typ ledger.AccountType) (int64, error)
	PostBatch(ctx context.Context, journals []ledger.Journal) (int64, []int64, error)
	PostJournal(ctx context.Context, journal ledger.Journal) (int64, error)
	ListAccounts(ctx context.Context) ([]ledger.AccountSummary, error)
	AccountDetail(ctx context.Context, accountID int64) (*ledger.AccountDetail, error)
	EntityName(ctx context.Context) (string, error)
}

type Dependencies struct {
	Logger *slog.Logger
	Ledger Ledger
}

// NewRouter builds the HTTP surface over the ledger engine.
func NewRouter(deps Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(CorrelationID)
	r.Use(RequestLogger(deps.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/account/new", handleCreateAccount(deps))
		r.Get("/account/list", handleListAccounts(deps))
		r.Get("/account/{accountID}", handleAccountDetail(deps))
		r.Post("/journal/new", handleCreateJournal(deps))
		r.Post("/batch/new", handleCreateBatch(deps))
		r.Get("/report/balance", handleBalanceSheet(deps))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
