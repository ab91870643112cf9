package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/ledgerbook/internal/ledger"
)

type errorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	cid := CorrelationIDFromContext(r.Context())
	if cid != "" {
		w.Header().Set(CorrelationIDHeader, cid)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{
		Error:         msg,
		CorrelationID: CorrelationIDFromContext(r.Context()),
	})
}

// writeLedgerError maps the engine's error taxonomy onto HTTP statuses.
// Validation and balance failures are the caller's fault; missing accounts
// are 404; anything from the store is a 500 with the detail kept out of
// the response body.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *ledger.ValidationError
		be *ledger.BalanceError
		nf *ledger.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, r, http.StatusBadRequest, ve.Error())
	case errors.As(err, &be):
		writeError(w, r, http.StatusBadRequest, be.Error())
	case errors.As(err, &nf):
		writeError(w, r, http.StatusNotFound, nf.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
