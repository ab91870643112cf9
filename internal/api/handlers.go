package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/ledgerbook/internal/ledger"
)

type createAccountRequest struct {
	AccountID   *int64 `json:"account_id"`
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
}

type createAccountResponse struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	AccountType string `json:"account_type"`
}

// Account IDs render zero-padded to eight digits throughout the API.
func formatAccountID(id int64) string {
	return fmt.Sprintf("%08d", id)
}

func handleCreateAccount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid json")
			return
		}

		typ, err := ledger.ParseAccountType(req.AccountType)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		id, err := deps.Ledger.CreateAccount(r.Context(), req.AccountID, req.AccountName, typ)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, createAccountResponse{
			AccountID:   formatAccountID(id),
			AccountName: req.AccountName,
			AccountType: string(typ),
		})
	}
}

type accountListResponse struct {
	Accounts  []accountListRow `json:"accounts"`
	Timestamp string           `json:"timestamp"`
}

type accountListRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Balance string `json:"balance"`
}

func handleListAccounts(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := deps.Ledger.ListAccounts(r.Context())
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		resp := accountListResponse{Accounts: []accountListRow{}}
		for _, a := range accounts {
			resp.Accounts = append(resp.Accounts, accountListRow{
				ID:      formatAccountID(a.AccountID),
				Name:    a.AccountName,
				Type:    string(a.AccountType),
				Balance: strconv.FormatInt(a.Balance, 10),
			})
			resp.Timestamp = a.Timestamp
		}

		writeJSON(w, r, http.StatusOK, resp)
	}
}

type accountDetailResponse struct {
	AccountID    string `json:"account_id"`
	AccountName  string `json:"account_name"`
	AccountType  string `json:"account_type"`
	TotalDebits  string `json:"total_debits"`
	TotalCredits string `json:"total_credits"`
	Balance      string `json:"balance"`
	Timestamp    string `json:"timestamp"`
}

func handleAccountDetail(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid account id")
			return
		}

		detail, err := deps.Ledger.AccountDetail(r.Context(), accountID)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, accountDetailResponse{
			AccountID:    formatAccountID(detail.AccountID),
			AccountName:  detail.AccountName,
			AccountType:  string(detail.AccountType),
			TotalDebits:  strconv.FormatInt(detail.TotalDebits, 10),
			TotalCredits: strconv.FormatInt(detail.TotalCredits, 10),
			Balance:      strconv.FormatInt(detail.Balance, 10),
			Timestamp:    detail.Timestamp,
		})
	}
}

type journalRequest struct {
	Narrative string         `json:"narrative"`
	Entries   []entryRequest `json:"entries"`
}

type entryRequest struct {
	Account int64 `json:"account"`
	Amount  int64 `json:"amount"`
}

func (j journalRequest) toJournal() ledger.Journal {
	journal := ledger.Journal{Narrative: j.Narrative}
	for _, e := range j.Entries {
		journal.Entries = append(journal.Entries, ledger.Entry{Account: e.Account, Amount: e.Amount})
	}
	return journal
}

type createJournalResponse struct {
	JournalID int64 `json:"journal_id"`
}

func handleCreateJournal(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req journalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid json")
			return
		}

		journalID, err := deps.Ledger.PostJournal(r.Context(), req.toJournal())
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, createJournalResponse{JournalID: journalID})
	}
}

type createBatchRequest struct {
	Journals []journalRequest `json:"journals"`
}

type createBatchResponse struct {
	BatchID    int64   `json:"batch_id"`
	JournalIDs []int64 `json:"journal_ids"`
}

func handleCreateBatch(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid json")
			return
		}

		journals := make([]ledger.Journal, 0, len(req.Journals))
		for _, j := range req.Journals {
			journals = append(journals, j.toJournal())
		}

		batchID, journalIDs, err := deps.Ledger.PostBatch(r.Context(), journals)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, createBatchResponse{
			BatchID:    batchID,
			JournalIDs: journalIDs,
		})
	}
}
