package ledger

import (
	"context"
	"errors"
	"unicode/utf8"
)

// EntityNameSetting is the settings row naming the reporting entity.
const EntityNameSetting = "entityName"

// Service is the high-level bookkeeping API. All validation happens here,
// before anything touches the store, so a rejected request is guaranteed to
// be side-effect free.
type Service struct {
	store Store
}

// NewService wraps a Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateAccount registers one account and returns its ID. A nil id asks
// the store to allocate the next ID for the type; an explicit id must lie
// in [1, 999]. Explicit IDs are not pre-checked for prior existence; a
// collision surfaces as a StorageError from the uniqueness constraint.
func (s *Service) CreateAccount(ctx context.Context, id *int64, name string, typ AccountType) (int64, error) {
	if id != nil && (*id < MinAssignedID || *id > MaxAssignedID) {
		return 0, &ValidationError{Reason: "account id out of range"}
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return 0, &ValidationError{Reason: "account name too long"}
	}
	if !typ.Valid() {
		return 0, &ValidationError{Reason: "unknown account type " + string(typ)}
	}
	return s.store.CreateAccount(ctx, id, name, typ)
}

// PostBatch validates every journal, then commits them as one batch. Each
// journal must balance on its own; one bad journal rejects the whole batch
// before any write. Returns the batch ID and the journal IDs in input
// order.
func (s *Service) PostBatch(ctx context.Context, journals []Journal) (int64, []int64, error) {
	for i, j := range journals {
		if utf8.RuneCountInString(j.Narrative) > MaxNameLen {
			return 0, nil, &ValidationError{Reason: "narrative too long"}
		}
		if j.Sum() != 0 {
			return 0, nil, &BalanceError{JournalIndex: i}
		}
	}
	return s.store.PostBatch(ctx, journals)
}

// PostJournal posts a one-journal batch and returns that journal's ID.
func (s *Service) PostJournal(ctx context.Context, journal Journal) (int64, error) {
	_, journalIDs, err := s.PostBatch(ctx, []Journal{journal})
	if err != nil {
		return 0, err
	}
	return journalIDs[0], nil
}

// ListAccounts returns every account with its derived balance, ordered by
// account ID.
func (s *Service) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	return s.store.ListAccounts(ctx)
}

// AccountDetail returns the debit/credit breakdown for one account.
func (s *Service) AccountDetail(ctx context.Context, accountID int64) (*AccountDetail, error) {
	return s.store.AccountDetail(ctx, accountID)
}

// EntityName reads the configured reporting-entity name, or "" when none
// has been set.
func (s *Service) EntityName(ctx context.Context) (string, error) {
	name, err := s.store.GetSettingStr(ctx, EntityNameSetting)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
