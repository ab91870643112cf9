package ledger

import "context"

// Store is the transactional backing for the ledger. Two implementations
// exist: SQLiteStore for embedded deployments and PostgresStore for shared
// ones. Every multi-row mutation runs inside one transaction; reads are
// single queries so the timestamp they carry matches the rows they return.
//
// The entry log is append-only and is the only source of truth for
// balances. Nothing in this interface updates or deletes a posted row.
type Store interface {
	// CreateAccount inserts one account. With id nil the next ID for the
	// type is drawn from its settings counter and the counter is advanced,
	// all inside the same transaction as the insert. A missing counter row
	// is a NotFoundError; a duplicate explicit ID surfaces as a
	// StorageError from the primary-key constraint.
	CreateAccount(ctx context.Context, id *int64, name string, typ AccountType) (int64, error)

	// PostBatch writes one batch row dated with the store's current date,
	// then each journal and its entries in input order, in a single
	// transaction. Returns the batch ID and the journal IDs in input order.
	PostBatch(ctx context.Context, journals []Journal) (int64, []int64, error)

	// ListAccounts returns every account with its summed balance. Accounts
	// without entries appear with balance 0. Rows are ordered by account ID.
	ListAccounts(ctx context.Context) ([]AccountSummary, error)

	// AccountDetail returns the debit/credit totals for one account, or a
	// NotFoundError when the account row does not exist.
	AccountDetail(ctx context.Context, accountID int64) (*AccountDetail, error)

	// Settings is the keyed scalar store used for the account-ID counters
	// and the entity display name. Missing names (or NULL values) are
	// NotFoundErrors.
	GetSettingInt(ctx context.Context, name string) (int64, error)
	SetSettingInt(ctx context.Context, name string, value int64) error
	GetSettingStr(ctx context.Context, name string) (string, error)
	SetSettingStr(ctx context.Context, name, value string) error

	Close() error
}
