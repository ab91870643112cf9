package ledger

import "fmt"

// The engine reports failures in four kinds. Validation and balance errors
// are always raised before any write happens; a storage error after a
// transaction began means the transaction did not commit.

// ValidationError reports input that violates a static constraint such as
// the account ID range or a name/narrative length limit.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// BalanceError reports a journal whose entries do not sum to zero.
// JournalIndex is the position of the offending journal in the batch.
type BalanceError struct {
	JournalIndex int
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("journal %d does not balance", e.JournalIndex)
}

// NotFoundError reports a referenced account or setting that does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no such %s: %s", e.Resource, e.Key)
}

// StorageError wraps a failure from the backing store: constraint
// violations, lost connections, aborted transactions. The engine never
// retries these; the caller decides.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
