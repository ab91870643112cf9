package ledger

import "fmt"

// Amounts are signed integers in minor currency units. A positive amount is
// a debit, a negative amount is a credit.

const (
	// MaxNameLen bounds account names and journal narratives.
	MaxNameLen = 140

	// MinAssignedID and MaxAssignedID bound caller-supplied account IDs.
	// Auto-allocated IDs come from the per-type counters and live above
	// this range.
	MinAssignedID = 1
	MaxAssignedID = 999
)

// AccountType is the closed set of account categories. The type decides
// which balance-sheet section an account lands in and which numbering
// counter hands out its ID when the caller does not choose one.
type AccountType string

const (
	Cash                AccountType = "Cash"
	CurrentAsset        AccountType = "CurrentAsset"
	CurrentLiability    AccountType = "CurrentLiability"
	Equity              AccountType = "Equity"
	DirectExpense       AccountType = "DirectExpense"
	IndirectExpense     AccountType = "IndirectExpense"
	Inventory           AccountType = "Inventory"
	NonCurrentAsset     AccountType = "NonCurrentAsset"
	NonCurrentLiability AccountType = "NonCurrentLiability"
	OtherIncome         AccountType = "OtherIncome"
	Prepayments         AccountType = "Prepayments"
	Revenue             AccountType = "Revenue"
	System              AccountType = "System"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{
	Cash,
	CurrentAsset,
	CurrentLiability,
	Equity,
	DirectExpense,
	IndirectExpense,
	Inventory,
	NonCurrentAsset,
	NonCurrentLiability,
	OtherIncome,
	Prepayments,
	Revenue,
	System,
}

// ParseAccountType maps an incoming string onto the closed type set.
// Matching is exact; anything else is a ValidationError.
func ParseAccountType(s string) (AccountType, error) {
	for _, t := range AccountTypes {
		if s == string(t) {
			return t, nil
		}
	}
	return "", &ValidationError{Reason: fmt.Sprintf("unknown account type %q", s)}
}

// accountTypeFromStore converts a stored type column back into an
// AccountType. Unlike ParseAccountType, a miss here means the database
// holds a value the engine never wrote, so it fails as a StorageError.
func accountTypeFromStore(s string) (AccountType, error) {
	t, err := ParseAccountType(s)
	if err != nil {
		return "", &StorageError{Op: "decode account type", Err: fmt.Errorf("unknown stored value %q", s)}
	}
	return t, nil
}

// Valid reports whether t is one of the closed set.
func (t AccountType) Valid() bool {
	_, err := ParseAccountType(string(t))
	return err == nil
}

func (t AccountType) String() string { return string(t) }

// SequenceSetting names the settings row holding the next auto-allocated
// account ID for this type.
func (t AccountType) SequenceSetting() string {
	return "nextAccount" + string(t)
}

// SequenceBase is the first auto-allocated ID for each type. The bases are
// spaced so the per-type counters never overlap one another, and all sit
// above the caller-assignable 1-999 range.
func (t AccountType) SequenceBase() int64 {
	switch t {
	case Cash:
		return 1000
	case CurrentAsset:
		return 1500
	case Inventory:
		return 1700
	case Prepayments:
		return 1800
	case NonCurrentAsset:
		return 1900
	case CurrentLiability:
		return 2000
	case NonCurrentLiability:
		return 2500
	case Equity:
		return 3000
	case Revenue:
		return 4000
	case OtherIncome:
		return 4500
	case DirectExpense:
		return 5000
	case IndirectExpense:
		return 6000
	case System:
		return 9000
	}
	return 0
}

// Account is one row of the chart of accounts. Accounts are created once
// and never updated or deleted.
type Account struct {
	ID   int64       `json:"id"`
	Name string      `json:"name"`
	Type AccountType `json:"type"`
}

// Entry is a single signed amount against one account.
type Entry struct {
	Account int64 `json:"account"`
	Amount  int64 `json:"amount"`
}

// Journal is a narrated group of entries that must sum to zero.
type Journal struct {
	Narrative string  `json:"narrative"`
	Entries   []Entry `json:"entries"`
}

// Sum returns the total of the journal's entry amounts. A balanced journal
// sums to exactly zero.
func (j Journal) Sum() int64 {
	var sum int64
	for _, e := range j.Entries {
		sum += e.Amount
	}
	return sum
}

// AccountSummary is one row of the account listing: the account plus its
// balance derived from the entry log. Timestamp is the database clock at
// the moment the listing query ran and is identical across one listing.
type AccountSummary struct {
	AccountID   int64       `json:"account_id"`
	AccountName string      `json:"account_name"`
	AccountType AccountType `json:"account_type"`
	Balance     int64       `json:"balance"`
	Timestamp   string      `json:"timestamp"`
}

// AccountDetail breaks an account's activity into total debits and total
// credits. Balance is always TotalDebits - TotalCredits.
type AccountDetail struct {
	AccountID    int64       `json:"account_id"`
	AccountName  string      `json:"account_name"`
	AccountType  AccountType `json:"account_type"`
	TotalDebits  int64       `json:"total_debits"`
	TotalCredits int64       `json:"total_credits"`
	Balance      int64       `json:"balance"`
	Timestamp    string      `json:"timestamp"`
}
