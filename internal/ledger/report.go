package ledger

// BalanceSheet groups account balances into the sections of a simple
// balance-sheet report. It is a pure in-memory structure; rendering is the
// caller's business.
type BalanceSheet struct {
	EntityName         string  `json:"entity_name"`
	Cash               Section `json:"cash"`
	CurrentAssets      Section `json:"current_assets"`
	CurrentLiabilities Section `json:"current_liabilities"`
	NetAssets          int64   `json:"net_assets"`
}

// Section is a group of accounts and the sum of their balances. Total may
// cover more accounts than the listed ones: the current-assets section
// lists only CurrentAsset, Inventory and Prepayments accounts, while its
// total also counts Cash balances, which are shown in their own section.
type Section struct {
	Accounts []AccountSummary `json:"accounts"`
	Total    int64            `json:"total"`
}

// BuildBalanceSheet partitions an account listing by account type.
// Liabilities carry negative balances by sign convention, so net assets is
// simply total current assets plus total current liabilities.
func BuildBalanceSheet(accounts []AccountSummary, entityName string) *BalanceSheet {
	bs := &BalanceSheet{EntityName: entityName}

	bs.Cash = sectionOf(accounts, Cash)
	bs.CurrentAssets = sectionOf(accounts, CurrentAsset, Inventory, Prepayments)
	bs.CurrentAssets.Total += bs.Cash.Total
	bs.CurrentLiabilities = sectionOf(accounts, CurrentLiability)

	bs.NetAssets = bs.CurrentAssets.Total + bs.CurrentLiabilities.Total
	return bs
}

func sectionOf(accounts []AccountSummary, types ...AccountType) Section {
	sec := Section{Accounts: []AccountSummary{}}
	for _, a := range accounts {
		for _, t := range types {
			if a.AccountType == t {
				sec.Accounts = append(sec.Accounts, a)
				sec.Total += a.Balance
				break
			}
		}
	}
	return sec
}
