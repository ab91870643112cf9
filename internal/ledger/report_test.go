package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBalanceSheet(t *testing.T) {
	accounts := []AccountSummary{
		{AccountID: 100, AccountName: "Bank", AccountType: Cash, Balance: 100},
		{AccountID: 200, AccountName: "Trade Creditors", AccountType: CurrentLiability, Balance: -50},
	}

	bs := BuildBalanceSheet(accounts, "Acme Trading Ltd")

	assert.Equal(t, "Acme Trading Ltd", bs.EntityName)
	assert.Equal(t, int64(100), bs.Cash.Total)
	assert.Len(t, bs.Cash.Accounts, 1)
	// Cash balances count towards current assets even though the cash
	// accounts are listed in their own section.
	assert.Equal(t, int64(100), bs.CurrentAssets.Total)
	assert.Empty(t, bs.CurrentAssets.Accounts)
	assert.Equal(t, int64(-50), bs.CurrentLiabilities.Total)
	assert.Equal(t, int64(50), bs.NetAssets)
}

func TestBuildBalanceSheetSections(t *testing.T) {
	accounts := []AccountSummary{
		{AccountID: 1, AccountName: "Till", AccountType: Cash, Balance: 20},
		{AccountID: 2, AccountName: "Debtors", AccountType: CurrentAsset, Balance: 70},
		{AccountID: 3, AccountName: "Stock", AccountType: Inventory, Balance: 30},
		{AccountID: 4, AccountName: "Insurance", AccountType: Prepayments, Balance: 10},
		{AccountID: 5, AccountName: "Creditors", AccountType: CurrentLiability, Balance: -40},
		{AccountID: 6, AccountName: "Sales", AccountType: Revenue, Balance: -90},
		{AccountID: 7, AccountName: "Owner", AccountType: Equity, Balance: 0},
	}

	bs := BuildBalanceSheet(accounts, "")

	assert.Len(t, bs.CurrentAssets.Accounts, 3)
	assert.Equal(t, int64(20+70+30+10), bs.CurrentAssets.Total)
	assert.Len(t, bs.CurrentLiabilities.Accounts, 1)
	assert.Equal(t, int64(-40), bs.CurrentLiabilities.Total)
	assert.Equal(t, int64(90), bs.NetAssets)

	// Revenue and equity accounts sit in no balance-sheet section.
	for _, sec := range []Section{bs.Cash, bs.CurrentAssets, bs.CurrentLiabilities} {
		for _, a := range sec.Accounts {
			assert.NotEqual(t, Revenue, a.AccountType)
			assert.NotEqual(t, Equity, a.AccountType)
		}
	}
}

func TestBuildBalanceSheetEmpty(t *testing.T) {
	bs := BuildBalanceSheet(nil, "Acme")
	assert.Equal(t, int64(0), bs.NetAssets)
	assert.Empty(t, bs.Cash.Accounts)
	assert.Empty(t, bs.CurrentAssets.Accounts)
	assert.Empty(t, bs.CurrentLiabilities.Accounts)
}
