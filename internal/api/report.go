package api

import (
	"html/template"
	"net/http"

	"github.com/example/ledgerbook/internal/ledger"
)

var balanceSheetTmpl = template.Must(template.New("balance_sheet").Parse(`<!DOCTYPE html>
<html>
<head><title>Balance Sheet{{if .EntityName}} - {{.EntityName}}{{end}}</title></head>
<body>
<h1>{{if .EntityName}}{{.EntityName}}{{else}}Balance Sheet{{end}}</h1>

<h2>Cash</h2>
<table>
{{range .Cash.Accounts}}<tr><td>{{.AccountName}}</td><td>{{.Balance}}</td></tr>
{{end}}<tr><th>Total Cash</th><th>{{.Cash.Total}}</th></tr>
</table>

<h2>Current Assets</h2>
<table>
{{range .CurrentAssets.Accounts}}<tr><td>{{.AccountName}}</td><td>{{.Balance}}</td></tr>
{{end}}<tr><th>Total Current Assets</th><th>{{.CurrentAssets.Total}}</th></tr>
</table>

<h2>Current Liabilities</h2>
<table>
{{range .CurrentLiabilities.Accounts}}<tr><td>{{.AccountName}}</td><td>{{.Balance}}</td></tr>
{{end}}<tr><th>Total Current Liabilities</th><th>{{.CurrentLiabilities.Total}}</th></tr>
</table>

<h2>Net Assets: {{.NetAssets}}</h2>
</body>
</html>
`))

// handleBalanceSheet renders the balance-sheet report as HTML. The report
// itself is a pure projection of the account listing; this handler only
// fetches and renders.
func handleBalanceSheet(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityName, err := deps.Ledger.EntityName(r.Context())
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		accounts, err := deps.Ledger.ListAccounts(r.Context())
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		report := ledger.BuildBalanceSheet(accounts, entityName)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := balanceSheetTmpl.Execute(w, report); err != nil && deps.Logger != nil {
			deps.Logger.Error("render balance sheet", "error", err)
		}
	}
}
