package ledger

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests against a real Postgres. Set LEDGER_TEST_DATABASE_URL
// to a throwaway database to run them; they are skipped otherwise.

func setupPostgres(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("LEDGER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LEDGER_TEST_DATABASE_URL not set, skipping Postgres integration tests")
	}

	ctx := context.Background()
	store, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, table := range []string{"entry", "journal", "batch", "account", "settings"} {
			_, _ = store.pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		}
		store.Close()
	})
	return store
}

func TestPostgresRoundTrip(t *testing.T) {
	store := setupPostgres(t)
	svc := NewService(store)
	ctx := context.Background()

	a, err := svc.CreateAccount(ctx, nil, "Bank", Cash)
	require.NoError(t, err)
	assert.Equal(t, Cash.SequenceBase(), a)

	b, err := svc.CreateAccount(ctx, int64ptr(200), "Creditors", CurrentLiability)
	require.NoError(t, err)
	assert.Equal(t, int64(200), b)

	batchID, journalIDs, err := svc.PostBatch(ctx, []Journal{{
		Narrative: "opening position",
		Entries:   []Entry{{Account: a, Amount: 750}, {Account: b, Amount: -750}},
	}})
	require.NoError(t, err)
	assert.NotZero(t, batchID)
	require.Len(t, journalIDs, 1)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, int64(200), accounts[0].AccountID)
	assert.Equal(t, int64(-750), accounts[0].Balance)
	assert.Equal(t, a, accounts[1].AccountID)
	assert.Equal(t, int64(750), accounts[1].Balance)
	assert.Equal(t, accounts[0].Timestamp, accounts[1].Timestamp)

	detail, err := svc.AccountDetail(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.TotalDebits)
	assert.Equal(t, int64(750), detail.TotalCredits)
	assert.Equal(t, int64(-750), detail.Balance)

	_, err = svc.AccountDetail(ctx, 31337)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestPostgresBatchRollback(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()

	a, err := store.CreateAccount(ctx, nil, "Bank", Cash)
	require.NoError(t, err)

	_, _, err = store.PostBatch(ctx, []Journal{
		{Entries: []Entry{{Account: a, Amount: 100}, {Account: a, Amount: -100}}},
		{Entries: []Entry{{Account: 999999, Amount: 100}, {Account: a, Amount: -100}}},
	})
	var se *StorageError
	require.ErrorAs(t, err, &se)

	var batches int
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT COUNT(*) FROM batch`).Scan(&batches))
	assert.Equal(t, 0, batches)
}

func TestPostgresSettings(t *testing.T) {
	store := setupPostgres(t)
	ctx := context.Background()

	_, err := store.GetSettingStr(ctx, "entityName")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	require.NoError(t, store.SetSettingStr(ctx, "entityName", "Acme"))
	v, err := store.GetSettingStr(ctx, "entityName")
	require.NoError(t, err)
	assert.Equal(t, "Acme", v)
}
