package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func (s *SQLiteStore) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestMigrateSeedsCounters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, typ := range AccountTypes {
		v, err := store.GetSettingInt(ctx, typ.SequenceSetting())
		require.NoError(t, err, "counter for %s", typ)
		assert.Equal(t, typ.SequenceBase(), v)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	// Advance one counter, re-run the migration, and check the seed does
	// not clobber the advanced value.
	_, err := store.CreateAccount(ctx, nil, "Till", Cash)
	require.NoError(t, err)
	require.NoError(t, store.migrate())

	v, err := store.GetSettingInt(ctx, Cash.SequenceSetting())
	require.NoError(t, err)
	assert.Equal(t, Cash.SequenceBase()+1, v)
}

func TestSettingsRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	t.Run("int", func(t *testing.T) {
		_, err := store.GetSettingInt(ctx, "missing")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)

		require.NoError(t, store.SetSettingInt(ctx, "answer", 42))
		v, err := store.GetSettingInt(ctx, "answer")
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)

		require.NoError(t, store.SetSettingInt(ctx, "answer", 43))
		v, err = store.GetSettingInt(ctx, "answer")
		require.NoError(t, err)
		assert.Equal(t, int64(43), v)
	})

	t.Run("str", func(t *testing.T) {
		_, err := store.GetSettingStr(ctx, "missing")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)

		require.NoError(t, store.SetSettingStr(ctx, "entityName", "Acme"))
		v, err := store.GetSettingStr(ctx, "entityName")
		require.NoError(t, err)
		assert.Equal(t, "Acme", v)
	})

	t.Run("str upsert keeps int column", func(t *testing.T) {
		require.NoError(t, store.SetSettingInt(ctx, "both", 7))
		require.NoError(t, store.SetSettingStr(ctx, "both", "seven"))

		i, err := store.GetSettingInt(ctx, "both")
		require.NoError(t, err)
		assert.Equal(t, int64(7), i)
		s, err := store.GetSettingStr(ctx, "both")
		require.NoError(t, err)
		assert.Equal(t, "seven", s)
	})
}

func TestCreateAccountMissingCounter(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.db.Exec(`DELETE FROM settings WHERE name = ?`, Cash.SequenceSetting())
	require.NoError(t, err)

	_, err = store.CreateAccount(ctx, nil, "Till", Cash)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "setting", nf.Resource)

	// The failed allocation must not have inserted an account.
	assert.Equal(t, 0, store.countRows(t, "account"))
}

func TestPostBatchAtomicRollback(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	a, err := store.CreateAccount(ctx, nil, "Bank", Cash)
	require.NoError(t, err)

	// Second journal's entry references an account that does not exist;
	// the foreign key rejects it and the whole batch must vanish.
	_, _, err = store.PostBatch(ctx, []Journal{
		{Entries: []Entry{{Account: a, Amount: 100}, {Account: a, Amount: -100}}},
		{Entries: []Entry{{Account: 999999, Amount: 100}, {Account: a, Amount: -100}}},
	})
	var se *StorageError
	require.ErrorAs(t, err, &se)

	assert.Equal(t, 0, store.countRows(t, "batch"))
	assert.Equal(t, 0, store.countRows(t, "journal"))
	assert.Equal(t, 0, store.countRows(t, "entry"))
}

func TestPostBatchWritesInOrder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	a, err := store.CreateAccount(ctx, nil, "Bank", Cash)
	require.NoError(t, err)

	batchID, journalIDs, err := store.PostBatch(ctx, []Journal{
		{Narrative: "first", Entries: []Entry{{Account: a, Amount: 1}, {Account: a, Amount: -1}}},
		{Narrative: "second", Entries: []Entry{{Account: a, Amount: 2}, {Account: a, Amount: -2}}},
		{Narrative: "third"},
	})
	require.NoError(t, err)
	require.Len(t, journalIDs, 3)
	assert.True(t, journalIDs[0] < journalIDs[1] && journalIDs[1] < journalIDs[2])

	rows, err := store.db.Query(
		`SELECT narrative FROM journal WHERE batch_id = ? ORDER BY id`, batchID)
	require.NoError(t, err)
	defer rows.Close()

	var narratives []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		narratives = append(narratives, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"first", "second", "third"}, narratives)

	var date string
	require.NoError(t, store.db.QueryRow(`SELECT date FROM batch WHERE id = ?`, batchID).Scan(&date))
	assert.NotEmpty(t, date)
}

func TestUnknownStoredAccountTypeFailsLoudly(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.db.Exec(`INSERT INTO account (id, name, type) VALUES (1, 'Mystery', 'Cryptocurrency')`)
	require.NoError(t, err)

	_, err = store.ListAccounts(ctx)
	var se *StorageError
	require.ErrorAs(t, err, &se)

	_, err = store.AccountDetail(ctx, 1)
	require.ErrorAs(t, err, &se)
}

func TestListAccountsSharedTimestamp(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.CreateAccount(ctx, nil, "Bank", Cash)
	require.NoError(t, err)
	_, err = store.CreateAccount(ctx, nil, "Sales", Revenue)
	require.NoError(t, err)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, accounts[0].Timestamp, accounts[1].Timestamp)
	// Ordered by account ID.
	assert.Less(t, accounts[0].AccountID, accounts[1].AccountID)
}
