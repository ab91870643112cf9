package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the embedded Store implementation. Amounts are stored as
// signed 8-byte integers; dates and timestamps as TEXT compatible with
// SQLite's date and time functions.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and migrates the
// schema. Use ":memory:" for an in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; a single pooled connection makes
	// concurrent callers queue here instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS batch (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journal (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id  INTEGER NOT NULL REFERENCES batch(id),
		narrative TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS entry (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		journal_id INTEGER NOT NULL REFERENCES journal(id),
		account_id INTEGER NOT NULL REFERENCES account(id),
		amount     INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entry_account ON entry(account_id);
	CREATE INDEX IF NOT EXISTS idx_entry_journal ON entry(journal_id);

	CREATE TABLE IF NOT EXISTS settings (
		name      TEXT PRIMARY KEY,
		int_value INTEGER,
		str_value TEXT
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	for _, t := range AccountTypes {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO settings (name, int_value) VALUES (?, ?)`,
			t.SequenceSetting(), t.SequenceBase(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) CreateAccount(ctx context.Context, id *int64, name string, typ AccountType) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	var accountID int64
	if id != nil {
		accountID = *id
	} else {
		seq := typ.SequenceSetting()
		var next sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT int_value FROM settings WHERE name = ?`, seq,
		).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !next.Valid) {
			return 0, &NotFoundError{Resource: "setting", Key: seq}
		}
		if err != nil {
			return 0, storageErr("read account counter", err)
		}
		accountID = next.Int64
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO account (id, name, type) VALUES (?, ?, ?)`,
		accountID, name, string(typ),
	)
	if err != nil {
		return 0, storageErr("insert account", err)
	}

	if id == nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE settings SET int_value = ? WHERE name = ?`,
			accountID+1, typ.SequenceSetting(),
		)
		if err != nil {
			return 0, storageErr("advance account counter", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("commit account", err)
	}
	return accountID, nil
}

func (s *SQLiteStore) PostBatch(ctx context.Context, journals []Journal) (int64, []int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO batch (date) VALUES (DATE('now'))`)
	if err != nil {
		return 0, nil, storageErr("insert batch", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, nil, storageErr("batch id", err)
	}

	journalIDs := make([]int64, 0, len(journals))
	for _, j := range journals {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO journal (batch_id, narrative) VALUES (?, ?)`,
			batchID, j.Narrative,
		)
		if err != nil {
			return 0, nil, storageErr("insert journal", err)
		}
		journalID, err := res.LastInsertId()
		if err != nil {
			return 0, nil, storageErr("journal id", err)
		}

		for _, e := range j.Entries {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO entry (journal_id, account_id, amount) VALUES (?, ?, ?)`,
				journalID, e.Account, e.Amount,
			)
			if err != nil {
				return 0, nil, storageErr("insert entry", err)
			}
		}
		journalIDs = append(journalIDs, journalID)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, storageErr("commit batch", err)
	}
	return batchID, journalIDs, nil
}

func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account.id, account.name, account.type,
		       IFNULL(b.balance, 0), CURRENT_TIMESTAMP
		FROM account
		LEFT JOIN (
			SELECT account_id, SUM(amount) AS balance
			FROM entry
			GROUP BY account_id
		) b ON account.id = b.account_id
		ORDER BY account.id`)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	defer rows.Close()

	var accounts []AccountSummary
	for rows.Next() {
		var a AccountSummary
		var typ string
		if err := rows.Scan(&a.AccountID, &a.AccountName, &typ, &a.Balance, &a.Timestamp); err != nil {
			return nil, storageErr("scan account summary", err)
		}
		if a.AccountType, err = accountTypeFromStore(typ); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list accounts", err)
	}
	return accounts, nil
}

func (s *SQLiteStore) AccountDetail(ctx context.Context, accountID int64) (*AccountDetail, error) {
	d := &AccountDetail{AccountID: accountID}
	var typ string
	err := s.db.QueryRowContext(ctx, `
		SELECT account.name, account.type,
		       IFNULL(SUM(e.positive), 0),
		       IFNULL(SUM(e.negative), 0) * -1,
		       CURRENT_TIMESTAMP
		FROM account
		LEFT JOIN (
			SELECT account_id, max(amount, 0) AS positive, min(amount, 0) AS negative
			FROM entry
		) e ON account.id = e.account_id
		WHERE account.id = ?
		GROUP BY account.id`, accountID,
	).Scan(&d.AccountName, &typ, &d.TotalDebits, &d.TotalCredits, &d.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "account", Key: strconv.FormatInt(accountID, 10)}
	}
	if err != nil {
		return nil, storageErr("account detail", err)
	}
	if d.AccountType, err = accountTypeFromStore(typ); err != nil {
		return nil, err
	}
	d.Balance = d.TotalDebits - d.TotalCredits
	return d, nil
}

func (s *SQLiteStore) GetSettingInt(ctx context.Context, name string) (int64, error) {
	var v sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT int_value FROM settings WHERE name = ?`, name,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !v.Valid) {
		return 0, &NotFoundError{Resource: "setting", Key: name}
	}
	if err != nil {
		return 0, storageErr("read setting", err)
	}
	return v.Int64, nil
}

func (s *SQLiteStore) SetSettingInt(ctx context.Context, name string, value int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (name, int_value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET int_value = excluded.int_value`,
		name, value)
	if err != nil {
		return storageErr("write setting", err)
	}
	return nil
}

func (s *SQLiteStore) GetSettingStr(ctx context.Context, name string) (string, error) {
	var v sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT str_value FROM settings WHERE name = ?`, name,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !v.Valid) {
		return "", &NotFoundError{Resource: "setting", Key: name}
	}
	if err != nil {
		return "", storageErr("read setting", err)
	}
	return v.String, nil
}

func (s *SQLiteStore) SetSettingStr(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (name, str_value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET str_value = excluded.str_value`,
		name, value)
	if err != nil {
		return storageErr("write setting", err)
	}
	return nil
}
