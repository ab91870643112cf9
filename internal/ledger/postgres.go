package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the shared-database Store implementation, for
// deployments where several ledgerd instances point at one Postgres.
// Write transactions run SERIALIZABLE so two concurrent allocations of the
// same account counter cannot both commit.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at dsn and migrates the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS account (
			id   BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS batch (
			id   BIGSERIAL PRIMARY KEY,
			date DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS journal (
			id        BIGSERIAL PRIMARY KEY,
			batch_id  BIGINT NOT NULL REFERENCES batch(id),
			narrative TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS entry (
			id         BIGSERIAL PRIMARY KEY,
			journal_id BIGINT NOT NULL REFERENCES journal(id),
			account_id BIGINT NOT NULL REFERENCES account(id),
			amount     BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entry_account ON entry(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entry_journal ON entry(journal_id)`,
		`CREATE TABLE IF NOT EXISTS settings (
			name      TEXT PRIMARY KEY,
			int_value BIGINT,
			str_value TEXT
		)`,
	}
	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return err
		}
	}

	for _, t := range AccountTypes {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO settings (name, int_value) VALUES ($1, $2)
			 ON CONFLICT (name) DO NOTHING`,
			t.SequenceSetting(), t.SequenceBase(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) beginWrite(ctx context.Context) (pgx.Tx, error) {
	return s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
}

func (s *PostgresStore) CreateAccount(ctx context.Context, id *int64, name string, typ AccountType) (int64, error) {
	tx, err := s.beginWrite(ctx)
	if err != nil {
		return 0, storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var accountID int64
	if id != nil {
		accountID = *id
	} else {
		seq := typ.SequenceSetting()
		var next *int64
		err := tx.QueryRow(ctx,
			`SELECT int_value FROM settings WHERE name = $1 FOR UPDATE`, seq,
		).Scan(&next)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && next == nil) {
			return 0, &NotFoundError{Resource: "setting", Key: seq}
		}
		if err != nil {
			return 0, storageErr("read account counter", err)
		}
		accountID = *next
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO account (id, name, type) VALUES ($1, $2, $3)`,
		accountID, name, string(typ),
	)
	if err != nil {
		return 0, storageErr("insert account", err)
	}

	if id == nil {
		_, err = tx.Exec(ctx,
			`UPDATE settings SET int_value = $1 WHERE name = $2`,
			accountID+1, typ.SequenceSetting(),
		)
		if err != nil {
			return 0, storageErr("advance account counter", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, storageErr("commit account", err)
	}
	return accountID, nil
}

func (s *PostgresStore) PostBatch(ctx context.Context, journals []Journal) (int64, []int64, error) {
	tx, err := s.beginWrite(ctx)
	if err != nil {
		return 0, nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var batchID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO batch (date) VALUES (CURRENT_DATE) RETURNING id`,
	).Scan(&batchID)
	if err != nil {
		return 0, nil, storageErr("insert batch", err)
	}

	journalIDs := make([]int64, 0, len(journals))
	for _, j := range journals {
		var journalID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO journal (batch_id, narrative) VALUES ($1, $2) RETURNING id`,
			batchID, j.Narrative,
		).Scan(&journalID)
		if err != nil {
			return 0, nil, storageErr("insert journal", err)
		}

		for _, e := range j.Entries {
			_, err := tx.Exec(ctx,
				`INSERT INTO entry (journal_id, account_id, amount) VALUES ($1, $2, $3)`,
				journalID, e.Account, e.Amount,
			)
			if err != nil {
				return 0, nil, storageErr("insert entry", err)
			}
		}
		journalIDs = append(journalIDs, journalID)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, storageErr("commit batch", err)
	}
	return batchID, journalIDs, nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT account.id, account.name, account.type,
		       COALESCE(b.balance, 0), CURRENT_TIMESTAMP::text
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

func (s *PostgresStore) AccountDetail(ctx context.Context, accountID int64) (*AccountDetail, error) {
	d := &AccountDetail{AccountID: accountID}
	var typ string
	err := s.pool.QueryRow(ctx, `
		SELECT account.name, account.type,
		       COALESCE(SUM(e.positive), 0),
		       COALESCE(SUM(e.negative), 0) * -1,
		       CURRENT_TIMESTAMP::text
		FROM account
		LEFT JOIN (
			SELECT account_id, GREATEST(amount, 0) AS positive, LEAST(amount, 0) AS negative
			FROM entry
		) e ON account.id = e.account_id
		WHERE account.id = $1
		GROUP BY account.id`, accountID,
	).Scan(&d.AccountName, &typ, &d.TotalDebits, &d.TotalCredits, &d.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (s *PostgresStore) GetSettingInt(ctx context.Context, name string) (int64, error) {
	var v *int64
	err := s.pool.QueryRow(ctx,
		`SELECT int_value FROM settings WHERE name = $1`, name,
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && v == nil) {
		return 0, &NotFoundError{Resource: "setting", Key: name}
	}
	if err != nil {
		return 0, storageErr("read setting", err)
	}
	return *v, nil
}

func (s *PostgresStore) SetSettingInt(ctx context.Context, name string, value int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO settings (name, int_value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET int_value = EXCLUDED.int_value`,
		name, value)
	if err != nil {
		return storageErr("write setting", err)
	}
	return nil
}

func (s *PostgresStore) GetSettingStr(ctx context.Context, name string) (string, error) {
	var v *string
	err := s.pool.QueryRow(ctx,
		`SELECT str_value FROM settings WHERE name = $1`, name,
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && v == nil) {
		return "", &NotFoundError{Resource: "setting", Key: name}
	}
	if err != nil {
		return "", storageErr("read setting", err)
	}
	return *v, nil
}

func (s *PostgresStore) SetSettingStr(ctx context.Context, name, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO settings (name, str_value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET str_value = EXCLUDED.str_value`,
		name, value)
	if err != nil {
		return storageErr("write setting", err)
	}
	return nil
}
