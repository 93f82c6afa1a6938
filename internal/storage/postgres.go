package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore persists snapshots to Postgres. Like the file store it is a
// wholesale snapshot store, not an incremental one: Save rewrites every row
// inside a single database transaction, Load reads everything back.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given connection pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Init creates the snapshot tables if they do not exist. Call once on
// startup after the connection is established.
func (s *PostgresStore) Init(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS bank_state (
			id                  INT PRIMARY KEY CHECK (id = 1),
			next_account_number BIGINT NOT NULL,
			written_at          TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS customers (
			id         TEXT PRIMARY KEY,
			position   INT NOT NULL,
			name       TEXT NOT NULL,
			birth_date TEXT NOT NULL,
			address    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS customer_accounts (
			customer_id    TEXT NOT NULL,
			position       INT NOT NULL,
			account_number BIGINT NOT NULL,
			PRIMARY KEY (customer_id, position)
		);
		CREATE TABLE IF NOT EXISTS accounts (
			number   BIGINT PRIMARY KEY,
			position INT NOT NULL,
			owner_id TEXT NOT NULL,
			balance  NUMERIC NOT NULL
		);
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id             UUID PRIMARY KEY,
			account_number BIGINT NOT NULL,
			position       INT NOT NULL,
			ts             TIMESTAMPTZ NOT NULL,
			kind           TEXT NOT NULL,
			amount         NUMERIC NOT NULL
		);
	`
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create snapshot tables: %w", err)
	}
	return nil
}

// Save replaces the stored snapshot with snap in one transaction.
func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"bank_state", "customers", "customer_accounts", "accounts", "ledger_entries"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bank_state (id, next_account_number, written_at)
		VALUES (1, $1, $2)
	`, snap.NextAccountNumber, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save bank state: %w", err)
	}

	for i, c := range snap.Customers {
		_, err := tx.Exec(ctx, `
			INSERT INTO customers (id, position, name, birth_date, address)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID, i, c.Name, c.BirthDate, c.Address)
		if err != nil {
			return fmt.Errorf("failed to save customer %s: %w", c.ID, err)
		}
		for j, number := range c.AccountNumbers {
			_, err := tx.Exec(ctx, `
				INSERT INTO customer_accounts (customer_id, position, account_number)
				VALUES ($1, $2, $3)
			`, c.ID, j, number)
			if err != nil {
				return fmt.Errorf("failed to save account link for customer %s: %w", c.ID, err)
			}
		}
	}

	for i, a := range snap.Accounts {
		_, err := tx.Exec(ctx, `
			INSERT INTO accounts (number, position, owner_id, balance)
			VALUES ($1, $2, $3, $4)
		`, a.Number, i, a.OwnerID, a.Balance.String())
		if err != nil {
			return fmt.Errorf("failed to save account %d: %w", a.Number, err)
		}
		for j, r := range a.History {
			_, err := tx.Exec(ctx, `
				INSERT INTO ledger_entries (id, account_number, position, ts, kind, amount)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, r.ID, a.Number, j, r.Timestamp, r.Kind, r.Amount.String())
			if err != nil {
				return fmt.Errorf("failed to save ledger entry for account %d: %w", a.Number, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. An empty bank_state table maps to
// ErrUnavailable; rows that cannot be converted map to ErrCorrupt.
func (s *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	snap.Meta = Meta{Storage: "postgres_snapshot", Version: SchemaVersion}

	err := s.db.QueryRow(ctx, `
		SELECT next_account_number, written_at FROM bank_state WHERE id = 1
	`).Scan(&snap.NextAccountNumber, &snap.Meta.WrittenAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, fmt.Errorf("%w: no snapshot stored", ErrUnavailable)
		}
		return Snapshot{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	links, err := s.loadAccountLinks(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, birth_date, address FROM customers ORDER BY position
	`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load customers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c CustomerRecord
		if err := rows.Scan(&c.ID, &c.Name, &c.BirthDate, &c.Address); err != nil {
			return Snapshot{}, fmt.Errorf("%w: customer row: %v", ErrCorrupt, err)
		}
		c.AccountNumbers = links[c.ID]
		snap.Customers = append(snap.Customers, c)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load customers: %w", err)
	}

	history, err := s.loadLedgerEntries(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	rows, err = s.db.Query(ctx, `
		SELECT number, owner_id, balance FROM accounts ORDER BY position
	`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a AccountRecord
		var balance string
		if err := rows.Scan(&a.Number, &a.OwnerID, &balance); err != nil {
			return Snapshot{}, fmt.Errorf("%w: account row: %v", ErrCorrupt, err)
		}
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return Snapshot{}, fmt.Errorf("%w: account %d balance: %v", ErrCorrupt, a.Number, err)
		}
		a.History = history[a.Number]
		snap.Accounts = append(snap.Accounts, a)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	return snap, nil
}

func (s *PostgresStore) loadAccountLinks(ctx context.Context) (map[string][]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT customer_id, account_number FROM customer_accounts ORDER BY customer_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load account links: %w", err)
	}
	defer rows.Close()

	links := make(map[string][]int)
	for rows.Next() {
		var customerID string
		var number int
		if err := rows.Scan(&customerID, &number); err != nil {
			return nil, fmt.Errorf("%w: account link row: %v", ErrCorrupt, err)
		}
		links[customerID] = append(links[customerID], number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load account links: %w", err)
	}
	return links, nil
}

func (s *PostgresStore) loadLedgerEntries(ctx context.Context) (map[int][]LedgerRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, account_number, ts, kind, amount FROM ledger_entries ORDER BY account_number, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	defer rows.Close()

	history := make(map[int][]LedgerRecord)
	for rows.Next() {
		var r LedgerRecord
		var number int
		var amount string
		if err := rows.Scan(&r.ID, &number, &r.Timestamp, &r.Kind, &amount); err != nil {
			return nil, fmt.Errorf("%w: ledger entry row: %v", ErrCorrupt, err)
		}
		var convErr error
		if r.Amount, convErr = decimal.NewFromString(amount); convErr != nil {
			return nil, fmt.Errorf("%w: ledger entry amount: %v", ErrCorrupt, convErr)
		}
		history[number] = append(history[number], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	return history, nil
}
