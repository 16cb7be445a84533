package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/negocio-suite/ledger-reconciliation/internal/interfaces"
	"github.com/negocio-suite/ledger-reconciliation/internal/models"
)

// PostgresStore implements interfaces.LedgerStore and interfaces.EntryStore
// on top of database/sql. Balance changes go through a single
// UPDATE ... SET balance = balance + $1, so concurrent deltas are applied
// without lost updates.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS ledgers (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL,
	owner_ref  TEXT NOT NULL DEFAULT '',
	balance    NUMERIC(20,4) NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	id         TEXT PRIMARY KEY,
	ledger_id  TEXT NOT NULL REFERENCES ledgers(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	category   TEXT NOT NULL,
	direction  TEXT NOT NULL,
	amount     NUMERIC(20,4) NOT NULL,
	status     TEXT NOT NULL,
	date       TIMESTAMPTZ NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_ledger_id ON entries(ledger_id);
`

// EnsureSchema creates the tables when they do not exist yet.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *PostgresStore) CreateLedger(ctx context.Context, ledger models.Ledger) error {
	const query = `INSERT INTO ledgers (id, kind, name, owner_ref, balance, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.db.ExecContext(ctx, query,
		ledger.ID, string(ledger.Kind), ledger.Name, ledger.OwnerRef,
		ledger.Balance, ledger.CreatedAt, ledger.UpdatedAt)
	return err
}

func (p *PostgresStore) GetLedger(ctx context.Context, id string) (models.Ledger, error) {
	const query = `SELECT id, kind, name, owner_ref, balance, created_at, updated_at
	FROM ledgers WHERE id = $1`

	var ledger models.Ledger
	var kind string
	err := p.db.QueryRowContext(ctx, query, id).Scan(
		&ledger.ID, &kind, &ledger.Name, &ledger.OwnerRef,
		&ledger.Balance, &ledger.CreatedAt, &ledger.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ledger{}, models.ErrLedgerNotFound
	}
	if err != nil {
		return models.Ledger{}, err
	}
	ledger.Kind = models.LedgerKind(kind)
	return ledger, nil
}

// AddDelta is a single atomic increment: the database computes the new
// balance, never the application.
func (p *PostgresStore) AddDelta(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	const query = `UPDATE ledgers SET balance = balance + $1, updated_at = $2
	WHERE id = $3 RETURNING balance`

	var balance decimal.Decimal
	err := p.db.QueryRowContext(ctx, query, delta, time.Now().UTC(), id).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, models.ErrLedgerNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (p *PostgresStore) DeleteLedger(ctx context.Context, id string) error {
	const query = `DELETE FROM ledgers WHERE id = $1`

	res, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrLedgerNotFound
	}
	return nil
}

func (p *PostgresStore) CreateEntry(ctx context.Context, entry models.Entry) error {
	const query = `INSERT INTO entries (id, ledger_id, title, category, direction, amount, status, date, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := p.db.ExecContext(ctx, query,
		entry.ID, entry.LedgerID, entry.Title, entry.Category, string(entry.Direction),
		entry.Amount, string(entry.Status), entry.Date, entry.Notes,
		entry.CreatedAt, entry.UpdatedAt)
	return err
}

func (p *PostgresStore) GetEntry(ctx context.Context, id string) (models.Entry, error) {
	const query = `SELECT id, ledger_id, title, category, direction, amount, status, date, notes, created_at, updated_at
	FROM entries WHERE id = $1`

	entry, err := scanEntry(p.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, models.ErrEntryNotFound
	}
	return entry, err
}

func (p *PostgresStore) UpdateEntry(ctx context.Context, entry models.Entry) error {
	const query = `UPDATE entries SET title = $1, category = $2, direction = $3, amount = $4,
	status = $5, date = $6, notes = $7, updated_at = $8 WHERE id = $9`

	res, err := p.db.ExecContext(ctx, query,
		entry.Title, entry.Category, string(entry.Direction), entry.Amount,
		string(entry.Status), entry.Date, entry.Notes, entry.UpdatedAt, entry.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

func (p *PostgresStore) DeleteEntry(ctx context.Context, id string) error {
	const query = `DELETE FROM entries WHERE id = $1`

	res, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrEntryNotFound
	}
	return nil
}

func (p *PostgresStore) ListByLedger(ctx context.Context, ledgerID string) ([]models.Entry, error) {
	const query = `SELECT id, ledger_id, title, category, direction, amount, status, date, notes, created_at, updated_at
	FROM entries WHERE ledger_id = $1 ORDER BY date`

	rows, err := p.db.QueryContext(ctx, query, ledgerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var entry models.Entry
	var direction, status string
	err := row.Scan(
		&entry.ID, &entry.LedgerID, &entry.Title, &entry.Category, &direction,
		&entry.Amount, &status, &entry.Date, &entry.Notes,
		&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return models.Entry{}, err
	}
	entry.Direction = models.Direction(direction)
	entry.Status = models.Status(status)
	return entry, nil
}

// Compile-time checks: PostgresStore implements both store interfaces.
var (
	_ interfaces.LedgerStore = (*PostgresStore)(nil)
	_ interfaces.EntryStore  = (*PostgresStore)(nil)
)
