package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/statemint-dev/statemint/internal/model"
)

// Postgres implements Store against PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE transactions (
//	    owner        TEXT        NOT NULL,
//	    fingerprint  TEXT        NOT NULL,
//	    date         DATE        NOT NULL,
//	    amount       NUMERIC     NOT NULL,
//	    currency     TEXT        NOT NULL,
//	    direction    TEXT        NOT NULL,
//	    description  TEXT        NOT NULL,
//	    merchant     TEXT        NOT NULL DEFAULT '',
//	    category     TEXT        NOT NULL DEFAULT '',
//	    subcategory  TEXT        NOT NULL DEFAULT '',
//	    confidence   DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    reference    TEXT        NOT NULL DEFAULT '',
//	    source       TEXT        NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (owner, fingerprint)
//	);
type Postgres struct{ db *sql.DB }

// NewPostgres creates a Postgres-backed store.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Open connects to PostgreSQL with the lib/pq driver and pings it.
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return NewPostgres(db), nil
}

// InsertBatch implements Store. The batch runs inside one transaction so it
// lands or fails as a unit. Conflicting (owner, fingerprint) pairs are left
// untouched; the deduplicator normally prevents them, this is the backstop.
func (p *Postgres) InsertBatch(ctx context.Context, owner string, txs []model.Transaction) error {
	if owner == "" {
		return ErrEmptyOwner
	}
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert batch: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (
			owner, fingerprint, date, amount, currency, direction,
			description, merchant, category, subcategory, confidence,
			reference, source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (owner, fingerprint) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		_, err := stmt.ExecContext(ctx,
			owner, tx.Fingerprint, tx.Date, tx.Amount.String(), tx.Currency,
			string(tx.Direction), tx.Description, tx.Merchant, tx.Category,
			tx.Subcategory, tx.Confidence, tx.Reference, string(tx.Source),
		)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", tx.Fingerprint, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit insert batch: %w", err)
	}
	return nil
}

// Fingerprints implements Store.
func (p *Postgres) Fingerprints(ctx context.Context, owner string, sources []model.SourceKind) ([]string, error) {
	if owner == "" {
		return nil, ErrEmptyOwner
	}

	query := `SELECT fingerprint FROM transactions WHERE owner = $1`
	args := []any{owner}
	if len(sources) > 0 {
		tags := make([]string, len(sources))
		for i, s := range sources {
			tags[i] = string(s)
		}
		query += ` AND source = ANY($2)`
		args = append(args, pq.Array(tags))
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out = append(out, fp)
	}
	return out, rows.Err()
}
