// Package store is the hand-written pgx data access layer. Every query
// method hangs off Store, which wraps a DBTX so the same methods run
// against the pool or inside a transaction.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store executes ledger queries against a DBTX.
type Store struct {
	db DBTX
}

// New creates a Store bound to the given pool or transaction.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// WithTx returns a Store bound to the given transaction.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{db: tx}
}

// --- numeric conversion helpers ---

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	v, err := n.Value()
	if err != nil {
		return decimal.Zero, fmt.Errorf("numeric value: %w", err)
	}
	if v == nil {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v.(string))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse numeric %q: %w", v, err)
	}
	return d, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.String())
	return n
}
