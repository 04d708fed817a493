package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wakala-ledger/api/internal/enum"
	"github.com/wakala-ledger/api/internal/ledger"
	"github.com/wakala-ledger/api/internal/store"
)

// Errors returned by the ledger service.
var (
	ErrDateRequired   = errors.New("history date is required")
	ErrInvalidBoxType = errors.New("boxType must be small or large")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LedgerStore defines the DB methods the service needs inside a
// transaction. Satisfied by *store.Store.
type LedgerStore interface {
	GetCustomerForUpdate(ctx context.Context, customerID string) (ledger.Customer, error)
	ListOperationsByDate(ctx context.Context, customerID, date string) ([]ledger.Operation, error)
	AppendOperation(ctx context.Context, customerID string, op ledger.Operation) (ledger.Operation, error)
	UpsertRollup(ctx context.Context, customerID string, r ledger.Rollup) error
}

// NewLedgerStore creates a LedgerStore from a DBTX (pool or tx). This lets
// the service run store calls inside transactions it controls.
type NewLedgerStore func(db store.DBTX) LedgerStore

// LedgerService owns the two ledger mutations: appending an operation and
// recomputing a day's rollup. Both run in a transaction that first locks
// the customer row, so append and recompute for the same customer are
// serialized; different customers proceed independently. The service itself
// holds no locks and no state.
type LedgerService struct {
	pool     TxBeginner
	newStore NewLedgerStore
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(pool TxBeginner, newStore NewLedgerStore) *LedgerService {
	return &LedgerService{pool: pool, newStore: newStore}
}

// AppendOperation appends one immutable operation to the customer's
// sequence. Returns ledger.ErrNotFound when the customer does not exist.
func (s *LedgerService) AppendOperation(ctx context.Context, customerID string, op ledger.Operation) (ledger.Operation, error) {
	if op.Date == "" {
		return ledger.Operation{}, ErrDateRequired
	}
	if op.BoxType != enum.BoxTypeSmall && op.BoxType != enum.BoxTypeLarge {
		return ledger.Operation{}, ErrInvalidBoxType
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ledger.Operation{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	st := s.newStore(tx)
	if _, err := st.GetCustomerForUpdate(ctx, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Operation{}, ledger.ErrNotFound
		}
		return ledger.Operation{}, fmt.Errorf("lock customer: %w", err)
	}

	created, err := st.AppendOperation(ctx, customerID, op)
	if err != nil {
		return ledger.Operation{}, fmt.Errorf("append operation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ledger.Operation{}, fmt.Errorf("commit tx: %w", err)
	}
	return created, nil
}

// RecomputeRollup rebuilds the rollup for one customer and date from the
// current operation sequence and upserts it. The ledger is the only source
// of truth here: any totals a caller computed on its side are ignored.
// Calling this again with no intervening append writes an identical rollup.
// Returns ledger.ErrNotFound when the customer does not exist.
func (s *LedgerService) RecomputeRollup(ctx context.Context, customerID, date string) (ledger.Rollup, error) {
	if date == "" {
		return ledger.Rollup{}, ErrDateRequired
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ledger.Rollup{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	st := s.newStore(tx)
	if _, err := st.GetCustomerForUpdate(ctx, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Rollup{}, ledger.ErrNotFound
		}
		return ledger.Rollup{}, fmt.Errorf("lock customer: %w", err)
	}

	ops, err := st.ListOperationsByDate(ctx, customerID, date)
	if err != nil {
		return ledger.Rollup{}, fmt.Errorf("list operations: %w", err)
	}

	rollup := ledger.Accumulate(ops, date)
	if err := st.UpsertRollup(ctx, customerID, rollup); err != nil {
		return ledger.Rollup{}, fmt.Errorf("upsert rollup: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ledger.Rollup{}, fmt.Errorf("commit tx: %w", err)
	}
	return rollup, nil
}
