package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/wakala-ledger/api/internal/ledger"
)

const operationColumns = `id, history, customer_id, distributor_id, category,
	price, num_boxes, box_type, weight, num_units, item_type`

func scanOperation(row pgx.Row) (ledger.Operation, error) {
	var op ledger.Operation
	var price, weight pgtype.Numeric
	err := row.Scan(
		&op.ID, &op.Date, &op.CustomerID, &op.DistributorID, &op.Category,
		&price, &op.NumBoxes, &op.BoxType, &weight, &op.NumUnits, &op.ItemType,
	)
	if err != nil {
		return ledger.Operation{}, err
	}
	if op.Price, err = numericToDecimal(price); err != nil {
		return ledger.Operation{}, err
	}
	if op.Weight, err = numericToDecimal(weight); err != nil {
		return ledger.Operation{}, err
	}
	return op, nil
}

func (s *Store) collectOperations(ctx context.Context, sql string, args ...any) ([]ledger.Operation, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []ledger.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// AppendOperation inserts an operation at the end of the customer's
// sequence. The row is immutable once written.
func (s *Store) AppendOperation(ctx context.Context, customerID string, op ledger.Operation) (ledger.Operation, error) {
	op.ID = uuid.New()
	op.CustomerID = customerID
	err := s.db.QueryRow(ctx, `
		INSERT INTO operations (
			id, history, customer_id, distributor_id, category,
			price, num_boxes, box_type, weight, num_units, item_type
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		op.ID, op.Date, op.CustomerID, op.DistributorID, op.Category,
		decimalToNumeric(op.Price), op.NumBoxes, op.BoxType,
		decimalToNumeric(op.Weight), op.NumUnits, op.ItemType,
	).Scan(&op.ID)
	if err != nil {
		return ledger.Operation{}, err
	}
	return op, nil
}

// ListOperations returns a customer's operations in insertion order.
func (s *Store) ListOperations(ctx context.Context, customerID string) ([]ledger.Operation, error) {
	return s.collectOperations(ctx, `
		SELECT `+operationColumns+`
		FROM operations
		WHERE customer_id = $1
		ORDER BY seq`,
		customerID)
}

// ListOperationsByDate returns the customer's operations whose history token
// equals date exactly, in insertion order.
func (s *Store) ListOperationsByDate(ctx context.Context, customerID, date string) ([]ledger.Operation, error) {
	return s.collectOperations(ctx, `
		SELECT `+operationColumns+`
		FROM operations
		WHERE customer_id = $1 AND history = $2
		ORDER BY seq`,
		customerID, date)
}

// ListDistributorOperations returns every operation recorded for the
// distributor on the given day, across all customers.
func (s *Store) ListDistributorOperations(ctx context.Context, distributorID, date string) ([]ledger.Operation, error) {
	return s.collectOperations(ctx, `
		SELECT `+operationColumns+`
		FROM operations
		WHERE distributor_id = $1 AND history = $2
		ORDER BY seq`,
		distributorID, date)
}
