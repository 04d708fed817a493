package store

import (
	"context"
	"fmt"

	"github.com/wakala-ledger/api/internal/ledger"
)

// CreateCustomerParams holds the fields for a new customer record.
type CreateCustomerParams struct {
	CustomerID   string
	CustomerName string
}

// CreateCustomer inserts a new customer. A duplicate customerId surfaces as
// a pgconn.PgError with code 23505.
func (s *Store) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (ledger.Customer, error) {
	var c ledger.Customer
	err := s.db.QueryRow(ctx, `
		INSERT INTO customers (customer_id, customer_name)
		VALUES ($1, $2)
		RETURNING customer_id, customer_name`,
		arg.CustomerID, arg.CustomerName,
	).Scan(&c.CustomerID, &c.CustomerName)
	if err != nil {
		return ledger.Customer{}, err
	}
	return c, nil
}

// GetCustomer fetches a customer by business key, without operations.
// Returns pgx.ErrNoRows when absent.
func (s *Store) GetCustomer(ctx context.Context, customerID string) (ledger.Customer, error) {
	var c ledger.Customer
	err := s.db.QueryRow(ctx, `
		SELECT customer_id, customer_name
		FROM customers
		WHERE customer_id = $1`,
		customerID,
	).Scan(&c.CustomerID, &c.CustomerName)
	if err != nil {
		return ledger.Customer{}, err
	}
	return c, nil
}

// GetCustomerForUpdate locks the customer row for the rest of the enclosing
// transaction. Append and recompute for the same customer both take this
// lock first, which serializes their read-modify-write cycles.
func (s *Store) GetCustomerForUpdate(ctx context.Context, customerID string) (ledger.Customer, error) {
	var c ledger.Customer
	err := s.db.QueryRow(ctx, `
		SELECT customer_id, customer_name
		FROM customers
		WHERE customer_id = $1
		FOR UPDATE`,
		customerID,
	).Scan(&c.CustomerID, &c.CustomerName)
	if err != nil {
		return ledger.Customer{}, err
	}
	return c, nil
}

// ListCustomers returns every customer with its full operation sequence in
// insertion order. The search engine and the customer list endpoint both
// feed from this.
func (s *Store) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT customer_id, customer_name
		FROM customers
		ORDER BY customer_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []ledger.Customer
	index := make(map[string]int)
	for rows.Next() {
		var c ledger.Customer
		if err := rows.Scan(&c.CustomerID, &c.CustomerName); err != nil {
			return nil, err
		}
		index[c.CustomerID] = len(customers)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	opRows, err := s.db.Query(ctx, `
		SELECT `+operationColumns+`
		FROM operations
		ORDER BY customer_id, seq`)
	if err != nil {
		return nil, err
	}
	defer opRows.Close()

	for opRows.Next() {
		op, err := scanOperation(opRows)
		if err != nil {
			return nil, err
		}
		i, ok := index[op.CustomerID]
		if !ok {
			return nil, fmt.Errorf("operation %s references unknown customer %s", op.ID, op.CustomerID)
		}
		customers[i].Operations = append(customers[i].Operations, op)
	}
	if err := opRows.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}
