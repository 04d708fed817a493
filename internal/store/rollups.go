package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/wakala-ledger/api/internal/ledger"
)

// UpsertRollup writes the rollup for the customer and date, replacing the
// fields in place when one already exists. At most one rollup per date per
// customer.
func (s *Store) UpsertRollup(ctx context.Context, customerID string, r ledger.Rollup) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO rollups (customer_id, date, total_box_count, total_weight, total_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id, date) DO UPDATE SET
			total_box_count = EXCLUDED.total_box_count,
			total_weight = EXCLUDED.total_weight,
			total_price = EXCLUDED.total_price`,
		customerID, r.Date, r.TotalBoxCount,
		decimalToNumeric(r.TotalWeight), decimalToNumeric(r.TotalPrice),
	)
	return err
}

// GetRollup fetches the rollup for the customer and date. Returns
// pgx.ErrNoRows when none has been computed; it never computes one lazily.
func (s *Store) GetRollup(ctx context.Context, customerID, date string) (ledger.Rollup, error) {
	var r ledger.Rollup
	var weight, price pgtype.Numeric
	err := s.db.QueryRow(ctx, `
		SELECT date, total_box_count, total_weight, total_price
		FROM rollups
		WHERE customer_id = $1 AND date = $2`,
		customerID, date,
	).Scan(&r.Date, &r.TotalBoxCount, &weight, &price)
	if err != nil {
		return ledger.Rollup{}, err
	}
	if r.TotalWeight, err = numericToDecimal(weight); err != nil {
		return ledger.Rollup{}, err
	}
	if r.TotalPrice, err = numericToDecimal(price); err != nil {
		return ledger.Rollup{}, err
	}
	return r, nil
}

// ListRollups returns every computed rollup for the customer, newest date
// last (dates sort lexicographically).
func (s *Store) ListRollups(ctx context.Context, customerID string) ([]ledger.Rollup, error) {
	rows, err := s.db.Query(ctx, `
		SELECT date, total_box_count, total_weight, total_price
		FROM rollups
		WHERE customer_id = $1
		ORDER BY date`,
		customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rollups []ledger.Rollup
	for rows.Next() {
		var r ledger.Rollup
		var weight, price pgtype.Numeric
		if err := rows.Scan(&r.Date, &r.TotalBoxCount, &weight, &price); err != nil {
			return nil, err
		}
		if r.TotalWeight, err = numericToDecimal(weight); err != nil {
			return nil, err
		}
		if r.TotalPrice, err = numericToDecimal(price); err != nil {
			return nil, err
		}
		rollups = append(rollups, r)
	}
	return rollups, rows.Err()
}
