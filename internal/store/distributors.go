package store

import "context"

// Distributor is a reseller the agency settles with.
type Distributor struct {
	DistributorID   string `json:"distributorId"`
	DistributorName string `json:"distributorName"`
}

// CreateDistributor inserts a distributor master record.
func (s *Store) CreateDistributor(ctx context.Context, d Distributor) (Distributor, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO distributors (distributor_id, distributor_name)
		VALUES ($1, $2)
		RETURNING distributor_id, distributor_name`,
		d.DistributorID, d.DistributorName,
	).Scan(&d.DistributorID, &d.DistributorName)
	if err != nil {
		return Distributor{}, err
	}
	return d, nil
}

// GetDistributor fetches a distributor by business key. Returns
// pgx.ErrNoRows when absent.
func (s *Store) GetDistributor(ctx context.Context, distributorID string) (Distributor, error) {
	var d Distributor
	err := s.db.QueryRow(ctx, `
		SELECT distributor_id, distributor_name
		FROM distributors
		WHERE distributor_id = $1`,
		distributorID,
	).Scan(&d.DistributorID, &d.DistributorName)
	if err != nil {
		return Distributor{}, err
	}
	return d, nil
}

// ListDistributors returns all distributor master records.
func (s *Store) ListDistributors(ctx context.Context) ([]Distributor, error) {
	rows, err := s.db.Query(ctx, `
		SELECT distributor_id, distributor_name
		FROM distributors
		ORDER BY distributor_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var distributors []Distributor
	for rows.Next() {
		var d Distributor
		if err := rows.Scan(&d.DistributorID, &d.DistributorName); err != nil {
			return nil, err
		}
		distributors = append(distributors, d)
	}
	return distributors, rows.Err()
}
