package store

import (
	"context"

	"github.com/google/uuid"
)

// Item is a produce type from the control page; it feeds the category
// picker on the operations form.
type Item struct {
	ID       uuid.UUID `json:"id"`
	ItemName string    `json:"itemName"`
}

// CreateItem inserts an item master record.
func (s *Store) CreateItem(ctx context.Context, itemName string) (Item, error) {
	item := Item{ID: uuid.New(), ItemName: itemName}
	err := s.db.QueryRow(ctx, `
		INSERT INTO items (id, item_name)
		VALUES ($1, $2)
		RETURNING id, item_name`,
		item.ID, item.ItemName,
	).Scan(&item.ID, &item.ItemName)
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// ListItems returns all item master records.
func (s *Store) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, item_name
		FROM items
		ORDER BY item_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ItemName); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
