package repository

import (
	"context"
	"fmt"

	"github.com/fjod/go_till/internal/domain"
)

// LoadCatalog returns the items in the order they were saved
func (r *Repository) LoadCatalog(ctx context.Context) ([]domain.Item, error) {
	query := `
		SELECT item_key, name, price, stock
		FROM items
		ORDER BY sort_order
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.Key, &item.Name, &item.Price, &item.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// SaveCatalog replaces the stored catalog with items in one transaction.
func (r *Repository) SaveCatalog(ctx context.Context, items []domain.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (item_key, name, price, stock, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.ExecContext(ctx, item.Key, item.Name, item.Price.String(), item.Stock, i); err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}
