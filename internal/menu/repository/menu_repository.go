package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	query := `
		SELECT id, name, description, price, imageUrl, position
		FROM MenuItems
		ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		var it domain.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ImageURL, &it.Position); err != nil {
			return nil, fmt.Errorf("scanning menu item row: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	query := `
		SELECT id, name, description, price, imageUrl, position
		FROM MenuItems
		WHERE id = ?`

	var it domain.MenuItem
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ImageURL, &it.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("menu item %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying menu item by id: %w", err)
	}

	return &it, nil
}

// Upsert inserts items or overwrites the rows that share their id.
func (r *MySQLRepository) Upsert(ctx context.Context, ex mysql.Executor, items []domain.MenuItem) error {
	query := `
		INSERT INTO MenuItems (id, name, description, price, imageUrl, position)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			description = VALUES(description),
			price = VALUES(price),
			imageUrl = VALUES(imageUrl),
			position = VALUES(position)`

	for _, it := range items {
		if _, err := ex.ExecContext(ctx, query, it.ID, it.Name, it.Description, it.Price, it.ImageURL, it.Position); err != nil {
			return fmt.Errorf("upserting menu item %s: %w", it.ID, err)
		}
	}
	return nil
}
