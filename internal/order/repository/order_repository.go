package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, customerName, customerAddress, customerPhone,
		       status, totalAmount, createdAt, updatedAt`

// Insert writes the order header. Items are stored separately.
func (r *MySQLOrderRepository) Insert(ctx context.Context, ex mysql.Executor, order domain.Order) error {
	query := `
		INSERT INTO Orders (id, customerName, customerAddress, customerPhone,
		                    status, totalAmount, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := ex.ExecContext(ctx, query,
		order.ID, order.CustomerName, order.CustomerAddress, order.CustomerPhone,
		string(order.Status), order.TotalAmount, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM Orders
		WHERE id = ?`

	return r.findOne(ctx, r.db, query, id)
}

// FindByIDForUpdate locks the order row until ex commits or rolls back.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, ex mysql.Executor, id string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM Orders
		WHERE id = ?
		FOR UPDATE`

	return r.findOne(ctx, ex, query, id)
}

func (r *MySQLOrderRepository) findOne(ctx context.Context, ex mysql.Executor, query, id string) (*domain.Order, error) {
	order, err := scanOrder(ex.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}
	return order, nil
}

// List returns every order header, newest first.
func (r *MySQLOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM Orders
		ORDER BY createdAt DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, ex mysql.Executor, id string, status domain.OrderStatus, updatedAt time.Time) error {
	query := `UPDATE Orders SET status = ?, updatedAt = ? WHERE id = ?`

	result, err := ex.ExecContext(ctx, query, string(status), updatedAt, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	err := row.Scan(
		&order.ID, &order.CustomerName, &order.CustomerAddress, &order.CustomerPhone,
		&status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()
	return &order, nil
}
