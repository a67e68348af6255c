package menu

import (
	"context"
	"database/sql"

	"storefront/internal/domain"
	"storefront/internal/infrastructure/mysql"
)

type Service interface {
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	Seed(ctx context.Context, items []domain.MenuItem) error
}

type Repository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	FindByID(ctx context.Context, id string) (*domain.MenuItem, error)
	Upsert(ctx context.Context, ex mysql.Executor, items []domain.MenuItem) error
}

type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error)
}
