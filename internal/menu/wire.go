package menu

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/infrastructure/mysql"
	"storefront/internal/menu/repository"
)

type Module struct {
	Service    Service
	Controller *Controller
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := NewService(repo, mysql.TxManager{DB: db}, logger)
	return &Module{
		Service:    svc,
		Controller: NewController(svc, logger),
	}
}
