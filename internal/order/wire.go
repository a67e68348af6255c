package order

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/order/controller"
	orderrepo "storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/usecase"
	"storefront/internal/statusbus"
)

type Module struct {
	Orders *controller.OrderController
	Stream *controller.StatusStreamController
}

func NewModule(db *sql.DB, bus statusbus.Bus, cfg *config.Config, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)

	orderSvc := service.NewOrderService(
		mysql.TxManager{DB: db},
		orderRepo,
		orderItemRepo,
		logger,
		cfg.Order.TxTimeout,
	)

	uc := usecase.NewOrderUseCase(
		orderSvc,
		bus,
		logger,
		cfg.Order.MaxRetryAttempts,
	)

	orders := controller.NewOrderController(uc, logger)
	return &Module{
		Orders: orders,
		Stream: controller.NewStatusStreamController(orders, bus, cfg.Server.StreamHeartbeat, logger),
	}
}
