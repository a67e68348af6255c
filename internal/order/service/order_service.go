package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, ex mysql.Executor, order domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, ex mysql.Executor, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, ex mysql.Executor, id string, status domain.OrderStatus, updatedAt time.Time) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, ex mysql.Executor, orderID string, item domain.OrderItem) (uint, error)
	FindByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error)
}

type OrderService struct {
	db            TransactionManager
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	logger        *zap.Logger
	txTimeout     time.Duration
	now           func() time.Time
}

func NewOrderService(
	db TransactionManager,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *OrderService {
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		logger:        logger,
		txTimeout:     txTimeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create stores the order header and its lines in one transaction.
func (s *OrderService) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	err := s.inTx(ctx, func(txCtx context.Context, tx mysql.Tx) error {
		if err := s.orderRepo.Insert(txCtx, tx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if _, err := s.orderItemRepo.Insert(txCtx, tx, order.ID, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create order", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderId", order.ID),
		zap.Int("itemCount", len(order.Items)),
		zap.String("totalAmount", order.TotalAmount.StringFixed(2)),
	)
	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := s.orderItemRepo.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// Advance moves the order one step along the canonical progression. A
// delivered order cannot advance.
func (s *OrderService) Advance(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, func(current domain.OrderStatus) (domain.OrderStatus, error) {
		next, ok := current.Next()
		if !ok {
			return "", apperrors.NewConflictError(fmt.Sprintf("order %s is already delivered", id))
		}
		return next, nil
	})
}

// SetStatus overwrites the order status with any canonical status.
func (s *OrderService) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return s.transition(ctx, id, func(domain.OrderStatus) (domain.OrderStatus, error) {
		return status, nil
	})
}

func (s *OrderService) transition(ctx context.Context, id string, decide func(domain.OrderStatus) (domain.OrderStatus, error)) (*domain.Order, error) {
	var order *domain.Order
	err := s.inTx(ctx, func(txCtx context.Context, tx mysql.Tx) error {
		locked, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}

		next, err := decide(locked.Status)
		if err != nil {
			return err
		}

		updatedAt := s.now()
		if err := s.orderRepo.UpdateStatus(txCtx, tx, id, next, updatedAt); err != nil {
			return err
		}

		s.logger.Info("order status changed",
			zap.String("orderId", id),
			zap.String("from", string(locked.Status)),
			zap.String("to", string(next)),
		)
		locked.Status = next
		locked.UpdatedAt = updatedAt
		order = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// inTx runs fn inside a REPEATABLE READ transaction bounded by txTimeout. The
// transaction is committed only when fn succeeds.
func (s *OrderService) inTx(ctx context.Context, fn func(context.Context, mysql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	if err := fn(txCtx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Error(err))
		return err
	}
	return nil
}

func (s *OrderService) attachItems(ctx context.Context, order *domain.Order) error {
	items, err := s.orderItemRepo.FindByOrderIDs(ctx, []string{order.ID})
	if err != nil {
		return err
	}
	order.Items = items[order.ID]
	return nil
}
