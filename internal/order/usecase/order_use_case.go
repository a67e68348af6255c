package usecase

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type OrderService interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Advance(ctx context.Context, id string) (*domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type StatusPublisher interface {
	Publish(ctx context.Context, update domain.StatusUpdate) error
}

type OrderUseCase struct {
	service          OrderService
	publisher        StatusPublisher
	logger           *zap.Logger
	maxRetryAttempts int
	newID            func() string
	now              func() time.Time
	sleep            func(ctx context.Context, d time.Duration) error
}

func NewOrderUseCase(
	service OrderService,
	publisher StatusPublisher,
	logger *zap.Logger,
	maxRetryAttempts int,
) *OrderUseCase {
	return &OrderUseCase{
		service:          service,
		publisher:        publisher,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		newID:            NewOrderID,
		now:              func() time.Time { return time.Now().UTC() },
		sleep:            sleepCtx,
	}
}

// NewOrderID returns the first eight characters of a random UUID.
func NewOrderID() string {
	return uuid.New().String()[:8]
}

// CreateOrder places an order from an already validated request. Line prices
// are rounded to cents, as stored, and the total is recomputed from them.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = it.ToDomain()
		items[i].Price = items[i].Price.Round(domain.MoneyPlaces)
	}

	now := uc.now()
	order := domain.Order{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		Items:           items,
		TotalAmount:     domain.ComputeTotal(items),
		Status:          domain.OrderStatusReceived,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	uc.logger.Info("create order started", zap.Int("itemCount", len(items)), zap.String("totalAmount", order.TotalAmount.StringFixed(2)))

	var created *domain.Order
	err := uc.withRetry(ctx, "create order", func() error {
		order.ID = uc.newID()
		var err error
		created, err = uc.service.Create(ctx, order)
		if mysql.IsDuplicateKey(err) {
			uc.logger.Warn("order id collision, regenerating", zap.String("orderId", order.ID))
		}
		return err
	}, func(err error) bool {
		return mysql.IsDeadlock(err) || mysql.IsDuplicateKey(err)
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, *created)
	return created, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.service.Get(ctx, id)
}

func (uc *OrderUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return uc.service.List(ctx)
}

// UpdateStatus sets an explicit status. Unknown statuses are rejected before
// any transaction is opened.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of: " + joinStatuses(),
		})
	}

	var order *domain.Order
	err := uc.withRetry(ctx, "update status", func() error {
		var err error
		order, err = uc.service.SetStatus(ctx, id, status)
		return err
	}, mysql.IsDeadlock)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, *order)
	return order, nil
}

// SimulateProgress advances the order one step.
func (uc *OrderUseCase) SimulateProgress(ctx context.Context, id string) (*domain.Order, error) {
	var order *domain.Order
	err := uc.withRetry(ctx, "simulate progress", func() error {
		var err error
		order, err = uc.service.Advance(ctx, id)
		return err
	}, mysql.IsDeadlock)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, *order)
	return order, nil
}

// publish only logs failures; the status change is already committed.
func (uc *OrderUseCase) publish(ctx context.Context, order domain.Order) {
	update := domain.StatusUpdate{OrderID: order.ID, Status: order.Status}
	if err := uc.publisher.Publish(ctx, update); err != nil {
		uc.logger.Error("failed to publish status update",
			zap.String("orderId", order.ID),
			zap.String("status", string(order.Status)),
			zap.Error(err),
		)
	}
}

func (uc *OrderUseCase) withRetry(ctx context.Context, op string, fn func() error, retryable func(error) bool) error {
	maxAttempts := uc.maxRetryAttempts
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), etc.
	backoff := 100 * time.Millisecond

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !retryable(err) {
			return err
		}

		if attempt == maxAttempts {
			break
		}

		// ±20% jitter around the base delay.
		base := backoff * time.Duration(attempt-1)
		delay := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
		uc.logger.Warn("transient database error, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", maxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := uc.sleep(ctx, delay); err != nil {
			return err
		}
	}

	return apperrors.NewDeadlockError(op + ": max retries exceeded")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func joinStatuses() string {
	names := make([]string, len(domain.CanonicalStatuses))
	for i, s := range domain.CanonicalStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
