package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type StatusSubscriber interface {
	Subscribe(ctx context.Context, orderID string) (<-chan domain.StatusUpdate, func(), error)
}

// StatusStreamController serves an order's status changes as Server-Sent
// Events.
type StatusStreamController struct {
	orders     *OrderController
	subscriber StatusSubscriber
	heartbeat  time.Duration
	logger     *zap.Logger
	done       chan struct{}
	closeOnce  sync.Once
}

const defaultHeartbeat = 15 * time.Second

func NewStatusStreamController(orders *OrderController, subscriber StatusSubscriber, heartbeat time.Duration, logger *zap.Logger) *StatusStreamController {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &StatusStreamController{
		orders:     orders,
		subscriber: subscriber,
		heartbeat:  heartbeat,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Close ends every open stream. Register it as a server shutdown hook.
func (c *StatusStreamController) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// StatusStream writes the current status first, then every published change
// until the client disconnects. Consecutive duplicates are not repeated.
func (c *StatusStreamController) StatusStream(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	orderID := chi.URLParam(r, "orderId")
	logger := c.logger.With(zap.String("traceId", traceID), zap.String("orderId", orderID))
	ctx := r.Context()

	// Subscribe before reading the order so no change falls between the two.
	updates, cancel, err := c.subscriber.Subscribe(ctx, orderID)
	if err != nil {
		c.orders.handleUseCaseError(w, traceID, err, logger)
		return
	}
	defer cancel()

	order, err := c.orders.useCase.GetOrder(ctx, orderID)
	if err != nil {
		c.orders.handleUseCaseError(w, traceID, err, logger)
		return
	}

	rc := http.NewResponseController(w)
	// The server's WriteTimeout would otherwise cut long-lived streams.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logger.Debug("clearing write deadline", zap.Error(err))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	logger.Info("status stream opened", zap.String("status", string(order.Status)))
	defer logger.Info("status stream closed")

	last := order.Status
	if err := writeEvent(w, rc, domain.StatusUpdate{OrderID: orderID, Status: last}); err != nil {
		logger.Debug("writing initial event", zap.Error(err))
		return
	}

	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			if err := writeComment(w, rc, "keepalive"); err != nil {
				logger.Debug("writing keepalive", zap.Error(err))
				return
			}
		case u, ok := <-updates:
			if !ok {
				return
			}
			if u.Status == last {
				continue
			}
			last = u.Status
			if u.OrderID == "" {
				u.OrderID = orderID
			}
			if err := writeEvent(w, rc, u); err != nil {
				logger.Debug("writing status event", zap.Error(err))
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, u domain.StatusUpdate) error {
	payload, err := json.Marshal(dto.FromStatusUpdate(u))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return rc.Flush()
}

func writeComment(w http.ResponseWriter, rc *http.ResponseController, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return rc.Flush()
}
