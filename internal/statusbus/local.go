package statusbus

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

// LocalBus delivers updates to subscribers in the same process.
type LocalBus struct {
	mu     sync.Mutex
	subs   map[string]map[*localSub]struct{}
	buffer int
	logger *zap.Logger
}

type localSub struct {
	ch   chan domain.StatusUpdate
	once sync.Once
}

func NewLocalBus(buffer int, logger *zap.Logger) *LocalBus {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &LocalBus{
		subs:   make(map[string]map[*localSub]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

func (b *LocalBus) Publish(ctx context.Context, update domain.StatusUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs[update.OrderID] {
		select {
		case sub.ch <- update:
		default:
			b.logger.Warn("status update dropped for slow subscriber",
				zap.String("orderId", update.OrderID),
				zap.String("status", string(update.Status)),
			)
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, orderID string) (<-chan domain.StatusUpdate, func(), error) {
	sub := &localSub{ch: make(chan domain.StatusUpdate, b.buffer)}

	b.mu.Lock()
	if b.subs[orderID] == nil {
		b.subs[orderID] = make(map[*localSub]struct{})
	}
	b.subs[orderID][sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[orderID], sub)
			if len(b.subs[orderID]) == 0 {
				delete(b.subs, orderID)
			}
			close(sub.ch)
		})
	}
	return sub.ch, cancel, nil
}

// Subscribers reports how many subscriptions are open for orderID.
func (b *LocalBus) Subscribers(orderID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[orderID])
}
