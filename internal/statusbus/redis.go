package statusbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

// RedisBus shares status updates between server instances through Redis
// pub/sub, one channel per order.
type RedisBus struct {
	client *goredis.Client
	buffer int
	logger *zap.Logger
}

func NewRedisBus(client *goredis.Client, buffer int, logger *zap.Logger) *RedisBus {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &RedisBus{
		client: client,
		buffer: buffer,
		logger: logger,
	}
}

func (b *RedisBus) Publish(ctx context.Context, update domain.StatusUpdate) error {
	payload, err := json.Marshal(dto.FromStatusUpdate(update))
	if err != nil {
		return fmt.Errorf("encoding status update: %w", err)
	}

	if err := b.client.Publish(ctx, channelName(update.OrderID), payload).Err(); err != nil {
		return fmt.Errorf("publishing status update: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so nothing
// published afterwards is missed.
func (b *RedisBus) Subscribe(ctx context.Context, orderID string) (<-chan domain.StatusUpdate, func(), error) {
	pubsub := b.client.Subscribe(ctx, channelName(orderID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribing to %s: %w", channelName(orderID), err)
	}

	out := make(chan domain.StatusUpdate, b.buffer)
	done := make(chan struct{})
	in := pubsub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				var ev dto.StatusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("malformed status event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- ev.ToDomain():
				default:
					b.logger.Warn("status update dropped for slow subscriber", zap.String("orderId", orderID))
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				b.logger.Debug("closing pubsub", zap.Error(err))
			}
		})
	}
	return out, cancel, nil
}
