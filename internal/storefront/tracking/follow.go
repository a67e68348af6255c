package tracking

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/gateway"
)

// Source is what the tracking screen needs from the API.
type Source interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	SimulateProgress(ctx context.Context, orderID string) (*domain.Order, error)
	Subscribe(ctx context.Context, orderID string) (Subscription, error)
}

// GatewaySource adapts the HTTP gateway client to Source.
type GatewaySource struct {
	Client *gateway.Client
}

func (s GatewaySource) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.Client.GetOrder(ctx, orderID)
}

func (s GatewaySource) SimulateProgress(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.Client.SimulateProgress(ctx, orderID)
}

func (s GatewaySource) Subscribe(ctx context.Context, orderID string) (Subscription, error) {
	stream, err := s.Client.SubscribeStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

// Follow fetches the order, subscribes to its status stream and applies
// updates until ctx is done, the order reaches a terminal status or the
// stream ends. onChange is called after every visible change. The view is
// always closed on return.
//
// A cancelled ctx is a normal stop and returns nil.
func Follow(ctx context.Context, src Source, orderID string, logger *zap.Logger, onChange func(*View)) error {
	v := New(orderID, logger)
	defer v.Close()

	notify := func() {
		if onChange != nil {
			onChange(v)
		}
	}

	order, err := src.GetOrder(ctx, orderID)
	v.Fetched(order, err)
	notify()
	if v.State() != StateFound {
		return err
	}
	if v.order.Status.IsTerminal() {
		return nil
	}

	sub, err := src.Subscribe(ctx, orderID)
	if err != nil {
		v.StreamFailed(err)
		return err
	}
	v.Attach(sub)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-sub.Updates():
			if !ok {
				streamErr := sub.Err()
				v.StreamFailed(streamErr)
				return streamErr
			}
			if v.ApplyStatus(update) {
				notify()
			}
			if v.order.Status.IsTerminal() {
				return nil
			}
		}
	}
}
