// Package statusbus fans order status changes out to the status-stream
// handlers that are watching each order.
package statusbus

import (
	"context"

	"storefront/internal/domain"
)

// DefaultBuffer is the per-subscriber queue length. A subscriber that falls
// further behind loses updates rather than blocking publishers.
const DefaultBuffer = 16

type Bus interface {
	Publish(ctx context.Context, update domain.StatusUpdate) error
	// Subscribe registers for updates to orderID. The returned cancel func
	// unregisters and closes the channel; it is safe to call more than once.
	Subscribe(ctx context.Context, orderID string) (<-chan domain.StatusUpdate, func(), error)
}

func channelName(orderID string) string {
	return "orders:" + orderID + ":status"
}
