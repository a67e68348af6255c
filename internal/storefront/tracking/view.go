// Package tracking drives the order tracking screen: the initial fetch, the
// live status subscription and the manual advance action.
package tracking

import (
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

const (
	NotFoundMessage   = "Order not found"
	LoadFailedMessage = "Failed to load order"
)

const routePrefix = "/order-tracking/"

// Route is the client route of the tracking screen for orderID.
func Route(orderID string) string {
	return routePrefix + orderID
}

// OrderIDFromRoute extracts the order id from a tracking route.
func OrderIDFromRoute(route string) (string, bool) {
	id, ok := strings.CutPrefix(route, routePrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

type State int

const (
	StateLoading State = iota
	StateFound
	StateNotFound
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not found"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Subscription is an open server-push channel for one order.
type Subscription interface {
	Updates() <-chan domain.StatusUpdate
	Err() error
	Close() error
}

// Step is one entry of the status timeline.
type Step struct {
	Status  domain.OrderStatus
	Reached bool
	Current bool
}

// View holds the tracking screen state for a single order id. It is driven
// from one loop and is not safe for concurrent use. Once closed, every
// handler is a no-op so late results for a torn-down screen are dropped.
type View struct {
	orderID   string
	state     State
	order     *domain.Order
	message   string
	sub       Subscription
	advancing bool
	closed    bool
	logger    *zap.Logger
}

func New(orderID string, logger *zap.Logger) *View {
	return &View{
		orderID: orderID,
		state:   StateLoading,
		logger:  logger,
	}
}

func (v *View) OrderID() string {
	return v.orderID
}

func (v *View) State() State {
	return v.state
}

// Message is the user-facing text for the NotFound and Failed states.
func (v *View) Message() string {
	return v.message
}

func (v *View) Closed() bool {
	return v.closed
}

func (v *View) Advancing() bool {
	return v.advancing
}

// Subscribed reports whether a live subscription is currently held.
func (v *View) Subscribed() bool {
	return v.sub != nil
}

// Order returns a copy of the current snapshot, or nil before it is found.
func (v *View) Order() *domain.Order {
	if v.order == nil {
		return nil
	}
	o := *v.order
	return &o
}

// Fetched applies the result of the initial order fetch.
func (v *View) Fetched(order *domain.Order, err error) {
	if v.closed {
		return
	}

	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			v.state = StateNotFound
			v.message = NotFoundMessage
		} else {
			v.state = StateFailed
			v.message = LoadFailedMessage
		}
		v.order = nil
		v.logger.Warn("failed to load order", zap.String("orderId", v.orderID), zap.Error(err))
		return
	}

	if order == nil {
		v.state = StateNotFound
		v.message = NotFoundMessage
		return
	}

	o := *order
	v.order = &o
	v.state = StateFound
	v.message = ""
}

// Attach hands the view a live subscription. It is refused, and closed,
// unless the order has been found and the view is still open.
func (v *View) Attach(sub Subscription) bool {
	if v.closed || v.state != StateFound {
		if err := sub.Close(); err != nil {
			v.logger.Warn("failed to close refused subscription", zap.String("orderId", v.orderID), zap.Error(err))
		}
		return false
	}

	v.releaseSubscription()
	v.sub = sub
	return true
}

// ApplyStatus replaces the status of the current snapshot. Updates are taken
// in receipt order; those for another order, or arriving before the order is
// found, are ignored. It reports whether the snapshot changed.
func (v *View) ApplyStatus(update domain.StatusUpdate) bool {
	if v.closed || v.state != StateFound || v.order == nil {
		return false
	}
	if update.OrderID != "" && update.OrderID != v.orderID {
		return false
	}
	v.order.Status = update.Status
	return true
}

// StreamFailed releases a subscription that errored or was closed by the
// server. The last known status stays on screen.
func (v *View) StreamFailed(err error) {
	if v.closed {
		return
	}
	v.logger.Warn("status subscription ended", zap.String("orderId", v.orderID), zap.Error(err))
	v.releaseSubscription()
}

func (v *View) CanAdvance() bool {
	return !v.closed &&
		v.state == StateFound &&
		v.order != nil &&
		!v.order.Status.IsTerminal() &&
		!v.advancing
}

// BeginAdvance marks an advance request as in flight. It returns false when
// the action is not currently available.
func (v *View) BeginAdvance() bool {
	if !v.CanAdvance() {
		return false
	}
	v.advancing = true
	return true
}

// Advanced applies the result of an advance request. On success the whole
// snapshot is replaced; a failure is only logged.
func (v *View) Advanced(order *domain.Order, err error) {
	if v.closed {
		return
	}
	v.advancing = false

	if err != nil {
		v.logger.Error("failed to advance order status", zap.String("orderId", v.orderID), zap.Error(err))
		return
	}
	if order == nil || order.ID != v.orderID {
		return
	}
	o := *order
	v.order = &o
}

// Close tears the view down and closes the subscription exactly once.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.advancing = false
	v.releaseSubscription()
}

// Timeline lists the canonical statuses with the reached and current markers
// for the current snapshot. A status outside the canonical set marks nothing.
func (v *View) Timeline() []Step {
	current := -1
	if v.order != nil {
		for i, s := range domain.CanonicalStatuses {
			if s == v.order.Status {
				current = i
			}
		}
	}

	steps := make([]Step, len(domain.CanonicalStatuses))
	for i, s := range domain.CanonicalStatuses {
		steps[i] = Step{
			Status:  s,
			Reached: current >= 0 && i <= current,
			Current: i == current,
		}
	}
	return steps
}

func (v *View) releaseSubscription() {
	if v.sub == nil {
		return
	}
	if err := v.sub.Close(); err != nil {
		v.logger.Warn("failed to close status subscription", zap.String("orderId", v.orderID), zap.Error(err))
	}
	v.sub = nil
}
