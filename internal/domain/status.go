package domain

type OrderStatus string

const (
	OrderStatusReceived       OrderStatus = "Order Received"
	OrderStatusPreparing      OrderStatus = "Preparing"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
)

// CanonicalStatuses is the fixed lifecycle, in order.
var CanonicalStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) Valid() bool {
	return s.index() >= 0
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered
}

// Next returns the status that follows s in the canonical progression. ok is
// false when s is terminal. An unknown status restarts the progression at
// Received.
func (s OrderStatus) Next() (next OrderStatus, ok bool) {
	i := s.index()
	if i == len(CanonicalStatuses)-1 {
		return s, false
	}
	return CanonicalStatuses[i+1], true
}

func (s OrderStatus) index() int {
	for i, c := range CanonicalStatuses {
		if c == s {
			return i
		}
	}
	return -1
}

// StatusUpdate is one message on an order's status stream.
type StatusUpdate struct {
	OrderID string
	Status  OrderStatus
}
