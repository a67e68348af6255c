package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

type fakeSubscription struct {
	updates    chan domain.StatusUpdate
	err        error
	closeCalls int
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{updates: make(chan domain.StatusUpdate, 8)}
}

func (f *fakeSubscription) Updates() <-chan domain.StatusUpdate {
	return f.updates
}

func (f *fakeSubscription) Err() error {
	return f.err
}

func (f *fakeSubscription) Close() error {
	f.closeCalls++
	return nil
}

func testOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:           "abc123",
		CustomerName: "John Doe",
		Status:       status,
	}
}

func foundView(t *testing.T, status domain.OrderStatus) *View {
	t.Helper()
	v := New("abc123", zap.NewNop())
	v.Fetched(testOrder(status), nil)
	require.Equal(t, StateFound, v.State())
	return v
}

func TestView_StartsLoading(t *testing.T) {
	v := New("abc123", zap.NewNop())

	assert.Equal(t, StateLoading, v.State())
	assert.Nil(t, v.Order())
	assert.False(t, v.CanAdvance())
}

func TestView_Fetched(t *testing.T) {
	tests := []struct {
		name        string
		order       *domain.Order
		err         error
		wantState   State
		wantMessage string
	}{
		{
			name:      "found",
			order:     testOrder(domain.OrderStatusReceived),
			wantState: StateFound,
		},
		{
			name:        "not found",
			err:         apperrors.NewNotFoundError("order nonexistent123 not found"),
			wantState:   StateNotFound,
			wantMessage: NotFoundMessage,
		},
		{
			name:        "network failure",
			err:         apperrors.NewNetworkError("fetching order", 0, errors.New("connection refused")),
			wantState:   StateFailed,
			wantMessage: LoadFailedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New("abc123", zap.NewNop())
			v.Fetched(tt.order, tt.err)

			assert.Equal(t, tt.wantState, v.State())
			assert.Equal(t, tt.wantMessage, v.Message())
		})
	}
}

func TestView_PushUpdatesReplaceStatus(t *testing.T) {
	v := foundView(t, domain.OrderStatusReceived)
	sub := newFakeSubscription()
	require.True(t, v.Attach(sub))

	assert.True(t, v.ApplyStatus(domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusPreparing}))
	assert.Equal(t, domain.OrderStatusPreparing, v.Order().Status)

	assert.True(t, v.ApplyStatus(domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusDelivered}))
	assert.Equal(t, domain.OrderStatusDelivered, v.Order().Status)
	assert.Equal(t, "John Doe", v.Order().CustomerName)
	assert.False(t, v.CanAdvance())
}

func TestView_UpdatesAppliedInReceiptOrder(t *testing.T) {
	v := foundView(t, domain.OrderStatusOutForDelivery)

	v.ApplyStatus(domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusPreparing})

	assert.Equal(t, domain.OrderStatusPreparing, v.Order().Status)
}

func TestView_IgnoresForeignAndEarlyUpdates(t *testing.T) {
	v := New("abc123", zap.NewNop())
	assert.False(t, v.ApplyStatus(domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusPreparing}))

	v.Fetched(testOrder(domain.OrderStatusReceived), nil)
	assert.False(t, v.ApplyStatus(domain.StatusUpdate{OrderID: "other", Status: domain.OrderStatusDelivered}))
	assert.Equal(t, domain.OrderStatusReceived, v.Order().Status)

	assert.True(t, v.ApplyStatus(domain.StatusUpdate{Status: domain.OrderStatusPreparing}))
}

func TestView_RendersUnknownStatus(t *testing.T) {
	v := foundView(t, domain.OrderStatusReceived)

	v.ApplyStatus(domain.StatusUpdate{OrderID: "abc123", Status: "Lost in transit"})

	assert.Equal(t, domain.OrderStatus("Lost in transit"), v.Order().Status)
	for _, step := range v.Timeline() {
		assert.False(t, step.Current)
		assert.False(t, step.Reached)
	}
}

func TestView_AttachRefusedUnlessFound(t *testing.T) {
	v := New("abc123", zap.NewNop())
	v.Fetched(nil, apperrors.NewNotFoundError("missing"))

	sub := newFakeSubscription()
	assert.False(t, v.Attach(sub))
	assert.Equal(t, 1, sub.closeCalls)
	assert.False(t, v.Subscribed())
}

func TestView_CloseReleasesSubscriptionExactlyOnce(t *testing.T) {
	v := foundView(t, domain.OrderStatusPreparing)
	sub := newFakeSubscription()
	require.True(t, v.Attach(sub))

	v.Close()
	v.Close()

	assert.Equal(t, 1, sub.closeCalls)
	assert.True(t, v.Closed())
	assert.False(t, v.Subscribed())
}

func TestView_HandlersAreNoOpsAfterClose(t *testing.T) {
	v := foundView(t, domain.OrderStatusReceived)
	v.Close()

	assert.False(t, v.ApplyStatus(domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusDelivered}))
	v.Fetched(testOrder(domain.OrderStatusDelivered), nil)
	v.Advanced(testOrder(domain.OrderStatusPreparing), nil)
	v.StreamFailed(errors.New("late"))

	assert.Equal(t, domain.OrderStatusReceived, v.Order().Status)
	assert.False(t, v.CanAdvance())

	late := newFakeSubscription()
	assert.False(t, v.Attach(late))
	assert.Equal(t, 1, late.closeCalls)
}

func TestView_StreamFailedKeepsLastStatus(t *testing.T) {
	v := foundView(t, domain.OrderStatusReceived)
	sub := newFakeSubscription()
	v.Attach(sub)
	v.ApplyStatus(domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusPreparing})

	v.StreamFailed(apperrors.NewSubscriptionError("abc123", nil))

	assert.Equal(t, 1, sub.closeCalls)
	assert.False(t, v.Subscribed())
	assert.Equal(t, StateFound, v.State())
	assert.Equal(t, domain.OrderStatusPreparing, v.Order().Status)
	assert.Empty(t, v.Message())

	v.Close()
	assert.Equal(t, 1, sub.closeCalls)
}

func TestView_Advance(t *testing.T) {
	v := foundView(t, domain.OrderStatusReceived)

	require.True(t, v.BeginAdvance())
	assert.False(t, v.CanAdvance(), "advance is disabled while in flight")
	assert.False(t, v.BeginAdvance())

	advanced := testOrder(domain.OrderStatusPreparing)
	advanced.CustomerName = "Jane Doe"
	v.Advanced(advanced, nil)

	assert.Equal(t, domain.OrderStatusPreparing, v.Order().Status)
	assert.Equal(t, "Jane Doe", v.Order().CustomerName)
	assert.True(t, v.CanAdvance())
}

func TestView_AdvanceErrorLeavesStateUnchanged(t *testing.T) {
	v := foundView(t, domain.OrderStatusOutForDelivery)
	require.True(t, v.BeginAdvance())

	v.Advanced(nil, apperrors.NewNetworkError("advancing order status", 500, nil))

	assert.Equal(t, domain.OrderStatusOutForDelivery, v.Order().Status)
	assert.Empty(t, v.Message())
	assert.True(t, v.CanAdvance())
}

func TestView_Timeline(t *testing.T) {
	v := foundView(t, domain.OrderStatusOutForDelivery)

	steps := v.Timeline()
	require.Len(t, steps, 4)
	assert.True(t, steps[0].Reached)
	assert.True(t, steps[1].Reached)
	assert.True(t, steps[2].Reached)
	assert.True(t, steps[2].Current)
	assert.False(t, steps[3].Reached)
}

func TestRoute(t *testing.T) {
	assert.Equal(t, "/order-tracking/abc123", Route("abc123"))

	id, ok := OrderIDFromRoute("/order-tracking/abc123")
	assert.True(t, ok)
	assert.Equal(t, "abc123", id)

	_, ok = OrderIDFromRoute("/order-tracking/")
	assert.False(t, ok)
	_, ok = OrderIDFromRoute("/cart")
	assert.False(t, ok)
}

type mockSource struct {
	GetOrderFunc         func(ctx context.Context, orderID string) (*domain.Order, error)
	SimulateProgressFunc func(ctx context.Context, orderID string) (*domain.Order, error)
	SubscribeFunc        func(ctx context.Context, orderID string) (Subscription, error)
}

func (m *mockSource) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return m.GetOrderFunc(ctx, orderID)
}

func (m *mockSource) SimulateProgress(ctx context.Context, orderID string) (*domain.Order, error) {
	return m.SimulateProgressFunc(ctx, orderID)
}

func (m *mockSource) Subscribe(ctx context.Context, orderID string) (Subscription, error) {
	return m.SubscribeFunc(ctx, orderID)
}

func TestFollow_RunsUntilDelivered(t *testing.T) {
	sub := newFakeSubscription()
	sub.updates <- domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusPreparing}
	sub.updates <- domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusOutForDelivery}
	sub.updates <- domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusDelivered}

	src := &mockSource{
		GetOrderFunc: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return testOrder(domain.OrderStatusReceived), nil
		},
		SubscribeFunc: func(ctx context.Context, orderID string) (Subscription, error) {
			return sub, nil
		},
	}

	var seen []domain.OrderStatus
	err := Follow(context.Background(), src, "abc123", zap.NewNop(), func(v *View) {
		seen = append(seen, v.Order().Status)
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.OrderStatus{
		domain.OrderStatusReceived,
		domain.OrderStatusPreparing,
		domain.OrderStatusOutForDelivery,
		domain.OrderStatusDelivered,
	}, seen)
	assert.Equal(t, 1, sub.closeCalls)
}

func TestFollow_NotFound(t *testing.T) {
	subscribed := false
	src := &mockSource{
		GetOrderFunc: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order nonexistent123 not found")
		},
		SubscribeFunc: func(ctx context.Context, orderID string) (Subscription, error) {
			subscribed = true
			return newFakeSubscription(), nil
		},
	}

	var last State
	err := Follow(context.Background(), src, "nonexistent123", zap.NewNop(), func(v *View) {
		last = v.State()
	})

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, StateNotFound, last)
	assert.False(t, subscribed)
}

func TestFollow_StreamEndReturnsSubscriptionError(t *testing.T) {
	sub := newFakeSubscription()
	sub.updates <- domain.StatusUpdate{OrderID: "abc123", Status: domain.OrderStatusPreparing}
	sub.err = apperrors.NewSubscriptionError("abc123", nil)
	close(sub.updates)

	src := &mockSource{
		GetOrderFunc: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return testOrder(domain.OrderStatusReceived), nil
		},
		SubscribeFunc: func(ctx context.Context, orderID string) (Subscription, error) {
			return sub, nil
		},
	}

	var last domain.OrderStatus
	err := Follow(context.Background(), src, "abc123", zap.NewNop(), func(v *View) {
		last = v.Order().Status
	})

	_, ok := apperrors.IsSubscriptionError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.OrderStatusPreparing, last)
	assert.Equal(t, 1, sub.closeCalls)
}

func TestFollow_CancelledContextStopsCleanly(t *testing.T) {
	sub := newFakeSubscription()
	ctx, cancel := context.WithCancel(context.Background())

	src := &mockSource{
		GetOrderFunc: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return testOrder(domain.OrderStatusReceived), nil
		},
		SubscribeFunc: func(ctx context.Context, orderID string) (Subscription, error) {
			cancel()
			return sub, nil
		},
	}

	err := Follow(ctx, src, "abc123", zap.NewNop(), nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, sub.closeCalls)
}

func TestFollow_DeliveredOrderDoesNotSubscribe(t *testing.T) {
	src := &mockSource{
		GetOrderFunc: func(ctx context.Context, orderID string) (*domain.Order, error) {
			return testOrder(domain.OrderStatusDelivered), nil
		},
		SubscribeFunc: func(ctx context.Context, orderID string) (Subscription, error) {
			t.Fatal("subscribe must not be called for a delivered order")
			return nil, nil
		},
	}

	assert.NoError(t, Follow(context.Background(), src, "abc123", zap.NewNop(), nil))
}
