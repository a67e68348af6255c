package statusbus

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

func setupTestRedis(t *testing.T) *goredis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "orders:a1b2c3d4:status", channelName("a1b2c3d4"))
}

func TestRedisBus_PublishSubscribe(t *testing.T) {
	client := setupTestRedis(t)
	bus := NewRedisBus(client, 4, zap.NewNop())
	ctx := context.Background()

	orderID := "t" + time.Now().Format("150405.000")
	ch, cancel, err := bus.Subscribe(ctx, orderID)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, bus.Publish(ctx, domain.StatusUpdate{OrderID: orderID, Status: domain.OrderStatusPreparing}))

	select {
	case u := <-ch:
		assert.Equal(t, domain.StatusUpdate{OrderID: orderID, Status: domain.OrderStatusPreparing}, u)
	case <-time.After(3 * time.Second):
		t.Fatal("no update received from redis")
	}

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
