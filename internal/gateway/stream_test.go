package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

func TestReadEvents(t *testing.T) {
	body := ": keepalive\n\n" +
		"data: {\"status\":\"Preparing\"}\n\n" +
		"event: status\n" +
		"id: 7\n" +
		"data:{\"status\":\"Delivered\"}\n\n" +
		"data: trailing without blank line\n"

	var got []string
	err := readEvents(strings.NewReader(body), func(data []byte) bool {
		got = append(got, string(data))
		return true
	})

	require.NoError(t, err)
	assert.Equal(t, []string{`{"status":"Preparing"}`, `{"status":"Delivered"}`}, got)
}

func TestReadEvents_MultiLineData(t *testing.T) {
	body := "data: {\"status\":\ndata: \"Preparing\"}\n\n"

	var got []string
	require.NoError(t, readEvents(strings.NewReader(body), func(data []byte) bool {
		got = append(got, string(data))
		return true
	}))

	assert.Equal(t, []string{"{\"status\":\n\"Preparing\"}"}, got)
}

func TestReadEvents_StopsWhenCallbackDeclines(t *testing.T) {
	body := "data: 1\n\ndata: 2\n\ndata: 3\n\n"

	calls := 0
	require.NoError(t, readEvents(strings.NewReader(body), func(data []byte) bool {
		calls++
		return false
	}))

	assert.Equal(t, 1, calls)
}

func sseHandler(events []string, hold bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/status-stream") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		for _, ev := range events {
			fmt.Fprintf(w, "data: %s\n\n", ev)
			flusher.Flush()
		}
		if hold {
			<-r.Context().Done()
		}
	}
}

func TestSubscribeStatus_DeliversInReceiptOrder(t *testing.T) {
	c := newTestClient(t, sseHandler([]string{
		`{"status":"Order Received","order_id":"a1b2c3d4"}`,
		`{"status":"Preparing","order_id":"a1b2c3d4"}`,
		`not json`,
		`{"status":"Delivered"}`,
	}, false))

	stream, err := c.SubscribeStatus(context.Background(), "a1b2c3d4")
	require.NoError(t, err)
	defer stream.Close()

	var got []domain.StatusUpdate
	for u := range stream.Updates() {
		got = append(got, u)
	}

	assert.Equal(t, []domain.StatusUpdate{
		{OrderID: "a1b2c3d4", Status: domain.OrderStatusReceived},
		{OrderID: "a1b2c3d4", Status: domain.OrderStatusPreparing},
		{OrderID: "a1b2c3d4", Status: domain.OrderStatusDelivered},
	}, got)

	_, ok := apperrors.IsSubscriptionError(stream.Err())
	assert.True(t, ok, "server-side end must be reported as SubscriptionError")
}

func TestSubscribeStatus_CloseIsIdempotent(t *testing.T) {
	c := newTestClient(t, sseHandler([]string{`{"status":"Preparing","order_id":"a1b2c3d4"}`}, true))

	stream, err := c.SubscribeStatus(context.Background(), "a1b2c3d4")
	require.NoError(t, err)

	first := <-stream.Updates()
	assert.Equal(t, domain.OrderStatusPreparing, first.Status)

	assert.NoError(t, stream.Close())
	assert.NoError(t, stream.Close())

	select {
	case _, open := <-stream.Updates():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("updates channel was not closed after Close")
	}
	assert.NoError(t, stream.Err())
}

func TestSubscribeStatus_NotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	stream, err := c.SubscribeStatus(context.Background(), "missing")
	assert.Nil(t, stream)

	se, ok := apperrors.IsSubscriptionError(err)
	require.True(t, ok)
	_, ok = apperrors.IsNotFoundError(se)
	assert.True(t, ok)
}
