package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

// StatusStream is a live subscription to one order's status-stream endpoint.
// Updates are delivered in receipt order; the channel is closed when the
// stream ends for any reason.
type StatusStream struct {
	orderID string
	body    io.ReadCloser
	cancel  context.CancelFunc
	logger  *zap.Logger

	updates chan domain.StatusUpdate
	done    chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// SubscribeStatus opens the order's server-push channel. The returned stream
// must be closed by the caller.
func (c *Client) SubscribeStatus(ctx context.Context, orderID string) (*StatusStream, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet,
		c.baseURL+"/orders/"+url.PathEscape(orderID)+"/status-stream", nil)
	if err != nil {
		cancel()
		return nil, apperrors.NewSubscriptionError(orderID, err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, apperrors.NewSubscriptionError(orderID, err)
	}
	if err := checkStatus("subscribing to status stream", resp); err != nil {
		resp.Body.Close()
		cancel()
		return nil, apperrors.NewSubscriptionError(orderID, err)
	}

	s := &StatusStream{
		orderID: orderID,
		body:    resp.Body,
		cancel:  cancel,
		logger:  c.logger,
		updates: make(chan domain.StatusUpdate, 8),
		done:    make(chan struct{}),
	}
	go s.run()

	c.logger.Info("status stream opened", zap.String("orderId", orderID))
	return s, nil
}

func (s *StatusStream) Updates() <-chan domain.StatusUpdate {
	return s.updates
}

// Err reports why the stream ended. It is nil while the stream is open and
// after a caller-initiated Close.
func (s *StatusStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the connection. Calling it more than once is safe.
func (s *StatusStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
		_ = s.body.Close()
		s.logger.Info("status stream closed", zap.String("orderId", s.orderID))
	})
	return nil
}

func (s *StatusStream) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *StatusStream) run() {
	defer close(s.updates)

	err := readEvents(s.body, func(data []byte) bool {
		var ev dto.StatusEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Warn("discarding malformed status event", zap.String("orderId", s.orderID), zap.Error(err))
			return true
		}
		update := ev.ToDomain()
		if update.OrderID == "" {
			update.OrderID = s.orderID
		}

		select {
		case s.updates <- update:
			return true
		case <-s.done:
			return false
		}
	})

	if s.closed() {
		return
	}

	s.mu.Lock()
	s.err = apperrors.NewSubscriptionError(s.orderID, err)
	s.mu.Unlock()
	s.logger.Warn("status stream ended", zap.String("orderId", s.orderID), zap.Error(s.Err()))
}

// readEvents parses a text/event-stream body and calls fn with the data of
// every dispatched event until fn returns false or the body ends. Comments and
// fields other than data are ignored.
func readEvents(r io.Reader, fn func(data []byte) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	var data bytes.Buffer
	hasData := false

	for scanner.Scan() {
		line := scanner.Bytes()

		if len(line) == 0 {
			if hasData {
				if !fn(bytes.Clone(data.Bytes())) {
					return nil
				}
			}
			data.Reset()
			hasData = false
			continue
		}

		if line[0] == ':' {
			continue
		}

		field, value, found := bytes.Cut(line, []byte(":"))
		if found && len(value) > 0 && value[0] == ' ' {
			value = value[1:]
		}
		if string(field) != "data" {
			continue
		}
		if hasData {
			data.WriteByte('\n')
		}
		data.Write(value)
		hasData = true
	}

	return scanner.Err()
}
