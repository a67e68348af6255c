// Package gateway is the storefront's HTTP client for the ordering API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

// Client issues plain requests against the API: no retries, no caching and no
// auth headers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// streamClient has no overall timeout; status streams are long-lived.
	streamClient *http.Client
	logger       *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
		logger:       logger,
	}
}

func (c *Client) GetMenu(ctx context.Context) ([]domain.MenuItem, error) {
	var resp []dto.MenuItemDTO
	if err := c.do(ctx, "fetching menu", http.MethodGet, "/menu", nil, &resp); err != nil {
		return nil, err
	}

	items := make([]domain.MenuItem, len(resp))
	for i, it := range resp {
		items[i] = it.ToDomain()
	}
	return items, nil
}

func (c *Client) GetMenuItem(ctx context.Context, itemID string) (*domain.MenuItem, error) {
	var resp dto.MenuItemDTO
	if err := c.do(ctx, "fetching menu item", http.MethodGet, "/menu/"+url.PathEscape(itemID), nil, &resp); err != nil {
		return nil, err
	}
	item := resp.ToDomain()
	return &item, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var resp []dto.OrderResponse
	if err := c.do(ctx, "listing orders", http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, len(resp))
	for i, o := range resp {
		orders[i] = o.ToDomain()
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return c.orderCall(ctx, "fetching order", http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
}

func (c *Client) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	return c.orderCall(ctx, "creating order", http.MethodPost, "/orders", req)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	body := dto.UpdateStatusRequest{Status: string(status)}
	return c.orderCall(ctx, "updating order status", http.MethodPut, "/orders/"+url.PathEscape(orderID), body)
}

// SimulateProgress asks the server to move the order one step along the
// canonical progression.
func (c *Client) SimulateProgress(ctx context.Context, orderID string) (*domain.Order, error) {
	return c.orderCall(ctx, "advancing order status", http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/simulate", nil)
}

func (c *Client) orderCall(ctx context.Context, op, method, path string, body any) (*domain.Order, error) {
	var resp dto.OrderResponse
	if err := c.do(ctx, op, method, path, body, &resp); err != nil {
		return nil, err
	}
	order := resp.ToDomain()
	return &order, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.String("path", path), zap.Error(err))
		return apperrors.NewNetworkError(op, 0, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := checkStatus(op, resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewNetworkError(op, resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusNotFound {
		msg := op + ": not found"
		var body dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
			msg = body.Message
		}
		return apperrors.NewNotFoundError(msg)
	}

	return apperrors.NewNetworkError(op, resp.StatusCode, nil)
}
