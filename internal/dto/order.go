package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type CreateOrderRequest struct {
	CustomerName    string         `json:"customer_name"`
	CustomerAddress string         `json:"customer_address"`
	CustomerPhone   string         `json:"customer_phone"`
	Items           []OrderItemDTO `json:"items"`
}

type OrderItemDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID              string         `json:"id"`
	CustomerName    string         `json:"customer_name"`
	CustomerAddress string         `json:"customer_address"`
	CustomerPhone   string         `json:"customer_phone"`
	Items           []OrderItemDTO `json:"items"`
	TotalAmount     float64        `json:"total_amount"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// StatusEvent is the payload of one status-stream message.
type StatusEvent struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

func (i OrderItemDTO) ToDomain() domain.OrderItem {
	return domain.OrderItem{
		ItemID:   i.ID,
		Name:     i.Name,
		Price:    decimal.NewFromFloat(i.Price),
		Quantity: i.Quantity,
	}
}

// FromOrderItem converts a stored line. Money leaves the domain as a JSON
// number here; stored amounts carry at most two places.
func FromOrderItem(item domain.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:       item.ItemID,
		Name:     item.Name,
		Price:    item.Price.InexactFloat64(),
		Quantity: item.Quantity,
	}
}

func FromOrder(order domain.Order) OrderResponse {
	items := make([]OrderItemDTO, len(order.Items))
	for i, it := range order.Items {
		items[i] = FromOrderItem(it)
	}

	return OrderResponse{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		CustomerAddress: order.CustomerAddress,
		CustomerPhone:   order.CustomerPhone,
		Items:           items,
		TotalAmount:     order.TotalAmount.InexactFloat64(), // JSON number at the wire edge
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func (r OrderResponse) ToDomain() domain.Order {
	items := make([]domain.OrderItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = it.ToDomain()
	}

	return domain.Order{
		ID:              r.ID,
		CustomerName:    r.CustomerName,
		CustomerAddress: r.CustomerAddress,
		CustomerPhone:   r.CustomerPhone,
		Items:           items,
		TotalAmount:     decimal.NewFromFloat(r.TotalAmount),
		Status:          domain.OrderStatus(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromStatusUpdate(u domain.StatusUpdate) StatusEvent {
	return StatusEvent{
		Status:  string(u.Status),
		OrderID: u.OrderID,
	}
}

func (e StatusEvent) ToDomain() domain.StatusUpdate {
	return domain.StatusUpdate{
		OrderID: e.OrderID,
		Status:  domain.OrderStatus(e.Status),
	}
}
