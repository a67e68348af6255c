package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is the snapshot of a menu item taken when the order was placed.
type OrderItem struct {
	ItemID   string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal sums price × quantity over items.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
