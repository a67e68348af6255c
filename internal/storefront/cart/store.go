// Package cart holds the session's shopping cart.
package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type Line struct {
	Item     domain.MenuItem
	Quantity int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store maps item ids to cart lines and remembers insertion order for display.
// It is owned by the UI loop and is not safe for concurrent use.
type Store struct {
	lines map[string]*Line
	order []string
}

func New() *Store {
	return &Store{lines: make(map[string]*Line)}
}

// Add increments the line for item, inserting it with quantity 1 when absent.
func (s *Store) Add(item domain.MenuItem) {
	if l, ok := s.lines[item.ID]; ok {
		l.Quantity++
		return
	}
	s.lines[item.ID] = &Line{Item: item, Quantity: 1}
	s.order = append(s.order, item.ID)
}

func (s *Store) Remove(itemID string) {
	if _, ok := s.lines[itemID]; !ok {
		return
	}
	delete(s.lines, itemID)
	for i, id := range s.order {
		if id == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SetQuantity updates an existing line. qty is clamped to 1; the line is never
// removed and a missing id is never inserted.
func (s *Store) SetQuantity(itemID string, qty int) {
	l, ok := s.lines[itemID]
	if !ok {
		return
	}
	if qty < 1 {
		qty = 1
	}
	l.Quantity = qty
}

func (s *Store) Increment(itemID string) {
	if l, ok := s.lines[itemID]; ok {
		s.SetQuantity(itemID, l.Quantity+1)
	}
}

func (s *Store) Decrement(itemID string) {
	if l, ok := s.lines[itemID]; ok {
		s.SetQuantity(itemID, l.Quantity-1)
	}
}

func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s *Store) Count() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

func (s *Store) Clear() {
	s.lines = make(map[string]*Line)
	s.order = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

func (s *Store) Line(itemID string) (Line, bool) {
	l, ok := s.lines[itemID]
	if !ok {
		return Line{}, false
	}
	return *l, true
}

func (s *Store) Len() int {
	return len(s.order)
}

func (s *Store) IsEmpty() bool {
	return len(s.order) == 0
}

// OrderItems snapshots the cart as order lines.
func (s *Store) OrderItems() []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(s.order))
	for _, l := range s.Lines() {
		out = append(out, domain.OrderItem{
			ItemID:   l.Item.ID,
			Name:     l.Item.Name,
			Price:    l.Item.Price,
			Quantity: l.Quantity,
		})
	}
	return out
}
