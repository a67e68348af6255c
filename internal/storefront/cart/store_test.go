package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func pizza() domain.MenuItem {
	return domain.MenuItem{ID: "1", Name: "Pizza", Price: decimal.RequireFromString("12.99")}
}

func fries() domain.MenuItem {
	return domain.MenuItem{ID: "6", Name: "French Fries", Price: decimal.RequireFromString("4.99")}
}

func cola() domain.MenuItem {
	return domain.MenuItem{ID: "7", Name: "Coca Cola", Price: decimal.RequireFromString("2.99")}
}

func TestStore_Empty(t *testing.T) {
	s := New()

	assert.True(t, s.IsEmpty())
	assert.True(t, s.Total().IsZero())
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Lines())
}

func TestStore_AddSameItemTwice(t *testing.T) {
	s := New()
	s.Add(pizza())
	s.Add(pizza())

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestStore_PizzaScenario(t *testing.T) {
	s := New()
	s.Add(pizza())
	s.SetQuantity("1", 2)

	assert.Equal(t, "25.98", s.Total().StringFixed(2))
	assert.Equal(t, 2, s.Count())
}

func TestStore_SetQuantityClampsToOne(t *testing.T) {
	s := New()
	s.Add(pizza())
	s.SetQuantity("1", 5)

	s.SetQuantity("1", 0)
	l, ok := s.Line("1")
	require.True(t, ok)
	assert.Equal(t, 1, l.Quantity)

	s.SetQuantity("1", -3)
	l, _ = s.Line("1")
	assert.Equal(t, 1, l.Quantity)
	assert.Equal(t, 1, s.Len())
}

func TestStore_SetQuantityNeverInserts(t *testing.T) {
	s := New()
	s.SetQuantity("1", 3)

	assert.True(t, s.IsEmpty())
}

func TestStore_DecrementStopsAtOne(t *testing.T) {
	s := New()
	s.Add(fries())
	s.Decrement("6")
	s.Decrement("6")

	l, ok := s.Line("6")
	require.True(t, ok)
	assert.Equal(t, 1, l.Quantity)

	s.Increment("6")
	l, _ = s.Line("6")
	assert.Equal(t, 2, l.Quantity)
}

func TestStore_RemoveKeepsOrder(t *testing.T) {
	s := New()
	s.Add(pizza())
	s.Add(fries())
	s.Add(cola())

	s.Remove("6")
	s.Remove("missing")

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].Item.ID)
	assert.Equal(t, "7", lines[1].Item.ID)
}

func TestStore_Clear(t *testing.T) {
	s := New()
	s.Add(pizza())
	s.Add(cola())
	s.Clear()

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Count())
	assert.True(t, s.Total().IsZero())

	s.Add(fries())
	assert.Equal(t, []string{"6"}, ids(s.Lines()))
}

func TestStore_OrderItemsSnapshot(t *testing.T) {
	s := New()
	s.Add(pizza())
	s.Add(pizza())
	s.Add(cola())

	items := s.OrderItems()
	require.Len(t, items, 2)
	assert.Equal(t, domain.OrderItem{ItemID: "1", Name: "Pizza", Price: decimal.RequireFromString("12.99"), Quantity: 2}, items[0])
	assert.True(t, domain.ComputeTotal(items).Equal(s.Total()))
}

// Random add/remove/setQuantity sequences must keep the aggregates consistent
// with the lines.
func TestStore_AggregatesMatchLines(t *testing.T) {
	menu := []domain.MenuItem{pizza(), fries(), cola()}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		s := New()
		for step := 0; step < 30; step++ {
			item := menu[rng.Intn(len(menu))]
			switch rng.Intn(4) {
			case 0, 1:
				s.Add(item)
			case 2:
				s.Remove(item.ID)
			case 3:
				s.SetQuantity(item.ID, rng.Intn(6)-1)
			}
		}

		wantTotal := decimal.Zero
		wantCount := 0
		for _, l := range s.Lines() {
			require.GreaterOrEqual(t, l.Quantity, 1)
			wantTotal = wantTotal.Add(l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
			wantCount += l.Quantity
		}
		assert.True(t, s.Total().Equal(wantTotal))
		assert.Equal(t, wantCount, s.Count())
	}
}

func ids(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Item.ID
	}
	return out
}
