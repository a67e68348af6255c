// Package catalog is the menu screen: the loaded menu and the add-to-cart
// action.
package catalog

import (
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/storefront/cart"
)

const LoadFailedMessage = "Failed to load menu"

type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

type View struct {
	state   State
	items   []domain.MenuItem
	byID    map[string]int
	message string
	cart    *cart.Store
	logger  *zap.Logger
}

func New(c *cart.Store, logger *zap.Logger) *View {
	return &View{
		state:  StateLoading,
		cart:   c,
		logger: logger,
	}
}

func (v *View) State() State {
	return v.state
}

func (v *View) Message() string {
	return v.message
}

// Reload puts the view back into Loading before a new fetch.
func (v *View) Reload() {
	v.state = StateLoading
	v.message = ""
}

// Loaded applies the result of the menu fetch.
func (v *View) Loaded(items []domain.MenuItem, err error) {
	if err != nil {
		v.state = StateFailed
		v.message = LoadFailedMessage
		v.items = nil
		v.byID = nil
		v.logger.Error("failed to load menu", zap.Error(err))
		return
	}

	v.state = StateLoaded
	v.message = ""
	v.items = append([]domain.MenuItem(nil), items...)
	v.byID = make(map[string]int, len(items))
	for i, it := range v.items {
		v.byID[it.ID] = i
	}
}

func (v *View) Items() []domain.MenuItem {
	return append([]domain.MenuItem(nil), v.items...)
}

func (v *View) Item(itemID string) (domain.MenuItem, bool) {
	i, ok := v.byID[itemID]
	if !ok {
		return domain.MenuItem{}, false
	}
	return v.items[i], true
}

// AddToCart adds one unit of a loaded menu item to the cart. Unknown ids are
// ignored.
func (v *View) AddToCart(itemID string) bool {
	item, ok := v.Item(itemID)
	if !ok {
		return false
	}
	v.cart.Add(item)
	return true
}
