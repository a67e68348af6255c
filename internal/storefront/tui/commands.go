package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/storefront/tracking"
)

type menuLoadedMsg struct {
	items []domain.MenuItem
	err   error
}

type orderCreatedMsg struct {
	order *domain.Order
	err   error
}

// Tracking messages carry the view they were issued for; the model drops any
// whose view is no longer the live one.

type orderFetchedMsg struct {
	view  *tracking.View
	order *domain.Order
	err   error
}

type subscribedMsg struct {
	view *tracking.View
	sub  tracking.Subscription
	err  error
}

type statusMsg struct {
	view   *tracking.View
	sub    tracking.Subscription
	update domain.StatusUpdate
}

type streamEndedMsg struct {
	view *tracking.View
	sub  tracking.Subscription
	err  error
}

type advancedMsg struct {
	view  *tracking.View
	order *domain.Order
	err   error
}

func loadMenu(ctx context.Context, api API) tea.Cmd {
	return func() tea.Msg {
		items, err := api.GetMenu(ctx)
		return menuLoadedMsg{items: items, err: err}
	}
}

func createOrder(ctx context.Context, api API, req dto.CreateOrderRequest) tea.Cmd {
	return func() tea.Msg {
		order, err := api.CreateOrder(ctx, req)
		return orderCreatedMsg{order: order, err: err}
	}
}

func fetchOrder(ctx context.Context, api API, v *tracking.View) tea.Cmd {
	return func() tea.Msg {
		order, err := api.GetOrder(ctx, v.OrderID())
		return orderFetchedMsg{view: v, order: order, err: err}
	}
}

func subscribe(ctx context.Context, api API, v *tracking.View) tea.Cmd {
	return func() tea.Msg {
		sub, err := api.Subscribe(ctx, v.OrderID())
		return subscribedMsg{view: v, sub: sub, err: err}
	}
}

// waitForStatus blocks on the next push update. The model re-issues it after
// every update it applies, so exactly one reader is pending per subscription.
func waitForStatus(v *tracking.View, sub tracking.Subscription) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-sub.Updates()
		if !ok {
			return streamEndedMsg{view: v, sub: sub, err: sub.Err()}
		}
		return statusMsg{view: v, sub: sub, update: update}
	}
}

func advance(ctx context.Context, api API, v *tracking.View) tea.Cmd {
	return func() tea.Msg {
		order, err := api.SimulateProgress(ctx, v.OrderID())
		return advancedMsg{view: v, order: order, err: err}
	}
}
