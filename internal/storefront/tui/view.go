package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/domain"
	"storefront/internal/storefront/catalog"
	"storefront/internal/storefront/checkout"
	"storefront/internal/storefront/tracking"
)

func (m Model) View() string {
	switch m.route {
	case RouteMenu:
		return m.menuView()
	case RouteCart:
		return m.cartView()
	case RouteCheckout:
		return m.checkoutView()
	default:
		return m.trackingView()
	}
}

func (m Model) helpLine(bindings ...key.Binding) string {
	return m.help.ShortHelpView(bindings)
}

func (m Model) menuView() string {
	switch m.catalog.State() {
	case catalog.StateLoading:
		return panel(header("Menu", m.cart.Count()), "", m.spinner.View()+" Loading menu...")
	case catalog.StateFailed:
		return panel(
			header("Menu", m.cart.Count()),
			"",
			errorStyle.Render(m.catalog.Message()),
			"",
			m.helpLine(keys.Retry, keys.Cart, keys.Quit),
		)
	}

	status := fmt.Sprintf("%s %d  %s %s",
		accentStyle.Render("Cart"), m.cart.Count(),
		accentStyle.Render("Total"), money(m.cart.Total()),
	)
	return panel(m.menuList.View(), status)
}

func (m Model) cartView() string {
	lines := []string{header("Your cart", m.cart.Count()), ""}

	if m.cart.IsEmpty() {
		lines = append(lines,
			mutedStyle.Render("Your cart is empty."),
			"",
			m.helpLine(keys.Back, keys.Quit),
		)
		return panel(lines...)
	}

	for i, l := range m.cart.Lines() {
		row := fmt.Sprintf("%-28s x%-3d %10s", l.Item.Name, l.Quantity, money(l.Subtotal()))
		prefix := "  "
		if i == m.cartCursor {
			prefix = selectedStyle.Render(">") + " "
		}
		lines = append(lines, prefix+row)
	}

	lines = append(lines,
		"",
		"  "+titleStyle.Render("Total "+money(m.cart.Total())),
		"",
		m.helpLine(keys.Up, keys.Down, keys.Inc, keys.Dec, keys.Remove, keys.Checkout, keys.Back),
	)
	return panel(lines...)
}

func (m Model) checkoutView() string {
	lines := []string{titleStyle.Render("Checkout"), ""}

	for _, l := range m.cart.Lines() {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%s x%d  %s", l.Item.Name, l.Quantity, money(l.Subtotal()))))
	}
	lines = append(lines, fmt.Sprintf("%s %s", accentStyle.Render("Total"), money(m.cart.Total())), "")

	for i, field := range checkoutFields {
		lines = append(lines, labelStyle.Render(checkoutLabels[i])+m.inputs[i].View())
		if msg := m.checkout.FieldError(field); msg != "" {
			lines = append(lines, labelStyle.Render("")+errorStyle.Render(msg))
		}
	}
	if msg := m.checkout.FieldError(checkout.FieldItems); msg != "" {
		lines = append(lines, "", errorStyle.Render(msg))
	}

	lines = append(lines, "")
	switch {
	case m.checkout.Submitting():
		lines = append(lines, m.spinner.View()+" Placing order...")
	case m.checkout.SubmitError() != "":
		lines = append(lines, errorStyle.Render(m.checkout.SubmitError()))
	}

	lines = append(lines, "", m.helpLine(keys.Next, keys.Prev, keys.Submit, keys.Back))
	return panel(lines...)
}

func (m Model) trackingView() string {
	v := m.tracking
	if v == nil {
		return panel(errorStyle.Render(tracking.NotFoundMessage))
	}

	title := titleStyle.Render("Order #" + v.OrderID())

	switch v.State() {
	case tracking.StateLoading:
		return panel(title, "", m.spinner.View()+" Loading order...")
	case tracking.StateNotFound:
		return panel(title, "", errorStyle.Render(v.Message()), "", m.helpLine(keys.Menu, keys.Quit))
	case tracking.StateFailed:
		return panel(title, "", errorStyle.Render(v.Message()), "", m.helpLine(keys.Retry, keys.Menu, keys.Quit))
	}

	order := v.Order()
	live := mutedStyle.Render("updates paused")
	if v.Subscribed() {
		live = successStyle.Render("live")
	}

	lines := []string{
		title + "  " + live,
		"",
		"Status  " + statusStyle(order.Status).Render(order.Status.String()),
		"",
	}
	for _, step := range v.Timeline() {
		mark := mutedStyle.Render(markPending)
		name := mutedStyle.Render(step.Status.String())
		if step.Reached {
			mark = successStyle.Render(markReached)
			name = step.Status.String()
		}
		if step.Current {
			name = titleStyle.Render(step.Status.String())
		}
		lines = append(lines, "  "+mark+" "+name)
	}

	lines = append(lines,
		"",
		accentStyle.Render("Delivery"),
		"  "+order.CustomerName,
		"  "+order.CustomerAddress,
		"  "+order.CustomerPhone,
		"",
		accentStyle.Render("Items"),
	)
	for _, it := range order.Items {
		lines = append(lines, fmt.Sprintf("  %s x%d  %s", it.Name, it.Quantity, money(it.Subtotal())))
	}
	lines = append(lines, fmt.Sprintf("  %s %s", titleStyle.Render("Total"), money(order.TotalAmount)), "")

	bindings := []key.Binding{keys.Menu, keys.Quit}
	switch {
	case v.Advancing():
		lines = append(lines, m.spinner.View()+" Updating status...")
	case v.CanAdvance():
		bindings = append([]key.Binding{keys.Advance}, bindings...)
	}
	lines = append(lines, m.helpLine(bindings...))

	return panel(strings.Join(lines, "\n"))
}

func statusStyle(s domain.OrderStatus) lipgloss.Style {
	if s.IsTerminal() {
		return successStyle
	}
	return pendingStyle
}
