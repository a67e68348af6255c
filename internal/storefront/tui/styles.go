package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	labelStyle    = lipgloss.NewStyle().Width(10)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
)

const (
	markReached = "●"
	markPending = "○"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func panel(lines ...string) string {
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func header(title string, cartCount int) string {
	return fmt.Sprintf("%s   %s %d",
		titleStyle.Render(title),
		accentStyle.Render("Cart"), cartCount,
	)
}
