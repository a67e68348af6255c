// Package cli dispatches the storefront subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/storefront/tracking"
	"storefront/internal/storefront/tui"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
)

// Options carries what the subcommands need.
type Options struct {
	API    tui.API
	Logger *zap.Logger
	Stdout io.Writer
	Stderr io.Writer
	// StartUI runs the interactive interface at a client route.
	StartUI func(ctx context.Context, route string) error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		return doUI(ctx, tui.RouteMenu, opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "ui":
		if len(a) > 1 {
			fail(opt.Stderr, "usage: storefront ui [route]")
			return 2
		}
		route := tui.RouteMenu
		if len(a) == 1 {
			route = a[0]
		}
		return doUI(ctx, route, opt)

	case "menu":
		if len(a) != 0 {
			fail(opt.Stderr, "usage: storefront menu")
			return 2
		}
		return doMenu(ctx, opt)

	case "track":
		if len(a) != 1 || strings.TrimSpace(a[0]) == "" {
			fail(opt.Stderr, "usage: storefront track <orderId>")
			return 2
		}
		return doTrack(ctx, strings.TrimSpace(a[0]), opt)
	}

	fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `storefront - order food from the terminal

Usage:
  storefront [subcommand] [args]

Subcommands:
  ui [route]         Open the interactive storefront (default)
  menu               Print the menu
  track <orderId>    Follow an order's status until it is delivered

Routes:
  /  /cart  /checkout  /order-tracking/<orderId>

Examples:
  storefront
  storefront menu
  storefront track a1b2c3d4
  storefront ui /order-tracking/a1b2c3d4
`)
}

func doUI(ctx context.Context, route string, opt Options) int {
	if opt.StartUI == nil {
		fail(opt.Stderr, "interactive mode is not available")
		return 1
	}
	if err := opt.StartUI(ctx, route); err != nil {
		opt.Logger.Error("terminal ui exited with error", zap.Error(err))
		fail(opt.Stderr, "ui: "+err.Error())
		return 1
	}
	return 0
}

func doMenu(ctx context.Context, opt Options) int {
	items, err := opt.API.GetMenu(ctx)
	if err != nil {
		opt.Logger.Error("failed to load menu", zap.Error(err))
		fail(opt.Stderr, "Failed to load menu")
		return 1
	}

	lines := []string{titleStyle.Render("Menu"), ""}
	if len(items) == 0 {
		lines = append(lines, mutedStyle.Render("no items"))
	}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s %-28s %8s",
			mutedStyle.Render(fmt.Sprintf("%3s.", it.ID)), it.Name, "$"+it.Price.StringFixed(2)))
		if it.Description != "" {
			lines = append(lines, "     "+mutedStyle.Render(it.Description))
		}
	}
	fmt.Fprintln(opt.Stdout, panelStyle.Render(strings.Join(lines, "\n")))
	return 0
}

func doTrack(ctx context.Context, orderID string, opt Options) int {
	printedHeader := false

	err := tracking.Follow(ctx, opt.API, orderID, opt.Logger, func(v *tracking.View) {
		order := v.Order()
		if order == nil {
			return
		}
		if !printedHeader {
			printedHeader = true
			fmt.Fprintln(opt.Stdout, titleStyle.Render("Order #"+order.ID)+"  "+
				mutedStyle.Render(fmt.Sprintf("%s, %s  total $%s",
					order.CustomerName, order.CustomerAddress, order.TotalAmount.StringFixed(2))))
		}
		style := pendingStyle
		if order.Status.IsTerminal() {
			style = successStyle
		}
		fmt.Fprintln(opt.Stdout, "  "+style.Render(order.Status.String()))
	})

	switch {
	case err == nil:
		return 0
	case isNotFound(err):
		fail(opt.Stderr, tracking.NotFoundMessage)
		return 1
	case isSubscription(err):
		fail(opt.Stderr, "live updates stopped: "+err.Error())
		return 1
	default:
		fail(opt.Stderr, tracking.LoadFailedMessage+": "+err.Error())
		return 1
	}
}

func isNotFound(err error) bool {
	_, ok := apperrors.IsNotFoundError(err)
	return ok
}

func isSubscription(err error) bool {
	_, ok := apperrors.IsSubscriptionError(err)
	return ok
}

func fail(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+msg))
}
