// Package tui is the storefront's terminal interface. Every screen state
// lives on one Bubble Tea update loop; network calls run as commands and
// come back as messages.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/gateway"
	"storefront/internal/storefront/cart"
	"storefront/internal/storefront/catalog"
	"storefront/internal/storefront/checkout"
	"storefront/internal/storefront/tracking"
)

const (
	RouteMenu     = "/"
	RouteCart     = "/cart"
	RouteCheckout = "/checkout"
)

// API is what the storefront screens need from the ordering API.
type API interface {
	GetMenu(ctx context.Context) ([]domain.MenuItem, error)
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)
	tracking.Source
}

type gatewayAPI struct {
	tracking.GatewaySource
}

func NewGatewayAPI(c *gateway.Client) API {
	return gatewayAPI{GatewaySource: tracking.GatewaySource{Client: c}}
}

func (a gatewayAPI) GetMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return a.Client.GetMenu(ctx)
}

func (a gatewayAPI) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	return a.Client.CreateOrder(ctx, req)
}

// menuEntry adapts a menu item to bubbles/list.
type menuEntry struct {
	item domain.MenuItem
}

func (e menuEntry) Title() string       { return e.item.Name + "  " + money(e.item.Price) }
func (e menuEntry) Description() string { return e.item.Description }
func (e menuEntry) FilterValue() string { return e.item.Name }

var (
	checkoutFields       = []string{checkout.FieldName, checkout.FieldAddress, checkout.FieldPhone}
	checkoutLabels       = []string{"Name", "Address", "Phone"}
	checkoutPlaceholders = []string{"Jane Doe", "123 Main St", "555-123-4567"}
)

type Model struct {
	ctx    context.Context
	api    API
	logger *zap.Logger

	route    string
	cart     *cart.Store
	catalog  *catalog.View
	checkout *checkout.Flow
	tracking *tracking.View

	menuList   list.Model
	cartCursor int
	inputs     []textinput.Model
	focus      int
	spinner    spinner.Model
	help       help.Model
	startCmd   tea.Cmd
}

func New(ctx context.Context, api API, c *cart.Store, logger *zap.Logger) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Menu"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)
	l.SetStatusBarItemName("dish", "dishes")
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.Add, keys.Cart, keys.Quit} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{keys.Add, keys.Cart, keys.Quit} }

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return Model{
		ctx:      ctx,
		api:      api,
		logger:   logger,
		route:    RouteMenu,
		cart:     c,
		catalog:  catalog.New(c, logger),
		checkout: checkout.NewFlow(c, logger),
		menuList: l,
		inputs:   newInputs(),
		spinner:  sp,
		help:     help.New(),
	}
}

func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(checkoutFields))
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = checkoutPlaceholders[i]
		ti.CharLimit = checkout.MaxLen[checkoutFields[i]]
		inputs[i] = ti
	}
	return inputs
}

// Start opens route before the program runs. An unknown route opens the menu.
func (m Model) Start(route string) Model {
	next, cmd := m.navigate(route)
	next.startCmd = cmd
	return next
}

// Route is the current client route.
func (m Model) Route() string {
	return m.route
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadMenu(m.ctx, m.api), m.startCmd)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.menuList.SetSize(msg.Width-4, msg.Height-4)
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case menuLoadedMsg:
		m.catalog.Loaded(msg.items, msg.err)
		return m, m.syncMenuList()

	case orderCreatedMsg:
		route := m.checkout.Complete(msg.order, msg.err)
		if route == "" {
			return m, nil
		}
		m.checkout = checkout.NewFlow(m.cart, m.logger)
		m.inputs = newInputs()
		m.cartCursor = 0
		return m.navigate(route)

	case orderFetchedMsg:
		if msg.view != m.tracking {
			return m, nil
		}
		msg.view.Fetched(msg.order, msg.err)
		if order := msg.view.Order(); order != nil && !order.Status.IsTerminal() {
			return m, subscribe(m.ctx, m.api, msg.view)
		}
		return m, nil

	case subscribedMsg:
		if msg.err != nil {
			msg.view.StreamFailed(msg.err)
			return m, nil
		}
		// A torn-down view refuses the subscription and closes it.
		if !msg.view.Attach(msg.sub) {
			return m, nil
		}
		return m, waitForStatus(msg.view, msg.sub)

	case statusMsg:
		if msg.view != m.tracking || msg.view.Closed() {
			return m, nil
		}
		msg.view.ApplyStatus(msg.update)
		return m, waitForStatus(msg.view, msg.sub)

	case streamEndedMsg:
		if msg.view != m.tracking {
			return m, nil
		}
		msg.view.StreamFailed(msg.err)
		return m, nil

	case advancedMsg:
		if msg.view != m.tracking {
			return m, nil
		}
		msg.view.Advanced(msg.order, msg.err)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m.quit()
		}
		switch m.route {
		case RouteMenu:
			return m.menuKey(msg)
		case RouteCart:
			return m.cartKey(msg)
		case RouteCheckout:
			return m.checkoutKey(msg)
		default:
			return m.trackingKey(msg)
		}
	}

	return m.forward(msg)
}

// forward passes messages the model does not handle itself to the active
// bubble, such as cursor blinks and list filter updates.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.route {
	case RouteMenu:
		m.menuList, cmd = m.menuList.Update(msg)
	case RouteCheckout:
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m Model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menuList.FilterState() == list.Filtering {
		return m.forward(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Cart):
		return m.navigate(RouteCart)
	case key.Matches(msg, keys.Retry) && m.catalog.State() == catalog.StateFailed:
		m.catalog.Reload()
		return m, tea.Batch(m.spinner.Tick, loadMenu(m.ctx, m.api))
	case key.Matches(msg, keys.Add):
		if e, ok := m.menuList.SelectedItem().(menuEntry); ok {
			m.catalog.AddToCart(e.item.ID)
		}
		return m, nil
	}
	return m.forward(msg)
}

func (m Model) cartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.cart.Lines()
	selected := ""
	if m.cartCursor < len(lines) {
		selected = lines[m.cartCursor].Item.ID
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Back):
		return m.navigate(RouteMenu)
	case key.Matches(msg, keys.Up):
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cartCursor < len(lines)-1 {
			m.cartCursor++
		}
	case key.Matches(msg, keys.Inc):
		m.cart.Increment(selected)
	case key.Matches(msg, keys.Dec):
		m.cart.Decrement(selected)
	case key.Matches(msg, keys.Remove):
		m.cart.Remove(selected)
		m.clampCartCursor()
	case key.Matches(msg, keys.Checkout):
		if !m.cart.IsEmpty() {
			return m.navigate(RouteCheckout)
		}
	}
	return m, nil
}

func (m Model) checkoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		// Stay on checkout until the in-flight order resolves.
		if m.checkout.Submitting() {
			return m, nil
		}
		return m.navigate(RouteCart)
	case key.Matches(msg, keys.Next):
		return m.focusInput(m.focus + 1)
	case key.Matches(msg, keys.Prev):
		return m.focusInput(m.focus - 1)
	case key.Matches(msg, keys.Submit):
		req, err := m.checkout.Begin()
		if err != nil {
			return m, nil
		}
		return m, createOrder(m.ctx, m.api, req)
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.checkout.SetField(checkoutFields[m.focus], after)
	}
	return m, cmd
}

func (m Model) trackingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Menu):
		return m.navigate(RouteMenu)
	case key.Matches(msg, keys.Advance):
		if m.tracking != nil && m.tracking.BeginAdvance() {
			return m, advance(m.ctx, m.api, m.tracking)
		}
	case key.Matches(msg, keys.Retry):
		if m.tracking != nil && m.tracking.State() == tracking.StateFailed {
			return m.navigate(m.route)
		}
	}
	return m, nil
}

// navigate switches screens. Leaving a tracking screen, or reopening one,
// closes its view and with it the live subscription.
func (m Model) navigate(route string) (Model, tea.Cmd) {
	if m.tracking != nil {
		m.tracking.Close()
		m.tracking = nil
	}

	m.route = route
	switch route {
	case RouteMenu:
		return m, nil
	case RouteCart:
		m.clampCartCursor()
		return m, nil
	case RouteCheckout:
		return m.focusInput(0)
	}

	if id, ok := tracking.OrderIDFromRoute(route); ok {
		m.tracking = tracking.New(id, m.logger)
		return m, tea.Batch(m.spinner.Tick, fetchOrder(m.ctx, m.api, m.tracking))
	}

	m.logger.Warn("unknown route", zap.String("route", route))
	m.route = RouteMenu
	return m, nil
}

func (m Model) focusInput(i int) (Model, tea.Cmd) {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m, m.inputs[m.focus].Focus()
}

func (m *Model) clampCartCursor() {
	if n := m.cart.Len(); m.cartCursor >= n {
		m.cartCursor = max(n-1, 0)
	}
}

func (m *Model) syncMenuList() tea.Cmd {
	items := m.catalog.Items()
	entries := make([]list.Item, len(items))
	for i, it := range items {
		entries[i] = menuEntry{item: it}
	}
	return m.menuList.SetItems(entries)
}

func (m Model) loading() bool {
	if m.route == RouteMenu && m.catalog.State() == catalog.StateLoading {
		return true
	}
	if m.tracking != nil && (m.tracking.State() == tracking.StateLoading || m.tracking.Advancing()) {
		return true
	}
	return m.route == RouteCheckout && m.checkout.Submitting()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.teardown()
	return m, tea.Quit
}

func (m Model) teardown() {
	if m.tracking != nil {
		m.tracking.Close()
	}
}

// Run starts the terminal UI at route and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, api API, logger *zap.Logger, route string) error {
	m := New(ctx, api, cart.New(), logger).Start(route)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.teardown()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
