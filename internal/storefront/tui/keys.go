package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Back      key.Binding
	Add       key.Binding
	Cart      key.Binding
	Retry     key.Binding
	Up        key.Binding
	Down      key.Binding
	Inc       key.Binding
	Dec       key.Binding
	Remove    key.Binding
	Checkout  key.Binding
	Next      key.Binding
	Prev      key.Binding
	Submit    key.Binding
	Advance   key.Binding
	Menu      key.Binding
}

var keys = keyMap{
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Add:       key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "add to cart")),
	Cart:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cart")),
	Retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Inc:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
	Dec:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
	Remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
	Checkout:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "checkout")),
	Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "place order")),
	Advance:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "simulate progress")),
	Menu:      key.NewBinding(key.WithKeys("m", "esc"), key.WithHelp("m", "back to menu")),
}

