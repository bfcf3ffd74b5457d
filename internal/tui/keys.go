package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Escape     key.Binding
	Tab        key.Binding
	ClearError key.Binding

	// View switching
	ViewProducts key.Binding
	ViewCart     key.Binding
	Login        key.Binding
	Register     key.Binding
	Logout       key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Catalog / cart actions
	Add      key.Binding
	More     key.Binding
	Less     key.Binding
	Remove   key.Binding
	Clear    key.Binding
	FlushNow key.Binding

	// Forms
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		ClearError: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "dismiss error"),
		),
		ViewProducts: key.NewBinding(
			key.WithKeys("1", "p"),
			key.WithHelp("1", "products"),
		),
		ViewCart: key.NewBinding(
			key.WithKeys("2", "c"),
			key.WithHelp("2", "cart"),
		),
		Login: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log in"),
		),
		Register: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "register"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Add: key.NewBinding(
			key.WithKeys("enter", "a"),
			key.WithHelp("enter", "add to cart"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "quantity up"),
		),
		Less: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "quantity down"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove item"),
		),
		Clear: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear cart"),
		),
		FlushNow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "sync now"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
	}
}
