package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/cartsync/internal/client/oracle"
)

func (m Model) addItemCmd(product oracle.Product) tea.Cmd {
	return func() tea.Msg {
		_, _ = m.cart.AddItem(m.ctx, product, 1, "")
		return refreshMsg{}
	}
}

func (m Model) removeItemCmd(itemID string) tea.Cmd {
	return func() tea.Msg {
		_, _ = m.cart.RemoveItem(m.ctx, itemID)
		return refreshMsg{}
	}
}

func (m Model) clearCartCmd() tea.Cmd {
	return func() tea.Msg {
		_, _ = m.cart.Clear(m.ctx)
		return refreshMsg{}
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		_, _ = m.session.Login(m.ctx, email, password)
		return refreshMsg{}
	}
}

func (m Model) registerCmd(input oracle.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		_, _ = m.session.Register(m.ctx, input)
		return refreshMsg{}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Logout()
		return refreshMsg{}
	}
}

// noteEdit marks a cart line as having a pending quantity change.
func (m *Model) noteEdit(itemID string) {
	m.editedItems[itemID] = struct{}{}
}

// flushPendingEdits pushes any debounced quantity changes immediately,
// used when focus leaves the cart.
func (m *Model) flushPendingEdits() {
	for itemID := range m.editedItems {
		m.cart.FlushQuantityUpdate(itemID)
		delete(m.editedItems, itemID)
	}
}
