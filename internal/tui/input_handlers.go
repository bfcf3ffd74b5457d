package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/cartsync/internal/client/oracle"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.currentView == ViewLogin || m.currentView == ViewRegister {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.flushPendingEdits()
		return m, tea.Quit

	case key.Matches(msg, m.keys.ViewProducts):
		m.flushPendingEdits()
		m.currentView = ViewProducts
		return m, nil

	case key.Matches(msg, m.keys.ViewCart):
		m.currentView = ViewCart
		return m, m.fetchCartCmd()

	case key.Matches(msg, m.keys.Login):
		if !m.sessionSnap.IsAuthenticated() {
			m.flushPendingEdits()
			return m.openForm(ViewLogin), nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Register):
		if !m.sessionSnap.IsAuthenticated() {
			m.flushPendingEdits()
			return m.openForm(ViewRegister), nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		if m.sessionSnap.IsAuthenticated() {
			m.flushPendingEdits()
			return m, m.logoutCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearError):
		m.session.ClearError()
		m.cart.ClearError()
		m.loadError = ""
		m.refreshSnapshots()
		return m, nil
	}

	switch m.currentView {
	case ViewCart:
		return m.handleCartKey(msg)
	default:
		return m.handleProductsKey(msg)
	}
}

func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.productRow > 0 {
			m.productRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.productRow < len(m.products)-1 {
			m.productRow++
		}
	case key.Matches(msg, m.keys.Add):
		if m.productRow < len(m.products) {
			return m, m.addItemCmd(m.products[m.productRow])
		}
	}
	return m, nil
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.cartSnap.Cart.Items

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cartRow > 0 {
			m.cartRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cartRow < len(items)-1 {
			m.cartRow++
		}
	case key.Matches(msg, m.keys.More):
		if m.cartRow < len(items) {
			it := items[m.cartRow]
			_ = m.cart.UpdateItemQuantity(it.ID, it.Quantity+1)
			m.noteEdit(it.ID)
			m.refreshSnapshots()
		}
	case key.Matches(msg, m.keys.Less):
		if m.cartRow < len(items) && items[m.cartRow].Quantity > 1 {
			it := items[m.cartRow]
			_ = m.cart.UpdateItemQuantity(it.ID, it.Quantity-1)
			m.noteEdit(it.ID)
			m.refreshSnapshots()
		}
	case key.Matches(msg, m.keys.FlushNow):
		m.flushPendingEdits()
		m.refreshSnapshots()
	case key.Matches(msg, m.keys.Remove):
		if m.cartRow < len(items) {
			return m, m.removeItemCmd(items[m.cartRow].ID)
		}
	case key.Matches(msg, m.keys.Clear):
		if len(items) > 0 {
			return m, m.clearCartCmd()
		}
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewProducts
		m.formInputs = nil
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if msg.String() == "shift+tab" {
			m.formFocus--
		} else {
			m.formFocus++
		}
		if m.formFocus < 0 {
			m.formFocus = len(m.formInputs) - 1
		}
		if m.formFocus >= len(m.formInputs) {
			m.formFocus = 0
		}
		m.syncFormFocus()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.formBusy {
			return m, nil
		}
		m.formBusy = true
		if m.currentView == ViewLogin {
			return m, m.loginCmd(m.formInputs[0].Value(), m.formInputs[1].Value())
		}
		return m, m.registerCmd(oracle.RegisterInput{
			FirstName: m.formInputs[0].Value(),
			LastName:  m.formInputs[1].Value(),
			Email:     m.formInputs[2].Value(),
			Password:  m.formInputs[3].Value(),
		})
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// openForm resets form state for the requested view.
func (m Model) openForm(view View) Model {
	m.currentView = view
	m.formFocus = 0
	m.formBusy = false

	labels := []string{"Email", "Password"}
	if view == ViewRegister {
		labels = []string{"First name", "Last name", "Email", "Password"}
	}

	m.formInputs = make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Placeholder = label
		in.CharLimit = 128
		if label == "Password" {
			in.EchoMode = textinput.EchoPassword
		}
		m.formInputs[i] = in
	}
	m.syncFormFocus()
	return m
}

func (m *Model) syncFormFocus() {
	for i := range m.formInputs {
		if i == m.formFocus {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}
