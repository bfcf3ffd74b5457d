package tui

import (
	"fmt"
	"strings"

	"github.com/example/cartsync/internal/client/session"
)

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Shop"))
	b.WriteString("  ")

	switch m.sessionSnap.State {
	case session.StateAuthenticated:
		email := ""
		if m.sessionSnap.Profile != nil {
			email = m.sessionSnap.Profile.Email
		}
		b.WriteString(m.styles.Success.Render("signed in as " + email))
	case session.StateAuthenticating, session.StateInitializing:
		b.WriteString(m.styles.Muted.Render("signing in..."))
	default:
		b.WriteString(m.styles.Muted.Render("guest"))
	}

	cart := m.cartSnap.Cart
	b.WriteString("   ")
	b.WriteString(m.styles.Accent.Render(
		fmt.Sprintf("cart: %d items, %s", cart.ItemCount, formatCents(cart.Total))))
	if m.cartSnap.Loading {
		b.WriteString(m.styles.Muted.Render("  syncing..."))
	}
	return b.String()
}

func (m Model) renderErrorLine() string {
	msg := m.loadError
	if m.sessionSnap.LastError != nil {
		msg = m.sessionSnap.LastError.Error()
	}
	if m.cartSnap.CartError != nil {
		msg = m.cartSnap.CartError.Error()
	}
	if msg == "" {
		return ""
	}
	return m.styles.Danger.Render("! "+truncate(msg, 100)) +
		m.styles.Muted.Render("  (e to dismiss)")
}

func (m Model) renderProducts() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Header.Render("  Products"))
	b.WriteString("\n")

	if len(m.products) == 0 {
		b.WriteString(m.styles.Muted.Render("  no products loaded"))
		b.WriteString("\n")
	}
	for i, p := range m.products {
		line := fmt.Sprintf("  %-30s %10s  stock %d", truncate(p.Name, 30), formatCents(p.Price), p.Stock)
		if i == m.productRow {
			line = m.styles.Selected.Render("▸" + line[1:])
		} else {
			line = m.styles.Row.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if errLine := m.renderErrorLine(); errLine != "" {
		b.WriteString("\n")
		b.WriteString(errLine)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.HelpBar.Render(m.productsHelp()))
	return b.String()
}

func (m Model) productsHelp() string {
	parts := []string{"↑/↓ move", "enter add to cart", "2 cart"}
	if m.sessionSnap.IsAuthenticated() {
		parts = append(parts, "L log out")
	} else {
		parts = append(parts, "l log in", "r register")
	}
	parts = append(parts, "q quit")
	return strings.Join(parts, " · ")
}

func (m Model) renderCart() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Header.Render("  Cart"))
	b.WriteString("\n")

	cart := m.cartSnap.Cart
	if len(cart.Items) == 0 {
		b.WriteString(m.styles.Muted.Render("  your cart is empty"))
		b.WriteString("\n")
	}
	for i, it := range cart.Items {
		line := fmt.Sprintf("  %-30s x%-3d %10s  = %s",
			truncate(it.Product.Name, 30), it.Quantity,
			formatCents(it.UnitPrice), formatCents(it.Quantity*it.UnitPrice))
		if i == m.cartRow {
			line = m.styles.Selected.Render("▸" + line[1:])
		} else {
			line = m.styles.Row.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  subtotal %s", formatCents(cart.Subtotal))))
	if cart.DiscountAmount > 0 {
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("   discount -%s", formatCents(cart.DiscountAmount))))
	}
	b.WriteString(m.styles.Accent.Render(fmt.Sprintf("   total %s", formatCents(cart.Total))))
	b.WriteString("\n")

	if errLine := m.renderErrorLine(); errLine != "" {
		b.WriteString("\n")
		b.WriteString(errLine)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.HelpBar.Render("↑/↓ move · +/- quantity · x remove · X clear · f sync now · 1 products · q quit"))
	return b.String()
}

func (m Model) renderForm() string {
	title := "Log in"
	if m.currentView == ViewRegister {
		title = "Create account"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")
	for _, in := range m.formInputs {
		b.WriteString(m.styles.FormLabel.Render(fmt.Sprintf("%-12s", in.Placeholder)))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if m.formBusy {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("working..."))
	}
	if m.sessionSnap.LastError != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Danger.Render("! " + truncate(m.sessionSnap.LastError.Error(), 100)))
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.HelpBar.Render("tab next field · enter submit · esc back"))
	return m.styles.Box.Render(b.String())
}
