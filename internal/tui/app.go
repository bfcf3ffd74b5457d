// Package tui provides a Bubble Tea storefront over the client state
// containers: browse the catalog, manage the cart and sign in, with
// quantity edits riding the debounced sync queue underneath.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/cartsync/internal/client/cart"
	"github.com/example/cartsync/internal/client/oracle"
	"github.com/example/cartsync/internal/client/session"
)

// View represents the current active view.
type View int

const (
	ViewProducts View = iota
	ViewCart
	ViewLogin
	ViewRegister
)

// Options configures the UI.
type Options struct {
	Context  context.Context
	Oracle   oracle.Oracle
	Session  *session.Container
	Cart     *cart.Container
	PollTick time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx      context.Context
	oracle   oracle.Oracle
	session  *session.Container
	cart     *cart.Container
	pollTick time.Duration

	keys   keyMap
	styles Styles

	currentView View
	width       int
	height      int
	ready       bool

	sessionSnap session.Snapshot
	cartSnap    cart.Snapshot
	products    []oracle.Product
	loadError   string

	productRow int
	cartRow    int

	// Cart lines with a possibly unsynced quantity edit.
	editedItems map[string]struct{}

	// Login / register form state
	formInputs []textinput.Model
	formFocus  int
	formBusy   bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = 250 * time.Millisecond
	}

	return Model{
		ctx:         ctx,
		oracle:      opts.Oracle,
		session:     opts.Session,
		cart:        opts.Cart,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
		currentView: ViewProducts,
		sessionSnap: opts.Session.Snapshot(),
		cartSnap:    opts.Cart.Snapshot(),
		editedItems: make(map[string]struct{}),
	}
}

type tickMsg time.Time

type productsMsg []oracle.Product

type productsErrMsg struct{ err error }

type refreshMsg struct{}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) initSessionCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Initialize(m.ctx)
		return refreshMsg{}
	}
}

func (m Model) listProductsCmd() tea.Cmd {
	return func() tea.Msg {
		products, err := m.oracle.ListProducts(m.ctx)
		if err != nil {
			return productsErrMsg{err: err}
		}
		return productsMsg(products)
	}
}

func (m Model) fetchCartCmd() tea.Cmd {
	return func() tea.Msg {
		_, _ = m.cart.Fetch(m.ctx)
		return refreshMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		m.initSessionCmd(),
		m.listProductsCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		// Containers mutate in the background (debounce expiries,
		// session invalidation); the tick keeps the snapshots fresh.
		m.refreshSnapshots()
		return m, tickCmd(m.pollTick)

	case refreshMsg:
		m.refreshSnapshots()
		m.formBusy = false
		if (m.currentView == ViewLogin || m.currentView == ViewRegister) && m.sessionSnap.IsAuthenticated() {
			m.currentView = ViewProducts
			m.formInputs = nil
		}
		return m, nil

	case productsMsg:
		m.products = msg
		m.loadError = ""
		m.clampRows()
		return m, nil

	case productsErrMsg:
		m.loadError = msg.err.Error()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.currentView {
	case ViewLogin, ViewRegister:
		return m.renderForm()
	case ViewCart:
		return m.renderCart()
	default:
		return m.renderProducts()
	}
}

func (m *Model) refreshSnapshots() {
	m.sessionSnap = m.session.Snapshot()
	m.cartSnap = m.cart.Snapshot()
	m.clampRows()
}

func (m *Model) clampRows() {
	if m.productRow >= len(m.products) {
		m.productRow = len(m.products) - 1
	}
	if m.productRow < 0 {
		m.productRow = 0
	}
	items := len(m.cartSnap.Cart.Items)
	if m.cartRow >= items {
		m.cartRow = items - 1
	}
	if m.cartRow < 0 {
		m.cartRow = 0
	}
}
