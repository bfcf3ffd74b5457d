package carts

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cartsync/internal/server/store"
)

// recordingPublisher captures published event types.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, key, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func newTestCartService(t *testing.T) (*Service, *store.MemoryStore, *recordingPublisher) {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.PutProduct(context.Background(), &store.Product{
		ID: "p-1", Name: "Widget", Slug: "widget", Price: 500, Stock: 5,
	}))
	require.NoError(t, s.PutProduct(context.Background(), &store.Product{
		ID: "p-2", Name: "Gadget", Slug: "gadget", Price: 12000, Stock: 2,
	}))
	pub := &recordingPublisher{}
	return NewService(s, pub), s, pub
}

func TestCartID(t *testing.T) {
	assert.Equal(t, "cart-user-123", CartID("user-123"))
}

func TestGet_EmptyCartForNewUser(t *testing.T) {
	svc, _, _ := newTestCartService(t)

	cart, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-u-1", cart.ID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Version)
}

func TestAddItem_CreatesLineWithSnapshot(t *testing.T) {
	svc, _, pub := newTestCartService(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u-1", "p-1", 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	it := cart.Items[0]
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, "p-1", it.ProductID)
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, 500, it.UnitPrice)
	assert.Equal(t, "Widget", it.ProductName)
	assert.Equal(t, 5, it.ProductStock)
	assert.Equal(t, 1, cart.Version)

	assert.Contains(t, pub.events, "CartUpdated")
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	svc, _, _ := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u-1", "p-1", 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "u-1", "p-1", 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 2, cart.Version)
}

func TestAddItem_EnforcesStock(t *testing.T) {
	svc, _, _ := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u-1", "p-1", 6)
	assert.ErrorIs(t, err, ErrOutOfStock)

	// Merging past the stock limit is also rejected.
	_, err = svc.AddItem(ctx, "u-1", "p-1", 3)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u-1", "p-1", 3)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestAddItem_Validation(t *testing.T) {
	svc, _, _ := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u-1", "", 1)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.AddItem(ctx, "u-1", "p-1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, "u-1", "p-404", 1)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestUpdateItem(t *testing.T) {
	svc, _, _ := newTestCartService(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u-1", "p-1", 1)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateItem(ctx, "u-1", itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, "u-1", itemID, 9)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = svc.UpdateItem(ctx, "u-1", "nope", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.UpdateItem(ctx, "u-1", itemID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestRemoveItem(t *testing.T) {
	svc, _, _ := newTestCartService(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "u-1", "p-1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u-1", "p-2", 1)
	require.NoError(t, err)

	got, err := svc.RemoveItem(ctx, "u-1", cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p-2", got.Items[0].ProductID)

	_, err = svc.RemoveItem(ctx, "u-1", "nope")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestClear(t *testing.T) {
	svc, s, pub := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u-1", "p-1", 2)
	require.NoError(t, err)

	cart, err := svc.Clear(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Contains(t, pub.events, "CartCleared")

	_, err = s.GetCart(ctx, "u-1")
	assert.ErrorIs(t, err, store.ErrCartNotFound)
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []store.CartItem
		wantCount    int
		wantSubtotal int
		wantDiscount int
		wantTotal    int
	}{
		{"empty cart", nil, 0, 0, 0, 0},
		{
			"below discount threshold",
			[]store.CartItem{{Quantity: 3, UnitPrice: 500}},
			3, 1500, 0, 1500,
		},
		{
			"at discount threshold",
			[]store.CartItem{{Quantity: 2, UnitPrice: 5000}},
			2, 10000, 500, 9500,
		},
		{
			"multiple lines",
			[]store.CartItem{{Quantity: 1, UnitPrice: 12000}, {Quantity: 2, UnitPrice: 500}},
			3, 13000, 650, 12350,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, subtotal, discount, total := Totals(&store.Cart{Items: tt.items})
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantSubtotal, subtotal)
			assert.Equal(t, tt.wantDiscount, discount)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}
