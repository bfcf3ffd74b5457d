package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(id, email string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		Email:     email,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      "customer",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStore_Users(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("u-1", "ada@example.com")))

	u, err := s.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	// Email lookup is case-insensitive.
	u, err = s.GetUserByEmail(ctx, "ADA@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	u, err = s.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)

	_, err = s.GetUserByID(ctx, "u-404")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("u-1", "ada@example.com")))
	err := s.CreateUser(ctx, testUser("u-2", "Ada@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryStore_Products(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.PutProduct(ctx, &Product{ID: "p-1", Name: "Widget", Price: 500, Stock: 5}))
	require.NoError(t, s.PutProduct(ctx, &Product{ID: "p-2", Name: "Gadget", Price: 900, Stock: 2}))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	p, err := s.GetProduct(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Gadget", p.Name)

	_, err = s.GetProduct(ctx, "p-404")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_CartVersioning(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetCart(ctx, "u-1")
	assert.ErrorIs(t, err, ErrCartNotFound)

	cart := &Cart{ID: "c-1", UserID: "u-1", Version: 1, UpdatedAt: time.Now()}
	require.NoError(t, s.SaveCart(ctx, cart))

	// A save derived from a stale version is rejected.
	stale := &Cart{ID: "c-1", UserID: "u-1", Version: 1, UpdatedAt: time.Now()}
	assert.ErrorIs(t, s.SaveCart(ctx, stale), ErrVersionConflict)

	next := &Cart{ID: "c-1", UserID: "u-1", Version: 2, UpdatedAt: time.Now()}
	require.NoError(t, s.SaveCart(ctx, next))

	got, err := s.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)

	require.NoError(t, s.DeleteCart(ctx, "u-1"))
	_, err = s.GetCart(ctx, "u-1")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestMemoryStore_CartIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	cart := &Cart{ID: "c-1", UserID: "u-1", Version: 1,
		Items: []CartItem{{ID: "ci-1", ProductID: "p-1", Quantity: 1}}}
	require.NoError(t, s.SaveCart(ctx, cart))

	got, err := s.GetCart(ctx, "u-1")
	require.NoError(t, err)
	got.Items[0].Quantity = 99

	again, err := s.GetCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity, "stored cart must not alias returned copies")
}
