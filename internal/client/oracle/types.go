// Package oracle defines the client's view of the remote session
// oracle: the typed operations the state containers call, the wire
// shapes they exchange, and the error taxonomy they branch on.
package oracle

import (
	"context"
	"time"
)

// Profile is the authenticated user's account data. The client treats
// it as immutable; changes round-trip through the server.
type Profile struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductSnapshot is the slice of product data captured on a cart item
// at the time it was added.
type ProductSnapshot struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Slug  string `json:"slug"`
	Stock int    `json:"stock"`
}

// CartItem is one line of a cart. ID is server-assigned and empty for
// guest-cart items that have never been persisted remotely.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice int             `json:"unit_price"`
	Product   ProductSnapshot `json:"product"`
}

// Cart is a full cart snapshot. ID is empty for guest carts, which
// have no server identity. All money amounts are in cents.
type Cart struct {
	ID             string     `json:"id"`
	Items          []CartItem `json:"items"`
	ItemCount      int        `json:"item_count"`
	Subtotal       int        `json:"subtotal"`
	DiscountAmount int        `json:"discount_amount"`
	Total          int        `json:"total"`
}

// Recalculate recomputes ItemCount, Subtotal and Total from Items.
// Only guest carts use it; for authenticated carts the server's totals
// are authoritative and the client never rederives them.
func (c *Cart) Recalculate() {
	count, subtotal := 0, 0
	for _, it := range c.Items {
		count += it.Quantity
		subtotal += it.Quantity * it.UnitPrice
	}
	c.ItemCount = count
	c.Subtotal = subtotal
	c.Total = subtotal - c.DiscountAmount
}

// Clone returns a deep copy, so a held snapshot cannot be mutated
// through a later in-place edit of the original.
func (c Cart) Clone() Cart {
	dup := c
	if len(c.Items) > 0 {
		dup.Items = make([]CartItem, len(c.Items))
		copy(dup.Items, c.Items)
	} else {
		dup.Items = nil
	}
	return dup
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Password    string `json:"password"`
}

// AuthResult is what a successful login or registration returns.
type AuthResult struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// Product is a catalog entry, used by UI consumers for browsing.
type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
	Price int    `json:"price"`
	Stock int    `json:"stock"`
}

// Oracle is the remote source of truth for sessions and authenticated
// carts. Implementations map transport failures into AuthError or
// CartError with kind NETWORK.
type Oracle interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	FetchProfile(ctx context.Context, token string) (*Profile, error)

	FetchCart(ctx context.Context, token string) (*Cart, error)
	AddCartItem(ctx context.Context, token, productID string, quantity int, variantID string) (*Cart, error)
	UpdateCartItem(ctx context.Context, token, cartItemID string, quantity int) (*Cart, error)
	RemoveCartItem(ctx context.Context, token, cartItemID string) (*Cart, error)
	ClearCart(ctx context.Context, token string) (*Cart, error)

	ListProducts(ctx context.Context) ([]Product, error)
}
