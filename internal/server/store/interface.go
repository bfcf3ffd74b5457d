// Package store persists users, products and carts behind a single
// interface with in-memory, PostgreSQL and DynamoDB backends.
package store

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrVersionConflict = errors.New("cart version conflict")
)

// Interface is the persistence contract the server's services depend on.
type Interface interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)

	PutProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)

	// GetCart returns ErrCartNotFound for users who have never saved one.
	GetCart(ctx context.Context, userID string) (*Cart, error)
	// SaveCart persists the cart with its Version already incremented by
	// the caller; backends with conditional writes reject stale versions
	// with ErrVersionConflict.
	SaveCart(ctx context.Context, c *Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
