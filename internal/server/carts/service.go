// Package carts owns server-side cart state. Every mutation loads the
// stored cart, applies the change, recomputes the version, and saves —
// the server is the source of truth for item identity, stock checks
// and totals.
package carts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/cartsync/internal/server/events"
	"github.com/example/cartsync/internal/server/store"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrOutOfStock      = errors.New("insufficient stock")
)

// CartID returns the cart ID for a user (one cart per user).
func CartID(userID string) string {
	return "cart-" + userID
}

// Service handles cart operations.
type Service struct {
	store     store.Interface
	publisher events.Publisher
}

// NewService creates a new cart service. publisher may be nil when no
// broker is configured.
func NewService(s store.Interface, publisher events.Publisher) *Service {
	return &Service{store: s, publisher: publisher}
}

// Get returns the user's cart, or a fresh empty one if none is stored.
func (s *Service) Get(ctx context.Context, userID string) (*store.Cart, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		return &store.Cart{ID: CartID(userID), UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity units of a product, merging with an existing
// line for the same product. Stock is enforced against the catalog's
// current count.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*store.Cart, error) {
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i, it := range cart.Items {
		if it.ProductID != productID {
			continue
		}
		if it.Quantity+quantity > product.Stock {
			return nil, fmt.Errorf("%w: only %d of %s available", ErrOutOfStock, product.Stock, product.Name)
		}
		cart.Items[i].Quantity += quantity
		cart.Items[i].ProductStock = product.Stock
		merged = true
		break
	}
	if !merged {
		if quantity > product.Stock {
			return nil, fmt.Errorf("%w: only %d of %s available", ErrOutOfStock, product.Stock, product.Name)
		}
		cart.Items = append(cart.Items, store.CartItem{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			Quantity:     quantity,
			UnitPrice:    product.Price,
			ProductName:  product.Name,
			ProductImage: product.Image,
			ProductSlug:  product.Slug,
			ProductStock: product.Stock,
		})
	}

	return s.save(ctx, cart)
}

// UpdateItem sets an item's quantity, re-checking stock against the
// catalog at update time.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*store.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i, it := range cart.Items {
		if it.ID != itemID {
			continue
		}
		product, err := s.store.GetProduct(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if quantity > product.Stock {
			return nil, fmt.Errorf("%w: only %d of %s available", ErrOutOfStock, product.Stock, product.Name)
		}
		cart.Items[i].Quantity = quantity
		cart.Items[i].ProductStock = product.Stock
		return s.save(ctx, cart)
	}
	return nil, ErrItemNotFound
}

// RemoveItem deletes a cart line.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*store.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	found := false
	for _, it := range cart.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	cart.Items = kept
	return s.save(ctx, cart)
}

// Clear removes the stored cart entirely.
func (s *Service) Clear(ctx context.Context, userID string) (*store.Cart, error) {
	if err := s.store.DeleteCart(ctx, userID); err != nil {
		return nil, err
	}

	s.publish(ctx, userID, events.EventCartCleared, events.CartCleared{
		CartID:    CartID(userID),
		UserID:    userID,
		ClearedAt: time.Now(),
	})

	return &store.Cart{ID: CartID(userID), UserID: userID}, nil
}

func (s *Service) save(ctx context.Context, cart *store.Cart) (*store.Cart, error) {
	cart.Version++
	cart.UpdatedAt = time.Now()
	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	itemCount, _, _, total := Totals(cart)
	s.publish(ctx, cart.UserID, events.EventCartUpdated, events.CartUpdated{
		CartID:    cart.ID,
		UserID:    cart.UserID,
		ItemCount: itemCount,
		Total:     total,
		UpdatedAt: cart.UpdatedAt,
	})

	return cart, nil
}

func (s *Service) publish(ctx context.Context, key, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, eventType, data); err != nil {
		log.Printf("[Carts] Failed to publish %s: %v", eventType, err)
	}
}
