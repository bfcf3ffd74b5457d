package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/cartsync/internal/client/localstore"
	"github.com/example/cartsync/internal/client/oracle"
)

// source is the tagged union behind the container: every operation
// dispatches on the active source instead of branching on auth flags
// at call sites. Exactly one source is active at a time.
type source interface {
	fetch(ctx context.Context) (oracle.Cart, error)
	add(ctx context.Context, cur oracle.Cart, product oracle.Product, quantity int, variantID string) (oracle.Cart, error)
	update(ctx context.Context, cur oracle.Cart, itemID string, quantity int) (oracle.Cart, error)
	remove(ctx context.Context, cur oracle.Cart, itemID string) (oracle.Cart, error)
	clear(ctx context.Context) (oracle.Cart, error)
}

// guestSource keeps the cart entirely in the local store. There is no
// server identity, so totals are computed client-side and stock checks
// run against the product snapshot captured at add time.
type guestSource struct {
	store localstore.Store
}

func (g *guestSource) fetch(ctx context.Context) (oracle.Cart, error) {
	raw, ok := g.store.Get(localstore.KeyGuestCart)
	if !ok {
		return oracle.Cart{}, nil
	}
	var c oracle.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		// Malformed mirror degrades to an empty cart.
		return oracle.Cart{}, nil
	}
	return c, nil
}

func (g *guestSource) add(ctx context.Context, cur oracle.Cart, product oracle.Product, quantity int, variantID string) (oracle.Cart, error) {
	next := cur.Clone()

	merged := false
	for i, it := range next.Items {
		if it.ProductID != product.ID {
			continue
		}
		if it.Quantity+quantity > it.Product.Stock {
			return cur, &oracle.CartError{
				Kind:    oracle.CodeOutOfStock,
				Message: fmt.Sprintf("only %d of %s in stock", it.Product.Stock, product.Name),
			}
		}
		next.Items[i].Quantity += quantity
		merged = true
		break
	}
	if !merged {
		if quantity > product.Stock {
			return cur, &oracle.CartError{
				Kind:    oracle.CodeOutOfStock,
				Message: fmt.Sprintf("only %d of %s in stock", product.Stock, product.Name),
			}
		}
		next.Items = append(next.Items, oracle.CartItem{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			Product: oracle.ProductSnapshot{
				Name:  product.Name,
				Image: product.Image,
				Slug:  product.Slug,
				Stock: product.Stock,
			},
		})
	}

	next.Recalculate()
	if err := g.persist(next); err != nil {
		return cur, err
	}
	return next, nil
}

func (g *guestSource) update(ctx context.Context, cur oracle.Cart, itemID string, quantity int) (oracle.Cart, error) {
	next := cur.Clone()
	for i, it := range next.Items {
		if it.ID != itemID {
			continue
		}
		if quantity > it.Product.Stock {
			return cur, &oracle.CartError{
				Kind:    oracle.CodeOutOfStock,
				Message: fmt.Sprintf("only %d of %s in stock", it.Product.Stock, it.Product.Name),
			}
		}
		next.Items[i].Quantity = quantity
		next.Recalculate()
		if err := g.persist(next); err != nil {
			return cur, err
		}
		return next, nil
	}
	return cur, &oracle.CartError{Kind: oracle.CodeNotFound, Message: "cart item not found"}
}

func (g *guestSource) remove(ctx context.Context, cur oracle.Cart, itemID string) (oracle.Cart, error) {
	next := cur.Clone()
	kept := next.Items[:0]
	found := false
	for _, it := range next.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return cur, &oracle.CartError{Kind: oracle.CodeNotFound, Message: "cart item not found"}
	}
	next.Items = kept
	next.Recalculate()
	if err := g.persist(next); err != nil {
		return cur, err
	}
	return next, nil
}

func (g *guestSource) clear(ctx context.Context) (oracle.Cart, error) {
	if err := g.store.Remove(localstore.KeyGuestCart); err != nil {
		return oracle.Cart{}, &oracle.CartError{Kind: oracle.CodeValidation, Message: err.Error()}
	}
	return oracle.Cart{}, nil
}

func (g *guestSource) persist(c oracle.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return &oracle.CartError{Kind: oracle.CodeValidation, Message: err.Error()}
	}
	if err := g.store.Set(localstore.KeyGuestCart, string(raw)); err != nil {
		return &oracle.CartError{Kind: oracle.CodeValidation, Message: err.Error()}
	}
	return nil
}

// remoteSource proxies every operation to the oracle, which is
// authoritative for item identity and all totals. The current cart is
// ignored as input: each response replaces local state wholesale.
type remoteSource struct {
	oracle oracle.Oracle
	token  func() string
}

func (r *remoteSource) fetch(ctx context.Context) (oracle.Cart, error) {
	c, err := r.oracle.FetchCart(ctx, r.token())
	if err != nil {
		return oracle.Cart{}, err
	}
	return *c, nil
}

func (r *remoteSource) add(ctx context.Context, _ oracle.Cart, product oracle.Product, quantity int, variantID string) (oracle.Cart, error) {
	c, err := r.oracle.AddCartItem(ctx, r.token(), product.ID, quantity, variantID)
	if err != nil {
		return oracle.Cart{}, err
	}
	return *c, nil
}

func (r *remoteSource) update(ctx context.Context, _ oracle.Cart, itemID string, quantity int) (oracle.Cart, error) {
	c, err := r.oracle.UpdateCartItem(ctx, r.token(), itemID, quantity)
	if err != nil {
		return oracle.Cart{}, err
	}
	return *c, nil
}

func (r *remoteSource) remove(ctx context.Context, _ oracle.Cart, itemID string) (oracle.Cart, error) {
	c, err := r.oracle.RemoveCartItem(ctx, r.token(), itemID)
	if err != nil {
		return oracle.Cart{}, err
	}
	return *c, nil
}

func (r *remoteSource) clear(ctx context.Context) (oracle.Cart, error) {
	c, err := r.oracle.ClearCart(ctx, r.token())
	if err != nil {
		return oracle.Cart{}, err
	}
	return *c, nil
}
