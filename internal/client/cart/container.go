// Package cart maintains the client's single cart view. The cart has
// exactly one source of truth at a time: the local store for guests,
// the remote oracle once authenticated. The container switches sources
// on session transitions and serializes every mutation through the
// active source before reflecting it in memory.
package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/example/cartsync/internal/client/debounce"
	"github.com/example/cartsync/internal/client/localstore"
	"github.com/example/cartsync/internal/client/oracle"
	"github.com/example/cartsync/internal/client/session"
)

const mutationTimeout = 15 * time.Second

// Snapshot is a read-only copy of the container state.
type Snapshot struct {
	Cart      oracle.Cart
	CartError error
	Loading   bool
}

// Container owns the in-memory cart. All methods are safe for
// concurrent use.
type Container struct {
	mu        sync.Mutex
	oracle    oracle.Oracle
	store     localstore.Store
	session   *session.Container
	debouncer *debounce.Debouncer

	src       source
	remote    bool
	cart      oracle.Cart
	confirmed oracle.Cart // last source-confirmed state, rollback target
	cartErr   error
	loading   bool
}

// NewContainer wires a cart container to its collaborators and
// subscribes it to session transitions. Call Close on teardown to stop
// pending debounce timers.
func NewContainer(o oracle.Oracle, store localstore.Store, sess *session.Container, window time.Duration) *Container {
	c := &Container{
		oracle:  o,
		store:   store,
		session: sess,
		src:     &guestSource{store: store},
	}
	c.debouncer = debounce.New(window, c.sendQuantityUpdate)
	sess.Subscribe(c.onSessionChange)
	return c
}

// Close stops pending debounce timers without firing them.
func (c *Container) Close() {
	c.debouncer.Close()
}

// Snapshot returns a copy of the current cart state.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Cart: c.cart.Clone(), CartError: c.cartErr, Loading: c.loading}
}

// ClearError drops the recorded cart error.
func (c *Container) ClearError() {
	c.mu.Lock()
	c.cartErr = nil
	c.mu.Unlock()
}

// Fetch replaces the in-memory cart from the active source. For the
// remote source the response wins wholesale; no merge with local state
// is attempted. A missing or malformed guest mirror yields an empty
// cart.
func (c *Container) Fetch(ctx context.Context) (oracle.Cart, error) {
	c.mu.Lock()
	src := c.src
	gen := c.session.Generation()
	c.loading = true
	c.mu.Unlock()

	fetched, err := src.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.handleFailureLocked(err)
		return c.cart.Clone(), err
	}
	if gen != c.session.Generation() {
		// The session changed identity while the fetch was in flight;
		// the result belongs to a cart that no longer exists here.
		return c.cart.Clone(), nil
	}
	c.commitLocked(fetched)
	return c.cart.Clone(), nil
}

// AddItem adds quantity units of product to the cart. The product
// argument carries the price and stock snapshot the guest path needs;
// the remote path sends only the product ID.
func (c *Container) AddItem(ctx context.Context, product oracle.Product, quantity int, variantID string) (oracle.Cart, error) {
	if err := validQuantity(quantity); err != nil {
		c.recordError(err)
		return c.Snapshot().Cart, err
	}
	return c.mutate(ctx, func(ctx context.Context, src source, cur oracle.Cart) (oracle.Cart, error) {
		return src.add(ctx, cur, product, quantity, variantID)
	})
}

// UpdateItemQuantity sets the quantity of a cart item. Guest updates
// apply synchronously against the mirror. Remote updates apply
// optimistically for display and go through the debouncer, so a burst
// of increments costs one round trip carrying the final value.
func (c *Container) UpdateItemQuantity(itemID string, quantity int) error {
	if err := validQuantity(quantity); err != nil {
		c.recordError(err)
		return err
	}

	c.mu.Lock()
	if !c.remote {
		src, cur := c.src, c.cart
		c.mu.Unlock()
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		next, err := src.update(ctx, cur, itemID, quantity)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.cartErr = err
			return err
		}
		c.commitLocked(next)
		return nil
	}

	// Optimistic display update; c.confirmed keeps the rollback target.
	found := false
	for i, it := range c.cart.Items {
		if it.ID == itemID {
			c.cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		err := &oracle.CartError{Kind: oracle.CodeNotFound, Message: "cart item not found"}
		c.cartErr = err
		c.mu.Unlock()
		return err
	}
	c.cart.Recalculate()
	c.mu.Unlock()

	c.debouncer.Schedule(itemID, quantity)
	return nil
}

// FlushQuantityUpdate fires any pending debounced update for itemID
// immediately, e.g. when an input loses focus.
func (c *Container) FlushQuantityUpdate(itemID string) {
	c.debouncer.Flush(itemID)
}

// sendQuantityUpdate is the debouncer's downstream call: the single
// remote round trip carrying the last scheduled value for a key.
func (c *Container) sendQuantityUpdate(itemID string, quantity int) {
	c.mu.Lock()
	if !c.remote {
		c.mu.Unlock()
		return
	}
	src := c.src
	gen := c.session.Generation()
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
	defer cancel()
	next, err := src.update(ctx, oracle.Cart{}, itemID, quantity)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.session.Generation() {
		return
	}
	if err != nil {
		// Roll back the optimistic display state.
		c.cart = c.confirmed.Clone()
		c.handleFailureLocked(err)
		return
	}
	c.commitLocked(next)
}

// RemoveItem removes a cart item immediately; removal is discrete and
// infrequent, so it bypasses the debouncer.
func (c *Container) RemoveItem(ctx context.Context, itemID string) (oracle.Cart, error) {
	return c.mutate(ctx, func(ctx context.Context, src source, cur oracle.Cart) (oracle.Cart, error) {
		return src.remove(ctx, cur, itemID)
	})
}

// Clear empties the cart through the active source.
func (c *Container) Clear(ctx context.Context) (oracle.Cart, error) {
	return c.mutate(ctx, func(ctx context.Context, src source, cur oracle.Cart) (oracle.Cart, error) {
		return src.clear(ctx)
	})
}

func (c *Container) mutate(ctx context.Context, op func(context.Context, source, oracle.Cart) (oracle.Cart, error)) (oracle.Cart, error) {
	c.mu.Lock()
	src := c.src
	cur := c.cart.Clone()
	gen := c.session.Generation()
	c.loading = true
	c.mu.Unlock()

	next, err := op(ctx, src, cur)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		// The failed mutation must not disturb unrelated items: the
		// cart stays at its pre-call snapshot.
		c.handleFailureLocked(err)
		return c.cart.Clone(), err
	}
	if gen != c.session.Generation() {
		return c.cart.Clone(), nil
	}
	c.commitLocked(next)
	return c.cart.Clone(), nil
}

// commitLocked installs a source-confirmed cart and writes through to
// the local mirror so a reload shows current data before the next
// fetch lands. Callers must hold c.mu.
func (c *Container) commitLocked(next oracle.Cart) {
	c.cart = next.Clone()
	c.confirmed = next.Clone()
	c.cartErr = nil
	if c.remote {
		raw, err := json.Marshal(next)
		if err != nil {
			log.Printf("[Cart] Failed to encode cart mirror: %v", err)
			return
		}
		if err := c.store.Set(localstore.KeyGuestCart, string(raw)); err != nil {
			log.Printf("[Cart] Failed to write cart mirror: %v", err)
		}
	}
}

// handleFailureLocked records the error and routes UNAUTHENTICATED to
// the session's fail-closed path. Callers must hold c.mu.
func (c *Container) handleFailureLocked(err error) {
	c.cartErr = err
	if oracle.IsUnauthenticated(err) {
		go c.session.Invalidate(err)
	}
}

// onSessionChange switches the cart's source of truth when the session
// transitions. Login discards the guest mirror (the authenticated cart
// supersedes it) and pulls the server cart; logout discards the
// authenticated data and falls back to guest storage.
func (c *Container) onSessionChange(snap session.Snapshot) {
	switch snap.State {
	case session.StateAuthenticated:
		c.mu.Lock()
		c.remote = true
		c.src = &remoteSource{oracle: c.oracle, token: c.session.Token}
		c.cart = oracle.Cart{}
		c.confirmed = oracle.Cart{}
		c.cartErr = nil
		c.mu.Unlock()
		if err := c.store.Remove(localstore.KeyGuestCart); err != nil {
			log.Printf("[Cart] Failed to discard guest cart: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		if _, err := c.Fetch(ctx); err != nil {
			log.Printf("[Cart] Failed to fetch cart after login: %v", err)
		}
	case session.StateUnauthenticated:
		c.mu.Lock()
		wasRemote := c.remote
		c.remote = false
		c.src = &guestSource{store: c.store}
		c.cart = oracle.Cart{}
		c.confirmed = oracle.Cart{}
		c.cartErr = nil
		c.mu.Unlock()
		if wasRemote {
			// The mirror holds another identity's cart; it must not
			// leak into the guest session.
			if err := c.store.Remove(localstore.KeyGuestCart); err != nil {
				log.Printf("[Cart] Failed to clear cart mirror: %v", err)
			}
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
			defer cancel()
			if _, err := c.Fetch(ctx); err != nil {
				log.Printf("[Cart] Failed to load guest cart: %v", err)
			}
		}
	}
}

func (c *Container) recordError(err error) {
	c.mu.Lock()
	c.cartErr = err
	c.mu.Unlock()
}

func validQuantity(quantity int) error {
	if quantity < 1 {
		return &oracle.CartError{Kind: oracle.CodeValidation, Message: "quantity must be at least 1"}
	}
	return nil
}
