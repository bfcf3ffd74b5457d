// Package session owns the client's authenticated-session state. The
// container is the single writer of the session entity and of the
// authToken/cachedProfile keys in the local store; everything else
// observes snapshots.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/example/cartsync/internal/client/localstore"
	"github.com/example/cartsync/internal/client/oracle"
)

// State is the session lifecycle position.
type State string

const (
	StateInitializing    State = "initializing"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

// Snapshot is a read-only copy of the session handed to observers.
type Snapshot struct {
	State      State
	Token      string
	Profile    *oracle.Profile
	LastError  error
	Generation uint64
}

// IsAuthenticated reports whether the snapshot represents a live
// authenticated session.
func (s Snapshot) IsAuthenticated() bool {
	return s.State == StateAuthenticated
}

// Listener observes session transitions. Listeners run synchronously
// after the transition commits, outside the container lock.
type Listener func(Snapshot)

// Container reconciles the persisted token against the oracle and
// exposes login/register/logout. Authentication failures during
// startup fail closed: any doubt about token validity ends in the
// logged-out state.
type Container struct {
	mu        sync.Mutex
	oracle    oracle.Oracle
	store     localstore.Store
	state     State
	token     string
	profile   *oracle.Profile
	lastErr   error
	gen       uint64
	listeners []Listener
}

// NewContainer creates a Container in the Initializing state.
func NewContainer(o oracle.Oracle, store localstore.Store) *Container {
	return &Container{
		oracle: o,
		store:  store,
		state:  StateInitializing,
	}
}

// Subscribe registers a listener for session transitions. Not safe to
// call concurrently with transitions; wire listeners during setup.
func (c *Container) Subscribe(l Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Snapshot returns a copy of the current session.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Container) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      c.state,
		Token:      c.token,
		LastError:  c.lastErr,
		Generation: c.gen,
	}
	if c.profile != nil {
		p := *c.profile
		snap.Profile = &p
	}
	return snap
}

// Generation returns the current session generation. Async results
// captured under an older generation must be discarded on arrival.
func (c *Container) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Token returns the current session token, empty when logged out.
func (c *Container) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Container) notify(snap Snapshot) {
	c.mu.Lock()
	ls := make([]Listener, len(c.listeners))
	copy(ls, c.listeners)
	c.mu.Unlock()
	for _, l := range ls {
		l(snap)
	}
}

// Initialize resolves the persisted token against the oracle. No
// token means Unauthenticated. A stored token is validated with
// FetchProfile; any failure, network included, clears both the
// in-memory session and the persisted mirror. No retry is attempted.
func (c *Container) Initialize(ctx context.Context) Snapshot {
	token, ok := c.store.Get(localstore.KeyAuthToken)
	if !ok || token == "" {
		c.mu.Lock()
		c.state = StateUnauthenticated
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return snap
	}

	profile, err := c.oracle.FetchProfile(ctx, token)
	if err != nil {
		log.Printf("[Session] Stored token rejected, logging out: %v", err)
		return c.failClosed(err)
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.token = token
	c.profile = profile
	c.lastErr = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persistMirror(token, profile)
	c.notify(snap)
	return snap
}

// Login authenticates with the oracle. On failure the session is left
// untouched apart from LastError: a failed attempt never logs out a
// user who was already authenticated.
func (c *Container) Login(ctx context.Context, email, password string) (Snapshot, error) {
	return c.authenticate(func() (*oracle.AuthResult, error) {
		return c.oracle.Login(ctx, email, password)
	})
}

// Register creates an account and, like Login, lands directly in the
// authenticated state on success.
func (c *Container) Register(ctx context.Context, input oracle.RegisterInput) (Snapshot, error) {
	return c.authenticate(func() (*oracle.AuthResult, error) {
		return c.oracle.Register(ctx, input)
	})
}

func (c *Container) authenticate(call func() (*oracle.AuthResult, error)) (Snapshot, error) {
	c.mu.Lock()
	prev := c.state
	c.state = StateAuthenticating
	inFlight := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(inFlight)

	res, err := call()
	if err != nil {
		c.mu.Lock()
		c.state = prev
		c.lastErr = err
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return snap, err
	}

	c.mu.Lock()
	c.gen++
	c.state = StateAuthenticated
	c.token = res.Token
	profile := res.Profile
	c.profile = &profile
	c.lastErr = nil
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.persistMirror(res.Token, &profile)
	c.notify(snap)
	return snap, nil
}

// Logout clears the persisted token and mirror and resets the session.
// The generation bump makes any in-flight result for the old identity
// stale.
func (c *Container) Logout() Snapshot {
	return c.reset(nil)
}

// Invalidate is the fail-closed path for an UNAUTHENTICATED error
// surfaced by any operation: identical to Logout but records the
// triggering error.
func (c *Container) Invalidate(err error) Snapshot {
	log.Printf("[Session] Session invalidated: %v", err)
	return c.reset(err)
}

// ClearError drops LastError without touching authentication state.
func (c *Container) ClearError() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

func (c *Container) failClosed(err error) Snapshot {
	return c.reset(err)
}

func (c *Container) reset(err error) Snapshot {
	if rmErr := c.store.Remove(localstore.KeyAuthToken); rmErr != nil {
		log.Printf("[Session] Failed to remove stored token: %v", rmErr)
	}
	if rmErr := c.store.Remove(localstore.KeyCachedProfile); rmErr != nil {
		log.Printf("[Session] Failed to remove cached profile: %v", rmErr)
	}

	c.mu.Lock()
	c.gen++
	c.state = StateUnauthenticated
	c.token = ""
	c.profile = nil
	c.lastErr = err
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return snap
}

func (c *Container) persistMirror(token string, profile *oracle.Profile) {
	if err := c.store.Set(localstore.KeyAuthToken, token); err != nil {
		log.Printf("[Session] Failed to persist token: %v", err)
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		log.Printf("[Session] Failed to encode profile mirror: %v", err)
		return
	}
	if err := c.store.Set(localstore.KeyCachedProfile, string(raw)); err != nil {
		log.Printf("[Session] Failed to persist profile mirror: %v", err)
	}
}
