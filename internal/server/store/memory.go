package store

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps everything in process memory. It backs tests and
// single-node demo runs.
type MemoryStore struct {
	mu           sync.RWMutex
	usersByID    map[string]*User
	usersByEmail map[string]*User
	products     map[string]*Product
	productOrder []string
	carts        map[string]*Cart // userID -> cart
}

var _ Interface = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByID:    make(map[string]*User),
		usersByEmail: make(map[string]*User),
		products:     make(map[string]*Product),
		carts:        make(map[string]*Cart),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := m.usersByEmail[key]; ok {
		return ErrDuplicateEmail
	}
	cp := *u
	m.usersByID[u.ID] = &cp
	m.usersByEmail[key] = &cp
	return nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.usersByID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) PutProduct(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		m.productOrder = append(m.productOrder, p.ID)
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *MemoryStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) ListProducts(ctx context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Product, 0, len(m.productOrder))
	for _, id := range m.productOrder {
		out = append(out, *m.products[id])
	}
	return out, nil
}

func (m *MemoryStore) GetCart(ctx context.Context, userID string) (*Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return cloneCart(c), nil
}

func (m *MemoryStore) SaveCart(ctx context.Context, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.carts[c.UserID]; ok && existing.Version >= c.Version {
		return ErrVersionConflict
	}
	m.carts[c.UserID] = cloneCart(c)
	return nil
}

func (m *MemoryStore) DeleteCart(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func cloneCart(c *Cart) *Cart {
	cp := *c
	if len(c.Items) > 0 {
		cp.Items = make([]CartItem, len(c.Items))
		copy(cp.Items, c.Items)
	}
	return &cp
}
