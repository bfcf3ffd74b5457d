// Package mocks provides a scriptable Oracle for container tests.
package mocks

import (
	"context"
	"sync"

	"github.com/example/cartsync/internal/client/oracle"
)

// MockOracle implements oracle.Oracle with per-operation function
// hooks. Unset hooks fail with a NETWORK error so tests notice
// unexpected calls.
type MockOracle struct {
	mu sync.Mutex

	LoginFn          func(ctx context.Context, email, password string) (*oracle.AuthResult, error)
	RegisterFn       func(ctx context.Context, input oracle.RegisterInput) (*oracle.AuthResult, error)
	FetchProfileFn   func(ctx context.Context, token string) (*oracle.Profile, error)
	FetchCartFn      func(ctx context.Context, token string) (*oracle.Cart, error)
	AddCartItemFn    func(ctx context.Context, token, productID string, quantity int, variantID string) (*oracle.Cart, error)
	UpdateCartItemFn func(ctx context.Context, token, cartItemID string, quantity int) (*oracle.Cart, error)
	RemoveCartItemFn func(ctx context.Context, token, cartItemID string) (*oracle.Cart, error)
	ClearCartFn      func(ctx context.Context, token string) (*oracle.Cart, error)
	ListProductsFn   func(ctx context.Context) ([]oracle.Product, error)

	// Calls records operation names in invocation order.
	Calls []string
}

var _ oracle.Oracle = (*MockOracle)(nil)

func (m *MockOracle) record(op string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, op)
	m.mu.Unlock()
}

// CallCount returns how many times op was invoked.
func (m *MockOracle) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func unexpected(op string) error {
	return &oracle.CartError{Kind: oracle.CodeNetwork, Message: "mock: unexpected call to " + op}
}

func (m *MockOracle) Login(ctx context.Context, email, password string) (*oracle.AuthResult, error) {
	m.record("Login")
	if m.LoginFn == nil {
		return nil, unexpected("Login")
	}
	return m.LoginFn(ctx, email, password)
}

func (m *MockOracle) Register(ctx context.Context, input oracle.RegisterInput) (*oracle.AuthResult, error) {
	m.record("Register")
	if m.RegisterFn == nil {
		return nil, unexpected("Register")
	}
	return m.RegisterFn(ctx, input)
}

func (m *MockOracle) FetchProfile(ctx context.Context, token string) (*oracle.Profile, error) {
	m.record("FetchProfile")
	if m.FetchProfileFn == nil {
		return nil, unexpected("FetchProfile")
	}
	return m.FetchProfileFn(ctx, token)
}

func (m *MockOracle) FetchCart(ctx context.Context, token string) (*oracle.Cart, error) {
	m.record("FetchCart")
	if m.FetchCartFn == nil {
		return nil, unexpected("FetchCart")
	}
	return m.FetchCartFn(ctx, token)
}

func (m *MockOracle) AddCartItem(ctx context.Context, token, productID string, quantity int, variantID string) (*oracle.Cart, error) {
	m.record("AddCartItem")
	if m.AddCartItemFn == nil {
		return nil, unexpected("AddCartItem")
	}
	return m.AddCartItemFn(ctx, token, productID, quantity, variantID)
}

func (m *MockOracle) UpdateCartItem(ctx context.Context, token, cartItemID string, quantity int) (*oracle.Cart, error) {
	m.record("UpdateCartItem")
	if m.UpdateCartItemFn == nil {
		return nil, unexpected("UpdateCartItem")
	}
	return m.UpdateCartItemFn(ctx, token, cartItemID, quantity)
}

func (m *MockOracle) RemoveCartItem(ctx context.Context, token, cartItemID string) (*oracle.Cart, error) {
	m.record("RemoveCartItem")
	if m.RemoveCartItemFn == nil {
		return nil, unexpected("RemoveCartItem")
	}
	return m.RemoveCartItemFn(ctx, token, cartItemID)
}

func (m *MockOracle) ClearCart(ctx context.Context, token string) (*oracle.Cart, error) {
	m.record("ClearCart")
	if m.ClearCartFn == nil {
		return nil, unexpected("ClearCart")
	}
	return m.ClearCartFn(ctx, token)
}

func (m *MockOracle) ListProducts(ctx context.Context) ([]oracle.Product, error) {
	m.record("ListProducts")
	if m.ListProductsFn == nil {
		return nil, unexpected("ListProducts")
	}
	return m.ListProductsFn(ctx)
}
