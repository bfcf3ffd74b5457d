package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 10 * time.Second

// Client talks to the storefront HTTP API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// Ensure Client implements Oracle at compile time.
var _ Oracle = (*Client)(nil)

// NewClient builds a Client for the given base URL, e.g.
// "http://127.0.0.1:8080".
func NewClient(base string) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("oracle: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("oracle: base url %q must include scheme and host", base)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: requestTimeout},
	}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &out); err != nil {
		return nil, asAuthError(err)
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", input, &out); err != nil {
		return nil, asAuthError(err)
	}
	return &out, nil
}

func (c *Client) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, asAuthError(err)
	}
	return &out, nil
}

func (c *Client) FetchCart(ctx context.Context, token string) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, &out); err != nil {
		return nil, asCartError(err)
	}
	return &out, nil
}

func (c *Client) AddCartItem(ctx context.Context, token, productID string, quantity int, variantID string) (*Cart, error) {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	if variantID != "" {
		body["variant_id"] = variantID
	}
	var out Cart
	if err := c.do(ctx, http.MethodPost, "/cart/items", token, body, &out); err != nil {
		return nil, asCartError(err)
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, token, cartItemID string, quantity int) (*Cart, error) {
	body := map[string]any{"quantity": quantity}
	var out Cart
	if err := c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(cartItemID), token, body, &out); err != nil {
		return nil, asCartError(err)
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, token, cartItemID string) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(cartItemID), token, nil, &out); err != nil {
		return nil, asCartError(err)
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context, token string) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodDelete, "/cart", token, nil, &out); err != nil {
		return nil, asCartError(err)
	}
	return &out, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/products", "", nil, &out); err != nil {
		return nil, asCartError(err)
	}
	return out.Products, nil
}

// wireError is the server's error envelope.
type wireError struct {
	Err struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// apiError is the raw decoded failure before taxonomy mapping.
type apiError struct {
	code    string
	message string
}

func (e *apiError) Error() string { return e.code + ": " + e.message }

func (c *Client) do(ctx context.Context, method, path, token string, body, dest any) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &apiError{code: CodeNetwork, message: fmt.Sprintf("encode request: %v", err)}
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return &apiError{code: CodeNetwork, message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &apiError{code: CodeNetwork, message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var we wireError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&we); decodeErr == nil && we.Err.Code != "" {
			return &apiError{code: we.Err.Code, message: we.Err.Message}
		}
		return &apiError{code: CodeNetwork, message: fmt.Sprintf("%s %s returned status %d", method, path, resp.StatusCode)}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &apiError{code: CodeNetwork, message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func asAuthError(err error) error {
	if ae, ok := err.(*apiError); ok {
		return &AuthError{Kind: ae.code, Message: ae.message}
	}
	return &AuthError{Kind: CodeNetwork, Message: err.Error()}
}

// asCartError maps a raw failure into the cart taxonomy, except that
// UNAUTHENTICATED stays an AuthError: it means the session is dead, not
// that the cart operation was invalid.
func asCartError(err error) error {
	if ae, ok := err.(*apiError); ok {
		if ae.code == CodeUnauthenticated {
			return &AuthError{Kind: CodeUnauthenticated, Message: ae.message}
		}
		return &CartError{Kind: ae.code, Message: ae.message}
	}
	return &CartError{Kind: CodeNetwork, Message: err.Error()}
}
