package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cartsync/internal/auth"
	"github.com/example/cartsync/internal/server/carts"
	"github.com/example/cartsync/internal/server/store"
	"github.com/example/cartsync/internal/server/users"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()

	s := store.NewMemoryStore()
	require.NoError(t, s.PutProduct(context.Background(), &store.Product{
		ID: "p-1", Name: "Widget", Slug: "widget", Image: "/img/widget.png", Price: 500, Stock: 5,
	}))
	require.NoError(t, s.PutProduct(context.Background(), &store.Product{
		ID: "p-2", Name: "Gadget", Slug: "gadget", Price: 12000, Stock: 2,
	}))

	jwtService := auth.NewJWTService("test-secret-key", 15*time.Minute)
	handlers := NewHandlers(users.NewService(s, nil), carts.NewService(s, nil), jwtService, s)

	srv := httptest.NewServer(NewRouter(handlers, jwtService))
	t.Cleanup(srv.Close)
	return srv, s
}

func doRequest(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, url, &payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var envelope struct {
		Err struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, resp, &envelope)
	return envelope.Err.Code
}

type authBody struct {
	Token   string `json:"token"`
	Profile struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		Role      string `json:"role"`
		IsActive  bool   `json:"is_active"`
	} `json:"profile"`
}

type cartBody struct {
	ID    string `json:"id"`
	Items []struct {
		ID        string `json:"id"`
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		UnitPrice int    `json:"unit_price"`
		Product   struct {
			Name  string `json:"name"`
			Slug  string `json:"slug"`
			Stock int    `json:"stock"`
		} `json:"product"`
	} `json:"items"`
	ItemCount      int `json:"item_count"`
	Subtotal       int `json:"subtotal"`
	DiscountAmount int `json:"discount_amount"`
	Total          int `json:"total"`
}

func registerUser(t *testing.T, srv *httptest.Server) authBody {
	t.Helper()
	resp := doRequest(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"first_name":   "Ada",
		"last_name":    "Lovelace",
		"email":        "ada@example.com",
		"phone_number": "555-0100",
		"address":      "1 Analytical Way",
		"password":     "secret-engine",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body authBody
	decodeBody(t, resp, &body)
	return body
}

func TestRegister_ReturnsTokenAndProfile(t *testing.T) {
	srv, _ := newTestServer(t)

	body := registerUser(t, srv)
	assert.NotEmpty(t, body.Token)
	assert.NotEmpty(t, body.Profile.ID)
	assert.Equal(t, "ada@example.com", body.Profile.Email)
	assert.Equal(t, "Ada", body.Profile.FirstName)
	assert.Equal(t, "customer", body.Profile.Role)
	assert.True(t, body.Profile.IsActive)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"first_name": "Ada", "last_name": "Lovelace",
		"email": "ada@example.com", "password": "secret-engine",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_TAKEN", errorCode(t, resp))
}

func TestRegister_ShortPassword(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/auth/register", "", map[string]string{
		"first_name": "Ada", "last_name": "Lovelace",
		"email": "ada@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	registered := registerUser(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "secret-engine",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body authBody
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, registered.Profile.ID, body.Profile.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, resp))
}

func TestMe(t *testing.T) {
	srv, _ := newTestServer(t)
	registered := registerUser(t, srv)

	resp := doRequest(t, http.MethodGet, srv.URL+"/auth/me", registered.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decodeBody(t, resp, &profile)
	assert.Equal(t, registered.Profile.ID, profile.ID)
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestMe_NoToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))
}

func TestCart_RequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))

	resp = doRequest(t, http.MethodPost, srv.URL+"/cart/items", "garbage-token", map[string]any{
		"product_id": "p-1", "quantity": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))
}

func TestCart_EmptyForNewUser(t *testing.T) {
	srv, _ := newTestServer(t)
	user := registerUser(t, srv)

	resp := doRequest(t, http.MethodGet, srv.URL+"/cart", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart cartBody
	decodeBody(t, resp, &cart)
	assert.Equal(t, "cart-"+user.Profile.ID, cart.ID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCart_AddUpdateRemoveClear(t *testing.T) {
	srv, _ := newTestServer(t)
	user := registerUser(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/cart/items", user.Token, map[string]any{
		"product_id": "p-1", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart cartBody
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	itemID := cart.Items[0].ID
	assert.Equal(t, "p-1", cart.Items[0].ProductID)
	assert.Equal(t, 500, cart.Items[0].UnitPrice)
	assert.Equal(t, "Widget", cart.Items[0].Product.Name)
	assert.Equal(t, 2, cart.ItemCount)
	assert.Equal(t, 1000, cart.Subtotal)
	assert.Equal(t, 1000, cart.Total)

	resp = doRequest(t, http.MethodPut, srv.URL+"/cart/items/"+itemID, user.Token, map[string]any{
		"quantity": 4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, 2000, cart.Total)

	resp = doRequest(t, http.MethodDelete, srv.URL+"/cart/items/"+itemID, user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)

	resp = doRequest(t, http.MethodPost, srv.URL+"/cart/items", user.Token, map[string]any{
		"product_id": "p-2", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, srv.URL+"/cart", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCart_DiscountApplied(t *testing.T) {
	srv, _ := newTestServer(t)
	user := registerUser(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/cart/items", user.Token, map[string]any{
		"product_id": "p-2", "quantity": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart cartBody
	decodeBody(t, resp, &cart)
	assert.Equal(t, 12000, cart.Subtotal)
	assert.Equal(t, 600, cart.DiscountAmount)
	assert.Equal(t, 11400, cart.Total)
}

func TestCart_OutOfStock(t *testing.T) {
	srv, _ := newTestServer(t)
	user := registerUser(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/cart/items", user.Token, map[string]any{
		"product_id": "p-1", "quantity": 6,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "OUT_OF_STOCK", errorCode(t, resp))
}

func TestCart_UnknownItem(t *testing.T) {
	srv, _ := newTestServer(t)
	user := registerUser(t, srv)

	resp := doRequest(t, http.MethodPut, srv.URL+"/cart/items/nope", user.Token, map[string]any{
		"quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestCart_InvalidQuantity(t *testing.T) {
	srv, _ := newTestServer(t)
	user := registerUser(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/cart/items", user.Token, map[string]any{
		"product_id": "p-1", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestProducts_List(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Products []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Price int    `json:"price"`
			Stock int    `json:"stock"`
		} `json:"products"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Products, 2)
	assert.Equal(t, "p-1", body.Products[0].ID)
	assert.Equal(t, "Widget", body.Products[0].Name)
}

func TestProducts_Get(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/products/p-2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product struct {
		ID    string `json:"id"`
		Slug  string `json:"slug"`
		Price int    `json:"price"`
	}
	decodeBody(t, resp, &product)
	assert.Equal(t, "p-2", product.ID)
	assert.Equal(t, "gadget", product.Slug)
	assert.Equal(t, 12000, product.Price)

	resp = doRequest(t, http.MethodGet, srv.URL+"/products/p-404", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}
