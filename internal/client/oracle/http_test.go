package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorBody(code, message string) []byte {
	raw, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
	return raw
}

func TestClient_Login_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req["email"])
		assert.Equal(t, "secret12", req["password"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AuthResult{
			Token:   "tok-1",
			Profile: Profile{ID: "u-1", Email: "a@b.com", Role: "customer"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	res, err := c.Login(context.Background(), "a@b.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "u-1", res.Profile.ID)
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write(errorBody(CodeInvalidCredentials, "invalid email or password"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "a@b.com", "wrong")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, CodeInvalidCredentials, ae.Kind)
	assert.Equal(t, "invalid email or password", ae.Message)
}

func TestClient_FetchProfile_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(Profile{ID: "u-9"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	p, err := c.FetchProfile(context.Background(), "tok-9")
	require.NoError(t, err)
	assert.Equal(t, "u-9", p.ID)
}

func TestClient_AddCartItem_OutOfStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write(errorBody(CodeOutOfStock, "only 2 left"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.AddCartItem(context.Background(), "tok", "p-1", 5, "")
	var ce *CartError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CodeOutOfStock, ce.Kind)
}

func TestClient_CartOp_UnauthenticatedBecomesAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write(errorBody(CodeUnauthenticated, "token expired"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchCart(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))
}

func TestClient_NetworkFailureMapsToNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchCart(context.Background(), "tok")
	var ce *CartError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CodeNetwork, ce.Kind)

	_, err = c.Login(context.Background(), "a@b.com", "pw")
	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, CodeNetwork, ae.Kind)
}

func TestClient_ErrorWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchCart(context.Background(), "tok")
	var ce *CartError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CodeNetwork, ce.Kind)
}

func TestNewClient_RejectsBareHost(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)
}

func TestCart_Recalculate(t *testing.T) {
	c := Cart{
		Items: []CartItem{
			{ProductID: "p-1", Quantity: 3, UnitPrice: 500},
			{ProductID: "p-2", Quantity: 1, UnitPrice: 1200},
		},
	}
	c.Recalculate()

	assert.Equal(t, 4, c.ItemCount)
	assert.Equal(t, 2700, c.Subtotal)
	assert.Equal(t, 2700, c.Total)
}

func TestCart_CloneIsIndependent(t *testing.T) {
	orig := Cart{Items: []CartItem{{ProductID: "p-1", Quantity: 1}}}
	dup := orig.Clone()
	dup.Items[0].Quantity = 99

	assert.Equal(t, 1, orig.Items[0].Quantity)
}
