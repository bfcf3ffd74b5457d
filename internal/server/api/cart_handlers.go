package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/cartsync/internal/server/api/middleware"
)

// AddItemRequest represents the add-to-cart request body. variant_id is
// accepted for forward compatibility but unused.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variant_id,omitempty"`
}

// UpdateItemRequest represents the quantity-change request body
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the authenticated user's cart
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCart(w, http.StatusOK, cart)
}

// AddToCart adds a product to the authenticated user's cart
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	cart, err := h.carts.AddItem(r.Context(), middleware.GetUserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCart(w, http.StatusOK, cart)
}

// UpdateCartItem sets a cart line's quantity
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimPrefix(r.URL.Path, "/cart/items/")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "item id is required")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), middleware.GetUserID(r.Context()), itemID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCart(w, http.StatusOK, cart)
}

// RemoveFromCart deletes a cart line
func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	itemID := strings.TrimPrefix(r.URL.Path, "/cart/items/")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "item id is required")
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), middleware.GetUserID(r.Context()), itemID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCart(w, http.StatusOK, cart)
}

// ClearCart empties the authenticated user's cart
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Clear(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCart(w, http.StatusOK, cart)
}
