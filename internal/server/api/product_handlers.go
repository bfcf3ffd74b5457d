package api

import (
	"net/http"
	"strings"
)

// GetProducts lists the catalog
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, toProductView(&products[i]))
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": views})
}

// GetProduct returns a single catalog entry
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/products/")
	if id == "" {
		respondError(w, http.StatusBadRequest, codeValidation, "product id is required")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductView(product))
}
