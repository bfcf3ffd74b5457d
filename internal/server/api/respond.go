package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/cartsync/internal/auth"
	"github.com/example/cartsync/internal/server/carts"
	"github.com/example/cartsync/internal/server/store"
	"github.com/example/cartsync/internal/server/users"
)

// Error codes shared with clients.
const (
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeEmailTaken         = "EMAIL_TAKEN"
	codeValidation         = "VALIDATION"
	codeUnauthenticated    = "UNAUTHENTICATED"
	codeOutOfStock         = "OUT_OF_STOCK"
	codeNotFound           = "NOT_FOUND"
	codeInternal           = "INTERNAL"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// respondServiceError maps domain sentinels onto wire codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidCredentials), errors.Is(err, users.ErrUserDeactivated):
		respondError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	case errors.Is(err, store.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, codeEmailTaken, err.Error())
	case errors.Is(err, users.ErrInvalidEmail),
		errors.Is(err, users.ErrInvalidName),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, carts.ErrInvalidQuantity),
		errors.Is(err, carts.ErrInvalidProduct):
		respondError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, carts.ErrOutOfStock):
		respondError(w, http.StatusConflict, codeOutOfStock, err.Error())
	case errors.Is(err, carts.ErrItemNotFound),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrUserNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
