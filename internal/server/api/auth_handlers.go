package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/cartsync/internal/server/api/middleware"
	"github.com/example/cartsync/internal/server/users"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Password    string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the bearer token plus the account it belongs to.
type AuthResponse struct {
	Token   string      `json:"token"`
	Profile profileView `json:"profile"`
}

// Register handles user registration
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), users.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Password:    req.Password,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, _, err := h.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "could not issue token")
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponse{Token: token, Profile: toProfileView(user)})
}

// Login handles user login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, _, err := h.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "could not issue token")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{Token: token, Profile: toProfileView(user)})
}

// Me returns the current authenticated user's profile
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	user, err := h.users.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProfileView(user))
}
