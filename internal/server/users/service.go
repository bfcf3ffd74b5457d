// Package users implements account registration and authentication on
// top of the store.
package users

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/cartsync/internal/auth"
	"github.com/example/cartsync/internal/server/events"
	"github.com/example/cartsync/internal/server/store"
)

var (
	ErrInvalidEmail       = errors.New("email is required")
	ErrInvalidName        = errors.New("first and last name are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDeactivated    = errors.New("user account is deactivated")
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
	Password    string
}

// Service handles user operations.
type Service struct {
	store     store.Interface
	publisher events.Publisher
}

// NewService creates a new user service. publisher may be nil when no
// broker is configured.
func NewService(s store.Interface, publisher events.Publisher) *Service {
	return &Service{store: s, publisher: publisher}
}

// Register creates a customer account. Event publication is
// best-effort: a broker outage must not block registration.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*store.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, ErrInvalidName
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &store.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Address:      strings.TrimSpace(input.Address),
		Role:         "customer",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, user.ID, events.EventUserRegistered, events.UserRegistered{
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		RegisteredAt: now,
	})

	return user, nil
}

// Authenticate verifies credentials and returns the account. The same
// error covers unknown email and wrong password, so responses don't
// reveal which one failed.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*store.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDeactivated
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	s.publish(ctx, user.ID, events.EventUserLoggedIn, events.UserLoggedIn{
		UserID:   user.ID,
		Email:    user.Email,
		LoggedAt: time.Now(),
	})

	return user, nil
}

// GetProfile returns the account for a validated session.
func (s *Service) GetProfile(ctx context.Context, userID string) (*store.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

func (s *Service) publish(ctx context.Context, key, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, eventType, data); err != nil {
		log.Printf("[Users] Failed to publish %s: %v", eventType, err)
	}
}
