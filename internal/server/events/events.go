// Package events publishes the server's domain events to Kafka and
// wraps consumption for worker processes.
package events

import (
	"encoding/json"
	"time"
)

const (
	EventUserRegistered = "UserRegistered"
	EventUserLoggedIn   = "UserLoggedIn"
	EventCartUpdated    = "CartUpdated"
	EventCartCleared    = "CartCleared"
)

// Envelope wraps every published event.
type Envelope struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type UserRegistered struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserLoggedIn struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	LoggedAt time.Time `json:"logged_at"`
}

type CartUpdated struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	ItemCount int       `json:"item_count"`
	Total     int       `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	ClearedAt time.Time `json:"cleared_at"`
}
