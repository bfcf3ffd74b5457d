package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/cartsync/internal/server/events"
)

// Handler processes events for sending notifications
type Handler struct {
	sender Sender
}

func NewHandler(sender Sender) *Handler {
	return &Handler{sender: sender}
}

// HandleEvent processes one event record from the broker. Unknown event
// types are skipped without error so the consumer keeps advancing.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var envelope events.Envelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if envelope.EventType == events.EventUserRegistered {
		return h.handleUserRegistered(envelope)
	}
	return nil
}

func (h *Handler) handleUserRegistered(envelope events.Envelope) error {
	var e events.UserRegistered
	if err := json.Unmarshal(envelope.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal UserRegistered event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing UserRegistered event for user %s", e.UserID)

	subject := "Welcome to the shop"
	body := BuildWelcomeBody(e.FirstName)
	if err := h.sender.Send(e.Email, subject, body); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", e.Email, err)
		return err
	}

	log.Printf("[Notifier] Welcome email sent to %s", e.Email)
	return nil
}
