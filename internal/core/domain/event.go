package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a domain event published after a successful write.
type EventType string

const (
	EventUserRegistered     EventType = "user.registered"
	EventPasswordChanged    EventType = "user.password_changed"
	EventTransactionAdded   EventType = "transaction.added"
	EventTransactionUpdated EventType = "transaction.updated"
	EventTransactionDeleted EventType = "transaction.deleted"
)

// Event is the message published to the broker.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Username   string            `json:"username"`
	Email      string            `json:"email,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Payload    map[string]string `json:"payload,omitempty"`
}

func NewEvent(typ EventType, username, email string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Username:   username,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// TransactionEvent builds the event for a write on t.
func TransactionEvent(typ EventType, t *Transaction) Event {
	ev := NewEvent(typ, t.OwnerUsername, "")
	ev.Payload = map[string]string{
		"id":       t.ID,
		"kind":     string(t.Kind),
		"category": t.Category,
		"date":     t.Date.String(),
	}
	return ev
}

// Notification is the user-facing message derived from an Event.
type Notification struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}
