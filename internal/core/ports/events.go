package ports

import (
	"context"

	"github.com/moneymanager/money-api/internal/core/domain"
)

// EventPublisher emits domain events. Callers treat failures as non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// EventHandler processes one consumed event.
type EventHandler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// Mailer delivers a notification to an e-mail address.
type Mailer interface {
	Send(ctx context.Context, to string, n domain.Notification) error
}
