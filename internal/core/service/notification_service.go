package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

// NotificationService turns consumed domain events into notifications and
// mails the account-related ones.
type NotificationService struct {
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewNotificationService(mailer ports.Mailer, log zerolog.Logger) *NotificationService {
	return &NotificationService{mailer: mailer, log: log}
}

func (s *NotificationService) Handle(ctx context.Context, ev domain.Event) error {
	n, mail := NotificationFor(ev)
	if !mail {
		s.log.Info().
			Str("event_type", string(ev.Type)).
			Str("username", ev.Username).
			Str("title", n.Title).
			Msg("notification recorded")
		return nil
	}

	if ev.Email == "" {
		s.log.Warn().Str("event_type", string(ev.Type)).Str("username", ev.Username).Msg("no recipient address, skipping mail")
		return nil
	}

	if err := s.mailer.Send(ctx, ev.Email, n); err != nil {
		return fmt.Errorf("notify %s: %w", ev.Username, err)
	}
	return nil
}

// NotificationFor builds the notification for ev and reports whether it
// should be mailed.
func NotificationFor(ev domain.Event) (domain.Notification, bool) {
	n := domain.Notification{Type: "info", Timestamp: ev.OccurredAt}
	mail := false

	switch ev.Type {
	case domain.EventUserRegistered:
		n.Title = "Welcome to Money Manager"
		n.Message = fmt.Sprintf("Hi %s, your account is ready. Start by adding your first income or expense.", ev.Username)
		n.Type = "success"
		mail = true
	case domain.EventPasswordChanged:
		n.Title = "Password changed"
		n.Message = fmt.Sprintf("The password of %s was changed. If this was not you, contact support.", ev.Username)
		n.Type = "warning"
		mail = true
	case domain.EventTransactionAdded:
		n.Title = "Transaction added"
		n.Message = fmt.Sprintf("New %s in %s on %s.", ev.Payload["kind"], ev.Payload["category"], ev.Payload["date"])
	case domain.EventTransactionUpdated:
		n.Title = "Transaction updated"
		n.Message = fmt.Sprintf("The %s %s was updated.", ev.Payload["kind"], ev.Payload["id"])
	case domain.EventTransactionDeleted:
		n.Title = "Transaction deleted"
		n.Message = fmt.Sprintf("The %s %s was deleted.", ev.Payload["kind"], ev.Payload["id"])
	default:
		n.Title = string(ev.Type)
	}
	return n, mail
}
