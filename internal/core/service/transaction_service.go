package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

// TransactionService implements ownership-gated CRUD for one transaction
// kind. Writes invalidate the owner's cached dashboard and publish an event.
type TransactionService struct {
	repo   ports.TransactionRepository
	users  ports.UserRepository
	cache  ports.DashboardCache
	events ports.EventPublisher
	log    zerolog.Logger
}

func NewTransactionService(
	repo ports.TransactionRepository,
	users ports.UserRepository,
	cache ports.DashboardCache,
	events ports.EventPublisher,
	log zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		repo:   repo,
		users:  users,
		cache:  cache,
		events: events,
		log:    log.With().Str("kind", string(repo.Kind())).Logger(),
	}
}

func (s *TransactionService) Kind() domain.Kind { return s.repo.Kind() }

func (s *TransactionService) Add(ctx context.Context, username string, in ports.TransactionInput) (*domain.Transaction, error) {
	owner, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &domain.Transaction{
		Kind:          s.repo.Kind(),
		UserID:        owner.ID,
		OwnerUsername: owner.Username,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	apply(t, in)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, domain.EventTransactionAdded, created)
	return created, nil
}

func (s *TransactionService) List(ctx context.Context, username string) ([]*domain.Transaction, error) {
	return s.repo.ListByUser(ctx, username)
}

func (s *TransactionService) Get(ctx context.Context, username, id string) (*domain.Transaction, error) {
	return s.owned(ctx, username, id)
}

func (s *TransactionService) Update(ctx context.Context, username, id string, in ports.TransactionInput) (*domain.Transaction, error) {
	t, err := s.owned(ctx, username, id)
	if err != nil {
		return nil, err
	}

	apply(t, in)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, s.notFound(err)
	}

	s.afterWrite(ctx, domain.EventTransactionUpdated, t)
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, username, id string) error {
	t, err := s.owned(ctx, username, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return s.notFound(err)
	}

	s.afterWrite(ctx, domain.EventTransactionDeleted, t)
	return nil
}

func (s *TransactionService) ListByCategory(ctx context.Context, username, category string) ([]*domain.Transaction, error) {
	return s.repo.ListByCategory(ctx, username, category)
}

func (s *TransactionService) ListByDateRange(ctx context.Context, username string, start, end domain.Date) ([]*domain.Transaction, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.ValidationError("startDate and endDate are required")
	}
	if start.After(end) {
		return []*domain.Transaction{}, nil
	}
	return s.repo.ListByDateRange(ctx, username, start, end)
}

func (s *TransactionService) Total(ctx context.Context, username string) (float64, error) {
	return s.repo.Total(ctx, username)
}

func (s *TransactionService) TotalsByCategory(ctx context.Context, username string) ([]domain.CategoryTotal, error) {
	return s.repo.TotalsByCategory(ctx, username)
}

// owned loads id and checks that username owns it. A foreign record is
// reported as forbidden, never as missing.
func (s *TransactionService) owned(ctx context.Context, username, id string) (*domain.Transaction, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err)
	}
	if !t.OwnedBy(username) {
		s.log.Warn().Str("username", username).Str("id", id).Msg("access to foreign transaction denied")
		return nil, domain.ErrForbidden
	}
	return t, nil
}

func (s *TransactionService) notFound(err error) error {
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return s.repo.Kind().NotFound()
	}
	return err
}

func (s *TransactionService) afterWrite(ctx context.Context, typ domain.EventType, t *domain.Transaction) {
	if err := s.cache.Invalidate(ctx, t.OwnerUsername); err != nil {
		s.log.Warn().Err(err).Str("username", t.OwnerUsername).Msg("dashboard cache invalidation failed")
	}
	publish(ctx, s.events, s.log, domain.TransactionEvent(typ, t))
}

func apply(t *domain.Transaction, in ports.TransactionInput) {
	t.Amount = in.Amount
	t.Category = in.Category
	t.Description = in.Description
	t.Date = in.Date
	t.Emoji = in.Emoji
}
