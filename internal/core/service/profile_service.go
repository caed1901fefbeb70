package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

// ProfileService reads and edits the caller's own account.
type ProfileService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	events ports.EventPublisher
	log    zerolog.Logger
}

func NewProfileService(users ports.UserRepository, hasher ports.PasswordHasher, events ports.EventPublisher, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, hasher: hasher, events: events, log: log}
}

func (s *ProfileService) Profile(ctx context.Context, username string) (*domain.PublicUser, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile applies the non-nil fields of patch. Identity and credentials
// are never touched here.
func (s *ProfileService) UpdateProfile(ctx context.Context, username string, patch domain.ProfilePatch) (*domain.PublicUser, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		if trimmed == "" {
			return nil, domain.ValidationError("email must not be blank")
		}
		patch.Email = &trimmed
	}

	emailChanged := patch.Apply(user)
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if emailChanged {
		other, err := s.users.FindByEmail(ctx, user.Email)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, domain.ErrEmailInUse
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrEmailInUse
		}
		return nil, err
	}

	pub := user.Public()
	return &pub, nil
}

// ChangePassword verifies currentPassword before storing a hash of
// newPassword.
func (s *ProfileService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.ValidationError("Current password and new password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if s.hasher.Verify(user.PasswordHash, currentPassword) != nil {
		return domain.ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	publish(ctx, s.events, s.log, domain.NewEvent(domain.EventPasswordChanged, user.Username, user.Email))
	return nil
}
