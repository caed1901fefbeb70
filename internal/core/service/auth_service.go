package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

// dummyPassword is hashed once and verified against when the username is
// unknown, so both login failures cost one hash comparison.
const dummyPassword = "moneymanager-dummy-password"

// AuthService implements registration, login and session resolution.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	events ports.EventPublisher
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	events ports.EventPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, events: events, log: log}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		_ = s.hasher.Verify(s.dummy(), password)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if s.hasher.Verify(user.PasswordHash, password) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, err
	}

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Username == "":
		return nil, domain.ValidationError("username is required")
	case in.Email == "":
		return nil, domain.ValidationError("email is required")
	case in.Password == "":
		return nil, domain.ValidationError("password is required")
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	// The store rejects duplicates as well; these checks give the common case
	// a precise error without a failed insert.
	if exists, err := s.exists(s.users.FindByUsername(ctx, in.Username)); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.ErrDuplicateUsername
	}
	if exists, err := s.exists(s.users.FindByEmail(ctx, in.Email)); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hash
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.log, domain.NewEvent(domain.EventUserRegistered, created.Username, created.Email))

	pub := created.Public()
	return &pub, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.PublicUser, error) {
	username, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

func (s *AuthService) exists(_ *domain.User, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	return s.dummyHash
}

// publish emits ev and logs a failure instead of returning it.
func publish(ctx context.Context, events ports.EventPublisher, log zerolog.Logger, ev domain.Event) {
	if err := events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("event_type", string(ev.Type)).
			Str("username", ev.Username).
			Msg("event publish failed")
	}
}
