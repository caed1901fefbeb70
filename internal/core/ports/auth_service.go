package ports

import (
	"context"
	"time"

	"github.com/moneymanager/money-api/internal/core/domain"
)

// RegisterInput carries a registration candidate.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.PublicUser
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*domain.PublicUser, error)
	// CurrentUser resolves the account a session token was issued for.
	CurrentUser(ctx context.Context, token string) (*domain.PublicUser, error)
}
