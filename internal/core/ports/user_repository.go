package ports

import (
	"context"

	"github.com/moneymanager/money-api/internal/core/domain"
)

// UserRepository persists user accounts. Implementations enforce unique
// username and email at the storage layer and report violations as
// domain.ErrDuplicateUsername / domain.ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile stores first name, last name and email of user.
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
