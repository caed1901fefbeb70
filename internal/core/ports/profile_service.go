package ports

import (
	"context"

	"github.com/moneymanager/money-api/internal/core/domain"
)

type ProfileService interface {
	Profile(ctx context.Context, username string) (*domain.PublicUser, error)
	UpdateProfile(ctx context.Context, username string, patch domain.ProfilePatch) (*domain.PublicUser, error)
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
}
