package ports

import (
	"context"

	"github.com/moneymanager/money-api/internal/core/domain"
)

// TransactionRepository persists the transactions of a single Kind. Every
// listing and aggregate is scoped to the owner's username.
type TransactionRepository interface {
	Kind() domain.Kind
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	// FindByID returns the transaction regardless of owner, or
	// domain.ErrTransactionNotFound.
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, username string) ([]*domain.Transaction, error)
	ListByCategory(ctx context.Context, username, category string) ([]*domain.Transaction, error)
	// ListByDateRange returns transactions with start <= date <= end.
	ListByDateRange(ctx context.Context, username string, start, end domain.Date) ([]*domain.Transaction, error)
	Total(ctx context.Context, username string) (float64, error)
	TotalsByCategory(ctx context.Context, username string) ([]domain.CategoryTotal, error)
}
