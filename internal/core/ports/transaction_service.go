package ports

import (
	"context"

	"github.com/moneymanager/money-api/internal/core/domain"
)

// TransactionInput carries the user-editable fields of a transaction.
type TransactionInput struct {
	Amount      float64
	Category    string
	Description string
	Date        domain.Date
	Emoji       string
}

// TransactionService is the ownership-gated CRUD contract shared by incomes
// and expenses. Get, Update and Delete fail with the kind's not-found error
// when the id is unknown and with domain.ErrForbidden when another user owns
// the record.
type TransactionService interface {
	Kind() domain.Kind
	Add(ctx context.Context, username string, input TransactionInput) (*domain.Transaction, error)
	List(ctx context.Context, username string) ([]*domain.Transaction, error)
	Get(ctx context.Context, username, id string) (*domain.Transaction, error)
	Update(ctx context.Context, username, id string, input TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, username, id string) error
	ListByCategory(ctx context.Context, username, category string) ([]*domain.Transaction, error)
	ListByDateRange(ctx context.Context, username string, start, end domain.Date) ([]*domain.Transaction, error)
	Total(ctx context.Context, username string) (float64, error)
	TotalsByCategory(ctx context.Context, username string) ([]domain.CategoryTotal, error)
}
