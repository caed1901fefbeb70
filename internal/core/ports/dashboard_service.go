package ports

import (
	"context"

	"github.com/moneymanager/money-api/internal/core/domain"
)

type DashboardService interface {
	Dashboard(ctx context.Context, username string) (*domain.Summary, error)
	DashboardForRange(ctx context.Context, username string, start, end domain.Date) (*domain.Summary, error)
}

// DashboardCache stores lifetime dashboards per user under a generation
// number. Invalidate advances the user's generation, so a summary computed
// from reads that started before a write is stored under a generation that
// is never looked up again. A miss is reported with ok == false and a nil
// error.
type DashboardCache interface {
	Generation(ctx context.Context, username string) (int64, error)
	Get(ctx context.Context, username string, gen int64) (summary *domain.Summary, ok bool, err error)
	Set(ctx context.Context, username string, gen int64, summary *domain.Summary) error
	Invalidate(ctx context.Context, username string) error
}
