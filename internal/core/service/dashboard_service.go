package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

// DashboardService aggregates a user's incomes and expenses.
type DashboardService struct {
	incomes  ports.TransactionRepository
	expenses ports.TransactionRepository
	cache    ports.DashboardCache
	log      zerolog.Logger
}

func NewDashboardService(
	incomes, expenses ports.TransactionRepository,
	cache ports.DashboardCache,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{incomes: incomes, expenses: expenses, cache: cache, log: log}
}

// Dashboard returns totals and per-category sums over all of the user's
// transactions, plus the RecentLimit most recent ones. Results are served
// from the cache until the next write by that user.
func (s *DashboardService) Dashboard(ctx context.Context, username string) (*domain.Summary, error) {
	// The generation must be read before the store so that a write landing
	// mid-computation moves readers past whatever this call caches.
	gen, err := s.cache.Generation(ctx, username)
	cacheable := err == nil
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("dashboard cache generation read failed")
	} else if cached, ok, err := s.cache.Get(ctx, username, gen); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("dashboard cache read failed")
	} else if ok {
		return cached, nil
	}

	var (
		totalIncome, totalExpense float64
		incomeByCat, expenseByCat []domain.CategoryTotal
		incomes, expenses         []*domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalIncome, err = s.incomes.Total(gctx, username)
		return err
	})
	g.Go(func() (err error) {
		totalExpense, err = s.expenses.Total(gctx, username)
		return err
	})
	g.Go(func() (err error) {
		incomeByCat, err = s.incomes.TotalsByCategory(gctx, username)
		return err
	})
	g.Go(func() (err error) {
		expenseByCat, err = s.expenses.TotalsByCategory(gctx, username)
		return err
	})
	g.Go(func() (err error) {
		incomes, err = s.incomes.ListByUser(gctx, username)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.expenses.ListByUser(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Balance:            totalIncome - totalExpense,
		IncomeByCategory:   nonNil(incomeByCat),
		ExpenseByCategory:  nonNil(expenseByCat),
		RecentTransactions: recent(incomes, expenses, domain.RecentLimit),
	}

	if cacheable {
		if err := s.cache.Set(ctx, username, gen, summary); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("dashboard cache write failed")
		}
	}
	return summary, nil
}

// DashboardForRange aggregates only transactions dated within [start, end].
// Unlike Dashboard, the activity feed holds every matching transaction.
func (s *DashboardService) DashboardForRange(ctx context.Context, username string, start, end domain.Date) (*domain.Summary, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.ValidationError("startDate and endDate are required")
	}
	if start.After(end) {
		return summarize(nil, nil, 0), nil
	}

	var incomes, expenses []*domain.Transaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		incomes, err = s.incomes.ListByDateRange(gctx, username, start, end)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.expenses.ListByDateRange(gctx, username, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(incomes, expenses, 0), nil
}

// summarize computes a Summary in memory. limit <= 0 keeps the whole feed.
func summarize(incomes, expenses []*domain.Transaction, limit int) *domain.Summary {
	totalIncome, incomeByCat := sumByCategory(incomes)
	totalExpense, expenseByCat := sumByCategory(expenses)
	return &domain.Summary{
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		Balance:            totalIncome - totalExpense,
		IncomeByCategory:   incomeByCat,
		ExpenseByCategory:  expenseByCat,
		RecentTransactions: recent(incomes, expenses, limit),
	}
}

// sumByCategory groups on the raw category string, in first-seen order.
func sumByCategory(txs []*domain.Transaction) (float64, []domain.CategoryTotal) {
	var total float64
	index := make(map[string]int)
	byCat := make([]domain.CategoryTotal, 0)
	for _, t := range txs {
		total += t.Amount
		i, ok := index[t.Category]
		if !ok {
			i = len(byCat)
			index[t.Category] = i
			byCat = append(byCat, domain.CategoryTotal{Category: t.Category})
		}
		byCat[i].Amount += t.Amount
	}
	return total, byCat
}

// recent merges incomes then expenses, sorts them newest first (stable, so
// equal dates keep merge order) and truncates to limit when limit > 0.
func recent(incomes, expenses []*domain.Transaction, limit int) []domain.TransactionView {
	views := make([]domain.TransactionView, 0, len(incomes)+len(expenses))
	for _, t := range incomes {
		views = append(views, t.View())
	}
	for _, t := range expenses {
		views = append(views, t.View())
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Date.After(views[j].Date)
	})

	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	return views
}

func nonNil(c []domain.CategoryTotal) []domain.CategoryTotal {
	if c == nil {
		return []domain.CategoryTotal{}
	}
	return c
}
