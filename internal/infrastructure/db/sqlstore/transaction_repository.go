package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/moneymanager/money-api/internal/core/domain"
)

// TransactionRepository stores one Kind in its own table. Owner usernames are
// resolved by joining users.
type TransactionRepository struct {
	store   *Store
	kind    domain.Kind
	table   string
	selectQ string
}

func newTransactionRepository(s *Store, kind domain.Kind) *TransactionRepository {
	table := "expenses"
	if kind == domain.KindIncome {
		table = "incomes"
	}
	return &TransactionRepository{
		store: s,
		kind:  kind,
		table: table,
		selectQ: "SELECT t.id, t.user_id, u.username, t.amount, t.category, t.description, " +
			"CAST(t.date AS TEXT), t.emoji, t.created_at, t.updated_at " +
			"FROM " + table + " t JOIN users u ON u.id = t.user_id ",
	}
}

func (r *TransactionRepository) Kind() domain.Kind { return r.kind }

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	created := *t
	created.ID = uuid.NewString()
	created.Kind = r.kind

	_, err := r.store.db.ExecContext(ctx, r.store.rebind(
		"INSERT INTO "+r.table+" (id, user_id, amount, category, description, date, emoji, created_at, updated_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		created.ID, created.UserID, created.Amount, created.Category, created.Description,
		r.store.dateArg(created.Date), created.Emoji, created.CreatedAt.Unix(), created.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.kind, err)
	}
	return &created, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	txs, err := r.query(ctx, "WHERE t.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return txs[0], nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind(
		"UPDATE "+r.table+" SET amount = ?, category = ?, description = ?, date = ?, emoji = ?, updated_at = ? WHERE id = ?"),
		t.Amount, t.Category, t.Description, r.store.dateArg(t.Date), t.Emoji, t.UpdatedAt.Unix(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.kind, err)
	}
	return affectedOne(res, domain.ErrTransactionNotFound)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind("DELETE FROM "+r.table+" WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	return affectedOne(res, domain.ErrTransactionNotFound)
}

func (r *TransactionRepository) ListByUser(ctx context.Context, username string) ([]*domain.Transaction, error) {
	return r.query(ctx, "WHERE u.username = ? ORDER BY t.date DESC, t.created_at DESC", username)
}

func (r *TransactionRepository) ListByCategory(ctx context.Context, username, category string) ([]*domain.Transaction, error) {
	return r.query(ctx, "WHERE u.username = ? AND t.category = ? ORDER BY t.date DESC, t.created_at DESC", username, category)
}

func (r *TransactionRepository) ListByDateRange(ctx context.Context, username string, start, end domain.Date) ([]*domain.Transaction, error) {
	return r.query(ctx, "WHERE u.username = ? AND t.date >= ? AND t.date <= ? ORDER BY t.date DESC, t.created_at DESC",
		username, r.store.dateArg(start), r.store.dateArg(end))
}

func (r *TransactionRepository) Total(ctx context.Context, username string) (float64, error) {
	var total float64
	err := r.store.db.QueryRowContext(ctx, r.store.rebind(
		"SELECT COALESCE(SUM(t.amount), 0) FROM "+r.table+" t JOIN users u ON u.id = t.user_id WHERE u.username = ?"),
		username,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total %s: %w", r.kind, err)
	}
	return total, nil
}

func (r *TransactionRepository) TotalsByCategory(ctx context.Context, username string) ([]domain.CategoryTotal, error) {
	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(
		"SELECT t.category, SUM(t.amount) FROM "+r.table+" t JOIN users u ON u.id = t.user_id "+
			"WHERE u.username = ? GROUP BY t.category ORDER BY t.category"),
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("totals by category %s: %w", r.kind, err)
	}
	defer rows.Close()

	out := []domain.CategoryTotal{}
	for rows.Next() {
		var ct domain.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Amount); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (r *TransactionRepository) query(ctx context.Context, where string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(r.selectQ+where), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.kind, err)
	}
	defer rows.Close()

	out := []*domain.Transaction{}
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.kind, err)
	}
	return out, nil
}

func (r *TransactionRepository) scan(rows *sql.Rows) (*domain.Transaction, error) {
	var (
		t                    = domain.Transaction{Kind: r.kind}
		date                 string
		createdAt, updatedAt int64
	)
	if err := rows.Scan(&t.ID, &t.UserID, &t.OwnerUsername, &t.Amount, &t.Category, &t.Description,
		&date, &t.Emoji, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.kind, err)
	}

	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("scan %s date %q: %w", r.kind, date, err)
	}
	t.Date = d
	t.CreatedAt = unixToTime(createdAt)
	t.UpdatedAt = unixToTime(updatedAt)
	return &t, nil
}
