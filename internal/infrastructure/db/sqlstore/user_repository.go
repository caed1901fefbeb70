package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/moneymanager/money-api/internal/core/domain"
)

const userColumns = "id, username, email, password_hash, first_name, last_name, created_at, updated_at"

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	created.ID = uuid.NewString()

	_, err := r.store.db.ExecContext(ctx, r.store.rebind(
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
		created.ID, created.Username, created.Email, created.PasswordHash,
		created.FirstName, created.LastName, created.CreatedAt.Unix(), created.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, r.translate(err, "insert user")
	}
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind(
		"UPDATE users SET first_name = ?, last_name = ?, email = ?, updated_at = ? WHERE id = ?"),
		user.FirstName, user.LastName, user.Email, user.UpdatedAt.Unix(), user.ID,
	)
	if err != nil {
		return r.translate(err, "update user")
	}
	return affectedOne(res, domain.ErrUserNotFound)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind(
		"UPDATE users SET password_hash = ? WHERE id = ?"), passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return affectedOne(res, domain.ErrUserNotFound)
}

// findOne looks a user up by a unique column. column is never user input.
func (r *UserRepository) findOne(ctx context.Context, column, value string) (*domain.User, error) {
	row := r.store.db.QueryRowContext(ctx, r.store.rebind(
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?"), value)

	var (
		u                    domain.User
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = unixToTime(createdAt)
	u.UpdatedAt = unixToTime(updatedAt)
	return &u, nil
}

func (r *UserRepository) translate(err error, op string) error {
	constraint, ok := r.store.uniqueViolation(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch constraint {
	case constraintUsername:
		return domain.ErrDuplicateUsername
	case constraintEmail:
		return domain.ErrDuplicateEmail
	default:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrConflict, err)
	}
}

func affectedOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
