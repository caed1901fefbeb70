// Package sqlstore persists users and transactions in a relational database.
// The same queries serve SQLite (modernc.org/sqlite) and PostgreSQL (pgx);
// dialect differences are limited to placeholders, date binding and
// unique-violation detection.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/moneymanager/money-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

const (
	constraintUsername = "uq_users_username"
	constraintEmail    = "uq_users_email"
)

// Config selects the database. Driver is "sqlite" or "postgres"; DSN is a
// file path (or ":memory:") for SQLite and a connection URL for PostgreSQL.
type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

// Store wraps a *sql.DB together with its dialect.
type Store struct {
	db      *sql.DB
	dialect dialect
	dsn     string
}

// Open connects, verifies connectivity with a ping and applies pending
// migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	s := &Store{dsn: cfg.DSN}
	var err error
	switch dialect(cfg.Driver) {
	case dialectSQLite:
		s.dialect = dialectSQLite
		s.db, err = sql.Open("sqlite", cfg.DSN)
		if err == nil {
			// One connection keeps ":memory:" databases shared and serialises
			// writers the way SQLite expects.
			s.db.SetMaxOpenConns(1)
		}
	case dialectPostgres:
		s.dialect = dialectPostgres
		s.db, err = sql.Open("pgx", cfg.DSN)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.db.PingContext(pingCtx); err != nil {
		_ = s.db.Close()
		return nil, fmt.Errorf("sqlstore ping: %w", err)
	}

	if s.dialect == dialectSQLite {
		if _, err := s.db.ExecContext(pingCtx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = s.db.Close()
			return nil, fmt.Errorf("sqlstore pragma: %w", err)
		}
	}

	if err := s.migrate(); err != nil {
		_ = s.db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Users returns the user repository backed by s.
func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

// Transactions returns the repository for kind backed by s.
func (s *Store) Transactions(kind domain.Kind) *TransactionRepository {
	return newTransactionRepository(s, kind)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dateArg binds d as a DATE for PostgreSQL and as ISO text for SQLite, where
// lexical order matches calendar order.
func (s *Store) dateArg(d domain.Date) any {
	if s.dialect == dialectPostgres {
		return d.Time()
	}
	return d.String()
}

// uniqueViolation reports which unique constraint err violated, if any.
func (s *Store) uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return pgErr.ConstraintName, true
		}
		return "", false
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return "", false
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return constraintUsername, true
	case strings.Contains(msg, "users.email"):
		return constraintEmail, true
	default:
		return "", true
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
