// Package db selects and opens the persistence backend named by DB_DRIVER.
package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
	"github.com/moneymanager/money-api/internal/infrastructure/config"
	"github.com/moneymanager/money-api/internal/infrastructure/db/mongo"
	"github.com/moneymanager/money-api/internal/infrastructure/db/sqlstore"
)

// Storage bundles the repositories of one backend.
type Storage struct {
	Driver   string
	Users    ports.UserRepository
	Incomes  ports.TransactionRepository
	Expenses ports.TransactionRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases the backend's connections.
func (s *Storage) Close(ctx context.Context) error { return s.close(ctx) }

// Open connects to the backend configured in cfg. SQL backends are migrated,
// MongoDB gets its indexes.
func Open(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.DB.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		dsn := cfg.DB.DatabaseURL
		if cfg.DB.Driver == config.DriverSQLite {
			dsn = cfg.DB.SQLitePath
			if dsn != ":memory:" {
				if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
					return nil, fmt.Errorf("create sqlite directory: %w", err)
				}
			}
		}
		store, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.DB.Driver, DSN: dsn})
		if err != nil {
			return nil, err
		}
		return &Storage{
			Driver:   cfg.DB.Driver,
			Users:    store.Users(),
			Incomes:  store.Transactions(domain.KindIncome),
			Expenses: store.Transactions(domain.KindExpense),
			ping:     store.Ping,
			close:    func(context.Context) error { return store.Close() },
		}, nil

	case config.DriverMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Storage{
			Driver:   cfg.DB.Driver,
			Users:    mongo.NewUserRepository(database),
			Incomes:  mongo.NewTransactionRepository(database, domain.KindIncome),
			Expenses: mongo.NewTransactionRepository(database, domain.KindExpense),
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:    client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
}
