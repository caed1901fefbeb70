package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

func (s *Store) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(s.dialect))
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	var (
		driver     database.Driver
		driverName string
		ownConn    bool
	)
	switch s.dialect {
	case dialectPostgres:
		// Dedicated connection: the migrate driver closes it when done.
		migrateDB, err := sql.Open("pgx", s.dsn)
		if err != nil {
			return fmt.Errorf("open migration database: %w", err)
		}
		driver, err = pgxmigrate.WithInstance(migrateDB, &pgxmigrate.Config{})
		if err != nil {
			_ = migrateDB.Close()
			return fmt.Errorf("create pgx driver: %w", err)
		}
		driverName, ownConn = "pgx5", true
	default:
		// SQLite must share the store's handle so ":memory:" sees the schema;
		// closing the driver would close that handle.
		driver, err = sqlitemigrate.WithInstance(s.db, &sqlitemigrate.Config{})
		if err != nil {
			return fmt.Errorf("create sqlite driver: %w", err)
		}
		driverName = "sqlite"
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if ownConn {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
