package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/minesweeper-api/internal/config"
)

//go:embed migrations
var migrations embed.FS

func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := cfg.NewPgxpoolConfig()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return pool, nil
}

// OpenSQLite opens the database file at path. Transactions begin with
// BEGIN IMMEDIATE and the pool holds a single connection.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf(
		"file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", path,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

func migrationURL(cfg *config.Config) (string, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return cfg.DbURL()
	case config.DriverSQLite:
		return "sqlite3://" + cfg.Storage.SQLitePath, nil
	default:
		return "", fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Migrate brings the configured database up to the latest schema version.
// The caller closes the returned migrator.
func Migrate(cfg *config.Config) (migrator *migrate.Migrate, err error) {
	url, err := migrationURL(cfg)
	if err != nil {
		return nil, err
	}
	source, err := iofs.New(migrations, path.Join("migrations", cfg.Storage.Driver))
	if err != nil {
		return nil, fmt.Errorf("unable to create migrations iofs: %w", err)
	}
	migrator, err = migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return nil, fmt.Errorf("unable to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		migrator.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return migrator, nil
}
