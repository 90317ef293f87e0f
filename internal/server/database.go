package server

import (
	"context"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/docextract/internal/common"
	repo "github.com/joseph-ayodele/docextract/internal/repository"
)

// Database bundles the driver with the pool behind it (nil for SQLite).
type Database struct {
	Driver *entsql.Driver
	Pool   *pgxpool.Pool
	logger *slog.Logger
}

// ConnectDB opens Postgres, or an in-memory SQLite database when cfg.InMemory is
// set, pings it and applies the schema.
func ConnectDB(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*Database, error) {
	db := &Database{logger: logger}
	var err error
	if cfg.InMemory {
		db.Driver, err = repo.OpenSQLite(ctx, "", logger)
	} else {
		db.Driver, db.Pool, err = repo.Open(ctx, repo.Config{
			DSN:              cfg.DSN,
			MaxConns:         cfg.MaxConns,
			MinConns:         cfg.MinConns,
			MaxConnLifetime:  cfg.MaxConnLifetime,
			MaxConnIdleTime:  cfg.MaxConnIdleTime,
			DialTimeout:      cfg.DialTimeout,
			StatementTimeout: cfg.StatementTimeout,
		}, logger)
	}
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	if err := PingDB(ctx, db, logger, cfg.DialTimeout); err != nil {
		db.Close()
		return nil, err
	}
	if err := repo.Migrate(ctx, db.Driver); err != nil {
		logger.Error("failed to migrate database", "error", err)
		db.Close()
		return nil, err
	}
	return db, nil
}

// PingDB pings the database to ensure it's responsive
func PingDB(ctx context.Context, db *Database, logger *slog.Logger, timeout time.Duration) error {
	return repo.HealthCheck(ctx, db.Driver, timeout, logger)
}

// Close closes the database connections gracefully
func (db *Database) Close() {
	repo.Close(db.Driver, db.Pool, db.logger)
}
