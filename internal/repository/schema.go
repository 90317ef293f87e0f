package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableExtractJob = "extract_job"
	tableLineItem   = "line_item"
)

var postgresDDL = []string{
	`CREATE TABLE IF NOT EXISTS extract_job (
		id            UUID PRIMARY KEY,
		document_id   TEXT NOT NULL,
		source_format TEXT NOT NULL,
		source_sha256 TEXT,
		document_type TEXT NOT NULL,
		confidence    DOUBLE PRECISION NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		strategy      TEXT,
		item_count    INTEGER NOT NULL DEFAULT 0,
		header_fields JSONB,
		needs_review  BOOLEAN NOT NULL DEFAULT FALSE,
		error_message TEXT,
		started_at    TIMESTAMPTZ NOT NULL,
		finished_at   TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS extract_job_document_idx ON extract_job (document_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS extract_job_sha_idx ON extract_job (source_sha256)`,
	`CREATE TABLE IF NOT EXISTS line_item (
		id           UUID PRIMARY KEY,
		job_id       UUID NOT NULL REFERENCES extract_job (id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		description  TEXT NOT NULL,
		quantity     DOUBLE PRECISION NOT NULL,
		unit_price   DOUBLE PRECISION NOT NULL,
		amount       DOUBLE PRECISION NOT NULL,
		tax_rate     DOUBLE PRECISION,
		tax_amount   DOUBLE PRECISION,
		product_code TEXT,
		unit         TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS line_item_job_idx ON line_item (job_id, position)`,
}

var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS extract_job (
		id            TEXT PRIMARY KEY,
		document_id   TEXT NOT NULL,
		source_format TEXT NOT NULL,
		source_sha256 TEXT,
		document_type TEXT NOT NULL,
		confidence    REAL NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		strategy      TEXT,
		item_count    INTEGER NOT NULL DEFAULT 0,
		header_fields TEXT,
		needs_review  BOOLEAN NOT NULL DEFAULT 0,
		error_message TEXT,
		started_at    TIMESTAMP NOT NULL,
		finished_at   TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS extract_job_document_idx ON extract_job (document_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS extract_job_sha_idx ON extract_job (source_sha256)`,
	`CREATE TABLE IF NOT EXISTS line_item (
		id           TEXT PRIMARY KEY,
		job_id       TEXT NOT NULL REFERENCES extract_job (id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		description  TEXT NOT NULL,
		quantity     REAL NOT NULL,
		unit_price   REAL NOT NULL,
		amount       REAL NOT NULL,
		tax_rate     REAL,
		tax_amount   REAL,
		product_code TEXT,
		unit         TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS line_item_job_idx ON line_item (job_id, position)`,
}

// Migrate creates the tables when missing. It is safe to run on every start.
func Migrate(ctx context.Context, drv *entsql.Driver) error {
	var stmts []string
	switch drv.Dialect() {
	case dialect.Postgres:
		stmts = postgresDDL
	case dialect.SQLite:
		stmts = sqliteDDL
	default:
		return fmt.Errorf("migrate: unsupported dialect %q", drv.Dialect())
	}
	for _, stmt := range stmts {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
