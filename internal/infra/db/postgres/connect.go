package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS genome_analyses (
  id              TEXT        PRIMARY KEY,
  tenant_id       TEXT        NOT NULL,
  source_filename TEXT        NOT NULL,
  marker_count    INTEGER     NOT NULL DEFAULT 0,
  local_flags     INTEGER     NOT NULL DEFAULT 0,
  live_flags      INTEGER     NOT NULL DEFAULT 0,
  report_url      TEXT        NOT NULL DEFAULT '',
  report_json     JSONB       NOT NULL,
  created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_genome_analyses_tenant_created
  ON genome_analyses (tenant_id, created_at DESC);`

// Migrate creates the analyses table when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
