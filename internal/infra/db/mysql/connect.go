package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
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
  id              VARCHAR(64)  NOT NULL PRIMARY KEY,
  tenant_id       VARCHAR(64)  NOT NULL,
  source_filename VARCHAR(255) NOT NULL,
  marker_count    INT          NOT NULL DEFAULT 0,
  local_flags     INT          NOT NULL DEFAULT 0,
  live_flags      INT          NOT NULL DEFAULT 0,
  report_url      VARCHAR(1024) NOT NULL DEFAULT '',
  report_json     JSON         NOT NULL,
  created_at      DATETIME(3)  NOT NULL,
  INDEX idx_genome_analyses_tenant_created (tenant_id, created_at)
)`

// Migrate creates the analyses table when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
