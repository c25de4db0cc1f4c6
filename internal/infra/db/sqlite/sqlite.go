// Package sqlite keeps analysis history in a single local file.
package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	domain "github.com/bryanwahyu/myblueprint/internal/domain/analyses"
)

const schema = `
CREATE TABLE IF NOT EXISTS genome_analyses (
  id              TEXT     PRIMARY KEY,
  tenant_id       TEXT     NOT NULL,
  source_filename TEXT     NOT NULL,
  marker_count    INTEGER  NOT NULL DEFAULT 0,
  local_flags     INTEGER  NOT NULL DEFAULT 0,
  live_flags      INTEGER  NOT NULL DEFAULT 0,
  report_url      TEXT     NOT NULL DEFAULT '',
  report_json     TEXT     NOT NULL,
  created_at      DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_genome_analyses_tenant_created
  ON genome_analyses (tenant_id, created_at DESC);`

// Open connects to the database at path (":memory:" works) and applies the schema.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serialises writers; one conn also keeps :memory: stable.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type AnalysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, tenant_id, source_filename, marker_count, local_flags, live_flags, report_url, report_json, created_at`

func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO genome_analyses (` + analysisColumns + `)
VALUES (:id, :tenant_id, :source_filename, :marker_count, :local_flags, :live_flags, :report_url, :report_json, :created_at)
ON CONFLICT (id) DO UPDATE SET
  report_url=excluded.report_url,
  report_json=excluded.report_json,
  local_flags=excluded.local_flags,
  live_flags=excluded.live_flags;`

	row := *a
	if row.TenantID == "" {
		row.TenantID = "-"
	}
	if row.SourceFilename == "" {
		row.SourceFilename = "-"
	}
	if row.Report == "" {
		row.Report = "{}"
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, q, row)
	return err
}

// Get returns sql.ErrNoRows when the analysis is not stored for tenant.
func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	var a domain.Analysis
	err := r.db.GetContext(ctx, &a,
		`SELECT `+analysisColumns+` FROM genome_analyses WHERE tenant_id=? AND id=? LIMIT 1`, tenant, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnalysisRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	var out []*domain.Analysis
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+analysisColumns+` FROM genome_analyses WHERE tenant_id=? ORDER BY created_at DESC, id DESC LIMIT ?`, tenant, limit)
	return out, err
}
