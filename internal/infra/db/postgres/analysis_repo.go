package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/myblueprint/internal/domain/analyses"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

const analysisColumns = `id, tenant_id, source_filename, marker_count, local_flags, live_flags, report_url, report_json, created_at`

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO genome_analyses
  (` + analysisColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  report_url=EXCLUDED.report_url,
  report_json=EXCLUDED.report_json,
  local_flags=EXCLUDED.local_flags,
  live_flags=EXCLUDED.live_flags;
`
	report := a.Report
	if strings.TrimSpace(report) == "" {
		report = "{}"
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		a.ID, stringOrDash(a.TenantID), stringOrDash(a.SourceFilename),
		a.MarkerCount, a.LocalFlags, a.LiveFlags,
		a.ReportURL, report, created,
	)
	return err
}

// Get by ID + Tenant. Returns sql.ErrNoRows when absent.
func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `SELECT ` + analysisColumns + ` FROM genome_analyses WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	var a domain.Analysis
	if err := row.Scan(&a.ID, &a.TenantID, &a.SourceFilename, &a.MarkerCount, &a.LocalFlags, &a.LiveFlags, &a.ReportURL, &a.Report, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Latest analyses per tenant, newest first
func (r *AnalysisRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	const q = `SELECT ` + analysisColumns + ` FROM genome_analyses WHERE tenant_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		if err := rows.Scan(&a.ID, &a.TenantID, &a.SourceFilename, &a.MarkerCount, &a.LocalFlags, &a.LiveFlags, &a.ReportURL, &a.Report, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
