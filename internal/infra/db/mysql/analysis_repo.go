package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/myblueprint/internal/domain/analyses"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, tenant_id, source_filename, marker_count, local_flags, live_flags, report_url, report_json, created_at`

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO genome_analyses
  (` + analysisColumns + `)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  report_url=VALUES(report_url), report_json=VALUES(report_json),
  local_flags=VALUES(local_flags), live_flags=VALUES(live_flags);
`
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		a.ID, stringOrDash(a.TenantID), stringOrDash(a.SourceFilename),
		a.MarkerCount, a.LocalFlags, a.LiveFlags,
		a.ReportURL, jsonOrEmpty(a.Report), created,
	)
	return err
}

// Get by ID + Tenant. Returns sql.ErrNoRows when absent.
func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `SELECT ` + analysisColumns + ` FROM genome_analyses WHERE tenant_id=? AND id=? LIMIT 1;`
	var a domain.Analysis
	if err := scanAnalysis(r.db.QueryRowContext(ctx, q, tenant, id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Latest analyses per tenant, newest first
func (r *AnalysisRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	const q = `SELECT ` + analysisColumns + ` FROM genome_analyses WHERE tenant_id=? ORDER BY created_at DESC, id DESC LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		if err := scanAnalysis(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner, a *domain.Analysis) error {
	return row.Scan(&a.ID, &a.TenantID, &a.SourceFilename,
		&a.MarkerCount, &a.LocalFlags, &a.LiveFlags,
		&a.ReportURL, &a.Report, &a.CreatedAt)
}
