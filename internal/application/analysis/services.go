package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/myblueprint/internal/application"
	domain "github.com/bryanwahyu/myblueprint/internal/domain/analyses"
	"github.com/bryanwahyu/myblueprint/internal/domain/report"
)

// ErrHistoryDisabled is returned by read use-cases when no repository is configured.
var ErrHistoryDisabled = errors.New("analysis history is not configured")

// Service implements use-cases for genome analyses.
// Repo and Archive are optional; without them reports are returned but not kept.
type Service struct {
	Pipeline *Pipeline
	Repo     domain.Repository
	Archive  domain.ReportArchive
	Clock    application.Clock
	Logger   *zap.Logger
}

// AnalyzeCommand carries one uploaded genome file.
type AnalyzeCommand struct {
	TenantID string
	Filename string
	Body     io.Reader
}

type AnalyzeResult struct {
	ID string `json:"id"`
	report.AnalysisReport
	ReportURL string `json:"report_url,omitempty"`
}

// Analyze runs the pipeline, then archives and records the report.
// Storage failures are logged; the caller still gets the report.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalyzeResult, error) {
	out, err := s.Pipeline.Analyze(ctx, cmd.Body)
	if err != nil {
		return AnalyzeResult{}, err
	}

	id := uuid.New().String()
	res := AnalyzeResult{ID: id, AnalysisReport: *out.Report}
	log := s.logger().With(zap.String("analysis_id", id), zap.String("tenant", cmd.TenantID))

	body, err := json.Marshal(out.Report)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("encoding report: %w", err)
	}

	if s.Archive != nil {
		key := fmt.Sprintf("%s/%s.json", cmd.TenantID, id)
		url, err := s.Archive.Upload(ctx, key, body, "application/json")
		if err != nil {
			log.Warn("report archive failed", zap.Error(err))
		} else {
			res.ReportURL = url
		}
	}

	if s.Repo != nil {
		rec := &domain.Analysis{
			ID:             domain.AnalysisID(id),
			TenantID:       cmd.TenantID,
			SourceFilename: cmd.Filename,
			MarkerCount:    out.Markers,
			LocalFlags:     out.LocalFlags,
			LiveFlags:      out.LiveFlags,
			ReportURL:      res.ReportURL,
			Report:         string(body),
			CreatedAt:      s.now(),
		}
		if err := s.Repo.Save(ctx, rec); err != nil {
			log.Warn("saving analysis failed", zap.Error(err))
		}
	}

	return res, nil
}

// Get ambil 1 analysis by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	if s.Repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.Repo.Get(ctx, tenant, id)
}

// Latest ambil N analysis terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	if s.Repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.Repo.Latest(ctx, tenant, limit)
}

// DecodeReport unpacks the report stored on a.
func DecodeReport(a *domain.Analysis) (*report.AnalysisReport, error) {
	var rep report.AnalysisReport
	if err := json.Unmarshal([]byte(a.Report), &rep); err != nil {
		return nil, fmt.Errorf("decoding stored report %s: %w", a.ID, err)
	}
	return &rep, nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
