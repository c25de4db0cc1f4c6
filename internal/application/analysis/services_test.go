package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/myblueprint/internal/application"
	domain "github.com/bryanwahyu/myblueprint/internal/domain/analyses"
)

type memRepo struct {
	mu      sync.Mutex
	saved   []*domain.Analysis
	saveErr error
}

func (m *memRepo) Save(_ context.Context, a *domain.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *memRepo) Get(_ context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.saved {
		if a.TenantID == tenant && a.ID == id {
			return a, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memRepo) Latest(_ context.Context, tenant string, limit int) ([]*domain.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, nil
}

type memArchive struct {
	keys []string
	err  error
}

func (m *memArchive) Upload(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.keys = append(m.keys, key)
	return "http://minio.local/reports/" + key, nil
}

func TestServiceAnalyzePersists(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{}
	archive := &memArchive{}
	svc := &Service{
		Pipeline: &Pipeline{KB: testKB(t)},
		Repo:     repo,
		Archive:  archive,
		Clock:    application.FixedClock{At: at},
	}

	res, err := svc.Analyze(context.Background(), AnalyzeCommand{
		TenantID: "public",
		Filename: "genome.txt",
		Body:     strings.NewReader(scenarioFile),
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)
	assert.Len(t, res.HealthFlags, 2)
	assert.Equal(t, "http://minio.local/reports/public/"+res.ID+".json", res.ReportURL)
	assert.Equal(t, []string{"public/" + res.ID + ".json"}, archive.keys)

	require.Len(t, repo.saved, 1)
	rec := repo.saved[0]
	assert.Equal(t, domain.AnalysisID(res.ID), rec.ID)
	assert.Equal(t, "genome.txt", rec.SourceFilename)
	assert.Equal(t, 3, rec.MarkerCount)
	assert.Equal(t, 2, rec.LocalFlags)
	assert.Equal(t, 0, rec.LiveFlags)
	assert.Equal(t, at, rec.CreatedAt)

	got, err := svc.Get(context.Background(), "public", rec.ID)
	require.NoError(t, err)
	rep, err := DecodeReport(got)
	require.NoError(t, err)
	assert.Equal(t, res.HealthFlags, rep.HealthFlags)
	assert.Equal(t, res.GenomeSample, rep.GenomeSample)
}

func TestServiceAnalyzeStorageFailuresKeepReport(t *testing.T) {
	svc := &Service{
		Pipeline: &Pipeline{KB: testKB(t)},
		Repo:     &memRepo{saveErr: errors.New("db down")},
		Archive:  &memArchive{err: errors.New("bucket gone")},
	}

	res, err := svc.Analyze(context.Background(), AnalyzeCommand{TenantID: "t1", Body: strings.NewReader(scenarioFile)})
	require.NoError(t, err)
	assert.Len(t, res.HealthFlags, 2)
	assert.Empty(t, res.ReportURL)
}

func TestServiceAnalyzeInvalidGenome(t *testing.T) {
	repo := &memRepo{}
	svc := &Service{Pipeline: &Pipeline{KB: testKB(t)}, Repo: repo}

	_, err := svc.Analyze(context.Background(), AnalyzeCommand{Body: strings.NewReader("junk")})
	assert.True(t, errors.Is(err, ErrInvalidGenome))
	assert.Empty(t, repo.saved)
}

func TestServiceHistoryDisabled(t *testing.T) {
	svc := &Service{Pipeline: &Pipeline{KB: testKB(t)}}

	_, err := svc.Latest(context.Background(), "public", 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
	_, err = svc.Get(context.Background(), "public", "x")
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestDecodeReportBadJSON(t *testing.T) {
	_, err := DecodeReport(&domain.Analysis{ID: "a1", Report: "{"})
	assert.Error(t, err)
}
