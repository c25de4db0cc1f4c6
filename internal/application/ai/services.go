package ai

import (
	"context"

	"github.com/bryanwahyu/myblueprint/internal/application/analysis"
	domain "github.com/bryanwahyu/myblueprint/internal/domain/analyses"
	"github.com/bryanwahyu/myblueprint/internal/domain/ai"
)

// Interpretation is the plain-language reading of one stored analysis.
type Interpretation struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

type Service struct {
	client   ai.Client
	analyses *analysis.Service
}

func NewService(client ai.Client, analyses *analysis.Service) *Service {
	return &Service{client: client, analyses: analyses}
}

// Interpret loads the stored report and asks the model to explain its flags.
func (s *Service) Interpret(ctx context.Context, tenant string, id domain.AnalysisID) (*Interpretation, error) {
	if s == nil || s.client == nil {
		return nil, ai.ErrNotConfigured
	}
	a, err := s.analyses.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	rep, err := analysis.DecodeReport(a)
	if err != nil {
		return nil, err
	}
	summary, err := s.client.Interpret(ctx, rep.HealthFlags)
	if err != nil {
		return nil, err
	}
	return &Interpretation{ID: string(a.ID), Summary: summary}, nil
}
