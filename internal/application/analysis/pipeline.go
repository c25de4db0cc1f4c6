package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/myblueprint/internal/domain/genome"
	"github.com/bryanwahyu/myblueprint/internal/domain/report"
	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
)

// DefaultCandidates is how many local matches get double-checked live.
const DefaultCandidates = 5

// ErrInvalidGenome wraps genome.ErrNoValidData for callers at the boundary.
var ErrInvalidGenome = errors.New("invalid genome file")

// Pipeline runs parse -> sample -> local match -> live verification.
// It is safe for concurrent use; every call owns its own MarkerTable.
type Pipeline struct {
	KB         *risk.KnowledgeBase
	Checker    Checker // nil disables live verification
	MaxWorkers int
	Candidates int
	Logger     *zap.Logger
}

// Outcome is a report plus the counters the service persists.
type Outcome struct {
	Report     *report.AnalysisReport
	Markers    int
	LocalFlags int
	LiveFlags  int
}

// RunFullAnalysis parses raw genome data and assembles the report.
func (p *Pipeline) RunFullAnalysis(ctx context.Context, r io.Reader) (*report.AnalysisReport, error) {
	out, err := p.Analyze(ctx, r)
	if err != nil {
		return nil, err
	}
	return out.Report, nil
}

// Analyze is RunFullAnalysis with counters.
func (p *Pipeline) Analyze(ctx context.Context, r io.Reader) (*Outcome, error) {
	log := p.logger()
	start := time.Now()

	table, err := genome.Parse(r)
	if err != nil {
		if errors.Is(err, genome.ErrNoValidData) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidGenome, err)
		}
		return nil, err
	}

	rep := &report.AnalysisReport{
		HealthFlags:  []report.HealthFlag{},
		GenomeSample: table.Head(report.SampleSize),
	}

	matches := MatchLocal(table, p.KB)
	for _, m := range matches {
		rep.HealthFlags = append(rep.HealthFlags, m.Flag)
	}

	var live []report.HealthFlag
	if p.Checker != nil {
		live = VerifyAll(ctx, p.Checker, SelectCandidates(matches, p.candidates()), p.workers())
		rep.HealthFlags = append(rep.HealthFlags, live...)
	}

	log.Info("genome analysed",
		zap.Int("markers", len(table)),
		zap.Int("local_flags", len(matches)),
		zap.Int("live_flags", len(live)),
		zap.Duration("took", time.Since(start)),
	)

	return &Outcome{
		Report:     rep,
		Markers:    len(table),
		LocalFlags: len(matches),
		LiveFlags:  len(live),
	}, nil
}

// SelectCandidates takes the first n matches for live verification.
func SelectCandidates(matches []Match, n int) []Candidate {
	if n > len(matches) {
		n = len(matches)
	}
	out := make([]Candidate, 0, n)
	for _, m := range matches[:n] {
		out = append(out, Candidate{RSID: m.RSID, Genotype: m.Genotype})
	}
	return out
}

func (p *Pipeline) candidates() int {
	if p.Candidates <= 0 {
		return DefaultCandidates
	}
	return p.Candidates
}

func (p *Pipeline) workers() int {
	if p.MaxWorkers <= 0 {
		return DefaultMaxWorkers
	}
	return p.MaxWorkers
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
