package analysis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/myblueprint/internal/domain/report"
)

var errNetwork = errors.New("connection reset by peer")

// fakeRegistry answers Search from hits and Summary from summaries, recording calls.
type fakeRegistry struct {
	mu          sync.Mutex
	hits        map[string][]string
	summaries   map[string]*report.VariantSummary
	searchErr   map[string]error
	summaryErr  map[string]error
	searchTerms []string
}

func (f *fakeRegistry) Search(_ context.Context, term string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchTerms = append(f.searchTerms, term)
	if err := f.searchErr[term]; err != nil {
		return nil, err
	}
	return f.hits[term], nil
}

func (f *fakeRegistry) Summary(_ context.Context, id string) (*report.VariantSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.summaryErr[id]; err != nil {
		return nil, err
	}
	return f.summaries[id], nil
}

func (f *fakeRegistry) terms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchTerms...)
}

// gaugeChecker tracks the peak number of concurrent Verify calls.
type gaugeChecker struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
	delay    time.Duration
	fail     map[string]bool
}

func (g *gaugeChecker) Verify(_ context.Context, rsid string) (*report.VariantSummary, bool) {
	g.calls.Add(1)
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(g.delay)
	if g.fail[rsid] {
		return nil, false
	}
	return &report.VariantSummary{RSID: rsid, Title: "title " + rsid, Significance: "Pathogenic"}, true
}
