package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/myblueprint/internal/domain/report"
)

// DefaultMaxWorkers caps in-flight registry lookups per analysis.
const DefaultMaxWorkers = 5

// Candidate is a marker selected for live verification.
type Candidate struct {
	RSID     string
	Genotype string
}

// VerifyAll checks every candidate with at most maxWorkers calls in flight.
// Each worker owns one result slot; slots are compacted after all finish, so
// the output follows candidate order no matter how calls complete.
func VerifyAll(ctx context.Context, c Checker, candidates []Candidate, maxWorkers int) []report.HealthFlag {
	if c == nil || len(candidates) == 0 {
		return nil
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	slots := make([]*report.HealthFlag, len(candidates))
	var g errgroup.Group
	g.SetLimit(maxWorkers)
	for i, cand := range candidates {
		g.Go(func() error {
			summary, ok := c.Verify(ctx, cand.RSID)
			if !ok {
				return nil
			}
			flag := report.LiveFlag(cand.RSID, cand.Genotype, *summary)
			slots[i] = &flag
			return nil
		})
	}
	_ = g.Wait()

	out := make([]report.HealthFlag, 0, len(slots))
	for _, f := range slots {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}
