package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/myblueprint/internal/domain/report"
)

// markerPrefix is stripped for the single retry against registries that
// index by bare accession number. The match is case-sensitive.
const markerPrefix = "rs"

// Checker verifies one marker against a live source. A false result means
// "no live data"; implementations never return errors to the caller.
type Checker interface {
	Verify(ctx context.Context, rsid string) (*report.VariantSummary, bool)
}

// Verifier runs search -> (prefix retry) -> summary against a Registry.
type Verifier struct {
	registry report.Registry
	logger   *zap.Logger
}

func NewVerifier(registry report.Registry, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{registry: registry, logger: logger}
}

// Verify looks rsid up in the registry. Transport, decoding and timeout
// errors are logged and reported as absent.
func (v *Verifier) Verify(ctx context.Context, rsid string) (*report.VariantSummary, bool) {
	log := v.logger.With(zap.String("rsid", rsid))

	ids, err := v.registry.Search(ctx, rsid)
	if err != nil {
		log.Warn("registry search failed", zap.Error(err))
		return nil, false
	}
	if len(ids) == 0 {
		bare, ok := stripPrefix(rsid)
		if !ok {
			return nil, false
		}
		log.Debug("no registry hit, retrying without prefix", zap.String("term", bare))
		ids, err = v.registry.Search(ctx, bare)
		if err != nil {
			log.Warn("registry search failed", zap.String("term", bare), zap.Error(err))
			return nil, false
		}
		if len(ids) == 0 {
			return nil, false
		}
	}

	summary, err := v.registry.Summary(ctx, ids[0])
	if err != nil {
		log.Warn("registry summary failed", zap.String("id", ids[0]), zap.Error(err))
		return nil, false
	}
	if summary == nil {
		return nil, false
	}
	out := *summary
	out.RSID = rsid
	return &out, true
}

func stripPrefix(rsid string) (string, bool) {
	bare, ok := strings.CutPrefix(rsid, markerPrefix)
	if !ok || bare == "" {
		return "", false
	}
	return bare, true
}
