package ai

import (
	"context"

	"github.com/bryanwahyu/myblueprint/internal/domain/report"
)

// Client turns health flags into a plain-language summary.
type Client interface {
	Interpret(ctx context.Context, flags []report.HealthFlag) (string, error)
}
