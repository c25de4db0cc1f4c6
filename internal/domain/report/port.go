package report

import "context"

// Registry port (two-stage lookup against an external clinical-variant registry)
type Registry interface {
	// Search returns registry-internal identifiers for term, best match first.
	Search(ctx context.Context, term string) ([]string, error)
	// Summary returns the record for id, or nil when the registry has none.
	Summary(ctx context.Context, id string) (*VariantSummary, error)
}
