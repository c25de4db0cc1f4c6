package analyses

import "context"

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, tenant string, id AnalysisID) (*Analysis, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Analysis, error)
}

// ReportArchive port (object storage for serialized reports)
type ReportArchive interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
