package analyses

import "time"

// AnalysisID identifier type
type AnalysisID string

// Analysis is the stored record of one completed genome analysis.
// Report holds the serialized report.AnalysisReport.
type Analysis struct {
	ID             AnalysisID `json:"id" db:"id"`
	TenantID       string     `json:"tenant_id" db:"tenant_id"`
	SourceFilename string     `json:"source_filename" db:"source_filename"`
	MarkerCount    int        `json:"marker_count" db:"marker_count"`
	LocalFlags     int        `json:"local_flags" db:"local_flags"`
	LiveFlags      int        `json:"live_flags" db:"live_flags"`
	ReportURL      string     `json:"report_url,omitempty" db:"report_url"`
	Report         string     `json:"report" db:"report_json"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
