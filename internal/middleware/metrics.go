package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	AnalysesTotal      uint64
	AnalysesFailed     uint64
	LocalFlagsTotal    uint64
	LiveFlagsTotal     uint64
	StartTime          time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now()}
}

// RecordAnalysis counts one finished analysis and the flags it produced.
func (m *Metrics) RecordAnalysis(localFlags, liveFlags int) {
	atomic.AddUint64(&m.AnalysesTotal, 1)
	atomic.AddUint64(&m.LocalFlagsTotal, uint64(localFlags))
	atomic.AddUint64(&m.LiveFlagsTotal, uint64(liveFlags))
}

// RecordAnalysisFailure counts an analysis that returned an error.
func (m *Metrics) RecordAnalysisFailure() {
	atomic.AddUint64(&m.AnalysesTotal, 1)
	atomic.AddUint64(&m.AnalysesFailed, 1)
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&m.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&m.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&m.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&m.RequestsFailed),
		"analyses_total":       atomic.LoadUint64(&m.AnalysesTotal),
		"analyses_failed":      atomic.LoadUint64(&m.AnalysesFailed),
		"local_flags_total":    atomic.LoadUint64(&m.LocalFlagsTotal),
		"live_flags_total":     atomic.LoadUint64(&m.LiveFlagsTotal),
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&m.RequestsTotal, 1)
		atomic.AddUint64(&m.RequestsInProgress, 1)
		defer atomic.AddUint64(&m.RequestsInProgress, ^uint64(0))

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&m.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&m.RequestsFailed, 1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.Snapshot())
}
