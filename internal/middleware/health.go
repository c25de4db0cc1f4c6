package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	checkTimeout = 2 * time.Second
)

// HealthChecker defines interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
}

// DatabaseHealthChecker pings the analysis history database.
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return d.DB.PingContext(ctx)
}

// Pinger is a remote dependency with a cheap reachability call.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegistryHealthChecker reports whether the live variant registry answers.
type RegistryHealthChecker struct {
	Registry Pinger
}

func (c *RegistryHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return c.Registry.Ping(ctx)
}

// HealthStatus represents the health status
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus represents individual check status
type CheckStatus struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
	Message  string `json:"message,omitempty"`
}

// HealthHandler runs every checker concurrently. A failed required check
// answers 503. A failed optional check only marks the service degraded,
// since analyses still complete from the local knowledge base.
func HealthHandler(required, optional map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := HealthStatus{
			Status:    statusHealthy,
			Timestamp: time.Now().UTC(),
			Checks:    make(map[string]CheckStatus, len(required)+len(optional)),
		}

		var (
			mu sync.Mutex
			g  errgroup.Group
		)
		run := func(name string, checker HealthChecker, isOptional bool) {
			g.Go(func() error {
				st := CheckStatus{Status: statusHealthy, Optional: isOptional}
				if err := checker.Check(ctx); err != nil {
					st.Status, st.Message = statusUnhealthy, err.Error()
				}

				mu.Lock()
				defer mu.Unlock()
				health.Checks[name] = st
				if st.Status == statusHealthy {
					return nil
				}
				if !isOptional {
					health.Status = statusUnhealthy
				} else if health.Status == statusHealthy {
					health.Status = statusDegraded
				}
				return nil
			})
		}
		for name, checker := range required {
			run(name, checker, false)
		}
		for name, checker := range optional {
			run(name, checker, true)
		}
		g.Wait()

		statusCode := http.StatusOK
		if health.Status == statusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(health)
	}
}

// LivenessHandler creates a liveness check handler (simplest check)
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
