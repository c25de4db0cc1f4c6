package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appai "github.com/bryanwahyu/myblueprint/internal/application/ai"
	appanalysis "github.com/bryanwahyu/myblueprint/internal/application/analysis"
	domain "github.com/bryanwahyu/myblueprint/internal/domain/analyses"
	domai "github.com/bryanwahyu/myblueprint/internal/domain/ai"
	"github.com/bryanwahyu/myblueprint/internal/domain/report"
	"github.com/bryanwahyu/myblueprint/internal/infra/upload"
	"github.com/bryanwahyu/myblueprint/internal/middleware"
)

// PublicTenant owns uploads made through the unauthenticated /api/analyze route.
const PublicTenant = "public"

const (
	invalidGenomeMessage = "No valid genomic data found in file. Please ensure it has 4 columns."
	multipartMemory      = 8 << 20
)

// Options tunes the HTTP surface. Zero values disable the matching feature.
type Options struct {
	AllowedOrigins       []string
	APIKeys              map[string]string // tenant -> key, empty disables auth
	MaxUploadBytes       int64
	MaxDecompressedBytes int64
	RateLimiter          *middleware.RateLimiter
	HealthCheckers       map[string]middleware.HealthChecker
	OptionalCheckers     map[string]middleware.HealthChecker // failures degrade readiness without failing it
}

type Router struct {
	analyses *appanalysis.Service
	aiSvc    *appai.Service
	metrics  *middleware.Metrics
	logger   *zap.Logger
	opts     Options
}

func NewRouter(analyses *appanalysis.Service, aiSvc *appai.Service, metrics *middleware.Metrics, logger *zap.Logger, opts Options) http.Handler {
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{analyses: analyses, aiSvc: aiSvc, metrics: metrics, logger: logger, opts: opts}
	mux := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.Logging(logger))
	mux.Use(metrics.Middleware)

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.HealthHandler(opts.HealthCheckers, opts.OptionalCheckers))
	mux.Get("/metrics", metrics.Handler)

	limited := func(rt chi.Router) chi.Router {
		if opts.RateLimiter == nil {
			return rt
		}
		return rt.With(middleware.RateLimit(opts.RateLimiter))
	}

	limited(mux).Post("/api/analyze", r.wrap(r.handlePublicAnalyze))

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		if len(opts.APIKeys) > 0 {
			rt.Use(middleware.APIKeyAuth(opts.APIKeys))
		}
		rt.Use(middleware.RequireValidTenant)

		limited(rt).Post("/analyze", r.wrap(r.handleTenantAnalyze))
		rt.Get("/analyses/latest", r.wrap(r.handleLatest))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		limited(rt).Post("/analyses/{id}/interpret", r.wrap(r.handleInterpret))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// httpError carries a status decided inside a handler.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(msg string) error { return &httpError{status: http.StatusBadRequest, msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var he *httpError
		switch {
		case errors.As(err, &he):
			writeError(w, he.status, he.msg)
		case errors.Is(err, appanalysis.ErrInvalidGenome):
			writeError(w, http.StatusBadRequest, invalidGenomeMessage)
		case errors.Is(err, upload.ErrUnsupportedFormat):
			writeError(w, http.StatusBadRequest, upload.ErrUnsupportedFormat.Error())
		case errors.Is(err, upload.ErrEmptyArchive):
			writeError(w, http.StatusBadRequest, upload.ErrEmptyArchive.Error())
		case errors.Is(err, upload.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, upload.ErrTooLarge.Error())
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, "ai quota exceeded")
		case errors.Is(err, appanalysis.ErrHistoryDisabled), errors.Is(err, domai.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			r.logger.Error("request failed",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /api/analyze
func (r *Router) handlePublicAnalyze(w http.ResponseWriter, req *http.Request) error {
	return r.analyze(w, req, PublicTenant)
}

// POST /v1/{tenant}/analyze
func (r *Router) handleTenantAnalyze(w http.ResponseWriter, req *http.Request) error {
	return r.analyze(w, req, chi.URLParam(req, "tenant"))
}

// analyze reads the multipart "file" field, decodes it and runs the pipeline.
func (r *Router) analyze(w http.ResponseWriter, req *http.Request, tenant string) error {
	if r.opts.MaxUploadBytes > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.opts.MaxUploadBytes)
	}
	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return upload.ErrTooLarge
		}
		return badRequest("expected multipart/form-data with a \"file\" field")
	}
	defer req.MultipartForm.RemoveAll()

	file, header, err := req.FormFile("file")
	if err != nil {
		return badRequest("missing \"file\" field")
	}
	defer file.Close()

	body, err := upload.Open(header.Filename, file, header.Size, r.opts.MaxDecompressedBytes)
	if err != nil {
		return err
	}
	defer body.Close()

	res, err := r.analyses.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		TenantID: tenant,
		Filename: middleware.SanitizeFilename(header.Filename),
		Body:     body,
	})
	if err != nil {
		r.metrics.RecordAnalysisFailure()
		return err
	}
	r.metrics.RecordAnalysis(countFlags(res.HealthFlags))

	return writeJSON(w, res)
}

func countFlags(flags []report.HealthFlag) (local, live int) {
	for _, f := range flags {
		switch f.Source {
		case report.SourceLocal:
			local++
		case report.SourceLive:
			live++
		}
	}
	return local, live
}

// analysisView is the API shape of a stored analysis.
type analysisView struct {
	ID             domain.AnalysisID `json:"id"`
	SourceFilename string            `json:"source_filename"`
	MarkerCount    int               `json:"marker_count"`
	LocalFlags     int               `json:"local_flags"`
	LiveFlags      int               `json:"live_flags"`
	ReportURL      string            `json:"report_url,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Report         json.RawMessage   `json:"report,omitempty"`
}

func toView(a *domain.Analysis, withReport bool) analysisView {
	v := analysisView{
		ID:             a.ID,
		SourceFilename: a.SourceFilename,
		MarkerCount:    a.MarkerCount,
		LocalFlags:     a.LocalFlags,
		LiveFlags:      a.LiveFlags,
		ReportURL:      a.ReportURL,
		CreatedAt:      a.CreatedAt,
	}
	if withReport && json.Valid([]byte(a.Report)) {
		v.Report = json.RawMessage(a.Report)
	}
	return v
}

// GET /v1/{tenant}/analyses/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.analyses.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	out := make([]analysisView, 0, len(list))
	for _, a := range list {
		out = append(out, toView(a, false))
	}
	return writeJSON(w, out)
}

// GET /v1/{tenant}/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest(err.Error())
	}

	a, err := r.analyses.Get(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, toView(a, true))
}

// POST /v1/{tenant}/analyses/{id}/interpret
func (r *Router) handleInterpret(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return badRequest(err.Error())
	}

	out, err := r.aiSvc.Interpret(req.Context(), tenant, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, out)
}
