package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/myblueprint/internal/application"
	appai "github.com/bryanwahyu/myblueprint/internal/application/ai"
	appanalysis "github.com/bryanwahyu/myblueprint/internal/application/analysis"
	"github.com/bryanwahyu/myblueprint/internal/config"
	domain "github.com/bryanwahyu/myblueprint/internal/domain/analyses"
	"github.com/bryanwahyu/myblueprint/internal/domain/risk"
	openaic "github.com/bryanwahyu/myblueprint/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/myblueprint/internal/infra/db/mysql"
	"github.com/bryanwahyu/myblueprint/internal/infra/db/postgres"
	"github.com/bryanwahyu/myblueprint/internal/infra/db/sqlite"
	"github.com/bryanwahyu/myblueprint/internal/infra/httpserver"
	"github.com/bryanwahyu/myblueprint/internal/infra/registry/clinvar"
	minioStore "github.com/bryanwahyu/myblueprint/internal/infra/storage"
	"github.com/bryanwahyu/myblueprint/internal/logging"
	"github.com/bryanwahyu/myblueprint/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	kb, err := risk.Load(cfg.KnowledgeBase.Path)
	if err != nil {
		return fmt.Errorf("knowledge base: %w", err)
	}
	logger.Info("knowledge base loaded", zap.Int("entries", kb.Len()), zap.String("path", cfg.KnowledgeBase.Path))

	pipeline := &appanalysis.Pipeline{
		KB:         kb,
		MaxWorkers: cfg.Verification.MaxWorkers,
		Candidates: cfg.Verification.Candidates,
		Logger:     logger.Named("pipeline"),
	}
	optional := map[string]middleware.HealthChecker{}
	if cfg.VerificationEnabled() {
		registry := clinvar.NewClient(clinvar.Options{
			BaseURL:           cfg.Registry.BaseURL,
			APIKey:            cfg.Registry.APIKey,
			Tool:              cfg.Registry.Tool,
			Email:             cfg.Registry.Email,
			Timeout:           cfg.Registry.Timeout,
			RequestsPerSecond: cfg.Registry.RequestsPerSecond,
		})
		defer registry.Close()
		pipeline.Checker = appanalysis.NewVerifier(registry, logger.Named("verifier"))
		optional["registry"] = &middleware.RegistryHealthChecker{Registry: registry}
	}

	svc := &appanalysis.Service{
		Pipeline: pipeline,
		Clock:    application.SystemClock{},
		Logger:   logger.Named("analysis"),
	}

	checkers := map[string]middleware.HealthChecker{}
	repo, db, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		svc.Repo = repo
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		logger.Info("analysis history enabled", zap.String("driver", cfg.Database.Driver))
	}

	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		svc.Archive = store
	}

	var aiSvc *appai.Service
	if cfg.OpenAI.APIKey != "" {
		aiSvc = appai.NewService(openaic.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model), svc)
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	defer limiter.Stop()

	handler := httpserver.NewRouter(svc, aiSvc, middleware.NewMetrics(), logger.Named("http"), httpserver.Options{
		AllowedOrigins:       cfg.Server.AllowedOrigins,
		APIKeys:              cfg.Server.APIKeys,
		MaxUploadBytes:       cfg.Server.MaxUploadMB << 20,
		MaxDecompressedBytes: cfg.Server.MaxDecompressedMB << 20,
		RateLimiter:          limiter,
		HealthCheckers:       checkers,
		OptionalCheckers:     optional,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second, // live verification makes several registry round trips
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx2)
}

// openHistory connects the configured database and applies its schema.
// An empty driver means history is off and both results are nil.
func openHistory(ctx context.Context, cfg *config.Config) (domain.Repository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case "":
		return nil, nil, nil
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("mysql connect: %w", err)
		}
		if err := mysqlp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("mysql migrate: %w", err)
		}
		return mysqlp.NewAnalysisRepository(db), db, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return postgres.NewAnalysisRepository(db), db, nil
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite open: %w", err)
		}
		return sqlite.NewAnalysisRepository(db), db.DB, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
