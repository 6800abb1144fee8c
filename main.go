package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/auth"
	"github.com/fleetlens-io/fleetlens-engine/pkg/config"
	"github.com/fleetlens-io/fleetlens-engine/pkg/database"
	"github.com/fleetlens-io/fleetlens-engine/pkg/handlers"
	"github.com/fleetlens-io/fleetlens-engine/pkg/llm"
	"github.com/fleetlens-io/fleetlens-engine/pkg/logging"
	"github.com/fleetlens-io/fleetlens-engine/pkg/middleware"
	"github.com/fleetlens-io/fleetlens-engine/pkg/repositories"
	"github.com/fleetlens-io/fleetlens-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", cfg.Database.Host))

	ctx := context.Background()

	// Inside a container, localhost points at the container itself.
	cfg.Database.Host = config.ResolveHostForDocker(cfg.Database.Host)

	db, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, "migrations", logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	patternConfig := services.DefaultPatternConfig()
	if cfg.PatternConfigPath != "" {
		patternConfig, err = services.LoadPatternConfig(cfg.PatternConfigPath)
		if err != nil {
			logger.Fatal("Failed to load pattern config", zap.Error(err))
		}
	}
	detector, err := services.NewBusinessPatternDetector(patternConfig)
	if err != nil {
		logger.Fatal("Failed to build pattern detector", zap.Error(err))
	}

	var llmClient llm.Client
	llmClient, err = llm.NewClient(cfg.LLM, logger)
	if err != nil {
		if !errors.Is(err, llm.ErrNotConfigured) {
			logger.Fatal("Failed to build language model client", zap.Error(err))
		}
		logger.Info("No language model configured, dataset summaries disabled")
		llmClient = nil
	}

	documents := repositories.NewDocumentRepository(db)

	extraction := services.NewExtractionService(services.ExtractionConfig{
		MaxFileSize: cfg.Upload.MaxFileSizeBytes,
		SampleRows:  cfg.Upload.SampleRows,
	}, logger)
	aggregation := services.NewAggregationService(logger)
	quality := services.NewQualityService(logger)
	signatures := services.NewSignatureService(detector, logger)
	summaries := services.NewSummaryService(llmClient, logger)
	scorer := services.NewSimilarityService(services.DefaultSimilarityConfig(), logger)
	batch := services.NewSimilarityBatchService(services.SimilarityBatchConfig{
		Workers: cfg.Similarity.Workers,
	}, scorer, logger)
	ingestion := services.NewIngestionService(
		extraction, aggregation, quality, signatures, summaries, batch, documents, logger)
	classifier := services.NewQueryClassifierService(logger)

	validator, err := auth.NewJWKSClient(auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to build JWKS client", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(validator, cfg.Auth.EnableVerification, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)

	protected := http.NewServeMux()
	handlers.NewDatasetsHandler(ingestion, documents, cfg.Upload.MaxFileSizeBytes, logger).RegisterRoutes(protected)
	handlers.NewQueryHandler(classifier, documents, logger).RegisterRoutes(protected)
	mux.HandleFunc("/api/", authMiddleware.RequireAuth(protected.ServeHTTP))

	server := &http.Server{
		Addr:              cfg.BindAddr + ":" + cfg.Port,
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting fleetlens-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
