// Package main runs the engagement pulse HTTP API.
//
//	@title			Engagement Pulse API
//	@version		1.0
//	@description	Survey analytics: engagement index, trends, drivers, participation and attrition risk.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZanzyTHEbar/engagement-pulse/internal/analysis"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/cache"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/config"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/database"
	apperrors "github.com/ZanzyTHEbar/engagement-pulse/internal/errors"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/events"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/middleware"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/monitoring"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/nlp"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/ratelimit"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/report"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/resilience"
	"github.com/ZanzyTHEbar/engagement-pulse/internal/security"
)

func main() {
	configPath := flag.String("config", getEnvOrDefault("CONFIG_FILE", "config.yaml"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	appLogger := monitoring.NewLogger(monitoring.ParseLevel(cfg.LogLevel))
	slog.SetDefault(appLogger.Logger)
	appMetrics := monitoring.NewMetrics()

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer apperrors.SafeClose(db, "database")
	repo := database.NewRepository(db)

	riskModel, err := analysis.NewRiskModelStore(cfg.DataDir).Load()
	if err != nil {
		slog.Warn("Risk model file unreadable, using default coefficients", "error", err)
		riskModel = analysis.DefaultRiskModel
	}

	degradation := resilience.NewDegradationManager(resilience.DefaultDegradationConfig())
	degradation.RegisterService("database", db.HealthCheck)

	nlpClient := nlp.NewClient(nlp.Config{
		APIKey:  cfg.NLP.APIKey,
		BaseURL: cfg.NLP.BaseURL,
		Model:   cfg.NLP.Model,
	},
		nlp.WithLogger(appLogger),
		nlp.WithMetrics(appMetrics),
		nlp.WithDegradation(degradation),
	)
	if !nlpClient.Configured() {
		appLogger.SystemLogger("nlp_unconfigured", "OPENAI_API_KEY not set, reports will carry fallback insights")
	}

	orchestrator := report.NewOrchestrator(nlpClient, riskModel, report.Config{
		NLPTimeout:             cfg.NLP.Timeout,
		StrictNLP:              cfg.NLP.Strict,
		ParticipationThreshold: cfg.ParticipationThreshold,
	}, report.WithLogger(appLogger))

	var publisher report.Publisher
	if cfg.KafkaEnabled() {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, appMetrics)
		defer apperrors.SafeClose(kafkaPublisher, "kafka publisher")
		publisher = kafkaPublisher
		slog.Info("Publishing report events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	service := report.NewService(orchestrator, repo, publisher, appLogger, appMetrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("Redis unavailable, falling back to in-memory rate limiting", "error", err)
	}
	defer apperrors.SafeClose(redisClient, "redis")
	if redisClient.IsEnabled() {
		degradation.RegisterService("redis", redisClient.HealthCheck)
	}

	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimitPerMin: cfg.RateLimit.PerMinute,
	}, appMetrics)
	defer limiter.Close()

	responseCache := cache.NewCache(cfg.CacheTTL)
	defer responseCache.Close()

	go degradation.StartHealthChecks(ctx)

	securityConfig := security.DefaultConfig()
	securityConfig.EnableHSTS = cfg.EnableHSTS

	router := setupRouter(serverDeps{
		service:                service,
		riskModel:              riskModel,
		degradation:            degradation,
		metrics:                appMetrics,
		logger:                 appLogger,
		limiter:                limiter,
		precomputeLimit:        cfg.RateLimit.PrecomputePerMinute,
		cache:                  responseCache,
		compression:            middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
		database:               db,
		corsOrigins:            cfg.CORSOrigins,
		security:               securityConfig,
		participationThreshold: cfg.ParticipationThreshold,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
