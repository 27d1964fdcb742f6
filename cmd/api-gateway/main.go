package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-complaints-api/api/swagger"
	"github.com/noah-isme/campus-complaints-api/internal/handler"
	"github.com/noah-isme/campus-complaints-api/internal/repository"
	"github.com/noah-isme/campus-complaints-api/internal/service"
	"github.com/noah-isme/campus-complaints-api/pkg/cache"
	"github.com/noah-isme/campus-complaints-api/pkg/config"
	"github.com/noah-isme/campus-complaints-api/pkg/gemini"
		"github.com/noah-isme/campus-complaints-api/pkg/logger"
)

// @title Campus Complaints API
// @version 1.0.0
// @description Student complaint submission with AI-assisted triage
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	sessions := service.NewSessionStore(cfg.Sessions.IdleTTL, metricsSvc, logr)
	go sessions.Run(ctx, cfg.Sessions.SweepInterval)

	aiClient, err := gemini.NewGenerator(ctx, gemini.Config{
		BaseURL: cfg.Classifier.BaseURL,
		APIKey:  cfg.Classifier.APIKey,
		Model:   cfg.Classifier.Model,
		Timeout: cfg.Classifier.Timeout,
	})
	if err != nil {
		logr.Fatal("failed to init classifier client", zap.Error(err))
	}
	classifier, err := service.NewClassifierService(aiClient,
		service.ClassifierOptions{StrictDepartments: cfg.Classifier.StrictDepartments},
		metricsSvc, logr)
	if err != nil {
		logr.Fatal("failed to init classifier", zap.Error(err))
	}

	checks := map[string]handler.ReadinessCheck{}
	var quota *service.QuotaService
	if cfg.Quota.Enabled {
		var store service.QuotaStore
		switch cfg.Quota.Backend {
		case config.QuotaBackendRedis:
			client, err := cache.NewRedis(ctx, cfg.Redis)
			if err != nil {
				logr.Fatal("failed to connect redis", zap.Error(err))
			}
			redisQuota := repository.NewRedisQuotaRepository(client)
			defer redisQuota.Close() //nolint:errcheck
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			store = redisQuota
		default:
			store = repository.NewMemoryQuotaRepository()
		}
		quota = service.NewQuotaService(store, cfg.Quota.PerMinute, metricsSvc, logr)
	}

	submissions := service.NewSubmissionService(
		sessions,
		classifier,
		quota,
		service.NewComplaintExporter(),
		service.SubmissionConfig{MaxImageBytes: cfg.Uploads.MaxImageBytes},
		service.NewValidator(),
		metricsSvc,
		logr,
	)

	r := newRouter(cfg, logr, routeDeps{
		complaints: handler.NewComplaintHandler(submissions),
		ops:        handler.NewMetricsHandler(metricsSvc, checks),
		metrics:    metricsSvc,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("model", aiClient.Model()),
			zap.String("quota_backend", cfg.Quota.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
