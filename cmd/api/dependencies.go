package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/avalosjm/conversor-bancario/internal/domain/convert"
	"github.com/avalosjm/conversor-bancario/internal/domain/convert/handler"
	"github.com/avalosjm/conversor-bancario/internal/domain/extract"
	"github.com/avalosjm/conversor-bancario/internal/domain/layout"
	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/reconcile"
	"github.com/avalosjm/conversor-bancario/pkg/config"
	"github.com/avalosjm/conversor-bancario/pkg/metrics"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry

	Metrics        *metrics.Metrics
	ConvertService *convert.Service
	ConvertHandler *handler.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	deps.Metrics = metrics.New(deps.Registry)

	deps.ConvertService = convert.NewService(
		profile.NewRegistry(profile.Defaults()),
		extract.NewPDFCPUExtractor(),
		layout.NewParser(cfg.Convert.MaxDocumentLines),
		reconcile.New(reconcile.DefaultPolicy()),
		deps.Metrics,
		logger,
		cfg.Convert.Timeout,
	)

	deps.ConvertHandler = handler.New(deps.ConvertService, logger, handler.Options{
		MaxUploadBytes:     cfg.Convert.MaxUploadBytes,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		RateLimitPerSecond: cfg.Server.RateLimitPerSecond,
		RateLimitBurst:     cfg.Server.RateLimitBurst,
	})

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}
