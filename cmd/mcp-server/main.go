package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/cache"
	"github.com/symptom-checker-server/internal/config"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/knowledge"
	"github.com/symptom-checker-server/internal/logging"
	"github.com/symptom-checker-server/internal/mcp"
	"github.com/symptom-checker-server/internal/service"
)

func main() {
	_ = config.LoadDotEnv()

	// Load configuration
	configManager, err := config.NewManager(os.Getenv("SYMPTOM_CHECKER_CONFIG"))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		logrus.WithError(err).Fatal("Configuration validation failed")
	}

	cfg := configManager.GetConfig()
	// stdout carries the protocol on stdio, so logs go to stderr
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kb, err := knowledge.Resolve(cfg.Knowledge.CatalogFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load condition catalog")
	}

	analysisCache, closeCache, err := cache.Build(cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create analysis cache")
	}
	defer closeCache()

	store, err := feedback.Open(ctx, cfg.Feedback, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open feedback store")
	}
	if store != nil {
		defer store.Close()
	}

	var opts []service.Option
	if analysisCache != nil {
		opts = append(opts, service.WithCache(analysisCache))
	}
	svc := service.NewSymptomCheckerService(logger, kb, opts...)

	// Create MCP server
	mcpServer, err := mcp.NewServer(cfg.MCP, svc, store, cfg.Feedback.ExportDir, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create MCP server")
	}

	// Start MCP server
	if err := mcpServer.Start(ctx); err != nil {
		logger.WithError(err).Error("MCP server failed")
		return
	}

	logger.Info("Symptom checker MCP server stopped")
}
