package mcp

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/cache"
	litecfg "github.com/symptom-checker-server/internal/config"
	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/knowledge"
	"github.com/symptom-checker-server/internal/logging"
	"github.com/symptom-checker-server/internal/service"
)

// LiteServer is a lightweight MCP server that requires no external services.
// It uses an in-memory cache and SQLite for feedback.
type LiteServer struct {
	*Server

	config        *litecfg.LiteConfig
	kb            *knowledge.Base
	feedbackStore feedback.Store
	cache         *cache.MemoryCache
	logger        *logrus.Logger
}

// LiteServerOption is a functional option for LiteServer.
type LiteServerOption func(*LiteServer) error

// WithFeedbackStore sets a custom feedback store.
func WithFeedbackStore(store feedback.Store) LiteServerOption {
	return func(s *LiteServer) error {
		s.feedbackStore = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) LiteServerOption {
	return func(s *LiteServer) error {
		s.logger = logger
		return nil
	}
}

// WithKnowledge replaces the catalog named in the configuration.
func WithKnowledge(kb *knowledge.Base) LiteServerOption {
	return func(s *LiteServer) error {
		if kb == nil {
			return fmt.Errorf("knowledge base is nil")
		}
		s.kb = kb
		return nil
	}
}

// NewLiteServer creates a new lightweight MCP server instance.
func NewLiteServer(cfg *litecfg.LiteConfig, opts ...LiteServerOption) (*LiteServer, error) {
	server := &LiteServer{config: cfg}

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	// stdout carries the protocol on stdio, so logs go to stderr
	if server.logger == nil {
		server.logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if server.kb == nil {
		kb, err := knowledge.Resolve(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load condition catalog: %w", err)
		}
		server.kb = kb
	}

	server.cache = cache.NewMemoryCache(cfg.CacheMaxItems, cfg.CacheTTL)

	if server.feedbackStore == nil {
		store, err := feedback.NewSQLiteStore(cfg.FeedbackDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to create feedback store: %w", err)
		}
		server.feedbackStore = store
	}

	svc := service.NewSymptomCheckerService(server.logger, server.kb, service.WithCache(server.cache))

	mcpConfig := domain.MCPConfig{
		ServerName:    "symptom-checker-lite",
		ServerVersion: domain.Version,
		TransportType: cfg.Transport,
		HTTPHost:      "127.0.0.1",
		HTTPPort:      cfg.HTTPPort,
	}
	core, err := NewServer(mcpConfig, svc, server.feedbackStore, cfg.ExportDir(), server.logger)
	if err != nil {
		server.feedbackStore.Close()
		return nil, err
	}
	server.Server = core

	server.logger.WithField("data_dir", cfg.DataDir).Info("Lite server initialized successfully")
	return server, nil
}

// Close cleans up server resources.
func (s *LiteServer) Close() error {
	if s.feedbackStore == nil {
		return nil
	}
	if err := s.feedbackStore.Close(); err != nil {
		s.logger.WithError(err).Error("Failed to close feedback store")
		return err
	}
	return nil
}

// GetFeedbackStore returns the feedback store for external access.
func (s *LiteServer) GetFeedbackStore() feedback.Store {
	return s.feedbackStore
}

// GetCache returns the memory cache for external access.
func (s *LiteServer) GetCache() *cache.MemoryCache {
	return s.cache
}
