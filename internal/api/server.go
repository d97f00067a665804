package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/middleware"
	"github.com/symptom-checker-server/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	svc           *service.SymptomCheckerService
	feedback      feedback.Store
	logger        *logrus.Logger
	router        *gin.Engine
	server        *http.Server
	started       time.Time
}

// NewServer creates a new HTTP server instance. store may be nil, in which
// case the feedback routes answer 503.
func NewServer(configManager domain.ConfigManager, svc *service.SymptomCheckerService, store feedback.Store, logger *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.AuditLogger(logger))
	router.Use(middleware.SecurityHeaders())
	if c, ok := corsMiddleware(cfg.Server.CORSOrigins); ok {
		router.Use(c)
	}
	router.Use(middleware.LimitBodySize(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).Middleware())
	}
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	server := &Server{
		configManager: configManager,
		svc:           svc,
		feedback:      store,
		logger:        logger,
		router:        router,
		started:       time.Now(),
	}

	server.setupRoutes()

	return server
}

func corsMiddleware(origins []string) (gin.HandlerFunc, bool) {
	if len(origins) == 0 {
		return nil, false
	}
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.CorrelationIDHeader},
		ExposeHeaders: []string{middleware.CorrelationIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return cors.New(config), true
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.WithField("addr", addr).Info("HTTP server listening")

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ready", s.handleReady)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.POST("/recommendations", s.handleRecommendations)

		v1.GET("/conditions", s.handleListConditions)
		v1.GET("/conditions/:name", s.handleGetCondition)

		v1.GET("/symptoms", s.handleListSymptoms)
		v1.GET("/symptoms/normalize", s.handleNormalizeSymptom)

		fb := v1.Group("/feedback", s.requireFeedback)
		{
			fb.POST("", s.handleSubmitFeedback)
			fb.GET("", s.handleListFeedback)
			fb.GET("/stats", s.handleFeedbackStats)
			fb.GET("/:analysis_id", s.handleGetFeedback)
		}
	}
}

func (s *Server) requireFeedback(c *gin.Context) {
	if s.feedback == nil {
		middleware.Abort(c, http.StatusServiceUnavailable, domain.ErrCodeUnavailable, "feedback storage is not configured", "")
		return
	}
	c.Next()
}
