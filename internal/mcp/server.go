// Package mcp exposes the symptom checker as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/domain"
	"github.com/symptom-checker-server/internal/feedback"
	"github.com/symptom-checker-server/internal/service"
)

// Transport types.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const shutdownTimeout = 10 * time.Second

// Server registers the checker tools with the MCP SDK and serves them over
// stdio or streamable HTTP.
type Server struct {
	config    domain.MCPConfig
	svc       *service.SymptomCheckerService
	feedback  feedback.Store
	exportDir string
	logger    *logrus.Logger

	mcpServer *mcp.Server
	tools     []string

	httpServer *http.Server
}

// NewServer creates an MCP server over svc. store may be nil, in which case
// the feedback tools are not offered. exportDir may be empty, in which case
// export_feedback is not offered.
func NewServer(config domain.MCPConfig, svc *service.SymptomCheckerService, store feedback.Store, exportDir string, logger *logrus.Logger) (*Server, error) {
	switch config.TransportType {
	case "":
		config.TransportType = TransportStdio
	case TransportStdio, TransportHTTP:
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", config.TransportType)
	}
	if config.ServerName == "" {
		config.ServerName = "symptom-checker"
	}
	if config.ServerVersion == "" {
		config.ServerVersion = domain.Version
	}

	s := &Server{
		config:    config,
		svc:       svc,
		feedback:  store,
		exportDir: exportDir,
		logger:    logger,
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    config.ServerName,
		Version: config.ServerVersion,
	}, nil)
	s.registerTools()

	s.logger.WithFields(logrus.Fields{
		"server_name": config.ServerName,
		"transport":   config.TransportType,
		"tool_count":  len(s.tools),
	}).Info("MCP server initialized")
	return s, nil
}

// Tools returns the names of the registered tools in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

func (s *Server) registerTools() {
	addTool(s, "analyze_symptoms",
		"Rank likely conditions for a patient profile and suggest next actions. Educational use only; not a diagnosis.",
		s.handleAnalyzeSymptoms)
	addTool(s, "generate_recommendations",
		"Derive next-action recommendations from previously ranked conditions and a severity.",
		s.handleGenerateRecommendations)
	addTool(s, "normalize_symptom",
		"Map free-text symptom labels to the canonical keys used for scoring.",
		s.handleNormalizeSymptom)
	addTool(s, "list_conditions",
		"List the conditions in the knowledge base, optionally filtered by category.",
		s.handleListConditions)

	if s.feedback == nil {
		s.logger.Info("Feedback store not configured; feedback tools disabled")
		return
	}
	addTool(s, "submit_feedback",
		"Record whether an analysis matched the condition later confirmed, with a 1-5 rating.",
		s.handleSubmitFeedback)
	addTool(s, "query_feedback",
		"Look up the feedback recorded for an analysis.",
		s.handleQueryFeedback)
	addTool(s, "feedback_stats",
		"Summarize recorded feedback: agreement rate and average rating, overall and per condition.",
		s.handleFeedbackStats)
	if s.exportDir != "" {
		addTool(s, "export_feedback",
			"Export all recorded feedback to a JSON file for backup.",
			s.handleExportFeedback)
	}
}

func addTool[In any](s *Server, name, description string, handler mcp.ToolHandlerFor[In, any]) {
	mcp.AddTool(s.mcpServer, &mcp.Tool{Name: name, Description: description}, handler)
	s.tools = append(s.tools, name)
	s.logger.WithField("tool_name", name).Debug("Registered MCP tool")
}

// Start serves until ctx is cancelled or the stdio session ends.
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("transport", s.config.TransportType).Info("Starting symptom checker MCP server")

	if s.config.TransportType == TransportHTTP {
		return s.serveHTTP(ctx)
	}

	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.HTTPHost, strconv.Itoa(s.config.HTTPPort))
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("address", addr).Info("MCP HTTP transport listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("MCP HTTP transport failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("MCP HTTP shutdown failed: %w", err)
	}
	s.logger.Info("MCP HTTP transport stopped")
	return nil
}
