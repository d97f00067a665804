// Package main provides the lightweight entry point for the symptom checker
// MCP server. It needs no external services: the cache is in memory and
// feedback goes to SQLite.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/symptom-checker-server/internal/config"
	"github.com/symptom-checker-server/internal/mcp"
)

func main() {
	// Load lightweight configuration
	cfg := config.LoadLiteConfig()

	// Create lite MCP server
	server, err := mcp.NewLiteServer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create MCP server")
	}
	defer server.Close()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start MCP server
	if err := server.Start(ctx); err != nil {
		logrus.WithError(err).Error("MCP server failed")
		return
	}
}
