// Package mcp exposes the analyzer to agent hosts over the Model
// Context Protocol (stdio transport).
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akorchak/privascope/internal/analyzer"
	"github.com/akorchak/privascope/internal/server"
	"github.com/akorchak/privascope/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
}

// Server wraps the MCP SDK server around the analyzer.
type Server struct {
	mcpServer *mcpsdk.Server
	analyzer  *analyzer.Analyzer
}

// New builds an MCP server with an analyzer configured from the
// service config file.
func New(cfg Config) (*Server, error) {
	svcCfg, err := server.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	a, err := server.NewAnalyzer(svcCfg, "mcp")
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer: %w", err)
	}

	s := &Server{analyzer: a}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "privascope",
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds the privascope tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "privascope_analyze",
		Description: "Analyze privacy-policy text and return per-category trust scores, an aggregate trust score with risk level, and conflicts with the given user preferences.",
	}, s.handleAnalyze)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "privascope_preferences",
		Description: "List the privacy preference schema: keys, titles, primary categories, and defaults.",
	}, s.handlePreferences)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "privascope_rules",
		Description: "List the active pattern-detection rules with their categories and score deltas.",
	}, s.handleRules)
}
