// ABOUTME: MCP server initialization and configuration for daily.
// ABOUTME: Sets up a stdio server exposing the entry service as tools for AI agents.
package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/daily/internal/daily"
	"github.com/2389-research/daily/internal/storage"
)

// Server wraps the MCP server around the entry service.
type Server struct {
	mcp     *gomcp.Server
	svc     *daily.Service
	logger  *slog.Logger
	version string
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool calls.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		if version != "" {
			s.version = version
		}
	}
}

// NewServer creates an MCP server backed by svc.
func NewServer(svc *daily.Service, opts ...ServerOption) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("entry service is required")
	}

	s := &Server{
		svc:     svc,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "daily",
			Version: s.version,
		},
		nil,
	)

	s.registerEntryTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Debug("serving MCP over stdio", "backend", storage.Kind(s.svc.Backend()))
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
