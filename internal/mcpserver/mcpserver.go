// Package mcpserver exposes the cxxlens analyzers as Model Context Protocol
// tools and prompts over stdio.
package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/cxxlens/pkg/config"
)

// Server wraps the MCP server and registers the cxxlens tools.
type Server struct {
	server *mcp.Server
	tools  *tools
}

// Option is a functional option for configuring Server.
type Option func(*Server)

// WithConfig sets the configuration tool calls start from. Tool inputs
// override its include directories.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.tools.cfg = cfg
		}
	}
}

// WithLogger sets the logger handed to the analyzers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.tools.logger = logger
		}
	}
}

// NewServer creates a new MCP server with every cxxlens tool registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "cxxlens",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		tools:  &tools{cfg: config.DefaultConfig(), logger: slog.Default()},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_inheritance",
		Description: describeInheritance(),
	}, s.tools.handleClassifyInheritance)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count_operations",
		Description: describeOperations(),
	}, s.tools.handleCountOperations)
}
