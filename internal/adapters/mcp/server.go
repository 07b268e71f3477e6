// Package mcp exposes the gateway's tool registry over the Model Context
// Protocol stdio transport, for local agent hosts like Claude Desktop.
//
// The streamable HTTP transport lives in internal/adapters/http and shares
// the same registry, so both transports dispatch the identical tool set.
package mcp

import (
	"context"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shipyard-mcp/shipyard/internal/logging"
	"github.com/shipyard-mcp/shipyard/pkg/domain"
	"github.com/shipyard-mcp/shipyard/pkg/registry"
)

// Server wraps the tool registry as an MCP stdio server.
type Server struct {
	registry  *registry.Registry
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the adapter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a stdio MCP server over the given registry.
func NewServer(reg *registry.Registry, name, version string, opts ...Option) *Server {
	s := &Server{
		registry:  reg,
		mcpServer: server.NewMCPServer(name, version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout and blocks until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	for _, desc := range s.registry.List() {
		tool := mcplib.NewTool(desc.Name, toolOptions(desc)...)
		s.mcpServer.AddTool(tool, s.handler(desc.Name))
	}
}

func toolOptions(desc registry.Descriptor) []mcplib.ToolOption {
	opts := []mcplib.ToolOption{mcplib.WithDescription(desc.Description)}
	for _, p := range desc.Params {
		propOpts := []mcplib.PropertyOption{mcplib.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcplib.Required())
		}
		if def, ok := p.Default.(string); ok {
			propOpts = append(propOpts, mcplib.DefaultString(def))
		}
		// Every current tool parameter is a string.
		opts = append(opts, mcplib.WithString(p.Name, propOpts...))
	}
	return opts
}

// handler adapts one registry tool to the mcp-go handler signature. Tool
// failures become isError results, the stdio-native shape for them, with
// the same glyph-prefixed message the HTTP transport produces.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := s.registry.Call(ctx, name, request.GetArguments())
		if err != nil {
			s.logger.Warn("tool call failed",
				"tool", name,
				"kind", string(domain.KindOf(err)),
				"err", err,
			)
			return mcplib.NewToolResultError("❌ " + domain.MessageOf(err)), nil
		}
		return mcplib.NewToolResultText(text), nil
	}
}
