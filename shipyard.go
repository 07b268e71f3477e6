package shipyard

import (
	"fmt"
	"log/slog"
	"net/http"

	httpAdapter "github.com/shipyard-mcp/shipyard/internal/adapters/http"
	mcpAdapter "github.com/shipyard-mcp/shipyard/internal/adapters/mcp"
	"github.com/shipyard-mcp/shipyard/internal/adapters/memory"
	redisAdapter "github.com/shipyard-mcp/shipyard/internal/adapters/redis"
	"github.com/shipyard-mcp/shipyard/internal/config"
	"github.com/shipyard-mcp/shipyard/internal/logging"
	"github.com/shipyard-mcp/shipyard/internal/observability"
	"github.com/shipyard-mcp/shipyard/internal/providers/render"
	"github.com/shipyard-mcp/shipyard/internal/providers/vercel"
	"github.com/shipyard-mcp/shipyard/internal/tools"
	"github.com/shipyard-mcp/shipyard/pkg/ports"
	"github.com/shipyard-mcp/shipyard/pkg/registry"
	"github.com/shipyard-mcp/shipyard/pkg/rpc"
	"github.com/shipyard-mcp/shipyard/pkg/session"
)

// Version is the gateway release version.
const Version = "0.2.0"

// ServerName identifies this server to MCP clients.
const ServerName = "shipyard-mcp"

// Gateway is the high-level entry point. It wires configuration, providers,
// the tool registry, sessions, and the dispatcher, and hands out transports.
type Gateway struct {
	cfg *config.Config

	registry   *registry.Registry
	dispatcher *rpc.Dispatcher
	sessions   *session.Manager
	metrics    *observability.Metrics
	logger     *slog.Logger

	providers []ports.DeploymentProvider
	store     ports.SessionStore
}

// Option defines a functional option for configuring the Gateway.
type Option func(*Gateway)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithProviders injects custom deployment providers, bypassing the default
// Vercel and Render clients.
func WithProviders(providers ...ports.DeploymentProvider) Option {
	return func(g *Gateway) {
		g.providers = providers
	}
}

// WithSessionStore injects a custom session store, bypassing the
// REDIS_URL-driven selection.
func WithSessionStore(store ports.SessionStore) Option {
	return func(g *Gateway) {
		g.store = store
	}
}

// New creates a Gateway from the given configuration.
func New(cfg *config.Config, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		cfg:    cfg,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.providers == nil {
		vercelOpts := []vercel.Option{vercel.WithLogger(g.logger)}
		if cfg.VercelAPIURL != "" {
			vercelOpts = append(vercelOpts, vercel.WithBaseURL(cfg.VercelAPIURL))
		}
		renderOpts := []render.Option{render.WithLogger(g.logger)}
		if cfg.RenderAPIURL != "" {
			renderOpts = append(renderOpts, render.WithBaseURL(cfg.RenderAPIURL))
		}
		g.providers = []ports.DeploymentProvider{
			vercel.New(config.EnvToken(config.EnvVercelToken), vercelOpts...),
			render.New(config.EnvToken(config.EnvRenderToken), renderOpts...),
		}
	}

	if g.store == nil {
		if cfg.RedisURL != "" {
			store, err := redisAdapter.New(cfg.RedisURL)
			if err != nil {
				return nil, fmt.Errorf("failed to open redis session store: %w", err)
			}
			g.store = store
			g.logger.Info("using redis session store")
		} else {
			g.store = memory.NewStore()
		}
	}

	g.registry = registry.New()
	tools.Register(g.registry, tools.Deps{
		Providers: g.providers,
		Logger:    g.logger,
	})

	g.metrics = observability.NewMetrics()
	g.sessions = session.NewManager(g.store, session.WithLogger(g.logger))
	g.dispatcher = rpc.NewDispatcher(g.registry,
		rpc.WithLogger(g.logger),
		rpc.WithMetrics(g.metrics),
		rpc.WithServerInfo(ServerName, Version),
	)

	return g, nil
}

// Handler returns the streamable HTTP transport.
func (g *Gateway) Handler() http.Handler {
	return httpAdapter.NewHandler(g.dispatcher, g.sessions,
		httpAdapter.WithLogger(g.logger),
		httpAdapter.WithServerInfo(ServerName, Version),
		httpAdapter.WithMetricsHandler(g.metrics.Handler()),
	)
}

// ServeStdio runs the stdio MCP transport until the client disconnects.
func (g *Gateway) ServeStdio() error {
	return mcpAdapter.NewServer(g.registry, ServerName, Version,
		mcpAdapter.WithLogger(g.logger),
	).ServeStdio()
}

// Registry exposes the tool registry (for discovery and the tools command).
func (g *Gateway) Registry() *registry.Registry {
	return g.registry
}

// Close releases the session store when it holds external resources.
func (g *Gateway) Close() error {
	if closer, ok := g.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
