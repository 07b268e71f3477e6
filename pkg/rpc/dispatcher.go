/*
Package rpc implements the JSON-RPC request dispatch core of the gateway.

The Dispatcher receives decoded envelopes, routes them by method, and
produces exactly one well-formed response per request: either a result or an
error, never both, always tagged with the caller's correlation id. Handler
failures of every kind are caught here and converted to structured error
objects; nothing escapes to the transport layer as a panic or raw error.
*/
package rpc

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/shipyard-mcp/shipyard/internal/logging"
	"github.com/shipyard-mcp/shipyard/internal/observability"
	"github.com/shipyard-mcp/shipyard/pkg/domain"
	"github.com/shipyard-mcp/shipyard/pkg/registry"
)

// failureGlyph prefixes every user-visible tool failure message.
const failureGlyph = "❌ "

// Dispatcher routes decoded JSON-RPC envelopes to the tool registry.
type Dispatcher struct {
	registry *registry.Registry

	serverName    string
	serverVersion string

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics enables request/tool-call counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithServerInfo overrides the identity announced on initialize.
func WithServerInfo(name, version string) Option {
	return func(d *Dispatcher) {
		d.serverName = name
		d.serverVersion = version
	}
}

// NewDispatcher creates a dispatcher over the given tool registry.
func NewDispatcher(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:      reg,
		serverName:    "shipyard-mcp",
		serverVersion: "dev",
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry exposes the dispatch table, so transports can render discovery
// documents from the same source of truth tools/call dispatches against.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Malformed builds the envelope for a request body that could not be parsed
// at all. No correlation id could be extracted, so id is null.
func Malformed() *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      nil,
		Error: &Error{
			Code:    CodeParseError,
			Message: "request body is not valid JSON-RPC",
			Data:    &ErrorData{Kind: domain.KindMalformedRequest},
		},
	}
}

// Dispatch produces exactly one response for a decoded request, or nil for
// notifications (which take no response by protocol).
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	d.metrics.ObserveRequest(req.Method)

	if req.ID == nil && strings.HasPrefix(req.Method, "notifications/") {
		d.logger.Debug("notification acknowledged", "method", req.Method)
		return nil
	}

	switch req.Method {
	case "initialize":
		return d.result(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    Capabilities{Tools: &ToolsCapability{}},
			ServerInfo:      ServerInfo{Name: d.serverName, Version: d.serverVersion},
		})

	case "ping":
		return d.result(req.ID, struct{}{})

	case "tools/list":
		return d.result(req.ID, d.toolsList())

	case "tools/call":
		return d.toolsCall(ctx, req)
	}

	return d.failure(req.ID, domain.NewError(domain.KindUnknownMethod,
		"method not found: %s", req.Method))
}

func (d *Dispatcher) toolsList() ToolsListResult {
	descriptors := d.registry.List()
	tools := make([]ToolInfo, len(descriptors))
	for i, desc := range descriptors {
		tools[i] = ToolInfo{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.InputSchema(),
		}
	}
	return ToolsListResult{Tools: tools}
}

func (d *Dispatcher) toolsCall(ctx context.Context, req *Request) *Response {
	var params CallToolParams
	if len(req.Params) == 0 {
		return d.failure(req.ID, domain.NewError(domain.KindValidationError,
			"tools/call requires params.name"))
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return d.failure(req.ID, domain.NewError(domain.KindValidationError,
			"tools/call params are malformed: %v", err))
	}
	if params.Name == "" {
		return d.failure(req.ID, domain.NewError(domain.KindValidationError,
			"tools/call requires params.name"))
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	text, err := d.registry.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		d.metrics.ObserveToolCall(params.Name, string(domain.KindOf(err)))
		d.logger.Warn("tool call failed",
			"tool", params.Name,
			"kind", string(domain.KindOf(err)),
			"err", err,
		)
		return d.failure(req.ID, err)
	}

	d.metrics.ObserveToolCall(params.Name, "ok")
	return d.result(req.ID, TextResult(text))
}

func (d *Dispatcher) result(id any, payload any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: payload}
}

// failure converts any handler error into a structured error envelope.
// Tool-level failures carry the failure glyph so rendered text is readable
// without inspecting the error object.
func (d *Dispatcher) failure(id any, err error) *Response {
	kind := domain.KindOf(err)
	message := domain.MessageOf(err)
	if kind.IsToolFailure() {
		message = failureGlyph + message
	}
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    codeFor(kind),
			Message: message,
			Data:    &ErrorData{Kind: kind},
		},
	}
}
