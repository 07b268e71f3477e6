package rpc

import (
	"encoding/json"

	"github.com/shipyard-mcp/shipyard/pkg/domain"
)

// ProtocolVersion is the MCP revision this gateway speaks.
const ProtocolVersion = "2024-11-05"

// Request is a JSON-RPC 2.0 request or notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"` // nil for notifications
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result/Error is set.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object. Data carries the domain error kind
// so callers can branch without parsing the numeric code.
type Error struct {
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    *ErrorData `json:"data,omitempty"`
}

// ErrorData tags the error with its domain kind.
type ErrorData struct {
	Kind domain.ErrorKind `json:"kind"`
}

// JSON-RPC error codes. The -32000 block is the implementation-defined
// server error range.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	CodeMissingCredential = -32001
	CodeProviderError     = -32002
	CodeNotFound          = -32003
)

func codeFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindMalformedRequest:
		return CodeParseError
	case domain.KindUnknownMethod:
		return CodeMethodNotFound
	case domain.KindUnknownTool, domain.KindValidationError:
		return CodeInvalidParams
	case domain.KindMissingCredential:
		return CodeMissingCredential
	case domain.KindNotFound:
		return CodeNotFound
	case domain.KindProviderError:
		return CodeProviderError
	}
	return CodeInternalError
}

// InitializeResult is returned for the "initialize" method.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Capabilities advertises supported features.
type Capabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability describes the tools feature.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ServerInfo identifies this server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ToolsListResult is the response to "tools/list".
type ToolsListResult struct {
	Tools []ToolInfo `json:"tools"`
}

// ToolInfo describes a single tool for clients.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema"`
}

// CallToolParams is the input for "tools/call".
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// CallToolResult is the response to "tools/call".
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
}

// ContentBlock is a text content block in a tool result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextResult wraps rendered text in the MCP content shape.
func TextResult(text string) CallToolResult {
	return CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}
