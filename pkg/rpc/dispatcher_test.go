package rpc

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipyard-mcp/shipyard/pkg/domain"
	"github.com/shipyard-mcp/shipyard/pkg/registry"
)

func testDispatcher() *Dispatcher {
	reg := registry.New()
	reg.Register(registry.Descriptor{
		Name:        "greet",
		Description: "Greet someone",
		Params: []registry.Param{
			{Name: "who", Type: "string", Required: true},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		return "hello " + args["who"].(string), nil
	})
	reg.Register(registry.Descriptor{
		Name: "broken",
	}, func(ctx context.Context, args map[string]any) (string, error) {
		return "", domain.NewError(domain.KindProviderError, "platform exploded")
	})
	return NewDispatcher(reg, WithServerInfo("shipyard-test", "0.0.0"))
}

func call(t *testing.T, d *Dispatcher, method string, params any, id any) *Response {
	t.Helper()
	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		raw = data
	}
	return d.Dispatch(context.Background(), &Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  raw,
	})
}

// assertWellFormed checks the envelope invariant: exactly one of result and
// error, never both, never neither.
func assertWellFormed(t *testing.T, resp *Response) {
	t.Helper()
	require.NotNil(t, resp)
	assert.Equal(t, "2.0", resp.JSONRPC)
	if resp.Error != nil {
		assert.Nil(t, resp.Result)
	} else {
		assert.NotNil(t, resp.Result)
	}
}

func TestDispatch_Initialize(t *testing.T) {
	resp := call(t, testDispatcher(), "initialize", nil, 1)
	assertWellFormed(t, resp)
	assert.Equal(t, 1, resp.ID)

	result := resp.Result.(InitializeResult)
	assert.Equal(t, ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, "shipyard-test", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)
}

func TestDispatch_Ping(t *testing.T) {
	resp := call(t, testDispatcher(), "ping", nil, "p1")
	assertWellFormed(t, resp)
	assert.Equal(t, "p1", resp.ID)
	assert.Nil(t, resp.Error)
}

func TestDispatch_ToolsListMatchesDispatchTable(t *testing.T) {
	d := testDispatcher()
	resp := call(t, d, "tools/list", nil, 2)
	assertWellFormed(t, resp)

	result := resp.Result.(ToolsListResult)
	listed := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		listed[i] = tool.Name
		assert.NotNil(t, tool.InputSchema)
	}
	assert.ElementsMatch(t, d.Registry().Names(), listed,
		"tools/list must enumerate exactly the tools tools/call dispatches to")
}

func TestDispatch_ToolsCallPreservesID(t *testing.T) {
	resp := call(t, testDispatcher(), "tools/call",
		CallToolParams{Name: "greet", Arguments: map[string]any{"who": "world"}}, 42)
	assertWellFormed(t, resp)
	assert.Equal(t, 42, resp.ID)

	result := resp.Result.(CallToolResult)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Equal(t, "hello world", result.Content[0].Text)
}

func TestDispatch_ToolsCallUnknownTool(t *testing.T) {
	resp := call(t, testDispatcher(), "tools/call",
		CallToolParams{Name: "missing"}, 3)
	assertWellFormed(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.KindUnknownTool, resp.Error.Data.Kind)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestDispatch_ToolsCallMissingName(t *testing.T) {
	resp := call(t, testDispatcher(), "tools/call", map[string]any{}, 4)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.KindValidationError, resp.Error.Data.Kind)
}

func TestDispatch_ToolFailureCarriesGlyphAndKind(t *testing.T) {
	resp := call(t, testDispatcher(), "tools/call",
		CallToolParams{Name: "broken"}, 5)
	assertWellFormed(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.KindProviderError, resp.Error.Data.Kind)
	assert.True(t, strings.HasPrefix(resp.Error.Message, "❌ "),
		"tool failures are rendered with the failure glyph, got %q", resp.Error.Message)
	assert.Contains(t, resp.Error.Message, "platform exploded")
}

func TestDispatch_ValidationFailureCarriesGlyph(t *testing.T) {
	resp := call(t, testDispatcher(), "tools/call",
		CallToolParams{Name: "greet", Arguments: map[string]any{}}, 6)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.KindValidationError, resp.Error.Data.Kind)
	assert.True(t, strings.HasPrefix(resp.Error.Message, "❌ "))
}

func TestDispatch_UnknownMethod(t *testing.T) {
	resp := call(t, testDispatcher(), "unknown", nil, 7)
	assertWellFormed(t, resp)
	assert.Equal(t, 7, resp.ID, "original id preserved on errors")
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.KindUnknownMethod, resp.Error.Data.Kind)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.False(t, strings.HasPrefix(resp.Error.Message, "❌"),
		"protocol errors carry no failure glyph")
}

func TestDispatch_NotificationTakesNoResponse(t *testing.T) {
	resp := testDispatcher().Dispatch(context.Background(), &Request{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	})
	assert.Nil(t, resp)
}

func TestMalformed_NullID(t *testing.T) {
	resp := Malformed()
	require.NotNil(t, resp.Error)
	assert.Nil(t, resp.ID)
	assert.Equal(t, domain.KindMalformedRequest, resp.Error.Data.Kind)

	// The serialized envelope must carry an explicit null id.
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":null`)
}

func TestResponse_SerializesExactlyOneOutcome(t *testing.T) {
	d := testDispatcher()

	for name, resp := range map[string]*Response{
		"result": call(t, d, "tools/list", nil, 1),
		"error":  call(t, d, "nope", nil, 2),
	} {
		data, err := json.Marshal(resp)
		require.NoError(t, err)

		var decoded map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &decoded))

		_, hasResult := decoded["result"]
		_, hasErr := decoded["error"]
		assert.True(t, hasResult != hasErr,
			"%s envelope must carry exactly one of result/error", name)
	}
}
