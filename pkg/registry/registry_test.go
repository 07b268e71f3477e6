package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipyard-mcp/shipyard/pkg/domain"
)

func echoDescriptor() Descriptor {
	return Descriptor{
		Name:        "echo",
		Description: "Echo the message back",
		Params: []Param{
			{Name: "message", Type: "string", Required: true},
			{Name: "suffix", Type: "string", Default: "!"},
		},
	}
}

func TestRegistry_CallAppliesDefaults(t *testing.T) {
	r := New()
	r.Register(echoDescriptor(), func(ctx context.Context, args map[string]any) (string, error) {
		return args["message"].(string) + args["suffix"].(string), nil
	})

	out, err := r.Call(context.Background(), "echo", map[string]any{"message": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}

func TestRegistry_CallUnknownTool(t *testing.T) {
	r := New()

	_, err := r.Call(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnknownTool, domain.KindOf(err))
}

func TestRegistry_CallMissingRequired(t *testing.T) {
	r := New()
	called := false
	r.Register(echoDescriptor(), func(ctx context.Context, args map[string]any) (string, error) {
		called = true
		return "", nil
	})

	_, err := r.Call(context.Background(), "echo", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidationError, domain.KindOf(err))
	assert.False(t, called, "handler must not run on validation failure")
}

func TestRegistry_CallRejectsNonStringParam(t *testing.T) {
	r := New()
	r.Register(echoDescriptor(), func(ctx context.Context, args map[string]any) (string, error) {
		return "ok", nil
	})

	_, err := r.Call(context.Background(), "echo", map[string]any{"message": 42})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidationError, domain.KindOf(err))
}

func TestRegistry_CallEmptyStringCountsAsMissing(t *testing.T) {
	r := New()
	r.Register(echoDescriptor(), func(ctx context.Context, args map[string]any) (string, error) {
		return "ok", nil
	})

	_, err := r.Call(context.Background(), "echo", map[string]any{"message": ""})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidationError, domain.KindOf(err))
}

func TestRegistry_HandlerErrorPassesThrough(t *testing.T) {
	r := New()
	boom := domain.NewError(domain.KindProviderError, "platform said no")
	r.Register(echoDescriptor(), func(ctx context.Context, args map[string]any) (string, error) {
		return "", boom
	})

	_, err := r.Call(context.Background(), "echo", map[string]any{"message": "hi"})
	assert.True(t, errors.Is(err, boom))
}

func TestDescriptor_InputSchema(t *testing.T) {
	schema := echoDescriptor().InputSchema()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"message"}, schema["required"])

	props := schema["properties"].(map[string]any)
	suffix := props["suffix"].(map[string]any)
	assert.Equal(t, "!", suffix["default"])
}

func TestRegistry_ListSortedByName(t *testing.T) {
	r := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.Register(Descriptor{Name: name}, func(ctx context.Context, args map[string]any) (string, error) {
			return "", nil
		})
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}
