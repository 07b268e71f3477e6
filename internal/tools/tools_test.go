package tools_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipyard-mcp/shipyard/internal/tools"
	"github.com/shipyard-mcp/shipyard/pkg/domain"
	"github.com/shipyard-mcp/shipyard/pkg/ports"
	"github.com/shipyard-mcp/shipyard/pkg/registry"
)

// stubProvider is a scriptable DeploymentProvider that counts calls.
type stubProvider struct {
	name string

	triggerCalls int
	statusCalls  int
	listCalls    int

	lastTarget string
	lastOpts   ports.TriggerOptions

	record  *domain.DeploymentRecord
	targets []domain.Target
	err     error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Trigger(ctx context.Context, target string, opts ports.TriggerOptions) (*domain.DeploymentRecord, error) {
	s.triggerCalls++
	s.lastTarget = target
	s.lastOpts = opts
	return s.record, s.err
}

func (s *stubProvider) GetStatus(ctx context.Context, id string) (*domain.DeploymentRecord, error) {
	s.statusCalls++
	s.lastTarget = id
	return s.record, s.err
}

func (s *stubProvider) ListTargets(ctx context.Context) ([]domain.Target, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.targets, nil
}

func newRegistry(providers ...ports.DeploymentProvider) *registry.Registry {
	reg := registry.New()
	tools.Register(reg, tools.Deps{Providers: providers})
	return reg
}

func TestRegister_DeclaresExactlyTheDispatchableTools(t *testing.T) {
	reg := newRegistry(&stubProvider{name: "vercel"}, &stubProvider{name: "render"})

	assert.Equal(t, []string{
		"check-deployment-status",
		"deploy-render",
		"deploy-vercel",
		"list-services",
	}, reg.Names())
}

func TestDeployVercel_RendersRecord(t *testing.T) {
	vercel := &stubProvider{
		name: "vercel",
		record: &domain.DeploymentRecord{
			ID:        "dep_1",
			Platform:  "vercel",
			URL:       "demo.example",
			Status:    domain.StatusPending,
			RawStatus: "BUILDING",
			Target:    "production",
		},
	}
	reg := newRegistry(vercel)

	text, err := reg.Call(context.Background(), "deploy-vercel",
		map[string]any{"projectName": "demo"})
	require.NoError(t, err)

	assert.Contains(t, text, "dep_1")
	assert.Contains(t, text, "BUILDING")
	assert.Contains(t, text, "https://demo.example")
	assert.Equal(t, "demo", vercel.lastTarget)
	assert.Equal(t, "main", vercel.lastOpts.Branch, "branch default applied by the registry")
	assert.Equal(t, 1, vercel.triggerCalls)
}

func TestDeployRender_ByServiceID(t *testing.T) {
	render := &stubProvider{
		name:   "render",
		record: &domain.DeploymentRecord{ID: "dep-9", Platform: "render", RawStatus: "created", Status: domain.StatusPending},
	}
	reg := newRegistry(render)

	text, err := reg.Call(context.Background(), "deploy-render",
		map[string]any{"serviceId": "srv-1"})
	require.NoError(t, err)

	assert.Contains(t, text, "dep-9")
	assert.Equal(t, "srv-1", render.lastTarget)
	assert.Equal(t, 1, render.triggerCalls)
	assert.Zero(t, render.listCalls, "no resolution needed when serviceId is given")
}

func TestDeployRender_ByServiceName_OneListOneTrigger(t *testing.T) {
	render := &stubProvider{
		name:    "render",
		targets: []domain.Target{{ID: "srv-1", Name: "api"}, {ID: "srv-2", Name: "worker"}},
		record:  &domain.DeploymentRecord{ID: "dep-9", Platform: "render", RawStatus: "created", Status: domain.StatusPending},
	}
	reg := newRegistry(render)

	_, err := reg.Call(context.Background(), "deploy-render",
		map[string]any{"serviceName": "worker"})
	require.NoError(t, err)

	assert.Equal(t, 1, render.listCalls)
	assert.Equal(t, 1, render.triggerCalls)
	assert.Equal(t, "srv-2", render.lastTarget)
}

func TestDeployRender_ByServiceName_NoMatch(t *testing.T) {
	render := &stubProvider{
		name:    "render",
		targets: []domain.Target{{ID: "srv-1", Name: "api"}},
	}
	reg := newRegistry(render)

	_, err := reg.Call(context.Background(), "deploy-render",
		map[string]any{"serviceName": "missing"})

	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, 1, render.listCalls)
	assert.Zero(t, render.triggerCalls, "no trigger may follow a failed resolution")
}

func TestDeployRender_RequiresIDOrName(t *testing.T) {
	render := &stubProvider{name: "render"}
	reg := newRegistry(render)

	_, err := reg.Call(context.Background(), "deploy-render", map[string]any{})

	require.Error(t, err)
	assert.Equal(t, domain.KindValidationError, domain.KindOf(err))
	assert.Zero(t, render.triggerCalls)
	assert.Zero(t, render.listCalls)
}

func TestMissingCredentialSurfacesWithoutFurtherCalls(t *testing.T) {
	render := &stubProvider{
		name: "render",
		err:  domain.NewError(domain.KindMissingCredential, "RENDER_TOKEN is not configured"),
	}
	reg := newRegistry(render)

	_, err := reg.Call(context.Background(), "deploy-render",
		map[string]any{"serviceName": "api"})

	require.Error(t, err)
	assert.Equal(t, domain.KindMissingCredential, domain.KindOf(err))
	assert.Zero(t, render.triggerCalls, "credential failure in resolution must stop the chain")
}

func TestCheckStatus_UnknownPlatform(t *testing.T) {
	reg := newRegistry(&stubProvider{name: "vercel"}, &stubProvider{name: "render"})

	_, err := reg.Call(context.Background(), "check-deployment-status",
		map[string]any{"platform": "heroku", "id": "x"})

	require.Error(t, err)
	assert.Equal(t, domain.KindValidationError, domain.KindOf(err))
	assert.Contains(t, err.Error(), "heroku")
}

func TestCheckStatus_RendersGlyphForStatus(t *testing.T) {
	vercel := &stubProvider{
		name:   "vercel",
		record: &domain.DeploymentRecord{ID: "dep_1", Platform: "vercel", RawStatus: "READY", Status: domain.StatusLive},
	}
	reg := newRegistry(vercel)

	text, err := reg.Call(context.Background(), "check-deployment-status",
		map[string]any{"platform": "vercel", "id": "dep_1"})
	require.NoError(t, err)

	assert.Contains(t, text, "✅")
	assert.Contains(t, text, "READY")
	assert.Equal(t, 1, vercel.statusCalls)
}

func TestListServices_RendersTargets(t *testing.T) {
	render := &stubProvider{
		name: "render",
		targets: []domain.Target{
			{ID: "srv-1", Name: "api", Kind: "web_service"},
		},
	}
	reg := newRegistry(render)

	text, err := reg.Call(context.Background(), "list-services",
		map[string]any{"platform": "render"})
	require.NoError(t, err)

	assert.Contains(t, text, "api (srv-1) [web_service]")
}

func TestListServices_Empty(t *testing.T) {
	reg := newRegistry(&stubProvider{name: "render"})

	text, err := reg.Call(context.Background(), "list-services",
		map[string]any{"platform": "render"})
	require.NoError(t, err)
	assert.Contains(t, text, "No services found")
}
