// Package tools defines the deployment tools the gateway exposes and binds
// them to the platform providers.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/shipyard-mcp/shipyard/internal/logging"
	"github.com/shipyard-mcp/shipyard/pkg/domain"
	"github.com/shipyard-mcp/shipyard/pkg/ports"
	"github.com/shipyard-mcp/shipyard/pkg/registry"
)

// Deps carries what the tool handlers need.
type Deps struct {
	// Providers are the available platforms, looked up by Name().
	Providers []ports.DeploymentProvider

	Logger *slog.Logger
}

type toolset struct {
	providers map[string]ports.DeploymentProvider
	platforms string // comma-joined names for error messages
	logger    *slog.Logger
}

// Register installs the deployment tools into the registry.
func Register(reg *registry.Registry, deps Deps) {
	ts := &toolset{
		providers: make(map[string]ports.DeploymentProvider, len(deps.Providers)),
		logger:    deps.Logger,
	}
	if ts.logger == nil {
		ts.logger = logging.NewNop()
	}
	names := make([]string, 0, len(deps.Providers))
	for _, p := range deps.Providers {
		ts.providers[p.Name()] = p
		names = append(names, p.Name())
	}
	ts.platforms = strings.Join(names, ", ")

	reg.Register(registry.Descriptor{
		Name:        "deploy-vercel",
		Description: "Trigger a deployment of a Vercel project",
		Params: []registry.Param{
			{Name: "projectName", Type: "string", Description: "Vercel project name", Required: true},
			{Name: "gitRepo", Type: "string", Description: "GitHub repository in owner/repo form (optional)"},
			{Name: "branch", Type: "string", Description: "Git branch to deploy", Default: "main"},
		},
	}, ts.deployVercel)

	reg.Register(registry.Descriptor{
		Name:        "deploy-render",
		Description: "Trigger a deploy of a Render service, by ID or by exact service name",
		Params: []registry.Param{
			{Name: "serviceId", Type: "string", Description: "Render service ID (required unless serviceName is given)"},
			{Name: "serviceName", Type: "string", Description: "Exact service name to resolve to an ID"},
		},
	}, ts.deployRender)

	reg.Register(registry.Descriptor{
		Name:        "check-deployment-status",
		Description: "Fetch the current status of a deployment or service",
		Params: []registry.Param{
			{Name: "platform", Type: "string", Description: "Target platform: vercel or render", Required: true},
			{Name: "id", Type: "string", Description: "Deployment ID (vercel) or service ID (render)", Required: true},
		},
	}, ts.checkStatus)

	reg.Register(registry.Descriptor{
		Name:        "list-services",
		Description: "List the deployable projects or services on a platform",
		Params: []registry.Param{
			{Name: "platform", Type: "string", Description: "Target platform: vercel or render", Required: true},
		},
	}, ts.listServices)
}

func (ts *toolset) provider(platform string) (ports.DeploymentProvider, error) {
	p, ok := ts.providers[platform]
	if !ok {
		return nil, domain.NewError(domain.KindValidationError,
			"unknown platform %q (expected one of: %s)", platform, ts.platforms)
	}
	return p, nil
}

// decode maps validated registry arguments onto a typed parameter struct.
func decode(args map[string]any, out any) error {
	if err := mapstructure.Decode(args, out); err != nil {
		return domain.NewError(domain.KindValidationError, "malformed arguments: %v", err)
	}
	return nil
}

type deployVercelArgs struct {
	ProjectName string `mapstructure:"projectName"`
	GitRepo     string `mapstructure:"gitRepo"`
	Branch      string `mapstructure:"branch"`
}

func (ts *toolset) deployVercel(ctx context.Context, args map[string]any) (string, error) {
	var params deployVercelArgs
	if err := decode(args, &params); err != nil {
		return "", err
	}
	p, err := ts.provider("vercel")
	if err != nil {
		return "", err
	}

	rec, err := p.Trigger(ctx, params.ProjectName, ports.TriggerOptions{
		GitRepo: params.GitRepo,
		Branch:  params.Branch,
	})
	if err != nil {
		return "", err
	}
	ts.logger.Info("vercel deployment triggered", "project", params.ProjectName, "deployment_id", rec.ID)
	return renderRecord("🚀 Vercel deployment created", rec), nil
}

type deployRenderArgs struct {
	ServiceID   string `mapstructure:"serviceId"`
	ServiceName string `mapstructure:"serviceName"`
}

func (ts *toolset) deployRender(ctx context.Context, args map[string]any) (string, error) {
	var params deployRenderArgs
	if err := decode(args, &params); err != nil {
		return "", err
	}
	if params.ServiceID == "" && params.ServiceName == "" {
		return "", domain.NewError(domain.KindValidationError,
			"deploy-render requires serviceId or serviceName")
	}
	p, err := ts.provider("render")
	if err != nil {
		return "", err
	}

	serviceID := params.ServiceID
	if serviceID == "" {
		serviceID, err = resolveByName(ctx, p, params.ServiceName)
		if err != nil {
			return "", err
		}
	}

	rec, err := p.Trigger(ctx, serviceID, ports.TriggerOptions{})
	if err != nil {
		return "", err
	}
	ts.logger.Info("render deploy triggered", "service_id", serviceID, "deploy_id", rec.ID)
	return renderRecord("🚀 Render deploy created", rec), nil
}

// resolveByName maps a human-supplied service name to its platform ID via
// one listing call. Matching is exact.
func resolveByName(ctx context.Context, p ports.DeploymentProvider, name string) (string, error) {
	targets, err := p.ListTargets(ctx)
	if err != nil {
		return "", err
	}
	for _, target := range targets {
		if target.Name == name {
			return target.ID, nil
		}
	}
	return "", domain.NewError(domain.KindNotFound,
		"no %s service named %q", p.Name(), name)
}

type checkStatusArgs struct {
	Platform string `mapstructure:"platform"`
	ID       string `mapstructure:"id"`
}

func (ts *toolset) checkStatus(ctx context.Context, args map[string]any) (string, error) {
	var params checkStatusArgs
	if err := decode(args, &params); err != nil {
		return "", err
	}
	p, err := ts.provider(params.Platform)
	if err != nil {
		return "", err
	}

	rec, err := p.GetStatus(ctx, params.ID)
	if err != nil {
		return "", err
	}
	title := fmt.Sprintf("%s Deployment status (%s)", statusGlyph(rec.Status), rec.Platform)
	return renderRecord(title, rec), nil
}

type listServicesArgs struct {
	Platform string `mapstructure:"platform"`
}

func (ts *toolset) listServices(ctx context.Context, args map[string]any) (string, error) {
	var params listServicesArgs
	if err := decode(args, &params); err != nil {
		return "", err
	}
	p, err := ts.provider(params.Platform)
	if err != nil {
		return "", err
	}

	targets, err := p.ListTargets(ctx)
	if err != nil {
		return "", err
	}
	if len(targets) == 0 {
		return fmt.Sprintf("No services found on %s.", params.Platform), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Services on %s:\n", params.Platform)
	for _, target := range targets {
		fmt.Fprintf(&b, "- %s (%s)", target.Name, target.ID)
		if target.Kind != "" {
			fmt.Fprintf(&b, " [%s]", target.Kind)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func statusGlyph(status domain.Status) string {
	switch status {
	case domain.StatusLive:
		return "✅"
	case domain.StatusFailed:
		return "❌"
	case domain.StatusPending:
		return "🔄"
	}
	return "❓"
}

// renderRecord formats a deployment record as readable text. The platform's
// raw state string is kept verbatim so operators can grep provider docs.
func renderRecord(title string, rec *domain.DeploymentRecord) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "ID: %s\n", rec.ID)
	if rec.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", displayURL(rec.URL))
	}
	fmt.Fprintf(&b, "State: %s (%s)\n", rec.RawStatus, rec.Status)
	if rec.Target != "" {
		fmt.Fprintf(&b, "Target: %s\n", rec.Target)
	}
	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if rec.FinishedAt != nil {
		fmt.Fprintf(&b, "Finished: %s\n", rec.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// displayURL prefixes a scheme when the platform reports a bare host, which
// Vercel does.
func displayURL(url string) string {
	if strings.Contains(url, "://") || !strings.Contains(url, ".") {
		return url
	}
	return "https://" + url
}
