package ports

import (
	"context"

	"github.com/shipyard-mcp/shipyard/pkg/domain"
)

// TriggerOptions carries the optional inputs of a deployment trigger.
// Fields are interpreted per platform; zero values mean "platform default".
type TriggerOptions struct {
	// GitRepo is the source repository in "owner/repo" form (Vercel only).
	GitRepo string

	// Branch is the git ref to deploy.
	Branch string
}

// DeploymentProvider is the capability interface over one external
// deployment platform. Each method issues exactly one authenticated HTTP
// call; no local state is retained between calls.
//
// Implementations return domain-tagged errors: KindMissingCredential when
// the platform token is absent from configuration (checked before any I/O),
// and KindProviderError for non-2xx replies, network failures, or malformed
// responses.
type DeploymentProvider interface {
	// Name returns the platform identifier ("vercel", "render").
	Name() string

	// Trigger issues the platform's deployment-creation call for the given
	// target (project name or service ID).
	Trigger(ctx context.Context, target string, opts TriggerOptions) (*domain.DeploymentRecord, error)

	// GetStatus issues a read-only status call for a deployment or service
	// identifier.
	GetStatus(ctx context.Context, id string) (*domain.DeploymentRecord, error)

	// ListTargets enumerates the platform's deployable units.
	ListTargets(ctx context.Context) ([]domain.Target, error)
}
