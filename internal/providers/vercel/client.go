// Package vercel implements ports.DeploymentProvider against the Vercel
// REST API.
package vercel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shipyard-mcp/shipyard/internal/config"
	"github.com/shipyard-mcp/shipyard/internal/logging"
	"github.com/shipyard-mcp/shipyard/internal/providers"
	"github.com/shipyard-mcp/shipyard/pkg/domain"
	"github.com/shipyard-mcp/shipyard/pkg/ports"
)

const defaultBaseURL = "https://api.vercel.com"

// Client talks to the Vercel API. It retains no state between calls; the
// token is read from its source on every operation.
type Client struct {
	baseURL    string
	token      config.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.DeploymentProvider = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Vercel client reading its token from the given source.
func New(token config.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: providers.DefaultHTTPClient(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the platform identifier.
func (c *Client) Name() string {
	return "vercel"
}

// deployment is the subset of Vercel's deployment object the gateway uses.
// Older API versions report the identifier as "uid".
type deployment struct {
	ID         string `json:"id"`
	UID        string `json:"uid"`
	URL        string `json:"url"`
	ReadyState string `json:"readyState"`
	Target     string `json:"target"`
	CreatedAt  int64  `json:"createdAt"` // epoch milliseconds
	Ready      int64  `json:"ready"`     // epoch milliseconds, set once terminal
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Trigger creates a deployment for the named project.
// When opts.GitRepo is set the deployment builds from that GitHub repo at
// opts.Branch; otherwise Vercel redeploys the project's current source.
func (c *Client) Trigger(ctx context.Context, project string, opts ports.TriggerOptions) (*domain.DeploymentRecord, error) {
	token := c.token()
	if token == "" {
		return nil, missingCredential()
	}

	payload := map[string]any{
		"name":   project,
		"target": "production",
	}
	if opts.GitRepo != "" {
		branch := opts.Branch
		if branch == "" {
			branch = "main"
		}
		payload["gitSource"] = map[string]any{
			"type": "github",
			"repo": opts.GitRepo,
			"ref":  branch,
		}
	}

	c.logger.Debug("triggering vercel deployment", "project", project)

	var dep deployment
	if err := c.call(ctx, http.MethodPost, "/v13/deployments", token, payload, &dep); err != nil {
		return nil, err
	}
	return c.record(&dep), nil
}

// GetStatus fetches a deployment by identifier.
func (c *Client) GetStatus(ctx context.Context, id string) (*domain.DeploymentRecord, error) {
	token := c.token()
	if token == "" {
		return nil, missingCredential()
	}

	var dep deployment
	if err := c.call(ctx, http.MethodGet, "/v13/deployments/"+id, token, nil, &dep); err != nil {
		return nil, err
	}
	return c.record(&dep), nil
}

// ListTargets enumerates the account's projects.
func (c *Client) ListTargets(ctx context.Context) ([]domain.Target, error) {
	token := c.token()
	if token == "" {
		return nil, missingCredential()
	}

	var reply struct {
		Projects []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			Framework string `json:"framework"`
		} `json:"projects"`
	}
	if err := c.call(ctx, http.MethodGet, "/v9/projects", token, nil, &reply); err != nil {
		return nil, err
	}

	targets := make([]domain.Target, len(reply.Projects))
	for i, p := range reply.Projects {
		kind := "project"
		if p.Framework != "" {
			kind = p.Framework
		}
		targets[i] = domain.Target{ID: p.ID, Name: p.Name, Kind: kind}
	}
	return targets, nil
}

func (c *Client) call(ctx context.Context, method, path, token string, body, out any) error {
	status, data, err := providers.Do(ctx, c.httpClient, method, c.baseURL+path, token, body)
	if err != nil {
		return domain.NewError(domain.KindProviderError, "vercel: %v", err)
	}
	if !providers.Is2xx(status) {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return domain.NewError(domain.KindProviderError, "vercel: %s", apiErr.Error.Message)
		}
		return domain.NewError(domain.KindProviderError, "vercel: unexpected status %d", status)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.NewError(domain.KindProviderError, "vercel: malformed response: %v", err)
	}
	return nil
}

func (c *Client) record(dep *deployment) *domain.DeploymentRecord {
	id := dep.ID
	if id == "" {
		id = dep.UID
	}

	rec := &domain.DeploymentRecord{
		ID:        id,
		Platform:  c.Name(),
		URL:       dep.URL,
		Status:    normalize(dep.ReadyState),
		RawStatus: dep.ReadyState,
		Target:    dep.Target,
		CreatedAt: time.UnixMilli(dep.CreatedAt).UTC(),
	}
	if dep.Ready > 0 && rec.Status != domain.StatusPending {
		finished := time.UnixMilli(dep.Ready).UTC()
		rec.FinishedAt = &finished
	}
	return rec
}

func normalize(readyState string) domain.Status {
	switch readyState {
	case "READY":
		return domain.StatusLive
	case "ERROR", "CANCELED":
		return domain.StatusFailed
	case "QUEUED", "BUILDING", "INITIALIZING":
		return domain.StatusPending
	}
	return domain.StatusUnknown
}

func missingCredential() error {
	return domain.NewError(domain.KindMissingCredential,
		"%s is not configured", config.EnvVercelToken)
}
