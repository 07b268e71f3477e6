// Package render implements ports.DeploymentProvider against the Render
// REST API.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shipyard-mcp/shipyard/internal/config"
	"github.com/shipyard-mcp/shipyard/internal/logging"
	"github.com/shipyard-mcp/shipyard/internal/providers"
	"github.com/shipyard-mcp/shipyard/pkg/domain"
	"github.com/shipyard-mcp/shipyard/pkg/ports"
)

const defaultBaseURL = "https://api.render.com/v1"

// Client talks to the Render API. It retains no state between calls; the
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

// New creates a Render client reading its token from the given source.
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
	return "render"
}

// deploy is the subset of Render's deploy object the gateway uses.
type deploy struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`  // RFC 3339
	FinishedAt string `json:"finishedAt"` // RFC 3339, empty while in flight
}

type apiError struct {
	Message string `json:"message"`
}

// Trigger starts a deploy of the given service.
func (c *Client) Trigger(ctx context.Context, serviceID string, _ ports.TriggerOptions) (*domain.DeploymentRecord, error) {
	token := c.token()
	if token == "" {
		return nil, missingCredential()
	}

	c.logger.Debug("triggering render deploy", "service_id", serviceID)

	var dep deploy
	path := fmt.Sprintf("/services/%s/deploys", serviceID)
	if err := c.call(ctx, http.MethodPost, path, token, map[string]any{}, &dep); err != nil {
		return nil, err
	}
	return c.record(serviceID, &dep), nil
}

// GetStatus fetches the most recent deploy of the given service.
func (c *Client) GetStatus(ctx context.Context, serviceID string) (*domain.DeploymentRecord, error) {
	token := c.token()
	if token == "" {
		return nil, missingCredential()
	}

	// Render has no standalone deploy lookup without the owning service, so
	// status reads report the latest deploy of the service.
	var reply []struct {
		Deploy deploy `json:"deploy"`
	}
	path := fmt.Sprintf("/services/%s/deploys?limit=1", serviceID)
	if err := c.call(ctx, http.MethodGet, path, token, nil, &reply); err != nil {
		return nil, err
	}
	if len(reply) == 0 {
		return nil, domain.NewError(domain.KindProviderError,
			"render: service %s has no deploys", serviceID)
	}
	return c.record(serviceID, &reply[0].Deploy), nil
}

// ListTargets enumerates the account's services.
func (c *Client) ListTargets(ctx context.Context) ([]domain.Target, error) {
	token := c.token()
	if token == "" {
		return nil, missingCredential()
	}

	var reply []struct {
		Service struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"service"`
	}
	if err := c.call(ctx, http.MethodGet, "/services?limit=100", token, nil, &reply); err != nil {
		return nil, err
	}

	targets := make([]domain.Target, len(reply))
	for i, entry := range reply {
		targets[i] = domain.Target{
			ID:   entry.Service.ID,
			Name: entry.Service.Name,
			Kind: entry.Service.Type,
		}
	}
	return targets, nil
}

func (c *Client) call(ctx context.Context, method, path, token string, body, out any) error {
	status, data, err := providers.Do(ctx, c.httpClient, method, c.baseURL+path, token, body)
	if err != nil {
		return domain.NewError(domain.KindProviderError, "render: %v", err)
	}
	if !providers.Is2xx(status) {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return domain.NewError(domain.KindProviderError, "render: %s", apiErr.Message)
		}
		return domain.NewError(domain.KindProviderError, "render: unexpected status %d", status)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.NewError(domain.KindProviderError, "render: malformed response: %v", err)
	}
	return nil
}

func (c *Client) record(serviceID string, dep *deploy) *domain.DeploymentRecord {
	rec := &domain.DeploymentRecord{
		ID:        dep.ID,
		Platform:  c.Name(),
		URL:       serviceID, // Render deploys expose no URL; the service ID is the stable handle
		Status:    normalize(dep.Status),
		RawStatus: dep.Status,
	}
	if t, err := time.Parse(time.RFC3339, dep.CreatedAt); err == nil {
		rec.CreatedAt = t.UTC()
	}
	if dep.FinishedAt != "" {
		if t, err := time.Parse(time.RFC3339, dep.FinishedAt); err == nil {
			finished := t.UTC()
			rec.FinishedAt = &finished
		}
	}
	return rec
}

func normalize(status string) domain.Status {
	switch status {
	case "live":
		return domain.StatusLive
	case "build_failed", "update_failed", "pre_deploy_failed", "canceled", "deactivated":
		return domain.StatusFailed
	case "created", "queued", "build_in_progress", "update_in_progress", "pre_deploy_in_progress":
		return domain.StatusPending
	}
	return domain.StatusUnknown
}

func missingCredential() error {
	return domain.NewError(domain.KindMissingCredential,
		"%s is not configured", config.EnvRenderToken)
}
