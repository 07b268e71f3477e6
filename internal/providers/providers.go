// Package providers holds the HTTP plumbing shared by the platform clients.
//
// Each platform lives in its own subpackage and implements
// ports.DeploymentProvider; this package only knows how to issue one
// authenticated JSON call and hand back the raw reply.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHTTPClient is the transport used when a client is not injected.
// The timeout is the transport-level default the gateway imposes on
// outbound calls; there is no per-call retry.
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// Do issues one authenticated JSON request and returns the status code and
// raw body. Network-level failures come back as errors; non-2xx statuses do
// not, so callers can extract the platform's own error message.
func Do(ctx context.Context, hc *http.Client, method, url, token string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// Is2xx reports whether the status code signals success.
func Is2xx(status int) bool {
	return status >= 200 && status < 300
}
