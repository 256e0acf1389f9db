package taskrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Decision is the router's verdict for one query
type Decision struct {
	Agent      string  `json:"agent"`
	Confidence float64 `json:"confidence"`
	Result     string  `json:"result"`
}

// Router dispatches a query to the external task-router endpoint
type Router interface {
	Route(ctx context.Context, query, authToken string) (*Decision, error)
}

// HTTPClient implements Router against the configured endpoint
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient creates a router client
func NewHTTPClient(endpoint string, timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type routeRequest struct {
	Query     string `json:"query"`
	AuthToken string `json:"authToken"`
}

// Route sends the query to the task router. A non-2xx status is a hard
// failure for the request.
func (c *HTTPClient) Route(ctx context.Context, query, authToken string) (*Decision, error) {
	body, err := json.Marshal(routeRequest{Query: query, AuthToken: authToken})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("task router returned status %d", resp.StatusCode)
	}

	var decision Decision
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &decision, nil
}
