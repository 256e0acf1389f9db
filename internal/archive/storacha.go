package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// StorachaClient talks to a decentralized-storage gateway over HTTP.
// The gateway wraps the underlying delegation and upload machinery; from
// here it is just an opaque capability.
type StorachaClient struct {
	baseURL string
	token   string
	space   string
	client  *http.Client
}

// NewStorachaClient creates a gateway client
func NewStorachaClient(baseURL, token, space string, timeout time.Duration) *StorachaClient {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &StorachaClient{
		baseURL: baseURL,
		token:   token,
		space:   space,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *StorachaClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.space != "" {
		req.Header.Set("X-Storage-Space", c.space)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("archive gateway returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// ListItems fetches the full remote listing
func (c *StorachaClient) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type storeRequest struct {
	AgentID  string         `json:"agentId,omitempty"`
	DataType string         `json:"dataType"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type storeResponse struct {
	ID string `json:"id"`
}

// StoreItem uploads a private, agent-owned entry
func (c *StorachaClient) StoreItem(ctx context.Context, agentID, dataType, content string, metadata map[string]any) (string, error) {
	var resp storeResponse
	req := storeRequest{AgentID: agentID, DataType: dataType, Content: content, Metadata: metadata}
	if err := c.do(ctx, http.MethodPost, "/items", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// StoreSharedItem uploads an entry visible to other agents
func (c *StorachaClient) StoreSharedItem(ctx context.Context, dataType, content string, metadata map[string]any) (string, error) {
	var resp storeResponse
	req := storeRequest{DataType: dataType, Content: content, Metadata: metadata}
	if err := c.do(ctx, http.MethodPost, "/items/shared", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// RequestApproval asks the gateway for a storage delegation. Failure means
// no writes may be attempted.
func (c *StorachaClient) RequestApproval(ctx context.Context, subject string) error {
	req := map[string]string{"subject": subject}
	return c.do(ctx, http.MethodPost, "/delegations", req, nil)
}
