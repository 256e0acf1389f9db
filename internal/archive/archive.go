package archive

import (
	"context"
	"time"
)

// Item is one stored object in the remote archive. Content is a serialized
// JSON payload; Metadata is free-form.
type Item struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agentId"`
	DataType  string         `json:"dataType"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Client is the remote archive capability. Entries are append-only from
// this side: nothing here ever deletes a remote item.
type Client interface {
	ListItems(ctx context.Context) ([]Item, error)
	StoreItem(ctx context.Context, agentID, dataType, content string, metadata map[string]any) (string, error)
	StoreSharedItem(ctx context.Context, dataType, content string, metadata map[string]any) (string, error)
	RequestApproval(ctx context.Context, subject string) error
}
