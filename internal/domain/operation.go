package domain

import "time"

// OperationType names a storage interaction worth surfacing to the user
type OperationType string

const (
	OpUpload     OperationType = "upload"
	OpDownload   OperationType = "download"
	OpList       OperationType = "list"
	OpShare      OperationType = "share"
	OpInfo       OperationType = "info"
	OpDelegation OperationType = "delegation"
)

// OperationStatus is the outcome of a storage operation
type OperationStatus string

const (
	OpPending OperationStatus = "pending"
	OpSuccess OperationStatus = "success"
	OpError   OperationStatus = "error"
)

// StorageOperation is an observability record of one storage interaction.
// It lives in memory only and is not persisted across restarts.
type StorageOperation struct {
	ID        string          `json:"id"`
	Operation OperationType   `json:"operation"`
	AgentID   string          `json:"agentId"`
	Status    OperationStatus `json:"status"`
	DataType  string          `json:"dataType,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	MessageID string          `json:"messageId,omitempty"`
}
