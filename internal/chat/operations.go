package chat

import (
	"sync"
	"time"

	"github.com/Shubham-Rasal/anp-chat/internal/domain"
)

// OperationLog is an in-memory record of storage interactions, surfaced to
// the UI for observability. It is intentionally not persisted.
type OperationLog struct {
	mu  sync.Mutex
	ops []domain.StorageOperation
}

// NewOperationLog creates an empty log
func NewOperationLog() *OperationLog {
	return &OperationLog{}
}

// Track records a new operation and returns its id
func (l *OperationLog) Track(op domain.OperationType, agentID string, status domain.OperationStatus, dataType, message, messageID string) string {
	id := domain.NewID("op")
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, domain.StorageOperation{
		ID:        id,
		Operation: op,
		AgentID:   agentID,
		Status:    status,
		DataType:  dataType,
		Message:   message,
		Timestamp: time.Now(),
		MessageID: messageID,
	})
	return id
}

// Update changes the status of a tracked operation. An empty message keeps
// the existing one.
func (l *OperationLog) Update(id string, status domain.OperationStatus, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.ops {
		if l.ops[i].ID == id {
			l.ops[i].Status = status
			if message != "" {
				l.ops[i].Message = message
			}
			l.ops[i].Timestamp = time.Now()
			return
		}
	}
}

// TrackMessage records that a chat message was stored locally, classifying
// it by data type.
func (l *OperationLog) TrackMessage(msg domain.ChatMessage) string {
	agentID := msg.AgentID
	if agentID == "" {
		agentID = "unknown"
	}

	var dataType string
	switch {
	case msg.Role == domain.RoleUser:
		dataType = "input"
	case msg.Role == domain.RoleAgent && msg.IsThought:
		dataType = "chain_of_thought"
	default:
		dataType = "output"
	}

	return l.Track(domain.OpInfo, agentID, domain.OpSuccess, dataType, "Message stored locally", msg.ID)
}

// List returns tracked operations, most recent first
func (l *OperationLog) List() []domain.StorageOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.StorageOperation, len(l.ops))
	for i, op := range l.ops {
		out[len(l.ops)-1-i] = op
	}
	return out
}
