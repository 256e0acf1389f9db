package domain

import "time"

// Role identifies the sender of a chat message
type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
	RoleRouter Role = "router"
)

// ChatMessage is a single entry in a conversation. Content and IsLoading may
// be rewritten in place while a delayed response is pending; Timestamp is
// fixed at creation and never updated.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	AgentID   string    `json:"agentId,omitempty"`
	IsThought bool      `json:"isThought,omitempty"`
	IsLoading bool      `json:"isLoading,omitempty"`
}

// NewMessage creates a message with a fresh id and timestamp
func NewMessage(role Role, content string) ChatMessage {
	return ChatMessage{
		ID:        NewID(string(role)),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
