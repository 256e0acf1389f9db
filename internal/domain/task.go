package domain

// TaskStatus tracks a subtask through its lifecycle
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// SubTask is a unit of work assigned to an agent for one routed query
type SubTask struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Agent       AgentInfo  `json:"agent"`
	Status      TaskStatus `json:"status"`
	Response    string     `json:"response,omitempty"`
}
