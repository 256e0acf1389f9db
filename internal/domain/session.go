package domain

import "time"

const titleLimit = 40

// ChatSession is one conversation thread. Timestamp is the last-write time,
// refreshed on every persist. Title is derived once from the first user
// message and kept stable afterwards so stored payloads never churn.
type ChatSession struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Timestamp   time.Time     `json:"timestamp"`
	Messages    []ChatMessage `json:"messages"`
	ActiveTasks []SubTask     `json:"activeTasks"`
}

// DeriveTitle builds a session title from the first user-role message,
// truncated to 40 characters. Falls back to "New Chat".
func DeriveTitle(messages []ChatMessage) string {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		if len(m.Content) > titleLimit {
			return m.Content[:titleLimit] + "..."
		}
		return m.Content
	}
	return "New Chat"
}

// AgentIDs returns the deduplicated set of agent ids referenced by the
// session's messages, in first-seen order.
func (s *ChatSession) AgentIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range s.Messages {
		if m.AgentID == "" || seen[m.AgentID] {
			continue
		}
		seen[m.AgentID] = true
		ids = append(ids, m.AgentID)
	}
	return ids
}
