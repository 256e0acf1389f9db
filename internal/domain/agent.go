package domain

// Capability is an explicit tag describing what an agent preset can do.
// Router decisions are matched against capabilities rather than parsed out
// of agent id strings.
type Capability string

const (
	CapabilityEmail     Capability = "email"
	CapabilityLeads     Capability = "leads"
	CapabilitySchedule  Capability = "schedule"
	CapabilityAnalytics Capability = "analytics"
	CapabilityFollowUp  Capability = "follow-up"
)

// AgentInfo is a static agent persona preset
type AgentInfo struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Model           string     `json:"model"`
	Capability      Capability `json:"capability"`
	StorageProvider string     `json:"storageProvider"`
	Tools           []string   `json:"tools,omitempty"`
	SystemPrompt    string     `json:"systemPrompt,omitempty"`
}
