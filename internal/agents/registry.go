package agents

import "github.com/Shubham-Rasal/anp-chat/internal/domain"

// Registry holds the preset agent personas and resolves task-router agent
// identifiers to presets.
type Registry struct {
	agents       []domain.AgentInfo
	byID         map[string]domain.AgentInfo
	byCapability map[domain.Capability]domain.AgentInfo
}

// routerCapabilities maps identifiers returned by the task router to agent
// capabilities.
var routerCapabilities = map[string]domain.Capability{
	"gmail":          domain.CapabilityEmail,
	"lead_qualifier": domain.CapabilityLeads,
	"scheduler":      domain.CapabilitySchedule,
	"analyzer":       domain.CapabilityAnalytics,
	"follow_up":      domain.CapabilityFollowUp,
}

// NewRegistry creates a registry over the built-in presets
func NewRegistry() *Registry {
	return newRegistry(presets)
}

func newRegistry(agents []domain.AgentInfo) *Registry {
	r := &Registry{
		agents:       agents,
		byID:         make(map[string]domain.AgentInfo, len(agents)),
		byCapability: make(map[domain.Capability]domain.AgentInfo, len(agents)),
	}
	for _, a := range agents {
		r.byID[a.ID] = a
		// first preset per capability wins
		if _, ok := r.byCapability[a.Capability]; !ok {
			r.byCapability[a.Capability] = a
		}
	}
	return r
}

// List returns all presets in declaration order
func (r *Registry) List() []domain.AgentInfo {
	out := make([]domain.AgentInfo, len(r.agents))
	copy(out, r.agents)
	return out
}

// Get returns a preset by id
func (r *Registry) Get(id string) (domain.AgentInfo, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Default returns the fallback agent used when nothing else matches
func (r *Registry) Default() domain.AgentInfo {
	return r.agents[0]
}

// Resolve maps a task-router agent identifier to a preset. The lookup never
// fails: an exact preset id match wins, then the capability the router
// identifier maps to, then the default agent.
func (r *Registry) Resolve(routerAgent string) domain.AgentInfo {
	if a, ok := r.byID[routerAgent]; ok {
		return a
	}
	if cap, ok := routerCapabilities[routerAgent]; ok {
		if a, ok := r.byCapability[cap]; ok {
			return a
		}
	}
	return r.Default()
}
