package handler

import (
	"net/http"

	"github.com/Shubham-Rasal/anp-chat/internal/agents"
	"github.com/Shubham-Rasal/anp-chat/internal/api/response"
)

// exampleQueries seed a fresh conversation
var exampleQueries = []string{
	"What are the no of leads in the storage?",
	"Send a mail to Shubham Rasal at bluequbits@gmail.com about job opportunities",
	"What are the top 5 products in the storage?",
}

// AgentsHandler exposes the preset agent roster
type AgentsHandler struct {
	registry *agents.Registry
}

// NewAgentsHandler creates a new agents handler
func NewAgentsHandler(registry *agents.Registry) *AgentsHandler {
	return &AgentsHandler{registry: registry}
}

// List returns all preset agents
func (h *AgentsHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.registry.List())
}

// Examples returns the example queries shown on an empty conversation
func (h *AgentsHandler) Examples(w http.ResponseWriter, r *http.Request) {
	response.OK(w, exampleQueries)
}
