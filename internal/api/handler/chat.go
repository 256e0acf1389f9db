package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Shubham-Rasal/anp-chat/internal/api/response"
	"github.com/Shubham-Rasal/anp-chat/internal/chat"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ChatHandler handles the active conversation endpoints
type ChatHandler struct {
	pipeline *chat.Pipeline
	ctrl     *chat.Controller
}

// NewChatHandler creates a new chat handler
func NewChatHandler(pipeline *chat.Pipeline, ctrl *chat.Controller) *ChatHandler {
	return &ChatHandler{pipeline: pipeline, ctrl: ctrl}
}

// QueryRequest is the body for submitting a user query
type QueryRequest struct {
	Query string `json:"query" validate:"required,min=1,max=4000"`
}

// Query submits a user query to the task pipeline. The routing decision and
// the first system messages are visible in the returned snapshot; the staged
// agent updates land asynchronously and show up in subsequent GETs.
func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	h.pipeline.RunQuery(r.Context(), req.Query)

	response.OK(w, map[string]any{
		"state":        h.pipeline.State(),
		"conversation": h.ctrl.Snapshot(),
	})
}

// Get returns the active conversation snapshot and pipeline state
func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"state":        h.pipeline.State(),
		"conversation": h.ctrl.Snapshot(),
	})
}
