package handler

import (
	"errors"
	"net/http"

	"github.com/Shubham-Rasal/anp-chat/internal/api/response"
	"github.com/Shubham-Rasal/anp-chat/internal/chat"
	"github.com/Shubham-Rasal/anp-chat/internal/domain"
	"github.com/go-chi/chi/v5"
)

// SessionHandler handles chat history endpoints
type SessionHandler struct {
	ctrl *chat.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(ctrl *chat.Controller) *SessionHandler {
	return &SessionHandler{ctrl: ctrl}
}

// List returns the stored session collection
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.ctrl.History(r.Context())
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	if sessions == nil {
		sessions = []domain.ChatSession{}
	}
	response.OK(w, sessions)
}

// New starts a fresh chat, saving the current conversation first
func (h *SessionHandler) New(w http.ResponseWriter, r *http.Request) {
	h.ctrl.StartNewChat(r.Context())
	response.Created(w, h.ctrl.Snapshot())
}

// Select makes a stored session the active one
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	if err := h.ctrl.SelectSession(r.Context(), id); err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, h.ctrl.Snapshot())
}

// Delete removes a session. Requires confirm=true; deleting the active
// session transitions to a fresh empty chat.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.ctrl.DeleteSession(r.Context(), id, confirmed); err != nil {
		if errors.Is(err, chat.ErrConfirmationRequired) {
			response.Conflict(w, "deletion requires confirm=true")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.NoContent(w)
}
