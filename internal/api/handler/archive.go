package handler

import (
	"net/http"

	"github.com/Shubham-Rasal/anp-chat/internal/api/response"
	"github.com/Shubham-Rasal/anp-chat/internal/archive"
	"github.com/go-chi/chi/v5"
)

// ArchiveHandler handles remote archive endpoints
type ArchiveHandler struct {
	reconciler *archive.Reconciler
	client     archive.Client
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(reconciler *archive.Reconciler, client archive.Client) *ArchiveHandler {
	return &ArchiveHandler{reconciler: reconciler, client: client}
}

// ListItems returns the full remote listing
func (h *ArchiveHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.client.ListItems(r.Context())
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	if items == nil {
		items = []archive.Item{}
	}
	response.OK(w, items)
}

// ListUnsynced returns local sessions absent from the remote archive
func (h *ArchiveHandler) ListUnsynced(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.reconciler.ListUnsynced(r.Context())
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, map[string]any{
		"unsynced": len(sessions),
		"sessions": sessions,
	})
}

// Sync pushes every unsynced local session to the archive
func (h *ArchiveHandler) Sync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reconciler.SyncAll(r.Context())
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, summary)
}

// Save archives the active conversation on demand
func (h *ArchiveHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.reconciler.SaveCurrent(r.Context()); err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, map[string]string{"status": "saved"})
}

// Load restores an archived chat into the active conversation
func (h *ArchiveHandler) Load(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	if err := h.reconciler.LoadItem(r.Context(), itemID); err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, map[string]string{"status": "loaded"})
}
