package handler

import (
	"net/http"

	"github.com/Shubham-Rasal/anp-chat/internal/api/response"
	"github.com/Shubham-Rasal/anp-chat/internal/chat"
)

// OperationsHandler exposes the storage operation log
type OperationsHandler struct {
	ops *chat.OperationLog
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(ops *chat.OperationLog) *OperationsHandler {
	return &OperationsHandler{ops: ops}
}

// List returns tracked operations, newest first
func (h *OperationsHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.ops.List())
}
