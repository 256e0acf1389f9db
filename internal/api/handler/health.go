package handler

import (
	"errors"
	"net/http"

	"github.com/Shubham-Rasal/anp-chat/internal/api/response"
	"github.com/Shubham-Rasal/anp-chat/internal/store"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including store connectivity. A probe
// read that misses is still a healthy store.
func ReadyCheck(kv store.KV) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := kv.Get(r.Context(), "anp:ready-probe"); err != nil && !errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusServiceUnavailable, "store not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
