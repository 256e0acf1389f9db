package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shubham-Rasal/anp-chat/internal/agents"
	"github.com/Shubham-Rasal/anp-chat/internal/chat"
	"github.com/Shubham-Rasal/anp-chat/internal/store"
	"github.com/Shubham-Rasal/anp-chat/internal/taskrouter"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
)

// stubRouter satisfies taskrouter.Router without any network traffic
type stubRouter struct{}

func (stubRouter) Route(ctx context.Context, query, authToken string) (*taskrouter.Decision, error) {
	return &taskrouter.Decision{Agent: "analyzer", Confidence: 1, Result: "ok"}, nil
}

func newTestChatHandler(authToken string) (*ChatHandler, *chat.Controller) {
	sessions := store.NewSessionStore(store.NewMemoryKV())
	ctrl := chat.NewController(sessions)
	pipeline := chat.NewPipeline(ctrl, stubRouter{}, agents.NewRegistry(), chat.NewOperationLog(),
		clockwork.NewRealClock(), chat.Delays{}, authToken)
	return NewChatHandler(pipeline, ctrl), ctrl
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	HealthCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestReadyCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	ReadyCheck(store.NewMemoryKV())(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestChatHandler_QueryValidation(t *testing.T) {
	h, _ := newTestChatHandler("token")

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing query", `{}`},
		{"empty query", `{"query": ""}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/chat/query", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			h.Query(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestChatHandler_QueryWithoutAuthToken(t *testing.T) {
	h, ctrl := newTestChatHandler("")

	req := httptest.NewRequest(http.MethodPost, "/chat/query", strings.NewReader(`{"query": "count leads"}`))
	rec := httptest.NewRecorder()

	h.Query(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	snap := ctrl.Snapshot()
	found := false
	for _, m := range snap.Messages {
		if strings.Contains(m.Content, "Authentication required") {
			found = true
		}
	}
	if !found {
		t.Error("expected an authentication-required system message")
	}
}

func TestSessionHandler_DeleteRequiresConfirmation(t *testing.T) {
	sessions := store.NewSessionStore(store.NewMemoryKV())
	ctrl := chat.NewController(sessions)
	h := NewSessionHandler(ctrl)

	r := chi.NewRouter()
	r.Delete("/sessions/{sessionID}", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/chat-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/sessions/chat-1?confirm=true", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
}

func TestSessionHandler_SelectUnknown(t *testing.T) {
	sessions := store.NewSessionStore(store.NewMemoryKV())
	ctrl := chat.NewController(sessions)
	h := NewSessionHandler(ctrl)

	r := chi.NewRouter()
	r.Post("/sessions/{sessionID}/select", h.Select)

	req := httptest.NewRequest(http.MethodPost, "/sessions/chat-missing/select", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestSessionHandler_ListEmpty(t *testing.T) {
	sessions := store.NewSessionStore(store.NewMemoryKV())
	ctrl := chat.NewController(sessions)
	h := NewSessionHandler(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if strings.TrimSpace(string(resp.Data)) != "[]" {
		t.Errorf("expected empty array, got %s", resp.Data)
	}
}
