package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shubham-Rasal/anp-chat/internal/chat"
	"github.com/Shubham-Rasal/anp-chat/internal/domain"
	"github.com/Shubham-Rasal/anp-chat/internal/store"
	"github.com/rs/zerolog/log"
)

const (
	chatAgentID  = "chat"
	chatDataType = "metadata"
)

// SyncSummary reports the outcome of a sync run
type SyncSummary struct {
	Synced int `json:"synced"`
	Total  int `json:"total"`
}

// Reconciler drives the one-way local-to-remote session sync. The remote
// archive is append-only: sync only creates entries for local sessions
// whose id is absent remotely, matched against the session id embedded in
// each remote entry's payload.
type Reconciler struct {
	sessions *store.SessionStore
	client   Client
	ops      *chat.OperationLog
	ctrl     *chat.Controller
}

// NewReconciler creates a reconciler
func NewReconciler(sessions *store.SessionStore, client Client, ops *chat.OperationLog, ctrl *chat.Controller) *Reconciler {
	return &Reconciler{sessions: sessions, client: client, ops: ops, ctrl: ctrl}
}

// chatPayload is the serialized session format written to the archive
type chatPayload struct {
	ID        string           `json:"id"`
	Timestamp int64            `json:"timestamp"`
	Messages  []payloadMessage `json:"messages"`
	AgentIDs  []string         `json:"agentIds"`
}

type payloadMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	AgentID   string `json:"agentId"`
	IsThought bool   `json:"isThought"`
}

func buildPayload(sess domain.ChatSession) chatPayload {
	msgs := make([]payloadMessage, len(sess.Messages))
	for i, m := range sess.Messages {
		agentID := m.AgentID
		if agentID == "" {
			agentID = "user"
		}
		msgs[i] = payloadMessage{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp.UnixMilli(),
			AgentID:   agentID,
			IsThought: m.IsThought,
		}
	}
	agentIDs := sess.AgentIDs()
	if agentIDs == nil {
		agentIDs = []string{}
	}
	return chatPayload{
		ID:        sess.ID,
		Timestamp: sess.Timestamp.UnixMilli(),
		Messages:  msgs,
		AgentIDs:  agentIDs,
	}
}

// remoteChatIDs extracts the session ids embedded in the archived chat
// entries. Entries with unparseable payloads are skipped.
func remoteChatIDs(items []Item) map[string]bool {
	ids := make(map[string]bool)
	for _, item := range items {
		if item.AgentID != chatAgentID || item.DataType != chatDataType {
			continue
		}
		if item.Metadata == nil || item.Metadata["chatId"] == nil {
			continue
		}
		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal([]byte(item.Content), &payload); err != nil || payload.ID == "" {
			continue
		}
		ids[payload.ID] = true
	}
	return ids
}

// ListUnsynced returns local sessions whose id is absent from the remote
// archive listing.
func (r *Reconciler) ListUnsynced(ctx context.Context) ([]domain.ChatSession, error) {
	local, err := r.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	items, err := r.client.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive items: %w", err)
	}

	existing := remoteChatIDs(items)
	var unsynced []domain.ChatSession
	for _, sess := range local {
		if !existing[sess.ID] {
			unsynced = append(unsynced, sess)
		}
	}
	return unsynced, nil
}

// SyncAll pushes every unsynced local session to the archive. The approval
// gate is all-or-nothing: if delegation fails nothing is written. Past the
// gate the loop is best-effort, one failed session does not abort the rest,
// and the final summary is reported either way.
func (r *Reconciler) SyncAll(ctx context.Context) (*SyncSummary, error) {
	local, err := r.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(local) == 0 {
		r.ctrl.AddSystemMessage("No local chats to sync.")
		return &SyncSummary{}, nil
	}

	if err := r.client.RequestApproval(ctx, "user"); err != nil {
		log.Error().Err(err).Msg("archive delegation denied")
		r.ops.Track(domain.OpDelegation, chatAgentID, domain.OpError, chatDataType, err.Error(), "")
		r.ctrl.AddSystemMessage("Failed to get storage access permission")
		return nil, fmt.Errorf("failed to get storage approval: %w", err)
	}

	opID := r.ops.Track(domain.OpUpload, chatAgentID, domain.OpPending, chatDataType,
		fmt.Sprintf("Syncing %d local chats to archive", len(local)), "")

	items, err := r.client.ListItems(ctx)
	if err != nil {
		r.ops.Update(opID, domain.OpError, err.Error())
		r.ctrl.AddSystemMessage(fmt.Sprintf("Error syncing chats: %s", err.Error()))
		return nil, fmt.Errorf("failed to list archive items: %w", err)
	}
	existing := remoteChatIDs(items)

	synced := 0
	for _, sess := range local {
		if existing[sess.ID] {
			log.Debug().Str("session_id", sess.ID).Msg("already archived, skipping")
			continue
		}
		if err := r.archiveSession(ctx, sess); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to sync session")
			continue
		}
		synced++
	}

	summary := &SyncSummary{Synced: synced, Total: len(local)}
	r.ops.Update(opID, domain.OpSuccess, fmt.Sprintf("Synced %d of %d chats to archive", synced, len(local)))
	r.ctrl.AddSystemMessage(fmt.Sprintf("Synced %d of %d chats to archive storage.", synced, len(local)))
	return summary, nil
}

// archiveSession writes one session twice with the same payload: a private
// entry owned by the chat agent, then a shared entry tagged with the source.
func (r *Reconciler) archiveSession(ctx context.Context, sess domain.ChatSession) error {
	payload := buildPayload(sess)
	content, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	metadata := map[string]any{
		"chatId":       payload.ID,
		"timestamp":    payload.Timestamp,
		"messageCount": len(payload.Messages),
		"agentIds":     payload.AgentIDs,
	}

	if _, err := r.client.StoreItem(ctx, chatAgentID, chatDataType, string(content), metadata); err != nil {
		return fmt.Errorf("failed to store item: %w", err)
	}

	shared := map[string]any{"sourceAgentId": chatAgentID}
	for k, v := range metadata {
		shared[k] = v
	}
	if _, err := r.client.StoreSharedItem(ctx, chatDataType, string(content), shared); err != nil {
		return fmt.Errorf("failed to store shared item: %w", err)
	}

	return nil
}

// SaveCurrent archives the active conversation on demand
func (r *Reconciler) SaveCurrent(ctx context.Context) error {
	sess := r.ctrl.CurrentSession()
	if sess == nil {
		r.ctrl.AddSystemMessage("Nothing to save yet.")
		return nil
	}

	r.ctrl.AddSystemMessage("Saving conversation to archive storage...")

	if err := r.client.RequestApproval(ctx, "user"); err != nil {
		r.ops.Track(domain.OpDelegation, chatAgentID, domain.OpError, chatDataType, err.Error(), "")
		r.ctrl.AddSystemMessage("Failed to get storage access permission")
		return fmt.Errorf("failed to get storage approval: %w", err)
	}

	if err := r.archiveSession(ctx, *sess); err != nil {
		r.ops.Track(domain.OpUpload, chatAgentID, domain.OpError, chatDataType, err.Error(), "")
		r.ctrl.AddSystemMessage(fmt.Sprintf("Error saving to archive: %s", err.Error()))
		return err
	}

	r.ops.Track(domain.OpUpload, chatAgentID, domain.OpSuccess, chatDataType,
		fmt.Sprintf("Saved complete chat with %d messages", len(sess.Messages)), "")
	r.ctrl.AddSystemMessage(fmt.Sprintf("Chat successfully saved to archive storage (ID: %s)", sess.ID))
	return nil
}

// LoadItem restores an archived chat into the active conversation
func (r *Reconciler) LoadItem(ctx context.Context, itemID string) error {
	opID := r.ops.Track(domain.OpDownload, chatAgentID, domain.OpPending, chatDataType, "Loading chat from archive storage", "")

	items, err := r.client.ListItems(ctx)
	if err != nil {
		r.ops.Update(opID, domain.OpError, err.Error())
		return fmt.Errorf("failed to list archive items: %w", err)
	}

	var found *Item
	for i := range items {
		if items[i].ID == itemID {
			found = &items[i]
			break
		}
	}
	if found == nil {
		err := fmt.Errorf("chat with ID %s not found", itemID)
		r.ops.Update(opID, domain.OpError, err.Error())
		r.ctrl.AddSystemMessage(fmt.Sprintf("Error loading chat: %s", err.Error()))
		return err
	}

	var payload chatPayload
	if err := json.Unmarshal([]byte(found.Content), &payload); err != nil {
		r.ops.Update(opID, domain.OpError, "invalid chat data")
		r.ctrl.AddSystemMessage("Error loading chat: invalid chat data")
		return fmt.Errorf("failed to parse archived chat: %w", err)
	}

	msgs := make([]domain.ChatMessage, len(payload.Messages))
	for i, m := range payload.Messages {
		agentID := m.AgentID
		if agentID == "user" {
			agentID = ""
		}
		msgs[i] = domain.ChatMessage{
			ID:        m.ID,
			Role:      domain.Role(m.Role),
			Content:   m.Content,
			Timestamp: time.UnixMilli(m.Timestamp),
			AgentID:   agentID,
			IsThought: m.IsThought,
		}
	}

	sess := domain.ChatSession{
		ID:        payload.ID,
		Title:     domain.DeriveTitle(msgs),
		Timestamp: time.UnixMilli(payload.Timestamp),
		Messages:  msgs,
	}

	r.ctrl.LoadSession(ctx, sess)
	r.ctrl.AddSystemMessage(fmt.Sprintf("Loaded chat from archive storage (ID: %s)", sess.ID))
	r.ops.Update(opID, domain.OpSuccess, fmt.Sprintf("Successfully loaded chat with %d messages", len(msgs)))
	return nil
}
