package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Shubham-Rasal/anp-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Keys used in the KV backend. The chat history key holds the serialized
// session collection; the other two coordinate session restoration.
const (
	historyKey     = "anp:chat-history"
	currentChatKey = "anp:current-chat-id"
	creatingNewKey = "anp:creating-new-chat"
)

// SessionStore persists the local chat session collection on a KV port.
// It is the single writer of the history key; every write goes through
// read-merge-write so a concurrent external mutation is never blindly
// overwritten.
type SessionStore struct {
	kv KV
}

// NewSessionStore creates a session store on the given backend
func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// Load returns the stored session collection. Corrupt serialized data is
// logged and reset rather than propagated: the caller sees no history.
func (s *SessionStore) Load(ctx context.Context) ([]domain.ChatSession, error) {
	raw, err := s.kv.Get(ctx, historyKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	var sessions []domain.ChatSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		log.Error().Err(err).Msg("corrupt chat history, resetting")
		if delErr := s.kv.Delete(ctx, historyKey); delErr != nil {
			log.Error().Err(delErr).Msg("failed to reset corrupt chat history")
		}
		s.ClearCurrentID(ctx)
		return nil, nil
	}
	return sessions, nil
}

// Save replaces the whole session collection
func (s *SessionStore) Save(ctx context.Context, sessions []domain.ChatSession) error {
	if sessions == nil {
		sessions = []domain.ChatSession{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to serialize chat history: %w", err)
	}
	if err := s.kv.Set(ctx, historyKey, string(data)); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	return nil
}

// Upsert stores one session: replace-in-place when the id already exists,
// otherwise prepend as the most recent entry. The collection is re-read
// first so the id stays unique no matter what happened since the last load.
func (s *SessionStore) Upsert(ctx context.Context, session domain.ChatSession) error {
	sessions, err := s.Load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append([]domain.ChatSession{session}, sessions...)
	}

	return s.Save(ctx, sessions)
}

// Get returns one session by id
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.ChatSession, error) {
	sessions, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, nil
}

// Delete removes one session by id and persists the remaining collection
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	sessions, err := s.Load(ctx)
	if err != nil {
		return err
	}
	kept := sessions[:0]
	for _, sess := range sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	return s.Save(ctx, kept)
}

// CurrentID returns the last-active session id pointer, or "" when unset
func (s *SessionStore) CurrentID(ctx context.Context) string {
	id, err := s.kv.Get(ctx, currentChatKey)
	if err != nil {
		return ""
	}
	return id
}

// SetCurrentID records the last-active session id
func (s *SessionStore) SetCurrentID(ctx context.Context, id string) error {
	return s.kv.Set(ctx, currentChatKey, id)
}

// ClearCurrentID drops the last-active session id pointer
func (s *SessionStore) ClearCurrentID(ctx context.Context) {
	if err := s.kv.Delete(ctx, currentChatKey); err != nil {
		log.Error().Err(err).Msg("failed to clear current chat id")
	}
}

// CreatingNew reports whether an explicit new-chat intent is pending
func (s *SessionStore) CreatingNew(ctx context.Context) bool {
	v, err := s.kv.Get(ctx, creatingNewKey)
	return err == nil && v == "true"
}

// SetCreatingNew marks an explicit new-chat intent. Set before any other
// state change so a concurrent restore cannot win.
func (s *SessionStore) SetCreatingNew(ctx context.Context) error {
	return s.kv.Set(ctx, creatingNewKey, "true")
}

// ClearCreatingNew drops the new-chat intent marker
func (s *SessionStore) ClearCreatingNew(ctx context.Context) {
	if err := s.kv.Delete(ctx, creatingNewKey); err != nil {
		log.Error().Err(err).Msg("failed to clear new-chat flag")
	}
}
