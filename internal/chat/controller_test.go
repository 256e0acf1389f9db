package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/Shubham-Rasal/anp-chat/internal/domain"
	"github.com/Shubham-Rasal/anp-chat/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, *store.SessionStore) {
	t.Helper()
	sessions := store.NewSessionStore(store.NewMemoryKV())
	return NewController(sessions), sessions
}

func TestController_AppendPersists(t *testing.T) {
	ctx := context.Background()
	ctrl, sessions := newTestController(t)

	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "hello there"))

	history, err := ctrl.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].Messages, 1)
	assert.Equal(t, "hello there", history[0].Messages[0].Content)

	snap := ctrl.Snapshot()
	assert.Equal(t, snap.SessionID, history[0].ID)
	assert.Equal(t, snap.SessionID, sessions.CurrentID(ctx))
	assert.False(t, snap.ShowExamples)
}

func TestController_TitleDerivedOnceFromFirstUserMessage(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newTestController(t)

	long := strings.Repeat("x", 50)
	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, long))

	history, err := ctrl.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, long[:40]+"...", history[0].Title)

	// Later messages never change the title
	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "different topic"))
	history, err = ctrl.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, long[:40]+"...", history[0].Title)
}

func TestController_UpsertKeepsOneEntryPerSession(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newTestController(t)

	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "first"))
	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleAgent, "second"))
	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleSystem, "third"))

	history, err := ctrl.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Len(t, history[0].Messages, 3)
}

func TestController_StartNewChat(t *testing.T) {
	ctx := context.Background()
	ctrl, sessions := newTestController(t)

	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "old conversation"))
	oldID := ctrl.Snapshot().SessionID

	ctrl.StartNewChat(ctx)

	snap := ctrl.Snapshot()
	assert.Empty(t, snap.SessionID)
	assert.Empty(t, snap.Messages)
	assert.True(t, snap.ShowExamples)
	assert.True(t, sessions.CreatingNew(ctx))
	assert.Empty(t, sessions.CurrentID(ctx))

	// The old conversation survives in history
	history, err := ctrl.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, oldID, history[0].ID)

	// The first message of the new chat completes the transition
	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "new conversation"))
	assert.False(t, sessions.CreatingNew(ctx))

	snap = ctrl.Snapshot()
	assert.NotEmpty(t, snap.SessionID)
	assert.NotEqual(t, oldID, snap.SessionID)

	history, err = ctrl.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestController_SelectSession(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newTestController(t)

	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "first chat"))
	firstID := ctrl.Snapshot().SessionID
	ctrl.StartNewChat(ctx)
	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "second chat"))

	require.NoError(t, ctrl.SelectSession(ctx, firstID))

	snap := ctrl.Snapshot()
	assert.Equal(t, firstID, snap.SessionID)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "first chat", snap.Messages[0].Content)

	assert.ErrorIs(t, ctrl.SelectSession(ctx, "chat-does-not-exist"), ErrSessionNotFound)
}

func TestController_DeleteSession(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newTestController(t)

	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "doomed"))
	id := ctrl.Snapshot().SessionID

	t.Run("requires confirmation", func(t *testing.T) {
		assert.ErrorIs(t, ctrl.DeleteSession(ctx, id, false), ErrConfirmationRequired)
		history, err := ctrl.History(ctx)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("deleting the active session starts fresh", func(t *testing.T) {
		require.NoError(t, ctrl.DeleteSession(ctx, id, true))

		history, err := ctrl.History(ctx)
		require.NoError(t, err)
		assert.Empty(t, history)

		snap := ctrl.Snapshot()
		assert.Empty(t, snap.SessionID)
		assert.Empty(t, snap.Messages)
		assert.True(t, snap.ShowExamples)
	})

	t.Run("deleting another session keeps the active one", func(t *testing.T) {
		ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "survivor"))
		activeID := ctrl.Snapshot().SessionID
		ctrl.StartNewChat(ctx)
		ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "other"))
		otherID := ctrl.Snapshot().SessionID

		require.NoError(t, ctrl.DeleteSession(ctx, activeID, true))

		snap := ctrl.Snapshot()
		assert.Equal(t, otherID, snap.SessionID)
		require.Len(t, snap.Messages, 1)
	})
}

func TestController_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("restores the last active session", func(t *testing.T) {
		sessions := store.NewSessionStore(store.NewMemoryKV())
		sess := domain.ChatSession{
			ID:    "chat-123",
			Title: "stored chat",
			Messages: []domain.ChatMessage{
				domain.NewMessage(domain.RoleUser, "remember me"),
			},
		}
		require.NoError(t, sessions.Upsert(ctx, sess))
		require.NoError(t, sessions.SetCurrentID(ctx, sess.ID))

		ctrl := NewController(sessions)
		ctrl.Restore(ctx)

		snap := ctrl.Snapshot()
		assert.Equal(t, "chat-123", snap.SessionID)
		require.Len(t, snap.Messages, 1)
		assert.Equal(t, "remember me", snap.Messages[0].Content)
		assert.False(t, snap.ShowExamples)
	})

	t.Run("new-chat intent wins over restore", func(t *testing.T) {
		sessions := store.NewSessionStore(store.NewMemoryKV())
		sess := domain.ChatSession{
			ID:       "chat-456",
			Messages: []domain.ChatMessage{domain.NewMessage(domain.RoleUser, "stale")},
		}
		require.NoError(t, sessions.Upsert(ctx, sess))
		require.NoError(t, sessions.SetCurrentID(ctx, sess.ID))
		require.NoError(t, sessions.SetCreatingNew(ctx))

		ctrl := NewController(sessions)
		ctrl.Restore(ctx)

		snap := ctrl.Snapshot()
		assert.Empty(t, snap.SessionID)
		assert.Empty(t, snap.Messages)
		assert.False(t, sessions.CreatingNew(ctx))
		assert.Empty(t, sessions.CurrentID(ctx))
	})

	t.Run("dangling current id pointer is cleared", func(t *testing.T) {
		sessions := store.NewSessionStore(store.NewMemoryKV())
		require.NoError(t, sessions.SetCurrentID(ctx, "chat-gone"))

		ctrl := NewController(sessions)
		ctrl.Restore(ctx)

		assert.Empty(t, ctrl.Snapshot().Messages)
		assert.Empty(t, sessions.CurrentID(ctx))
	})
}

func TestController_StaleEpochDiscarded(t *testing.T) {
	ctx := context.Background()
	ctrl, _ := newTestController(t)

	ctrl.AppendMessage(ctx, domain.NewMessage(domain.RoleUser, "before switch"))
	epoch := ctrl.Epoch()

	ctrl.StartNewChat(ctx)

	applied := ctrl.Apply(ctx, epoch, func(m *Mutation) {
		m.Append(domain.NewMessage(domain.RoleAgent, "late delivery"))
	})
	assert.False(t, applied)
	assert.Empty(t, ctrl.Snapshot().Messages)

	applied = ctrl.Apply(ctx, ctrl.Epoch(), func(m *Mutation) {
		m.Append(domain.NewMessage(domain.RoleAgent, "on time"))
	})
	assert.True(t, applied)
	assert.Len(t, ctrl.Snapshot().Messages, 1)
}
