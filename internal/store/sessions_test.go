package store

import (
	"context"
	"testing"

	"github.com/Shubham-Rasal/anp-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_LoadEmpty(t *testing.T) {
	s := NewSessionStore(NewMemoryKV())

	sessions, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sessions)
}

func TestSessionStore_UpsertPrependsAndReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(NewMemoryKV())

	require.NoError(t, s.Upsert(ctx, domain.ChatSession{ID: "chat-1", Title: "one"}))
	require.NoError(t, s.Upsert(ctx, domain.ChatSession{ID: "chat-2", Title: "two"}))

	sessions, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// newest entry first
	assert.Equal(t, "chat-2", sessions[0].ID)

	// same id replaces in place, no duplicate
	require.NoError(t, s.Upsert(ctx, domain.ChatSession{ID: "chat-1", Title: "one updated"}))
	sessions, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "one updated", sessions[1].Title)
}

func TestSessionStore_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(NewMemoryKV())

	require.NoError(t, s.Upsert(ctx, domain.ChatSession{ID: "chat-1"}))

	sess, err := s.Get(ctx, "chat-1")
	require.NoError(t, err)
	require.NotNil(t, sess)

	sess, err = s.Get(ctx, "chat-missing")
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, s.Delete(ctx, "chat-1"))
	sess, err = s.Get(ctx, "chat-1")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionStore_CorruptHistoryIsReset(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewSessionStore(kv)

	require.NoError(t, kv.Set(ctx, "anp:chat-history", "{not json"))
	require.NoError(t, s.SetCurrentID(ctx, "chat-1"))

	sessions, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, sessions)

	// the corrupt blob and the pointer into it are gone
	_, err = kv.Get(ctx, "anp:chat-history")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.CurrentID(ctx))
}

func TestSessionStore_CreatingNewFlag(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(NewMemoryKV())

	assert.False(t, s.CreatingNew(ctx))
	require.NoError(t, s.SetCreatingNew(ctx))
	assert.True(t, s.CreatingNew(ctx))
	s.ClearCreatingNew(ctx)
	assert.False(t, s.CreatingNew(ctx))
}
