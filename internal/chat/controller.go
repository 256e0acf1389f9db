package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/Shubham-Rasal/anp-chat/internal/domain"
	"github.com/Shubham-Rasal/anp-chat/internal/store"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSessionNotFound is returned when a session id resolves to nothing
	ErrSessionNotFound = errors.New("session not found")
	// ErrConfirmationRequired is returned when a destructive action was not confirmed
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Controller owns the single active chat session: creation, restoration,
// message appends and teardown. At most one session is active at a time.
//
// Every StartNewChat or SelectSession bumps an epoch counter. Delayed
// pipeline continuations capture the epoch they were scheduled under and
// are silently discarded when it has moved on, so an abandoned continuation
// can never touch the newly active session.
type Controller struct {
	mu       sync.Mutex
	sessions *store.SessionStore

	activeID     string
	title        string
	messages     []domain.ChatMessage
	tasks        []domain.SubTask
	epoch        uint64
	creatingNew  bool
	showExamples bool

	// serialized form of the last persisted snapshot; suppresses redundant writes
	lastSaved string
}

// Snapshot is a copy of the active conversation state
type Snapshot struct {
	SessionID    string               `json:"sessionId,omitempty"`
	Title        string               `json:"title"`
	Messages     []domain.ChatMessage `json:"messages"`
	ActiveTasks  []domain.SubTask     `json:"activeTasks"`
	ShowExamples bool                 `json:"showExamples"`
}

// NewController creates a controller in the fresh, empty-session state
func NewController(sessions *store.SessionStore) *Controller {
	return &Controller{
		sessions:     sessions,
		showExamples: true,
	}
}

// Restore loads the last active session on startup. An explicit new-chat
// intent recorded before shutdown always wins over auto-restore: the flag
// and the last-active pointer are cleared and nothing is loaded.
func (c *Controller) Restore(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessions.CreatingNew(ctx) {
		log.Info().Msg("new-chat intent pending, skipping session restore")
		c.sessions.ClearCreatingNew(ctx)
		c.sessions.ClearCurrentID(ctx)
		c.creatingNew = true
		return
	}

	currentID := c.sessions.CurrentID(ctx)
	if currentID == "" {
		return
	}

	sess, err := c.sessions.Get(ctx, currentID)
	if err != nil {
		log.Error().Err(err).Str("session_id", currentID).Msg("failed to restore session")
		return
	}
	if sess == nil {
		c.sessions.ClearCurrentID(ctx)
		return
	}

	c.loadLocked(*sess)
	log.Info().Str("session_id", sess.ID).Int("messages", len(sess.Messages)).Msg("restored session")
}

// Epoch returns the current session epoch. Continuations capture it and
// pass it back through Apply.
func (c *Controller) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Apply runs fn against the active conversation if epoch is still current,
// then persists the session. Returns false (and does nothing) when the
// epoch is stale.
func (c *Controller) Apply(ctx context.Context, epoch uint64, fn func(m *Mutation)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if epoch != c.epoch {
		log.Debug().Uint64("epoch", epoch).Uint64("current", c.epoch).Msg("discarding stale continuation")
		return false
	}
	fn(&Mutation{c: c})
	c.persistLocked(ctx)
	return true
}

// AppendMessage appends to the active conversation at the current epoch
func (c *Controller) AppendMessage(ctx context.Context, msg domain.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	(&Mutation{c: c}).Append(msg)
	c.persistLocked(ctx)
}

// AddSystemMessage appends a system-role message to the active conversation
func (c *Controller) AddSystemMessage(content string) {
	c.AppendMessage(context.Background(), domain.NewMessage(domain.RoleSystem, content))
}

// StartNewChat persists the current session (when it has messages), then
// clears the active state and records the new-chat intent so a concurrent
// or later restore cannot resurrect the old session.
func (c *Controller) StartNewChat(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startNewChatLocked(ctx)
}

func (c *Controller) startNewChatLocked(ctx context.Context) {
	// Record intent first so any concurrent restore sees it.
	if err := c.sessions.SetCreatingNew(ctx); err != nil {
		log.Error().Err(err).Msg("failed to set new-chat flag")
	}
	c.sessions.ClearCurrentID(ctx)

	if len(c.messages) > 0 {
		sess := c.currentSessionLocked()
		if err := c.sessions.Upsert(ctx, sess); err != nil {
			log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save session before new chat")
		}
	}

	c.activeID = ""
	c.title = ""
	c.messages = nil
	c.tasks = nil
	c.lastSaved = ""
	c.creatingNew = true
	c.showExamples = true
	c.epoch++
}

// SelectSession loads a stored session as the active one
func (c *Controller) SelectSession(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions.ClearCreatingNew(ctx)
	c.creatingNew = false

	sess, err := c.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrSessionNotFound
	}

	c.loadLocked(*sess)
	if err := c.sessions.SetCurrentID(ctx, sess.ID); err != nil {
		log.Error().Err(err).Msg("failed to record current chat id")
	}
	return nil
}

// LoadSession makes an externally sourced session (e.g. restored from the
// remote archive) the active one, saving the current conversation first.
func (c *Controller) LoadSession(ctx context.Context, sess domain.ChatSession) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions.ClearCreatingNew(ctx)
	c.creatingNew = false

	if len(c.messages) > 0 {
		current := c.currentSessionLocked()
		if err := c.sessions.Upsert(ctx, current); err != nil {
			log.Error().Err(err).Str("session_id", current.ID).Msg("failed to save session before load")
		}
	}

	c.loadLocked(sess)
	if err := c.sessions.SetCurrentID(ctx, sess.ID); err != nil {
		log.Error().Err(err).Msg("failed to record current chat id")
	}
}

// DeleteSession removes a session from the local collection. Deleting the
// active session transitions to a fresh empty chat.
func (c *Controller) DeleteSession(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sessions.Delete(ctx, id); err != nil {
		return err
	}
	if c.activeID == id {
		c.startNewChatLocked(ctx)
	}
	return nil
}

// History returns the stored session collection
func (c *Controller) History(ctx context.Context) ([]domain.ChatSession, error) {
	return c.sessions.Load(ctx)
}

// Snapshot returns a copy of the active conversation state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := make([]domain.ChatMessage, len(c.messages))
	copy(msgs, c.messages)
	tasks := make([]domain.SubTask, len(c.tasks))
	copy(tasks, c.tasks)

	title := c.title
	if title == "" {
		title = domain.DeriveTitle(c.messages)
	}

	return Snapshot{
		SessionID:    c.activeID,
		Title:        title,
		Messages:     msgs,
		ActiveTasks:  tasks,
		ShowExamples: c.showExamples,
	}
}

// CurrentSession returns the active conversation as a session snapshot, or
// nil when there is nothing to save.
func (c *Controller) CurrentSession() *domain.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return nil
	}
	sess := c.currentSessionLocked()
	return &sess
}

func (c *Controller) loadLocked(sess domain.ChatSession) {
	c.activeID = sess.ID
	c.title = sess.Title
	c.messages = make([]domain.ChatMessage, len(sess.Messages))
	copy(c.messages, sess.Messages)
	c.tasks = make([]domain.SubTask, len(sess.ActiveTasks))
	copy(c.tasks, sess.ActiveTasks)
	c.showExamples = false
	c.lastSaved = snapshotKey(sess)
	c.epoch++
}

// currentSessionLocked assembles the active state into a session snapshot,
// minting an id and deriving the title on first use.
func (c *Controller) currentSessionLocked() domain.ChatSession {
	if c.activeID == "" {
		c.activeID = domain.NewSessionID()
	}
	if c.title == "" {
		c.title = domain.DeriveTitle(c.messages)
	}
	msgs := make([]domain.ChatMessage, len(c.messages))
	copy(msgs, c.messages)
	tasks := make([]domain.SubTask, len(c.tasks))
	copy(tasks, c.tasks)
	return domain.ChatSession{
		ID:          c.activeID,
		Title:       c.title,
		Timestamp:   time.Now(),
		Messages:    msgs,
		ActiveTasks: tasks,
	}
}

// persistLocked upserts the active session. Skipped while the conversation
// is empty or a new-chat transition is mid-flight, and suppressed when the
// snapshot is unchanged since the last write.
func (c *Controller) persistLocked(ctx context.Context) {
	if len(c.messages) == 0 || c.creatingNew {
		return
	}

	sess := c.currentSessionLocked()
	key := snapshotKey(sess)
	if key == c.lastSaved {
		return
	}

	if err := c.sessions.Upsert(ctx, sess); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to persist session")
		return
	}
	if err := c.sessions.SetCurrentID(ctx, sess.ID); err != nil {
		log.Error().Err(err).Msg("failed to record current chat id")
	}
	c.lastSaved = key
}

// snapshotKey serializes the parts of a session that matter for change
// detection. The last-write timestamp is excluded so persisting the same
// content twice is a no-op.
func snapshotKey(sess domain.ChatSession) string {
	data, err := json.Marshal(struct {
		ID       string               `json:"id"`
		Title    string               `json:"title"`
		Messages []domain.ChatMessage `json:"messages"`
		Tasks    []domain.SubTask     `json:"tasks"`
	}{sess.ID, sess.Title, sess.Messages, sess.ActiveTasks})
	if err != nil {
		return ""
	}
	return string(data)
}

// Mutation exposes conversation edits inside Apply. All methods run with
// the controller lock held.
type Mutation struct {
	c *Controller
}

// Append adds a message to the end of the conversation. The first message
// of a fresh chat completes any pending new-chat transition.
func (m *Mutation) Append(msg domain.ChatMessage) {
	c := m.c
	if c.creatingNew {
		c.creatingNew = false
		c.sessions.ClearCreatingNew(context.Background())
	}
	c.showExamples = false
	c.messages = append(c.messages, msg)
}

// Update rewrites the message with the given id in place
func (m *Mutation) Update(id string, fn func(*domain.ChatMessage)) {
	for i := range m.c.messages {
		if m.c.messages[i].ID == id {
			fn(&m.c.messages[i])
			return
		}
	}
}

// SetTasks replaces the active task list
func (m *Mutation) SetTasks(tasks []domain.SubTask) {
	m.c.tasks = tasks
}

// UpdateTask rewrites the task with the given id in place
func (m *Mutation) UpdateTask(id string, fn func(*domain.SubTask)) {
	for i := range m.c.tasks {
		if m.c.tasks[i].ID == id {
			fn(&m.c.tasks[i])
			return
		}
	}
}
