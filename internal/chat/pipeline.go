package chat

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Shubham-Rasal/anp-chat/internal/agents"
	"github.com/Shubham-Rasal/anp-chat/internal/domain"
	"github.com/Shubham-Rasal/anp-chat/internal/taskrouter"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// RunState tracks the pipeline through one routed query
type RunState string

const (
	StateIdle       RunState = "idle"
	StateSent       RunState = "sent"
	StateThinking   RunState = "thinking"
	StateResponding RunState = "responding"
	StateDone       RunState = "done"
	StateError      RunState = "error"
)

// Delays are the fixed offsets, measured from the router response, at which
// the staged UI updates land. They are not driven by any backend event.
type Delays struct {
	Thought time.Duration
	Working time.Duration
	Result  time.Duration
}

// DefaultDelays matches the original staging of the progress illusion
var DefaultDelays = Delays{
	Thought: 1500 * time.Millisecond,
	Working: 2500 * time.Millisecond,
	Result:  3500 * time.Millisecond,
}

// Pipeline turns one request/response exchange with the task router into a
// staged, visible workflow. The single real network call happens up front;
// the "thinking" and "working" updates are timer-driven. Every delayed
// continuation captures the session epoch at creation and is discarded if
// the user switched sessions or started a new chat in the meantime.
type Pipeline struct {
	ctrl      *Controller
	router    taskrouter.Router
	agents    *agents.Registry
	ops       *OperationLog
	clock     clockwork.Clock
	delays    Delays
	authToken string

	mu    sync.Mutex
	state RunState
}

// NewPipeline creates a pipeline. A zero Delays falls back to DefaultDelays.
func NewPipeline(ctrl *Controller, router taskrouter.Router, registry *agents.Registry, ops *OperationLog, clock clockwork.Clock, delays Delays, authToken string) *Pipeline {
	if delays == (Delays{}) {
		delays = DefaultDelays
	}
	return &Pipeline{
		ctrl:      ctrl,
		router:    router,
		agents:    registry,
		ops:       ops,
		clock:     clock,
		delays:    delays,
		authToken: authToken,
		state:     StateIdle,
	}
}

// State returns the current run state
func (p *Pipeline) State() RunState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s RunState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// RunQuery processes one user query. The user message, the analysis system
// message and the router call happen synchronously; the staged agent
// updates are scheduled and land asynchronously. An empty query is a
// silent no-op. Failures are surfaced as system messages, never as errors
// that would crash the conversation.
func (p *Pipeline) RunQuery(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	p.setState(StateSent)

	userMsg := domain.NewMessage(domain.RoleUser, query)
	p.ctrl.AppendMessage(ctx, userMsg)
	p.ops.TrackMessage(userMsg)

	// Epoch captured after the user message: appends never bump it, only
	// new-chat and session switches do.
	epoch := p.ctrl.Epoch()

	p.ctrl.AddSystemMessage("Analyzing query and identifying appropriate agents...")

	if p.authToken == "" {
		p.ctrl.AddSystemMessage("Authentication required. Please sign in to use task router.")
		p.setState(StateError)
		return
	}

	decision, err := p.router.Route(ctx, query, p.authToken)
	if err != nil {
		log.Error().Err(err).Msg("task router call failed")
		p.ctrl.AddSystemMessage(fmt.Sprintf("Error: %s", err.Error()))
		p.setState(StateError)
		return
	}

	confidence := int(math.Round(decision.Confidence * 100))
	p.ctrl.AddSystemMessage(fmt.Sprintf("Query analyzed: Routing to %s agent (%d%% confidence)", decision.Agent, confidence))

	agent := p.agents.Resolve(decision.Agent)

	task := domain.SubTask{
		ID:          domain.NewID("task"),
		Description: fmt.Sprintf("Process query using %s capabilities", decision.Agent),
		Agent:       agent,
		Status:      domain.TaskPending,
	}

	thought := domain.ChatMessage{
		ID:        domain.NewID("thought"),
		Role:      domain.RoleAgent,
		Content:   "Analyzing the query and determining the best approach...",
		Timestamp: time.Now(),
		AgentID:   agent.ID,
		IsThought: true,
		IsLoading: true,
	}

	p.ctrl.Apply(ctx, epoch, func(m *Mutation) {
		m.SetTasks([]domain.SubTask{task})
		m.Append(domain.NewMessage(domain.RoleSystem, fmt.Sprintf("Assigning task to %s...", agent.Name)))
		m.UpdateTask(task.ID, func(t *domain.SubTask) {
			t.Status = domain.TaskInProgress
		})
		m.Append(thought)
	})

	p.setState(StateThinking)

	go p.runStaged(epoch, decision, agent, task.ID, thought.ID)
}

// runStaged walks the delayed continuations in order from a single
// goroutine, so the thought always finalizes before the working message is
// replaced with the result. Each step re-checks the epoch.
func (p *Pipeline) runStaged(epoch uint64, decision *taskrouter.Decision, agent domain.AgentInfo, taskID, thoughtID string) {
	ctx := context.Background()

	<-p.clock.After(p.delays.Thought)

	revised := fmt.Sprintf("Analyzing query related to %s. Determining relevant information and appropriate response format.", decision.Agent)
	applied := p.ctrl.Apply(ctx, epoch, func(m *Mutation) {
		m.Update(thoughtID, func(msg *domain.ChatMessage) {
			msg.Content = revised
			msg.IsLoading = false
		})
	})
	if !applied {
		return
	}
	p.ops.Track(domain.OpInfo, agent.ID, domain.OpSuccess, "chain_of_thought", "Message stored locally", thoughtID)

	<-p.clock.After(p.delays.Working - p.delays.Thought)

	working := domain.ChatMessage{
		ID:        domain.NewID("agent"),
		Role:      domain.RoleAgent,
		Content:   "Working on your request...",
		Timestamp: time.Now(),
		AgentID:   agent.ID,
		IsLoading: true,
	}
	if !p.ctrl.Apply(ctx, epoch, func(m *Mutation) {
		m.Append(working)
	}) {
		return
	}
	p.setState(StateResponding)

	<-p.clock.After(p.delays.Result - p.delays.Working)

	applied = p.ctrl.Apply(ctx, epoch, func(m *Mutation) {
		m.Update(working.ID, func(msg *domain.ChatMessage) {
			msg.Content = decision.Result
			msg.IsLoading = false
		})
		m.UpdateTask(taskID, func(t *domain.SubTask) {
			t.Status = domain.TaskCompleted
			t.Response = decision.Result
		})
		m.Append(domain.NewMessage(domain.RoleSystem, "Task completed successfully."))
	})
	if !applied {
		return
	}
	p.ops.Track(domain.OpInfo, agent.ID, domain.OpSuccess, "output", "Message stored locally", working.ID)
	p.setState(StateDone)
}
