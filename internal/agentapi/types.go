// Package agentapi talks to an Assistants-compatible agent service: a thin
// client over the SDK, session setup (reuse or create an agent, attach the
// web-search tool), and bounded run polling.
package agentapi

import (
	"context"
	"errors"
)

// SearchToolType is the wire name of the web-search tool understood by the
// agent service. The type sits outside the standard assistant tool union, so
// requests carry tool definitions as raw JSON.
const SearchToolType = "bing_grounding"

// Run states reported by the service.
const (
	RunStatusQueued         = "queued"
	RunStatusInProgress     = "in_progress"
	RunStatusRequiresAction = "requires_action"
	RunStatusCompleted      = "completed"
	RunStatusIncomplete     = "incomplete"
	RunStatusFailed         = "failed"
	RunStatusCancelled      = "cancelled"
	RunStatusExpired        = "expired"
)

// ErrRunTimeout reports that a run did not reach a terminal state within the
// poller's timeout. Callers test for it with errors.Is.
var ErrRunTimeout = errors.New("run did not reach a terminal state in time")

// Agent is the handle for one remote agent. Values are plain data; callers
// pass them around explicitly rather than sharing package state.
type Agent struct {
	ID    string
	Name  string
	Model string
	Tools []string
}

// HasSearchTool reports whether the web-search tool is attached.
func (a Agent) HasSearchTool() bool {
	for _, tool := range a.Tools {
		if tool == SearchToolType {
			return true
		}
	}
	return false
}

// ToolDefinition is one tool in the service's wire format.
type ToolDefinition map[string]any

// NewSearchTool builds the web-search tool definition for a connection.
func NewSearchTool(connectionID string) ToolDefinition {
	return ToolDefinition{
		"type": SearchToolType,
		SearchToolType: map[string]any{
			"search_configurations": []map[string]any{
				{"connection_id": connectionID},
			},
		},
	}
}

// AgentSpec describes the agent to create when none can be reused.
type AgentSpec struct {
	Name         string
	Model        string
	Instructions string
	Tools        []ToolDefinition
}

// RunHandle identifies a run and the thread it executes on.
type RunHandle struct {
	ID        string
	ThreadID  string
	Status    string
	LastError string
}

// Terminal reports whether the run reached a final state.
func (r RunHandle) Terminal() bool {
	switch r.Status {
	case RunStatusCompleted, RunStatusIncomplete, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// ThreadMessage is one message on a thread. The service lists messages
// newest first; that order is preserved.
type ThreadMessage struct {
	ID   string
	Role string
	Text string
}

// API is the remote boundary of the experiment: everything groundlab asks of
// the agent service. Client implements it; tests substitute doubles.
type API interface {
	ListAgents(ctx context.Context, limit int) ([]Agent, error)
	CreateAgent(ctx context.Context, spec AgentSpec) (Agent, error)
	UpdateAgentTools(ctx context.Context, agentID string, tools []ToolDefinition) (Agent, error)
	DeleteAgent(ctx context.Context, agentID string) error
	CreateThreadAndRun(ctx context.Context, agentID, prompt string) (RunHandle, error)
	GetRun(ctx context.Context, threadID, runID string) (RunHandle, error)
	ListMessages(ctx context.Context, threadID string) ([]ThreadMessage, error)
}
