package agentapi

import (
	"context"
	"testing"
)

// fakeAPI scripts the remote boundary for tests. Calls without a configured
// function fail the test, so each test states exactly which calls it expects.
type fakeAPI struct {
	t                  *testing.T
	listAgents         func(ctx context.Context, limit int) ([]Agent, error)
	createAgent        func(ctx context.Context, spec AgentSpec) (Agent, error)
	updateAgentTools   func(ctx context.Context, agentID string, tools []ToolDefinition) (Agent, error)
	deleteAgent        func(ctx context.Context, agentID string) error
	createThreadAndRun func(ctx context.Context, agentID, prompt string) (RunHandle, error)
	getRun             func(ctx context.Context, threadID, runID string) (RunHandle, error)
	listMessages       func(ctx context.Context, threadID string) ([]ThreadMessage, error)
}

func (f *fakeAPI) ListAgents(ctx context.Context, limit int) ([]Agent, error) {
	if f.listAgents == nil {
		f.t.Fatal("unexpected ListAgents call")
	}
	return f.listAgents(ctx, limit)
}

func (f *fakeAPI) CreateAgent(ctx context.Context, spec AgentSpec) (Agent, error) {
	if f.createAgent == nil {
		f.t.Fatal("unexpected CreateAgent call")
	}
	return f.createAgent(ctx, spec)
}

func (f *fakeAPI) UpdateAgentTools(ctx context.Context, agentID string, tools []ToolDefinition) (Agent, error) {
	if f.updateAgentTools == nil {
		f.t.Fatal("unexpected UpdateAgentTools call")
	}
	return f.updateAgentTools(ctx, agentID, tools)
}

func (f *fakeAPI) DeleteAgent(ctx context.Context, agentID string) error {
	if f.deleteAgent == nil {
		f.t.Fatal("unexpected DeleteAgent call")
	}
	return f.deleteAgent(ctx, agentID)
}

func (f *fakeAPI) CreateThreadAndRun(ctx context.Context, agentID, prompt string) (RunHandle, error) {
	if f.createThreadAndRun == nil {
		f.t.Fatal("unexpected CreateThreadAndRun call")
	}
	return f.createThreadAndRun(ctx, agentID, prompt)
}

func (f *fakeAPI) GetRun(ctx context.Context, threadID, runID string) (RunHandle, error) {
	if f.getRun == nil {
		f.t.Fatal("unexpected GetRun call")
	}
	return f.getRun(ctx, threadID, runID)
}

func (f *fakeAPI) ListMessages(ctx context.Context, threadID string) ([]ThreadMessage, error) {
	if f.listMessages == nil {
		f.t.Fatal("unexpected ListMessages call")
	}
	return f.listMessages(ctx, threadID)
}
