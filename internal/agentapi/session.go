package agentapi

import (
	"context"
	"fmt"

	"groundlab/internal/logger"
)

// DefaultListLimit bounds the agent listing used for reuse.
const DefaultListLimit = 20

// DefaultInstructions is the system prompt given to newly created agents.
const DefaultInstructions = "You are a helpful assistant with access to real-time web search."

// Session acquires and prepares the agent an experiment runs against. It
// prefers reusing an existing agent over creating a new one, and degrades
// gracefully when the search tool cannot be attached.
type Session struct {
	API          API
	Name         string
	Model        string
	Instructions string
	ConnectionID string
	ListLimit    int
}

// Prepare runs the full setup chain: acquire an agent, then attach the
// search tool when a connection is configured. The returned agent may lack
// the tool; callers decide what degraded mode means with HasSearchTool.
func (s *Session) Prepare(ctx context.Context) (Agent, error) {
	agent, err := s.EnsureAgent(ctx)
	if err != nil {
		return Agent{}, err
	}
	return s.AttachSearchTool(ctx, agent), nil
}

// EnsureAgent reuses the first agent the service reports, or creates a new
// one when none exist. A listing failure is only a warning; creation is the
// fallback either way.
func (s *Session) EnsureAgent(ctx context.Context) (Agent, error) {
	limit := s.ListLimit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	agents, err := s.API.ListAgents(ctx, limit)
	if err != nil {
		logger.Warn("Could not list agents", "error", err)
	} else if len(agents) > 0 {
		agent := agents[0]
		logger.Info("Reusing existing agent", "agent_id", agent.ID, "name", agent.Name)
		return agent, nil
	}

	logger.Info("No agent available, creating one", "name", s.Name, "model", s.Model)
	agent, err := s.API.CreateAgent(ctx, AgentSpec{
		Name:         s.Name,
		Model:        s.Model,
		Instructions: s.instructions(),
	})
	if err != nil {
		return Agent{}, fmt.Errorf("failed to acquire agent: %w", err)
	}

	logger.Info("Agent created", "agent_id", agent.ID, "name", agent.Name)
	return agent, nil
}

// AttachSearchTool attaches the web-search tool to the agent and returns the
// resulting handle. It updates the agent in place, falls back to creating a
// replacement agent with the tool pre-attached, and finally keeps the
// unmodified agent. Degraded is a usable state, never a halt.
func (s *Session) AttachSearchTool(ctx context.Context, agent Agent) Agent {
	if s.ConnectionID == "" {
		logger.Warn("No search connection configured; agent will answer from training data only")
		return agent
	}

	tool := NewSearchTool(s.ConnectionID)

	updated, err := s.API.UpdateAgentTools(ctx, agent.ID, []ToolDefinition{tool})
	if err == nil {
		logger.Info("Search tool attached", "agent_id", updated.ID, "tools", len(updated.Tools))
		return updated
	}
	logger.Error("Failed to update agent with search tool", "agent_id", agent.ID, "error", err)

	created, err := s.API.CreateAgent(ctx, AgentSpec{
		Name:         s.Name,
		Model:        s.Model,
		Instructions: s.instructions(),
		Tools:        []ToolDefinition{tool},
	})
	if err == nil {
		logger.Info("Created replacement agent with search tool", "agent_id", created.ID, "tools", len(created.Tools))
		return created
	}
	logger.Error("Failed to create replacement agent", "error", err)

	logger.Warn("Continuing with existing agent configuration", "agent_id", agent.ID)
	return agent
}

func (s *Session) instructions() string {
	if s.Instructions != "" {
		return s.Instructions
	}
	return DefaultInstructions
}
