package agentapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"groundlab/internal/logger"
)

// Client implements API over the openai-go SDK. The underlying SDK client is
// created lazily on first use, so construction never fails and a debug
// transport can still be installed beforehand.
type Client struct {
	options        []option.RequestOption
	client         *openai.Client
	debugTransport http.RoundTripper
}

// NewClient creates a client from pre-built request options (endpoint,
// credential, API version).
func NewClient(options ...option.RequestOption) *Client {
	return &Client{options: options}
}

// SetDebugTransport sets the HTTP transport for network debugging.
func (c *Client) SetDebugTransport(transport http.RoundTripper) {
	c.debugTransport = transport
	// Clear the existing client to force re-initialization with debug transport
	c.client = nil
}

// initializeClientIfNeeded initializes the SDK client if it hasn't been initialized yet.
func (c *Client) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil // Already initialized
	}

	if len(c.options) == 0 {
		return fmt.Errorf("agent service client not configured")
	}

	options := append([]option.RequestOption{}, c.options...)
	if c.debugTransport != nil {
		httpClient := &http.Client{Transport: c.debugTransport}
		options = append(options, option.WithHTTPClient(httpClient))
		logger.Debug("Agent service client initialized with debug transport")
	} else {
		logger.Debug("Agent service client initialized")
	}

	client := openai.NewClient(options...)
	c.client = &client

	return nil
}

// ListAgents returns up to limit agents, newest first as reported by the
// service.
func (c *Client) ListAgents(ctx context.Context, limit int) ([]Agent, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return nil, err
	}

	page, err := c.client.Beta.Assistants.List(ctx, openai.BetaAssistantListParams{
		Limit: openai.Int(int64(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("list agents failed: %w", err)
	}

	agents := make([]Agent, 0, len(page.Data))
	for _, assistant := range page.Data {
		agents = append(agents, agentFromAssistant(assistant))
	}

	logger.Debug("Agents listed", "count", len(agents))
	return agents, nil
}

// CreateAgent creates a new agent with deterministic sampling (temperature 0,
// top_p 1). Tool definitions are injected as raw JSON since the search tool
// type is outside the SDK's assistant tool union.
func (c *Client) CreateAgent(ctx context.Context, spec AgentSpec) (Agent, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return Agent{}, err
	}

	params := openai.BetaAssistantNewParams{
		Model:       openai.ChatModel(spec.Model),
		Temperature: openai.Float(0),
		TopP:        openai.Float(1),
	}
	if spec.Name != "" {
		params.Name = openai.String(spec.Name)
	}
	if spec.Instructions != "" {
		params.Instructions = openai.String(spec.Instructions)
	}

	var opts []option.RequestOption
	if len(spec.Tools) > 0 {
		opts = append(opts, option.WithJSONSet("tools", spec.Tools))
	}

	assistant, err := c.client.Beta.Assistants.New(ctx, params, opts...)
	if err != nil {
		return Agent{}, fmt.Errorf("create agent failed: %w", err)
	}

	logger.Debug("Agent created", "agent_id", assistant.ID, "model", spec.Model, "tools", len(assistant.Tools))
	return agentFromAssistant(*assistant), nil
}

// UpdateAgentTools replaces the agent's tool list, again as raw JSON.
func (c *Client) UpdateAgentTools(ctx context.Context, agentID string, tools []ToolDefinition) (Agent, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return Agent{}, err
	}

	assistant, err := c.client.Beta.Assistants.Update(ctx, agentID,
		openai.BetaAssistantUpdateParams{},
		option.WithJSONSet("tools", tools),
	)
	if err != nil {
		return Agent{}, fmt.Errorf("update agent tools failed: %w", err)
	}

	logger.Debug("Agent tools updated", "agent_id", agentID, "tools", len(assistant.Tools))
	return agentFromAssistant(*assistant), nil
}

// DeleteAgent removes an agent from the service.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	if err := c.initializeClientIfNeeded(); err != nil {
		return err
	}

	if _, err := c.client.Beta.Assistants.Delete(ctx, agentID); err != nil {
		return fmt.Errorf("delete agent failed: %w", err)
	}

	logger.Debug("Agent deleted", "agent_id", agentID)
	return nil
}

// CreateThreadAndRun starts a new thread seeded with a single user message
// and launches a run on it. The run is returned as soon as the service
// accepts it; use a Poller to wait for a terminal state.
func (c *Client) CreateThreadAndRun(ctx context.Context, agentID, prompt string) (RunHandle, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return RunHandle{}, err
	}

	thread := map[string]any{
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	run, err := c.client.Beta.Threads.NewAndRun(ctx,
		openai.BetaThreadNewAndRunParams{AssistantID: agentID},
		option.WithJSONSet("thread", thread),
	)
	if err != nil {
		return RunHandle{}, fmt.Errorf("create thread and run failed: %w", err)
	}

	logger.Debug("Run created", "run_id", run.ID, "thread_id", run.ThreadID, "status", run.Status)
	return runHandleFrom(*run), nil
}

// GetRun fetches the current state of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (RunHandle, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return RunHandle{}, err
	}

	run, err := c.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return RunHandle{}, fmt.Errorf("get run failed: %w", err)
	}
	return runHandleFrom(*run), nil
}

// ListMessages returns the thread's messages in service order, newest first.
// Only text content is extracted; the first text block of a message wins.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]ThreadMessage, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return nil, err
	}

	page, err := c.client.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{})
	if err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}

	messages := make([]ThreadMessage, 0, len(page.Data))
	for _, message := range page.Data {
		messages = append(messages, ThreadMessage{
			ID:   message.ID,
			Role: string(message.Role),
			Text: firstTextContent(message),
		})
	}
	return messages, nil
}

func agentFromAssistant(assistant openai.Assistant) Agent {
	agent := Agent{
		ID:    assistant.ID,
		Name:  assistant.Name,
		Model: assistant.Model,
	}
	for _, tool := range assistant.Tools {
		agent.Tools = append(agent.Tools, string(tool.Type))
	}
	return agent
}

func runHandleFrom(run openai.Run) RunHandle {
	handle := RunHandle{
		ID:       run.ID,
		ThreadID: run.ThreadID,
		Status:   string(run.Status),
	}
	if run.LastError.Message != "" {
		if run.LastError.Code != "" {
			handle.LastError = fmt.Sprintf("%s: %s", run.LastError.Code, run.LastError.Message)
		} else {
			handle.LastError = run.LastError.Message
		}
	}
	return handle
}

func firstTextContent(message openai.Message) string {
	for _, content := range message.Content {
		if content.Type == "text" {
			return content.Text.Value
		}
	}
	return ""
}
