// Package smoke verifies the agent-service setup end to end: configuration,
// credentials, connectivity, search tool wiring, agent creation and one live
// search probe. It creates its own throwaway agent and deletes it afterwards,
// so a passing check leaves the service exactly as it found it.
package smoke

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/charmbracelet/log"

	"groundlab/internal/agentapi"
	"groundlab/internal/config"
	"groundlab/internal/experiment"
	"groundlab/internal/logger"
)

// TokenScope is the OAuth scope requested when probing the default
// credential chain.
const TokenScope = "https://ai.azure.com/.default"

// ProbeQuestion needs a live answer, so a reply from stale training data is
// detectable by the limitation signals.
const ProbeQuestion = "What is the current weather in Dubai?"

// Stage names, in the order the checker runs them.
const (
	StageConfiguration = "Configuration"
	StageCredentials   = "Credentials"
	StageConnectivity  = "Service Connectivity"
	StageSearchTool    = "Search Tool Definition"
	StageAgentCreation = "Agent Creation"
	StageLiveSearch    = "Live Search Probe"
)

// StageResult is the outcome of one stage.
type StageResult struct {
	Name   string
	Passed bool
	Detail string
}

// Report collects the stage outcomes of one smoke run.
type Report struct {
	Stages []StageResult
}

// Passed reports whether every stage passed.
func (r Report) Passed() bool {
	for _, stage := range r.Stages {
		if !stage.Passed {
			return false
		}
	}
	return len(r.Stages) > 0
}

// Checker runs the smoke stages. API, Sleep, Now and Token are test hooks;
// leaving them nil selects the real implementations.
type Checker struct {
	Config *config.Config
	API    agentapi.API
	Sleep  func(time.Duration)
	Now    func() time.Time
	Token  func(ctx context.Context) (time.Time, error)

	log *log.Logger
}

// NewChecker creates a checker for the given configuration.
func NewChecker(cfg *config.Config) *Checker {
	return &Checker{Config: cfg, log: logger.NewStyledLogger("smoke")}
}

// Run executes all stages in order. A failed stage never stops the ones
// after it; later stages report what they are missing instead. The test
// agent created in the agent-creation stage is always deleted before Run
// returns.
func (c *Checker) Run(ctx context.Context) Report {
	var report Report

	c.record(&report, c.checkConfig())
	c.record(&report, c.checkCredentials(ctx))

	api, stage := c.connect(ctx)
	c.record(&report, stage)

	tool, stage := c.buildSearchTool()
	c.record(&report, stage)

	created, stage := c.createTestAgent(ctx, api, tool)
	c.record(&report, stage)
	defer c.cleanup(ctx, api, created)

	c.record(&report, c.probeSearch(ctx, api, created))

	return report
}

// record logs the stage outcome and appends it to the report.
func (c *Checker) record(report *Report, stage StageResult) {
	if stage.Passed {
		c.stageLog().Info("Stage passed", "stage", stage.Name, "detail", stage.Detail)
	} else {
		c.stageLog().Error("Stage failed", "stage", stage.Name, "detail", stage.Detail)
	}
	report.Stages = append(report.Stages, stage)
}

func (c *Checker) stageLog() *log.Logger {
	if c.log == nil {
		c.log = logger.NewStyledLogger("smoke")
	}
	return c.log
}

func (c *Checker) checkConfig() StageResult {
	stage := StageResult{Name: StageConfiguration}

	if err := c.Config.Validate(); err != nil {
		stage.Detail = err.Error()
		return stage
	}

	parts := []string{"endpoint " + clip(c.Config.Endpoint, 50)}
	if c.Config.APIKey != "" {
		parts = append(parts, "api key set")
	} else {
		parts = append(parts, "using default azure credential")
	}

	if !c.Config.HasSearchConnection() {
		stage.Detail = strings.Join(append(parts, "search connection not set"), "; ")
		return stage
	}
	parts = append(parts, "search connection "+clip(c.Config.SearchConnectionID, 50))

	stage.Passed = true
	stage.Detail = strings.Join(parts, "; ")
	return stage
}

func (c *Checker) checkCredentials(ctx context.Context) StageResult {
	stage := StageResult{Name: StageCredentials}

	if c.Config.APIKey != "" {
		stage.Passed = true
		stage.Detail = "api-key authentication configured"
		return stage
	}

	token := c.Token
	if token == nil {
		token = fetchDefaultToken
	}

	expires, err := token(ctx)
	if err != nil {
		stage.Detail = fmt.Sprintf("default azure credential: %s", err)
		return stage
	}

	stage.Passed = true
	stage.Detail = fmt.Sprintf("access token obtained, expires %s", expires.UTC().Format(time.RFC3339))
	return stage
}

// fetchDefaultToken requests a real token so a broken credential chain
// surfaces here instead of midway through an experiment.
func fetchDefaultToken(ctx context.Context) (time.Time, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return time.Time{}, err
	}

	token, err := credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{TokenScope}})
	if err != nil {
		return time.Time{}, err
	}
	return token.ExpiresOn, nil
}

// connect builds the service client and lists a few agents to prove the
// endpoint is reachable. The client is returned even when listing fails, so
// the remaining stages can still report their own outcomes.
func (c *Checker) connect(ctx context.Context) (agentapi.API, StageResult) {
	stage := StageResult{Name: StageConnectivity}

	api := c.API
	if api == nil {
		options, err := c.Config.ClientOptions()
		if err != nil {
			stage.Detail = err.Error()
			return nil, stage
		}
		api = agentapi.NewClient(options...)
	}

	agents, err := api.ListAgents(ctx, 5)
	if err != nil {
		stage.Detail = err.Error()
		return api, stage
	}

	stage.Passed = true
	stage.Detail = fmt.Sprintf("found %d existing agents", len(agents))
	return api, stage
}

func (c *Checker) buildSearchTool() (agentapi.ToolDefinition, StageResult) {
	stage := StageResult{Name: StageSearchTool}

	if !c.Config.HasSearchConnection() {
		stage.Detail = "search connection not configured"
		return nil, stage
	}

	tool := agentapi.NewSearchTool(c.Config.SearchConnectionID)
	stage.Passed = true
	stage.Detail = fmt.Sprintf("%s tool definition built", agentapi.SearchToolType)
	return tool, stage
}

func (c *Checker) createTestAgent(ctx context.Context, api agentapi.API, tool agentapi.ToolDefinition) (*agentapi.Agent, StageResult) {
	stage := StageResult{Name: StageAgentCreation}

	if api == nil {
		stage.Detail = "service client unavailable"
		return nil, stage
	}

	spec := agentapi.AgentSpec{
		Name:         "test-agent-bing-" + c.now().Format("20060102-150405"),
		Model:        c.Config.Model,
		Instructions: agentapi.DefaultInstructions,
	}
	if tool != nil {
		spec.Tools = []agentapi.ToolDefinition{tool}
	}

	agent, err := api.CreateAgent(ctx, spec)
	if err != nil {
		stage.Detail = fmt.Sprintf("create agent: %s", err)
		return nil, stage
	}

	c.stageLog().Info("Test agent created", "id", agent.ID, "tools", len(agent.Tools))
	stage.Passed = true
	stage.Detail = fmt.Sprintf("created %s with %d tool(s)", agent.ID, len(agent.Tools))
	return &agent, stage
}

// probeSearch sends one question that needs live data and fails when the
// reply carries any grounding limitation signal.
func (c *Checker) probeSearch(ctx context.Context, api agentapi.API, created *agentapi.Agent) StageResult {
	stage := StageResult{Name: StageLiveSearch}

	if api == nil || created == nil {
		stage.Detail = "no test agent available"
		return stage
	}

	c.stageLog().Info("Probing live search", "question", ProbeQuestion)

	start := time.Now()
	run, err := api.CreateThreadAndRun(ctx, created.ID, ProbeQuestion)
	if err != nil {
		stage.Detail = fmt.Sprintf("create run: %s", err)
		return stage
	}

	poller := agentapi.Poller{
		API:      api,
		Interval: c.Config.PollInterval,
		Timeout:  c.Config.RunTimeout,
		Sleep:    c.Sleep,
	}
	run, err = poller.Wait(ctx, run.ThreadID, run.ID)
	if err != nil {
		stage.Detail = fmt.Sprintf("wait for run: %s", err)
		return stage
	}
	elapsed := time.Since(start)

	messages, err := api.ListMessages(ctx, run.ThreadID)
	if err != nil {
		stage.Detail = fmt.Sprintf("list messages: %s", err)
		return stage
	}

	var text string
	for _, message := range messages {
		if message.Role == "assistant" && message.Text != "" {
			text = message.Text
			break
		}
	}
	if text == "" {
		stage.Detail = "no assistant response received"
		return stage
	}

	if flags := experiment.Classify(text); len(flags) > 0 {
		stage.Detail = fmt.Sprintf("%.2fs, %d chars, limitation signals: %s",
			elapsed.Seconds(), len(text), strings.Join(flags, "; "))
		return stage
	}

	stage.Passed = true
	stage.Detail = fmt.Sprintf("%.2fs, %d chars, no limitation signals", elapsed.Seconds(), len(text))
	return stage
}

func (c *Checker) cleanup(ctx context.Context, api agentapi.API, created *agentapi.Agent) {
	if api == nil || created == nil {
		return
	}

	if err := api.DeleteAgent(ctx, created.ID); err != nil {
		c.stageLog().Warn("Failed to delete test agent", "id", created.ID, "error", err)
		return
	}
	c.stageLog().Info("Test agent deleted", "id", created.ID)
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
