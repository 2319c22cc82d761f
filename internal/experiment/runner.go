package experiment

import (
	"context"
	"fmt"
	"time"

	"groundlab/internal/agentapi"
	"groundlab/internal/logger"
	"groundlab/internal/prompts"
)

// Pacing between remote calls, so back-to-back trials don't contend with
// each other or trip service rate limits.
const (
	DefaultTrialDelay  = 2 * time.Second
	DefaultPromptDelay = 3 * time.Second
)

// NoResponseText marks a run that finished without an assistant reply.
const NoResponseText = "No response received"

// Runner executes prompts against a prepared agent, one trial at a time.
// The zero delays fall back to package defaults; Sleep is injectable so
// tests run without waiting.
type Runner struct {
	API          agentapi.API
	Agent        agentapi.Agent
	PollInterval time.Duration
	RunTimeout   time.Duration
	TrialDelay   time.Duration
	PromptDelay  time.Duration
	Sleep        func(time.Duration)
}

// RunAll runs every record in order, trials times each, pausing between
// prompts. Results come back in prompt-then-trial order, which the report
// writers preserve.
func (r *Runner) RunAll(ctx context.Context, records []prompts.Record, trials int) []Result {
	var all []Result
	for i, record := range records {
		logger.Info("Processing prompt", "index", i+1, "total", len(records))
		all = append(all, r.RunPrompt(ctx, record, trials)...)

		if i < len(records)-1 {
			logger.Info("Waiting before next prompt", "delay", r.promptDelay())
			r.sleep(r.promptDelay())
		}
	}
	return all
}

// RunPrompt runs one prompt the given number of trials, pausing between
// them. Every trial yields exactly one Result; a failed trial never stops
// the ones after it.
func (r *Runner) RunPrompt(ctx context.Context, record prompts.Record, trials int) []Result {
	if trials < 1 {
		trials = 1
	}

	logger.Info("Testing prompt",
		"prompt", truncate(record.Question, 100),
		"baseline", record.Baseline,
		"trials", trials)

	results := make([]Result, 0, trials)
	for trial := 1; trial <= trials; trial++ {
		results = append(results, r.runTrial(ctx, record, trial))

		if trial < trials {
			logger.Info("Waiting before next trial", "delay", r.trialDelay())
			r.sleep(r.trialDelay())
		}
	}
	return results
}

// runTrial measures the wall-clock time from submitting the run until it
// reaches a terminal state. Fetching the response afterwards is not part of
// the measured window; a fetch failure keeps the latency and records an
// error response instead.
func (r *Runner) runTrial(ctx context.Context, record prompts.Record, trial int) Result {
	result := Result{
		Question:         record.Question,
		Baseline:         record.Baseline,
		ExpectedBehavior: record.ExpectedBehavior,
		Trial:            trial,
		Timestamp:        time.Now(),
	}

	logger.Info("Starting trial", "trial", trial, "agent", r.Agent.ID)

	start := time.Now()
	run, err := r.API.CreateThreadAndRun(ctx, r.Agent.ID, record.Question)
	if err != nil {
		logger.Error("Trial failed", "trial", trial, "error", err)
		result.Response = fmt.Sprintf("Error: %s", err)
		result.Err = err.Error()
		return result
	}

	poller := agentapi.Poller{
		API:      r.API,
		Interval: r.PollInterval,
		Timeout:  r.RunTimeout,
		Sleep:    r.Sleep,
	}
	run, err = poller.Wait(ctx, run.ThreadID, run.ID)
	if err != nil {
		logger.Error("Trial failed", "trial", trial, "error", err)
		result.Response = fmt.Sprintf("Error: %s", err)
		result.Err = err.Error()
		return result
	}

	observed := time.Since(start)
	result.Observed = &observed
	logger.Info("Run finished", "trial", trial, "status", run.Status, "elapsed", observed)

	if run.Status != agentapi.RunStatusCompleted && run.LastError != "" {
		logger.Warn("Run ended in error state", "status", run.Status, "last_error", run.LastError)
	}

	response, found, err := r.fetchResponse(ctx, run.ThreadID)
	switch {
	case err != nil:
		logger.Error("Error getting messages", "error", err)
		result.Response = fmt.Sprintf("Error: %s", err)
	case !found:
		logger.Warn("No assistant response found", "thread_id", run.ThreadID)
		result.Response = NoResponseText
	default:
		result.Response = response
		result.Flags = Classify(response)
		logger.Info("Response received", "length", len(response), "flags", result.Flags)
	}

	return result
}

// fetchResponse returns the text of the newest assistant message. Messages
// are listed newest first, so the first assistant entry is the reply to the
// run that just finished.
func (r *Runner) fetchResponse(ctx context.Context, threadID string) (string, bool, error) {
	messages, err := r.API.ListMessages(ctx, threadID)
	if err != nil {
		return "", false, err
	}

	for _, message := range messages {
		if message.Role != "assistant" {
			continue
		}
		return message.Text, message.Text != "", nil
	}
	return "", false, nil
}

func (r *Runner) sleep(d time.Duration) {
	if r.Sleep != nil {
		r.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (r *Runner) trialDelay() time.Duration {
	if r.TrialDelay > 0 {
		return r.TrialDelay
	}
	return DefaultTrialDelay
}

func (r *Runner) promptDelay() time.Duration {
	if r.PromptDelay > 0 {
		return r.PromptDelay
	}
	return DefaultPromptDelay
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
