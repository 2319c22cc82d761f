package agentapi

import (
	"context"
	"fmt"
	"time"

	"groundlab/internal/logger"
)

// Default poller settings; overridable through the environment.
const (
	DefaultPollInterval = 1 * time.Second
	DefaultRunTimeout   = 2 * time.Minute
)

// Poller waits for runs to reach a terminal state, bounded by Timeout. The
// wait budget accumulates in Interval steps, so a fake Sleep makes the
// poller fully deterministic in tests.
type Poller struct {
	API      API
	Interval time.Duration
	Timeout  time.Duration
	Sleep    func(time.Duration)
}

// Wait polls the run every Interval until it is terminal. When the budget is
// exhausted it returns the last observed handle together with an error
// wrapping ErrRunTimeout.
func (p Poller) Wait(ctx context.Context, threadID, runID string) (RunHandle, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var waited time.Duration
	for {
		run, err := p.API.GetRun(ctx, threadID, runID)
		if err != nil {
			return RunHandle{}, err
		}
		if run.Terminal() {
			return run, nil
		}
		if waited >= timeout {
			return run, fmt.Errorf("%w: status %q after %s", ErrRunTimeout, run.Status, timeout)
		}
		if err := ctx.Err(); err != nil {
			return run, err
		}

		logger.Debug("Run not finished, polling", "run_id", runID, "status", run.Status, "waited", waited)
		sleep(interval)
		waited += interval
	}
}
