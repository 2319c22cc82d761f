package history

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundlab/internal/agentapi"
	"groundlab/internal/experiment"
	"groundlab/internal/testutils"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(":memory:")
	require.NoError(t, err, "Should open in-memory store successfully")
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func sampleAgent() agentapi.Agent {
	return agentapi.Agent{
		ID:    "asst_123",
		Name:  "grounding-experiment-agent",
		Model: "gpt-4o",
		Tools: []string{agentapi.SearchToolType},
	}
}

func sampleResults() []experiment.Result {
	return []experiment.Result{
		{
			Question:         "What is the weather in Seattle?",
			Baseline:         15 * time.Second,
			Observed:         testutils.DurationPtr(12500 * time.Millisecond),
			Response:         "Sunny with a high of 18C.",
			Flags:            []string{"Mentions search issues"},
			ExpectedBehavior: "Should provide real-time search results with citations",
			Trial:            1,
			Timestamp:        time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		},
		{
			Question:         "What is the weather in Seattle?",
			Baseline:         15 * time.Second,
			Response:         "Error: run did not finish",
			ExpectedBehavior: "Should provide real-time search results with citations",
			Trial:            2,
			Timestamp:        time.Date(2026, 3, 14, 9, 27, 10, 0, time.UTC),
			Err:              "run did not finish",
		},
	}
}

func TestNewCreatesSchema(t *testing.T) {
	store := newTestStore(t)

	runs, err := store.ListRuns(10)
	assert.NoError(t, err)
	assert.Empty(t, runs, "Fresh store should have no runs")
}

func TestRecordRunAndGetRun(t *testing.T) {
	store := newTestStore(t)

	runID, err := store.RecordRun(sampleAgent(), 1, 2, sampleResults())
	require.NoError(t, err)

	_, err = uuid.Parse(runID)
	assert.NoError(t, err, "Run ID should be a valid UUID")

	run, err := store.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, "asst_123", run.AgentID)
	assert.Equal(t, "grounding-experiment-agent", run.AgentName)
	assert.Equal(t, "gpt-4o", run.Model)
	assert.True(t, run.SearchTool)
	assert.Equal(t, 1, run.PromptCount)
	assert.Equal(t, 2, run.TrialCount)
	assert.WithinDuration(t, time.Now(), run.StartedAt, 5*time.Second)
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRowsPreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)

	runID, err := store.RecordRun(sampleAgent(), 1, 2, sampleResults())
	require.NoError(t, err)

	rows, err := store.ListRows(runID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "What is the weather in Seattle?", first.Question)
	assert.InDelta(t, 15.0, first.BaselineSeconds, 0.001)
	require.NotNil(t, first.ObservedSeconds)
	assert.InDelta(t, 12.5, *first.ObservedSeconds, 0.001)
	assert.Equal(t, len("Sunny with a high of 18C."), first.ResponseLength)
	assert.Equal(t, "Mentions search issues", first.LimitationFlags)
	assert.Equal(t, 1, first.Trial)
	assert.Empty(t, first.Err)

	second := rows[1]
	assert.Nil(t, second.ObservedSeconds, "Failed trial should have no observed latency")
	assert.Equal(t, 2, second.Trial)
	assert.Equal(t, "run did not finish", second.Err)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	for i, startedAt := range []time.Time{older, newer} {
		_, err := store.db.Exec(`
			INSERT INTO runs (id, started_at, agent_id, agent_name, model, search_tool, prompt_count, trial_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), startedAt, "asst_123", "agent", "gpt-4o", false, 1, i+1)
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 2, runs[0].TrialCount, "Most recent run should come first")
	assert.Equal(t, 1, runs[1].TrialCount)

	limited, err := store.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListRunsDefaultLimit(t *testing.T) {
	store := newTestStore(t)

	_, err := store.RecordRun(sampleAgent(), 1, 1, sampleResults()[:1])
	require.NoError(t, err)

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestResultsRequireKnownRun(t *testing.T) {
	store := newTestStore(t)

	_, err := store.db.Exec(`
		INSERT INTO results (run_id, question, baseline_seconds, created_at)
		VALUES ('nope', 'q', 15.0, ?)
	`, time.Now().UTC())
	assert.Error(t, err, "Results should reference an existing run")
}
