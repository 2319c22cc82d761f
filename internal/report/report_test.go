package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundlab/internal/experiment"
	"groundlab/internal/testutils"
)

func fixedNow() time.Time {
	return time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
}

func sampleResults() []experiment.Result {
	return []experiment.Result{
		{
			Question:         "first?",
			Baseline:         20 * time.Second,
			Observed:         testutils.DurationPtr(15 * time.Second),
			Response:         "grounded answer",
			Flags:            []string{"Mentions search issues"},
			ExpectedBehavior: "Should provide real-time search results with citations",
			Trial:            1,
			Timestamp:        fixedNow(),
		},
		{
			Question:         "first?",
			Baseline:         20 * time.Second,
			Response:         "Error: service exploded",
			ExpectedBehavior: "Should provide real-time search results with citations",
			Trial:            2,
			Timestamp:        fixedNow(),
			Err:              "service exploded",
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	writer := &Writer{Dir: dir, Now: fixedNow}

	path, err := writer.WriteSummary(sampleResults())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "grounding_results_20260314_092653.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"question", "baseline", "observed_seconds", "improvement_seconds",
		"improvement_percent", "response_length", "limitation_flags",
		"expected_behavior", "trial", "timestamp",
	}, rows[0])

	first := rows[1]
	assert.Equal(t, "first?", first[0])
	assert.Equal(t, "20s", first[1])
	assert.Equal(t, "15.00", first[2])
	assert.Equal(t, "5.00", first[3])
	assert.Equal(t, "25.0", first[4])
	assert.Equal(t, "15", first[5]) // len("grounded answer")
	assert.Equal(t, "Mentions search issues", first[6])
	assert.Equal(t, "1", first[8])
	assert.Equal(t, "2026-03-14T09:26:53Z", first[9])

	// The failed trial keeps its row with empty measurement cells.
	second := rows[2]
	assert.Equal(t, "", second[2])
	assert.Equal(t, "", second[3])
	assert.Equal(t, "", second[4])
	assert.Equal(t, "2", second[8])
}

func TestWriteSummary_RowPerTrialInOrder(t *testing.T) {
	results := []experiment.Result{
		{Question: "p1?", Trial: 1, Observed: testutils.DurationPtr(time.Second)},
		{Question: "p1?", Trial: 2, Observed: testutils.DurationPtr(time.Second)},
		{Question: "p2?", Trial: 1, Observed: testutils.DurationPtr(time.Second)},
		{Question: "p2?", Trial: 2, Observed: testutils.DurationPtr(time.Second)},
	}

	writer := &Writer{Dir: t.TempDir(), Now: fixedNow}
	path, err := writer.WriteSummary(results)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 5)

	type key struct{ question, trial string }
	order := make([]key, 0, 4)
	for _, row := range rows[1:] {
		order = append(order, key{row[0], row[8]})
	}
	assert.Equal(t, []key{
		{"p1?", "1"}, {"p1?", "2"}, {"p2?", "1"}, {"p2?", "2"},
	}, order)
}

func TestWriteTranscript(t *testing.T) {
	dir := t.TempDir()
	writer := &Writer{Dir: dir, Now: fixedNow}

	path, err := writer.WriteTranscript(sampleResults())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "grounding_responses_20260314_092653.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "GROUNDING EXPERIMENT - FULL RESPONSES")
	assert.Contains(t, text, strings.Repeat("=", 50))
	assert.Contains(t, text, strings.Repeat("-", 30))
	assert.Contains(t, text, "PROMPT 1:")
	assert.Contains(t, text, "PROMPT 2:")
	assert.Contains(t, text, "Question: first?")
	assert.Contains(t, text, "Response Time: 15.00s")
	assert.Contains(t, text, "Search Limitations: Mentions search issues")
	assert.Contains(t, text, "FULL RESPONSE:\ngrounded answer")

	// The failed trial shows n/a instead of a latency.
	assert.Contains(t, text, "Response Time: n/a")
	assert.Contains(t, text, "Search Limitations: none")
}

func TestWrite_SharedTimestamp(t *testing.T) {
	dir := t.TempDir()
	writer := &Writer{Dir: dir, Now: fixedNow}

	summaryPath, transcriptPath, err := writer.Write(sampleResults())
	require.NoError(t, err)

	assert.Contains(t, summaryPath, "20260314_092653")
	assert.Contains(t, transcriptPath, "20260314_092653")

	_, err = os.Stat(summaryPath)
	require.NoError(t, err)
	_, err = os.Stat(transcriptPath)
	require.NoError(t, err)
}

func TestWrite_CreatesResultsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "results")
	writer := &Writer{Dir: dir, Now: fixedNow}

	_, _, err := writer.Write(sampleResults())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
