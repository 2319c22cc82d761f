package prompts

import (
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundlab/internal/testutils"
)

func TestNormalizeLatency(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected time.Duration
		wantErr  bool
	}{
		{
			name:     "seconds with unit suffix",
			raw:      "12.5s",
			expected: 12*time.Second + 500*time.Millisecond,
		},
		{
			name:     "bare number treated as seconds",
			raw:      "9",
			expected: 9 * time.Second,
		},
		{
			name:     "suffixed and bare forms agree",
			raw:      "9s",
			expected: 9 * time.Second,
		},
		{
			name:     "surrounding whitespace",
			raw:      "  20s ",
			expected: 20 * time.Second,
		},
		{
			name:    "empty value",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "bare unit",
			raw:     "s",
			wantErr: true,
		},
		{
			name:    "not a number",
			raw:     "fast",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NormalizeLatency(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestReadCSVFile(t *testing.T) {
	fileHelpers := testutils.NewFileHelpers()

	t.Run("rows in file order", func(t *testing.T) {
		content := "Question,Current response time (seconds)\n" +
			"What is the weather in Dubai today?,12.5s\n" +
			"Who won the latest F1 race?,9\n"
		path := fileHelpers.CreateTempFile(t, "prompts.csv", content)

		records, err := ReadCSVFile(path)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "What is the weather in Dubai today?", records[0].Question)
		assert.Equal(t, 12*time.Second+500*time.Millisecond, records[0].Baseline)
		assert.Equal(t, ExpectedSearchBehavior, records[0].ExpectedBehavior)

		assert.Equal(t, "Who won the latest F1 race?", records[1].Question)
		assert.Equal(t, 9*time.Second, records[1].Baseline)
	})

	t.Run("header matching is case-insensitive", func(t *testing.T) {
		content := "QUESTION,Latency\nWhat changed this week?,8s\n"
		path := fileHelpers.CreateTempFile(t, "prompts.csv", content)

		records, err := ReadCSVFile(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 8*time.Second, records[0].Baseline)
	})

	t.Run("bad rows are skipped", func(t *testing.T) {
		content := "Question,Current response time (seconds)\n" +
			",10s\n" +
			"Valid question?,not-a-number\n" +
			"Kept question?,11s\n"
		path := fileHelpers.CreateTempFile(t, "prompts.csv", content)

		records, err := ReadCSVFile(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Kept question?", records[0].Question)
	})

	t.Run("missing question column", func(t *testing.T) {
		content := "Prompt,Current response time (seconds)\nsomething,10s\n"
		path := fileHelpers.CreateTempFile(t, "prompts.csv", content)

		_, err := ReadCSVFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question column")
	})

	t.Run("missing latency column", func(t *testing.T) {
		content := "Question,Notes\nsomething,fine\n"
		path := fileHelpers.CreateTempFile(t, "prompts.csv", content)

		_, err := ReadCSVFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "response-time column")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadCSVFile(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("empty file", func(t *testing.T) {
		path := fileHelpers.CreateTempFile(t, "prompts.csv", "")

		_, err := ReadCSVFile(path)
		require.Error(t, err)
	})
}
