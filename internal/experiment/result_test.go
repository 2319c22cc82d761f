package experiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundlab/internal/testutils"
)

func TestResultImprovement(t *testing.T) {
	tests := []struct {
		name            string
		baseline        time.Duration
		observed        *time.Duration
		expectedSeconds float64
		expectedPercent float64
		expectOK        bool
	}{
		{
			name:            "faster than baseline",
			baseline:        20 * time.Second,
			observed:        testutils.DurationPtr(15 * time.Second),
			expectedSeconds: 5.0,
			expectedPercent: 25.0,
			expectOK:        true,
		},
		{
			name:            "slower than baseline",
			baseline:        10 * time.Second,
			observed:        testutils.DurationPtr(12 * time.Second),
			expectedSeconds: -2.0,
			expectedPercent: -20.0,
			expectOK:        true,
		},
		{
			name:     "no observation",
			baseline: 20 * time.Second,
			observed: nil,
			expectOK: false,
		},
		{
			name:     "no baseline",
			baseline: 0,
			observed: testutils.DurationPtr(15 * time.Second),
			expectOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Result{Baseline: tt.baseline, Observed: tt.observed}

			seconds, ok := result.ImprovementSeconds()
			assert.Equal(t, tt.expectOK, ok)
			percent, ok := result.ImprovementPercent()
			assert.Equal(t, tt.expectOK, ok)

			if tt.expectOK {
				assert.InDelta(t, tt.expectedSeconds, seconds, 1e-9)
				assert.InDelta(t, tt.expectedPercent, percent, 1e-9)
			}
		})
	}
}

func TestResultSucceeded(t *testing.T) {
	require.False(t, Result{}.Succeeded())
	require.True(t, Result{Observed: testutils.DurationPtr(time.Second)}.Succeeded())
}
