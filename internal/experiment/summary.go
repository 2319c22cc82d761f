package experiment

import (
	"fmt"
	"sort"
	"time"

	"groundlab/internal/logger"
)

// Summary aggregates a run's results. Latency statistics cover successful
// trials only; improvement statistics cover trials that also carried a
// usable baseline.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int

	AvgObserved time.Duration
	MinObserved time.Duration
	MaxObserved time.Duration

	ImprovementCount      int
	AvgImprovementSeconds float64
	AvgImprovementPercent float64

	// Limitations is the union of limitation flags seen across all trials,
	// deduplicated and sorted for stable output.
	Limitations []string
}

// Summarize folds results into a Summary.
func Summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}

	var observedSum time.Duration
	var improvementSum, improvementPctSum float64
	seen := make(map[string]bool)

	for _, result := range results {
		for _, flag := range result.Flags {
			seen[flag] = true
		}

		if !result.Succeeded() {
			summary.Failed++
			continue
		}
		summary.Succeeded++

		observed := *result.Observed
		observedSum += observed
		if summary.Succeeded == 1 || observed < summary.MinObserved {
			summary.MinObserved = observed
		}
		if observed > summary.MaxObserved {
			summary.MaxObserved = observed
		}

		if seconds, ok := result.ImprovementSeconds(); ok {
			percent, _ := result.ImprovementPercent()
			summary.ImprovementCount++
			improvementSum += seconds
			improvementPctSum += percent
		}
	}

	if summary.Succeeded > 0 {
		summary.AvgObserved = observedSum / time.Duration(summary.Succeeded)
	}
	if summary.ImprovementCount > 0 {
		summary.AvgImprovementSeconds = improvementSum / float64(summary.ImprovementCount)
		summary.AvgImprovementPercent = improvementPctSum / float64(summary.ImprovementCount)
	}

	for flag := range seen {
		summary.Limitations = append(summary.Limitations, flag)
	}
	sort.Strings(summary.Limitations)

	return summary
}

// Log writes the end-of-run summary through the standard logger.
func (s Summary) Log() {
	logger.Info("Experiment completed!")
	logger.Info("Trial totals", "total", s.Total, "succeeded", s.Succeeded, "failed", s.Failed)

	if s.Succeeded > 0 {
		logger.Info("Response times", "avg", s.AvgObserved, "min", s.MinObserved, "max", s.MaxObserved)
	}
	if s.ImprovementCount > 0 {
		logger.Info("Average improvement",
			"seconds", fmt.Sprintf("%.2f", s.AvgImprovementSeconds),
			"percent", fmt.Sprintf("%.1f", s.AvgImprovementPercent))
	}

	logger.Info("Search limitations found", "flags", s.Limitations)
}
