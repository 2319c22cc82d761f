package experiment

import "time"

// Result is the outcome of one trial of one prompt. Observed is nil when the
// trial never produced a measured latency; every downstream aggregation
// ranges over present values only.
type Result struct {
	Question         string
	Baseline         time.Duration
	Observed         *time.Duration
	Response         string
	Flags            []string
	ExpectedBehavior string
	Trial            int
	Timestamp        time.Time
	Err              string
}

// Succeeded reports whether the trial produced a measured latency.
func (r Result) Succeeded() bool {
	return r.Observed != nil
}

// ImprovementSeconds returns baseline minus observed latency in seconds.
// ok is false when the trial has no measurement or no usable baseline.
func (r Result) ImprovementSeconds() (float64, bool) {
	if r.Observed == nil || r.Baseline <= 0 {
		return 0, false
	}
	return r.Baseline.Seconds() - r.Observed.Seconds(), true
}

// ImprovementPercent returns the latency improvement relative to the
// baseline. A 20s baseline observed at 15s is a 25.0 percent improvement.
func (r Result) ImprovementPercent() (float64, bool) {
	if r.Observed == nil || r.Baseline <= 0 {
		return 0, false
	}
	return (r.Baseline.Seconds() - r.Observed.Seconds()) / r.Baseline.Seconds() * 100, true
}
