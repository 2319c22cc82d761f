// Package report persists experiment results as a latency summary CSV and a
// full-response transcript, both named by run timestamp.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"groundlab/internal/experiment"
	"groundlab/internal/logger"
)

// File name patterns for one run's artifacts.
const (
	summaryPattern    = "grounding_results_%s.csv"
	transcriptPattern = "grounding_responses_%s.txt"
	timestampLayout   = "20060102_150405"
)

// summaryHeader is the column order of the summary CSV. Full responses stay
// out of the summary; they go to the transcript.
var summaryHeader = []string{
	"question",
	"baseline",
	"observed_seconds",
	"improvement_seconds",
	"improvement_percent",
	"response_length",
	"limitation_flags",
	"expected_behavior",
	"trial",
	"timestamp",
}

// Writer persists run artifacts under Dir, creating it on demand. Now stamps
// file names and defaults to time.Now.
type Writer struct {
	Dir string
	Now func() time.Time
}

// Write persists both artifacts with a shared timestamp, so one run's files
// sort together, and returns their paths. Both writes are always attempted;
// a summary failure does not keep the transcript from being written.
func (w *Writer) Write(results []experiment.Result) (summaryPath, transcriptPath string, err error) {
	stamp := w.stamp()

	summaryPath, summaryErr := w.writeSummaryFile(stamp, results)
	transcriptPath, transcriptErr := w.writeTranscriptFile(stamp, results)

	if summaryErr != nil {
		return summaryPath, transcriptPath, summaryErr
	}
	return summaryPath, transcriptPath, transcriptErr
}

// WriteSummary writes only the latency summary CSV and returns its path.
func (w *Writer) WriteSummary(results []experiment.Result) (string, error) {
	return w.writeSummaryFile(w.stamp(), results)
}

// WriteTranscript writes only the full-response transcript and returns its
// path.
func (w *Writer) WriteTranscript(results []experiment.Result) (string, error) {
	return w.writeTranscriptFile(w.stamp(), results)
}

func (w *Writer) writeSummaryFile(stamp string, results []experiment.Result) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory %s: %w", w.Dir, err)
	}
	path := filepath.Join(w.Dir, fmt.Sprintf(summaryPattern, stamp))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file %s: %w", path, err)
	}

	rows := make([][]string, 0, len(results)+1)
	rows = append(rows, summaryHeader)
	for _, result := range results {
		rows = append(rows, summaryRow(result))
	}

	err = csv.NewWriter(f).WriteAll(rows)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to write summary %s: %w", path, err)
	}

	logger.Info("Latency summary saved", "path", path, "rows", len(results))
	return path, nil
}

func (w *Writer) writeTranscriptFile(stamp string, results []experiment.Result) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory %s: %w", w.Dir, err)
	}
	path := filepath.Join(w.Dir, fmt.Sprintf(transcriptPattern, stamp))

	var b strings.Builder
	b.WriteString("GROUNDING EXPERIMENT - FULL RESPONSES\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, result := range results {
		fmt.Fprintf(&b, "PROMPT %d:\n", i+1)
		fmt.Fprintf(&b, "Question: %s\n", result.Question)
		fmt.Fprintf(&b, "Response Time: %s\n", formatObserved(result.Observed))
		fmt.Fprintf(&b, "Search Limitations: %s\n", formatFlags(result.Flags))
		fmt.Fprintf(&b, "Response Length: %d characters\n", len(result.Response))
		b.WriteString(strings.Repeat("-", 30) + "\n")
		fmt.Fprintf(&b, "FULL RESPONSE:\n%s\n", result.Response)
		b.WriteString("\n" + strings.Repeat("=", 50) + "\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript %s: %w", path, err)
	}

	logger.Info("Full responses saved", "path", path)
	return path, nil
}

func summaryRow(r experiment.Result) []string {
	observed := ""
	if r.Observed != nil {
		observed = strconv.FormatFloat(r.Observed.Seconds(), 'f', 2, 64)
	}

	improvementSeconds := ""
	if v, ok := r.ImprovementSeconds(); ok {
		improvementSeconds = strconv.FormatFloat(v, 'f', 2, 64)
	}
	improvementPercent := ""
	if v, ok := r.ImprovementPercent(); ok {
		improvementPercent = strconv.FormatFloat(v, 'f', 1, 64)
	}

	return []string{
		r.Question,
		r.Baseline.String(),
		observed,
		improvementSeconds,
		improvementPercent,
		strconv.Itoa(len(r.Response)),
		strings.Join(r.Flags, "; "),
		r.ExpectedBehavior,
		strconv.Itoa(r.Trial),
		r.Timestamp.Format(time.RFC3339),
	}
}

func formatObserved(observed *time.Duration) string {
	if observed == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2fs", observed.Seconds())
}

func formatFlags(flags []string) string {
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, "; ")
}

func (w *Writer) stamp() string {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	return now().Format(timestampLayout)
}
