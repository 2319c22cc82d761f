package prompts

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"groundlab/internal/logger"
)

// NormalizeLatency converts a latency cell into a duration. Values may carry
// a trailing "s" unit or be a bare number of seconds; both forms normalize
// to the same duration ("12.5s" and "12.5" are equal, "9" becomes 9s).
func NormalizeLatency(raw string) (time.Duration, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimSuffix(value, "s")
	if value == "" {
		return 0, fmt.Errorf("empty latency value")
	}

	d, err := time.ParseDuration(value + "s")
	if err != nil {
		return 0, fmt.Errorf("invalid latency value %q: %w", raw, err)
	}
	return d, nil
}

// ReadCSVFile loads prompt records from a CSV file. The header must contain
// a question column and a response-time column; both are matched
// case-insensitively so minor header wording changes do not break loading.
// Rows with an empty question or an unparseable latency are skipped with a
// warning. Row order is preserved.
func ReadCSVFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv %s is empty", path)
	}

	questionCol, latencyCol, err := findColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", path, err)
	}

	var records []Record
	for i, row := range rows[1:] {
		question := strings.TrimSpace(row[questionCol])
		if question == "" {
			logger.Warn("Skipping row with empty question", "file", path, "row", i+2)
			continue
		}

		baseline, err := NormalizeLatency(row[latencyCol])
		if err != nil {
			logger.Warn("Skipping row with unparseable latency", "file", path, "row", i+2, "value", row[latencyCol])
			continue
		}

		records = append(records, Record{
			Question:         question,
			Baseline:         baseline,
			ExpectedBehavior: ExpectedSearchBehavior,
		})
	}

	return records, nil
}

// findColumns locates the question and response-time columns in a header
// row. The time column is recognized by a "response time" or "latency"
// substring, matching headers like "Current response time (seconds)".
func findColumns(header []string) (questionCol, latencyCol int, err error) {
	questionCol, latencyCol = -1, -1

	for i, name := range header {
		lower := strings.ToLower(strings.TrimSpace(name))
		switch {
		case questionCol < 0 && strings.Contains(lower, "question"):
			questionCol = i
		case latencyCol < 0 && (strings.Contains(lower, "response time") || strings.Contains(lower, "latency")):
			latencyCol = i
		}
	}

	if questionCol < 0 {
		return 0, 0, fmt.Errorf("no question column in header %v", header)
	}
	if latencyCol < 0 {
		return 0, 0, fmt.Errorf("no response-time column in header %v", header)
	}
	return questionCol, latencyCol, nil
}
