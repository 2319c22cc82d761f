// Package prompts loads experiment prompts from markdown bullet lists and
// tabular CSV files, normalizing each source into Record values.
package prompts

import "time"

// Default source files merged by Loader.LoadAll, relative to the loader's
// directory.
const (
	DefaultTabularFile   = "prompts.csv"
	DefaultQuestionsFile = "questions.md"
)

// Baselines assumed for sources that carry no measured latency column.
const (
	// DefaultMarkdownBaseline is attached to prompts from markdown sets.
	DefaultMarkdownBaseline = 15 * time.Second
	// DefaultLongPromptBaseline is attached to a whole-file long prompt.
	DefaultLongPromptBaseline = 30 * time.Second
)

// Behavior notes attached to loaded records, recorded alongside each result.
const (
	ExpectedSearchBehavior     = "Should provide real-time search results with citations"
	ExpectedLongPromptBehavior = "Should provide comprehensive real-time search results with citations"
)

// Record is one prompt ready to run: the question text, the baseline latency
// it is compared against, and the behavior the response is expected to show.
// Records are immutable once loaded.
type Record struct {
	Question         string
	Baseline         time.Duration
	ExpectedBehavior string
}
