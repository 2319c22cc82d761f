package prompts

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseMarkdown extracts prompts from markdown text. A prompt is any line
// that, after trimming, starts with a "- " bullet. One trailing "?" or "."
// is stripped, then a "?" is appended so every prompt reads as a question.
// Non-bullet lines are ignored and source order is preserved.
func ParseMarkdown(text string) []string {
	var extracted []string

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "- ") {
			continue
		}

		prompt := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if strings.HasSuffix(prompt, "?") || strings.HasSuffix(prompt, ".") {
			prompt = prompt[:len(prompt)-1]
		}
		prompt = strings.TrimSpace(prompt)
		if prompt == "" {
			continue
		}

		if !strings.HasSuffix(prompt, "?") {
			prompt += "?"
		}
		extracted = append(extracted, prompt)
	}

	return extracted
}

// ReadMarkdownFile reads the named markdown file and returns its prompts.
// The returned error wraps the underlying fs error, so callers can test for
// a missing file with errors.Is(err, fs.ErrNotExist).
func ReadMarkdownFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	return ParseMarkdown(string(data)), nil
}

// ReadLongPrompt reads a whole markdown file as a single prompt Record. This
// is the long-prompt mode of the run command: the file content is sent to
// the agent verbatim, with an assumed baseline since long prompts carry no
// measured latency.
func ReadLongPrompt(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}

	return Record{
		Question:         string(data),
		Baseline:         DefaultLongPromptBaseline,
		ExpectedBehavior: ExpectedLongPromptBehavior,
	}, nil
}
