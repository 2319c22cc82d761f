package prompts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"groundlab/internal/logger"
)

// Loader aggregates prompt sources from a single directory.
type Loader struct {
	Dir string
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// LoadAll merges the default tabular and markdown sources, tabular records
// first. Each source is guarded independently: a failing source logs a
// warning and contributes zero records, so one bad file never hides the
// other source's prompts. LoadAll itself never fails.
func (l *Loader) LoadAll() []Record {
	var all []Record

	tabular, err := ReadCSVFile(filepath.Join(l.Dir, DefaultTabularFile))
	if err != nil {
		logger.Warn("Could not load prompts from CSV", "error", err)
	} else {
		all = append(all, tabular...)
		logger.Info("Loaded prompts from CSV", "count", len(tabular))
	}

	questions, err := ReadMarkdownFile(filepath.Join(l.Dir, DefaultQuestionsFile))
	if err != nil {
		logger.Warn("Could not load prompts from markdown", "error", err)
	} else {
		for _, q := range questions {
			all = append(all, Record{
				Question:         q,
				Baseline:         DefaultMarkdownBaseline,
				ExpectedBehavior: ExpectedSearchBehavior,
			})
		}
		logger.Info("Loaded prompts from markdown", "count", len(questions))
	}

	return all
}

// AvailableMarkdownFiles lists the markdown prompt sets in the loader's
// directory, excluding README.md, sorted by name. A missing directory yields
// an empty list, not an error.
func (l *Loader) AvailableMarkdownFiles() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts directory %s: %w", l.Dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".md") || name == "README.md" {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// LoadAllSets loads every available markdown set, keyed by filename without
// the .md extension. Sets that fail to load are skipped with a warning.
func (l *Loader) LoadAllSets() map[string][]string {
	sets := make(map[string][]string)

	files, err := l.AvailableMarkdownFiles()
	if err != nil {
		logger.Warn("Could not list prompt sets", "error", err)
		return sets
	}

	for _, name := range files {
		promptList, err := ReadMarkdownFile(filepath.Join(l.Dir, name))
		if err != nil {
			logger.Warn("Could not load prompt set", "file", name, "error", err)
			continue
		}
		sets[strings.TrimSuffix(name, ".md")] = promptList
	}

	return sets
}

// SetSummary describes one loaded prompt set.
type SetSummary struct {
	Count   int
	Prompts []string
}

// SetInfo aggregates every loadable prompt set for display.
type SetInfo struct {
	TotalSets    int
	TotalPrompts int
	Sets         map[string]SetSummary
}

// SetInfo loads every set and returns per-set and total counts.
func (l *Loader) SetInfo() SetInfo {
	sets := l.LoadAllSets()

	info := SetInfo{
		TotalSets: len(sets),
		Sets:      make(map[string]SetSummary, len(sets)),
	}
	for name, promptList := range sets {
		info.TotalPrompts += len(promptList)
		info.Sets[name] = SetSummary{Count: len(promptList), Prompts: promptList}
	}
	return info
}
