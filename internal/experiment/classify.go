// Package experiment runs grounding trials against a prepared agent and
// aggregates their results.
package experiment

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"groundlab/internal/data/embedded"
)

// Signal is one detectable limitation pattern in an agent response. A signal
// fires when every AllOf term and, if any are listed, at least one AnyOf
// term appear in the response.
type Signal struct {
	Flag  string   `yaml:"flag"`
	AllOf []string `yaml:"all_of"`
	AnyOf []string `yaml:"any_of"`
}

type signalCatalog struct {
	Signals []Signal `yaml:"signals"`
}

// signals is the compiled-in catalog. Loading it can only fail on a
// malformed embedded file, which is a build defect, so init panics.
var signals = mustLoadSignals(embedded.SignalCatalogData)

func mustLoadSignals(data []byte) []Signal {
	catalog, err := loadSignals(data)
	if err != nil {
		panic(err)
	}
	return catalog
}

func loadSignals(data []byte) ([]Signal, error) {
	var catalog signalCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse signal catalog: %w", err)
	}
	return catalog.Signals, nil
}

// Classify scans a response for limitation signals and returns the flag of
// every signal that fires, in catalog order. Matching is case-insensitive.
// A response with no signals returns nil.
func Classify(response string) []string {
	lower := strings.ToLower(response)

	var flags []string
	for _, signal := range signals {
		if signal.matches(lower) {
			flags = append(flags, signal.Flag)
		}
	}
	return flags
}

func (s Signal) matches(lowerResponse string) bool {
	for _, term := range s.AllOf {
		if !strings.Contains(lowerResponse, strings.ToLower(term)) {
			return false
		}
	}
	if len(s.AnyOf) == 0 {
		return true
	}
	for _, term := range s.AnyOf {
		if strings.Contains(lowerResponse, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
