// Package harness runs conformance scenarios: YAML-defined match
// configurations executed end to end, with the serialized log checked
// against invariants and golden files.
package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/noueii/nocs-log-generator/internal/match"
)

// Scenario defines one conformance scenario. The match config is kept as
// raw YAML so every Run unmarshals a fresh, unmutated copy; the engine
// mutates its config's teams in place.
type Scenario struct {
	// Name uniquely identifies this scenario; it doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Match holds the raw match configuration node.
	Match yaml.Node `yaml:"match"`
}

// Config unmarshals a fresh match configuration for one run.
func (s *Scenario) Config() (*match.Config, error) {
	var cfg match.Config
	if err := s.Match.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("scenario %q: decode match config: %w", s.Name, err)
	}
	return &cfg, nil
}

// LoadScenario reads one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	return &s, nil
}

// LoadScenarios reads every *.yaml scenario under dir, sorted by file name
// for stable test ordering.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
