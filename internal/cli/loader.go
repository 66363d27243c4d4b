package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noueii/nocs-log-generator/internal/match"
)

// LoadConfig reads a match configuration from a YAML file. Defaults are
// applied; validation is left to the engine so the caller sees the same
// error a programmatic user would.
func LoadConfig(path string) (*match.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg match.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
