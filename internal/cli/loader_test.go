package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noueii/nocs-log-generator/internal/match"
)

const sampleConfigYAML = `team_a:
  name: Alpha
  players:
    - name: alpha_one
      role: awper
      skill:
        aim: 0.8
        headshot_bias: 0.6
    - name: alpha_two
    - name: alpha_three
    - name: alpha_four
    - name: alpha_five
team_b:
  name: Bravo
  players:
    - name: bravo_one
    - name: bravo_two
    - name: bravo_three
    - name: bravo_four
    - name: bravo_five
map: de_inferno
format: mr12
seed: 12345
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "Alpha", cfg.TeamA.Name)
	assert.Equal(t, "Bravo", cfg.TeamB.Name)
	assert.Len(t, cfg.TeamA.Players, 5)
	assert.Equal(t, match.RoleAWPer, cfg.TeamA.Players[0].Role)
	assert.Equal(t, 0.8, cfg.TeamA.Players[0].Skill.Aim)
	assert.Equal(t, "de_inferno", cfg.Map)
	assert.Equal(t, match.FormatMR12, cfg.Format)
	assert.Equal(t, int64(12345), cfg.Seed)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "team_a: [unclosed"))
	require.Error(t, err)
}
