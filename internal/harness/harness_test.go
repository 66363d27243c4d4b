package harness

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noueii/nocs-log-generator/internal/format"
	"github.com/noueii/nocs-log-generator/internal/match"
)

func loadAll(t *testing.T) []*Scenario {
	t.Helper()
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)
	return scenarios
}

func TestScenarios_Deterministic(t *testing.T) {
	for _, s := range loadAll(t) {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			first, err := Run(s)
			require.NoError(t, err)
			second, err := Run(s)
			require.NoError(t, err)

			assert.Equal(t, first.Digest, second.Digest, "same scenario, same digest")
			assert.Equal(t, first.LogText, second.LogText)
		})
	}
}

func TestScenarios_LogLinesValid(t *testing.T) {
	for _, s := range loadAll(t) {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			res, err := Run(s)
			require.NoError(t, err)

			sc := bufio.NewScanner(strings.NewReader(res.LogText))
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			n := 0
			for sc.Scan() {
				n++
				require.NoError(t, format.ValidateLine(sc.Text()), sc.Text())
			}
			require.NoError(t, sc.Err())
			assert.Greater(t, n, 50, "a full match produces a substantial log")
		})
	}
}

func TestScenarios_MatchShape(t *testing.T) {
	for _, s := range loadAll(t) {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			res, err := Run(s)
			require.NoError(t, err)
			r := res.Result

			assert.Equal(t, match.StatusCompleted, r.Status)
			assert.Equal(t, r.TeamA.Score+r.TeamB.Score, len(r.Rounds))
			assert.NotEmpty(t, r.ID)

			hi := r.TeamA.Score
			if r.TeamB.Score > hi {
				hi = r.TeamB.Score
			}
			assert.GreaterOrEqual(t, hi, r.Format.RoundsPerHalf(),
				"a finished match reaches at least a regulation half of wins")
		})
	}
}

func TestScenario_SkillGapFavorsStrongerSide(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/skill_gap.yaml")
	require.NoError(t, err)

	res, err := Run(s)
	require.NoError(t, err)
	assert.Greater(t, res.Result.TeamA.Score, res.Result.TeamB.Score,
		"the far stronger roster wins the match")
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/does_not_exist.yaml")
	require.Error(t, err)
}

func TestScenario_ConfigFreshPerRun(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/mr12_baseline.yaml")
	require.NoError(t, err)

	cfg1, err := s.Config()
	require.NoError(t, err)
	cfg2, err := s.Config()
	require.NoError(t, err)

	cfg1.TeamA.Score = 99
	assert.Zero(t, cfg2.TeamA.Score, "each decode yields an independent config")
}
