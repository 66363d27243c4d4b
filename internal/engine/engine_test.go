package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/format"
	"github.com/noueii/nocs-log-generator/internal/match"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRoster(name string, firstUserID int) *match.Team {
	roles := []match.Role{match.RoleEntry, match.RoleAWPer, match.RoleSupport, match.RoleIGL, match.RoleLurker}
	t := &match.Team{Name: name}
	for i := 0; i < match.RosterSize; i++ {
		t.Players = append(t.Players, &match.Player{
			Name:    fmt.Sprintf("%s_%d", name, i),
			UserID:  firstUserID + i,
			SteamID: fmt.Sprintf("STEAM_1:%d:%d", i%2, firstUserID*100+i),
			Role:    roles[i],
			Skill:   match.Skill{Aim: 0.4 + 0.1*float64(i%3), HeadshotBias: 0.5},
		})
	}
	return t
}

func testConfig(seed int64) *match.Config {
	return &match.Config{
		TeamA:  testRoster("Alpha", 2),
		TeamB:  testRoster("Bravo", 12),
		Map:    "de_mirage",
		Format: match.FormatMR12,
		Seed:   seed,
	}
}

func runMatch(t *testing.T, seed int64) *Result {
	t.Helper()
	eng, err := New(testConfig(seed), WithLogger(quietLogger()))
	require.NoError(t, err)
	res, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, match.StatusCompleted, res.Status)
	return res
}

func renderLog(t *testing.T, res *Result) string {
	t.Helper()
	f := format.NewStrictFormatter()
	text, err := f.RenderLog(format.Header{FileName: "test.log", Start: match.DefaultStartTime}, res.Events)
	require.NoError(t, err)
	return text
}

func TestEngine_Deterministic(t *testing.T) {
	res1 := runMatch(t, 12345)
	res2 := runMatch(t, 12345)

	require.Equal(t, len(res1.Rounds), len(res2.Rounds), "round counts must match")
	assert.Equal(t, res1.TeamA.Score, res2.TeamA.Score)
	assert.Equal(t, res1.TeamB.Score, res2.TeamB.Score)

	log1 := renderLog(t, res1)
	log2 := renderLog(t, res2)
	require.Equal(t, log1, log2, "event logs must be byte-identical")
	assert.Equal(t, format.Digest(log1), format.Digest(log2))
}

func TestEngine_SeedChangesOutcome(t *testing.T) {
	log1 := renderLog(t, runMatch(t, 1))
	log2 := renderLog(t, runMatch(t, 2))
	assert.NotEqual(t, format.Digest(log1), format.Digest(log2))
}

func TestEngine_EventOrdering(t *testing.T) {
	res := runMatch(t, 42)
	require.NotEmpty(t, res.Events)

	lastRound := -1
	var lastTick int64
	for i, e := range res.Events {
		b := e.EventBase()
		require.GreaterOrEqual(t, b.Round, lastRound, "event %d: round regressed", i)
		if b.Round > lastRound {
			lastRound = b.Round
			lastTick = 0
		}
		require.GreaterOrEqual(t, b.Tick, lastTick, "event %d: tick regressed within round %d", i, b.Round)
		lastTick = b.Tick
	}
}

func TestEngine_ScoreInvariant(t *testing.T) {
	res := runMatch(t, 7)

	scores := map[match.Side]int{}
	for i, r := range res.Rounds {
		require.Contains(t, []match.Side{match.SideCT, match.SideT}, r.Winner, "round %d", i+1)
		require.Contains(t, []match.WinReason{
			match.ReasonElimination, match.ReasonBombExploded,
			match.ReasonBombDefused, match.ReasonTimeExpired,
		}, r.Reason, "round %d", i+1)
		scores[r.Winner]++
	}
	assert.Equal(t, len(res.Rounds), scores[match.SideCT]+scores[match.SideT],
		"exactly one side scores each round")
}

func TestEngine_CompletesAtThreshold(t *testing.T) {
	res := runMatch(t, 99)
	threshold := match.FormatMR12.WinThreshold()

	hi, lo := res.TeamA.Score, res.TeamB.Score
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == lo {
		// Overtime is off, so a regulation draw is a legitimate terminal state.
		assert.Equal(t, match.FormatMR12.RoundsPerHalf(), hi)
	} else {
		assert.Equal(t, threshold, hi, "winner stops exactly at the threshold")
		assert.Less(t, lo, threshold)
	}
	assert.Equal(t, hi+lo, len(res.Rounds))
}

func TestEngine_MoneyCapInvariant(t *testing.T) {
	cfg := testConfig(2024)
	eng, err := New(cfg, WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = eng.Run(context.Background())
	require.NoError(t, err)

	for _, ps := range eng.st.order {
		assert.LessOrEqual(t, ps.Money, cfg.MaxMoney, "player %s over the cap", ps.Player.Name)
		assert.GreaterOrEqual(t, ps.Money, 0)
	}
	for _, team := range []*match.Team{cfg.TeamA, cfg.TeamB} {
		total := 0
		for _, ps := range eng.st.teamPlayers(team) {
			total += ps.Money
		}
		assert.Equal(t, total/match.RosterSize, team.Economy.AverageMoney, "team %s", team.Name)
	}
}

func TestEngine_LossStreakBookkeeping(t *testing.T) {
	cfg := testConfig(5)
	eng, err := New(cfg, WithLogger(quietLogger()))
	require.NoError(t, err)
	eng.st.round = 1

	winner := cfg.TeamA.Side
	for i := 1; i <= 6; i++ {
		eng.settle(&match.RoundResult{Round: i, Winner: winner, Reason: match.ReasonElimination})
		assert.Equal(t, 0, cfg.TeamA.Economy.LossStreak)
		assert.Equal(t, i, cfg.TeamB.Economy.LossStreak, "streak grows on consecutive losses")
	}

	// One win resets the streak immediately.
	eng.settle(&match.RoundResult{Round: 7, Winner: cfg.TeamB.Side, Reason: match.ReasonElimination})
	assert.Equal(t, 0, cfg.TeamB.Economy.LossStreak)
	assert.Equal(t, 1, cfg.TeamA.Economy.LossStreak)
}

func TestEngine_StatsAccumulate(t *testing.T) {
	res := runMatch(t, 314)

	kills, deaths := 0, 0
	for _, team := range []*match.Team{res.TeamA, res.TeamB} {
		for _, p := range team.Players {
			kills += p.Stats.Kills
			deaths += p.Stats.Deaths
		}
	}
	assert.Equal(t, kills, deaths, "every kill has a death")
	assert.Greater(t, kills, 0)

	killEvents := 0
	for _, e := range res.Events {
		if e.Kind() == event.KindKill {
			killEvents++
		}
	}
	assert.Equal(t, kills, killEvents)
}

func TestEngine_MVPPerRound(t *testing.T) {
	res := runMatch(t, 11)
	for i, r := range res.Rounds {
		assert.NotEmpty(t, r.MVPName, "round %d has an MVP", i+1)
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng, err := New(testConfig(1), WithLogger(quietLogger()))
	require.NoError(t, err)
	res, err := eng.Run(ctx)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, match.StatusError, res.Status)
	assert.Empty(t, res.Rounds, "cancellation stops before the next round")
	assert.NotEmpty(t, res.Error)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(1)
	cfg.Map = "de_unknown"
	_, err := New(cfg, WithLogger(quietLogger()))
	require.Error(t, err)
	var verr *match.ValidationError
	assert.ErrorAs(t, err, &verr)
}

type captureSink struct {
	events []event.Event
}

func (c *captureSink) Publish(e event.Event) {
	c.events = append(c.events, e)
}

func TestEngine_SinkReceivesAllEvents(t *testing.T) {
	sink := &captureSink{}
	eng, err := New(testConfig(8), WithLogger(quietLogger()), WithSink(sink))
	require.NoError(t, err)
	res, err := eng.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(res.Events), len(sink.events))
}

func TestEngine_VerboseAddsWeaponFire(t *testing.T) {
	cfg := testConfig(3)
	cfg.Verbose = true
	eng, err := New(cfg, WithLogger(quietLogger()))
	require.NoError(t, err)
	res, err := eng.Run(context.Background())
	require.NoError(t, err)

	fires := 0
	for _, e := range res.Events {
		if e.Kind() == event.KindWeaponFire {
			fires++
		}
	}
	rounds := len(res.Rounds)
	assert.GreaterOrEqual(t, fires, verboseFireMin*rounds)
	assert.LessOrEqual(t, fires, verboseFireMax*rounds)

	quiet, err := New(testConfig(3), WithLogger(quietLogger()))
	require.NoError(t, err)
	qres, err := quiet.Run(context.Background())
	require.NoError(t, err)
	for _, e := range qres.Events {
		assert.NotEqual(t, event.KindWeaponFire, e.Kind(), "no fire events without verbose")
	}
}
