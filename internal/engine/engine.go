// Package engine simulates a complete competitive match: it drives rounds
// through the round state machine, settles the economy after every round,
// swaps sides at halftime, and accumulates the ordered event log.
//
// Simulation is single-threaded and synchronous. One seeded random source
// is threaded through every call, so a (config, seed) pair always produces
// a byte-identical event sequence. The optional sink receives immutable
// event values only, never live state.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/noueii/nocs-log-generator/internal/economy"
	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/match"
)

// Publisher receives every generated event, in order. Implemented by the
// broadcast sink; nil means no fan-out.
type Publisher interface {
	Publish(e event.Event)
}

// Result is the engine output contract: identifier, terminal status, the
// full ordered event log, per-round summaries, and final scores.
type Result struct {
	ID     string       `json:"id"`
	Status match.Status `json:"status"`
	Error  string       `json:"error,omitempty"`

	Map    string       `json:"map"`
	Format match.Format `json:"format"`

	TeamA *match.Team `json:"teamA"`
	TeamB *match.Team `json:"teamB"`

	Rounds []match.RoundResult `json:"rounds"`
	Events []event.Event       `json:"-"`
}

// Engine simulates one match. Not reusable: create a new Engine per match.
type Engine struct {
	cfg   *match.Config
	log   *slog.Logger
	rng   *Rand
	clock *Clock
	st    *matchState
	sink  Publisher

	events []event.Event
	rounds []match.RoundResult
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSink attaches an event publisher. The engine pushes every event to it
// after the owning round resolves.
func WithSink(p Publisher) Option {
	return func(e *Engine) { e.sink = p }
}

// New validates the configuration and prepares a match. Validation failures
// are returned before anything is simulated.
func New(cfg *match.Config, opts ...Option) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:   cfg,
		rng:   NewRand(cfg.Seed),
		clock: NewClock(cfg.TickRate, cfg.StartTime),
		st:    newMatchState(cfg),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e, nil
}

// Run simulates the match to completion. Cancellation is cooperative and
// round-granular: a canceled context stops the match before the next round,
// never mid-round. On a simulation error the partial event log is retained
// and the result status is error.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		ID:     uuid.Must(uuid.NewV7()).String(),
		Map:    e.cfg.Map,
		Format: e.cfg.Format,
		TeamA:  e.cfg.TeamA,
		TeamB:  e.cfg.TeamB,
	}
	e.log.Info("match starting",
		"id", res.ID, "map", e.cfg.Map, "format", string(e.cfg.Format), "seed", e.cfg.Seed)

	e.preamble()

	half := e.cfg.Format.RoundsPerHalf()
	threshold := e.cfg.Format.WinThreshold()
	regulation := 2 * half

	// Overtime bookkeeping: blocks of 6 rounds (MR3), won by taking 4.
	otBlockStartA, otBlockStartB := 0, 0

	for round := 1; ; round++ {
		if round > e.cfg.RoundCap {
			e.log.Info("round cap reached", "round_cap", e.cfg.RoundCap)
			break
		}
		if err := ctx.Err(); err != nil {
			return e.fail(res, round, fmt.Errorf("canceled before round %d: %w", round, err))
		}

		a, b := e.st.teamA.Score, e.st.teamB.Score
		if round <= regulation+1 {
			if a >= threshold || b >= threshold {
				break
			}
			if round == regulation+1 {
				if a == b && e.cfg.Overtime {
					e.beginOvertimeHalf()
					otBlockStartA, otBlockStartB = a, b
				} else {
					break
				}
			}
		} else {
			otRound := round - regulation - 1
			if a >= otBlockStartA+4 || b >= otBlockStartB+4 {
				break
			}
			if otRound > 0 && otRound%6 == 0 {
				if a-otBlockStartA == 3 && b-otBlockStartB == 3 {
					e.beginOvertimeHalf()
					otBlockStartA, otBlockStartB = a, b
				} else {
					break
				}
			} else if otRound > 0 && otRound%3 == 0 {
				e.halftimeSwitch()
			}
		}

		if round == half+1 {
			e.halftime()
		}

		e.st.round = round
		secondHalf := round > half
		important := e.isImportant(round, half, threshold)

		rm := newRoundMachine(e.cfg, e.rng, e.clock, e.st, secondHalf)
		result, events, err := rm.run(important)
		e.append(events)
		if err != nil {
			return e.fail(res, round, err)
		}

		e.settle(result)
		e.rounds = append(e.rounds, *result)
		e.log.Debug("round resolved",
			"round", round, "winner", string(result.Winner), "reason", string(result.Reason),
			"score_a", e.st.teamA.Score, "score_b", e.st.teamB.Score)

		e.postRoundChatter(round)
		e.clock.Advance(e.rng.FloatBetween(4, 8)) // intermission
	}

	e.farewell()

	res.Status = match.StatusCompleted
	res.Rounds = e.rounds
	res.Events = e.events
	e.log.Info("match completed",
		"id", res.ID, "rounds", len(e.rounds),
		"score_a", e.st.teamA.Score, "score_b", e.st.teamB.Score)
	return res, nil
}

// fail marks the match as errored, keeping whatever events were produced.
func (e *Engine) fail(res *Result, round int, err error) (*Result, error) {
	res.Status = match.StatusError
	res.Error = err.Error()
	res.Rounds = e.rounds
	res.Events = e.events
	e.log.Error("match failed", "id", res.ID, "round", round, "error", err)
	return res, err
}

func (e *Engine) append(events []event.Event) {
	e.events = append(e.events, events...)
	if e.sink != nil {
		for _, ev := range events {
			e.sink.Publish(ev)
		}
	}
}

func (e *Engine) emit(ev event.Event) {
	e.append([]event.Event{ev})
}

func (e *Engine) base() event.Base {
	return event.Base{Tick: e.clock.Tick(), Round: e.st.round, Time: e.clock.Now()}
}

// preamble emits the server-configuration echo plus connect and initial
// team-switch events for all ten players, before round 1.
func (e *Engine) preamble() {
	cvars := [][2]string{
		{"mp_maxrounds", fmt.Sprintf("%d", 2*e.cfg.Format.RoundsPerHalf())},
		{"mp_startmoney", fmt.Sprintf("%d", e.cfg.StartMoney)},
		{"mp_maxmoney", fmt.Sprintf("%d", e.cfg.MaxMoney)},
		{"mp_roundtime", "1.92"},
		{"mp_overtime_enable", boolCvar(e.cfg.Overtime)},
	}
	for _, kv := range cvars {
		e.emit(event.ServerCommand{Base: e.base(), Key: kv[0], Value: kv[1]})
	}

	for _, ps := range e.st.order {
		e.clock.Advance(e.rng.FloatBetween(0.1, 0.8))
		ref := ps.ref()
		unassigned := ref
		unassigned.Side = match.SideUnassigned
		e.emit(event.Connect{
			Base:    e.base(),
			Player:  unassigned,
			Address: fmt.Sprintf("10.0.%d.%d:27005", ps.Player.UserID%256, 20+ps.Player.UserID),
		})
		e.emit(event.TeamSwitch{Base: e.base(), Player: unassigned, From: match.SideUnassigned, To: ps.Team.Side})
	}
	e.clock.Advance(2)
}

// farewell disconnects everyone after the final round.
func (e *Engine) farewell() {
	for _, ps := range e.st.order {
		e.clock.Advance(e.rng.FloatBetween(0.1, 0.5))
		e.emit(event.Disconnect{Base: e.base(), Player: ps.ref(), Reason: "Disconnect"})
	}
}

// halftime swaps sides, emits the team-switch events, and resets both
// economies to pistol-round footing.
func (e *Engine) halftime() {
	e.halftimeSwitch()
	e.st.resetEconomy(e.st.teamA, e.cfg.StartMoney)
	e.st.resetEconomy(e.st.teamB, e.cfg.StartMoney)
	e.log.Debug("halftime", "score_a", e.st.teamA.Score, "score_b", e.st.teamB.Score)
}

// beginOvertimeHalf swaps sides and funds both teams at the overtime money
// level.
func (e *Engine) beginOvertimeHalf() {
	e.halftimeSwitch()
	e.st.resetEconomy(e.st.teamA, match.OvertimeStartMoney)
	e.st.resetEconomy(e.st.teamB, match.OvertimeStartMoney)
	e.log.Debug("overtime half", "score_a", e.st.teamA.Score, "score_b", e.st.teamB.Score)
}

// halftimeSwitch flips every player to the opposite side and records the
// switches in the log.
func (e *Engine) halftimeSwitch() {
	e.clock.Advance(1)
	for _, ps := range e.st.order {
		from := ps.Team.Side
		e.emit(event.TeamSwitch{Base: e.base(), Player: ps.ref(), From: from, To: from.Opposite()})
	}
	e.st.swapSides()
}

// isImportant flags rounds teams treat as must-win for buy purposes: the
// first round of a half, the two rounds right after a half start, and any
// round where either team can close out the match.
func (e *Engine) isImportant(round, half, threshold int) bool {
	if round <= 2 || round == half+1 || round == half+2 {
		return true
	}
	if e.st.teamA.Score == threshold-1 || e.st.teamB.Score == threshold-1 {
		return true
	}
	return false
}

// settle applies the round-end economy: win bonus for the winners, the
// ascending loss bonus for the losers, loss-streak bookkeeping, and the
// money cap.
func (e *Engine) settle(result *match.RoundResult) {
	winTeam, loseTeam := e.st.teamA, e.st.teamB
	if e.st.teamB.Side == result.Winner {
		winTeam, loseTeam = e.st.teamB, e.st.teamA
	}

	winTeam.Economy.LossStreak = 0
	loseTeam.Economy.LossStreak++

	win := economy.WinBonus(result.Reason)
	loss := economy.LossBonus(loseTeam.Economy.LossStreak)

	for _, ps := range e.st.teamPlayers(winTeam) {
		ps.Money = economy.Clamp(ps.Money+win, e.cfg.MaxMoney)
	}
	for _, ps := range e.st.teamPlayers(loseTeam) {
		ps.Money = economy.Clamp(ps.Money+loss, e.cfg.MaxMoney)
	}

	e.st.refreshEconomy(winTeam)
	e.st.refreshEconomy(loseTeam)
}

// postRoundChatter occasionally emits an all-chat line after a round. Drawn
// from the seeded source, so it is as deterministic as everything else.
func (e *Engine) postRoundChatter(round int) {
	if !e.rng.Chance(chatterChance) {
		return
	}
	e.clock.Advance(e.rng.FloatBetween(1, 3))
	ps := e.st.order[e.rng.Between(0, len(e.st.order)-1)]
	e.emit(event.Chat{
		Base:   event.Base{Tick: e.clock.Tick(), Round: round, Time: e.clock.Now()},
		Player: ps.ref(),
		Text:   chatterLines[e.rng.Between(0, len(chatterLines)-1)],
	})
}

func boolCvar(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
