package engine

import (
	"github.com/noueii/nocs-log-generator/internal/economy"
	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/match"
)

// PlayerState is the ephemeral per-round state of one player. The engine
// owns all of it; nothing outside the engine ever sees a live pointer.
type PlayerState struct {
	Player *match.Player
	Team   *match.Team

	Alive  bool
	Health int
	Armor  int
	Helmet bool

	Primary   string
	Secondary string
	Grenades  []string
	DefuseKit bool

	Money int

	Flashed  bool
	Smoked   bool
	Planting bool
	Defusing bool
}

// resetForRound clears round-local status flags and restores health. The
// loadout survives between rounds; dead players respawn with their side's
// default sidearm only.
func (ps *PlayerState) resetForRound() {
	if !ps.Alive {
		ps.Primary = ""
		ps.Secondary = economy.DefaultPistol(ps.Team.Side)
		ps.Grenades = nil
		ps.Armor = 0
		ps.Helmet = false
		ps.DefuseKit = false
	}
	ps.Alive = true
	ps.Health = 100
	ps.Flashed = false
	ps.Smoked = false
	ps.Planting = false
	ps.Defusing = false
}

// Weapon returns the weapon the player fights with: primary, else
// secondary, else the side-default sidearm.
func (ps *PlayerState) Weapon() string {
	if ps.Primary != "" {
		return ps.Primary
	}
	if ps.Secondary != "" {
		return ps.Secondary
	}
	return economy.DefaultPistol(ps.Team.Side)
}

// EquipmentValue sums the fixed valuations of everything the player
// carries. The two armor tiers have distinct fixed valuations.
func (ps *PlayerState) EquipmentValue() int {
	v := 0
	if ps.Primary != "" {
		v += economy.Price(ps.Primary)
	}
	if ps.Secondary != "" {
		v += economy.Price(ps.Secondary)
	}
	for _, g := range ps.Grenades {
		v += economy.Price(g)
	}
	if ps.Armor > 0 {
		if ps.Helmet {
			v += economy.ArmorHelmValue
		} else {
			v += economy.ArmorValue
		}
	}
	if ps.DefuseKit {
		v += economy.Price(economy.ItemDefuseKit)
	}
	return v
}

// takeGrenade removes and returns one grenade of the given name, or "" if
// the player carries none.
func (ps *PlayerState) takeGrenade(name string) string {
	for i, g := range ps.Grenades {
		if g == name {
			ps.Grenades = append(ps.Grenades[:i], ps.Grenades[i+1:]...)
			return g
		}
	}
	return ""
}

// ref builds the point-in-time player reference events carry.
func (ps *PlayerState) ref() event.PlayerRef {
	return event.PlayerRef{
		Name:    ps.Player.Name,
		UserID:  ps.Player.UserID,
		SteamID: ps.Player.SteamID,
		Side:    ps.Team.Side,
	}
}

// matchState is the engine's mutable view of the match. Created at match
// start, mutated every round, discarded at completion. Never shared across
// goroutines.
type matchState struct {
	round   int
	teamA   *match.Team
	teamB   *match.Team
	players map[string]*PlayerState // keyed by SteamID
	// order preserves roster iteration order for determinism; map
	// iteration order would leak randomness into the simulation.
	order []*PlayerState
}

func newMatchState(cfg *match.Config) *matchState {
	st := &matchState{
		teamA:   cfg.TeamA,
		teamB:   cfg.TeamB,
		players: make(map[string]*PlayerState),
	}
	cfg.TeamA.Side = match.SideCT
	cfg.TeamB.Side = match.SideT
	for _, team := range []*match.Team{cfg.TeamA, cfg.TeamB} {
		for _, p := range team.Players {
			ps := &PlayerState{Player: p, Team: team, Money: cfg.StartMoney}
			st.players[p.SteamID] = ps
			st.order = append(st.order, ps)
		}
	}
	return st
}

// teamBySide resolves the team currently playing the given side.
func (st *matchState) teamBySide(side match.Side) (*match.Team, error) {
	switch side {
	case st.teamA.Side:
		return st.teamA, nil
	case st.teamB.Side:
		return st.teamB, nil
	default:
		return nil, simErr(ErrCodeUnknownTeam, st.round, "no team on side %q", side)
	}
}

// sidePlayers returns the players of one side in roster order.
func (st *matchState) sidePlayers(side match.Side) []*PlayerState {
	var out []*PlayerState
	for _, ps := range st.order {
		if ps.Team.Side == side {
			out = append(out, ps)
		}
	}
	return out
}

// livePlayers returns the living players of one side in roster order.
func (st *matchState) livePlayers(side match.Side) []*PlayerState {
	var out []*PlayerState
	for _, ps := range st.sidePlayers(side) {
		if ps.Alive {
			out = append(out, ps)
		}
	}
	return out
}

// teamPlayers returns a team's player states in roster order.
func (st *matchState) teamPlayers(t *match.Team) []*PlayerState {
	var out []*PlayerState
	for _, ps := range st.order {
		if ps.Team == t {
			out = append(out, ps)
		}
	}
	return out
}

// refreshEconomy recomputes a team's aggregate economy snapshot from its
// players' money and equipment.
func (st *matchState) refreshEconomy(t *match.Team) {
	players := st.teamPlayers(t)
	moneys := make([]int, 0, len(players))
	equip := make([]int, 0, len(players))
	for _, ps := range players {
		moneys = append(moneys, ps.Money)
		equip = append(equip, ps.EquipmentValue())
	}
	t.Economy = economy.Snapshot(moneys, equip, t.Economy.LossStreak)
}

// swapSides switches the teams' sides at halftime.
func (st *matchState) swapSides() {
	st.teamA.Side, st.teamB.Side = st.teamB.Side, st.teamA.Side
}

// resetEconomy puts every player of a team back on pistol-round footing
// with the given start money and clears the loss streak.
func (st *matchState) resetEconomy(t *match.Team, startMoney int) {
	t.Economy.LossStreak = 0
	for _, ps := range st.teamPlayers(t) {
		ps.Money = startMoney
		ps.Primary = ""
		ps.Secondary = ""
		ps.Grenades = nil
		ps.Armor = 0
		ps.Helmet = false
		ps.DefuseKit = false
		ps.Alive = false // force full loadout reset on the next resetForRound
	}
	st.refreshEconomy(t)
}
