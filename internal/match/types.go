package match

import (
	"time"
)

// Side is one of the two opposing factions a team occupies for a round.
// Teams swap sides at halftime; team identity (the name) never changes.
type Side string

const (
	SideCT         Side = "CT"
	SideT          Side = "TERRORIST"
	SideUnassigned Side = "Unassigned"
)

// Opposite returns the other playing side.
// Unassigned maps to itself.
func (s Side) Opposite() Side {
	switch s {
	case SideCT:
		return SideT
	case SideT:
		return SideCT
	default:
		return s
	}
}

// Role tags a player with their nominal job on the team. Roles do not gate
// behavior during simulation; they only bias weapon preference (an AWPer is
// offered the sniper first when affordable).
type Role string

const (
	RoleEntry   Role = "entry"
	RoleAWPer   Role = "awper"
	RoleSupport Role = "support"
	RoleIGL     Role = "igl"
	RoleLurker  Role = "lurker"
)

// Skill holds per-player aim parameters consumed by the combat generator.
// All values are in [0, 1]; zero values are replaced with defaults during
// config normalization.
type Skill struct {
	// Aim biases engagement win probability toward this player.
	Aim float64 `yaml:"aim" json:"aim"`
	// HeadshotBias scales the headshot probability range (0.08 - 0.25).
	HeadshotBias float64 `yaml:"headshot_bias" json:"headshotBias"`
}

// Stats accumulates a player's match totals. Mutated only by the engine.
type Stats struct {
	Kills        int `json:"kills"`
	Deaths       int `json:"deaths"`
	Damage       int `json:"damage"`
	Headshots    int `json:"headshots"`
	FlashAssists int `json:"flashAssists"`
	Plants       int `json:"plants"`
	Defuses      int `json:"defuses"`
	MVPs         int `json:"mvps"`
}

// Player is a roster entry. Identity (Name, SteamID, UserID) is stable for
// the whole match; a player belongs to exactly one team.
type Player struct {
	Name    string `yaml:"name" json:"name"`
	SteamID string `yaml:"steam_id" json:"steamId"`
	UserID  int    `yaml:"user_id" json:"userId"`
	Role    Role   `yaml:"role" json:"role"`
	Skill   Skill  `yaml:"skill" json:"skill"`

	Stats Stats `yaml:"-" json:"stats"`
}

// Team is a named roster plus its running match state. Side is mutable
// (swapped at halftime); everything else identifying the team is fixed.
type Team struct {
	Name    string    `yaml:"name" json:"name"`
	Side    Side      `yaml:"-" json:"side"`
	Players []*Player `yaml:"players" json:"players"`

	Score   int     `yaml:"-" json:"score"`
	Economy Economy `yaml:"-" json:"economy"`
}

// Economy is a team's aggregate money snapshot, recomputed after every buy
// phase and every settlement. AverageMoney is always Money divided by the
// roster size.
type Economy struct {
	Money          int `json:"money"`
	AverageMoney   int `json:"averageMoney"`
	EquipmentValue int `json:"equipmentValue"`
	LossStreak     int `json:"lossStreak"`
	LossBonus      int `json:"lossBonus"`
}

// WinReason is the fixed set of ways a round can end.
type WinReason string

const (
	ReasonElimination  WinReason = "elimination"
	ReasonBombExploded WinReason = "bomb_exploded"
	ReasonBombDefused  WinReason = "bomb_defused"
	ReasonTimeExpired  WinReason = "time_expired"
)

// TriggerToken maps a (winning side, reason) pair to the canonical log token.
func TriggerToken(side Side, reason WinReason) string {
	switch reason {
	case ReasonBombExploded:
		return "Target_Bombed"
	case ReasonBombDefused:
		return "Bomb_Defused"
	case ReasonTimeExpired, ReasonElimination:
		if side == SideT {
			return "Terrorists_Win"
		}
		return "CTs_Win"
	default:
		return "CTs_Win"
	}
}

// RoundResult records the outcome of one round. Produced exactly once per
// round by the round state machine and retained in the match history.
type RoundResult struct {
	Round    int           `json:"round"`
	Winner   Side          `json:"winner"`
	Reason   WinReason     `json:"reason"`
	Duration time.Duration `json:"duration"`
	MVP      *Player       `json:"-"`
	MVPName  string        `json:"mvp,omitempty"`
}

// Status is the terminal state of a match run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)
