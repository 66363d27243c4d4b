// Package event defines the closed set of game events a simulated match can
// produce. Each kind is a concrete struct carrying only the fields relevant
// to it; formatting and metadata extraction dispatch exhaustively on Kind in
// the format package rather than through per-kind methods.
//
// Events are immutable once created. Ordering is by (round, tick) with ties
// broken by insertion order; SortStable enforces exactly that.
package event

import (
	"sort"
	"time"

	"github.com/noueii/nocs-log-generator/internal/match"
)

// Kind discriminates the event variants.
type Kind string

const (
	KindRoundStart        Kind = "round_start"
	KindRoundEnd          Kind = "round_end"
	KindKill              Kind = "kill"
	KindDamage            Kind = "damage"
	KindBombPlant         Kind = "bomb_plant"
	KindBombDefuse        Kind = "bomb_defuse"
	KindBombExplode       Kind = "bomb_explode"
	KindPurchase          Kind = "purchase"
	KindGrenadeThrow      Kind = "grenade_throw"
	KindFlashbangDetonate Kind = "flashbang_detonate"
	KindWeaponFire        Kind = "weapon_fire"
	KindChat              Kind = "chat"
	KindConnect           Kind = "connect"
	KindDisconnect        Kind = "disconnect"
	KindTeamSwitch        Kind = "team_switch"
	KindServerCommand     Kind = "server_command"
)

// Kinds lists every variant, in a fixed order. Used by validation and by
// broadcast filters.
var Kinds = []Kind{
	KindRoundStart, KindRoundEnd, KindKill, KindDamage, KindBombPlant,
	KindBombDefuse, KindBombExplode, KindPurchase, KindGrenadeThrow,
	KindFlashbangDetonate, KindWeaponFire, KindChat, KindConnect,
	KindDisconnect, KindTeamSwitch, KindServerCommand,
}

// PlayerRef is a point-in-time reference to a player: identity plus the side
// they were on when the event happened. Refs are value copies; they never
// alias live engine state.
type PlayerRef struct {
	Name    string     `json:"name"`
	UserID  int        `json:"userId"`
	SteamID string     `json:"steamId"`
	Side    match.Side `json:"side"`
}

// Base carries the fields every event has: a logical tick within the round,
// the round number, and the derived wall-clock time.
type Base struct {
	Tick  int64     `json:"tick"`
	Round int       `json:"round"`
	Time  time.Time `json:"time"`
}

// Event is the closed variant interface. Only types in this package
// implement it.
type Event interface {
	Kind() Kind
	EventBase() Base
	isEvent()
}

func (b Base) EventBase() Base { return b }
func (Base) isEvent()          {}

// RoundStart announces a new round together with the score snapshot the
// canonical format echoes per side.
type RoundStart struct {
	Base
	CTScore   int `json:"ctScore"`
	TScore    int `json:"tScore"`
	CTPlayers int `json:"ctPlayers"`
	TPlayers  int `json:"tPlayers"`
}

func (RoundStart) Kind() Kind { return KindRoundStart }

// RoundEnd records the round outcome. MVP is optional.
type RoundEnd struct {
	Base
	Winner  match.Side      `json:"winner"`
	Reason  match.WinReason `json:"reason"`
	CTScore int             `json:"ctScore"`
	TScore  int             `json:"tScore"`
	MVP     *PlayerRef      `json:"mvp,omitempty"`
}

func (RoundEnd) Kind() Kind { return KindRoundEnd }

// Kill is a lethal engagement outcome. Modifier flags render in a fixed
// order: headshot, penetrated, attackerblind, noscope.
type Kill struct {
	Base
	Attacker      PlayerRef `json:"attacker"`
	Victim        PlayerRef `json:"victim"`
	Weapon        string    `json:"weapon"`
	Headshot      bool      `json:"headshot"`
	Penetrated    int       `json:"penetrated,omitempty"`
	AttackerBlind bool      `json:"attackerBlind,omitempty"`
	NoScope       bool      `json:"noScope,omitempty"`
}

func (Kill) Kind() Kind { return KindKill }

// Damage is a non-lethal hit. Health and Armor are the victim's remaining
// values after the hit.
type Damage struct {
	Base
	Attacker    PlayerRef `json:"attacker"`
	Victim      PlayerRef `json:"victim"`
	Weapon      string    `json:"weapon"`
	Damage      int       `json:"damage"`
	ArmorDamage int       `json:"armorDamage"`
	Health      int       `json:"health"`
	Armor       int       `json:"armor"`
	Hitgroup    string    `json:"hitgroup"`
}

func (Damage) Kind() Kind { return KindDamage }

// BombPlant marks a successful plant; the fuse starts at this tick.
type BombPlant struct {
	Base
	Player PlayerRef `json:"player"`
	Site   string    `json:"site"`
}

func (BombPlant) Kind() Kind { return KindBombPlant }

// BombDefuse covers both the defuse attempt (Begin true) and the successful
// defuse (Begin false).
type BombDefuse struct {
	Base
	Player  PlayerRef `json:"player"`
	WithKit bool      `json:"withKit"`
	Begin   bool      `json:"begin"`
}

func (BombDefuse) Kind() Kind { return KindBombDefuse }

// BombExplode is the fuse elapsing. It has no acting player.
type BombExplode struct {
	Base
}

func (BombExplode) Kind() Kind { return KindBombExplode }

// Purchase is a successful buy-phase acquisition. Rejected purchases emit no
// event.
type Purchase struct {
	Base
	Player PlayerRef `json:"player"`
	Item   string    `json:"item"`
	Cost   int       `json:"cost"`
}

func (Purchase) Kind() Kind { return KindPurchase }

// GrenadeThrow removes the grenade from the thrower's loadout.
type GrenadeThrow struct {
	Base
	Player  PlayerRef `json:"player"`
	Grenade string    `json:"grenade"`
}

func (GrenadeThrow) Kind() Kind { return KindGrenadeThrow }

// FlashbangDetonate blinds one victim. A throw that blinds several players
// produces one event per victim.
type FlashbangDetonate struct {
	Base
	Thrower  PlayerRef `json:"thrower"`
	Victim   PlayerRef `json:"victim"`
	Duration float64   `json:"duration"`
}

func (FlashbangDetonate) Kind() Kind { return KindFlashbangDetonate }

// WeaponFire is cosmetic. Emitted only under verbose logging; it has no
// gameplay effect.
type WeaponFire struct {
	Base
	Player PlayerRef `json:"player"`
	Weapon string    `json:"weapon"`
}

func (WeaponFire) Kind() Kind { return KindWeaponFire }

// Chat is player chatter, all-chat or team-only.
type Chat struct {
	Base
	Player   PlayerRef `json:"player"`
	Text     string    `json:"text"`
	TeamOnly bool      `json:"teamOnly"`
}

func (Chat) Kind() Kind { return KindChat }

// Connect is a player joining the server.
type Connect struct {
	Base
	Player  PlayerRef `json:"player"`
	Address string    `json:"address"`
}

func (Connect) Kind() Kind { return KindConnect }

// Disconnect is a player leaving the server.
type Disconnect struct {
	Base
	Player PlayerRef `json:"player"`
	Reason string    `json:"reason"`
}

func (Disconnect) Kind() Kind { return KindDisconnect }

// TeamSwitch moves a player between sides, including the initial assignment
// from Unassigned and the halftime swap.
type TeamSwitch struct {
	Base
	Player PlayerRef  `json:"player"`
	From   match.Side `json:"from"`
	To     match.Side `json:"to"`
}

func (TeamSwitch) Kind() Kind { return KindTeamSwitch }

// ServerCommand echoes a server configuration value.
type ServerCommand struct {
	Base
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (ServerCommand) Kind() Kind { return KindServerCommand }

// SortStable orders events ascending by (round, tick), preserving insertion
// order for equal keys. The generator already emits sorted output; this is
// the invariant-enforcing form used after merging event sources.
func SortStable(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		bi, bj := events[i].EventBase(), events[j].EventBase()
		if bi.Round != bj.Round {
			return bi.Round < bj.Round
		}
		return bi.Tick < bj.Tick
	})
}
