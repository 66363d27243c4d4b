package format

import (
	"encoding/json"
	"time"

	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/match"
)

// Record is the structured envelope for one event: everything a consumer
// needs to filter without re-parsing text, plus the rendered canonical line
// and the raw typed payload.
type Record struct {
	Timestamp time.Time   `json:"timestamp"`
	Kind      event.Kind  `json:"kind"`
	Tick      int64       `json:"tick"`
	Round     int         `json:"round"`
	Line      string      `json:"line"`
	Payload   event.Event `json:"payload"`
	Meta      Meta        `json:"meta"`
}

// Meta is derived, denormalized metadata for filtering.
type Meta struct {
	Players     []string `json:"players,omitempty"`
	Teams       []string `json:"teams,omitempty"`
	Weapon      string   `json:"weapon,omitempty"`
	Hitgroup    string   `json:"hitgroup,omitempty"`
	IsKill      bool     `json:"isKill"`
	IsObjective bool     `json:"isObjective"`
	Damage      int      `json:"damage,omitempty"`
}

// Record builds the structured envelope for an event. The Line field is the
// formatter's primary canonical line for the event, so re-deriving it always
// matches the text output.
func (f *Formatter) Record(e event.Event) (*Record, error) {
	line, err := f.Line(e)
	if err != nil {
		return nil, err
	}
	base := e.EventBase()
	return &Record{
		Timestamp: base.Time,
		Kind:      e.Kind(),
		Tick:      base.Tick,
		Round:     base.Round,
		Line:      line,
		Payload:   e,
		Meta:      metaFor(e),
	}, nil
}

// JSON marshals the record envelope.
func (r *Record) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// metaFor extracts involved players, sides, and flags with one exhaustive
// dispatch over the closed event set.
func metaFor(e event.Event) Meta {
	switch ev := e.(type) {
	case event.RoundStart, event.BombExplode, event.ServerCommand:
		return Meta{}
	case event.RoundEnd:
		m := Meta{IsObjective: ev.Reason == match.ReasonBombExploded || ev.Reason == match.ReasonBombDefused}
		if ev.MVP != nil {
			m.Players = []string{ev.MVP.Name}
			m.Teams = []string{string(ev.MVP.Side)}
		}
		return m
	case event.Kill:
		return Meta{
			Players:  []string{ev.Attacker.Name, ev.Victim.Name},
			Teams:    []string{string(ev.Attacker.Side), string(ev.Victim.Side)},
			Weapon:   ev.Weapon,
			Hitgroup: hitgroupForKill(ev),
			IsKill:   true,
		}
	case event.Damage:
		return Meta{
			Players:  []string{ev.Attacker.Name, ev.Victim.Name},
			Teams:    []string{string(ev.Attacker.Side), string(ev.Victim.Side)},
			Weapon:   ev.Weapon,
			Hitgroup: ev.Hitgroup,
			Damage:   ev.Damage,
		}
	case event.BombPlant:
		return Meta{Players: []string{ev.Player.Name}, Teams: []string{string(ev.Player.Side)}, IsObjective: true}
	case event.BombDefuse:
		return Meta{Players: []string{ev.Player.Name}, Teams: []string{string(ev.Player.Side)}, IsObjective: true}
	case event.Purchase:
		return Meta{Players: []string{ev.Player.Name}, Teams: []string{string(ev.Player.Side)}, Weapon: ev.Item}
	case event.GrenadeThrow:
		return Meta{Players: []string{ev.Player.Name}, Teams: []string{string(ev.Player.Side)}, Weapon: ev.Grenade}
	case event.FlashbangDetonate:
		return Meta{
			Players: []string{ev.Thrower.Name, ev.Victim.Name},
			Teams:   []string{string(ev.Thrower.Side), string(ev.Victim.Side)},
			Weapon:  "flashbang",
		}
	case event.WeaponFire:
		return Meta{Players: []string{ev.Player.Name}, Teams: []string{string(ev.Player.Side)}, Weapon: ev.Weapon}
	case event.Chat:
		return Meta{Players: []string{ev.Player.Name}, Teams: []string{string(ev.Player.Side)}}
	case event.Connect:
		return Meta{Players: []string{ev.Player.Name}}
	case event.Disconnect:
		return Meta{Players: []string{ev.Player.Name}, Teams: []string{string(ev.Player.Side)}}
	case event.TeamSwitch:
		return Meta{Players: []string{ev.Player.Name}, Teams: []string{string(ev.To)}}
	default:
		return Meta{}
	}
}

func hitgroupForKill(k event.Kill) string {
	if k.Headshot {
		return "head"
	}
	return ""
}
