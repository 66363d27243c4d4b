// Package format serializes game events into the canonical line-oriented
// log format and an equivalent structured record form, and validates both.
// The two targets share one semantic model: re-rendering a record's line
// always equals the standalone text output for the same event.
package format

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/match"
)

// timeLayout is the fixed-width canonical timestamp: MM/DD/YYYY - HH:MM:SS.
const timeLayout = "01/02/2006 - 15:04:05"

// Formatter renders events as canonical log lines. A Formatter caches
// sanitized player names, so one instance should serialize one log.
//
// Strict controls the contract-violation policy: a line that fails the
// package's own validator is a programming error, so Strict formatters
// return it as an error while non-strict ones log and skip the line.
type Formatter struct {
	Strict bool

	log *slog.Logger
	san *sanitizer
}

// NewFormatter creates a non-strict formatter. A nil logger means
// slog.Default().
func NewFormatter(log *slog.Logger) *Formatter {
	if log == nil {
		log = slog.Default()
	}
	return &Formatter{log: log, san: newSanitizer()}
}

// NewStrictFormatter creates a formatter that fails hard on any line that
// does not pass the validator. Meant for tests and debug builds.
func NewStrictFormatter() *Formatter {
	return &Formatter{Strict: true, log: slog.Default(), san: newSanitizer()}
}

// Line renders the primary canonical line for an event.
func (f *Formatter) Line(e event.Event) (string, error) {
	lines, err := f.Lines(e)
	if err != nil {
		return "", err
	}
	return lines[0], nil
}

// Lines renders every canonical line an event expands to. Most kinds are a
// single line; round starts render the score echo per side and round ends
// append the MVP line when one exists.
func (f *Formatter) Lines(e event.Event) ([]string, error) {
	base := e.EventBase()
	var bodies []string

	switch ev := e.(type) {
	case event.RoundStart:
		bodies = append(bodies,
			`World triggered "Round_Start"`,
			fmt.Sprintf(`Team "CT" scored "%d" with "%d" players`, ev.CTScore, ev.CTPlayers),
			fmt.Sprintf(`Team "TERRORIST" scored "%d" with "%d" players`, ev.TScore, ev.TPlayers),
		)
	case event.RoundEnd:
		bodies = append(bodies, fmt.Sprintf(`Team "%s" triggered "%s" (CT "%d") (T "%d")`,
			ev.Winner, match.TriggerToken(ev.Winner, ev.Reason), ev.CTScore, ev.TScore))
		if ev.MVP != nil {
			bodies = append(bodies, fmt.Sprintf(`%s triggered "Round_MVP"`, f.ref(*ev.MVP)))
		}
	case event.Kill:
		body := fmt.Sprintf(`%s killed %s with "%s"`, f.ref(ev.Attacker), f.ref(ev.Victim), ev.Weapon)
		if ev.Headshot {
			body += " (headshot)"
		}
		if ev.Penetrated > 0 {
			body += fmt.Sprintf(" (penetrated %d)", ev.Penetrated)
		}
		if ev.AttackerBlind {
			body += " (attackerblind)"
		}
		if ev.NoScope {
			body += " (noscope)"
		}
		bodies = append(bodies, body)
	case event.Damage:
		bodies = append(bodies, fmt.Sprintf(
			`%s attacked %s with "%s" (damage "%d") (damage_armor "%d") (health "%d") (armor "%d") (hitgroup "%s")`,
			f.ref(ev.Attacker), f.ref(ev.Victim), ev.Weapon,
			ev.Damage, ev.ArmorDamage, ev.Health, ev.Armor, ev.Hitgroup))
	case event.BombPlant:
		bodies = append(bodies, fmt.Sprintf(`%s triggered "Planted_The_Bomb"`, f.ref(ev.Player)))
	case event.BombDefuse:
		if ev.Begin {
			token := "Begin_Bomb_Defuse_Without_Kit"
			if ev.WithKit {
				token = "Begin_Bomb_Defuse_With_Kit"
			}
			bodies = append(bodies, fmt.Sprintf(`%s triggered "%s"`, f.ref(ev.Player), token))
		} else {
			bodies = append(bodies, fmt.Sprintf(`%s triggered "Defused_The_Bomb"`, f.ref(ev.Player)))
		}
	case event.BombExplode:
		bodies = append(bodies, `World triggered "Target_Bombed"`)
	case event.Purchase:
		bodies = append(bodies, fmt.Sprintf(`%s purchased "%s"`, f.ref(ev.Player), ev.Item))
	case event.GrenadeThrow:
		bodies = append(bodies, fmt.Sprintf(`%s threw %s`, f.ref(ev.Player), ev.Grenade))
	case event.FlashbangDetonate:
		bodies = append(bodies, fmt.Sprintf(`%s blinded for %.2f by %s from flashbang`,
			f.ref(ev.Victim), ev.Duration, f.ref(ev.Thrower)))
	case event.WeaponFire:
		bodies = append(bodies, fmt.Sprintf(`%s fired "%s"`, f.ref(ev.Player), ev.Weapon))
	case event.Chat:
		verb := "say"
		if ev.TeamOnly {
			verb = "say_team"
		}
		bodies = append(bodies, fmt.Sprintf(`%s %s "%s"`, f.ref(ev.Player), verb, ev.Text))
	case event.Connect:
		bodies = append(bodies, fmt.Sprintf(`%s connected, address "%s"`, f.ref(ev.Player), ev.Address))
	case event.Disconnect:
		bodies = append(bodies, fmt.Sprintf(`%s disconnected (reason "%s")`, f.ref(ev.Player), ev.Reason))
	case event.TeamSwitch:
		bodies = append(bodies, fmt.Sprintf(`%s switched from team <%s> to <%s>`,
			f.ref(ev.Player), ev.From, ev.To))
	case event.ServerCommand:
		bodies = append(bodies, fmt.Sprintf(`server_cvar: "%s" "%s"`, ev.Key, ev.Value))
	default:
		return nil, &FormatError{Message: fmt.Sprintf("unhandled event kind %q", e.Kind())}
	}

	lines := make([]string, 0, len(bodies))
	for _, body := range bodies {
		line := prefix(base.Time) + body
		if err := ValidateLine(line); err != nil {
			ferr := &FormatError{Message: "generated line failed validation", Line: line, Err: err}
			if f.Strict {
				return nil, ferr
			}
			f.log.Warn("dropping malformed log line", "line", line, "error", err)
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ref renders a canonical player reference with a sanitized name.
func (f *Formatter) ref(p event.PlayerRef) string {
	return fmt.Sprintf(`"%s<%d><%s><%s>"`, f.san.clean(p.Name), p.UserID, p.SteamID, p.Side)
}

func prefix(t time.Time) string {
	return "L " + t.Format(timeLayout) + ": "
}

// FormatError is an internal contract violation: the formatter produced
// output its own validator rejects. Distinct from configuration and
// simulation errors on purpose.
type FormatError struct {
	Message string
	Line    string
	Err     error
}

func (e *FormatError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("format: %s: %q", e.Message, e.Line)
	}
	return "format: " + e.Message
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
