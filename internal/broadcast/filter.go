package broadcast

import (
	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/format"
)

// Filter selects which records a subscriber receives. Zero values mean "no
// constraint": the zero Filter matches everything.
type Filter struct {
	// Kinds restricts to the listed event kinds.
	Kinds []event.Kind
	// Player restricts to events involving the named player.
	Player string
	// Team restricts to events involving the named side ("CT"/"TERRORIST").
	Team string
	// RoundMin/RoundMax bound the round number; zero means unbounded.
	RoundMin int
	RoundMax int
	// MinDamage drops damage events below the threshold. Other kinds are
	// unaffected.
	MinDamage int
}

// Matches reports whether a record passes the filter. It works entirely off
// the record's derived metadata; no text re-parsing.
func (f Filter) Matches(r *format.Record) bool {
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, r.Kind) {
		return false
	}
	if f.Player != "" && !containsString(r.Meta.Players, f.Player) {
		return false
	}
	if f.Team != "" && !containsString(r.Meta.Teams, f.Team) {
		return false
	}
	if f.RoundMin > 0 && r.Round < f.RoundMin {
		return false
	}
	if f.RoundMax > 0 && r.Round > f.RoundMax {
		return false
	}
	if f.MinDamage > 0 && r.Kind == event.KindDamage && r.Meta.Damage < f.MinDamage {
		return false
	}
	return true
}

func containsKind(kinds []event.Kind, k event.Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
