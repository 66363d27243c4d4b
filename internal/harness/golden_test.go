package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noueii/nocs-log-generator/internal/event"
	"github.com/noueii/nocs-log-generator/internal/format"
	"github.com/noueii/nocs-log-generator/internal/match"
)

// fixtureEvents is a hand-built round covering every event family with fixed
// timestamps, so the golden file pins the exact canonical serialization.
func fixtureEvents() []event.Event {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	at := func(sec int) time.Time { return start.Add(time.Duration(sec) * time.Second) }

	alice := event.PlayerRef{Name: "alice", UserID: 2, SteamID: "STEAM_1:0:100", Side: match.SideCT}
	bob := event.PlayerRef{Name: "bob", UserID: 7, SteamID: "STEAM_1:1:200", Side: match.SideT}
	aliceJoining := alice
	aliceJoining.Side = match.SideUnassigned
	mvp := alice

	base := func(sec int, tick int64) event.Base {
		return event.Base{Tick: tick, Round: 1, Time: at(sec)}
	}

	return []event.Event{
		event.ServerCommand{Base: base(0, 0), Key: "mp_maxrounds", Value: "24"},
		event.Connect{Base: base(1, 64), Player: aliceJoining, Address: "10.0.2.22:27005"},
		event.TeamSwitch{Base: base(1, 64), Player: aliceJoining, From: match.SideUnassigned, To: match.SideCT},
		event.RoundStart{Base: base(5, 320), CTScore: 0, TScore: 0, CTPlayers: 5, TPlayers: 5},
		event.Purchase{Base: base(7, 448), Player: alice, Item: "vesthelm", Cost: 1000},
		event.GrenadeThrow{Base: base(20, 1280), Player: bob, Grenade: "flashbang"},
		event.FlashbangDetonate{Base: base(21, 1344), Thrower: bob, Victim: alice, Duration: 2.5},
		event.Damage{
			Base: base(30, 1920), Attacker: bob, Victim: alice, Weapon: "glock",
			Damage: 18, ArmorDamage: 9, Health: 82, Armor: 91, Hitgroup: "chest",
		},
		event.BombPlant{Base: base(35, 2240), Player: bob, Site: "B"},
		event.Kill{Base: base(40, 2560), Attacker: alice, Victim: bob, Weapon: "m4a1", Headshot: true},
		event.BombDefuse{Base: base(60, 3840), Player: alice, WithKit: true, Begin: true},
		event.BombDefuse{Base: base(65, 4160), Player: alice, WithKit: true},
		event.RoundEnd{
			Base: base(66, 4224), Winner: match.SideCT, Reason: match.ReasonBombDefused,
			CTScore: 1, TScore: 0, MVP: &mvp,
		},
		event.Chat{Base: base(68, 4352), Player: bob, Text: "gg"},
		event.Disconnect{Base: base(70, 4480), Player: bob, Reason: "Disconnect"},
	}
}

func TestGolden_CanonicalSerialization(t *testing.T) {
	f := format.NewStrictFormatter()
	logText, err := f.RenderLog(format.Header{
		FileName: "fixture.log",
		Start:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}, fixtureEvents())
	require.NoError(t, err)

	AssertGolden(t, "format_fixture", logText)
}
