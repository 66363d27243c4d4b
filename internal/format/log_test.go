package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noueii/nocs-log-generator/internal/event"
)

func TestRenderLog_Framing(t *testing.T) {
	f := NewStrictFormatter()
	events := []event.Event{
		event.RoundStart{Base: testBase(), CTPlayers: 5, TPlayers: 5},
		event.BombExplode{Base: event.Base{Tick: 640, Round: 3, Time: testTime.Add(45 * time.Second)}},
	}

	text, err := f.RenderLog(Header{FileName: "match.log", Start: testTime}, events)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(text, "\n"))

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	// Open line, three round-start lines, the explosion, close line.
	require.Len(t, lines, 6)
	assert.Equal(t,
		`L 01/01/2024 - 12:00:00: Log file started (file "match.log") (game "csgo") (version "`+Version+`")`,
		lines[0])
	assert.Equal(t, `L 01/01/2024 - 12:00:45: Log file closed`, lines[len(lines)-1],
		"close stamp defaults to the last event time")

	for _, line := range lines {
		assert.NoError(t, ValidateLine(line), line)
	}
}

func TestRenderLog_ExplicitEndAndEmptyLog(t *testing.T) {
	f := NewStrictFormatter()

	text, err := f.RenderLog(Header{FileName: "empty.log", Start: testTime, End: testTime.Add(time.Minute)}, nil)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "12:01:00: Log file closed")

	noEnd, err := f.RenderLog(Header{FileName: "empty.log", Start: testTime}, nil)
	require.NoError(t, err)
	assert.Contains(t, noEnd, "12:00:00: Log file closed")
}

func TestDigest_Deterministic(t *testing.T) {
	a := Digest("L 01/01/2024 - 12:00:00: Log file closed\n")
	b := Digest("L 01/01/2024 - 12:00:00: Log file closed\n")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "hex sha-256")
	assert.NotEqual(t, a, Digest("different"))
}
