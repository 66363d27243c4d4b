package format

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/noueii/nocs-log-generator/internal/event"
)

// Version is the generator version echoed in the log header.
const Version = "1.38.7.9"

// Header describes the log file framing.
type Header struct {
	FileName string
	Game     string
	Start    time.Time
	End      time.Time
}

// RenderLog serializes a full event sequence into the canonical log text:
// an open header line, every event's lines in order, and a close line. The
// returned text ends with a trailing newline.
func (f *Formatter) RenderLog(h Header, events []event.Event) (string, error) {
	var b strings.Builder

	game := h.Game
	if game == "" {
		game = "csgo"
	}
	open := prefix(h.Start) + fmt.Sprintf(`Log file started (file "%s") (game "%s") (version "%s")`,
		h.FileName, game, Version)
	if err := ValidateLine(open); err != nil {
		return "", &FormatError{Message: "bad header line", Line: open, Err: err}
	}
	b.WriteString(open)
	b.WriteByte('\n')

	for _, e := range events {
		lines, err := f.Lines(e)
		if err != nil {
			return "", err
		}
		for _, line := range lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	end := h.End
	if end.IsZero() {
		if n := len(events); n > 0 {
			end = events[n-1].EventBase().Time
		} else {
			end = h.Start
		}
	}
	closeLine := prefix(end) + "Log file closed"
	if err := ValidateLine(closeLine); err != nil {
		return "", &FormatError{Message: "bad footer line", Line: closeLine, Err: err}
	}
	b.WriteString(closeLine)
	b.WriteByte('\n')

	return b.String(), nil
}

// RenderRecords builds the structured envelope for every event, in order.
func (f *Formatter) RenderRecords(events []event.Event) ([]*Record, error) {
	out := make([]*Record, 0, len(events))
	for _, e := range events {
		r, err := f.Record(e)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Digest returns the hex SHA-256 of serialized log text. Two runs of the
// same (config, seed) pair must produce the same digest.
func Digest(logText string) string {
	sum := sha256.Sum256([]byte(logText))
	return hex.EncodeToString(sum[:])
}
