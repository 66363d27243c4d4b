package format

import (
	"fmt"
	"time"
)

// linePrefixLen is the byte length of the fixed-width line prefix:
// "L " + "MM/DD/YYYY - HH:MM:SS" + ": ".
const linePrefixLen = 2 + len(timeLayout) + 2

// ValidateLine checks the canonical line shape: the "L " marker, a
// fixed-width parseable timestamp, the ": " separator, and a non-empty
// body. Every line the formatter emits must pass; a rejection is a
// formatter bug, not bad input.
func ValidateLine(line string) error {
	if len(line) < linePrefixLen+1 {
		return fmt.Errorf("line too short: %d bytes", len(line))
	}
	if line[0] != 'L' || line[1] != ' ' {
		return fmt.Errorf("missing %q marker", "L ")
	}
	ts := line[2 : 2+len(timeLayout)]
	if _, err := time.Parse(timeLayout, ts); err != nil {
		return fmt.Errorf("bad timestamp %q: %w", ts, err)
	}
	if line[2+len(timeLayout)] != ':' || line[2+len(timeLayout)+1] != ' ' {
		return fmt.Errorf("missing %q separator after timestamp", ": ")
	}
	for i := 0; i < len(line); i++ {
		if line[i] == '\n' || line[i] == '\r' {
			return fmt.Errorf("embedded newline at byte %d", i)
		}
	}
	return nil
}
