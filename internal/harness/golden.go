package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares serialized log text against the golden file
// testdata/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name, logText string) {
	t.Helper()
	g := goldie.New(t)
	g.Assert(t, name, []byte(logText))
}
