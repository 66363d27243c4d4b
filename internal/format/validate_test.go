package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLine_OK(t *testing.T) {
	assert.NoError(t, ValidateLine(`L 01/01/2024 - 12:00:00: World triggered "Round_Start"`))
}

func TestValidateLine_Rejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"too short", "L 01/01/2024"},
		{"missing marker", `X 01/01/2024 - 12:00:00: body`},
		{"bad timestamp", `L 13/45/2024 - 12:00:00: body`},
		{"missing separator", `L 01/01/2024 - 12:00:00  body`},
		{"embedded newline", "L 01/01/2024 - 12:00:00: bo\ndy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, ValidateLine(tc.line))
		})
	}
}
