package engine

import (
	"fmt"
)

// SimulationError reports an internal inconsistency detected while a match
// was running. These are fatal for the match: the engine stops, keeps the
// events already produced, and marks the result status as error.
//
// Configuration problems never surface as SimulationError; they are
// rejected before simulation starts (match.ValidationError).
type SimulationError struct {
	// Code identifies the error category.
	Code SimulationErrorCode

	// Message is a human-readable description.
	Message string

	// Round is the round being simulated when the error was detected.
	Round int

	// Err is the underlying cause, if any.
	Err error
}

// SimulationErrorCode categorizes simulation errors.
type SimulationErrorCode string

const (
	// ErrCodeUnknownItem indicates an economy lookup for an item that is
	// not in the catalog.
	ErrCodeUnknownItem SimulationErrorCode = "UNKNOWN_ITEM"

	// ErrCodeUnknownTeam indicates a team-by-side lookup that found no team.
	ErrCodeUnknownTeam SimulationErrorCode = "UNKNOWN_TEAM"

	// ErrCodeStateCorrupt indicates player or round state that violates an
	// engine invariant.
	ErrCodeStateCorrupt SimulationErrorCode = "STATE_CORRUPT"
)

// Error implements the error interface.
func (e *SimulationError) Error() string {
	if e.Round > 0 {
		return fmt.Sprintf("%s: %s (round=%d)", e.Code, e.Message, e.Round)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SimulationError) Unwrap() error {
	return e.Err
}

func simErr(code SimulationErrorCode, round int, format string, args ...any) *SimulationError {
	return &SimulationError{Code: code, Round: round, Message: fmt.Sprintf(format, args...)}
}
