package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced game, player or result is absent.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition is returned when an operation is not allowed in the
	// current game state.
	ErrPrecondition = errors.New("precondition failed")
	// ErrNotEnoughPlayers is the precondition failure for starting a game
	// with fewer than MinPlayers.
	ErrNotEnoughPlayers error = preconditionError("Need at least 3 players")
)

type preconditionError string

func (e preconditionError) Error() string        { return string(e) }
func (e preconditionError) Is(target error) bool { return target == ErrPrecondition }

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFound wraps ErrNotFound with the kind and id of the missing entity.
func NotFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}
