package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidPath is returned when a path does not resolve through the tree.
var ErrInvalidPath = errors.New("invalid path")

// ErrEmptyMenu is returned when the active menu has no selectable item.
var ErrEmptyMenu = errors.New("empty menu")

// ErrEngineFaulted is returned by an engine that hit an invariant violation earlier.
var ErrEngineFaulted = errors.New("engine faulted")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrIncludeCycle is returned when menu files include each other recursively.
var ErrIncludeCycle = errors.New("menu include cycle")

// FaultError reports a broken navigation invariant. The engine that returned
// it refuses further operations.
type FaultError struct {
	Op   string
	Path Path
	Err  error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s at %s: %v", e.Op, e.Path, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}
