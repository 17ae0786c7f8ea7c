package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNoMatchingTarget   = errors.New("No matching tab found.")
	ErrElementNotFound    = errors.New("element not found")
	ErrOptionNotFound     = errors.New("option not found")
	ErrUnsupportedCommand = errors.New("unknown command type")
	ErrInvalidCommand     = errors.New("invalid command")
	ErrWrongElementKind   = errors.New("wrong element kind")
	ErrNotEditable        = errors.New("element is not editable")

	ErrIncompleteSettings = errors.New("settings incomplete")
	ErrInvalidSettings    = errors.New("invalid settings")
	ErrNotRegistered      = errors.New("agent is not registered")
	ErrCycleInProgress    = errors.New("poll cycle already in progress")
)

// InputCountError reports a type_nth request past the visible inputs.
type InputCountError struct {
	Found     int
	Requested int
}

func (e *InputCountError) Error() string {
	return fmt.Sprintf("Only %d visible input(s) found, requested #%d", e.Found, e.Requested)
}

func (e *InputCountError) Is(target error) bool {
	return target == ErrElementNotFound
}
