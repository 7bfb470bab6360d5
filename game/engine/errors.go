package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every *ParseError
	ErrParse = errors.New("parse error")

	// ErrInvalidCommand is matched by every *InvalidCommandError
	ErrInvalidCommand = errors.New("invalid command")

	// ErrMissingToken is wrapped by a ParseError when a line has too few tokens
	ErrMissingToken = errors.New("missing token")

	// ErrRoverNotFound is returned when no deployed rover matches an ID or name
	ErrRoverNotFound = errors.New("rover not found")
)

// ParseError reports a world or position line that could not be read
type ParseError struct {
	Line  string // the input line
	Field string // which value was being read, e.g. "x"
	Token string // offending token, empty when missing
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error: %s in %q: %v", e.Field, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %s %q in %q: %v", e.Field, e.Token, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// InvalidCommandError reports a character outside the command vocabulary
type InvalidCommandError struct {
	Char  rune
	Index int // rune offset in the command string
}

func (e *InvalidCommandError) Error() string {
	return fmt.Sprintf("invalid command %q at index %d", e.Char, e.Index)
}

// Is lets errors.Is(err, ErrInvalidCommand) match any InvalidCommandError
func (e *InvalidCommandError) Is(target error) bool { return target == ErrInvalidCommand }
