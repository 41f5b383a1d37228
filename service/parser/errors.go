package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyString is returned for an empty command
	ErrEmptyString = errors.New("empty command")
	// ErrMissingArgument is returned when EXECUTE does not carry exactly one argument
	ErrMissingArgument = errors.New("missing argument")
	// ErrUnknownCommand is returned when the command keyword is not recognised
	ErrUnknownCommand = errors.New("unknown command")
)

// SyntaxError describes the first malformed command of a batch
type SyntaxError struct {
	Err  error
	Text string
	// Line is the 1-based document line, or 0 for the single line form.
	Line int
}

func (e *SyntaxError) Error() string {
	var location string
	if e.Line > 0 {
		location = fmt.Sprintf("line %d: ", e.Line)
	}
	switch {
	case errors.Is(e.Err, ErrUnknownCommand):
		return fmt.Sprintf("%s%v: %q", location, e.Err, e.Text)
	case errors.Is(e.Err, ErrMissingArgument):
		return fmt.Sprintf("%s%v: %q, expected EXECUTE: <command>", location, e.Err, e.Text)
	}
	return location + e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func newSyntaxError(err error, text string) *SyntaxError {
	return &SyntaxError{Err: err, Text: text}
}
