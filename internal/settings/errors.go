package settings

import (
	"fmt"
	"strings"
)

// ParseError locates a failure in the settings source. Err holds one of the
// typed errors below and can be matched with errors.As.
type ParseError struct {
	Line      int
	Statement string // source text of the offending line
	Err       error
}

func (e *ParseError) Error() string {
	if e.Statement == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Statement, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LexError reports text that matches no token pattern (invalid UTF-8).
type LexError struct {
	Line   int
	Column int
	Text   string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("invalid UTF-8 at column %d in %q", e.Column, e.Text)
}

// ArityMismatchError reports a known command given the wrong number of arguments.
type ArityMismatchError struct {
	Command  Command
	Expected int
	Got      int
}

func (e *ArityMismatchError) Error() string {
	noun := "arguments"
	if e.Expected == 1 {
		noun = "argument"
	}
	return fmt.Sprintf("%s requires %d %s, got %d", e.Command, e.Expected, noun, e.Got)
}

// UnknownCommandError reports a statement whose first word is not a command.
type UnknownCommandError struct {
	Name       string
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	return withSuggestion(fmt.Sprintf("unknown command %q (expected one of %s)", e.Name, strings.Join(commandNames(), ", ")), e.Suggestion)
}

// UnknownActionError reports a Bind target that names no action.
type UnknownActionError struct {
	Name       string
	Suggestion string
}

func (e *UnknownActionError) Error() string {
	return withSuggestion(fmt.Sprintf("unknown action %q (expected one of %s)", e.Name, strings.Join(actionNames(), ", ")), e.Suggestion)
}

// UnknownServerKindError reports a SetServer argument that names no server.
type UnknownServerKindError struct {
	Name       string
	Suggestion string
}

func (e *UnknownServerKindError) Error() string {
	return withSuggestion(fmt.Sprintf("unknown server %q (expected one of %s)", e.Name, strings.Join(serverKindNames(), ", ")), e.Suggestion)
}

// InvalidIntegerError reports a Grid argument that is not a whole number >= 1.
type InvalidIntegerError struct {
	Text string
	Err  error
}

func (e *InvalidIntegerError) Error() string {
	return fmt.Sprintf("invalid integer %q: grid dimensions must be whole numbers of at least 1", e.Text)
}

func (e *InvalidIntegerError) Unwrap() error { return e.Err }

// InvalidChordError reports a Bind chord rejected by the key table.
type InvalidChordError struct {
	Text string
	Err  error
}

func (e *InvalidChordError) Error() string {
	return fmt.Sprintf("invalid chord %q: %v", e.Text, e.Err)
}

func (e *InvalidChordError) Unwrap() error { return e.Err }

// MalformedStatementError reports a line whose shape is wrong, such as
// whitespace before the command name.
type MalformedStatementError struct {
	Reason string
}

func (e *MalformedStatementError) Error() string {
	return "malformed statement: " + e.Reason
}

func withSuggestion(msg, suggestion string) string {
	if suggestion == "" {
		return msg
	}
	return fmt.Sprintf("%s; did you mean %q?", msg, suggestion)
}
