package settings

import (
	"errors"
	"io"
	"strings"
)

// Statement is one settings line: a command name and its arguments.
type Statement struct {
	Line int
	Name string
	Args []string
}

func (s Statement) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

type parseState int

const (
	expectingCommand parseState = iota
	expectingArgs
)

// scan assembles statements from src and hands each to fn in source order.
// src must already be sanitized. Blank and space-only lines produce nothing.
// A final statement without a trailing newline is still handed to fn.
func scan(src string, fn func(Statement) error) error {
	lines := strings.Split(src, "\n")
	sourceLine := func(n int) string {
		if n >= 1 && n <= len(lines) {
			return lines[n-1]
		}
		return ""
	}

	lx := NewLexer(src)
	state := expectingCommand
	var cur *Statement

	flush := func() error {
		if cur == nil {
			return nil
		}
		st := *cur
		cur = nil
		return fn(st)
	}

	for {
		tok, err := lx.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var le *LexError
			if errors.As(err, &le) {
				line = le.Line
			}
			return &ParseError{Line: line, Statement: sourceLine(line), Err: err}
		}

		switch tok.Kind {
		case TokenString:
			switch {
			case state == expectingCommand:
				cur = &Statement{Line: tok.Line, Name: tok.Value}
				state = expectingArgs
			case cur == nil:
				// a delimiter came before any command name on this line
				return &ParseError{
					Line:      tok.Line,
					Statement: sourceLine(tok.Line),
					Err:       &MalformedStatementError{Reason: "whitespace before command name"},
				}
			default:
				cur.Args = append(cur.Args, tok.Value)
			}
		case TokenArgDelim:
			state = expectingArgs
		case TokenStatementDelim:
			if err := flush(); err != nil {
				return err
			}
			state = expectingCommand
		}
	}
	return flush()
}

// Statements returns the statements of a settings text without applying them.
func Statements(text string) ([]Statement, error) {
	var out []Statement
	err := scan(Sanitize(text), func(st Statement) error {
		out = append(out, st)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
