// Package settings implements the partman settings language: a line-oriented
// format of "<Command> <arg>..." statements that configures key bindings,
// the storage grid and the parts server.
//
//	Bind ctrl+q Quit
//	Grid 8 12 3
//	SetServer Development
//
// Parsing is all-or-nothing: Parse returns a complete Config or an error that
// names the offending line.
package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/marcus/partman/pkg/shell/keymap"
)

//go:embed default.conf
var defaultText string

// DefaultText returns the settings source compiled into the binary.
func DefaultText() string {
	return defaultText
}

// Grid is the shape of the parts storage: rows x columns, stacked Zs deep.
type Grid struct {
	Rows    int
	Columns int
	Zs      int
}

// Cells is the number of bins in one layer.
func (g Grid) Cells() int {
	return g.Rows * g.Columns
}

// Config is the result of evaluating a settings text.
type Config struct {
	Keyboard   *keymap.Table[Action]
	Grid       Grid
	ServerKind ServerKind
}

// New returns the configuration in effect before any statement runs:
// no bindings, a 1x1x1 grid and the production server.
func New() *Config {
	return &Config{
		Keyboard:   keymap.NewTable[Action](),
		Grid:       Grid{Rows: 1, Columns: 1, Zs: 1},
		ServerKind: ServerProduction,
	}
}

// Parse evaluates a settings text. Carriage returns are ignored.
func Parse(text string) (*Config, error) {
	cfg := New()
	err := scan(Sanitize(text), func(st Statement) error {
		if err := cfg.apply(st); err != nil {
			return &ParseError{Line: st.Line, Statement: st.String(), Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default parses the embedded default settings.
func Default() (*Config, error) {
	cfg, err := Parse(defaultText)
	if err != nil {
		return nil, fmt.Errorf("embedded default settings: %w", err)
	}
	return cfg, nil
}

// LoadFile reads and parses a settings file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// apply validates one statement and performs its single mutation.
func (c *Config) apply(st Statement) error {
	cmd, err := ParseCommand(st.Name)
	if err != nil {
		return err
	}
	if len(st.Args) != cmd.Arity() {
		return &ArityMismatchError{Command: cmd, Expected: cmd.Arity(), Got: len(st.Args)}
	}

	switch cmd {
	case CmdBind:
		action, err := ParseAction(st.Args[1])
		if err != nil {
			return err
		}
		chord, err := keymap.ParseChord(st.Args[0])
		if err != nil {
			return &InvalidChordError{Text: st.Args[0], Err: err}
		}
		c.Keyboard.Set(chord, action)

	case CmdGrid:
		var dims [3]int
		for i, arg := range st.Args {
			n, err := parseDimension(arg)
			if err != nil {
				return err
			}
			dims[i] = n
		}
		c.Grid = Grid{Rows: dims[0], Columns: dims[1], Zs: dims[2]}

	case CmdSetServer:
		kind, err := ParseServerKind(st.Args[0])
		if err != nil {
			return err
		}
		c.ServerKind = kind
	}
	return nil
}

var (
	errBelowOne = errors.New("value is below 1")
	errSigned   = errors.New("value must be plain digits")
)

// parseDimension accepts unsigned decimal integers of at least 1.
func parseDimension(text string) (int, error) {
	if text != "" && (text[0] == '+' || text[0] == '-') {
		return 0, &InvalidIntegerError{Text: text, Err: errSigned}
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, &InvalidIntegerError{Text: text, Err: err}
	}
	if n < 1 {
		return 0, &InvalidIntegerError{Text: text, Err: errBelowOne}
	}
	return n, nil
}

// Equal reports whether two configs have the same grid, server and bindings.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Grid == other.Grid &&
		c.ServerKind == other.ServerKind &&
		c.Keyboard.Equal(other.Keyboard)
}
