package settings

import (
	"fmt"
	"strings"
)

// Format renders cfg as settings source. Bindings are written in first-bound
// order with canonical chords; Parse(Format(cfg)) is equal to cfg.
func Format(cfg *Config) string {
	var sb strings.Builder
	for _, b := range cfg.Keyboard.Bindings() {
		fmt.Fprintf(&sb, "%s %s %s\n", CmdBind, b.Chord, b.Action)
	}
	fmt.Fprintf(&sb, "%s %d %d %d\n", CmdGrid, cfg.Grid.Rows, cfg.Grid.Columns, cfg.Grid.Zs)
	fmt.Fprintf(&sb, "%s %s\n", CmdSetServer, cfg.ServerKind)
	return sb.String()
}
