package keymap

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// FromKeyMsg converts a bubbletea key event to a chord.
// Events that cannot be bound (pastes, multi-rune input) yield the zero chord.
func FromKeyMsg(msg tea.KeyMsg) Chord {
	var mods Modifier
	if msg.Alt {
		mods |= ModAlt
	}

	switch msg.Type {
	case tea.KeyRunes:
		if msg.Paste || len(msg.Runes) != 1 {
			return Chord{}
		}
		if msg.Runes[0] == ' ' {
			return Chord{Mods: mods, Key: "space"}
		}
		return Chord{Mods: mods, Key: string(msg.Runes[0])}
	case tea.KeySpace:
		return Chord{Mods: mods, Key: "space"}
	}

	name := strings.TrimPrefix(msg.String(), "alt+")
	c, err := ParseChord(name)
	if err != nil {
		return Chord{}
	}
	c.Mods |= mods
	return c
}

// IsPrintable returns true if the key represents a single printable character
// typed without modifiers.
func IsPrintable(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return false
	}
	r := msg.Runes[0]
	return r >= ' ' && r <= '~'
}
