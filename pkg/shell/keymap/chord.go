// Package keymap maps key chords to actions for the interactive shell.
//
// A chord is written the way users type it in the settings file: "ctrl+q",
// "Ctrl+Shift+P", "alt+enter", "<C-s>", "f1" or a single character such as
// "/" or "G". Chords are normalized, so "Ctrl+Q" and "ctrl+q" bind the same key.
package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidChord is returned (wrapped) for chord specs that cannot be parsed.
var ErrInvalidChord = errors.New("invalid key chord")

// Modifier is a set of modifier keys held with a chord.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModCtrl  Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModShift Modifier = 1 << 2
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Chord is a normalized key combination. It is comparable and used as a map key.
type Chord struct {
	Mods Modifier
	Key  string // named key ("enter", "f1") or a single character
}

// IsZero reports whether c is the zero chord (no key).
func (c Chord) IsZero() bool {
	return c.Key == ""
}

// String returns the canonical spec, e.g. "ctrl+shift+p".
func (c Chord) String() string {
	if c.IsZero() {
		return ""
	}
	var sb strings.Builder
	if c.Mods.Has(ModCtrl) {
		sb.WriteString("ctrl+")
	}
	if c.Mods.Has(ModAlt) {
		sb.WriteString("alt+")
	}
	if c.Mods.Has(ModShift) {
		sb.WriteString("shift+")
	}
	sb.WriteString(c.Key)
	return sb.String()
}

// namedKeys maps accepted key names (lowercase) to their canonical form.
var namedKeys = map[string]string{
	"enter":     "enter",
	"return":    "enter",
	"cr":        "enter",
	"esc":       "esc",
	"escape":    "esc",
	"tab":       "tab",
	"backspace": "backspace",
	"bs":        "backspace",
	"delete":    "delete",
	"del":       "delete",
	"insert":    "insert",
	"ins":       "insert",
	"space":     "space",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"home":      "home",
	"end":       "end",
	"pgup":      "pgup",
	"pageup":    "pgup",
	"pgdown":    "pgdown",
	"pgdn":      "pgdown",
	"pagedown":  "pgdown",
	"lt":        "<",
	"gt":        ">",
	"bar":       "|",
	"bslash":    "\\",
}

func init() {
	for i := 1; i <= 20; i++ {
		name := fmt.Sprintf("f%d", i)
		namedKeys[name] = name
	}
}

// ctrlAliases are the control characters terminals report as named keys.
var ctrlAliases = map[rune]string{
	'm': "enter",
	'i': "tab",
	'[': "esc",
}

// modifierNames maps accepted modifier spellings to modifiers.
var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"opt":     ModAlt,
	"option":  ModAlt,
	"meta":    ModAlt,
	"m":       ModAlt,
	"a":       ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
}

// ParseChord parses a chord spec into its normalized form.
//
// Supported forms:
//   - single character: "q", "G", "/", "+"
//   - named keys: "enter", "esc", "tab", "space", "up", "pgdown", "f5"
//   - modifier chains: "ctrl+q", "Ctrl+Shift+P", "alt+enter", "ctrl++"
//   - vim notation: "<C-s>", "<A-f>", "<CR>", "<Esc>"
func ParseChord(spec string) (Chord, error) {
	if spec == "" {
		return Chord{}, fmt.Errorf("%w: empty chord", ErrInvalidChord)
	}
	if strings.ContainsAny(spec, " \t\n") {
		return Chord{}, fmt.Errorf("%w: %q contains whitespace", ErrInvalidChord, spec)
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVim(spec, spec[1:len(spec)-1])
	}

	// A lone "+" or a chain ending in "++" binds the plus key itself.
	if spec == "+" {
		return Chord{Key: "+"}, nil
	}
	keyPart, modPart := spec, ""
	if strings.HasSuffix(spec, "++") {
		keyPart, modPart = "+", strings.TrimSuffix(spec, "++")
	} else if i := strings.LastIndex(spec, "+"); i >= 0 {
		keyPart, modPart = spec[i+1:], spec[:i]
	}

	var mods Modifier
	if modPart != "" {
		for _, name := range strings.Split(modPart, "+") {
			mod, ok := modifierNames[strings.ToLower(name)]
			if !ok || len(name) == 1 {
				return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidChord, name, spec)
			}
			mods |= mod
		}
	}
	return normalize(spec, keyPart, mods)
}

// parseVim handles the inside of "<...>" notation, where modifiers are single
// letters separated by hyphens.
func parseVim(spec, inner string) (Chord, error) {
	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		// "<C-->" binds ctrl+minus
		keyPart = "-"
		parts = parts[:len(parts)-1]
	}
	var mods Modifier
	for _, name := range parts[:len(parts)-1] {
		mod, ok := modifierNames[strings.ToLower(name)]
		if !ok || len(name) != 1 {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidChord, name, spec)
		}
		mods |= mod
	}
	return normalize(spec, keyPart, mods)
}

// normalize resolves the key name and folds shift into letters so that
// "shift+g" and "G" are the same chord. Ctrl chords use lowercase letters
// since terminals cannot tell ctrl+Q from ctrl+q, and ctrl+m, ctrl+i and
// ctrl+[ become enter, tab and esc. Shift on any other character is an
// error: the terminal sends the shifted character instead.
func normalize(spec, keyPart string, mods Modifier) (Chord, error) {
	if keyPart == "" {
		return Chord{}, fmt.Errorf("%w: missing key in %q", ErrInvalidChord, spec)
	}
	if name, ok := namedKeys[strings.ToLower(keyPart)]; ok && utf8.RuneCountInString(keyPart) > 1 {
		return Chord{Mods: mods, Key: name}, nil
	}
	if utf8.RuneCountInString(keyPart) != 1 {
		return Chord{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidChord, keyPart, spec)
	}

	r, _ := utf8.DecodeRuneInString(keyPart)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return Chord{}, fmt.Errorf("%w: unprintable key in %q", ErrInvalidChord, spec)
	}
	if unicode.IsLetter(r) {
		switch {
		case mods.Has(ModCtrl):
			r = unicode.ToLower(r)
		case mods.Has(ModShift):
			r = unicode.ToUpper(r)
			mods &^= ModShift
		}
	} else if mods.Has(ModShift) {
		return Chord{}, fmt.Errorf("%w: shift cannot modify %q in %q, bind the shifted character", ErrInvalidChord, r, spec)
	}
	if mods.Has(ModCtrl) {
		if name, ok := ctrlAliases[r]; ok {
			return Chord{Mods: mods &^ ModCtrl, Key: name}, nil
		}
	}
	return Chord{Mods: mods, Key: string(r)}, nil
}

// MustParseChord is ParseChord for chords known to be valid at compile time.
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic(err)
	}
	return c
}
