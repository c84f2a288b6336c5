package key

import (
	"strings"
	"unicode"
)

// Chord is a modifier set plus a single key that a trigger listens for.
type Chord struct {
	Modifiers Modifier
	Key       Key
	// Rune is set when Key is KeyRune. Letters are stored lowercase.
	Rune rune
}

// RuneChord returns a chord for a character key.
func RuneChord(r rune, mods Modifier) Chord {
	return Chord{Modifiers: mods, Key: KeyRune, Rune: unicode.ToLower(r)}
}

// SpecialChord returns a chord for a special key.
func SpecialChord(k Key, mods Modifier) Chord {
	return Chord{Modifiers: mods, Key: k}
}

// Matches reports whether the event fires this chord.
//
// Letters compare case-insensitively. For character keys, Shift on the
// event is ignored unless the chord itself requires Shift, since terminals
// report an uppercase letter with or without the Shift flag.
func (c Chord) Matches(ev Event) bool {
	if c.Key != ev.Key {
		return false
	}
	mods := ev.Modifiers
	if c.Key == KeyRune {
		if c.Rune != unicode.ToLower(ev.Rune) {
			return false
		}
		if !c.Modifiers.Has(ModShift) {
			mods = mods.Without(ModShift)
		}
	}
	return mods == c.Modifiers
}

// String returns a representation like "Alt+ArrowUp" or "f".
func (c Chord) String() string {
	var parts []string
	if c.Modifiers != ModNone {
		parts = append(parts, c.Modifiers.String())
	}
	if c.Key == KeyRune {
		parts = append(parts, string(c.Rune))
	} else {
		parts = append(parts, c.Key.String())
	}
	return strings.Join(parts, "+")
}
