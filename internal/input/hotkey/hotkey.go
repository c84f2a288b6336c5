package hotkey

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/mindkeys/internal/input/key"
)

// supportedModifiers lists the modifier vocabulary in lowercase.
var supportedModifiers = []string{"mod", "ctrl", "meta", "shift", "alt"}

// navigationKeys lists the named keys a hotkey may use, in lowercase.
var navigationKeys = []string{"tab", "enter", "arrowup", "arrowdown", "arrowleft", "arrowright"}

// Spec is a parsed hotkey: an ordered set of canonical modifier names and a key.
type Spec struct {
	Modifiers []string
	Key       string
}

// Parse validates a hotkey string and returns its canonical Spec.
func Parse(text string) (Spec, error) {
	parts := strings.Split(text, "+")

	switch len(parts) {
	case 1:
		k := strings.TrimSpace(parts[0])
		if !validKey(k) {
			return Spec{}, &ParseError{Input: text, Part: k, Err: ErrInvalidKey}
		}
		return Spec{Modifiers: []string{}, Key: k}, nil

	case 2:
		mod := strings.TrimSpace(parts[0])
		if !slices.Contains(supportedModifiers, strings.ToLower(mod)) {
			return Spec{}, &ParseError{Input: text, Part: mod, Err: ErrInvalidModifier}
		}
		k := strings.TrimSpace(parts[1])
		if !validKey(k) {
			return Spec{}, &ParseError{Input: text, Part: k, Err: ErrInvalidKey}
		}
		return Spec{Modifiers: []string{canonicalModifier(mod)}, Key: k}, nil
	}

	return Spec{}, &ParseError{Input: text, Err: ErrInvalidFormat}
}

// MustParse parses a hotkey string and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(text string) Spec {
	spec, err := Parse(text)
	if err != nil {
		panic("invalid hotkey: " + err.Error())
	}
	return spec
}

// Format joins the modifiers and key with "+".
func Format(s Spec) string {
	parts := make([]string, 0, len(s.Modifiers)+1)
	parts = append(parts, s.Modifiers...)
	parts = append(parts, s.Key)
	return strings.Join(parts, "+")
}

// Canonicalize parses and re-formats a hotkey string.
func Canonicalize(text string) (string, error) {
	spec, err := Parse(text)
	if err != nil {
		return "", err
	}
	return Format(spec), nil
}

// String returns the canonical hotkey string.
func (s Spec) String() string {
	return Format(s)
}

// Chord resolves the spec into a key chord for event matching.
func (s Spec) Chord() key.Chord {
	var mods key.Modifier
	for _, m := range s.Modifiers {
		mods = mods.With(key.ModifierFromName(m))
	}

	if k := key.KeyFromName(s.Key); k != key.KeyNone {
		return key.SpecialChord(k, mods)
	}
	r := []rune(s.Key)
	if len(r) != 1 {
		return key.Chord{Modifiers: mods}
	}
	return key.RuneChord(r[0], mods)
}

// validKey reports whether k is a single ASCII alphanumeric or a navigation key.
func validKey(k string) bool {
	if slices.Contains(navigationKeys, strings.ToLower(k)) {
		return true
	}
	if len(k) != 1 {
		return false
	}
	c := k[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// canonicalModifier upper-cases the first letter of a modifier name and keeps
// the rest as written: "ctrl" becomes "Ctrl", "cTRL" becomes "CTRL".
func canonicalModifier(mod string) string {
	if mod == "" {
		return mod
	}
	return cases.Upper(language.Und).String(mod[:1]) + mod[1:]
}
