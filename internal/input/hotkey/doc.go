// Package hotkey parses and formats the hotkey strings users write in
// settings, such as "Tab", "Shift + Enter" or "Alt+ArrowUp".
//
// # Grammar
//
// A hotkey string is split on "+" and each part is trimmed:
//
//   - one part: the key
//   - two parts: a modifier followed by the key
//   - anything else is rejected with ErrInvalidFormat
//
// A key is a single ASCII letter or digit, or one of the navigation keys
// Tab, Enter, ArrowUp, ArrowDown, ArrowLeft and ArrowRight (any case).
// A modifier is one of Mod, Ctrl, Meta, Shift and Alt (any case).
//
// The canonical form upper-cases the first letter of the modifier and leaves
// the rest of it, and the key, as written: "cTRL+k" canonicalizes to
// "CTRL+k". Matching ignores modifier case, so "CTRL+k" and "Ctrl+k" fire
// on the same chord. Format(Parse(s)) is the canonical spelling of s.
package hotkey
