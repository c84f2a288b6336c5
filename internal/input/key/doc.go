// Package key provides the key event types shared by the trigger registry and
// the terminal front end.
//
//   - Key: identifies a special key, or KeyRune for character keys
//   - Modifier: bit set of Shift, Ctrl, Alt and Meta
//   - Event: a single key press delivered by the host
//   - Chord: a modifier set plus a key, matched against events
//
// Hotkey strings written by users are parsed by package hotkey, which
// produces Chords from this package.
package key
