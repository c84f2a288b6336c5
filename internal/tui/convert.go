package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mindkeys/internal/input/key"
)

// convertKey converts a tcell key event. It reports false for keys
// mindkeys has no name for.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())
	out := key.Event{Modifiers: mods, Timestamp: ev.When()}

	switch k := ev.Key(); k {
	case tcell.KeyRune:
		out.Key = key.KeyRune
		out.Rune = ev.Rune()
	case tcell.KeyEscape:
		out.Key = key.KeyEscape
	case tcell.KeyEnter:
		out.Key = key.KeyEnter
	case tcell.KeyTab:
		out.Key = key.KeyTab
	case tcell.KeyBacktab:
		out.Key = key.KeyTab
		out.Modifiers = mods.With(key.ModShift)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = key.KeyBackspace
	case tcell.KeyDelete:
		out.Key = key.KeyDelete
	case tcell.KeyUp:
		out.Key = key.KeyUp
	case tcell.KeyDown:
		out.Key = key.KeyDown
	case tcell.KeyLeft:
		out.Key = key.KeyLeft
	case tcell.KeyRight:
		out.Key = key.KeyRight
	default:
		// Control characters arrive as their own key codes.
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			out.Key = key.KeyRune
			out.Rune = 'a' + rune(k-tcell.KeyCtrlA)
			out.Modifiers = mods.With(key.ModCtrl)
			return out, true
		}
		return key.Event{}, false
	}
	return out, true
}

// convertMod converts tcell modifier flags.
func convertMod(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
