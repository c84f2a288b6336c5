package jsoncanvas

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Editing returns the id of the node being edited, or "".
func (d *Document) Editing() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.editing
}

// InsertText appends s to the text of the node being edited.
// It returns false when no node is being edited.
func (d *Document) InsertText(s string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	path, ok := d.editingTextPathLocked()
	if !ok {
		return false
	}
	text := gjson.GetBytes(d.raw, path).String() + s
	return d.setLocked(path, text)
}

// DeleteBackward removes the last character of the edited node's text.
func (d *Document) DeleteBackward() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	path, ok := d.editingTextPathLocked()
	if !ok {
		return false
	}
	r := []rune(gjson.GetBytes(d.raw, path).String())
	if len(r) == 0 {
		return false
	}
	return d.setLocked(path, string(r[:len(r)-1]))
}

func (d *Document) editingTextPathLocked() (string, bool) {
	if d.editing == "" {
		return "", false
	}
	idx := d.indexLocked("nodes", d.editing)
	if idx < 0 {
		return "", false
	}
	return "nodes." + strconv.Itoa(idx) + ".text", true
}

func (d *Document) setLocked(path string, value any) bool {
	raw, err := sjson.SetBytes(d.raw, path, value)
	if err != nil {
		return false
	}
	d.raw = raw
	d.dirty = true
	return true
}
