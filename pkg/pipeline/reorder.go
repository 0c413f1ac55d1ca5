package pipeline

import (
	"strconv"
	"strings"
)

// Drag interprets a grab / hover / drop gesture sequence against a Model.
// Only the drop mutates the sequence; grabbing and hovering record state.
// Dropping with no hover target, dropping an instance onto itself, and
// cancelling all leave the sequence untouched.
type Drag struct {
	model   *Model
	grabbed string
	hover   string
}

func NewDrag(m *Model) *Drag {
	return &Drag{model: m}
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.grabbed != ""
}

// Grabbed returns the key of the instance being dragged.
func (d *Drag) Grabbed() string {
	return d.grabbed
}

// Hover returns the key of the current hover target.
func (d *Drag) Hover() string {
	return d.hover
}

// Grab starts a drag on an instance. Returns false for unknown keys.
func (d *Drag) Grab(key string) bool {
	if d.model.IndexOf(key) < 0 {
		return false
	}
	d.grabbed = key
	d.hover = key
	return true
}

// HoverOver records the instance currently under the dragged one.
func (d *Drag) HoverOver(key string) {
	if !d.Active() {
		return
	}
	d.hover = key
}

// Drop ends the drag, moving the grabbed instance to the hover target's
// position. Returns true when the sequence changed.
func (d *Drag) Drop() bool {
	if !d.Active() {
		return false
	}
	grabbed, hover := d.grabbed, d.hover
	d.grabbed = ""
	d.hover = ""

	if hover == "" || hover == grabbed {
		return false
	}
	target := d.model.IndexOf(hover)
	if target < 0 {
		return false
	}
	return d.model.ReorderTo(grabbed, target)
}

// Cancel abandons the drag without mutating the sequence.
func (d *Drag) Cancel() {
	d.grabbed = ""
	d.hover = ""
}

// MoveToPosition applies a typed 1-based position to an instance. The
// input is parsed as an integer and validated against the sequence
// length; invalid input is silently discarded and the prior order stands.
// Returns true when the sequence changed.
func MoveToPosition(m *Model, key, typed string) bool {
	pos, err := strconv.Atoi(strings.TrimSpace(typed))
	if err != nil {
		return false
	}
	if pos < 1 || pos > m.Len() {
		return false
	}
	return m.ReorderTo(key, pos-1)
}
