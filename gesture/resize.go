// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import "time"

// ResizeEdges is a bit mask of the window edges a resize grabs.
type ResizeEdges uint8

const (
	EdgeLeft ResizeEdges = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Horizontal reports whether the mask includes a horizontal edge.
func (e ResizeEdges) Horizontal() bool {
	return e&(EdgeLeft|EdgeRight) != 0
}

// Vertical reports whether the mask includes a vertical edge.
func (e ResizeEdges) Vertical() bool {
	return e&(EdgeTop|EdgeBottom) != 0
}

// DoubleClickTime is the window within which two resize starts
// count as a double click.
const DoubleClickTime = 400 * time.Millisecond

// ResizeShortcut is the action triggered by a double resize click.
type ResizeShortcut uint8

const (
	ShortcutNone ResizeShortcut = iota
	// ShortcutToggleFullWidth toggles the column between its width
	// and the full working area.
	ShortcutToggleFullWidth
	// ShortcutResetHeight returns the window height to automatic.
	ShortcutResetHeight
)

// DoubleResizeLatch detects two rapid interactive-resize starts on
// overlapping edges. A third click within the window clears the
// latch so a fourth click does not re-trigger the shortcut.
type DoubleResizeLatch struct {
	state     latchState
	pressedAt time.Duration
	edges     ResizeEdges
}

type latchState uint8

const (
	latchEmpty latchState = iota
	latchPrimed
	latchTriggered
)

// Press records a resize start and returns the shortcut to run,
// if any.
func (l *DoubleResizeLatch) Press(now time.Duration, edges ResizeEdges) ResizeShortcut {
	withinWindow := now-l.pressedAt <= DoubleClickTime
	switch l.state {
	case latchPrimed:
		if withinWindow {
			overlap := l.edges & edges
			if overlap.Horizontal() {
				l.state = latchTriggered
				l.pressedAt = now
				return ShortcutToggleFullWidth
			}
			if overlap.Vertical() {
				l.state = latchTriggered
				l.pressedAt = now
				return ShortcutResetHeight
			}
		}
	case latchTriggered:
		if withinWindow {
			l.state = latchEmpty
			return ShortcutNone
		}
	}
	l.state = latchPrimed
	l.pressedAt = now
	l.edges = edges
	return ShortcutNone
}

// Clear drops any stored press.
func (l *DoubleResizeLatch) Clear() {
	l.state = latchEmpty
}
