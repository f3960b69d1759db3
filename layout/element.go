// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"image"

	"strata.dev/f64"
)

// Serial identifies one configure sent to a window. Serials are
// monotonic per window.
type Serial uint32

// WindowStates are the states attached to a configure.
type WindowStates struct {
	Maximized  bool
	Fullscreen bool
	TiledLeft  bool
	TiledRight bool
	TiledTop   bool
	TiledBottom bool
	Activated  bool
}

// LayoutElement is the capability set the engine needs from a
// window. The compositor satisfies it with the real toplevel
// surface; tests satisfy it with TestWindow. The layout never
// assumes anything about the implementation beyond this contract.
type LayoutElement interface {
	// ID is the stable identity of the window.
	ID() WindowID

	// Size is the current committed size of the window geometry.
	Size() image.Point
	// MinSize returns the client's minimum size; zero axes mean
	// unconstrained.
	MinSize() image.Point
	// MaxSize returns the client's maximum size; zero axes mean
	// unconstrained.
	MaxSize() image.Point

	Title() string
	AppID() string
	// Parent returns the parent window, if any. Parent links form
	// a DAG; the setter side rejects cycles.
	Parent() (WindowID, bool)

	// IsInInputRegion reports whether the window-local point hits
	// the window's input region.
	IsInInputRegion(p f64.Point) bool

	// SetPending stages a size and state change and returns the
	// serial that will identify its configure.
	SetPending(size image.Point, states WindowStates) Serial
	// SendConfigure delivers the pending configure to the client.
	SendConfigure(serial Serial)

	// IsUrgent reports whether the window requests attention.
	IsUrgent() bool
}

// clampToSizeHints applies client size hints. Degenerate max
// sizes near MaxInt32 are ignored so such windows land at
// working-area size instead of overflowing arithmetic.
func clampToSizeHints(size image.Point, min, max image.Point) image.Point {
	const sane = 1 << 24
	if max.X > 0 && max.X < sane && size.X > max.X {
		size.X = max.X
	}
	if max.Y > 0 && max.Y < sane && size.Y > max.Y {
		size.Y = max.Y
	}
	// Min wins over max, matching how clients are clamped.
	if min.X > 0 && size.X < min.X {
		size.X = min.X
	}
	if min.Y > 0 && size.Y < min.Y {
		size.Y = min.Y
	}
	if size.X < 1 {
		size.X = 1
	}
	if size.Y < 1 {
		size.Y = 1
	}
	return size
}
