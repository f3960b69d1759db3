// SPDX-License-Identifier: Unlicense OR MIT

/*
Package unit implements logical and physical pixel units.

Layout happens in logical pixels, independent of the output's
scale factor. Physical pixels are derived values used only when
rounding geometry to the pixel grid of a particular output.
*/
package unit

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Metric converts logical values to physical pixels for one output.
type Metric struct {
	// Scale is the output scale factor, e.g. 2 for HiDPI.
	Scale float64
}

// Px converts a logical value to physical pixels.
func (m Metric) Px(v float64) int {
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	return int(math.Round(v * scale))
}

// RoundLogical snaps a logical value to the output's physical
// pixel grid. Geometry snapped this way lines up across tiles
// regardless of the fractional scale in use.
func (m Metric) RoundLogical(v float64) float64 {
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	return math.Round(v*scale) / scale
}

// FloorLogical snaps a logical value down to the pixel grid.
func (m Metric) FloorLogical(v float64) float64 {
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	return math.Floor(v*scale) / scale
}

func (m Metric) String() string {
	return fmt.Sprintf("%gx", m.Scale)
}

// Clamp limits v to the range [lo, hi]. lo wins when the range is
// inverted, matching how window minimum sizes beat maximums.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
