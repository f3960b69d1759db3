// SPDX-License-Identifier: Unlicense OR MIT

package anim

// CubicBezier is a CSS-style timing curve through (0,0), (X1,Y1),
// (X2,Y2), (1,1). X coordinates must be within [0, 1].
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

func bezierAxis(t, p1, p2 float64) float64 {
	// Cubic bezier with endpoints pinned at 0 and 1.
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierAxisDeriv(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

// Apply inverts the X polynomial with Newton iterations, falling
// back to bisection when the derivative vanishes.
func (c CubicBezier) Apply(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	t := x
	for i := 0; i < 8; i++ {
		cur := bezierAxis(t, c.X1, c.X2) - x
		if cur > -1e-7 && cur < 1e-7 {
			return bezierAxis(t, c.Y1, c.Y2)
		}
		d := bezierAxisDeriv(t, c.X1, c.X2)
		if d < 1e-6 && d > -1e-6 {
			break
		}
		t -= cur / d
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	// Bisection fallback.
	lo, hi := 0.0, 1.0
	for i := 0; i < 32; i++ {
		t = (lo + hi) / 2
		if bezierAxis(t, c.X1, c.X2) < x {
			lo = t
		} else {
			hi = t
		}
	}
	return bezierAxis(t, c.Y1, c.Y2)
}
