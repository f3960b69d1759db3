// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gesture implements the interactive gesture state machines
of the layout: the one dimensional swipe tracker behind view
panning and workspace switching, and the double-resize latch.

Gestures are explicit state held on the owning object. Begin,
Update and End are plain synchronous calls; the event loop samples
any resulting animation afterwards.
*/
package gesture

import (
	"time"

	"strata.dev/internal/fling"
)

// Touchpad deltas arrive in "swipe units" and are scaled up to
// feel comparable to pointer motion across a workspace.
const TouchpadScale = 3.0

// Swipe tracks a one dimensional pan gesture and estimates its
// velocity for the end-of-gesture snapping decision.
type Swipe struct {
	estimator fling.Extrapolation

	active     bool
	isTouchpad bool
	delta      float64
}

// Begin starts tracking. A gesture already in progress restarts.
func (s *Swipe) Begin(now time.Duration, isTouchpad bool) {
	s.estimator = fling.Extrapolation{}
	s.active = true
	s.isTouchpad = isTouchpad
	s.delta = 0
	s.estimator.Sample(now, 0)
}

// Update accumulates a movement delta and returns the total. For
// touchpads the delta is normalized to workspace units.
func (s *Swipe) Update(now time.Duration, delta float64) float64 {
	if !s.active {
		return s.delta
	}
	if s.isTouchpad {
		delta *= TouchpadScale
	}
	s.delta += delta
	s.estimator.Sample(now, s.delta)
	return s.delta
}

// End finishes the gesture and returns the velocity estimate. The
// tracker becomes inactive either way and Delta keeps the
// accumulated movement; cancelled gestures report a zero estimate
// so callers can restore the starting state.
func (s *Swipe) End(cancelled bool) fling.Estimate {
	if !s.active {
		return fling.Estimate{}
	}
	s.active = false
	if cancelled {
		return fling.Estimate{}
	}
	return s.estimator.Estimate()
}

// Active reports whether a gesture is in progress.
func (s *Swipe) Active() bool { return s.active }

// Delta returns the accumulated movement.
func (s *Swipe) Delta() float64 { return s.delta }

// IsTouchpad reports the input device kind given at Begin.
func (s *Swipe) IsTouchpad() bool { return s.isTouchpad }
