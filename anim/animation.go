// SPDX-License-Identifier: Unlicense OR MIT

package anim

import (
	"math"
	"time"
)

// Animation interpolates a single value over virtual time.
//
// An animation is either easing-based (duration + curve) or
// spring-based (converges when displacement and velocity drop
// under the epsilon). Both kinds share the same sampling API so
// callers never branch on the kind.
type Animation struct {
	clock *Clock

	from, to float64
	start    time.Duration

	kind kind

	// Easing.
	duration time.Duration
	curve    Curve

	// Spring.
	spring          Spring
	initialVelocity float64
}

type kind uint8

const (
	kindEasing kind = iota
	kindSpring
)

// Curve shapes the progress of an easing animation. Input and
// output are both in [0, 1].
type Curve interface {
	Apply(t float64) float64
}

// Linear is the identity curve.
type Linear struct{}

func (Linear) Apply(t float64) float64 { return t }

// EaseOutCubic is the default decelerating curve.
type EaseOutCubic struct{}

func (EaseOutCubic) Apply(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// EaseOutExpo approaches the target asymptotically fast.
type EaseOutExpo struct{}

func (EaseOutExpo) Apply(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// NewEasing returns an animation from from to to over duration.
func NewEasing(clock *Clock, from, to float64, duration time.Duration, curve Curve) *Animation {
	if curve == nil {
		curve = EaseOutCubic{}
	}
	if duration < 0 {
		duration = 0
	}
	return &Animation{
		clock:    clock,
		from:     from,
		to:       to,
		start:    clock.Now(),
		kind:     kindEasing,
		duration: duration,
		curve:    curve,
	}
}

// NewSpring returns a spring animation from from to to with the
// given initial velocity in units per second.
func NewSpring(clock *Clock, from, to, velocity float64, spring Spring) *Animation {
	return &Animation{
		clock:           clock,
		from:            from,
		to:              to,
		start:           clock.Now(),
		kind:            kindSpring,
		spring:          spring,
		initialVelocity: velocity,
	}
}

// From returns the starting value.
func (a *Animation) From() float64 { return a.from }

// To returns the target value.
func (a *Animation) To() float64 { return a.to }

// Value samples the animation at the clock's current time. Easing
// curves may overshoot outside [from, to]; use ClampedValue when
// geometry must stay within the endpoints.
func (a *Animation) Value() float64 {
	if a.clock.CompleteInstantly() {
		return a.to
	}
	elapsed := a.clock.Now() - a.start
	if elapsed <= 0 {
		return a.from
	}
	switch a.kind {
	case kindSpring:
		return a.spring.Value(a.from, a.to, a.initialVelocity, elapsed)
	default:
		if a.duration == 0 || elapsed >= a.duration {
			return a.to
		}
		t := float64(elapsed) / float64(a.duration)
		return a.from + (a.to-a.from)*a.curve.Apply(t)
	}
}

// ClampedValue is Value limited to the interval between from and to.
func (a *Animation) ClampedValue() float64 {
	v := a.Value()
	lo, hi := a.from, a.to
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// IsDone reports whether the animation has reached its target.
func (a *Animation) IsDone() bool {
	if a.clock.CompleteInstantly() {
		return true
	}
	elapsed := a.clock.Now() - a.start
	if elapsed < 0 {
		return false
	}
	switch a.kind {
	case kindSpring:
		return a.spring.IsDone(a.from, a.to, a.initialVelocity, elapsed)
	default:
		return elapsed >= a.duration
	}
}

// Velocity returns the current rate of change in units per second.
func (a *Animation) Velocity() float64 {
	if a.IsDone() {
		return 0
	}
	elapsed := a.clock.Now() - a.start
	if elapsed < 0 {
		elapsed = 0
	}
	switch a.kind {
	case kindSpring:
		return a.spring.Velocity(a.from, a.to, a.initialVelocity, elapsed)
	default:
		if a.duration == 0 {
			return 0
		}
		// Finite difference; easing curves have no closed-form
		// derivative worth maintaining here.
		const dt = time.Millisecond
		t0 := float64(elapsed) / float64(a.duration)
		t1 := float64(elapsed+dt) / float64(a.duration)
		if t1 > 1 {
			t1 = 1
		}
		dv := (a.curve.Apply(t1) - a.curve.Apply(t0)) * (a.to - a.from)
		return dv / dt.Seconds()
	}
}

// ReplaceTo retargets the animation at a new destination,
// preserving the currently displayed value and, for springs, the
// current velocity. Repeated retargeting therefore stays smooth.
func (a *Animation) ReplaceTo(to float64) {
	value := a.Value()
	velocity := a.Velocity()
	a.from = value
	a.to = to
	a.start = a.clock.Now()
	if a.kind == kindSpring {
		a.initialVelocity = velocity
	}
}

// Offset shifts both endpoints by delta. Used when the coordinate
// space underneath an animation moves, e.g. a column is inserted
// to the left of an animating view offset.
func (a *Animation) Offset(delta float64) {
	a.from += delta
	a.to += delta
}
