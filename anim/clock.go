// SPDX-License-Identifier: Unlicense OR MIT

/*
Package anim implements the virtual clock, single-value animations
and the deterministic timer queue that drive all visual state
changes in the layout.

Animations are sampled, never awaited: the event loop calls
Clock.Tick once per iteration and every animation reads the
resulting time through the shared clock.
*/
package anim

import "time"

// Clock is a monotonic virtual clock. Its rate can be adjusted for
// slow-motion debugging, and tests advance it manually. The zero
// value is a valid clock at rate 1 positioned at instant zero.
type Clock struct {
	// now is the virtual time.
	now time.Duration
	// lastTick is the unscaled time of the previous Tick.
	lastTick time.Duration
	ticked   bool

	rate              float64
	completeInstantly bool
}

// NewClock returns a clock positioned at now.
func NewClock(now time.Duration) *Clock {
	return &Clock{now: now, lastTick: now, ticked: true}
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// NowUnadjusted returns the time the last Tick reported, before
// rate scaling. Frame scheduling uses this; animations use Now.
func (c *Clock) NowUnadjusted() time.Duration {
	return c.lastTick
}

// Tick advances the clock given the unscaled monotonic time now.
// The virtual time advances by the elapsed interval multiplied by
// the clock rate. Time never goes backwards.
func (c *Clock) Tick(now time.Duration) {
	if !c.ticked {
		c.lastTick = now
		c.ticked = true
	}
	elapsed := now - c.lastTick
	if elapsed < 0 {
		elapsed = 0
	}
	c.lastTick = now
	rate := c.rate
	if rate == 0 {
		rate = 1
	}
	c.now += time.Duration(float64(elapsed) * rate)
}

// Advance moves the virtual time forward by d directly. Tests use
// this instead of Tick.
func (c *Clock) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.now += d
	c.lastTick += d
	c.ticked = true
}

// Rate returns the clock rate. A zero-value clock runs at rate 1.
func (c *Clock) Rate() float64 {
	if c.rate == 0 {
		return 1
	}
	return c.rate
}

// SetRate adjusts how fast virtual time runs relative to real
// time. Rates at or below zero are clamped to a very slow crawl
// rather than stopping time, so animations still converge.
func (c *Clock) SetRate(rate float64) {
	const minRate = 1e-3
	if rate < minRate {
		rate = minRate
	}
	c.rate = rate
}

// CompleteInstantly reports whether animations should skip to
// their final value immediately.
func (c *Clock) CompleteInstantly() bool {
	return c.completeInstantly
}

// SetCompleteInstantly makes every animation report completion on
// its first sample. Used by tests and the "reduce motion" setting.
func (c *Clock) SetCompleteInstantly(v bool) {
	c.completeInstantly = v
}
