// SPDX-License-Identifier: Unlicense OR MIT

package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockRate(t *testing.T) {
	c := NewClock(0)
	c.Tick(100 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, c.Now())

	c.SetRate(0.5)
	c.Tick(200 * time.Millisecond)
	assert.Equal(t, 150*time.Millisecond, c.Now())

	// Time never goes backwards.
	c.Tick(50 * time.Millisecond)
	assert.Equal(t, 150*time.Millisecond, c.Now())
}

func TestEasingAnimation(t *testing.T) {
	c := NewClock(0)
	a := NewEasing(c, 0, 100, 200*time.Millisecond, Linear{})
	assert.Equal(t, 0.0, a.Value())
	assert.False(t, a.IsDone())

	c.Advance(100 * time.Millisecond)
	assert.InDelta(t, 50, a.Value(), 0.001)

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, 100.0, a.Value())
	assert.True(t, a.IsDone())
}

func TestAnimationReplaceToPreservesValue(t *testing.T) {
	c := NewClock(0)
	a := NewEasing(c, 0, 100, 200*time.Millisecond, Linear{})
	c.Advance(100 * time.Millisecond)
	mid := a.Value()
	a.ReplaceTo(0)
	assert.InDelta(t, mid, a.Value(), 0.001, "retargeting keeps the displayed value")
	assert.Equal(t, 0.0, a.To())
	c.Advance(time.Hour)
	assert.Equal(t, 0.0, a.Value())
}

func TestCompleteInstantly(t *testing.T) {
	c := NewClock(0)
	c.SetCompleteInstantly(true)
	a := NewEasing(c, 0, 100, time.Hour, Linear{})
	assert.Equal(t, 100.0, a.Value())
	assert.True(t, a.IsDone())
}

func TestSpringConverges(t *testing.T) {
	c := NewClock(0)
	a := NewSpring(c, 0, 100, 0, DefaultSpring)
	require.False(t, a.IsDone())

	last := a.Value()
	for i := 0; i < 100; i++ {
		c.Advance(16 * time.Millisecond)
		v := a.Value()
		assert.GreaterOrEqual(t, v+0.001, last, "critically damped spring must not oscillate")
		last = v
	}
	assert.True(t, a.IsDone())
	assert.InDelta(t, 100, a.Value(), 0.01)
}

func TestSpringPicksUpVelocity(t *testing.T) {
	c := NewClock(0)
	// Moving away from the target at first.
	a := NewSpring(c, 0, 100, -500, DefaultSpring)
	c.Advance(5 * time.Millisecond)
	assert.Less(t, a.Value(), 0.0, "initial velocity carries the value past the start")
	for i := 0; i < 200; i++ {
		c.Advance(16 * time.Millisecond)
	}
	assert.True(t, a.IsDone())
}

func TestClampedValue(t *testing.T) {
	c := NewClock(0)
	a := NewSpring(c, 0, 100, 5000, DefaultSpring)
	for i := 0; i < 50; i++ {
		c.Advance(8 * time.Millisecond)
		v := a.ClampedValue()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestCubicBezier(t *testing.T) {
	// ease-in-out per CSS.
	curve := CubicBezier{X1: 0.42, Y1: 0, X2: 0.58, Y2: 1}
	assert.Equal(t, 0.0, curve.Apply(0))
	assert.Equal(t, 1.0, curve.Apply(1))
	assert.InDelta(t, 0.5, curve.Apply(0.5), 0.001)
	assert.Less(t, curve.Apply(0.1), 0.1, "slow start")
	assert.Greater(t, curve.Apply(0.9), 0.9, "fast tail")
}

func TestTimerQueueOrderAndCancel(t *testing.T) {
	var q TimerQueue
	var fired []int
	tok1 := q.Insert(10*time.Millisecond, func(time.Duration) { fired = append(fired, 1) })
	q.Insert(5*time.Millisecond, func(time.Duration) { fired = append(fired, 2) })
	q.Insert(15*time.Millisecond, func(time.Duration) { fired = append(fired, 3) })

	require.True(t, q.Cancel(tok1))
	require.False(t, q.Cancel(tok1), "double cancel reports not pending")

	q.Advance(12 * time.Millisecond)
	assert.Equal(t, []int{2}, fired)
	deadline, ok := q.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, 15*time.Millisecond, deadline)

	q.Advance(20 * time.Millisecond)
	assert.Equal(t, []int{2, 3}, fired)
	assert.Equal(t, 0, q.Len())
}

func TestTimerInsertedDuringAdvanceFires(t *testing.T) {
	var q TimerQueue
	var fired []string
	q.Insert(5*time.Millisecond, func(now time.Duration) {
		fired = append(fired, "outer")
		q.Insert(7*time.Millisecond, func(time.Duration) {
			fired = append(fired, "inner")
		})
	})
	q.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"outer", "inner"}, fired)
}
