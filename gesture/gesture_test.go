// SPDX-License-Identifier: Unlicense OR MIT

package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwipeAccumulatesAndEstimates(t *testing.T) {
	var s Swipe
	s.Begin(0, false)
	require.True(t, s.Active())

	now := time.Duration(0)
	for i := 0; i < 10; i++ {
		now += 8 * time.Millisecond
		s.Update(now, 16)
	}
	assert.Equal(t, 160.0, s.Delta())

	est := s.End(false)
	assert.False(t, s.Active())
	assert.Greater(t, est.Velocity, 1000.0, "steady 2000 px/s drag")
	assert.Greater(t, est.Distance, 0.0)
}

func TestSwipeCancelReportsZero(t *testing.T) {
	var s Swipe
	s.Begin(0, false)
	s.Update(8*time.Millisecond, 100)
	est := s.End(true)
	assert.Equal(t, 0.0, est.Velocity)
	assert.Equal(t, 0.0, est.Distance)
}

func TestSwipeTouchpadScaling(t *testing.T) {
	var s Swipe
	s.Begin(0, true)
	s.Update(8*time.Millisecond, 10)
	assert.Equal(t, 10*TouchpadScale, s.Delta())
}

func TestSwipeUpdateAfterEndIgnored(t *testing.T) {
	var s Swipe
	s.Begin(0, false)
	s.Update(8*time.Millisecond, 50)
	s.End(false)
	assert.Equal(t, 50.0, s.Update(16*time.Millisecond, 50))
}

func TestDoubleResizeLatchHorizontal(t *testing.T) {
	var l DoubleResizeLatch
	assert.Equal(t, ShortcutNone, l.Press(0, EdgeLeft|EdgeRight))
	assert.Equal(t, ShortcutToggleFullWidth, l.Press(100*time.Millisecond, EdgeRight))
}

func TestDoubleResizeLatchVertical(t *testing.T) {
	var l DoubleResizeLatch
	assert.Equal(t, ShortcutNone, l.Press(0, EdgeTop))
	assert.Equal(t, ShortcutResetHeight, l.Press(100*time.Millisecond, EdgeTop|EdgeBottom))
}

func TestDoubleResizeLatchExpires(t *testing.T) {
	var l DoubleResizeLatch
	l.Press(0, EdgeLeft)
	assert.Equal(t, ShortcutNone, l.Press(DoubleClickTime+time.Millisecond, EdgeLeft),
		"slow second click is a fresh first click")
	assert.Equal(t, ShortcutToggleFullWidth, l.Press(DoubleClickTime+100*time.Millisecond, EdgeLeft))
}

func TestDoubleResizeLatchNonOverlappingEdges(t *testing.T) {
	var l DoubleResizeLatch
	l.Press(0, EdgeLeft)
	assert.Equal(t, ShortcutNone, l.Press(100*time.Millisecond, EdgeTop),
		"disjoint edge masks do not trigger")
}

func TestDoubleResizeLatchTripleClick(t *testing.T) {
	var l DoubleResizeLatch
	l.Press(0, EdgeLeft)
	require.Equal(t, ShortcutToggleFullWidth, l.Press(100*time.Millisecond, EdgeLeft))
	// Third click clears the latch...
	assert.Equal(t, ShortcutNone, l.Press(200*time.Millisecond, EdgeLeft))
	// ...so the fourth does not re-trigger.
	assert.Equal(t, ShortcutNone, l.Press(300*time.Millisecond, EdgeLeft))
	// A fifth click now completes a fresh double click.
	assert.Equal(t, ShortcutToggleFullWidth, l.Press(400*time.Millisecond, EdgeLeft))
}
