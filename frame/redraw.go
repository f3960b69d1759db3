// SPDX-License-Identifier: Unlicense OR MIT

package frame

import (
	"time"

	"strata.dev/anim"
)

// RedrawStateKind is the per-output redraw state.
type RedrawStateKind uint8

const (
	// Idle: no frame scheduled.
	Idle RedrawStateKind = iota
	// Queued: a redraw will render on the next loop iteration.
	Queued
	// WaitingForVBlank: a frame was submitted to the display.
	WaitingForVBlank
	// WaitingForEstimatedVBlank: a software timer emulates the
	// missing hardware vblank.
	WaitingForEstimatedVBlank
	// WaitingForEstimatedVBlankAndQueued: a redraw arrived while
	// waiting on the estimated vblank.
	WaitingForEstimatedVBlankAndQueued
)

func (k RedrawStateKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Queued:
		return "queued"
	case WaitingForVBlank:
		return "waiting-for-vblank"
	case WaitingForEstimatedVBlank:
		return "waiting-for-estimated-vblank"
	case WaitingForEstimatedVBlankAndQueued:
		return "waiting-for-estimated-vblank-and-queued"
	default:
		return "unknown"
	}
}

// Redraw is the redraw state machine of one output. Redraws for
// an output are strictly serialized through it.
type Redraw struct {
	outputName string
	state      RedrawStateKind

	// estimatedPresentation is the predicted time of the frame in
	// flight while WaitingForVBlank.
	estimatedPresentation time.Duration

	clock    *Clock
	throttle *VBlankThrottle

	timers     *anim.TimerQueue
	timerToken anim.TimerToken
}

// NewRedraw returns an idle redraw FSM for one output.
func NewRedraw(outputName string, clock *Clock, timers *anim.TimerQueue) *Redraw {
	return &Redraw{
		outputName: outputName,
		clock:      clock,
		throttle:   NewVBlankThrottle(outputName, timers),
		timers:     timers,
	}
}

// State returns the current state.
func (r *Redraw) State() RedrawStateKind { return r.state }

// FrameClock returns the output's frame clock.
func (r *Redraw) FrameClock() *Clock { return r.clock }

// Throttle returns the output's vblank throttle.
func (r *Redraw) Throttle() *VBlankThrottle { return r.throttle }

// QueueRedraw requests a render. While a frame is in flight the
// request is remembered, not acted on.
func (r *Redraw) QueueRedraw() {
	switch r.state {
	case Idle:
		r.state = Queued
	case WaitingForEstimatedVBlank:
		r.state = WaitingForEstimatedVBlankAndQueued
	case Queued, WaitingForVBlank, WaitingForEstimatedVBlankAndQueued:
		// Already covered.
	}
}

// TakeRender reports whether the render path should draw this
// iteration. It does not change the state; FrameSubmitted or
// FrameSkipped settle the queued request.
func (r *Redraw) TakeRender() bool {
	return r.state == Queued
}

// FrameSubmitted transitions to WaitingForVBlank after the
// renderer handed the frame to the display.
func (r *Redraw) FrameSubmitted(estimatedPresentation time.Duration) {
	if r.state != Queued {
		return
	}
	r.state = WaitingForVBlank
	r.estimatedPresentation = estimatedPresentation
}

// FrameSkipped returns to idle when the render path decided
// nothing changed.
func (r *Redraw) FrameSkipped() {
	if r.state == Queued {
		r.state = Idle
	}
}

// StartEstimatedVBlank arms the software vsync timer for
// backends without hardware vblank events. fire runs when the
// estimated vblank elapses.
func (r *Redraw) StartEstimatedVBlank(now time.Duration, fire func(now time.Duration)) {
	if r.state != Queued {
		return
	}
	target := r.clock.NextPresentationTime(now)
	if target <= now {
		refresh, ok := r.clock.RefreshInterval()
		if !ok {
			refresh = 16667 * time.Microsecond
		}
		target = now + refresh
	}
	r.state = WaitingForEstimatedVBlank
	r.estimatedPresentation = target
	r.timerToken = r.timers.Insert(target, func(at time.Duration) {
		r.onEstimatedVBlank(at)
		fire(at)
	})
}

func (r *Redraw) onEstimatedVBlank(now time.Duration) {
	r.clock.Presented(now)
	switch r.state {
	case WaitingForEstimatedVBlank:
		r.state = Idle
	case WaitingForEstimatedVBlankAndQueued:
		r.state = Queued
	}
}

// OnVBlank processes a hardware vblank. The throttle may delay
// spuriously early ones; when it does, the deferred callback
// finishes the vblank at the corrected time. animationsOngoing
// keeps the output rendering.
func (r *Redraw) OnVBlank(timestamp time.Duration, animationsOngoing bool) {
	if r.state != WaitingForVBlank {
		return
	}
	refresh, hasRefresh := r.clock.RefreshInterval()
	var refreshPtr *time.Duration
	if hasRefresh {
		refreshPtr = &refresh
	}
	delayed := r.throttle.Throttle(refreshPtr, timestamp, func(at time.Duration) {
		r.finishVBlank(at, animationsOngoing)
	})
	if !delayed {
		r.finishVBlank(timestamp, animationsOngoing)
	}
}

func (r *Redraw) finishVBlank(timestamp time.Duration, animationsOngoing bool) {
	r.clock.Presented(timestamp)
	if animationsOngoing {
		r.state = Queued
	} else {
		r.state = Idle
	}
}

// Cancel stops pending timers, e.g. on output disconnect.
func (r *Redraw) Cancel() {
	r.timers.Cancel(r.timerToken)
	r.throttle.Cancel()
	r.state = Idle
}
