// SPDX-License-Identifier: Unlicense OR MIT

package frame

import (
	"log/slog"
	"time"

	"strata.dev/anim"
)

// VBlankThrottle delays vblanks that arrive well before the
// refresh interval has passed. Some drivers deliver them early,
// which leads to tearing and inconsistent timings.
//
// Each early vblank is deferred to one refresh interval after the
// previous effective vblank, so a burst of early events spreads
// out into proper refresh slots.
type VBlankThrottle struct {
	outputName string
	timers     *anim.TimerQueue

	// lastEffective is when the previous vblank was delivered, or
	// will be delivered if it is still deferred.
	lastEffective  time.Duration
	hasLast        bool
	tokens         []anim.TimerToken
	printedWarning bool

	log *slog.Logger
}

// NewVBlankThrottle returns a throttle for one output.
func NewVBlankThrottle(outputName string, timers *anim.TimerQueue) *VBlankThrottle {
	return &VBlankThrottle{
		outputName: outputName,
		timers:     timers,
		log:        slog.Default(),
	}
}

// Throttle checks a vblank timestamp against the refresh
// interval. When the vblank came too early the callback is
// deferred into the next free refresh slot and Throttle reports
// true; the caller must then skip its own handling. A nil
// refresh interval (VRR) disables throttling.
func (t *VBlankThrottle) Throttle(refresh *time.Duration, timestamp time.Duration, callback func(now time.Duration)) bool {
	if refresh == nil || !t.hasLast {
		t.lastEffective = timestamp
		t.hasLast = true
		return false
	}

	passed := timestamp - t.lastEffective
	if passed >= *refresh/2 {
		t.lastEffective = timestamp
		return false
	}

	if !t.printedWarning {
		t.printedWarning = true
		t.log.Warn("output running faster than expected, throttling vblanks",
			"output", t.outputName,
			"expected_refresh", *refresh,
			"vblank_after", passed)
	}

	fireAt := t.lastEffective + *refresh
	t.lastEffective = fireAt
	token := t.timers.Insert(fireAt, func(time.Duration) {
		callback(fireAt)
	})
	t.tokens = append(t.tokens, token)
	return true
}

// Cancel drops every pending deferred vblank.
func (t *VBlankThrottle) Cancel() {
	for _, token := range t.tokens {
		t.timers.Cancel(token)
	}
	t.tokens = nil
}
