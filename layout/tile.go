// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"image"
	"time"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/gesture"
	"strata.dev/transaction"
)

// Snapshot is a texture captured from a window before a visual
// change, used for resize crossfades and close animations. The
// renderer collaborator owns the actual texture; the layout only
// tracks its identity and logical size.
type Snapshot struct {
	Size   f64.Size
	Handle any
}

// Tile wraps one window with its decorations and per-window
// animations. A tile lives in exactly one column or floating
// space at a time; it never holds a back-pointer to its owner.
type Tile struct {
	win   LayoutElement
	clock *anim.Clock

	cfg   config.Layout
	rules config.ResolvedWindowRules

	// pendingSizing is what the most recent configure asked for;
	// currentSizing is what the client has acknowledged.
	pendingSizing SizingMode
	currentSizing SizingMode

	// targetSize is always a value the geometry solver produced.
	targetSize image.Point

	// resizeFrom and resizeAnim drive the resize crossfade.
	resizeAnim *anim.Animation
	resizeFrom f64.Size
	openAnim   *anim.Animation
	moveXAnim  *anim.Animation
	moveYAnim  *anim.Animation

	snapshot *Snapshot

	resizeLatch gesture.DoubleResizeLatch

	// Pre-fullscreen restore state. Kept on the tile rather than
	// the column so moving the window between workspaces carries
	// it along.
	preFullscreenWidth        *ColumnWidth
	preFullscreenDisplay      *config.ColumnDisplay
	maximizedBeforeFullscreen bool

	// In-flight configure bookkeeping.
	pendingSerial   *Serial
	pendingSize     image.Point
	txnNotification *transaction.Notification
	// heldSize renders in place of the committed size while a
	// transaction is pending, so grouped resizes land together.
	heldSize *image.Point

	activated bool
	floating  bool
}

// NewTile wraps a window.
func NewTile(win LayoutElement, clock *anim.Clock, cfg config.Layout, rules config.ResolvedWindowRules) *Tile {
	t := &Tile{
		win:        win,
		clock:      clock,
		cfg:        cfg,
		rules:      rules,
		targetSize: win.Size(),
	}
	return t
}

// Window returns the wrapped window.
func (t *Tile) Window() LayoutElement { return t.win }

// ID returns the window's identity.
func (t *Tile) ID() WindowID { return t.win.ID() }

// Rules returns the tile's resolved window rules.
func (t *Tile) Rules() config.ResolvedWindowRules { return t.rules }

// SetRules replaces the resolved rules, e.g. after a title change
// or a config reload.
func (t *Tile) SetRules(rules config.ResolvedWindowRules) { t.rules = rules }

// Config returns the tile's effective layout configuration.
func (t *Tile) Config() config.Layout { return t.cfg }

// SetConfig replaces the effective layout configuration.
func (t *Tile) SetConfig(cfg config.Layout) { t.cfg = cfg }

// SizingMode returns the acknowledged sizing mode.
func (t *Tile) SizingMode() SizingMode { return t.currentSizing }

// PendingSizingMode returns the requested sizing mode.
func (t *Tile) PendingSizingMode() SizingMode { return t.pendingSizing }

// IsFloating reports whether the tile lives in the floating space.
func (t *Tile) IsFloating() bool { return t.floating }

// TargetSize returns the last size the geometry solver produced.
func (t *Tile) TargetSize() image.Point { return t.targetSize }

// borderWidth returns the decoration inset on each side.
func (t *Tile) borderWidth() float64 {
	if t.cfg.Border.Off || t.rules.BorderOff {
		return 0
	}
	return t.cfg.Border.Width
}

// TileSizeForWindow converts a window size to the tile's outer
// size including decorations.
func (t *Tile) TileSizeForWindow(win f64.Size) f64.Size {
	b := t.borderWidth() * 2
	return f64.Size{W: win.W + b, H: win.H + b}
}

// WindowSizeForTile converts an outer tile size back to the
// window size.
func (t *Tile) WindowSizeForTile(tile f64.Size) f64.Size {
	b := t.borderWidth() * 2
	return f64.Size{W: max(tile.W-b, 1), H: max(tile.H-b, 1)}
}

// RequestSize stages a size change for the window.
//
// The request is best-effort: the client may acknowledge with a
// different size, and AnimatedSize tracks whatever the client
// actually produced. Zero axes are rejected and keep the previous
// target. If txn is non-nil the visible change is withheld until
// the transaction clears.
func (t *Tile) RequestSize(size image.Point, mode SizingMode, animate bool, txn *transaction.Transaction) {
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	size = clampToSizeHints(size, t.win.MinSize(), t.win.MaxSize())

	sameSize := size == t.win.Size() && size == t.targetSize
	sameMode := mode == t.pendingSizing
	if sameSize && sameMode {
		return
	}

	t.targetSize = size
	t.pendingSizing = mode
	t.pendingSize = size

	if animate && !sameSize {
		t.startResizeAnimation()
	}

	states := WindowStates{
		Maximized:   mode == SizingMaximized,
		Fullscreen:  mode == SizingFullscreen,
		TiledLeft:   true,
		TiledRight:  true,
		TiledTop:    true,
		TiledBottom: true,
		Activated:   t.activated,
	}
	if t.floating {
		states.TiledLeft = false
		states.TiledRight = false
		states.TiledTop = false
		states.TiledBottom = false
	}
	serial := t.win.SetPending(size, states)
	t.pendingSerial = &serial

	if txn != nil {
		if t.txnNotification != nil {
			t.txnNotification.Clear()
		}
		t.txnNotification = txn.AddNotification()
		held := t.win.Size()
		t.heldSize = &held
		txn.OnComplete(t.NotifyTransactionComplete)
	}
	t.win.SendConfigure(serial)
}

func (t *Tile) startResizeAnimation() {
	t.resizeFrom = t.visibleSize()
	t.resizeAnim = anim.NewEasing(t.clock, 0, 1, 200*time.Millisecond, anim.EaseOutCubic{})
}

// StartContentCrossfade blends from the stored snapshot to the
// live surface without a size change, e.g. when a tabbed column
// switches which tile is visible. Without a snapshot the change
// stays instant.
func (t *Tile) StartContentCrossfade() {
	t.resizeFrom = t.visibleSize()
	t.resizeAnim = anim.NewEasing(t.clock, 0, 1, 150*time.Millisecond, anim.EaseOutCubic{})
}

// SetSnapshot stores a texture captured before the current
// change. A nil handle degrades the animation to an instant
// change; resize then skips the crossfade.
func (t *Tile) SetSnapshot(s *Snapshot) {
	t.snapshot = s
	if s == nil {
		t.resizeAnim = nil
	}
}

// TakeSnapshot returns and clears the stored snapshot.
func (t *Tile) TakeSnapshot() *Snapshot {
	s := t.snapshot
	t.snapshot = nil
	return s
}

// OnCommit handles the client acknowledging the configure with
// the given serial. Serials the tile never sent are ignored; that
// is the client's protocol violation, not ours.
func (t *Tile) OnCommit(serial Serial) {
	if t.pendingSerial == nil || *t.pendingSerial != serial {
		return
	}
	t.pendingSerial = nil
	t.currentSizing = t.pendingSizing
	if t.txnNotification != nil {
		n := t.txnNotification
		n.Clear()
		if n.Completed() {
			t.txnNotification = nil
			t.heldSize = nil
		}
	}
}

// NotifyTransactionComplete releases the held size once the
// transaction the tile participates in clears.
func (t *Tile) NotifyTransactionComplete() {
	t.txnNotification = nil
	t.heldSize = nil
}

// HasPendingConfigure reports whether a configure awaits its ack.
func (t *Tile) HasPendingConfigure() bool {
	return t.pendingSerial != nil
}

// visibleSize is the committed window size adjusted for
// transaction holds.
func (t *Tile) visibleSize() f64.Size {
	size := t.win.Size()
	if t.heldSize != nil {
		size = *t.heldSize
	}
	return f64.Size{W: float64(size.X), H: float64(size.Y)}
}

// VisibleWindowSize returns the window size the tile settles at
// once its animations finish.
func (t *Tile) VisibleWindowSize() f64.Size {
	return t.visibleSize()
}

// AnimatedWindowSize returns the interpolated window size used
// for rendering and layout.
func (t *Tile) AnimatedWindowSize() f64.Size {
	current := t.visibleSize()
	if t.resizeAnim == nil {
		return current
	}
	p := t.resizeAnim.ClampedValue()
	return f64.Size{
		W: t.resizeFrom.W + (current.W-t.resizeFrom.W)*p,
		H: t.resizeFrom.H + (current.H-t.resizeFrom.H)*p,
	}
}

// AnimatedSize returns the interpolated outer tile size.
func (t *Tile) AnimatedSize() f64.Size {
	return t.TileSizeForWindow(t.AnimatedWindowSize())
}

// RenderOffset is the animated movement offset applied on top of
// the tile's layout position.
func (t *Tile) RenderOffset() f64.Point {
	var off f64.Point
	if t.moveXAnim != nil {
		off.X = t.moveXAnim.Value()
	}
	if t.moveYAnim != nil {
		off.Y = t.moveYAnim.Value()
	}
	return off
}

// AnimateMoveFrom starts a movement animation from the given
// render-position delta down to zero.
func (t *Tile) AnimateMoveFrom(delta f64.Point) {
	if delta.X != 0 {
		from := delta.X
		if t.moveXAnim != nil {
			from += t.moveXAnim.Value()
		}
		t.moveXAnim = anim.NewSpring(t.clock, from, 0, 0, anim.DefaultSpring)
	}
	if delta.Y != 0 {
		from := delta.Y
		if t.moveYAnim != nil {
			from += t.moveYAnim.Value()
		}
		t.moveYAnim = anim.NewSpring(t.clock, from, 0, 0, anim.DefaultSpring)
	}
}

// StartOpenAnimation plays the window-open effect.
func (t *Tile) StartOpenAnimation() {
	t.openAnim = anim.NewEasing(t.clock, 0, 1, 150*time.Millisecond, anim.EaseOutExpo{})
}

// OpenProgress returns the open animation progress in [0, 1].
func (t *Tile) OpenProgress() float64 {
	if t.openAnim == nil {
		return 1
	}
	return t.openAnim.ClampedValue()
}

// ResizeProgress returns the crossfade progress and whether a
// resize animation is running.
func (t *Tile) ResizeProgress() (float64, bool) {
	if t.resizeAnim == nil {
		return 1, false
	}
	return t.resizeAnim.ClampedValue(), true
}

// ResizeLatch exposes the double-resize-click detector.
func (t *Tile) ResizeLatch() *gesture.DoubleResizeLatch {
	return &t.resizeLatch
}

// SetActivated updates the activated state sent with configures.
func (t *Tile) SetActivated(activated bool) {
	t.activated = activated
}

// AdvanceAnimations drops finished animations.
func (t *Tile) AdvanceAnimations() {
	if t.resizeAnim != nil && t.resizeAnim.IsDone() {
		t.resizeAnim = nil
		t.snapshot = nil
	}
	if t.openAnim != nil && t.openAnim.IsDone() {
		t.openAnim = nil
	}
	if t.moveXAnim != nil && t.moveXAnim.IsDone() {
		t.moveXAnim = nil
	}
	if t.moveYAnim != nil && t.moveYAnim.IsDone() {
		t.moveYAnim = nil
	}
}

// AreAnimationsOngoing reports whether any tile animation runs.
func (t *Tile) AreAnimationsOngoing() bool {
	return t.resizeAnim != nil || t.openAnim != nil ||
		t.moveXAnim != nil || t.moveYAnim != nil
}
