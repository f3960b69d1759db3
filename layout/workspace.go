// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"time"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/transaction"
)

// FocusSide is which plane of a workspace holds the focus.
type FocusSide uint8

const (
	FocusScrolling FocusSide = iota
	FocusFloating
)

// ClosingTile is a tile snapshot playing its close animation
// after the window is gone.
type ClosingTile struct {
	Snapshot Snapshot
	Pos      f64.Point
	Anim     *anim.Animation
}

// Workspace is one unit of the vertical strip on a monitor: a
// scrolling space plus a floating plane.
type Workspace struct {
	id   WorkspaceID
	name string

	scrolling *ScrollingSpace
	floating  *FloatingSpace
	focusSide FocusSide

	workingArea f64.Rectangle
	outputSize  f64.Size

	// baseConfig is the monitor-level config this workspace
	// overlays its own part onto.
	baseConfig     config.Layout
	configOverride *config.LayoutPart

	// originalOutput returns named workspaces to their home
	// output when it reconnects.
	originalOutput string

	closing []*ClosingTile

	clock *anim.Clock
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(clock *anim.Clock, outputSize f64.Size, cfg config.Layout) *Workspace {
	ws := &Workspace{
		id:         NextWorkspaceID(),
		outputSize: outputSize,
		baseConfig: cfg,
		clock:      clock,
	}
	ws.workingArea = computeWorkingArea(outputSize, ws.Config().Struts)
	ws.scrolling = NewScrollingSpace(clock, ws.workingArea, ws.Config())
	ws.floating = NewFloatingSpace(clock, ws.workingArea, ws.Config())
	return ws
}

func computeWorkingArea(size f64.Size, struts config.Struts) f64.Rectangle {
	r := f64.Rect(struts.Left, struts.Top,
		size.W-struts.Left-struts.Right,
		size.H-struts.Top-struts.Bottom)
	if r.Empty() {
		r = f64.Rect(0, 0, size.W, size.H)
	}
	return r
}

// ID returns the workspace identity.
func (w *Workspace) ID() WorkspaceID { return w.id }

// Name returns the workspace name; empty means unnamed.
func (w *Workspace) Name() string { return w.name }

// SetName names the workspace, making it persistent.
func (w *Workspace) SetName(name string) { w.name = name }

// IsNamed reports whether the workspace has a name.
func (w *Workspace) IsNamed() bool { return w.name != "" }

// OriginalOutput returns the name of the output this workspace
// considers home.
func (w *Workspace) OriginalOutput() string { return w.originalOutput }

// SetOriginalOutput records the home output.
func (w *Workspace) SetOriginalOutput(name string) { w.originalOutput = name }

// Scrolling returns the scrolling plane.
func (w *Workspace) Scrolling() *ScrollingSpace { return w.scrolling }

// Floating returns the floating plane.
func (w *Workspace) Floating() *FloatingSpace { return w.floating }

// FocusSide returns which plane holds the focus.
func (w *Workspace) FocusSide() FocusSide { return w.focusSide }

// SetFocusSide switches the focused plane.
func (w *Workspace) SetFocusSide(side FocusSide) { w.focusSide = side }

// WorkingArea returns the output size minus struts.
func (w *Workspace) WorkingArea() f64.Rectangle { return w.workingArea }

// Config returns the workspace's effective layout configuration.
func (w *Workspace) Config() config.Layout {
	return w.baseConfig.Overlay(w.configOverride)
}

// SetConfigOverride installs the workspace-local override.
func (w *Workspace) SetConfigOverride(part *config.LayoutPart) {
	w.configOverride = part
	w.applyConfig()
}

// UpdateBaseConfig pushes a new monitor-level configuration.
func (w *Workspace) UpdateBaseConfig(outputSize f64.Size, cfg config.Layout) {
	w.outputSize = outputSize
	w.baseConfig = cfg
	w.applyConfig()
}

func (w *Workspace) applyConfig() {
	cfg := w.Config()
	w.workingArea = computeWorkingArea(w.outputSize, cfg.Struts)
	w.scrolling.UpdateConfig(w.workingArea, cfg)
	w.floating.UpdateConfig(w.workingArea, cfg)
}

// IsEmpty reports whether the workspace holds no windows.
func (w *Workspace) IsEmpty() bool {
	return w.scrolling.IsEmpty() && w.floating.IsEmpty()
}

// HasWindow reports whether the window lives on this workspace.
func (w *Workspace) HasWindow(id WindowID) bool {
	return w.FindTile(id) != nil
}

// FindTile returns the window's tile from either plane.
func (w *Workspace) FindTile(id WindowID) *Tile {
	if t := w.scrolling.FindTile(id); t != nil {
		return t
	}
	return w.floating.FindTile(id)
}

// ActiveTile returns the focused tile of the focused plane.
func (w *Workspace) ActiveTile() *Tile {
	if w.focusSide == FocusFloating {
		if t := w.floating.ActiveTile(); t != nil {
			return t
		}
	}
	return w.scrolling.ActiveTile()
}

// AddTile adds a window to the appropriate plane.
func (w *Workspace) AddTile(tile *Tile, target AddTarget, activate bool, width ColumnWidth, display config.ColumnDisplay) {
	floating := tile.rules.OpenFloating != nil && *tile.rules.OpenFloating
	if floating {
		var pos *f64.Point
		if p := tile.rules.DefaultFloatingPos; p != nil {
			pos = &f64.Point{X: p.X, Y: p.Y}
		}
		w.floating.AddTile(tile, pos)
		if activate {
			w.focusSide = FocusFloating
		}
		return
	}
	w.scrolling.AddTile(tile, target, activate, width, display)
	if activate {
		w.focusSide = FocusScrolling
	}
}

// RemoveTile removes a window from whichever plane holds it.
func (w *Workspace) RemoveTile(id WindowID) *Tile {
	if t := w.scrolling.RemoveTile(id); t != nil {
		return t
	}
	return w.floating.RemoveTile(id)
}

// StartCloseAnimation begins the close effect from a snapshot
// captured before the window went away. A nil snapshot degrades
// to an instant close.
func (w *Workspace) StartCloseAnimation(snapshot *Snapshot, pos f64.Point) {
	if snapshot == nil {
		return
	}
	w.closing = append(w.closing, &ClosingTile{
		Snapshot: *snapshot,
		Pos:      pos,
		Anim:     anim.NewEasing(w.clock, 1, 0, 150*time.Millisecond, anim.EaseOutCubic{}),
	})
}

// ClosingTiles returns the in-flight close animations.
func (w *Workspace) ClosingTiles() []*ClosingTile { return w.closing }

// ToggleFloating moves the active window between planes.
func (w *Workspace) ToggleFloating() bool {
	tile := w.ActiveTile()
	if tile == nil {
		return false
	}
	id := tile.ID()
	if w.floating.FindTile(id) != nil {
		t := w.floating.RemoveTile(id)
		w.scrolling.AddTile(t, AddTarget{Kind: AddAuto}, true, defaultWidthFor(t, w.Config()), w.Config().DefaultColumnDisplay)
		w.focusSide = FocusScrolling
		return true
	}
	t := w.scrolling.RemoveTile(id)
	if t == nil {
		return false
	}
	w.floating.AddTile(t, nil)
	w.focusSide = FocusFloating
	return true
}

// defaultWidthFor picks the column width for a window honoring
// its rules and the config default.
func defaultWidthFor(tile *Tile, cfg config.Layout) ColumnWidth {
	preset := tile.rules.DefaultColumnWidth
	if preset == nil {
		preset = cfg.DefaultColumnWidth
	}
	if preset == nil {
		// No default: size the column after the window itself.
		size := tile.Window().Size()
		if size.X > 0 {
			return FixedWidth(float64(size.X))
		}
		return ProportionWidth(0.5)
	}
	if preset.IsFixed() {
		return FixedWidth(float64(preset.Fixed))
	}
	return ProportionWidth(preset.Proportion)
}

// Update pushes sizes through both planes.
func (w *Workspace) Update(animate bool, txn *transaction.Transaction) {
	w.scrolling.Update(animate, txn)
	w.floating.Update(animate, txn)
}

// AdvanceAnimations settles finished animations on both planes.
func (w *Workspace) AdvanceAnimations() {
	w.scrolling.AdvanceAnimations()
	w.floating.AdvanceAnimations()
	remaining := w.closing[:0]
	for _, c := range w.closing {
		if !c.Anim.IsDone() {
			remaining = append(remaining, c)
		}
	}
	w.closing = remaining
}

// AreAnimationsOngoing reports whether anything animates.
func (w *Workspace) AreAnimationsOngoing() bool {
	return len(w.closing) > 0 ||
		w.scrolling.AreAnimationsOngoing() ||
		w.floating.AreAnimationsOngoing()
}

// VerifyInvariants checks both planes.
func (w *Workspace) VerifyInvariants() error {
	if err := w.scrolling.VerifyInvariants(); err != nil {
		return err
	}
	return w.floating.VerifyInvariants()
}
