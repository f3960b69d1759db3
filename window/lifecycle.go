// SPDX-License-Identifier: Unlicense OR MIT

/*
Package window drives the lifecycle of externally-created
surfaces: Unmapped → initial configure → Mapped (layout-resident)
→ Unmapped or Closed. The protocol layer reports commits and
destruction; this package decides placement and owns the
close-animation snapshotting hand-off.
*/
package window

import (
	"image"
	"log/slog"
	"math"

	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/layout"
)

// InitialConfigurePhase is where an unmapped window stands in the
// initial configure exchange.
type InitialConfigurePhase uint8

const (
	// PhaseNotConfigured means no configure has been sent yet.
	PhaseNotConfigured InitialConfigurePhase = iota
	// PhaseConfigured means the initial configure went out and
	// the next buffer commit maps the window.
	PhaseConfigured
)

// FullscreenRequest is a client's pre-map fullscreen request.
// Output names the output the client asked for; empty means any.
type FullscreenRequest struct {
	Output string
}

// Unmapped is a known surface that is not in the layout.
type Unmapped struct {
	win   layout.LayoutElement
	phase InitialConfigurePhase

	// wantsFullscreen is the client's pre-map fullscreen request,
	// nil when the client did not ask for fullscreen.
	wantsFullscreen *FullscreenRequest

	// Decided at configure time, used at map time.
	rules     config.ResolvedWindowRules
	target    layout.AddTarget
	fullWidth bool
}

// Window returns the unmapped surface.
func (u *Unmapped) Window() layout.LayoutElement { return u.win }

// Phase returns the configure phase.
func (u *Unmapped) Phase() InitialConfigurePhase { return u.phase }

// SnapshotFunc captures a texture of a window for close and
// resize animations. It may return nil, degrading the animation
// to an instant change.
type SnapshotFunc func(id layout.WindowID) *layout.Snapshot

// Lifecycle maps surface identities to their state.
type Lifecycle struct {
	layout   *layout.Layout
	unmapped map[layout.WindowID]*Unmapped
	snapshot SnapshotFunc
	log      *slog.Logger
}

// New returns a lifecycle bound to a layout.
func New(l *layout.Layout, snapshot SnapshotFunc) *Lifecycle {
	if snapshot == nil {
		snapshot = func(layout.WindowID) *layout.Snapshot { return nil }
	}
	return &Lifecycle{
		layout:   l,
		unmapped: make(map[layout.WindowID]*Unmapped),
		snapshot: snapshot,
		log:      slog.Default(),
	}
}

// Unmapped returns the unmapped state of a surface, if any.
func (lc *Lifecycle) Unmapped(id layout.WindowID) (*Unmapped, bool) {
	u, ok := lc.unmapped[id]
	return u, ok
}

// IsMapped reports whether the surface is layout-resident.
func (lc *Lifecycle) IsMapped(id layout.WindowID) bool {
	t, _, _ := lc.layout.FindWindow(id)
	return t != nil
}

// AddSurface registers a newly created surface. A non-nil
// fullscreen request carries the output the client asked for.
func (lc *Lifecycle) AddSurface(win layout.LayoutElement, wantsFullscreen *FullscreenRequest) {
	lc.unmapped[win.ID()] = &Unmapped{
		win:             win,
		wantsFullscreen: wantsFullscreen,
	}
}

// OnCommit processes a surface commit.
func (lc *Lifecycle) OnCommit(id layout.WindowID, serial layout.Serial, bufferPresent bool) {
	if u, ok := lc.unmapped[id]; ok {
		switch u.phase {
		case PhaseNotConfigured:
			lc.sendInitialConfigure(u)
		case PhaseConfigured:
			if !bufferPresent {
				return
			}
			lc.mapWindow(u)
		}
		return
	}

	if !lc.IsMapped(id) {
		// A buffer on a surface we never configured is the
		// client's protocol violation; ignore it.
		lc.log.Debug("commit for unknown surface", "window", id)
		return
	}
	if !bufferPresent {
		lc.unmapWindow(id)
		return
	}
	lc.layout.OnCommit(id, serial)
}

// OnDestroy removes a surface wherever it is, starting the close
// animation for mapped windows.
func (lc *Lifecycle) OnDestroy(id layout.WindowID) {
	if _, ok := lc.unmapped[id]; ok {
		delete(lc.unmapped, id)
		return
	}
	snapshot := lc.snapshot(id)
	lc.layout.RemoveWindow(id, snapshot)
}

// sendInitialConfigure picks the target and sends the first
// configure. Target priority: open-on-workspace rule, then
// open-on-output rule, then the output of the client's fullscreen
// request, then the parent's output, then the active monitor.
func (lc *Lifecycle) sendInitialConfigure(u *Unmapped) {
	l := lc.layout
	win := u.win
	rules := config.ResolveRules(l.Config().Rules, win.Title(), win.AppID(), true)
	u.rules = rules

	ws := lc.pickWorkspace(u, rules)

	cfg := l.Config().Layout
	area := f64.Rect(0, 0, 1280, 720)
	if ws != nil {
		cfg = ws.Config()
		area = ws.WorkingArea()
		u.target = layout.AddTarget{Kind: layout.AddWorkspace, Workspace: ws.ID()}
	} else {
		u.target = layout.AddTarget{Kind: layout.AddAuto}
	}

	size := initialSize(win, rules, cfg, area)
	states := layout.WindowStates{
		TiledLeft:   true,
		TiledRight:  true,
		TiledTop:    true,
		TiledBottom: true,
	}
	if u.wantsFullscreen != nil || (rules.OpenFullscreen != nil && *rules.OpenFullscreen) {
		states.Fullscreen = true
		states.TiledLeft = false
		states.TiledRight = false
		states.TiledTop = false
		states.TiledBottom = false
		size = image.Pt(int(area.Dx()), int(area.Dy()))
	}
	if rules.OpenMaximized != nil && *rules.OpenMaximized {
		u.fullWidth = true
	}
	if rules.OpenFloating != nil && *rules.OpenFloating {
		states.TiledLeft = false
		states.TiledRight = false
		states.TiledTop = false
		states.TiledBottom = false
	}

	serial := win.SetPending(size, states)
	win.SendConfigure(serial)
	u.phase = PhaseConfigured
}

func (lc *Lifecycle) pickWorkspace(u *Unmapped, rules config.ResolvedWindowRules) *layout.Workspace {
	l := lc.layout
	if rules.OpenOnWorkspace != nil {
		if ws := l.AddNamedWorkspace(*rules.OpenOnWorkspace, "", nil); ws != nil {
			return ws
		}
	}
	if rules.OpenOnOutput != nil {
		for _, m := range l.Monitors() {
			if m.OutputName() == *rules.OpenOnOutput {
				return m.ActiveWorkspace()
			}
		}
	}
	if fs := u.wantsFullscreen; fs != nil && fs.Output != "" {
		for _, m := range l.Monitors() {
			if m.OutputName() == fs.Output {
				return m.ActiveWorkspace()
			}
		}
	}
	if parent, ok := u.win.Parent(); ok {
		if _, ws, _ := l.FindWindow(parent); ws != nil {
			return ws
		}
	}
	return l.ActiveWorkspace()
}

// initialSize computes the first configure size from the rules
// and the default column width. A zero height lets the client
// choose; tiled windows get the working-area height.
func initialSize(win layout.LayoutElement, rules config.ResolvedWindowRules, cfg config.Layout, area f64.Rectangle) image.Point {
	gap := cfg.Gaps
	var width float64
	preset := rules.DefaultColumnWidth
	if preset == nil {
		preset = cfg.DefaultColumnWidth
	}
	if preset != nil {
		if preset.IsFixed() {
			width = float64(preset.Fixed)
		} else {
			width = math.Floor((area.Dx() - gap) * preset.Proportion)
		}
	}
	height := area.Dy() - 2*gap
	if rules.DefaultWindowHeight != nil {
		p := *rules.DefaultWindowHeight
		if p.IsFixed() {
			height = float64(p.Fixed)
		} else {
			height = math.Floor((area.Dy() - gap) * p.Proportion)
		}
	}

	size := image.Pt(int(width), int(height))
	if rules.MinWidth != nil && size.X < *rules.MinWidth {
		size.X = *rules.MinWidth
	}
	if rules.MaxWidth != nil && size.X > *rules.MaxWidth {
		size.X = *rules.MaxWidth
	}
	if rules.MinHeight != nil && size.Y < *rules.MinHeight {
		size.Y = *rules.MinHeight
	}
	if rules.MaxHeight != nil && size.Y > *rules.MaxHeight {
		size.Y = *rules.MaxHeight
	}
	if size.X < 0 {
		size.X = 0
	}
	if size.Y < 0 {
		size.Y = 0
	}
	return size
}

// mapWindow inserts the configured window into the layout.
func (lc *Lifecycle) mapWindow(u *Unmapped) {
	delete(lc.unmapped, u.win.ID())
	ws := lc.layout.AddWindow(u.win, u.target, true)
	if u.fullWidth {
		if col := ws.Scrolling().ActiveColumn(); col != nil &&
			col.ContainsWindow(u.win.ID()) && !col.IsFullWidth() {
			col.ToggleFullWidth()
		}
	}
	if u.wantsFullscreen != nil {
		lc.layout.SetFullscreenWindow(u.win.ID(), true)
	}
}

// unmapWindow pulls a mapped window back to the configured
// unmapped state, capturing the snapshot for the close effect.
func (lc *Lifecycle) unmapWindow(id layout.WindowID) {
	snapshot := lc.snapshot(id)
	tile := lc.layout.RemoveWindow(id, snapshot)
	if tile == nil {
		return
	}
	lc.unmapped[id] = &Unmapped{
		win:   tile.Window(),
		phase: PhaseConfigured,
		rules: tile.Rules(),
	}
}
