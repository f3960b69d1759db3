// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"image"
	"log/slog"
	"math"
	"time"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/gesture"
	"strata.dev/transaction"
	"strata.dev/unit"
)

// InteractiveMove is the state of a window being dragged between
// positions. While the move is in flight the tile lives in this
// slot, not in any workspace.
type InteractiveMove struct {
	Tile          *Tile
	CursorOffset  f64.Point
	CurrentOutput string
	Point         f64.Point
	IsDrag        bool

	origin moveOrigin
}

type moveOrigin struct {
	workspaceID WorkspaceID
	columnIdx   int
	wasFloating bool
	floatingPos f64.Point
	width       ColumnWidth
}

// DndHover tracks an external drag-and-drop pointer.
type DndHover struct {
	Output string
	Point  f64.Point
}

// Layout is the top-level container: all monitors, or the orphan
// workspaces kept while no output is connected.
type Layout struct {
	// clock is created once per process; every animation reads
	// time through it.
	clock  *anim.Clock
	timers anim.TimerQueue

	cfg config.Config

	// monitors is non-empty in normal operation. When the last
	// output disconnects the named and non-empty workspaces move
	// to orphans.
	monitors         []*Monitor
	activeMonitorIdx int
	orphans          []*Workspace

	interactiveMove   *InteractiveMove
	interactiveResize *interactiveResize
	dndHover          *DndHover

	overviewOpen         bool
	overviewProgress     *anim.Animation
	overviewGesture      gesture.Swipe
	overviewGestureFrom  float64
	overviewGestureValue float64

	// startupDone ends the at-startup rule phase; windows added
	// before it is set match at-startup rules.
	startupDone bool

	redrawQueued map[string]struct{}

	log *slog.Logger
}

type interactiveResize struct {
	windowID WindowID
	edges    resizeEdges
}

type resizeEdges = uint8

// New creates an empty layout in the NoOutputs state.
func New(clock *anim.Clock, cfg config.Config) *Layout {
	if clock == nil {
		clock = anim.NewClock(0)
	}
	return &Layout{
		clock:        clock,
		cfg:          cfg,
		redrawQueued: make(map[string]struct{}),
		log:          slog.Default(),
	}
}

// Clock returns the layout's clock.
func (l *Layout) Clock() *anim.Clock { return l.clock }

// Timers returns the deadline timer queue.
func (l *Layout) Timers() *anim.TimerQueue { return &l.timers }

// Config returns the active configuration.
func (l *Layout) Config() config.Config { return l.cfg }

// HasOutputs reports whether any monitor is connected.
func (l *Layout) HasOutputs() bool { return len(l.monitors) > 0 }

// Monitors returns the connected monitors.
func (l *Layout) Monitors() []*Monitor { return l.monitors }

// OrphanWorkspaces returns the workspaces parked while no output
// is connected.
func (l *Layout) OrphanWorkspaces() []*Workspace { return l.orphans }

// ActiveMonitor returns the focused monitor, or nil.
func (l *Layout) ActiveMonitor() *Monitor {
	if len(l.monitors) == 0 {
		return nil
	}
	return l.monitors[l.activeMonitorIdx]
}

// ActiveWorkspace returns the focused workspace, or nil.
func (l *Layout) ActiveWorkspace() *Workspace {
	mon := l.ActiveMonitor()
	if mon == nil {
		return nil
	}
	return mon.ActiveWorkspace()
}

// QueueRedraw marks an output as needing a redraw.
func (l *Layout) QueueRedraw(output string) {
	l.redrawQueued[output] = struct{}{}
}

func (l *Layout) queueRedrawActive() {
	if mon := l.ActiveMonitor(); mon != nil {
		l.QueueRedraw(mon.OutputName())
	}
}

func (l *Layout) queueRedrawAll() {
	for _, m := range l.monitors {
		l.QueueRedraw(m.OutputName())
	}
}

// DrainRedraws returns and clears the set of outputs needing a
// redraw.
func (l *Layout) DrainRedraws() []string {
	if len(l.redrawQueued) == 0 {
		return nil
	}
	out := make([]string, 0, len(l.redrawQueued))
	for name := range l.redrawQueued {
		out = append(out, name)
	}
	l.redrawQueued = make(map[string]struct{})
	return out
}

// AddOutput connects a monitor. Orphan workspaces and named
// workspaces whose original output matches migrate onto it.
func (l *Layout) AddOutput(name string, size f64.Size, scale float64, override *config.LayoutPart) *Monitor {
	if _, m := l.findMonitor(name); m != nil {
		return m
	}
	mon := NewMonitor(l.clock, name, size, scale, l.cfg.Layout, override)
	l.monitors = append(l.monitors, mon)

	// Returning orphans home.
	var left []*Workspace
	for _, ws := range l.orphans {
		if ws.OriginalOutput() == name || ws.OriginalOutput() == "" || len(l.monitors) == 1 {
			mon.InsertWorkspace(len(mon.workspaces)-1, ws)
		} else {
			left = append(left, ws)
		}
	}
	l.orphans = left

	// Named workspaces parked on other monitors come back too.
	for _, other := range l.monitors {
		if other == mon {
			continue
		}
		for i := len(other.workspaces) - 1; i >= 0; i-- {
			ws := other.workspaces[i]
			if ws.IsNamed() && ws.OriginalOutput() == name {
				other.RemoveWorkspace(i)
				mon.InsertWorkspace(len(mon.workspaces)-1, ws)
			}
		}
	}
	mon.Refresh()
	l.QueueRedraw(name)
	return mon
}

// RemoveOutput disconnects a monitor. Its named and non-empty
// workspaces migrate to the next monitor, or to the orphan list
// when it was the last one.
func (l *Layout) RemoveOutput(name string) {
	idx, mon := l.findMonitor(name)
	if mon == nil {
		return
	}
	l.monitors = append(l.monitors[:idx], l.monitors[idx+1:]...)
	if l.activeMonitorIdx >= len(l.monitors) {
		l.activeMonitorIdx = 0
	}

	keep := func(ws *Workspace) bool { return ws.IsNamed() || !ws.IsEmpty() }

	if move := l.interactiveMove; move != nil && move.CurrentOutput == name {
		// Redirect the in-flight move to the next output.
		if next := l.ActiveMonitor(); next != nil {
			move.CurrentOutput = next.OutputName()
		} else {
			move.CurrentOutput = ""
		}
	}

	if len(l.monitors) == 0 {
		for _, ws := range mon.workspaces {
			if keep(ws) {
				if ws.OriginalOutput() == "" {
					ws.SetOriginalOutput(name)
				}
				l.orphans = append(l.orphans, ws)
			}
		}
		if move := l.interactiveMove; move != nil {
			l.cancelInteractiveMoveToOrphans(move)
		}
		return
	}

	target := l.ActiveMonitor()
	insertAt := len(target.workspaces) - 1
	for _, ws := range mon.workspaces {
		if keep(ws) {
			if ws.OriginalOutput() == "" {
				ws.SetOriginalOutput(name)
			}
			target.InsertWorkspace(insertAt, ws)
			insertAt++
		}
	}
	target.Refresh()
	l.queueRedrawAll()
}

func (l *Layout) cancelInteractiveMoveToOrphans(move *InteractiveMove) {
	ws := NewWorkspace(l.clock, f64.Size{W: 1280, H: 720}, l.cfg.Layout)
	ws.AddTile(move.Tile, AddTarget{Kind: AddAuto}, true, move.origin.width, l.cfg.Layout.DefaultColumnDisplay)
	l.orphans = append(l.orphans, ws)
	l.interactiveMove = nil
}

func (l *Layout) findMonitor(name string) (int, *Monitor) {
	for i, m := range l.monitors {
		if m.OutputName() == name {
			return i, m
		}
	}
	return -1, nil
}

// FocusOutput focuses the named monitor.
func (l *Layout) FocusOutput(name string) bool {
	idx, mon := l.findMonitor(name)
	if mon == nil {
		return false
	}
	l.activeMonitorIdx = idx
	l.queueRedrawActive()
	return true
}

// UpdateOutputConfigOverride replaces a monitor's config overlay.
func (l *Layout) UpdateOutputConfigOverride(name string, part *config.LayoutPart) {
	if _, mon := l.findMonitor(name); mon != nil {
		mon.SetConfigOverride(part)
		l.QueueRedraw(name)
	}
}

// AddNamedWorkspace creates (or finds) a named workspace,
// optionally pinned to an output.
func (l *Layout) AddNamedWorkspace(name string, outputName string, part *config.LayoutPart) *Workspace {
	if ws, _, _ := l.findNamedWorkspace(name); ws != nil {
		if part != nil {
			ws.SetConfigOverride(part)
		}
		return ws
	}
	var mon *Monitor
	if outputName != "" {
		_, mon = l.findMonitor(outputName)
	}
	if mon == nil {
		mon = l.ActiveMonitor()
	}
	if mon == nil {
		ws := NewWorkspace(l.clock, f64.Size{W: 1280, H: 720}, l.cfg.Layout)
		ws.SetName(name)
		ws.SetOriginalOutput(outputName)
		ws.SetConfigOverride(part)
		l.orphans = append(l.orphans, ws)
		return ws
	}
	ws := NewWorkspace(l.clock, mon.OutputSize(), mon.Config())
	ws.SetName(name)
	if outputName != "" {
		ws.SetOriginalOutput(outputName)
	} else {
		ws.SetOriginalOutput(mon.OutputName())
	}
	ws.SetConfigOverride(part)
	mon.InsertWorkspace(len(mon.workspaces)-1, ws)
	return ws
}

// SetWorkspaceName names the workspace at idx on the active
// monitor and records its home output.
func (l *Layout) SetWorkspaceName(name string, idx int) {
	mon := l.ActiveMonitor()
	if mon == nil || idx < 0 || idx >= len(mon.workspaces) {
		return
	}
	ws := mon.workspaces[idx]
	ws.SetName(name)
	ws.SetOriginalOutput(mon.OutputName())
	mon.ensureScratchWorkspaces()
}

// UnnameWorkspace removes a workspace's name; empty ones then
// expire on the next refresh.
func (l *Layout) UnnameWorkspace(name string) {
	if ws, _, _ := l.findNamedWorkspace(name); ws != nil {
		ws.SetName("")
		ws.SetOriginalOutput("")
	}
}

// UpdateWorkspaceConfigOverride replaces a named workspace's
// config overlay.
func (l *Layout) UpdateWorkspaceConfigOverride(name string, part *config.LayoutPart) {
	if ws, _, _ := l.findNamedWorkspace(name); ws != nil {
		ws.SetConfigOverride(part)
	}
}

func (l *Layout) findNamedWorkspace(name string) (*Workspace, *Monitor, int) {
	for _, m := range l.monitors {
		if ws, idx := m.FindNamedWorkspace(name); ws != nil {
			return ws, m, idx
		}
	}
	for _, ws := range l.orphans {
		if ws.Name() == name {
			return ws, nil, -1
		}
	}
	return nil, nil, -1
}

// FindWindow locates a window anywhere in the layout.
func (l *Layout) FindWindow(id WindowID) (*Tile, *Workspace, *Monitor) {
	for _, m := range l.monitors {
		for _, ws := range m.workspaces {
			if t := ws.FindTile(id); t != nil {
				return t, ws, m
			}
		}
	}
	for _, ws := range l.orphans {
		if t := ws.FindTile(id); t != nil {
			return t, ws, nil
		}
	}
	if mv := l.interactiveMove; mv != nil && mv.Tile.ID() == id {
		return mv.Tile, nil, nil
	}
	return nil, nil, nil
}

// NewTile wraps a window with the layout's clock, effective
// config and resolved rules.
func (l *Layout) NewTile(win LayoutElement) *Tile {
	rules := config.ResolveRules(l.cfg.Rules, win.Title(), win.AppID(), !l.startupDone)
	cfg := l.cfg.Layout
	if mon := l.ActiveMonitor(); mon != nil {
		cfg = mon.ActiveWorkspace().Config()
	}
	if rules.LayoutPart != nil {
		cfg = cfg.Overlay(rules.LayoutPart)
	}
	return NewTile(win, l.clock, cfg, rules)
}

// AddWindow places a new window per the target policy and the
// window's rules. It returns the workspace that received it.
func (l *Layout) AddWindow(win LayoutElement, target AddTarget, activate bool) *Workspace {
	tile := l.NewTile(win)
	return l.addTile(tile, target, activate)
}

func (l *Layout) addTile(tile *Tile, target AddTarget, activate bool) *Workspace {
	ws := l.workspaceForTarget(tile, target)
	if ws == nil {
		// No outputs at all: park the window on an orphan
		// workspace so it survives until an output returns.
		ws = NewWorkspace(l.clock, f64.Size{W: 1280, H: 720}, l.cfg.Layout)
		l.orphans = append(l.orphans, ws)
	}
	cfg := ws.Config()
	width := defaultWidthFor(tile, cfg)
	ws.AddTile(tile, target, activate, width, cfg.DefaultColumnDisplay)
	tile.StartOpenAnimation()

	if rules := tile.Rules(); rules.OpenFullscreen != nil && *rules.OpenFullscreen {
		l.SetFullscreenWindow(tile.ID(), true)
	} else if rules.OpenMaximized != nil && *rules.OpenMaximized {
		if col := ws.Scrolling().ActiveColumn(); col != nil && col.ContainsWindow(tile.ID()) && !col.IsFullWidth() {
			col.ToggleFullWidth()
		}
	}
	l.Refresh()
	return ws
}

// workspaceForTarget resolves the destination workspace honoring
// rules (workspace, output), the parent's output and the active
// monitor, in that priority order.
func (l *Layout) workspaceForTarget(tile *Tile, target AddTarget) *Workspace {
	if target.Kind == AddWorkspace {
		if ws, _ := l.findWorkspaceByID(target.Workspace); ws != nil {
			return ws
		}
	}
	if target.Kind == AddNextTo {
		if _, ws, _ := l.FindWindow(target.NextTo); ws != nil {
			return ws
		}
	}
	rules := tile.Rules()
	if rules.OpenOnWorkspace != nil {
		if ws, _, _ := l.findNamedWorkspace(*rules.OpenOnWorkspace); ws != nil {
			return ws
		}
	}
	if rules.OpenOnOutput != nil {
		if _, mon := l.findMonitor(*rules.OpenOnOutput); mon != nil {
			return mon.ActiveWorkspace()
		}
	}
	if parent, ok := tile.Window().Parent(); ok {
		if _, ws, _ := l.FindWindow(parent); ws != nil {
			return ws
		}
	}
	if ws := l.ActiveWorkspace(); ws != nil {
		return ws
	}
	return nil
}

func (l *Layout) findWorkspaceByID(id WorkspaceID) (*Workspace, *Monitor) {
	for _, m := range l.monitors {
		if ws, _ := m.FindWorkspace(id); ws != nil {
			return ws, m
		}
	}
	for _, ws := range l.orphans {
		if ws.ID() == id {
			return ws, nil
		}
	}
	return nil, nil
}

// RemoveWindow removes a window from the layout, starting its
// close animation from the given snapshot.
func (l *Layout) RemoveWindow(id WindowID, snapshot *Snapshot) *Tile {
	if mv := l.interactiveMove; mv != nil && mv.Tile.ID() == id {
		// Window destroyed mid-move: release everything.
		l.interactiveMove = nil
		l.queueRedrawAll()
		return mv.Tile
	}
	for _, m := range l.monitors {
		for _, ws := range m.workspaces {
			if pos, ok := l.tileRenderPos(ws, id); ok {
				tile := ws.RemoveTile(id)
				if tile != nil {
					ws.StartCloseAnimation(snapshot, pos)
					l.QueueRedraw(m.OutputName())
					l.Refresh()
					return tile
				}
			}
		}
	}
	for _, ws := range l.orphans {
		if t := ws.RemoveTile(id); t != nil {
			return t
		}
	}
	return nil
}

func (l *Layout) tileRenderPos(ws *Workspace, id WindowID) (f64.Point, bool) {
	var pos f64.Point
	found := false
	ws.Scrolling().TilesWithPositions(func(_ *Column, t *Tile, p f64.Point) {
		if t.ID() == id {
			pos, found = p, true
		}
	})
	if !found {
		ws.Floating().TilesWithPositions(func(t *Tile, p f64.Point) {
			if t.ID() == id {
				pos, found = p, true
			}
		})
	}
	if !found {
		if ws.FindTile(id) == nil {
			return f64.Point{}, false
		}
	}
	return pos, true
}

// OnCommit routes a configure acknowledgement to the window's
// tile.
func (l *Layout) OnCommit(id WindowID, serial Serial) {
	tile, _, mon := l.FindWindow(id)
	if tile == nil {
		return
	}
	tile.OnCommit(serial)
	if mon != nil {
		l.QueueRedraw(mon.OutputName())
	}
}

// CanSetParent reports whether linking child under parent keeps
// the parent graph acyclic. The protocol layer calls this before
// accepting the link.
func (l *Layout) CanSetParent(child, parent WindowID) bool {
	if child == parent {
		return false
	}
	cur := parent
	for range 64 {
		t, _, _ := l.FindWindow(cur)
		if t == nil {
			return true
		}
		next, ok := t.Window().Parent()
		if !ok {
			return true
		}
		if next == child {
			return false
		}
		cur = next
	}
	return false
}

// ActivateWindow focuses a window wherever it is, switching
// monitor and workspace as needed.
func (l *Layout) ActivateWindow(id WindowID) bool {
	for mi, m := range l.monitors {
		for wi, ws := range m.workspaces {
			if ws.FindTile(id) == nil {
				continue
			}
			l.activeMonitorIdx = mi
			if wi != m.activeWorkspaceIdx {
				m.SwitchWorkspace(wi)
			}
			if ws.Floating().FindTile(id) != nil {
				ws.Floating().Activate(id)
				ws.SetFocusSide(FocusFloating)
			} else {
				sc := ws.Scrolling()
				ci := sc.columnIdxOfWindow(id)
				col := sc.columns[ci]
				col.SetActiveTileIdx(col.tileIdx(id))
				sc.ActivateColumn(ci)
				ws.SetFocusSide(FocusScrolling)
			}
			l.QueueRedraw(m.OutputName())
			return true
		}
	}
	return false
}

// withActiveScrolling runs f on the focused scrolling space.
func (l *Layout) withActiveScrolling(f func(*ScrollingSpace) bool) bool {
	ws := l.ActiveWorkspace()
	if ws == nil {
		return false
	}
	ok := f(ws.Scrolling())
	if ok {
		l.queueRedrawActive()
	}
	return ok
}

// FocusColumnLeft focuses the column to the left.
func (l *Layout) FocusColumnLeft() bool {
	return l.withActiveScrolling((*ScrollingSpace).FocusLeft)
}

// FocusColumnRight focuses the column to the right.
func (l *Layout) FocusColumnRight() bool {
	return l.withActiveScrolling((*ScrollingSpace).FocusRight)
}

// FocusColumnFirst focuses the leftmost column.
func (l *Layout) FocusColumnFirst() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool { s.FocusFirst(); return true })
}

// FocusColumnLast focuses the rightmost column.
func (l *Layout) FocusColumnLast() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool { s.FocusLast(); return true })
}

// FocusColumn focuses the column at idx.
func (l *Layout) FocusColumn(idx int) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		if len(s.columns) == 0 {
			return false
		}
		s.ActivateColumn(unit.Clamp(idx, 0, len(s.columns)-1))
		return true
	})
}

// FocusColumnRightOrFirst wraps focus to the first column past
// the end.
func (l *Layout) FocusColumnRightOrFirst() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		if !s.FocusRight() {
			s.FocusFirst()
		}
		return true
	})
}

// FocusColumnLeftOrLast wraps focus to the last column past the
// start.
func (l *Layout) FocusColumnLeftOrLast() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		if !s.FocusLeft() {
			s.FocusLast()
		}
		return true
	})
}

// FocusColumnOrMonitorLeft moves focus left, spilling to the
// monitor on the left at the strip edge.
func (l *Layout) FocusColumnOrMonitorLeft() {
	if l.withActiveScrolling((*ScrollingSpace).FocusLeft) {
		return
	}
	l.focusMonitorDelta(-1)
}

// FocusColumnOrMonitorRight mirrors FocusColumnOrMonitorLeft.
func (l *Layout) FocusColumnOrMonitorRight() {
	if l.withActiveScrolling((*ScrollingSpace).FocusRight) {
		return
	}
	l.focusMonitorDelta(1)
}

func (l *Layout) focusMonitorDelta(d int) {
	if len(l.monitors) < 2 {
		return
	}
	l.activeMonitorIdx = ((l.activeMonitorIdx+d)%len(l.monitors) + len(l.monitors)) % len(l.monitors)
	l.queueRedrawActive()
}

// FocusWindowDown focuses the window below in the column.
func (l *Layout) FocusWindowDown() bool {
	return l.withActiveScrolling((*ScrollingSpace).FocusDown)
}

// FocusWindowUp focuses the window above in the column.
func (l *Layout) FocusWindowUp() bool {
	return l.withActiveScrolling((*ScrollingSpace).FocusUp)
}

// FocusWindowOrWorkspaceDown focuses the window below, spilling
// to the next workspace at the column edge.
func (l *Layout) FocusWindowOrWorkspaceDown() {
	if l.FocusWindowDown() {
		return
	}
	if mon := l.ActiveMonitor(); mon != nil {
		mon.SwitchWorkspaceDown()
		l.queueRedrawActive()
	}
}

// FocusWindowOrWorkspaceUp mirrors FocusWindowOrWorkspaceDown.
func (l *Layout) FocusWindowOrWorkspaceUp() {
	if l.FocusWindowUp() {
		return
	}
	if mon := l.ActiveMonitor(); mon != nil {
		mon.SwitchWorkspaceUp()
		l.queueRedrawActive()
	}
}

// FocusWindowTop focuses the first window of the column.
func (l *Layout) FocusWindowTop() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		if col := s.ActiveColumn(); col != nil {
			col.SetActiveTileIdx(0)
			return true
		}
		return false
	})
}

// FocusWindowBottom focuses the last window of the column.
func (l *Layout) FocusWindowBottom() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		if col := s.ActiveColumn(); col != nil {
			col.SetActiveTileIdx(col.TileCount() - 1)
			return true
		}
		return false
	})
}

// MoveColumnLeft moves the active column one slot left.
func (l *Layout) MoveColumnLeft() bool {
	return l.withActiveScrolling((*ScrollingSpace).MoveColumnLeft)
}

// MoveColumnRight moves the active column one slot right.
func (l *Layout) MoveColumnRight() bool {
	return l.withActiveScrolling((*ScrollingSpace).MoveColumnRight)
}

// MoveColumnToFirst moves the active column to the far left.
func (l *Layout) MoveColumnToFirst() {
	l.withActiveScrolling((*ScrollingSpace).MoveColumnToFirst)
}

// MoveColumnToLast moves the active column to the far right.
func (l *Layout) MoveColumnToLast() {
	l.withActiveScrolling((*ScrollingSpace).MoveColumnToLast)
}

// MoveColumnToIndex moves the active column to idx.
func (l *Layout) MoveColumnToIndex(idx int) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool { return s.MoveColumnToIndex(idx) })
}

// MoveWindowDown moves the active window down within its column.
func (l *Layout) MoveWindowDown() bool {
	return l.structuralOp((*ScrollingSpace).MoveWindowDown)
}

// MoveWindowUp moves the active window up within its column.
func (l *Layout) MoveWindowUp() bool {
	return l.structuralOp((*ScrollingSpace).MoveWindowUp)
}

func (l *Layout) structuralOp(f func(*ScrollingSpace) bool) bool {
	return l.withActiveScrolling(func(s *ScrollingSpace) bool {
		if !f(s) {
			return false
		}
		s.Update(true, nil)
		return true
	})
}

// ConsumeIntoColumn pulls the next column's first window into the
// active column.
func (l *Layout) ConsumeIntoColumn() bool {
	return l.structuralOp((*ScrollingSpace).ConsumeIntoColumn)
}

// ExpelFromColumn expels the active window into its own column.
func (l *Layout) ExpelFromColumn() bool {
	return l.structuralOp((*ScrollingSpace).ExpelFromColumn)
}

// ConsumeOrExpelWindowLeft merges the active window leftward.
func (l *Layout) ConsumeOrExpelWindowLeft() bool {
	return l.structuralOp((*ScrollingSpace).ConsumeOrExpelLeft)
}

// ConsumeOrExpelWindowRight merges the active window rightward.
func (l *Layout) ConsumeOrExpelWindowRight() bool {
	return l.structuralOp((*ScrollingSpace).ConsumeOrExpelRight)
}

// SwapWindowInDirection swaps the active column with a neighbor.
func (l *Layout) SwapWindowInDirection(dir ScrollDirection) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool { return s.SwapWindowInDirection(dir) })
}

// CenterColumn centers the active column.
func (l *Layout) CenterColumn() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool { s.CenterColumn(); return true })
}

// SetColumnWidth changes the active column's width.
func (l *Layout) SetColumnWidth(change SizeChange) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil {
			return false
		}
		col.SetWidth(change)
		s.Update(true, nil)
		return true
	})
}

// TogglePresetColumnWidth cycles the active column's width
// through the presets.
func (l *Layout) TogglePresetColumnWidth(forward bool) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil {
			return false
		}
		col.TogglePresetWidth(forward)
		s.Update(true, nil)
		return true
	})
}

// ToggleFullWidth maximizes the active column to the working
// area width.
func (l *Layout) ToggleFullWidth() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil {
			return false
		}
		col.ToggleFullWidth()
		s.Update(true, nil)
		return true
	})
}

// SetWindowHeight changes the active window's height. Sibling
// tiles in the column resize together under one transaction.
func (l *Layout) SetWindowHeight(change SizeChange) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil {
			return false
		}
		col.SetTileHeight(col.ActiveTileIdx(), change)
		txn := transaction.New(l.clock.Now())
		s.Update(true, txn)
		txn.RegisterDeadline(&l.timers)
		return true
	})
}

// TogglePresetWindowHeight cycles the active window's height
// through the preset heights. Sibling tiles resize together under
// one transaction.
func (l *Layout) TogglePresetWindowHeight(forward bool) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil {
			return false
		}
		col.TogglePresetHeight(col.ActiveTileIdx(), forward)
		txn := transaction.New(l.clock.Now())
		s.Update(true, txn)
		txn.RegisterDeadline(&l.timers)
		return true
	})
}

// ResetWindowHeight returns the active window to automatic
// height.
func (l *Layout) ResetWindowHeight() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil {
			return false
		}
		col.ResetTileHeight(col.ActiveTileIdx())
		txn := transaction.New(l.clock.Now())
		s.Update(true, txn)
		txn.RegisterDeadline(&l.timers)
		return true
	})
}

// ToggleColumnTabbedDisplay flips the active column's display.
func (l *Layout) ToggleColumnTabbedDisplay() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil {
			return false
		}
		col.ToggleDisplay()
		s.Update(true, nil)
		return true
	})
}

// SetColumnDisplay sets the active column's display mode.
func (l *Layout) SetColumnDisplay(display config.ColumnDisplay) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil {
			return false
		}
		col.SetDisplay(display)
		s.Update(true, nil)
		return true
	})
}

// SetFullscreenWindow puts the window's column into or out of
// fullscreen.
func (l *Layout) SetFullscreenWindow(id WindowID, fullscreen bool) bool {
	_, ws, mon := l.FindWindow(id)
	if ws == nil {
		return false
	}
	sc := ws.Scrolling()
	ci := sc.columnIdxOfWindow(id)
	if ci < 0 {
		return false
	}
	col := sc.columns[ci]
	if fullscreen && col.TileCount() > 1 {
		// Expel into its own column first; only single-tile
		// columns go fullscreen.
		ti := col.tileIdx(id)
		tile := col.removeTile(ti)
		col = NewColumn(tile, col.width, sc.cfg.DefaultColumnDisplay, sc.workingArea, sc.cfg)
		sc.AddColumn(ci+1, col, true)
	}
	col.SetFullscreen(fullscreen)
	sc.Update(true, nil)
	if mon != nil {
		l.QueueRedraw(mon.OutputName())
	}
	return true
}

// ToggleFullscreenWindow toggles fullscreen on the window.
func (l *Layout) ToggleFullscreenWindow(id WindowID) {
	_, ws, _ := l.FindWindow(id)
	if ws == nil {
		return
	}
	isFS := false
	if ci := ws.Scrolling().columnIdxOfWindow(id); ci >= 0 {
		isFS = ws.Scrolling().columns[ci].IsFullscreen()
	}
	l.SetFullscreenWindow(id, !isFS)
}

// ToggleWindowedFullscreen switches between fullscreen and
// windowed-fullscreen presentation.
func (l *Layout) ToggleWindowedFullscreen(id WindowID) {
	tile, ws, mon := l.FindWindow(id)
	if tile == nil || ws == nil {
		return
	}
	if tile.PendingSizingMode() == SizingWindowedFullscreen {
		tile.RequestSize(tile.TargetSize(), SizingNormal, false, nil)
	} else {
		area := ws.WorkingArea()
		size := tileSizeToWindow(tile, f64.Size{W: area.Dx(), H: area.Dy()})
		tile.RequestSize(size, SizingWindowedFullscreen, false, nil)
	}
	if mon != nil {
		l.QueueRedraw(mon.OutputName())
	}
}

// ToggleWindowFloating moves the focused window between the
// scrolling and floating planes.
func (l *Layout) ToggleWindowFloating() {
	ws := l.ActiveWorkspace()
	if ws == nil {
		return
	}
	if ws.ToggleFloating() {
		ws.Update(true, nil)
		l.queueRedrawActive()
	}
}

// FocusWorkspace switches the active monitor to workspace idx.
func (l *Layout) FocusWorkspace(idx int) {
	if mon := l.ActiveMonitor(); mon != nil {
		mon.SwitchWorkspace(idx)
		l.queueRedrawActive()
	}
}

// FocusWorkspaceAutoBackAndForth switches with the
// back-and-forth shortcut.
func (l *Layout) FocusWorkspaceAutoBackAndForth(idx int) {
	if mon := l.ActiveMonitor(); mon != nil {
		mon.SwitchWorkspaceAutoBackAndForth(idx)
		l.queueRedrawActive()
	}
}

// FocusWorkspacePrevious returns to the previous workspace.
func (l *Layout) FocusWorkspacePrevious() {
	if mon := l.ActiveMonitor(); mon != nil {
		mon.SwitchWorkspacePrevious()
		l.queueRedrawActive()
	}
}

// FocusWorkspaceDown switches one workspace down.
func (l *Layout) FocusWorkspaceDown() {
	if mon := l.ActiveMonitor(); mon != nil {
		mon.SwitchWorkspaceDown()
		l.queueRedrawActive()
	}
}

// FocusWorkspaceUp switches one workspace up.
func (l *Layout) FocusWorkspaceUp() {
	if mon := l.ActiveMonitor(); mon != nil {
		mon.SwitchWorkspaceUp()
		l.queueRedrawActive()
	}
}

// MoveWindowToWorkspace moves a window (the focused one when id
// is zero) to the workspace at idx on its monitor.
func (l *Layout) MoveWindowToWorkspace(id WindowID, idx int, activate bool) {
	if id == 0 {
		if t := l.activeTile(); t != nil {
			id = t.ID()
		} else {
			return
		}
	}
	_, ws, mon := l.FindWindow(id)
	if ws == nil || mon == nil {
		return
	}
	idx = unit.Clamp(idx, 0, len(mon.workspaces)-1)
	target := mon.workspaces[idx]
	if target == ws {
		return
	}
	tile := ws.RemoveTile(id)
	if tile == nil {
		return
	}
	cfg := target.Config()
	target.AddTile(tile, AddTarget{Kind: AddAuto}, activate, carriedWidth(tile, cfg), cfg.DefaultColumnDisplay)
	if activate {
		mon.SwitchWorkspace(idx)
	}
	l.Refresh()
	l.QueueRedraw(mon.OutputName())
}

// carriedWidth keeps the window's column width policy across
// moves when it is known, falling back to the default.
func carriedWidth(tile *Tile, cfg config.Layout) ColumnWidth {
	if tile.preFullscreenWidth != nil {
		return *tile.preFullscreenWidth
	}
	return defaultWidthFor(tile, cfg)
}

// MoveWindowToWorkspaceDown moves the focused window one
// workspace down.
func (l *Layout) MoveWindowToWorkspaceDown(activate bool) {
	if mon := l.ActiveMonitor(); mon != nil {
		l.MoveWindowToWorkspace(0, mon.ActiveWorkspaceIdx()+1, activate)
	}
}

// MoveWindowToWorkspaceUp moves the focused window one workspace
// up.
func (l *Layout) MoveWindowToWorkspaceUp(activate bool) {
	if mon := l.ActiveMonitor(); mon != nil {
		l.MoveWindowToWorkspace(0, mon.ActiveWorkspaceIdx()-1, activate)
	}
}

// MoveColumnToWorkspace moves the active column whole, carrying
// its width, display and fullscreen restore state.
func (l *Layout) MoveColumnToWorkspace(idx int, activate bool) {
	mon := l.ActiveMonitor()
	if mon == nil {
		return
	}
	ws := mon.ActiveWorkspace()
	sc := ws.Scrolling()
	if sc.IsEmpty() {
		return
	}
	idx = unit.Clamp(idx, 0, len(mon.workspaces)-1)
	target := mon.workspaces[idx]
	if target == ws {
		return
	}
	col := sc.RemoveColumn(sc.ActiveColumnIdx())
	if col == nil {
		return
	}
	tsc := target.Scrolling()
	at := 0
	if !tsc.IsEmpty() {
		at = tsc.ActiveColumnIdx() + 1
	}
	tsc.AddColumn(at, col, activate)
	if activate {
		target.SetFocusSide(FocusScrolling)
		mon.SwitchWorkspace(idx)
	}
	l.Refresh()
	l.QueueRedraw(mon.OutputName())
}

// MoveColumnToMonitor moves the active column to another
// monitor's active workspace.
func (l *Layout) MoveColumnToMonitor(d int) {
	if len(l.monitors) < 2 {
		return
	}
	src := l.ActiveMonitor()
	sc := src.ActiveWorkspace().Scrolling()
	if sc.IsEmpty() {
		return
	}
	col := sc.RemoveColumn(sc.ActiveColumnIdx())
	l.focusMonitorDelta(d)
	dst := l.ActiveMonitor().ActiveWorkspace().Scrolling()
	at := 0
	if !dst.IsEmpty() {
		at = dst.ActiveColumnIdx() + 1
	}
	dst.AddColumn(at, col, true)
	l.Refresh()
	l.queueRedrawAll()
}

// MoveWorkspaceToMonitor moves the active workspace to another
// monitor.
func (l *Layout) MoveWorkspaceToMonitor(d int) {
	if len(l.monitors) < 2 {
		return
	}
	src := l.ActiveMonitor()
	ws := src.RemoveWorkspace(src.ActiveWorkspaceIdx())
	if ws == nil {
		return
	}
	l.focusMonitorDelta(d)
	dst := l.ActiveMonitor()
	dst.InsertWorkspace(len(dst.workspaces)-1, ws)
	ws.SetOriginalOutput(dst.OutputName())
	l.Refresh()
	l.queueRedrawAll()
}

func (l *Layout) activeTile() *Tile {
	ws := l.ActiveWorkspace()
	if ws == nil {
		return nil
	}
	return ws.ActiveTile()
}

func tileSizeToWindow(tile *Tile, size f64.Size) image.Point {
	win := tile.WindowSizeForTile(size)
	return image.Pt(int(math.Round(win.W)), int(math.Round(win.H)))
}

// Refresh re-establishes structural invariants and pushes any
// pending target sizes out as configures: scratch workspaces,
// empty-workspace cleanup, active index clamping.
func (l *Layout) Refresh() {
	for _, m := range l.monitors {
		m.Update(false, nil)
		m.Refresh()
	}
}

// AdvanceAnimations samples the clock once and settles finished
// animations everywhere. Call once per loop iteration.
func (l *Layout) AdvanceAnimations(now time.Duration) {
	l.clock.Tick(now)
	l.timers.Advance(l.clock.Now())
	if l.overviewProgress != nil && l.overviewProgress.IsDone() {
		l.overviewProgress = nil
	}
	for _, m := range l.monitors {
		m.AdvanceAnimations()
		if m.AreAnimationsOngoing() {
			l.QueueRedraw(m.OutputName())
		}
	}
}

// CompleteAnimations snaps every animation to its final state.
func (l *Layout) CompleteAnimations() {
	was := l.clock.CompleteInstantly()
	l.clock.SetCompleteInstantly(true)
	for _, m := range l.monitors {
		m.AdvanceAnimations()
	}
	if l.overviewProgress != nil {
		l.overviewProgress = nil
	}
	l.clock.SetCompleteInstantly(was)
}

// AreAnimationsOngoing reports whether the named output needs
// more frames.
func (l *Layout) AreAnimationsOngoing(output string) bool {
	_, mon := l.findMonitor(output)
	if mon == nil {
		return false
	}
	return mon.AreAnimationsOngoing()
}

// MarkStartupComplete ends the at-startup window rule phase.
func (l *Layout) MarkStartupComplete() { l.startupDone = true }

// UpdateConfig swaps the configuration and re-resolves every
// window's rules. Invalid configs are the loader's concern; by
// the time a Config value exists it is well-formed.
func (l *Layout) UpdateConfig(cfg config.Config) {
	l.cfg = cfg
	for _, m := range l.monitors {
		m.UpdateBaseConfig(cfg.Layout)
	}
	l.forEachTile(func(t *Tile, ws *Workspace) {
		rules := config.ResolveRules(cfg.Rules, t.Window().Title(), t.Window().AppID(), false)
		t.SetRules(rules)
		base := ws.Config()
		if rules.LayoutPart != nil {
			base = base.Overlay(rules.LayoutPart)
		}
		t.SetConfig(base)
	})
	for _, m := range l.monitors {
		m.Update(false, nil)
	}
	l.Refresh()
	l.queueRedrawAll()
}

// OnWindowMetaChanged re-resolves one window's rules after a
// title or app-id change.
func (l *Layout) OnWindowMetaChanged(id WindowID) {
	tile, ws, _ := l.FindWindow(id)
	if tile == nil || ws == nil {
		return
	}
	rules := config.ResolveRules(l.cfg.Rules, tile.Window().Title(), tile.Window().AppID(), false)
	tile.SetRules(rules)
	base := ws.Config()
	if rules.LayoutPart != nil {
		base = base.Overlay(rules.LayoutPart)
	}
	tile.SetConfig(base)
}

func (l *Layout) forEachTile(f func(*Tile, *Workspace)) {
	for _, m := range l.monitors {
		for _, ws := range m.workspaces {
			for _, c := range ws.Scrolling().Columns() {
				for _, t := range c.Tiles() {
					f(t, ws)
				}
			}
			for _, t := range ws.Floating().Tiles() {
				f(t, ws)
			}
		}
	}
}
