// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/gesture"
)

// fixture drives a layout with well-behaved fake clients.
type fixture struct {
	t       *testing.T
	l       *Layout
	clock   *anim.Clock
	windows map[WindowID]*TestWindow
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Layout.Gaps = 0
	cfg.Layout.DefaultColumnWidth = &config.PresetSize{Proportion: 1.0 / 3.0}
	return cfg
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithConfig(t, testConfig())
}

func newFixtureWithConfig(t *testing.T, cfg config.Config) *fixture {
	clock := anim.NewClock(0)
	return &fixture{
		t:       t,
		l:       New(clock, cfg),
		clock:   clock,
		windows: make(map[WindowID]*TestWindow),
	}
}

func (f *fixture) addOutput(n int) *Monitor {
	return f.l.AddOutput(outputName(n), f64.Size{W: 1280, H: 720}, 1, nil)
}

func outputName(n int) string {
	return "output" + string(rune('0'+n))
}

// addWindow maps a window with the given requested bounding box
// and acknowledges its configures.
func (f *fixture) addWindow(bbox image.Point) *TestWindow {
	win := NewTestWindow(NextWindowID(), bbox)
	f.windows[win.ID()] = win
	f.l.AddWindow(win, AddTarget{Kind: AddAuto}, true)
	f.ackAll()
	f.verify()
	return win
}

// ackAll acknowledges every pending configure at the requested
// size.
func (f *fixture) ackAll() {
	for id, w := range f.windows {
		for {
			serial, ok := w.AckLast()
			if !ok {
				break
			}
			f.l.OnCommit(id, serial)
		}
	}
}

// settle finishes all animations and cleans up.
func (f *fixture) settle() {
	f.l.Refresh()
	f.l.CompleteAnimations()
	f.l.Refresh()
	f.ackAll()
	f.verify()
}

func (f *fixture) verify() {
	f.t.Helper()
	require.NoError(f.t, f.l.VerifyInvariants())
}

func (f *fixture) activeScrolling() *ScrollingSpace {
	ws := f.l.ActiveWorkspace()
	require.NotNil(f.t, ws)
	return ws.Scrolling()
}

func TestSpawnSingleWindow(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := f.addWindow(image.Pt(100, 200))

	sc := f.activeScrolling()
	require.Len(t, sc.Columns(), 1)
	col := sc.Columns()[0]
	require.Equal(t, 1, col.TileCount())
	assert.Equal(t, 0, sc.ActiveColumnIdx())
	assert.Equal(t, 0.0, sc.ViewPos())

	tile := sc.FindTile(win.ID())
	require.NotNil(t, tile)
	f.l.CompleteAnimations()
	assert.Equal(t, f64.Size{W: 426, H: 720}, tile.AnimatedSize())
	assert.Equal(t, image.Pt(426, 720), tile.TargetSize())
}

func TestConsumeExpelReorders(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	w1 := f.addWindow(image.Pt(100, 200))
	w2 := f.addWindow(image.Pt(100, 200))

	require.True(t, f.l.FocusColumnLeft())
	require.True(t, f.l.ConsumeIntoColumn())
	f.ackAll()
	sc := f.activeScrolling()
	require.Len(t, sc.Columns(), 1)
	require.Equal(t, 2, sc.Columns()[0].TileCount())

	require.True(t, f.l.ExpelFromColumn())
	f.ackAll()
	f.verify()

	require.Len(t, sc.Columns(), 2)
	assert.Equal(t, w1.ID(), sc.Columns()[0].Tiles()[0].ID())
	assert.Equal(t, w2.ID(), sc.Columns()[1].Tiles()[0].ID())
	assert.Equal(t, 1, sc.Columns()[0].TileCount())
	assert.Equal(t, 1, sc.Columns()[1].TileCount())
}

func TestNamedWorkspaceReturnsToOriginalOutput(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	f.l.SetWorkspaceName("home", 0)
	f.addOutput(2)

	f.l.RemoveOutput(outputName(1))
	f.verify()
	ws, mon, _ := f.l.findNamedWorkspace("home")
	require.NotNil(t, ws)
	require.NotNil(t, mon)
	assert.Equal(t, outputName(2), mon.OutputName())

	f.addOutput(1)
	f.verify()
	ws, mon, _ = f.l.findNamedWorkspace("home")
	require.NotNil(t, ws)
	require.NotNil(t, mon)
	assert.Equal(t, outputName(1), mon.OutputName())
	assert.Equal(t, outputName(1), ws.OriginalOutput())
}

func TestUnnamedWorkspaceNotPreserved(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	f.addOutput(2)
	f.l.FocusOutput(outputName(1))
	f.addWindow(image.Pt(100, 100))

	f.l.RemoveOutput(outputName(1))
	f.settle()
	// The window's workspace migrated to output2. It records
	// output1 as its original output, but only named workspaces
	// go back when that output returns.
	f.addOutput(1)
	f.settle()
	_, mon := f.l.findMonitor(outputName(2))
	found := false
	for _, ws := range mon.Workspaces() {
		if !ws.IsEmpty() {
			found = true
		}
	}
	assert.True(t, found, "window should stay on output2 after output1 returns")
}

func TestDoubleClickResizeFullWidth(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := f.addWindow(image.Pt(100, 200))

	edges := gesture.EdgeLeft | gesture.EdgeRight
	started := f.l.InteractiveResizeBegin(win.ID(), edges)
	assert.True(t, started)
	f.l.InteractiveResizeEnd()

	f.clock.Advance(100 * time.Millisecond)
	started = f.l.InteractiveResizeBegin(win.ID(), edges)
	assert.False(t, started, "second press should trigger the shortcut")

	sc := f.activeScrolling()
	assert.True(t, sc.Columns()[0].IsFullWidth())
	f.ackAll()
	f.l.CompleteAnimations()
	tile := sc.FindTile(win.ID())
	assert.Equal(t, f64.Size{W: 1280, H: 720}, tile.AnimatedSize())
}

func TestDoubleClickResizeResetHeight(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	w1 := f.addWindow(image.Pt(100, 200))
	f.addWindow(image.Pt(100, 200))
	f.l.FocusColumnLeft()
	f.l.ConsumeIntoColumn()
	f.ackAll()

	// Give the first window an explicit height.
	sc := f.activeScrolling()
	col := sc.Columns()[0]
	col.SetActiveTileIdx(0)
	f.l.SetWindowHeight(SizeChange{Kind: SetFixed, Value: 200})
	f.ackAll()
	require.False(t, col.heights[0].Auto)

	edges := gesture.EdgeTop | gesture.EdgeBottom
	f.l.InteractiveResizeBegin(w1.ID(), edges)
	f.l.InteractiveResizeEnd()
	f.clock.Advance(100 * time.Millisecond)
	started := f.l.InteractiveResizeBegin(w1.ID(), edges)
	assert.False(t, started)
	assert.True(t, col.heights[0].Auto, "height should reset to auto")
}

func TestTripleClickClearsResizeLatch(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := f.addWindow(image.Pt(100, 200))
	edges := gesture.EdgeLeft | gesture.EdgeRight

	press := func() bool {
		ok := f.l.InteractiveResizeBegin(win.ID(), edges)
		f.l.InteractiveResizeEnd()
		f.clock.Advance(50 * time.Millisecond)
		return ok
	}

	press()                   // 1: primed
	require.False(t, press()) // 2: shortcut fires
	sc := f.activeScrolling()
	require.True(t, sc.Columns()[0].IsFullWidth())
	require.True(t, press(), "third press clears the latch and resizes normally")
	// A fourth press within the window must not re-trigger.
	require.True(t, press(), "fourth press must not re-trigger the shortcut")
	assert.True(t, sc.Columns()[0].IsFullWidth(), "full width toggled exactly once")
}

func TestFullscreenRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := f.addWindow(image.Pt(100, 200))
	sc := f.activeScrolling()
	col := sc.Columns()[0]
	col.SetWidth(SizeChange{Kind: SetFixed, Value: 500})
	col.SetDisplay(config.ColumnDisplayTabbed)
	f.ackAll()

	f.l.SetFullscreenWindow(win.ID(), true)
	f.ackAll()
	assert.True(t, col.IsFullscreen())
	assert.Equal(t, config.ColumnDisplayNormal, col.Display())

	f.l.SetFullscreenWindow(win.ID(), false)
	f.ackAll()
	f.verify()
	assert.False(t, col.IsFullscreen())
	assert.Equal(t, WidthFixed, col.Width().Kind)
	assert.Equal(t, 500.0, col.Width().Fixed)
	assert.Equal(t, config.ColumnDisplayTabbed, col.Display())
}

func TestMoveWindowKeepsUnfullscreenState(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := f.addWindow(image.Pt(100, 200))
	sc := f.activeScrolling()
	col := sc.Columns()[0]
	col.SetWidth(SizeChange{Kind: SetFixed, Value: 555})
	f.ackAll()

	f.l.SetFullscreenWindow(win.ID(), true)
	f.ackAll()

	// Move the fullscreen window to another workspace; the
	// pre-fullscreen width rides along on the tile.
	f.l.MoveWindowToWorkspace(win.ID(), 1, true)
	f.ackAll()
	f.verify()

	tile, ws, _ := f.l.FindWindow(win.ID())
	require.NotNil(t, tile)
	nsc := ws.Scrolling()
	ci := nsc.columnIdxOfWindow(win.ID())
	ncol := nsc.Columns()[ci]
	ncol.SetFullscreen(false)
	assert.Equal(t, WidthFixed, ncol.Width().Kind)
	assert.Equal(t, 555.0, ncol.Width().Fixed)
}

func TestSwitchWorkspaceRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	f.addWindow(image.Pt(100, 200))
	mon := f.l.ActiveMonitor()
	prev := mon.ActiveWorkspaceIdx()

	f.l.FocusWorkspace(1)
	f.settle()
	require.Equal(t, 1, mon.ActiveWorkspaceIdx())
	f.l.FocusWorkspace(prev)
	f.settle()
	assert.Equal(t, prev, mon.ActiveWorkspaceIdx())
}

func TestFocusWorkspaceAutoBackAndForth(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	f.addWindow(image.Pt(100, 200))
	mon := f.l.ActiveMonitor()

	f.l.FocusWorkspace(1)
	f.settle()
	f.l.FocusWorkspaceAutoBackAndForth(1)
	f.settle()
	assert.Equal(t, 0, mon.ActiveWorkspaceIdx(),
		"switching to the active index goes back to the previous workspace")
}

func TestAdjustProportionNeverNaN(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	f.addWindow(image.Pt(10, 10))

	for _, v := range []float64{-1e9, -100, -1, -0.5, 0, 1e9} {
		f.l.SetColumnWidth(SizeChange{Kind: AdjustProportion, Value: v})
		f.ackAll()
		f.verify()
		sc := f.activeScrolling()
		w := sc.Columns()[0].ResolvedWidth()
		assert.False(t, w != w, "width must not be NaN")
		assert.Greater(t, w, 0.0)
	}
}

func TestHugeMaxSizePlacedAtWorkingArea(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := NewTestWindow(NextWindowID(), image.Pt(100, 100))
	win.SetMaxSize(image.Pt(1<<31-1, 1<<31-1))
	f.windows[win.ID()] = win
	f.l.AddWindow(win, AddTarget{Kind: AddAuto}, true)
	f.ackAll()
	f.verify()

	tile := f.activeScrolling().FindTile(win.ID())
	require.NotNil(t, tile)
	assert.Equal(t, image.Pt(426, 720), tile.TargetSize())
}

func TestMinWinsOverMax(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := NewTestWindow(NextWindowID(), image.Pt(100, 100))
	win.SetMinSize(image.Pt(600, 0))
	win.SetMaxSize(image.Pt(400, 0))
	f.windows[win.ID()] = win
	f.l.AddWindow(win, AddTarget{Kind: AddAuto}, true)
	f.ackAll()
	f.verify()

	tile := f.activeScrolling().FindTile(win.ID())
	assert.Equal(t, 600, tile.TargetSize().X)
}

func TestZeroSizeConfigureIgnored(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := f.addWindow(image.Pt(100, 200))
	tile := f.activeScrolling().FindTile(win.ID())
	before := tile.TargetSize()
	tile.RequestSize(image.Pt(0, 0), SizingNormal, false, nil)
	assert.Equal(t, before, tile.TargetSize())
}

func TestWorkspaceCleanupInvariant(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	f.l.SetWorkspaceName("pinned", 0)
	w := f.addWindow(image.Pt(100, 100))
	f.l.FocusWorkspace(1)
	f.addWindow(image.Pt(100, 100))
	f.l.FocusWorkspace(2)
	f.l.RemoveWindow(w.ID(), nil)

	f.l.Refresh()
	f.l.CompleteAnimations()
	f.l.Refresh()
	f.verify()

	mon := f.l.ActiveMonitor()
	var named, nonEmpty, emptyUnnamed int
	for _, ws := range mon.Workspaces() {
		switch {
		case ws.IsNamed():
			named++
		case !ws.IsEmpty():
			nonEmpty++
		default:
			emptyUnnamed++
		}
	}
	assert.Equal(t, 1, named)
	assert.Equal(t, 1, nonEmpty)
	assert.Equal(t, 1, emptyUnnamed, "exactly one trailing scratch")
	last := mon.Workspaces()[len(mon.Workspaces())-1]
	assert.True(t, last.IsEmpty() && !last.IsNamed())
}

func TestEmptyWorkspaceAboveFirst(t *testing.T) {
	cfg := testConfig()
	cfg.Layout.EmptyWorkspaceAboveFirst = true
	f := newFixtureWithConfig(t, cfg)
	f.addOutput(1)
	f.addWindow(image.Pt(100, 100))
	f.settle()

	mon := f.l.ActiveMonitor()
	first := mon.Workspaces()[0]
	assert.True(t, first.IsEmpty() && !first.IsNamed(), "leading scratch required")
	last := mon.Workspaces()[len(mon.Workspaces())-1]
	assert.True(t, last.IsEmpty() && !last.IsNamed(), "trailing scratch required")
}

func TestCloseWindowMidMoveReleasesState(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	win := f.addWindow(image.Pt(100, 200))

	ok := f.l.InteractiveMoveBegin(win.ID(), outputName(1), f64.Point{X: 10, Y: 10}, false)
	require.True(t, ok)
	f.verify()
	f.l.RemoveWindow(win.ID(), nil)
	assert.Nil(t, f.l.InteractiveMoveState())
	f.verify()
}

func TestInteractiveMoveCancelRestores(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	w1 := f.addWindow(image.Pt(100, 200))
	f.addWindow(image.Pt(100, 200))
	f.l.FocusColumnLeft()

	require.True(t, f.l.InteractiveMoveBegin(w1.ID(), outputName(1), f64.Point{}, false))
	f.l.InteractiveMoveUpdate(outputName(1), f64.Point{X: 900, Y: 300})
	f.l.InteractiveMoveEnd(true)
	f.ackAll()
	f.verify()

	sc := f.activeScrolling()
	require.Len(t, sc.Columns(), 2)
	assert.Equal(t, w1.ID(), sc.Columns()[0].Tiles()[0].ID())
}

func TestParentCycleRejected(t *testing.T) {
	f := newFixture(t)
	f.addOutput(1)
	w1 := f.addWindow(image.Pt(100, 100))
	w2 := f.addWindow(image.Pt(100, 100))

	id1, id2 := w1.ID(), w2.ID()
	require.True(t, f.l.CanSetParent(id2, id1))
	w2.SetParent(&id1)
	assert.False(t, f.l.CanSetParent(id1, id2), "cycle must be rejected")
	assert.False(t, f.l.CanSetParent(id1, id1))
	f.verify()
}
