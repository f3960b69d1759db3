// SPDX-License-Identifier: Unlicense OR MIT

package window

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/layout"
)

type fixture struct {
	l  *layout.Layout
	lc *Lifecycle
}

func newFixture(t *testing.T, cfg config.Config) *fixture {
	l := layout.New(anim.NewClock(0), cfg)
	l.AddOutput("output1", f64.Size{W: 1280, H: 720}, 1, nil)
	return &fixture{l: l, lc: New(l, nil)}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Layout.Gaps = 0
	cfg.Layout.DefaultColumnWidth = &config.PresetSize{Proportion: 1.0 / 3.0}
	return cfg
}

// mapWindow walks a surface through first commit (triggers the
// initial configure), client ack, and the mapping buffer commit.
func (f *fixture) mapWindow(t *testing.T, win *layout.TestWindow) {
	t.Helper()
	f.lc.AddSurface(win, nil)

	// First commit, no buffer: the initial configure goes out.
	f.lc.OnCommit(win.ID(), 0, false)
	u, ok := f.lc.Unmapped(win.ID())
	require.True(t, ok)
	require.Equal(t, PhaseConfigured, u.Phase())
	pc, ok := win.LastConfigure()
	require.True(t, ok)
	require.True(t, pc.Sent, "initial configure must be sent")

	// The client acks and attaches a buffer.
	serial, ok := win.AckLast()
	require.True(t, ok)
	f.lc.OnCommit(win.ID(), serial, true)
	require.True(t, f.lc.IsMapped(win.ID()))
	_, stillUnmapped := f.lc.Unmapped(win.ID())
	require.False(t, stillUnmapped)
}

func (f *fixture) ack(win *layout.TestWindow) {
	for {
		serial, ok := win.AckLast()
		if !ok {
			return
		}
		f.l.OnCommit(win.ID(), serial)
	}
}

func TestMapLifecycle(t *testing.T) {
	f := newFixture(t, testConfig())
	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.mapWindow(t, win)
	f.ack(win)
	require.NoError(t, f.l.VerifyInvariants())

	tile, ws, mon := f.l.FindWindow(win.ID())
	require.NotNil(t, tile)
	require.NotNil(t, ws)
	require.Equal(t, "output1", mon.OutputName())
	assert.Equal(t, image.Pt(426, 720), tile.TargetSize())
}

func TestInitialConfigureSizeFromRules(t *testing.T) {
	cfg := testConfig()
	w := &config.PresetSize{Fixed: 500}
	cfg.Rules = []config.WindowRule{{DefaultColumnWidth: w}}
	f := newFixture(t, cfg)

	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.lc.AddSurface(win, nil)
	f.lc.OnCommit(win.ID(), 0, false)
	pc, ok := win.LastConfigure()
	require.True(t, ok)
	assert.Equal(t, 500, pc.Size.X)
	assert.Equal(t, 720, pc.Size.Y)
}

func TestOpenOnNamedWorkspaceRule(t *testing.T) {
	cfg := testConfig()
	name := "mail"
	cfg.Rules = []config.WindowRule{{OpenOnWorkspace: &name}}
	f := newFixture(t, cfg)

	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.mapWindow(t, win)
	f.ack(win)

	_, ws, _ := f.l.FindWindow(win.ID())
	require.NotNil(t, ws)
	assert.Equal(t, "mail", ws.Name())
}

func TestFullscreenRequestBeforeMap(t *testing.T) {
	f := newFixture(t, testConfig())
	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.lc.AddSurface(win, &FullscreenRequest{})
	f.lc.OnCommit(win.ID(), 0, false)
	pc, ok := win.LastConfigure()
	require.True(t, ok)
	assert.True(t, pc.States.Fullscreen)
	assert.Equal(t, image.Pt(1280, 720), pc.Size)

	serial, _ := win.AckLast()
	f.lc.OnCommit(win.ID(), serial, true)
	f.ack(win)

	_, ws, _ := f.l.FindWindow(win.ID())
	require.NotNil(t, ws)
	sc := ws.Scrolling()
	require.Len(t, sc.Columns(), 1)
	assert.True(t, sc.Columns()[0].IsFullscreen())
}

func TestFullscreenRequestedOutputPlacement(t *testing.T) {
	f := newFixture(t, testConfig())
	f.l.AddOutput("output2", f64.Size{W: 1280, H: 720}, 1, nil)
	f.l.FocusOutput("output1")

	// The client asked for fullscreen on output2; that beats the
	// active monitor but loses to the open-on-* rules.
	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.lc.AddSurface(win, &FullscreenRequest{Output: "output2"})
	f.lc.OnCommit(win.ID(), 0, false)
	serial, ok := win.AckLast()
	require.True(t, ok)
	f.lc.OnCommit(win.ID(), serial, true)
	f.ack(win)

	_, ws, mon := f.l.FindWindow(win.ID())
	require.NotNil(t, ws)
	require.NotNil(t, mon)
	assert.Equal(t, "output2", mon.OutputName())
	sc := ws.Scrolling()
	require.Len(t, sc.Columns(), 1)
	assert.True(t, sc.Columns()[0].IsFullscreen())
}

func TestFullscreenRequestUnknownOutputFallsBack(t *testing.T) {
	f := newFixture(t, testConfig())
	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.lc.AddSurface(win, &FullscreenRequest{Output: "gone"})
	f.lc.OnCommit(win.ID(), 0, false)
	serial, ok := win.AckLast()
	require.True(t, ok)
	f.lc.OnCommit(win.ID(), serial, true)
	f.ack(win)

	_, _, mon := f.l.FindWindow(win.ID())
	require.NotNil(t, mon)
	assert.Equal(t, "output1", mon.OutputName(),
		"unknown requested output falls back to the active monitor")
}

func TestUnmapReturnsToConfigured(t *testing.T) {
	f := newFixture(t, testConfig())
	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.mapWindow(t, win)
	f.ack(win)

	// Commit without a buffer unmaps.
	f.lc.OnCommit(win.ID(), 0, false)
	require.False(t, f.lc.IsMapped(win.ID()))
	u, ok := f.lc.Unmapped(win.ID())
	require.True(t, ok)
	assert.Equal(t, PhaseConfigured, u.Phase())
	require.NoError(t, f.l.VerifyInvariants())

	// A new buffer commit maps it again.
	f.lc.OnCommit(win.ID(), 0, true)
	assert.True(t, f.lc.IsMapped(win.ID()))
}

func TestDestroyUnmappedSurface(t *testing.T) {
	f := newFixture(t, testConfig())
	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.lc.AddSurface(win, nil)
	f.lc.OnDestroy(win.ID())
	_, ok := f.lc.Unmapped(win.ID())
	assert.False(t, ok)
}

func TestDestroyMappedWindow(t *testing.T) {
	f := newFixture(t, testConfig())
	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.mapWindow(t, win)
	f.ack(win)

	f.lc.OnDestroy(win.ID())
	assert.False(t, f.lc.IsMapped(win.ID()))
	require.NoError(t, f.l.VerifyInvariants())
}

func TestCommitForUnknownSurfaceIgnored(t *testing.T) {
	f := newFixture(t, testConfig())
	// A serial the core never sent on a surface it never saw
	// must not crash or mutate anything.
	f.lc.OnCommit(layout.WindowID(9999), 42, true)
	require.NoError(t, f.l.VerifyInvariants())
}

func TestParentPlacement(t *testing.T) {
	f := newFixture(t, testConfig())
	parent := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	f.mapWindow(t, parent)
	f.ack(parent)

	// Put the parent on workspace 1.
	f.l.MoveWindowToWorkspace(parent.ID(), 1, true)
	f.l.CompleteAnimations()
	f.l.Refresh()
	f.ack(parent)
	_, parentWs, _ := f.l.FindWindow(parent.ID())

	pid := parent.ID()
	child := layout.NewTestWindow(layout.NextWindowID(), image.Pt(50, 50))
	child.SetParent(&pid)
	f.mapWindow(t, child)
	f.ack(child)

	_, childWs, _ := f.l.FindWindow(child.ID())
	assert.Equal(t, parentWs.ID(), childWs.ID(), "children open next to their parent")
}
