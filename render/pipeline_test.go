// SPDX-License-Identifier: Unlicense OR MIT

package render

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/layout"
)

func testLayout(t *testing.T) (*layout.Layout, *layout.TestWindow) {
	t.Helper()
	cfg := config.Default()
	cfg.Layout.Gaps = 0
	cfg.Layout.DefaultColumnWidth = &config.PresetSize{Proportion: 1.0 / 3.0}
	l := layout.New(anim.NewClock(0), cfg)
	l.AddOutput("output1", f64.Size{W: 1280, H: 720}, 1, nil)

	win := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
	l.AddWindow(win, layout.AddTarget{Kind: layout.AddAuto}, true)
	for {
		serial, ok := win.AckLast()
		if !ok {
			break
		}
		l.OnCommit(win.ID(), serial)
	}
	l.CompleteAnimations()
	return l, win
}

func TestProduceBasicOrder(t *testing.T) {
	l, win := testLayout(t)
	els := Produce(l, "output1", TargetOutput)
	require.NotEmpty(t, els)

	assert.Equal(t, KindSolidColor, els[0].Kind, "background renders first")

	var surface *Element
	for i := range els {
		if els[i].WindowID == win.ID() && els[i].Kind == KindClippedSurface {
			surface = &els[i]
		}
	}
	require.NotNil(t, surface, "window surface present")
	assert.Equal(t, f64.Rect(0, 0, 426, 720), surface.Dst)
	assert.Equal(t, 1.0, surface.Alpha)
	assert.NotEmpty(t, surface.OpaqueRegions, "opaque window reports opaque region")
	assert.NotEmpty(t, surface.Damage)
}

func TestProduceUnknownOutput(t *testing.T) {
	l, _ := testLayout(t)
	assert.Nil(t, Produce(l, "nope", TargetOutput))
}

func TestFocusRingOnActiveTile(t *testing.T) {
	l, win := testLayout(t)
	els := Produce(l, "output1", TargetOutput)

	var ring, surfaceIdx = -1, -1
	for i, el := range els {
		if el.Kind == KindBorder && ring == -1 {
			ring = i
		}
		if el.Kind == KindClippedSurface && el.WindowID == win.ID() {
			surfaceIdx = i
		}
	}
	require.GreaterOrEqual(t, ring, 0, "focused window gets a focus ring")
	require.GreaterOrEqual(t, surfaceIdx, 0)
	assert.Less(t, ring, surfaceIdx, "decorations render below the window")
}

func TestTabSwitchProducesCrossfade(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Gaps = 0
	cfg.Layout.DefaultColumnWidth = &config.PresetSize{Proportion: 1.0 / 3.0}
	l := layout.New(anim.NewClock(0), cfg)
	l.AddOutput("output1", f64.Size{W: 1280, H: 720}, 1, nil)

	var wins []*layout.TestWindow
	ackAll := func() {
		for _, w := range wins {
			for {
				serial, ok := w.AckLast()
				if !ok {
					break
				}
				l.OnCommit(w.ID(), serial)
			}
		}
	}
	for i := 0; i < 2; i++ {
		w := layout.NewTestWindow(layout.NextWindowID(), image.Pt(100, 200))
		wins = append(wins, w)
		l.AddWindow(w, layout.AddTarget{Kind: layout.AddAuto}, true)
		ackAll()
	}
	l.FocusColumnLeft()
	l.ConsumeIntoColumn()
	l.ToggleColumnTabbedDisplay()
	ackAll()
	l.CompleteAnimations()

	// Switching tabs starts a content crossfade on the incoming
	// tile; the renderer supplies the outgoing content snapshot.
	ws := l.ActiveWorkspace()
	col := ws.Scrolling().Columns()[0]
	require.Equal(t, config.ColumnDisplayTabbed, col.Display())
	require.True(t, l.FocusWindowUp())
	tile := col.ActiveTile()
	tile.SetSnapshot(&layout.Snapshot{Size: tile.AnimatedWindowSize(), Handle: "tab-tex"})

	els := Produce(l, "output1", TargetOutput)
	var crossfade *Element
	for i := range els {
		if els[i].Kind == KindCrossfade {
			crossfade = &els[i]
		}
		require.NotEqual(t, KindResize, els[i].Kind,
			"same-size snapshot must not render as a resize blend")
	}
	require.NotNil(t, crossfade)
	assert.Equal(t, tile.ID(), crossfade.WindowID)
	assert.Equal(t, "tab-tex", crossfade.Texture)
	assert.GreaterOrEqual(t, crossfade.Progress, 0.0)
	assert.Less(t, crossfade.Progress, 1.0)
}

func TestResizeSnapshotProducesResizeBlend(t *testing.T) {
	l, win := testLayout(t)
	l.SetColumnWidth(layout.SizeChange{Kind: layout.SetFixed, Value: 800})
	tile := l.ActiveWorkspace().Scrolling().FindTile(win.ID())
	require.NotNil(t, tile)
	tile.SetSnapshot(&layout.Snapshot{Size: f64.Size{W: 426, H: 720}, Handle: "old-tex"})
	for {
		serial, ok := win.AckLast()
		if !ok {
			break
		}
		l.OnCommit(win.ID(), serial)
	}

	els := Produce(l, "output1", TargetOutput)
	var resize *Element
	for i := range els {
		if els[i].Kind == KindResize {
			resize = &els[i]
		}
	}
	require.NotNil(t, resize, "size-changing snapshot renders as a resize blend")
	assert.Equal(t, "old-tex", resize.Texture)
}

func TestWorkspaceSwitchOffsetsWorkspaces(t *testing.T) {
	l, _ := testLayout(t)
	l.FocusWorkspace(1)
	l.Clock().Advance(30 * time.Millisecond)
	// Mid-switch both workspaces are visible, offset vertically.
	els := Produce(l, "output1", TargetOutput)
	backgrounds := 0
	for _, el := range els {
		if el.Kind == KindSolidColor {
			backgrounds++
		}
	}
	assert.Equal(t, 2, backgrounds, "both workspaces render during the switch")

	l.CompleteAnimations()
	els = Produce(l, "output1", TargetOutput)
	backgrounds = 0
	for _, el := range els {
		if el.Kind == KindSolidColor {
			backgrounds++
		}
	}
	assert.Equal(t, 1, backgrounds, "only the active workspace renders when settled")
}
