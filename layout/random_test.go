// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"fmt"
	"image"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRandomOperationsKeepInvariants hammers the layout with
// pseudo-random operation sequences and checks every structural
// invariant after each step. Failures print the executed ops so a
// shrinking reproduction can be written by hand.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			runRandomOps(t, seed, 400)
		})
	}
}

func runRandomOps(t *testing.T, seed int64, steps int) {
	rng := rand.New(rand.NewSource(seed))
	f := newFixture(t)
	var ops []string

	do := func(name string, op func()) {
		ops = append(ops, name)
		op()
		f.ackAll()
		if err := f.l.VerifyInvariants(); err != nil {
			t.Fatalf("invariant violated after %v: %v", ops, err)
		}
	}

	alive := func() []WindowID {
		var out []WindowID
		for id := range f.windows {
			if tile, _, _ := f.l.FindWindow(id); tile != nil {
				out = append(out, tile.ID())
			}
		}
		return out
	}

	for i := 0; i < steps; i++ {
		switch rng.Intn(24) {
		case 0:
			n := rng.Intn(3) + 1
			do(fmt.Sprintf("add-output-%d", n), func() { f.addOutput(n) })
		case 1:
			if len(f.l.Monitors()) > 0 {
				n := rng.Intn(3) + 1
				do(fmt.Sprintf("remove-output-%d", n), func() { f.l.RemoveOutput(outputName(n)) })
			}
		case 2:
			n := rng.Intn(3) + 1
			do(fmt.Sprintf("focus-output-%d", n), func() { f.l.FocusOutput(outputName(n)) })
		case 3:
			if len(f.l.Monitors()) > 0 {
				do("add-window", func() {
					win := NewTestWindow(NextWindowID(), image.Pt(rng.Intn(500)+50, rng.Intn(500)+50))
					f.windows[win.ID()] = win
					f.l.AddWindow(win, AddTarget{Kind: AddAuto}, rng.Intn(2) == 0)
				})
			}
		case 4:
			if ids := alive(); len(ids) > 0 {
				id := ids[rng.Intn(len(ids))]
				do(fmt.Sprintf("close-window-%d", id), func() {
					f.l.RemoveWindow(id, nil)
					delete(f.windows, id)
				})
			}
		case 5:
			do("focus-column-left", func() { f.l.FocusColumnLeft() })
		case 6:
			do("focus-column-right", func() { f.l.FocusColumnRight() })
		case 7:
			do("focus-window-up", func() { f.l.FocusWindowUp() })
		case 8:
			do("focus-window-down", func() { f.l.FocusWindowDown() })
		case 9:
			do("move-column-left", func() { f.l.MoveColumnLeft() })
		case 10:
			do("move-column-right", func() { f.l.MoveColumnRight() })
		case 11:
			do("consume", func() { f.l.ConsumeIntoColumn() })
		case 12:
			do("expel", func() { f.l.ExpelFromColumn() })
		case 13:
			do("consume-or-expel-left", func() { f.l.ConsumeOrExpelWindowLeft() })
		case 14:
			do("consume-or-expel-right", func() { f.l.ConsumeOrExpelWindowRight() })
		case 15:
			v := rng.Float64()*4 - 2
			do("adjust-width", func() { f.l.SetColumnWidth(SizeChange{Kind: AdjustProportion, Value: v}) })
		case 16:
			v := float64(rng.Intn(2000) - 1000)
			do("adjust-height", func() { f.l.SetWindowHeight(SizeChange{Kind: AdjustFixed, Value: v}) })
		case 17:
			idx := rng.Intn(4)
			do(fmt.Sprintf("focus-workspace-%d", idx), func() { f.l.FocusWorkspace(idx) })
		case 18:
			if ids := alive(); len(ids) > 0 {
				id := ids[rng.Intn(len(ids))]
				do("toggle-fullscreen", func() { f.l.ToggleFullscreenWindow(id) })
			}
		case 19:
			do("toggle-tabbed", func() { f.l.ToggleColumnTabbedDisplay() })
		case 20:
			idx := rng.Intn(3)
			do(fmt.Sprintf("move-window-to-workspace-%d", idx), func() {
				f.l.MoveWindowToWorkspace(0, idx, rng.Intn(2) == 0)
			})
		case 21:
			ms := rng.Intn(300)
			do(fmt.Sprintf("advance-%dms", ms), func() {
				f.clock.Advance(time.Duration(ms) * time.Millisecond)
				f.l.AdvanceAnimations(f.clock.NowUnadjusted())
			})
		case 22:
			do("toggle-full-width", func() { f.l.ToggleFullWidth() })
		case 23:
			do("preset-width", func() { f.l.TogglePresetColumnWidth(rng.Intn(2) == 0) })
		}
	}

	// After settling, the workspace lists must contain only what
	// the cleanup rules require.
	f.settle()
	for _, mon := range f.l.Monitors() {
		wss := mon.Workspaces()
		last := wss[len(wss)-1]
		require.True(t, last.IsEmpty() && !last.IsNamed(),
			"trailing scratch after settle (ops: %v)", ops)
		for i, ws := range wss[:len(wss)-1] {
			if !ws.IsNamed() && ws.IsEmpty() && i != mon.ActiveWorkspaceIdx() {
				t.Fatalf("leftover empty unnamed workspace %d after settle (ops: %v)", i, ops)
			}
		}
	}
}
