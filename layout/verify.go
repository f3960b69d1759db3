// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"math"

	"github.com/pkg/errors"
)

// VerifyInvariants checks every structural invariant of the
// layout. Tests call it after each operation; release builds call
// it from recovery paths only.
func (l *Layout) VerifyInvariants() error {
	seen := make(map[WindowID]int)

	for _, m := range l.monitors {
		if m.activeWorkspaceIdx < 0 || m.activeWorkspaceIdx >= len(m.workspaces) {
			return errors.Errorf("monitor %s: active workspace index %d out of range [0, %d)",
				m.outputName, m.activeWorkspaceIdx, len(m.workspaces))
		}
		if len(m.workspaces) == 0 {
			return errors.Errorf("monitor %s: no workspaces", m.outputName)
		}
		last := m.workspaces[len(m.workspaces)-1]
		if last.IsNamed() || !last.IsEmpty() {
			return errors.Errorf("monitor %s: missing trailing scratch workspace", m.outputName)
		}
		for _, ws := range m.workspaces {
			if err := ws.VerifyInvariants(); err != nil {
				return errors.Wrapf(err, "monitor %s", m.outputName)
			}
			countWorkspaceWindows(ws, seen)
		}
	}
	for _, ws := range l.orphans {
		if err := ws.VerifyInvariants(); err != nil {
			return errors.Wrap(err, "orphan workspace")
		}
		countWorkspaceWindows(ws, seen)
	}
	if mv := l.interactiveMove; mv != nil {
		seen[mv.Tile.ID()]++
	}
	for id, n := range seen {
		if n != 1 {
			return errors.Errorf("window %d appears in %d locations", id, n)
		}
	}

	for id := range seen {
		if l.hasParentCycle(id) {
			return errors.Errorf("window %d: parent chain cycle", id)
		}
	}
	return nil
}

func countWorkspaceWindows(ws *Workspace, seen map[WindowID]int) {
	for _, c := range ws.scrolling.columns {
		for _, t := range c.tiles {
			seen[t.ID()]++
		}
	}
	for _, t := range ws.floating.tiles {
		seen[t.ID()]++
	}
}

func (l *Layout) hasParentCycle(id WindowID) bool {
	cur := id
	for range 64 {
		t, _, _ := l.FindWindow(cur)
		if t == nil {
			return false
		}
		next, ok := t.Window().Parent()
		if !ok {
			return false
		}
		if next == id {
			return true
		}
		cur = next
	}
	return true
}

// RecoverInvariants is the release-build response to a detected
// violation: log, re-clamp, refresh.
func (l *Layout) RecoverInvariants(err error) {
	l.log.Warn("layout invariant violated, recovering", "error", err)
	for _, m := range l.monitors {
		for _, ws := range m.workspaces {
			ws.Scrolling().ClampViewOffset()
		}
	}
	l.Refresh()
}

// verify checks the scrolling space invariants.
func (s *ScrollingSpace) verify() error {
	for i, c := range s.columns {
		if len(c.tiles) == 0 {
			return errors.Errorf("column %d is empty", i)
		}
		if c.activeTileIdx < 0 || c.activeTileIdx >= len(c.tiles) {
			return errors.Errorf("column %d: active tile index %d out of range [0, %d)",
				i, c.activeTileIdx, len(c.tiles))
		}
		if len(c.heights) != len(c.tiles) {
			return errors.Errorf("column %d: %d height weights for %d tiles",
				i, len(c.heights), len(c.tiles))
		}
		if c.isFullscreen && len(c.tiles) != 1 {
			return errors.Errorf("column %d: fullscreen with %d tiles", i, len(c.tiles))
		}
	}
	if len(s.columns) > 0 {
		if s.activeColumnIdx < 0 || s.activeColumnIdx >= len(s.columns) {
			return errors.Errorf("active column index %d out of range [0, %d)",
				s.activeColumnIdx, len(s.columns))
		}
	}
	if s.viewOffset.kind == ViewStatic && len(s.columns) > 0 {
		got := s.viewOffset.static
		want := s.targetViewOffset(got)
		if math.Abs(got-want) > 0.5 {
			return errors.Errorf("static view offset %f violates clamp (want %f)", got, want)
		}
	}
	if math.IsNaN(s.viewOffset.Current()) {
		return errors.New("view offset is NaN")
	}
	return nil
}

// verifyZOrder checks that every tile's descendants sit
// contiguously above it.
func (s *FloatingSpace) verifyZOrder() error {
	for i, t := range s.tiles {
		// Every tile between a parent and its descendant must
		// itself be part of the parent's subtree.
		for j := i + 1; j < len(s.tiles); j++ {
			if !s.isDescendantOf(s.tiles[j].ID(), t.ID()) {
				for k := j + 1; k < len(s.tiles); k++ {
					if s.isDescendantOf(s.tiles[k].ID(), t.ID()) {
						return errors.Errorf("descendant %d of %d separated from its chain",
							s.tiles[k].ID(), t.ID())
					}
				}
				break
			}
		}
	}
	for _, t := range s.tiles {
		if _, ok := s.positions[t.ID()]; !ok {
			return errors.Errorf("floating tile %d has no position", t.ID())
		}
	}
	return nil
}
