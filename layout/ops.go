// SPDX-License-Identifier: Unlicense OR MIT

package layout

// Combined ops: focus and move actions that fall through to the
// neighboring column, workspace or monitor when they hit an edge.

// FocusWindow focuses the window by id wherever it lives.
func (l *Layout) FocusWindow(id WindowID) bool {
	return l.ActivateWindow(id)
}

// FocusWindowInColumn focuses the idx-th window of the active
// column.
func (l *Layout) FocusWindowInColumn(idx int) {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		col := s.ActiveColumn()
		if col == nil || idx < 0 || idx >= col.TileCount() {
			return false
		}
		col.SetActiveTileIdx(idx)
		return true
	})
}

// FocusWindowDownOrColumnRight moves focus down, spilling to the
// next column at the bottom.
func (l *Layout) FocusWindowDownOrColumnRight() {
	if !l.FocusWindowDown() {
		l.FocusColumnRight()
	}
}

// FocusWindowDownOrColumnLeft moves focus down, spilling to the
// previous column at the bottom.
func (l *Layout) FocusWindowDownOrColumnLeft() {
	if !l.FocusWindowDown() {
		l.FocusColumnLeft()
	}
}

// FocusWindowUpOrColumnRight moves focus up, spilling to the next
// column at the top.
func (l *Layout) FocusWindowUpOrColumnRight() {
	if !l.FocusWindowUp() {
		l.FocusColumnRight()
	}
}

// FocusWindowUpOrColumnLeft moves focus up, spilling to the
// previous column at the top.
func (l *Layout) FocusWindowUpOrColumnLeft() {
	if !l.FocusWindowUp() {
		l.FocusColumnLeft()
	}
}

// FocusWindowDownOrTop wraps focus to the top tile at the bottom
// of the column.
func (l *Layout) FocusWindowDownOrTop() {
	if !l.FocusWindowDown() {
		l.FocusWindowTop()
	}
}

// FocusWindowUpOrBottom wraps focus to the bottom tile at the top
// of the column.
func (l *Layout) FocusWindowUpOrBottom() {
	if !l.FocusWindowUp() {
		l.FocusWindowBottom()
	}
}

// FocusWindowOrMonitorDown moves focus down, spilling to the next
// monitor at the bottom of the column.
func (l *Layout) FocusWindowOrMonitorDown() {
	if !l.FocusWindowDown() {
		l.focusMonitorDelta(1)
	}
}

// FocusWindowOrMonitorUp mirrors FocusWindowOrMonitorDown.
func (l *Layout) FocusWindowOrMonitorUp() {
	if !l.FocusWindowUp() {
		l.focusMonitorDelta(-1)
	}
}

// MoveColumnLeftOrToMonitorLeft moves the column left, jumping
// monitors at the strip edge.
func (l *Layout) MoveColumnLeftOrToMonitorLeft() {
	if !l.MoveColumnLeft() {
		l.MoveColumnToMonitor(-1)
	}
}

// MoveColumnRightOrToMonitorRight mirrors the left variant.
func (l *Layout) MoveColumnRightOrToMonitorRight() {
	if !l.MoveColumnRight() {
		l.MoveColumnToMonitor(1)
	}
}

// MoveWindowDownOrToWorkspaceDown moves the window down within
// its column, or to the next workspace at the bottom.
func (l *Layout) MoveWindowDownOrToWorkspaceDown() {
	if !l.MoveWindowDown() {
		l.MoveWindowToWorkspaceDown(true)
	}
}

// MoveWindowUpOrToWorkspaceUp mirrors the down variant.
func (l *Layout) MoveWindowUpOrToWorkspaceUp() {
	if !l.MoveWindowUp() {
		l.MoveWindowToWorkspaceUp(true)
	}
}

// CenterWindow centers the column holding the window (the focused
// one when id is zero).
func (l *Layout) CenterWindow(id WindowID) {
	if id == 0 {
		l.CenterColumn()
		return
	}
	_, ws, mon := l.FindWindow(id)
	if ws == nil {
		return
	}
	sc := ws.Scrolling()
	ci := sc.columnIdxOfWindow(id)
	if ci < 0 {
		return
	}
	_, _, center := sc.snapRange(ci)
	// Keep the active column within its valid range; centering a
	// background column never scrolls the focused one off.
	target := sc.targetViewOffset(center)
	sc.viewOffset.animateTo(sc.clock, target)
	if mon != nil {
		l.QueueRedraw(mon.OutputName())
	}
}

// CenterVisibleColumns centers the group of fully visible columns
// as a block.
func (l *Layout) CenterVisibleColumns() {
	l.withActiveScrolling(func(s *ScrollingSpace) bool {
		if len(s.columns) == 0 {
			return false
		}
		vw := s.workingArea.Dx()
		offset := s.viewOffset.Target()
		first, last := -1, -1
		for i := range s.columns {
			x := s.ColumnX(i)
			if x >= offset && x+s.columns[i].ResolvedWidth() <= offset+vw {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		if first < 0 {
			return false
		}
		left := s.ColumnX(first)
		right := s.ColumnX(last) + s.columns[last].ResolvedWidth()
		center := left + (right-left)/2 - vw/2
		s.viewOffset.animateTo(s.clock, s.targetViewOffset(center))
		return true
	})
}
