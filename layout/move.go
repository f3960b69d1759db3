// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"time"

	"strata.dev/anim"
	"strata.dev/f64"
	"strata.dev/gesture"
)

// InteractiveMoveBegin starts dragging a window. The tile moves
// out of its workspace into the move slot until the gesture
// resolves.
func (l *Layout) InteractiveMoveBegin(id WindowID, output string, cursorOffset f64.Point, isDrag bool) bool {
	if l.interactiveMove != nil {
		return false
	}
	tile, ws, _ := l.FindWindow(id)
	if tile == nil || ws == nil {
		return false
	}

	origin := moveOrigin{workspaceID: ws.ID()}
	sc := ws.Scrolling()
	if ci := sc.columnIdxOfWindow(id); ci >= 0 {
		origin.columnIdx = ci
		origin.width = sc.columns[ci].Width()
	} else if pos, ok := ws.Floating().Position(id); ok {
		origin.wasFloating = true
		origin.floatingPos = pos
		origin.width = defaultWidthFor(tile, ws.Config())
	}

	ws.RemoveTile(id)
	l.Refresh()
	l.interactiveMove = &InteractiveMove{
		Tile:          tile,
		CursorOffset:  cursorOffset,
		CurrentOutput: output,
		IsDrag:        isDrag,
		origin:        origin,
	}
	l.queueRedrawAll()
	return true
}

// InteractiveMoveUpdate tracks the cursor, updating the insert
// hint of the hovered workspace.
func (l *Layout) InteractiveMoveUpdate(output string, point f64.Point) {
	move := l.interactiveMove
	if move == nil {
		return
	}
	if move.IsDrag {
		l.DndUpdate(output, point)
	}
	move.CurrentOutput = output
	move.Point = point

	_, mon := l.findMonitor(output)
	if mon == nil {
		return
	}
	ws := mon.ActiveWorkspace()
	hint := computeInsertPosition(ws.Scrolling(), point)
	ws.Scrolling().SetInsertHint(&hint)
	l.QueueRedraw(output)
}

// InteractiveMoveEnd resolves the drop, or restores the starting
// state when cancelled.
func (l *Layout) InteractiveMoveEnd(cancelled bool) {
	move := l.interactiveMove
	if move == nil {
		return
	}
	l.interactiveMove = nil
	l.clearInsertHints()
	defer func() {
		l.Refresh()
		l.queueRedrawAll()
	}()

	if cancelled {
		l.restoreMovedTile(move)
		return
	}

	_, mon := l.findMonitor(move.CurrentOutput)
	if mon == nil {
		l.restoreMovedTile(move)
		return
	}
	if idx, _ := l.findMonitor(move.CurrentOutput); idx >= 0 {
		l.activeMonitorIdx = idx
	}
	ws := mon.ActiveWorkspace()

	if move.origin.wasFloating {
		pos := move.Point.Sub(move.CursorOffset)
		ws.Floating().AddTile(move.Tile, &pos)
		ws.SetFocusSide(FocusFloating)
		return
	}

	sc := ws.Scrolling()
	hint := computeInsertPosition(sc, move.Point)
	if hint.InColumn && hint.ColumnIdx < len(sc.columns) {
		col := sc.columns[hint.ColumnIdx]
		col.addTile(hint.TileIdx, move.Tile)
		col.SetActiveTileIdx(hint.TileIdx)
		sc.ActivateColumn(hint.ColumnIdx)
	} else {
		col := NewColumn(move.Tile, move.origin.width, ws.Config().DefaultColumnDisplay, sc.workingArea, sc.cfg)
		sc.AddColumn(hint.NewColumnAt, col, true)
	}
	ws.SetFocusSide(FocusScrolling)
	ws.Update(true, nil)
}

// restoreMovedTile puts a tile back where the move started, or
// the closest still-existing place.
func (l *Layout) restoreMovedTile(move *InteractiveMove) {
	ws, _ := l.findWorkspaceByID(move.origin.workspaceID)
	if ws == nil {
		ws = l.ActiveWorkspace()
	}
	if ws == nil {
		l.cancelInteractiveMoveToOrphans(move)
		return
	}
	if move.origin.wasFloating {
		pos := move.origin.floatingPos
		ws.Floating().AddTile(move.Tile, &pos)
		return
	}
	sc := ws.Scrolling()
	col := NewColumn(move.Tile, move.origin.width, ws.Config().DefaultColumnDisplay, sc.workingArea, sc.cfg)
	at := move.origin.columnIdx
	if at > len(sc.columns) {
		at = len(sc.columns)
	}
	sc.AddColumn(at, col, true)
	ws.Update(false, nil)
}

// InteractiveMoveState returns the in-flight move, if any.
func (l *Layout) InteractiveMoveState() *InteractiveMove {
	return l.interactiveMove
}

func (l *Layout) clearInsertHints() {
	for _, m := range l.monitors {
		for _, ws := range m.workspaces {
			ws.Scrolling().SetInsertHint(nil)
		}
	}
}

// computeInsertPosition maps a workspace-local point to a drop
// slot: the side bands of a column insert a new column next to
// it, the middle consumes into it, above or below the hovered
// tile.
func computeInsertPosition(sc *ScrollingSpace, point f64.Point) InsertPosition {
	if len(sc.columns) == 0 {
		return InsertPosition{NewColumnAt: 0}
	}
	offset := sc.viewOffset.Current()
	base := sc.workingArea.Min
	for i, col := range sc.columns {
		left := base.X + sc.ColumnX(i) - offset
		right := left + col.ResolvedWidth()
		band := col.ResolvedWidth() * 0.25
		if point.X < left+band {
			return InsertPosition{NewColumnAt: i}
		}
		if point.X <= right-band {
			// Over the column body: pick the tile slot by the
			// vertical midpoints.
			positions := col.TilePositions()
			ti := len(col.tiles)
			for j := range col.tiles {
				mid := base.Y + positions[j].Y + col.tiles[j].AnimatedSize().H/2
				if point.Y < mid {
					ti = j
					break
				}
			}
			return InsertPosition{InColumn: true, ColumnIdx: i, TileIdx: ti}
		}
	}
	return InsertPosition{NewColumnAt: len(sc.columns)}
}

// DndUpdate tracks an external drag-and-drop hover point.
func (l *Layout) DndUpdate(output string, point f64.Point) {
	l.dndHover = &DndHover{Output: output, Point: point}
	l.QueueRedraw(output)
}

// DndEnd clears the drag-and-drop hover state.
func (l *Layout) DndEnd() {
	if l.dndHover != nil {
		l.QueueRedraw(l.dndHover.Output)
		l.dndHover = nil
	}
}

// DndHoverState returns the current hover, if any.
func (l *Layout) DndHoverState() *DndHover { return l.dndHover }

// InteractiveResizeBegin starts an edge resize on a window. Two
// rapid begins on overlapping edges trigger the double-click
// shortcut instead.
func (l *Layout) InteractiveResizeBegin(id WindowID, edges gesture.ResizeEdges) bool {
	tile, ws, _ := l.FindWindow(id)
	if tile == nil || ws == nil {
		return false
	}
	switch tile.ResizeLatch().Press(l.clock.Now(), edges) {
	case gesture.ShortcutToggleFullWidth:
		sc := ws.Scrolling()
		if ci := sc.columnIdxOfWindow(id); ci >= 0 {
			sc.columns[ci].ToggleFullWidth()
			sc.Update(true, nil)
		}
		l.queueRedrawActive()
		return false
	case gesture.ShortcutResetHeight:
		sc := ws.Scrolling()
		if ci := sc.columnIdxOfWindow(id); ci >= 0 {
			col := sc.columns[ci]
			col.ResetTileHeight(col.tileIdx(id))
			sc.Update(true, nil)
		}
		l.queueRedrawActive()
		return false
	}
	l.interactiveResize = &interactiveResize{windowID: id, edges: uint8(edges)}
	return true
}

// InteractiveResizeUpdate applies a cursor movement to the
// grabbed edges.
func (l *Layout) InteractiveResizeUpdate(delta f64.Point) {
	ir := l.interactiveResize
	if ir == nil {
		return
	}
	_, ws, _ := l.FindWindow(ir.windowID)
	if ws == nil {
		return
	}
	sc := ws.Scrolling()
	ci := sc.columnIdxOfWindow(ir.windowID)
	if ci < 0 {
		return
	}
	col := sc.columns[ci]
	edges := gesture.ResizeEdges(ir.edges)
	if edges.Horizontal() {
		dx := delta.X
		if edges&gesture.EdgeLeft != 0 {
			dx = -dx
		}
		if dx != 0 {
			col.SetWidth(SizeChange{Kind: AdjustFixed, Value: dx})
		}
	}
	if edges.Vertical() {
		dy := delta.Y
		if edges&gesture.EdgeTop != 0 {
			dy = -dy
		}
		if dy != 0 {
			col.SetTileHeight(col.tileIdx(ir.windowID), SizeChange{Kind: AdjustFixed, Value: dy})
		}
	}
	sc.Update(false, nil)
	l.queueRedrawActive()
}

// InteractiveResizeEnd finishes the resize.
func (l *Layout) InteractiveResizeEnd() {
	l.interactiveResize = nil
}

// ViewGestureBegin starts the horizontal view pan on the focused
// workspace.
func (l *Layout) ViewGestureBegin(isTouchpad bool) {
	if ws := l.ActiveWorkspace(); ws != nil {
		ws.Scrolling().ViewGestureBegin(isTouchpad)
	}
}

// ViewGestureUpdate feeds a pan delta.
func (l *Layout) ViewGestureUpdate(delta float64) {
	if ws := l.ActiveWorkspace(); ws != nil {
		ws.Scrolling().ViewGestureUpdate(delta)
		l.queueRedrawActive()
	}
}

// ViewGestureEnd snaps the pan; a cancelled end restores the
// starting offset.
func (l *Layout) ViewGestureEnd(cancelled bool) {
	if ws := l.ActiveWorkspace(); ws != nil {
		ws.Scrolling().ViewGestureEnd(cancelled)
		l.queueRedrawActive()
	}
}

// WorkspaceSwitchGestureBegin starts the vertical workspace
// gesture on the active monitor.
func (l *Layout) WorkspaceSwitchGestureBegin(isTouchpad bool) {
	if mon := l.ActiveMonitor(); mon != nil {
		mon.WorkspaceSwitchGestureBegin(isTouchpad)
	}
}

// WorkspaceSwitchGestureUpdate feeds a switch delta.
func (l *Layout) WorkspaceSwitchGestureUpdate(delta float64) {
	if mon := l.ActiveMonitor(); mon != nil {
		mon.WorkspaceSwitchGestureUpdate(delta)
		l.queueRedrawActive()
	}
}

// WorkspaceSwitchGestureEnd snaps the switch.
func (l *Layout) WorkspaceSwitchGestureEnd(cancelled bool) {
	if mon := l.ActiveMonitor(); mon != nil {
		mon.WorkspaceSwitchGestureEnd(cancelled)
		l.queueRedrawActive()
	}
}

// Overview state. Progress runs 0 (closed) to 1 (open).

// OverviewProgress returns the current overview progress.
func (l *Layout) OverviewProgress() float64 {
	if l.overviewGesture.Active() {
		return l.overviewGestureValue
	}
	if l.overviewProgress != nil {
		return l.overviewProgress.ClampedValue()
	}
	if l.overviewOpen {
		return 1
	}
	return 0
}

// IsOverviewOpen reports the overview target state.
func (l *Layout) IsOverviewOpen() bool { return l.overviewOpen }

// OpenOverview starts opening the overview.
func (l *Layout) OpenOverview() {
	if l.overviewOpen {
		return
	}
	l.overviewOpen = true
	l.overviewProgress = anim.NewEasing(l.clock, l.OverviewProgress(), 1, 250*time.Millisecond, anim.EaseOutCubic{})
	l.queueRedrawAll()
}

// CloseOverview starts closing the overview.
func (l *Layout) CloseOverview() {
	if !l.overviewOpen {
		return
	}
	l.overviewOpen = false
	l.overviewProgress = anim.NewEasing(l.clock, l.OverviewProgress(), 0, 250*time.Millisecond, anim.EaseOutCubic{})
	l.queueRedrawAll()
}

// ToggleOverview flips the overview.
func (l *Layout) ToggleOverview() {
	if l.overviewOpen {
		l.CloseOverview()
	} else {
		l.OpenOverview()
	}
}

// OverviewGestureBegin starts the open-overview swipe.
func (l *Layout) OverviewGestureBegin(isTouchpad bool) {
	from := l.OverviewProgress()
	l.overviewGesture.Begin(l.clock.Now(), isTouchpad)
	l.overviewGestureFrom = from
	l.overviewGestureValue = from
}

// overviewGestureSpan is the swipe distance that fully opens the
// overview.
const overviewGestureSpan = 300.0

// OverviewGestureUpdate feeds a swipe delta; positive opens.
func (l *Layout) OverviewGestureUpdate(delta float64) {
	if !l.overviewGesture.Active() {
		return
	}
	total := l.overviewGesture.Update(l.clock.Now(), delta)
	p := l.overviewGestureFrom + total/overviewGestureSpan
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	l.overviewGestureValue = p
	l.queueRedrawAll()
}

// OverviewGestureEnd commits or cancels the swipe based on the
// position and release velocity.
func (l *Layout) OverviewGestureEnd(cancelled bool) {
	if !l.overviewGesture.Active() {
		return
	}
	p := l.overviewGestureValue
	est := l.overviewGesture.End(cancelled)
	open := p >= 0.5
	if est.Velocity > overviewGestureSpan {
		open = true
	} else if est.Velocity < -overviewGestureSpan {
		open = false
	}
	if cancelled {
		open = l.overviewGestureFrom >= 0.5
	}
	target := 0.0
	if open {
		target = 1
	}
	l.overviewOpen = open
	l.overviewProgress = anim.NewEasing(l.clock, p, target, 250*time.Millisecond, anim.EaseOutCubic{})
	l.queueRedrawAll()
}
