// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"math"

	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/gesture"
	"strata.dev/transaction"
)

// ViewOffsetKind tags ViewOffset.
type ViewOffsetKind uint8

const (
	ViewStatic ViewOffsetKind = iota
	ViewAnimation
	ViewGesture
)

// ViewOffset is the horizontal scroll position of a scrolling
// space, in strip coordinates: the view shows
// [offset, offset+width).
type ViewOffset struct {
	kind ViewOffsetKind

	static float64
	anim   *anim.Animation

	gesture      gesture.Swipe
	gestureStart float64
	gestureValue float64
}

// Kind returns the offset kind.
func (v *ViewOffset) Kind() ViewOffsetKind { return v.kind }

// Current returns the offset value right now.
func (v *ViewOffset) Current() float64 {
	switch v.kind {
	case ViewAnimation:
		return v.anim.Value()
	case ViewGesture:
		return v.gestureValue
	default:
		return v.static
	}
}

// Target returns where the offset will settle.
func (v *ViewOffset) Target() float64 {
	switch v.kind {
	case ViewAnimation:
		return v.anim.To()
	case ViewGesture:
		return v.gestureValue
	default:
		return v.static
	}
}

func (v *ViewOffset) setStatic(x float64) {
	v.kind = ViewStatic
	v.static = x
	v.anim = nil
}

func (v *ViewOffset) animateTo(clock *anim.Clock, to float64) {
	from := v.Current()
	velocity := 0.0
	if v.kind == ViewAnimation && v.anim != nil {
		velocity = v.anim.Velocity()
	}
	if from == to {
		v.setStatic(to)
		return
	}
	v.kind = ViewAnimation
	v.anim = anim.NewSpring(clock, from, to, velocity, anim.DefaultSpring)
}

// offsetBy shifts the offset when the strip coordinates
// underneath it move, e.g. a column inserted to the left.
func (v *ViewOffset) offsetBy(delta float64) {
	switch v.kind {
	case ViewAnimation:
		v.anim.Offset(delta)
	case ViewGesture:
		v.gestureStart += delta
		v.gestureValue += delta
	default:
		v.static += delta
	}
}

// ScrollingSpace is the horizontally-scrollable column strip of
// one workspace.
type ScrollingSpace struct {
	columns         []*Column
	activeColumnIdx int

	viewOffset ViewOffset
	insertHint *InsertPosition

	workingArea f64.Rectangle
	cfg         config.Layout
	clock       *anim.Clock
}

// NewScrollingSpace returns an empty scrolling space.
func NewScrollingSpace(clock *anim.Clock, workingArea f64.Rectangle, cfg config.Layout) *ScrollingSpace {
	return &ScrollingSpace{
		clock:       clock,
		workingArea: workingArea,
		cfg:         cfg,
	}
}

// Columns returns the column list, owned by the space.
func (s *ScrollingSpace) Columns() []*Column { return s.columns }

// IsEmpty reports whether the space has no columns.
func (s *ScrollingSpace) IsEmpty() bool { return len(s.columns) == 0 }

// ActiveColumnIdx returns the active column index. The result is
// meaningless when the space is empty.
func (s *ScrollingSpace) ActiveColumnIdx() int { return s.activeColumnIdx }

// ActiveColumn returns the active column, or nil when empty.
func (s *ScrollingSpace) ActiveColumn() *Column {
	if len(s.columns) == 0 {
		return nil
	}
	return s.columns[s.activeColumnIdx]
}

// ViewPos returns the current view offset.
func (s *ScrollingSpace) ViewPos() float64 { return s.viewOffset.Current() }

// ViewOffsetState exposes the offset for invariant checks.
func (s *ScrollingSpace) ViewOffsetState() *ViewOffset { return &s.viewOffset }

// InsertHint returns the active insert hint, if any.
func (s *ScrollingSpace) InsertHint() *InsertPosition { return s.insertHint }

// SetInsertHint installs an insert hint during interactive moves.
func (s *ScrollingSpace) SetInsertHint(hint *InsertPosition) { s.insertHint = hint }

// UpdateConfig pushes new working area and configuration down.
func (s *ScrollingSpace) UpdateConfig(workingArea f64.Rectangle, cfg config.Layout) {
	s.workingArea = workingArea
	s.cfg = cfg
	for _, c := range s.columns {
		c.updateConfig(workingArea, cfg)
	}
}

// ColumnX returns the strip x coordinate of the column at idx.
// The first column starts one gap in; every column is followed by
// one gap.
func (s *ScrollingSpace) ColumnX(idx int) float64 {
	gap := s.cfg.Gaps
	x := gap
	for i := 0; i < idx && i < len(s.columns); i++ {
		x += s.columns[i].ResolvedWidth() + gap
	}
	return x
}

// snapRange returns the valid static view offsets [lo, hi] that
// keep the column at idx fully visible with its gap margins, and
// the centered offset for when the range is empty or centering is
// in force.
func (s *ScrollingSpace) snapRange(idx int) (lo, hi, center float64) {
	gap := s.cfg.Gaps
	vw := s.workingArea.Dx()
	x := s.ColumnX(idx)
	w := s.columns[idx].ResolvedWidth()
	lo = x + w + gap - vw
	hi = x - gap
	center = x + w/2 - vw/2
	return lo, hi, center
}

// targetViewOffset computes the offset the view should settle at
// for the active column, honoring the centering policy, starting
// from the given current offset. Sticky: when the current offset
// already satisfies the constraint, it stays.
func (s *ScrollingSpace) targetViewOffset(current float64) float64 {
	if len(s.columns) == 0 {
		return 0
	}
	idx := s.activeColumnIdx
	lo, hi, center := s.snapRange(idx)
	col := s.columns[idx]

	if col.IsFullscreen() {
		return s.ColumnX(idx)
	}
	if s.cfg.AlwaysCenterSingleColumn && len(s.columns) == 1 {
		return center
	}
	if lo > hi {
		// Column wider than the working area.
		return center
	}
	switch s.cfg.CenterFocusedColumn {
	case config.CenterAlways:
		return center
	case config.CenterOnOverflow:
		if current < lo || current > hi {
			return center
		}
		return current
	default:
		if current < lo {
			return lo
		}
		if current > hi {
			return hi
		}
		return current
	}
}

// ClampViewOffset re-establishes the view offset invariant after
// a structural change. Static offsets snap; anything else
// animates toward the valid target.
func (s *ScrollingSpace) ClampViewOffset() {
	if len(s.columns) == 0 {
		s.viewOffset.setStatic(0)
		return
	}
	if s.viewOffset.kind == ViewGesture {
		// The gesture owns the offset until it ends.
		return
	}
	target := s.targetViewOffset(s.viewOffset.Target())
	switch s.viewOffset.kind {
	case ViewStatic:
		s.viewOffset.setStatic(target)
	case ViewAnimation:
		if s.viewOffset.anim.To() != target {
			s.viewOffset.animateTo(s.clock, target)
		}
	}
}

// animateViewTo animates the view to the clamped target for the
// active column.
func (s *ScrollingSpace) animateViewTo() {
	if len(s.columns) == 0 {
		return
	}
	target := s.targetViewOffset(s.viewOffset.Target())
	if target != s.viewOffset.Target() || s.viewOffset.kind == ViewAnimation {
		s.viewOffset.animateTo(s.clock, target)
	} else if s.viewOffset.kind == ViewStatic {
		s.viewOffset.setStatic(target)
	}
}

// ActivateColumn focuses the column at idx and scrolls it into
// view.
func (s *ScrollingSpace) ActivateColumn(idx int) {
	if len(s.columns) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.columns) {
		idx = len(s.columns) - 1
	}
	s.activeColumnIdx = idx
	s.animateViewTo()
}

// AddColumn inserts a column at idx. Columns to the left of the
// view keep the view visually still.
func (s *ScrollingSpace) AddColumn(idx int, col *Column, activate bool) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.columns) {
		idx = len(s.columns)
	}
	col.updateConfig(s.workingArea, s.cfg)
	s.columns = append(s.columns, nil)
	copy(s.columns[idx+1:], s.columns[idx:])
	s.columns[idx] = col

	if len(s.columns) > 1 && idx <= s.activeColumnIdx {
		delta := col.ResolvedWidth() + s.cfg.Gaps
		s.viewOffset.offsetBy(delta)
		s.activeColumnIdx++
	}
	if activate || len(s.columns) == 1 {
		s.ActivateColumn(idx)
	} else {
		s.ClampViewOffset()
	}
}

// AddTile adds a window tile per the target policy and returns
// the column it landed in.
func (s *ScrollingSpace) AddTile(tile *Tile, target AddTarget, activate bool, width ColumnWidth, display config.ColumnDisplay) *Column {
	idx := len(s.columns)
	switch target.Kind {
	case AddAuto:
		if len(s.columns) > 0 {
			idx = s.activeColumnIdx + 1
		} else {
			idx = 0
		}
	case AddNextTo:
		if ci := s.columnIdxOfWindow(target.NextTo); ci >= 0 {
			idx = ci + 1
		} else if len(s.columns) > 0 {
			idx = s.activeColumnIdx + 1
		} else {
			idx = 0
		}
	case AddWorkspace:
		if len(s.columns) > 0 {
			idx = s.activeColumnIdx + 1
		} else {
			idx = 0
		}
	}
	col := NewColumn(tile, width, display, s.workingArea, s.cfg)
	s.AddColumn(idx, col, activate)
	return col
}

func (s *ScrollingSpace) columnIdxOfWindow(id WindowID) int {
	for i, c := range s.columns {
		if c.ContainsWindow(id) {
			return i
		}
	}
	return -1
}

// RemoveColumn removes the column at idx and returns it.
func (s *ScrollingSpace) RemoveColumn(idx int) *Column {
	if idx < 0 || idx >= len(s.columns) {
		return nil
	}
	col := s.columns[idx]
	delta := col.ResolvedWidth() + s.cfg.Gaps
	s.columns = append(s.columns[:idx], s.columns[idx+1:]...)
	if idx < s.activeColumnIdx || (idx == s.activeColumnIdx && s.activeColumnIdx == len(s.columns)) {
		if s.activeColumnIdx > 0 {
			s.activeColumnIdx--
		}
	}
	if idx <= s.activeColumnIdx && len(s.columns) > 0 {
		s.viewOffset.offsetBy(-delta)
	}
	s.ClampViewOffset()
	return col
}

// RemoveTile removes the window's tile, dropping its column when
// it empties. Returns the tile, or nil if the window is not here.
func (s *ScrollingSpace) RemoveTile(id WindowID) *Tile {
	ci := s.columnIdxOfWindow(id)
	if ci < 0 {
		return nil
	}
	col := s.columns[ci]
	tile := col.removeTile(col.tileIdx(id))
	if col.TileCount() == 0 {
		s.RemoveColumn(ci)
	} else {
		s.ClampViewOffset()
	}
	return tile
}

// FindTile returns the tile of the given window, if present.
func (s *ScrollingSpace) FindTile(id WindowID) *Tile {
	ci := s.columnIdxOfWindow(id)
	if ci < 0 {
		return nil
	}
	c := s.columns[ci]
	return c.tiles[c.tileIdx(id)]
}

// ActiveTile returns the focused tile, or nil when empty.
func (s *ScrollingSpace) ActiveTile() *Tile {
	col := s.ActiveColumn()
	if col == nil {
		return nil
	}
	return col.ActiveTile()
}

// FocusLeft focuses the column to the left. Reports whether the
// focus moved.
func (s *ScrollingSpace) FocusLeft() bool {
	if len(s.columns) == 0 || s.activeColumnIdx == 0 {
		return false
	}
	s.ActivateColumn(s.activeColumnIdx - 1)
	return true
}

// FocusRight focuses the column to the right.
func (s *ScrollingSpace) FocusRight() bool {
	if len(s.columns) == 0 || s.activeColumnIdx >= len(s.columns)-1 {
		return false
	}
	s.ActivateColumn(s.activeColumnIdx + 1)
	return true
}

// FocusFirst focuses the leftmost column.
func (s *ScrollingSpace) FocusFirst() {
	if len(s.columns) > 0 {
		s.ActivateColumn(0)
	}
}

// FocusLast focuses the rightmost column.
func (s *ScrollingSpace) FocusLast() {
	if len(s.columns) > 0 {
		s.ActivateColumn(len(s.columns) - 1)
	}
}

// FocusDown focuses the tile below in the active column. Reports
// whether the focus moved.
func (s *ScrollingSpace) FocusDown() bool {
	col := s.ActiveColumn()
	if col == nil || col.activeTileIdx >= len(col.tiles)-1 {
		return false
	}
	col.SetActiveTileIdx(col.activeTileIdx + 1)
	return true
}

// FocusUp focuses the tile above in the active column.
func (s *ScrollingSpace) FocusUp() bool {
	col := s.ActiveColumn()
	if col == nil || col.activeTileIdx == 0 {
		return false
	}
	col.SetActiveTileIdx(col.activeTileIdx - 1)
	return true
}

// MoveColumnLeft swaps the active column with its left neighbor.
func (s *ScrollingSpace) MoveColumnLeft() bool {
	return s.moveColumnToIdx(s.activeColumnIdx - 1)
}

// MoveColumnRight swaps the active column with its right
// neighbor.
func (s *ScrollingSpace) MoveColumnRight() bool {
	return s.moveColumnToIdx(s.activeColumnIdx + 1)
}

// MoveColumnToIndex moves the active column to idx.
func (s *ScrollingSpace) MoveColumnToIndex(idx int) bool {
	return s.moveColumnToIdx(idx)
}

// MoveColumnToFirst moves the active column to the far left.
func (s *ScrollingSpace) MoveColumnToFirst() bool {
	return s.moveColumnToIdx(0)
}

// MoveColumnToLast moves the active column to the far right.
func (s *ScrollingSpace) MoveColumnToLast() bool {
	return s.moveColumnToIdx(len(s.columns) - 1)
}

func (s *ScrollingSpace) moveColumnToIdx(to int) bool {
	if len(s.columns) == 0 {
		return false
	}
	from := s.activeColumnIdx
	if to < 0 || to >= len(s.columns) || to == from {
		return false
	}
	col := s.columns[from]
	oldX := s.ColumnX(from)
	s.columns = append(s.columns[:from], s.columns[from+1:]...)
	s.columns = append(s.columns, nil)
	copy(s.columns[to+1:], s.columns[to:])
	s.columns[to] = col
	s.activeColumnIdx = to
	newX := s.ColumnX(to)
	for _, t := range col.tiles {
		t.AnimateMoveFrom(f64.Point{X: oldX - newX})
	}
	s.animateViewTo()
	return true
}

// MoveWindowDown moves the active tile down within its column.
func (s *ScrollingSpace) MoveWindowDown() bool {
	col := s.ActiveColumn()
	if col == nil || col.activeTileIdx >= len(col.tiles)-1 {
		return false
	}
	i := col.activeTileIdx
	col.tiles[i], col.tiles[i+1] = col.tiles[i+1], col.tiles[i]
	col.heights[i], col.heights[i+1] = col.heights[i+1], col.heights[i]
	col.activeTileIdx++
	return true
}

// MoveWindowUp moves the active tile up within its column.
func (s *ScrollingSpace) MoveWindowUp() bool {
	col := s.ActiveColumn()
	if col == nil || col.activeTileIdx == 0 {
		return false
	}
	i := col.activeTileIdx
	col.tiles[i], col.tiles[i-1] = col.tiles[i-1], col.tiles[i]
	col.heights[i], col.heights[i-1] = col.heights[i-1], col.heights[i]
	col.activeTileIdx--
	return true
}

// ConsumeIntoColumn moves the first tile of the column to the
// right into the active column.
func (s *ScrollingSpace) ConsumeIntoColumn() bool {
	if len(s.columns) < 2 || s.activeColumnIdx >= len(s.columns)-1 {
		return false
	}
	col := s.columns[s.activeColumnIdx]
	if col.IsFullscreen() {
		return false
	}
	right := s.columns[s.activeColumnIdx+1]
	tile := right.removeTile(0)
	if right.TileCount() == 0 {
		s.RemoveColumn(s.activeColumnIdx + 1)
	}
	col.addTile(len(col.tiles), tile)
	col.activeTileIdx = len(col.tiles) - 1
	s.ClampViewOffset()
	return true
}

// ExpelFromColumn expels the active tile into a new column to the
// right.
func (s *ScrollingSpace) ExpelFromColumn() bool {
	col := s.ActiveColumn()
	if col == nil || col.TileCount() < 2 {
		return false
	}
	tile := col.removeTile(col.activeTileIdx)
	newCol := NewColumn(tile, col.width, s.cfg.DefaultColumnDisplay, s.workingArea, s.cfg)
	s.AddColumn(s.activeColumnIdx+1, newCol, true)
	return true
}

// ConsumeOrExpelLeft follows the combined gesture: the active
// tile joins the column on its left. In the leftmost column it is
// expelled into a fresh leftmost column, or, when it is alone
// there, nothing happens.
func (s *ScrollingSpace) ConsumeOrExpelLeft() bool {
	col := s.ActiveColumn()
	if col == nil {
		return false
	}
	if s.activeColumnIdx == 0 {
		if col.TileCount() < 2 {
			return false
		}
		// Expel into a fresh leftmost column instead.
		tile := col.removeTile(col.activeTileIdx)
		newCol := NewColumn(tile, col.width, s.cfg.DefaultColumnDisplay, s.workingArea, s.cfg)
		s.AddColumn(0, newCol, true)
		return true
	}
	tile := col.removeTile(col.activeTileIdx)
	left := s.columns[s.activeColumnIdx-1]
	if col.TileCount() == 0 {
		s.RemoveColumn(s.activeColumnIdx)
	}
	left.addTile(len(left.tiles), tile)
	left.activeTileIdx = len(left.tiles) - 1
	s.ActivateColumn(s.columnIdx(left))
	return true
}

// ConsumeOrExpelRight mirrors ConsumeOrExpelLeft to the right.
func (s *ScrollingSpace) ConsumeOrExpelRight() bool {
	col := s.ActiveColumn()
	if col == nil {
		return false
	}
	if s.activeColumnIdx >= len(s.columns)-1 {
		// Expel into a fresh rightmost column instead.
		return s.ExpelFromColumn()
	}
	tile := col.removeTile(col.activeTileIdx)
	right := s.columns[s.activeColumnIdx+1]
	if col.TileCount() == 0 {
		s.RemoveColumn(s.activeColumnIdx)
		right = s.columns[s.activeColumnIdx]
	}
	right.addTile(0, tile)
	right.activeTileIdx = 0
	s.ActivateColumn(s.columnIdx(right))
	return true
}

// SwapWindowInDirection swaps the active column with its
// neighbor in the given direction.
func (s *ScrollingSpace) SwapWindowInDirection(dir ScrollDirection) bool {
	if dir == ScrollLeft {
		return s.MoveColumnLeft()
	}
	return s.MoveColumnRight()
}

// CenterColumn centers the active column in the view.
func (s *ScrollingSpace) CenterColumn() {
	if len(s.columns) == 0 {
		return
	}
	_, _, center := s.snapRange(s.activeColumnIdx)
	s.viewOffset.animateTo(s.clock, center)
}

func (s *ScrollingSpace) columnIdx(col *Column) int {
	for i, c := range s.columns {
		if c == col {
			return i
		}
	}
	return -1
}

// ViewGestureBegin starts an interactive view pan.
func (s *ScrollingSpace) ViewGestureBegin(isTouchpad bool) {
	now := s.clock.Now()
	s.viewOffset.gesture.Begin(now, isTouchpad)
	s.viewOffset.gestureStart = s.viewOffset.Current()
	s.viewOffset.gestureValue = s.viewOffset.gestureStart
	s.viewOffset.kind = ViewGesture
	s.viewOffset.anim = nil
}

// ViewGestureUpdate accumulates a pan delta. Positive deltas pan
// the view toward higher strip coordinates.
func (s *ScrollingSpace) ViewGestureUpdate(delta float64) {
	if s.viewOffset.kind != ViewGesture {
		return
	}
	total := s.viewOffset.gesture.Update(s.clock.Now(), delta)
	s.viewOffset.gestureValue = s.viewOffset.gestureStart + total
}

// ViewGestureEnd finishes or cancels the pan, snapping to the
// nearest column boundary with a velocity bias.
func (s *ScrollingSpace) ViewGestureEnd(cancelled bool) {
	if s.viewOffset.kind != ViewGesture {
		return
	}
	est := s.viewOffset.gesture.End(cancelled)
	if cancelled {
		s.viewOffset.setStatic(s.viewOffset.gestureStart)
		s.ClampViewOffset()
		return
	}
	current := s.viewOffset.gestureValue
	projected := current + est.Distance
	idx := s.snapColumnForOffset(projected, est.Velocity)
	s.activeColumnIdx = idx
	target := s.targetViewOffset(projected)
	s.viewOffset.kind = ViewStatic
	s.viewOffset.static = current
	s.viewOffset.animateTo(s.clock, target)
}

// snapVelocityThreshold is the gesture velocity past which the
// view commits to the next column in that direction.
const snapVelocityThreshold = 400.0

// snapColumnForOffset picks the column to activate for a
// projected view offset.
func (s *ScrollingSpace) snapColumnForOffset(offset, velocity float64) int {
	if len(s.columns) == 0 {
		return 0
	}
	gap := s.cfg.Gaps
	best, bestDist := 0, math.Inf(1)
	for i := range s.columns {
		d := math.Abs((s.ColumnX(i) - gap) - offset)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if math.Abs(velocity) > snapVelocityThreshold {
		if velocity > 0 && best < len(s.columns)-1 && s.ColumnX(best)-gap < offset {
			best++
		} else if velocity < 0 && best > 0 && s.ColumnX(best)-gap > offset {
			best--
		}
	}
	return best
}

// Update pushes sizes to every column and re-clamps the view.
func (s *ScrollingSpace) Update(animate bool, txn *transaction.Transaction) {
	for _, c := range s.columns {
		c.update(animate, txn)
	}
	s.ClampViewOffset()
}

// AdvanceAnimations settles finished animations.
func (s *ScrollingSpace) AdvanceAnimations() {
	if s.viewOffset.kind == ViewAnimation && s.viewOffset.anim.IsDone() {
		s.viewOffset.setStatic(s.viewOffset.anim.To())
	}
	for _, c := range s.columns {
		c.AdvanceAnimations()
	}
}

// AreAnimationsOngoing reports whether anything animates.
func (s *ScrollingSpace) AreAnimationsOngoing() bool {
	if s.viewOffset.kind == ViewAnimation {
		return true
	}
	for _, c := range s.columns {
		if c.AreAnimationsOngoing() {
			return true
		}
	}
	return false
}

// TilesWithPositions reports every tile with its workspace-local
// render position. Tabbed columns yield only the visible tile.
func (s *ScrollingSpace) TilesWithPositions(yield func(col *Column, tile *Tile, pos f64.Point)) {
	base := s.workingArea.Min
	offset := s.viewOffset.Current()
	for i, c := range s.columns {
		colX := s.ColumnX(i) - offset
		positions := c.TilePositions()
		for j, t := range c.tiles {
			if c.display == config.ColumnDisplayTabbed && j != c.activeTileIdx && !c.isFullscreen {
				continue
			}
			pos := f64.Point{
				X: base.X + colX + positions[j].X,
				Y: base.Y + positions[j].Y,
			}
			pos = pos.Add(t.RenderOffset())
			yield(c, t, pos)
		}
	}
}

// VerifyInvariants checks the scrolling space's structural
// invariants, returning the first violation.
func (s *ScrollingSpace) VerifyInvariants() error {
	return s.verify()
}
