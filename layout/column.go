// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"image"
	"math"

	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/transaction"
)

// Column is a non-empty ordered stack of tiles that moves
// together horizontally. An empty column is removed by its
// owner, never kept.
type Column struct {
	tiles         []*Tile
	activeTileIdx int

	width       ColumnWidth
	isFullWidth bool
	display     config.ColumnDisplay
	// heights runs parallel to tiles.
	heights []HeightWeight

	isFullscreen bool

	workingArea f64.Rectangle
	cfg         config.Layout
}

// NewColumn creates a column holding one tile.
func NewColumn(tile *Tile, width ColumnWidth, display config.ColumnDisplay, workingArea f64.Rectangle, cfg config.Layout) *Column {
	return &Column{
		tiles:       []*Tile{tile},
		width:       width,
		display:     display,
		heights:     []HeightWeight{AutoHeight()},
		workingArea: workingArea,
		cfg:         cfg,
	}
}

// Tiles returns the column's tiles. The slice is owned by the
// column; callers must not mutate it.
func (c *Column) Tiles() []*Tile { return c.tiles }

// TileCount returns the number of tiles.
func (c *Column) TileCount() int { return len(c.tiles) }

// ActiveTileIdx returns the index of the active tile.
func (c *Column) ActiveTileIdx() int { return c.activeTileIdx }

// ActiveTile returns the active tile.
func (c *Column) ActiveTile() *Tile { return c.tiles[c.activeTileIdx] }

// Display returns the column display mode.
func (c *Column) Display() config.ColumnDisplay { return c.display }

// IsFullscreen reports whether the column is fullscreen.
func (c *Column) IsFullscreen() bool { return c.isFullscreen }

// IsFullWidth reports whether the column is toggled to full width.
func (c *Column) IsFullWidth() bool { return c.isFullWidth }

// Width returns the column width policy.
func (c *Column) Width() ColumnWidth { return c.width }

// SetActiveTileIdx focuses the tile at idx. In a tabbed column
// this swaps which tile is visible, so the incoming tile plays a
// content crossfade from whatever snapshot the renderer captured.
func (c *Column) SetActiveTileIdx(idx int) {
	if idx < 0 || idx >= len(c.tiles) || idx == c.activeTileIdx {
		return
	}
	c.activeTileIdx = idx
	if c.display == config.ColumnDisplayTabbed && !c.isFullscreen {
		c.tiles[idx].StartContentCrossfade()
	}
}

// updateConfig pushes new working area and configuration down.
func (c *Column) updateConfig(workingArea f64.Rectangle, cfg config.Layout) {
	c.workingArea = workingArea
	c.cfg = cfg
	for _, t := range c.tiles {
		t.SetConfig(cfg)
	}
}

// ResolvedWidth computes the column's target outer width.
func (c *Column) ResolvedWidth() float64 {
	vw := c.workingArea.Dx()
	gap := c.cfg.Gaps
	if c.isFullscreen {
		return vw
	}
	if c.isFullWidth {
		return math.Max(vw-2*gap, 1)
	}
	var w float64
	switch c.width.Kind {
	case WidthFixed:
		w = c.width.Fixed
	case WidthProportion:
		w = math.Floor((vw - gap) * c.width.Proportion)
	case WidthPreset:
		presets := c.cfg.PresetColumnWidths
		if len(presets) == 0 {
			presets = []config.PresetSize{{Proportion: 0.5}}
		}
		idx := ((c.width.PresetIdx % len(presets)) + len(presets)) % len(presets)
		p := presets[idx]
		if p.IsFixed() {
			w = float64(p.Fixed)
		} else {
			w = math.Floor((vw - gap) * p.Proportion)
		}
	}
	return unitClamp(w, 1, 100000)
}

func unitClamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AnimatedWidth is the widest currently-visible tile width, which
// is what the column visually occupies mid-animation.
func (c *Column) AnimatedWidth() float64 {
	var w float64
	for i, t := range c.tiles {
		if c.display == config.ColumnDisplayTabbed && i != c.activeTileIdx {
			continue
		}
		w = math.Max(w, t.AnimatedSize().W)
	}
	if w == 0 {
		w = c.ResolvedWidth()
	}
	return w
}

// SetWidth applies a width change. Adjustments are relative to
// the currently-visible animated width so repeated presses during
// an animation feel responsive.
func (c *Column) SetWidth(change SizeChange) {
	vw := c.workingArea.Dx()
	gap := c.cfg.Gaps
	visible := c.AnimatedWidth()
	switch change.Kind {
	case SetFixed:
		c.width = FixedWidth(unitClamp(change.Value, 1, 100000))
	case SetProportion:
		c.width = ProportionWidth(unitClamp(change.Value, 0.01, 10))
	case AdjustFixed:
		c.width = FixedWidth(unitClamp(visible+change.Value, 1, 100000))
	case AdjustProportion:
		avail := vw - gap
		var p float64
		if avail > 0 {
			p = visible / avail
		}
		c.width = ProportionWidth(unitClamp(p+change.Value, 0.01, 10))
	}
	c.isFullWidth = false
}

// ToggleFullWidth flips the column between its width policy and
// the full working area.
func (c *Column) ToggleFullWidth() {
	c.isFullWidth = !c.isFullWidth
}

// TogglePresetWidth cycles through the configured preset widths.
// After an explicit SetWidth, cycling restarts from the preset
// closest to the current width.
func (c *Column) TogglePresetWidth(forward bool) {
	presets := c.cfg.PresetColumnWidths
	if len(presets) == 0 {
		return
	}
	step := 1
	if !forward {
		step = -1
	}
	var idx int
	if c.width.Kind == WidthPreset && !c.isFullWidth {
		idx = ((c.width.PresetIdx+step)%len(presets) + len(presets)) % len(presets)
	} else {
		// Restart cycling from the preset closest to the current
		// width, stepping past it when it matches exactly.
		idx = c.closestPresetIdx()
		if math.Abs(c.widthOfPreset(presets[idx])-c.AnimatedWidth()) < 1 {
			idx = ((idx+step)%len(presets) + len(presets)) % len(presets)
		}
	}
	c.width = PresetWidth(idx)
	c.isFullWidth = false
}

func (c *Column) widthOfPreset(p config.PresetSize) float64 {
	if p.IsFixed() {
		return float64(p.Fixed)
	}
	return math.Floor((c.workingArea.Dx() - c.cfg.Gaps) * p.Proportion)
}

func (c *Column) closestPresetIdx() int {
	current := c.AnimatedWidth()
	best, bestDist := 0, math.Inf(1)
	for i, p := range c.cfg.PresetColumnWidths {
		d := math.Abs(c.widthOfPreset(p) - current)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// SetDisplay switches the column display mode.
func (c *Column) SetDisplay(display config.ColumnDisplay) {
	c.display = display
}

// ToggleDisplay flips between normal and tabbed display.
func (c *Column) ToggleDisplay() {
	if c.display == config.ColumnDisplayNormal {
		c.display = config.ColumnDisplayTabbed
	} else {
		c.display = config.ColumnDisplayNormal
	}
}

// SetTileHeight applies a height change to the tile at idx and
// marks the adjacent tiles automatic so the change has room to
// take effect. Single-tile columns are pinned at weight 1 so a
// config reload does not visibly resize them.
func (c *Column) SetTileHeight(idx int, change SizeChange) {
	if idx < 0 || idx >= len(c.tiles) {
		return
	}
	if len(c.tiles) == 1 {
		c.heights[0] = AutoHeight()
		return
	}
	heights := c.resolveTileHeights()
	current := heights[idx]
	availH := c.availableHeight()
	var next HeightWeight
	switch change.Kind {
	case SetFixed:
		next = HeightWeight{Fixed: unitClamp(change.Value, 1, 100000)}
	case SetProportion:
		next = HeightWeight{Proportion: unitClamp(change.Value, 0.01, 10)}
	case AdjustFixed:
		next = HeightWeight{Fixed: unitClamp(current+change.Value, 1, 100000)}
	case AdjustProportion:
		var p float64
		if availH > 0 {
			p = current / availH
		}
		next = HeightWeight{Proportion: unitClamp(p+change.Value, 0.01, 10)}
	}
	c.heights[idx] = next
	if idx > 0 {
		c.heights[idx-1] = AutoHeight()
	}
	if idx+1 < len(c.heights) {
		c.heights[idx+1] = AutoHeight()
	}
}

// TogglePresetHeight cycles the tile at idx through the configured
// preset heights. After an explicit height change, cycling restarts
// from the preset closest to the current height.
func (c *Column) TogglePresetHeight(idx int, forward bool) {
	presets := c.cfg.PresetWindowHeights
	if len(presets) == 0 || idx < 0 || idx >= len(c.tiles) {
		return
	}
	if len(c.tiles) == 1 {
		c.heights[0] = AutoHeight()
		return
	}
	step := 1
	if !forward {
		step = -1
	}
	avail := c.availableHeight()
	hw := c.heights[idx]
	var pi int
	if hw.Preset {
		pi = ((hw.PresetIdx+step)%len(presets) + len(presets)) % len(presets)
	} else {
		current := c.resolveTileHeights()[idx]
		pi = c.closestHeightPresetIdx(current, avail)
		if math.Abs(c.heightOfPreset(presets[pi], avail)-current) < 1 {
			pi = ((pi+step)%len(presets) + len(presets)) % len(presets)
		}
	}
	c.heights[idx] = PresetHeight(pi)
	if idx > 0 {
		c.heights[idx-1] = AutoHeight()
	}
	if idx+1 < len(c.heights) {
		c.heights[idx+1] = AutoHeight()
	}
}

func (c *Column) presetHeight(idx int) config.PresetSize {
	presets := c.cfg.PresetWindowHeights
	if len(presets) == 0 {
		return config.PresetSize{Proportion: 0.5}
	}
	return presets[((idx%len(presets))+len(presets))%len(presets)]
}

func (c *Column) heightOfPreset(p config.PresetSize, avail float64) float64 {
	if p.IsFixed() {
		return float64(p.Fixed)
	}
	return math.Max(avail*p.Proportion, 1)
}

func (c *Column) closestHeightPresetIdx(current, avail float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, p := range c.cfg.PresetWindowHeights {
		d := math.Abs(c.heightOfPreset(p, avail) - current)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ResetTileHeight returns the tile at idx to automatic height.
func (c *Column) ResetTileHeight(idx int) {
	if idx >= 0 && idx < len(c.heights) {
		c.heights[idx] = AutoHeight()
	}
}

// availableHeight is the working area height minus the gaps
// around the visible tiles.
func (c *Column) availableHeight() float64 {
	gap := c.cfg.Gaps
	n := len(c.tiles)
	if c.display == config.ColumnDisplayTabbed || c.isFullscreen {
		n = 1
	}
	if c.isFullscreen {
		return c.workingArea.Dy()
	}
	return math.Max(c.workingArea.Dy()-gap*float64(n+1), 1)
}

// resolveTileHeights runs the height solver and returns the outer
// tile heights, parallel to tiles.
//
// Explicit heights are taken first; the remaining pool is shared
// by auto tiles proportionally to their weights, re-pooling when
// a tile hits its min or max size, with a small iteration cap.
func (c *Column) resolveTileHeights() []float64 {
	n := len(c.tiles)
	out := make([]float64, n)
	if c.isFullscreen || c.display == config.ColumnDisplayTabbed {
		h := c.availableHeight()
		for i := range out {
			out[i] = h
		}
		return out
	}

	avail := c.availableHeight()
	var explicitTotal float64
	autoIdx := make([]int, 0, n)
	for i, hw := range c.heights {
		switch {
		case hw.Auto:
			autoIdx = append(autoIdx, i)
		case hw.Preset:
			out[i] = c.heightOfPreset(c.presetHeight(hw.PresetIdx), avail)
			explicitTotal += out[i]
		case hw.Fixed != 0:
			out[i] = hw.Fixed
			explicitTotal += out[i]
		default:
			out[i] = math.Max(avail*hw.Proportion, 1)
			explicitTotal += out[i]
		}
	}

	pool := avail - explicitTotal
	remaining := append([]int(nil), autoIdx...)
	for iter := 0; iter < 4 && len(remaining) > 0; iter++ {
		var weightSum float64
		for _, i := range remaining {
			weightSum += math.Max(c.heights[i].Weight, 0.0001)
		}
		clampedAny := false
		next := remaining[:0]
		share := math.Max(pool, 0)
		for _, i := range remaining {
			w := math.Max(c.heights[i].Weight, 0.0001)
			h := share * w / weightSum
			lo, hi := c.tileHeightBounds(i)
			clamped := unitClamp(h, lo, hi)
			out[i] = clamped
			if clamped != h {
				// This tile leaves the distribution pool.
				pool -= clamped
				clampedAny = true
			} else {
				next = append(next, i)
			}
		}
		if !clampedAny {
			break
		}
		remaining = append([]int(nil), next...)
	}
	return out
}

// tileHeightBounds returns the min and max outer height of the
// tile at idx, derived from the client's size hints.
func (c *Column) tileHeightBounds(idx int) (lo, hi float64) {
	t := c.tiles[idx]
	b := t.borderWidth() * 2
	lo, hi = 1, 100000
	if min := t.Window().MinSize(); min.Y > 0 {
		lo = float64(min.Y) + b
	}
	const sane = 1 << 24
	if max := t.Window().MaxSize(); max.Y > 0 && max.Y < sane {
		hi = float64(max.Y) + b
	}
	if hi < lo {
		// Min wins over max.
		hi = lo
	}
	return lo, hi
}

// Overflow returns the vertical overflow past the working area,
// zero when everything fits. Overflow is clipped, not scrolled.
func (c *Column) Overflow() float64 {
	heights := c.resolveTileHeights()
	var total float64
	for i, h := range heights {
		if c.display == config.ColumnDisplayTabbed && i != c.activeTileIdx {
			continue
		}
		total += h
	}
	if c.display == config.ColumnDisplayTabbed {
		total = heights[c.activeTileIdx]
	}
	return math.Max(total-c.availableHeight(), 0)
}

// update pushes target sizes to every tile.
func (c *Column) update(animate bool, txn *transaction.Transaction) {
	width := c.ResolvedWidth()
	heights := c.resolveTileHeights()
	mode := SizingNormal
	switch {
	case c.isFullscreen:
		mode = SizingFullscreen
	case c.isFullWidth:
		mode = SizingMaximized
	}
	for i, t := range c.tiles {
		winSize := t.WindowSizeForTile(f64.Size{W: width, H: heights[i]})
		size := image.Pt(int(math.Round(winSize.W)), int(math.Round(winSize.H)))
		t.RequestSize(size, mode, animate, txn)
	}
}

// TilePositions returns the workspace-local position of each
// tile's top-left corner, parallel to tiles. The x coordinate is
// the column's own origin; the caller adds the column position.
func (c *Column) TilePositions() []f64.Point {
	gap := c.cfg.Gaps
	if c.isFullscreen {
		return make([]f64.Point, len(c.tiles))
	}
	out := make([]f64.Point, len(c.tiles))
	y := gap
	for i := range c.tiles {
		out[i] = f64.Point{X: 0, Y: y}
		if c.display != config.ColumnDisplayTabbed {
			y += c.tiles[i].AnimatedSize().H + gap
		}
	}
	return out
}

// addTile inserts a tile at idx.
func (c *Column) addTile(idx int, tile *Tile) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(c.tiles) {
		idx = len(c.tiles)
	}
	c.tiles = append(c.tiles, nil)
	copy(c.tiles[idx+1:], c.tiles[idx:])
	c.tiles[idx] = tile
	c.heights = append(c.heights, HeightWeight{})
	copy(c.heights[idx+1:], c.heights[idx:])
	c.heights[idx] = AutoHeight()
	if c.activeTileIdx >= idx && len(c.tiles) > 1 {
		c.activeTileIdx++
	}
	tile.SetConfig(c.cfg)
	// A column with several tiles can no longer be fullscreen.
	if len(c.tiles) > 1 {
		c.isFullscreen = false
	}
}

// removeTile removes and returns the tile at idx. The caller
// removes the column when it becomes empty.
func (c *Column) removeTile(idx int) *Tile {
	if idx < 0 || idx >= len(c.tiles) {
		return nil
	}
	t := c.tiles[idx]
	c.tiles = append(c.tiles[:idx], c.tiles[idx+1:]...)
	c.heights = append(c.heights[:idx], c.heights[idx+1:]...)
	if c.activeTileIdx > idx || c.activeTileIdx >= len(c.tiles) {
		c.activeTileIdx--
	}
	if c.activeTileIdx < 0 {
		c.activeTileIdx = 0
	}
	if len(c.heights) == 1 {
		c.heights[0] = AutoHeight()
	}
	return t
}

// SetFullscreen puts the column into or out of fullscreen. Only
// single-tile columns can be fullscreen; the restore state lives
// on the tile so it survives moves between workspaces.
func (c *Column) SetFullscreen(fullscreen bool) {
	if fullscreen == c.isFullscreen {
		return
	}
	if fullscreen {
		if len(c.tiles) != 1 {
			return
		}
		t := c.tiles[0]
		w := c.width
		t.preFullscreenWidth = &w
		d := c.display
		t.preFullscreenDisplay = &d
		t.maximizedBeforeFullscreen = c.isFullWidth
		c.isFullscreen = true
		c.display = config.ColumnDisplayNormal
		return
	}
	c.isFullscreen = false
	t := c.tiles[0]
	if t.preFullscreenWidth != nil {
		c.width = *t.preFullscreenWidth
		t.preFullscreenWidth = nil
	}
	if t.preFullscreenDisplay != nil {
		c.display = *t.preFullscreenDisplay
		t.preFullscreenDisplay = nil
	}
	c.isFullWidth = t.maximizedBeforeFullscreen
	t.maximizedBeforeFullscreen = false
}

// ContainsWindow reports whether the column holds the window.
func (c *Column) ContainsWindow(id WindowID) bool {
	return c.tileIdx(id) >= 0
}

func (c *Column) tileIdx(id WindowID) int {
	for i, t := range c.tiles {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

// AdvanceAnimations advances every tile.
func (c *Column) AdvanceAnimations() {
	for _, t := range c.tiles {
		t.AdvanceAnimations()
	}
}

// AreAnimationsOngoing reports whether any tile animates.
func (c *Column) AreAnimationsOngoing() bool {
	for _, t := range c.tiles {
		if t.AreAnimationsOngoing() {
			return true
		}
	}
	return false
}
