// SPDX-License-Identifier: Unlicense OR MIT

package render

import (
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/layout"
)

// backgroundColor fills workspace areas behind the columns.
var backgroundColor = config.RGBA(0x25, 0x25, 0x55, 0xff)

// Produce walks the layout for one output and returns the render
// elements bottom-to-top.
func Produce(l *layout.Layout, output string, target Target) []Element {
	var mon *layout.Monitor
	for _, m := range l.Monitors() {
		if m.OutputName() == output {
			mon = m
			break
		}
	}
	if mon == nil {
		return nil
	}

	size := mon.OutputSize()
	var out []Element

	// Workspaces offset vertically by the in-flight switch.
	pos := mon.RenderPosition()
	for i, ws := range mon.Workspaces() {
		offsetY := (float64(i) - pos) * size.H
		if offsetY <= -size.H || offsetY >= size.H {
			continue
		}
		out = append(out, workspaceElements(ws, f64.Point{Y: offsetY}, size)...)
	}

	// The interactively moved window renders above everything on
	// its current output.
	if mv := l.InteractiveMoveState(); mv != nil && mv.CurrentOutput == output {
		tilePos := mv.Point.Sub(mv.CursorOffset)
		out = append(out, tileElements(mv.Tile, tilePos, true)...)
	}

	return out
}

func workspaceElements(ws *layout.Workspace, offset f64.Point, size f64.Size) []Element {
	var out []Element
	bg := solid(f64.Rect(offset.X, offset.Y, size.W, size.H), backgroundColor, 1)
	out = append(out, bg)

	sc := ws.Scrolling()
	activeTile := ws.ActiveTile()

	sc.TilesWithPositions(func(col *layout.Column, tile *layout.Tile, pos f64.Point) {
		out = append(out, tileElements(tile, pos.Add(offset), tile == activeTile)...)
		if col.Display() == config.ColumnDisplayTabbed && !col.IsFullscreen() {
			out = append(out, tabIndicatorElements(col, tile, pos.Add(offset))...)
		}
	})

	// Closing windows replay their snapshot above the live tiles.
	for _, c := range ws.ClosingTiles() {
		dst := f64.Rect(c.Pos.X+offset.X, c.Pos.Y+offset.Y, c.Snapshot.Size.W, c.Snapshot.Size.H)
		out = append(out, Element{
			Kind:    KindTexture,
			Dst:     dst,
			Alpha:   c.Anim.ClampedValue(),
			Texture: c.Snapshot.Handle,
			Damage:  []f64.Rectangle{dst},
		})
	}

	// Floating plane stacks above the scrolling plane.
	ws.Floating().TilesWithPositions(func(tile *layout.Tile, pos f64.Point) {
		out = append(out, tileElements(tile, pos.Add(offset), tile == activeTile)...)
	})

	if hint := sc.InsertHint(); hint != nil {
		out = append(out, insertHintElement(ws, sc, hint, offset))
	}
	return out
}

// tileElements returns the split element groups of one tile:
// below-window decorations, the window contents, above-window
// decorations.
func tileElements(tile *layout.Tile, pos f64.Point, active bool) []Element {
	cfg := tile.Config()
	rules := tile.Rules()
	size := tile.AnimatedSize()
	dst := f64.Rect(pos.X, pos.Y, size.W, size.H)
	alpha := rules.Opacity
	if alpha == 0 {
		alpha = 1
	}
	alpha *= tile.OpenProgress()

	var out []Element

	if cfg.Shadow.On {
		shadowDst := dst.Add(f64.Point{X: cfg.Shadow.Offset.X, Y: cfg.Shadow.Offset.Y}).
			Inset(-cfg.Shadow.Spread)
		color := cfg.Shadow.Color
		if !active && cfg.Shadow.InactiveColor != nil {
			color = *cfg.Shadow.InactiveColor
		}
		out = append(out, Element{
			Kind:   KindShadow,
			Dst:    shadowDst,
			Color:  color,
			Sigma:  cfg.Shadow.Softness,
			Alpha:  alpha,
			Damage: []f64.Rectangle{shadowDst},
		})
	}

	if !cfg.FocusRing.Off && !rules.FocusRingOff && active {
		ringDst := dst.Inset(-cfg.FocusRing.Width)
		out = append(out, borderElement(ringDst, cfg.FocusRing, true, false, alpha))
	}
	if !cfg.Border.Off && !rules.BorderOff {
		out = append(out, borderElement(dst, cfg.Border, active, tile.Window().IsUrgent(), alpha))
	}

	// Window contents.
	b := tileBorderInset(tile)
	winSize := tile.AnimatedWindowSize()
	winDst := f64.Rect(pos.X+b, pos.Y+b, winSize.W, winSize.H)
	if progress, ok := tile.ResizeProgress(); ok {
		if snap := tileSnapshot(tile); snap != nil {
			// A snapshot at the settled size is a pure content
			// change (tab switch, remap): crossfade. A size
			// mismatch is a window resize: the resize blend
			// stretches the snapshot toward the new geometry.
			kind := KindResize
			if sameSize(snap.Size, tile.VisibleWindowSize()) {
				kind = KindCrossfade
			}
			out = append(out, Element{
				Kind:     kind,
				WindowID: tile.ID(),
				Dst:      winDst,
				Alpha:    alpha,
				Progress: progress,
				Texture:  snap.Handle,
				Damage:   []f64.Rectangle{winDst},
			})
			return out
		}
	}
	surface := Element{
		Kind:     KindClippedSurface,
		WindowID: tile.ID(),
		Src:      f64.Rect(0, 0, winSize.W, winSize.H),
		Dst:      winDst,
		Alpha:    alpha,
		Damage:   []f64.Rectangle{winDst},
	}
	if alpha >= 1 {
		surface.OpaqueRegions = []f64.Rectangle{winDst}
	}
	out = append(out, surface)
	return out
}

func sameSize(a, b f64.Size) bool {
	const epsilon = 0.5
	dw, dh := a.W-b.W, a.H-b.H
	return dw > -epsilon && dw < epsilon && dh > -epsilon && dh < epsilon
}

func tileBorderInset(tile *layout.Tile) float64 {
	size := tile.AnimatedSize()
	win := tile.AnimatedWindowSize()
	return (size.W - win.W) / 2
}

// tileSnapshot peeks the resize snapshot without consuming it.
func tileSnapshot(tile *layout.Tile) *layout.Snapshot {
	s := tile.TakeSnapshot()
	if s != nil {
		tile.SetSnapshot(s)
	}
	return s
}

func borderElement(dst f64.Rectangle, b config.Border, active, urgent bool, alpha float64) Element {
	el := Element{
		Kind:   KindBorder,
		Dst:    dst,
		Alpha:  alpha,
		Damage: []f64.Rectangle{dst},
	}
	switch {
	case urgent:
		el.Color = b.UrgentColor
		el.Gradient = b.UrgentGradient
	case active:
		el.Color = b.ActiveColor
		el.Gradient = b.ActiveGradient
	default:
		el.Color = b.InactiveColor
		el.Gradient = b.InactiveGradient
	}
	return el
}

func tabIndicatorElements(col *layout.Column, visible *layout.Tile, pos f64.Point) []Element {
	cfg := visible.Config().TabIndicator
	if cfg.Off {
		return nil
	}
	n := col.TileCount()
	if n <= 1 && cfg.HideWhenSingleTab {
		return nil
	}
	size := visible.AnimatedSize()
	horizontal := cfg.Position == config.TabIndicatorTop || cfg.Position == config.TabIndicatorBottom

	span := size.H
	if horizontal {
		span = size.W
	}
	length := span * cfg.LengthTotalProportion
	per := length / float64(n)

	var x, y float64
	switch cfg.Position {
	case config.TabIndicatorRight:
		x = pos.X + size.W + cfg.Gap
		if cfg.PlaceWithinColumn {
			x = pos.X + size.W - cfg.Gap - cfg.Width
		}
		y = pos.Y + (size.H-length)/2
	case config.TabIndicatorTop:
		y = pos.Y - cfg.Gap - cfg.Width
		if cfg.PlaceWithinColumn {
			y = pos.Y + cfg.Gap
		}
		x = pos.X + (size.W-length)/2
	case config.TabIndicatorBottom:
		y = pos.Y + size.H + cfg.Gap
		if cfg.PlaceWithinColumn {
			y = pos.Y + size.H - cfg.Gap - cfg.Width
		}
		x = pos.X + (size.W-length)/2
	default:
		x = pos.X - cfg.Gap - cfg.Width
		if cfg.PlaceWithinColumn {
			x = pos.X + cfg.Gap
		}
		y = pos.Y + (size.H-length)/2
	}

	out := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		dst := f64.Rect(x, y+float64(i)*per, cfg.Width, per-cfg.GapsBetweenTabs)
		if horizontal {
			dst = f64.Rect(x+float64(i)*per, y, per-cfg.GapsBetweenTabs, cfg.Width)
		}
		el := Element{
			Kind:         KindTabIndicator,
			Dst:          dst,
			Alpha:        1,
			CornerRadius: cfg.CornerRadius,
		}
		if i == col.ActiveTileIdx() {
			el.Color = cfg.ActiveColor
			el.Gradient = cfg.ActiveGradient
		} else {
			el.Color = cfg.InactiveColor
			el.Gradient = cfg.InactiveGradient
		}
		el.Damage = []f64.Rectangle{el.Dst}
		out = append(out, el)
	}
	return out
}

func insertHintElement(ws *layout.Workspace, sc *layout.ScrollingSpace, hint *layout.InsertPosition, offset f64.Point) Element {
	area := ws.WorkingArea()
	cfg := ws.Config()
	gap := cfg.Gaps
	var dst f64.Rectangle
	if hint.InColumn && hint.ColumnIdx < len(sc.Columns()) {
		x := area.Min.X + sc.ColumnX(hint.ColumnIdx) - sc.ViewPos()
		w := sc.Columns()[hint.ColumnIdx].ResolvedWidth()
		dst = f64.Rect(x, area.Min.Y+gap, w, area.Dy()-2*gap)
	} else {
		x := area.Min.X + sc.ColumnX(hint.NewColumnAt) - sc.ViewPos() - gap
		dst = f64.Rect(x-16, area.Min.Y+gap, 32, area.Dy()-2*gap)
	}
	dst = dst.Add(offset)
	hintColor := cfg.FocusRing.ActiveColor.WithAlpha(0.3)
	el := solid(dst, hintColor, 1)
	el.Kind = KindInsertHint
	return el
}
