// SPDX-License-Identifier: Unlicense OR MIT

package layout

import (
	"strata.dev/anim"
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/transaction"
)

// FloatingSpace is the overlay plane of a workspace for
// user-positioned windows. Tiles have workspace-local positions
// and a z-order, topmost last.
type FloatingSpace struct {
	// tiles in z-order, topmost last.
	tiles     []*Tile
	positions map[WindowID]f64.Point

	activeID WindowID

	workingArea f64.Rectangle
	cfg         config.Layout
	clock       *anim.Clock
}

// NewFloatingSpace returns an empty floating space.
func NewFloatingSpace(clock *anim.Clock, workingArea f64.Rectangle, cfg config.Layout) *FloatingSpace {
	return &FloatingSpace{
		positions:   make(map[WindowID]f64.Point),
		clock:       clock,
		workingArea: workingArea,
		cfg:         cfg,
	}
}

// IsEmpty reports whether the space holds no tiles.
func (s *FloatingSpace) IsEmpty() bool { return len(s.tiles) == 0 }

// Tiles returns the tiles in z-order, topmost last. The slice is
// owned by the space.
func (s *FloatingSpace) Tiles() []*Tile { return s.tiles }

// UpdateConfig pushes new working area and configuration down.
func (s *FloatingSpace) UpdateConfig(workingArea f64.Rectangle, cfg config.Layout) {
	s.workingArea = workingArea
	s.cfg = cfg
	for _, t := range s.tiles {
		t.SetConfig(cfg)
	}
}

// AddTile adds a floating tile. A nil position centers the tile
// in the working area.
func (s *FloatingSpace) AddTile(tile *Tile, pos *f64.Point) {
	tile.floating = true
	tile.SetConfig(s.cfg)
	s.tiles = append(s.tiles, tile)
	var p f64.Point
	if pos != nil {
		p = *pos
	} else {
		size := tile.AnimatedSize()
		p = f64.Point{
			X: s.workingArea.Min.X + (s.workingArea.Dx()-size.W)/2,
			Y: s.workingArea.Min.Y + (s.workingArea.Dy()-size.H)/2,
		}
	}
	s.positions[tile.ID()] = p
	s.Activate(tile.ID())
}

// RemoveTile removes the window's tile, if present.
func (s *FloatingSpace) RemoveTile(id WindowID) *Tile {
	for i, t := range s.tiles {
		if t.ID() == id {
			s.tiles = append(s.tiles[:i], s.tiles[i+1:]...)
			delete(s.positions, id)
			t.floating = false
			if s.activeID == id {
				s.activeID = 0
				if len(s.tiles) > 0 {
					s.activeID = s.tiles[len(s.tiles)-1].ID()
				}
			}
			return t
		}
	}
	return nil
}

// FindTile returns the window's tile, if present.
func (s *FloatingSpace) FindTile(id WindowID) *Tile {
	for _, t := range s.tiles {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// Position returns the workspace-local position of a tile.
func (s *FloatingSpace) Position(id WindowID) (f64.Point, bool) {
	p, ok := s.positions[id]
	return p, ok
}

// SetPosition places a tile.
func (s *FloatingSpace) SetPosition(id WindowID, pos f64.Point) {
	if _, ok := s.positions[id]; ok {
		s.positions[id] = pos
	}
}

// ActiveTile returns the focused floating tile, or nil.
func (s *FloatingSpace) ActiveTile() *Tile {
	if s.activeID == 0 {
		return nil
	}
	return s.FindTile(s.activeID)
}

// isDescendantOf follows the parent chain from id looking for
// ancestor among the space's tiles.
func (s *FloatingSpace) isDescendantOf(id, ancestor WindowID) bool {
	seen := 0
	cur := s.FindTile(id)
	for cur != nil && seen < 64 {
		parent, ok := cur.Window().Parent()
		if !ok {
			return false
		}
		if parent == ancestor {
			return true
		}
		cur = s.FindTile(parent)
		seen++
	}
	return false
}

// Activate focuses a tile and brings it, together with all its
// descendants, to the front. The subtree keeps its relative
// order, so modal child dialogs stay above their parents.
func (s *FloatingSpace) Activate(id WindowID) bool {
	if s.FindTile(id) == nil {
		return false
	}
	s.activeID = id
	var chain, rest []*Tile
	for _, t := range s.tiles {
		if t.ID() == id || s.isDescendantOf(t.ID(), id) {
			chain = append(chain, t)
		} else {
			rest = append(rest, t)
		}
	}
	s.tiles = append(rest, chain...)
	return true
}

// HitTest returns the topmost tile whose input region contains
// the workspace-local point.
func (s *FloatingSpace) HitTest(p f64.Point) *Tile {
	for i := len(s.tiles) - 1; i >= 0; i-- {
		t := s.tiles[i]
		pos := s.positions[t.ID()]
		local := p.Sub(pos)
		b := t.borderWidth()
		local = local.Sub(f64.Point{X: b, Y: b})
		if t.Window().IsInInputRegion(local) {
			return t
		}
	}
	return nil
}

// Update pushes target sizes to every tile. Floating tiles keep
// their client-chosen size; only mode changes are propagated.
func (s *FloatingSpace) Update(animate bool, txn *transaction.Transaction) {
	for _, t := range s.tiles {
		size := t.Window().Size()
		if size.X == 0 || size.Y == 0 {
			continue
		}
		t.RequestSize(size, SizingNormal, false, txn)
	}
}

// AdvanceAnimations advances every tile.
func (s *FloatingSpace) AdvanceAnimations() {
	for _, t := range s.tiles {
		t.AdvanceAnimations()
	}
}

// AreAnimationsOngoing reports whether any tile animates.
func (s *FloatingSpace) AreAnimationsOngoing() bool {
	for _, t := range s.tiles {
		if t.AreAnimationsOngoing() {
			return true
		}
	}
	return false
}

// TilesWithPositions reports every tile with its workspace-local
// render position, bottom to top.
func (s *FloatingSpace) TilesWithPositions(yield func(tile *Tile, pos f64.Point)) {
	for _, t := range s.tiles {
		pos := s.positions[t.ID()].Add(t.RenderOffset())
		yield(t, pos)
	}
}

// VerifyInvariants checks the z-order parent-chain contiguity.
func (s *FloatingSpace) VerifyInvariants() error {
	return s.verifyZOrder()
}
