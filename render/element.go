// SPDX-License-Identifier: Unlicense OR MIT

/*
Package render walks the layout and produces the ordered list of
render elements an external renderer realizes. The core owns
geometry and z-order; pixels, textures and damage tracking beyond
the reported rectangles belong to the renderer.
*/
package render

import (
	"strata.dev/config"
	"strata.dev/f64"
	"strata.dev/layout"
)

// Kind discriminates render elements.
type Kind uint8

const (
	// KindSurface is a window's live surface.
	KindSurface Kind = iota
	// KindSolidColor is a filled rectangle.
	KindSolidColor
	// KindBorder is a border or focus-ring gradient frame.
	KindBorder
	// KindShadow is a rounded-rect blurred shadow.
	KindShadow
	// KindClippedSurface is a surface clipped to rounded corners.
	KindClippedSurface
	// KindCrossfade blends two textures by Progress.
	KindCrossfade
	// KindResize blends a snapshot with the live surface during a
	// resize animation.
	KindResize
	// KindTexture is a bare texture, e.g. a closing window
	// snapshot.
	KindTexture
	// KindTabIndicator is the tabbed-column indicator strip.
	KindTabIndicator
	// KindInsertHint highlights the drop slot of an interactive
	// move.
	KindInsertHint
)

// Target selects what the produced elements are for.
type Target uint8

const (
	TargetOutput Target = iota
	TargetOffscreen
	TargetScreencast
)

// Element is one renderable item. Dst is in output-local logical
// coordinates; z-order is the slice order, bottom first.
type Element struct {
	Kind     Kind
	WindowID layout.WindowID

	Src f64.Rectangle
	Dst f64.Rectangle

	Alpha        float64
	CornerRadius float64

	Color    config.Color
	Gradient *config.Gradient

	// Sigma is the shadow blur.
	Sigma float64

	// Progress drives crossfade and resize blends.
	Progress float64

	// Texture is the renderer-owned handle for snapshot kinds.
	Texture any

	// OpaqueRegions lets the renderer skip occluded work.
	OpaqueRegions []f64.Rectangle
	// Damage defaults to the whole Dst.
	Damage []f64.Rectangle
}

func solid(dst f64.Rectangle, color config.Color, alpha float64) Element {
	return Element{
		Kind:   KindSolidColor,
		Dst:    dst,
		Color:  color,
		Alpha:  alpha,
		Damage: []f64.Rectangle{dst},
	}
}
