// SPDX-License-Identifier: Unlicense OR MIT

/*
Package f64 is a float64 implementation of package image's
Point and Rectangle, plus a Size type for extents.

The coordinate space has the origin in the top left
corner with the axes extending right and down. Workspaces
extend the strip downward, columns extend it rightward.
*/
package f64

import (
	"image"
	"math"
)

// A Point is a two dimensional point.
type Point struct {
	X, Y float64
}

// A Size is a two dimensional extent.
type Size struct {
	W, H float64
}

// A Rectangle contains the points (X, Y) where Min.X <= X < Max.X,
// Min.Y <= Y < Max.Y.
type Rectangle struct {
	Min, Max Point
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sz returns the size (w, h).
func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// Rect returns the rectangle with origin (x, y) and size (w, h).
func Rect(x, y, w, h float64) Rectangle {
	return Rectangle{Min: Point{X: x, Y: y}, Max: Point{X: x + w, Y: y + h}}
}

// Add return the point p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the vector p-p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Round returns p rounded to the nearest integer coordinates.
func (p Point) Round() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// In reports whether p is inside r.
func (p Point) In(r Rectangle) bool {
	return r.Min.X <= p.X && p.X < r.Max.X && r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// Add returns the size s+s2.
func (s Size) Add(s2 Size) Size {
	return Size{W: s.W + s2.W, H: s.H + s2.H}
}

// Mul returns s scaled by f.
func (s Size) Mul(f float64) Size {
	return Size{W: s.W * f, H: s.H * f}
}

// Round returns s rounded to the nearest integer extents.
func (s Size) Round() image.Point {
	return image.Pt(int(math.Round(s.W)), int(math.Round(s.H)))
}

// Empty reports whether s has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Size returns r's width and height.
func (r Rectangle) Size() Size {
	return Size{W: r.Dx(), H: r.Dy()}
}

// Dx returns r's width.
func (r Rectangle) Dx() float64 {
	return r.Max.X - r.Min.X
}

// Dy returns r's height.
func (r Rectangle) Dy() float64 {
	return r.Max.Y - r.Min.Y
}

// Intersect returns the intersection of r and s.
func (r Rectangle) Intersect(s Rectangle) Rectangle {
	if r.Min.X < s.Min.X {
		r.Min.X = s.Min.X
	}
	if r.Min.Y < s.Min.Y {
		r.Min.Y = s.Min.Y
	}
	if r.Max.X > s.Max.X {
		r.Max.X = s.Max.X
	}
	if r.Max.Y > s.Max.Y {
		r.Max.Y = s.Max.Y
	}
	if r.Empty() {
		return Rectangle{}
	}
	return r
}

// Union returns the union of r and s.
func (r Rectangle) Union(s Rectangle) Rectangle {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	if r.Min.X > s.Min.X {
		r.Min.X = s.Min.X
	}
	if r.Min.Y > s.Min.Y {
		r.Min.Y = s.Min.Y
	}
	if r.Max.X < s.Max.X {
		r.Max.X = s.Max.X
	}
	if r.Max.Y < s.Max.Y {
		r.Max.Y = s.Max.Y
	}
	return r
}

// Canon returns the canonical version of r, where Min is to
// the upper left of Max.
func (r Rectangle) Canon() Rectangle {
	if r.Max.X < r.Min.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Max.Y < r.Min.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Empty reports whether r represents the empty area.
func (r Rectangle) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Overlaps reports whether r and s have a non-empty intersection.
func (r Rectangle) Overlaps(s Rectangle) bool {
	return !r.Empty() && !s.Empty() &&
		r.Min.X < s.Max.X && s.Min.X < r.Max.X &&
		r.Min.Y < s.Max.Y && s.Min.Y < r.Max.Y
}

// Add returns r translated by p.
func (r Rectangle) Add(p Point) Rectangle {
	return Rectangle{
		Min: Point{X: r.Min.X + p.X, Y: r.Min.Y + p.Y},
		Max: Point{X: r.Max.X + p.X, Y: r.Max.Y + p.Y},
	}
}

// Inset returns r shrunk by d on all sides. Opposite edges that
// would cross collapse to the center.
func (r Rectangle) Inset(d float64) Rectangle {
	if r.Dx() < 2*d {
		mid := (r.Min.X + r.Max.X) / 2
		r.Min.X = mid
		r.Max.X = mid
	} else {
		r.Min.X += d
		r.Max.X -= d
	}
	if r.Dy() < 2*d {
		mid := (r.Min.Y + r.Max.Y) / 2
		r.Min.Y = mid
		r.Max.Y = mid
	} else {
		r.Min.Y += d
		r.Max.Y -= d
	}
	return r
}

// Center returns the midpoint of r.
func (r Rectangle) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}
