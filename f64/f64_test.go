// SPDX-License-Identifier: Unlicense OR MIT

package f64

import (
	"image"
	"testing"
)

func TestRectBasics(t *testing.T) {
	r := Rect(10, 20, 100, 50)
	if got := r.Size(); got != Sz(100, 50) {
		t.Fatalf("Size: got %v", got)
	}
	if got := r.Center(); got != Pt(60, 45) {
		t.Fatalf("Center: got %v", got)
	}
	if !Pt(10, 20).In(r) {
		t.Fatal("Min corner should be inside")
	}
	if Pt(110, 70).In(r) {
		t.Fatal("Max corner should be outside")
	}
}

func TestIntersectUnion(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	b := Rect(5, 5, 10, 10)
	if got := a.Intersect(b); got != Rect(5, 5, 5, 5) {
		t.Fatalf("Intersect: got %v", got)
	}
	if got := a.Union(b); got != Rect(0, 0, 15, 15) {
		t.Fatalf("Union: got %v", got)
	}
	c := Rect(20, 20, 5, 5)
	if got := a.Intersect(c); !got.Empty() {
		t.Fatalf("disjoint Intersect should be empty, got %v", got)
	}
}

func TestInsetCollapses(t *testing.T) {
	r := Rect(0, 0, 10, 10).Inset(6)
	if !r.Empty() {
		t.Fatalf("over-inset should collapse, got %v", r)
	}
	grown := Rect(0, 0, 10, 10).Inset(-5)
	if grown != Rect(-5, -5, 20, 20) {
		t.Fatalf("negative inset grows: got %v", grown)
	}
}

func TestRounding(t *testing.T) {
	if got := Pt(1.5, -1.5).Round(); got != image.Pt(2, -2) {
		t.Fatalf("Round: got %v", got)
	}
	if got := Sz(426.67, 719.5).Round(); got != image.Pt(427, 720) {
		t.Fatalf("Size.Round: got %v", got)
	}
}
