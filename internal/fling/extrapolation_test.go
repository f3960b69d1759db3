// SPDX-License-Identifier: Unlicense OR MIT

package fling

import (
	"testing"
	"time"
)

func TestDecomposeQR(t *testing.T) {
	A := &matrix{
		rows: 3, cols: 3,
		data: []float64{
			12, 6, -4,
			-51, 167, 24,
			4, -68, -41,
		},
	}
	Q, Rt, ok := decomposeQR(A)
	if !ok {
		t.Fatal("decomposeQR failed")
	}
	R := Rt.transpose()
	QR := Q.mul(R)
	if !A.approxEqual(QR) {
		t.Log("A\n", A)
		t.Log("Q\n", Q)
		t.Log("R\n", R)
		t.Log("QR\n", QR)
		t.Fatal("Q*R not approximately equal to A")
	}
}

func TestFit(t *testing.T) {
	X := []float64{-1, 0, 1}
	Y := []float64{2, 0, 2}

	got, ok := polyFit(X, Y)
	if !ok {
		t.Fatal("polyFit failed")
	}
	want := coefficients{0, 0, 2}
	if !got.approxEqual(want) {
		t.Fatalf("polyFit: got %v want %v", got, want)
	}
}

func TestEstimateConstantVelocity(t *testing.T) {
	var e Extrapolation
	// 1000 units/s sampled every 8ms.
	for i := 0; i <= 10; i++ {
		ts := time.Duration(i) * 8 * time.Millisecond
		e.Sample(ts, float64(i)*8)
	}
	est := e.Estimate()
	if est.Velocity < 900 || est.Velocity > 1100 {
		t.Fatalf("velocity estimate %v outside [900, 1100]", est.Velocity)
	}
	if est.Distance <= 0 {
		t.Fatalf("distance estimate %v not positive", est.Distance)
	}
}

func TestEstimatePauseResets(t *testing.T) {
	var e Extrapolation
	e.Sample(0, 0)
	e.Sample(8*time.Millisecond, 100)
	// A long pause should discard the old samples.
	e.Sample(500*time.Millisecond, 100)
	est := e.Estimate()
	if est.Velocity != 0 {
		t.Fatalf("velocity after pause: got %v want 0", est.Velocity)
	}
}
