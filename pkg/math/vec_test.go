package math

import (
	gomath "math"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := Normalize(Vec3{3, 4, 0})
	if l := n.Len(); gomath.Abs(l-1) > 1e-12 {
		t.Errorf("Normalize().Len() = %v, want 1", l)
	}

	if got := Normalize(Vec3{}); got != (Vec3{}) {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
}

func TestHadamard(t *testing.T) {
	got := Hadamard(Vec3{1, 2, 3}, Vec3{4, 5, 6})
	want := Vec3{4, 10, 18}
	if got != want {
		t.Errorf("Hadamard() = %v, want %v", got, want)
	}
}

func TestBlend3(t *testing.T) {
	a, b, c := Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}
	got := Blend3(a, b, c, [3]float64{0.2, 0.3, 0.5})
	want := Vec3{0.2, 0.3, 0.5}
	if !ApproxEqual(got, want, 1e-12) {
		t.Errorf("Blend3() = %v, want %v", got, want)
	}
}

func TestApproxEqualIsAbsolute(t *testing.T) {
	tests := []struct {
		a, b Vec3
		eps  float64
		want bool
	}{
		{Vec3{6.12e-17, 0, -1}, Vec3{0, 0, -1}, 1e-9, true},
		{Vec3{0.99998, 0.0039, 0.0039}, Vec3{1, 0, 0}, 0.02, true},
		{Vec3{0, 0.03, 0}, Vec3{}, 0.02, false},
		{Vec3{1000, 0, 0}, Vec3{1000.5, 0, 0}, 0.1, false},
	}
	for _, tt := range tests {
		if got := ApproxEqual(tt.a, tt.b, tt.eps); got != tt.want {
			t.Errorf("ApproxEqual(%v, %v, %g) = %v, want %v", tt.a, tt.b, tt.eps, got, tt.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		x, want int
	}{
		{-3, 0},
		{0, 0},
		{5, 5},
		{12, 9},
	}
	for _, tt := range tests {
		if got := ClampInt(tt.x, 0, 9); got != tt.want {
			t.Errorf("ClampInt(%d) = %d, want %d", tt.x, got, tt.want)
		}
	}
}

func TestSpiral(t *testing.T) {
	// First entries of the golden-angle sequence
	want := []Vec2{
		{1, 0},
		{-0.737369, 0.675490},
		{0.087426, -0.996171},
		{0.608439, 0.793601},
	}
	for i, w := range want {
		if got := SpiralDir(i); !got.ApproxEqualThreshold(w, 1e-5) {
			t.Errorf("SpiralDir(%d) = %v, want %v", i, got, w)
		}
	}

	for i := 0; i < SpiralSamples; i++ {
		if l := SpiralDir(i).Len(); gomath.Abs(l-1) > 1e-12 {
			t.Errorf("SpiralDir(%d) length %v, want 1", i, l)
		}
		if l := SpiralOffset(i, SpiralSamples, 1).Len(); l > 1+1e-12 {
			t.Errorf("SpiralOffset(%d) outside unit disk: %v", i, l)
		}
	}

	if got := SpiralOffset(0, SpiralSamples, 1); got != (Vec2{}) {
		t.Errorf("SpiralOffset(0) = %v, want centre", got)
	}
}
