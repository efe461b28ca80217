package math3d

import (
	"math"
	"testing"
)

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Vec3
		want    Vec3
	}{
		{"x cross y", V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)},
		{"y cross z", V3(0, 1, 0), V3(0, 0, 1), V3(1, 0, 0)},
		{"parallel", V3(2, 0, 0), V3(5, 0, 0), Zero3()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); got != tt.want {
				t.Errorf("Cross = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3NormalizeLength(t *testing.T) {
	v := V3(3, 4, 12).Normalize()
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Errorf("normalized length = %v, want 1", v.Len())
	}
}

func TestVec3Lerp(t *testing.T) {
	a, b := V3(0, 0, 0), V3(10, -10, 4)

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("t=0 gives %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("t=1 gives %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); got != V3(5, -5, 2) {
		t.Errorf("t=0.5 gives %v, want (5, -5, 2)", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a, b := V3(1, 5, -2), V3(3, 2, -4)

	if got := a.Min(b); got != V3(1, 2, -4) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != V3(3, 5, -2) {
		t.Errorf("Max = %v", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !V3(1, 2, 3).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if V3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if V3(0, math.Inf(-1), 0).IsFinite() {
		t.Error("infinite vector reported finite")
	}
}

func TestVec2Cross(t *testing.T) {
	// The z component of the 3D cross product: positive when b is
	// counter-clockwise from a.
	if got := V2(1, 0).Cross(V2(0, 1)); got != 1 {
		t.Errorf("Cross = %v, want 1", got)
	}
	if got := V2(0, 1).Cross(V2(1, 0)); got != -1 {
		t.Errorf("Cross = %v, want -1", got)
	}
}

func TestVec3XY(t *testing.T) {
	if got := V3(7, 8, 9).XY(); got != V2(7, 8) {
		t.Errorf("XY = %v, want (7, 8)", got)
	}
}

func TestVec4PerspectiveDivide(t *testing.T) {
	if got := V4(2, 4, 6, 2).PerspectiveDivide(); got != V3(1, 2, 3) {
		t.Errorf("divide = %v, want (1, 2, 3)", got)
	}
	// w = 0 passes through untouched.
	if got := V4(2, 4, 6, 0).PerspectiveDivide(); got != V3(2, 4, 6) {
		t.Errorf("w=0 divide = %v, want (2, 4, 6)", got)
	}
}
