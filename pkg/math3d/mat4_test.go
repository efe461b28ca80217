package math3d

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func vecNear(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < epsilon &&
		math.Abs(a.Y-b.Y) < epsilon &&
		math.Abs(a.Z-b.Z) < epsilon
}

func TestMulPointTranslate(t *testing.T) {
	m := Translate(V3(10, -2, 3))
	got := m.MulPoint(V3(1, 1, 1))
	want := V3(11, -1, 4)

	if !vecNear(got, want) {
		t.Errorf("MulPoint = %v, want %v", got, want)
	}
}

func TestMulPointIdentity(t *testing.T) {
	p := V3(3, -7, 2.5)
	if got := Identity().MulPoint(p); !vecNear(got, p) {
		t.Errorf("identity transform moved point: %v -> %v", p, got)
	}
}

func TestRotateZQuarterTurn(t *testing.T) {
	m := RotateZ(math.Pi / 2)
	got := m.MulPoint(V3(1, 0, 0))
	want := V3(0, 1, 0)

	if !vecNear(got, want) {
		t.Errorf("RotateZ(pi/2) * (1,0,0) = %v, want %v", got, want)
	}
}

func TestMulAppliesLeftFirst(t *testing.T) {
	// Rotate a quarter turn about Z, then translate. Row-vector
	// composition applies the left operand first.
	m := RotateZ(math.Pi / 2).Mul(Translate(V3(10, 0, 0)))
	got := m.MulPoint(V3(1, 0, 0))
	want := V3(10, 1, 0)

	if !vecNear(got, want) {
		t.Errorf("compose = %v, want %v", got, want)
	}
}

func TestMulPointPerspectiveDivide(t *testing.T) {
	// A matrix whose fourth column doubles w halves all components.
	m := Identity()
	m.Set(3, 3, 2)

	got := m.MulPoint(V3(4, 6, 8))
	want := V3(2, 3, 4)

	if !vecNear(got, want) {
		t.Errorf("MulPoint with w=2 = %v, want %v", got, want)
	}
}

func TestMulDirIgnoresTranslation(t *testing.T) {
	m := Translate(V3(100, 100, 100))
	d := V3(0, 0, 1)

	if got := m.MulDir(d); !vecNear(got, d) {
		t.Errorf("MulDir picked up translation: %v", got)
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	m := RotateX(0.3).Mul(Translate(V3(1, 2, 3)))
	if got := m.Transpose().Transpose(); got != m {
		t.Errorf("double transpose != original: %v", got)
	}
}

func TestNormalizeZeroPropagatesNaN(t *testing.T) {
	n := Zero3().Normalize()
	if !math.IsNaN(n.X) || !math.IsNaN(n.Y) || !math.IsNaN(n.Z) {
		t.Errorf("normalizing zero vector should yield NaN, got %v", n)
	}
	if n.IsFinite() {
		t.Error("IsFinite should report false for NaN components")
	}
}
