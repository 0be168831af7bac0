package types

import (
	"math"
	"testing"
)

func TestVectorOps(t *testing.T) {
	v1 := XYZ(1, 2, 3)
	v2 := XYZ(4, -5, 6)

	if got := v1.Add(v2); got != XYZ(5, -3, 9) {
		t.Fatalf("expected sum (5, -3, 9); got %v", got)
	}
	if got := v1.Sub(v2); got != XYZ(-3, 7, -3) {
		t.Fatalf("expected difference (-3, 7, -3); got %v", got)
	}
	if got := v1.Mul(2); got != XYZ(2, 4, 6) {
		t.Fatalf("expected scaled vector (2, 4, 6); got %v", got)
	}
	if got := v1.Dot(v2); got != 12 {
		t.Fatalf("expected dot product 12; got %v", got)
	}
	if got := XYZ(1, 0, 0).Cross(XYZ(0, 1, 0)); got != XYZ(0, 0, 1) {
		t.Fatalf("expected x cross y = z; got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	v := XYZ(3, 0, 4).Normalize()
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Fatalf("expected unit length; got %v", v.Len())
	}
	if got := XYZ(0, 0, 0).Normalize(); got != XYZ(0, 0, 0) {
		t.Fatalf("expected zero vector to normalize to zero; got %v", got)
	}
}

func TestAxis(t *testing.T) {
	v := XYZ(1, 2, 3)
	for axis, exp := range []float64{1, 2, 3} {
		if got := v.Axis(axis); got != exp {
			t.Fatalf("expected component %d to be %v; got %v", axis, exp, got)
		}
	}
}

func TestIsFinite(t *testing.T) {
	type spec struct {
		in  Vec3
		exp bool
	}
	specs := []spec{
		{XYZ(0, 0, 0), true},
		{XYZ(1, -2, 3), true},
		{XYZ(math.NaN(), 0, 0), false},
		{XYZ(0, math.Inf(1), 0), false},
		{XYZ(0, 0, math.Inf(-1)), false},
	}

	for index, s := range specs {
		if got := s.in.IsFinite(); got != s.exp {
			t.Fatalf("[spec %d] expected IsFinite %t; got %t", index, s.exp, got)
		}
	}
}

func TestMinMaxVec3(t *testing.T) {
	v1 := XYZ(1, 5, -3)
	v2 := XYZ(2, -5, -1)

	if got := MinVec3(v1, v2); got != XYZ(1, -5, -3) {
		t.Fatalf("expected component min (1, -5, -3); got %v", got)
	}
	if got := MaxVec3(v1, v2); got != XYZ(2, 5, -1) {
		t.Fatalf("expected component max (2, 5, -1); got %v", got)
	}
}
