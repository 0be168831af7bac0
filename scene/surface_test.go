package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/MillerLab-UCDavis/ARTRS/types"
)

func TestNewSurfaceRejectsDegenerateGeometry(t *testing.T) {
	type spec struct {
		v0, v1, v2 types.Vec3
	}
	specs := []spec{
		// zero area: collinear vertices
		{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(2, 0, 0)},
		// zero area: repeated vertex
		{types.XYZ(1, 1, 1), types.XYZ(1, 1, 1), types.XYZ(0, 2, 0)},
		// non-finite coordinate
		{types.XYZ(math.NaN(), 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0)},
		{types.XYZ(0, 0, 0), types.XYZ(math.Inf(1), 0, 0), types.XYZ(0, 1, 0)},
	}

	for index, s := range specs {
		_, err := newSurface(0, s.v0, s.v1, s.v2, nil)
		if !errors.Is(err, ErrInvalidGeometry) {
			t.Fatalf("[spec %d] expected ErrInvalidGeometry; got %v", index, err)
		}
	}
}

func TestSurfaceNormal(t *testing.T) {
	// CCW in the xy plane as seen from +z.
	s, err := newSurface(0, types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0), nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Normal(); got.Sub(types.XYZ(0, 0, 1)).Len() > 1e-12 {
		t.Fatalf("expected outward normal +z; got %v", got)
	}
}

func TestSurfaceIntersect(t *testing.T) {
	s, err := newSurface(0, types.XYZ(-5, -5, 0), types.XYZ(5, -5, 0), types.XYZ(0, 5, 0), nil)
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		origin  types.Vec3
		dir     types.Vec3
		expHit  bool
		expDist float64
	}
	specs := []spec{
		// straight down onto the centroid region
		{types.XYZ(0, 0, 10), types.XYZ(0, 0, -1), true, 10},
		// from below, double-sided test still hits
		{types.XYZ(0, 0, -3), types.XYZ(0, 0, 1), true, 3},
		// parallel to the plane
		{types.XYZ(0, 0, 1), types.XYZ(1, 0, 0), false, 0},
		// aimed away from the plane
		{types.XYZ(0, 0, 10), types.XYZ(0, 0, 1), false, 0},
		// misses the finite extent
		{types.XYZ(20, 20, 10), types.XYZ(0, 0, -1), false, 0},
	}

	for index, sp := range specs {
		dist, ok := s.Intersect(sp.origin, sp.dir, 1e-9, math.Inf(1))
		if ok != sp.expHit {
			t.Fatalf("[spec %d] expected hit %t; got %t", index, sp.expHit, ok)
		}
		if ok && math.Abs(dist-sp.expDist) > 1e-9 {
			t.Fatalf("[spec %d] expected hit distance %v; got %v", index, sp.expDist, dist)
		}
	}
}

func TestSurfaceMirror(t *testing.T) {
	s, err := newSurface(0, types.XYZ(-5, -5, 0), types.XYZ(5, -5, 0), types.XYZ(0, 5, 0), nil)
	if err != nil {
		t.Fatal(err)
	}

	got := s.Mirror(types.XYZ(1, 2, 3))
	if got.Sub(types.XYZ(1, 2, -3)).Len() > 1e-12 {
		t.Fatalf("expected mirrored point (1, 2, -3); got %v", got)
	}

	// Mirroring twice is the identity.
	back := s.Mirror(got)
	if back.Sub(types.XYZ(1, 2, 3)).Len() > 1e-12 {
		t.Fatalf("expected double mirror to restore the point; got %v", back)
	}
}

func TestSurfaceContains(t *testing.T) {
	s, err := newSurface(0, types.XYZ(0, 0, 0), types.XYZ(4, 0, 0), types.XYZ(0, 4, 0), nil)
	if err != nil {
		t.Fatal(err)
	}

	type spec struct {
		p   types.Vec3
		exp bool
	}
	specs := []spec{
		{types.XYZ(1, 1, 0), true},
		{types.XYZ(0, 0, 0), true},
		{types.XYZ(3, 3, 0), false}, // beyond the hypotenuse
		{types.XYZ(-1, 1, 0), false},
		{types.XYZ(1, 1, 0.5), false}, // off the plane
	}

	for index, sp := range specs {
		if got := s.Contains(sp.p); got != sp.exp {
			t.Fatalf("[spec %d] expected Contains %t for %v; got %t", index, sp.exp, sp.p, got)
		}
	}
}
