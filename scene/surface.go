package scene

import (
	"fmt"

	"github.com/MillerLab-UCDavis/ARTRS/types"
)

// Surfaces with a smaller unnormalized normal (twice the triangle area) are
// rejected as degenerate.
const minSurfaceArea = 1e-12

// The tolerance used when deciding whether a point lies on a surface and
// when accepting barycentric coordinates at the triangle edge.
const surfaceEpsilon = 1e-7

// SurfaceID identifies a surface within its owning scene.
type SurfaceID int32

// A Surface is an immutable triangular reflector. Vertices are stored
// counter-clockwise as seen from the side the outward normal points to.
type Surface struct {
	id SurfaceID

	v0, v1, v2 types.Vec3
	e1, e2     types.Vec3

	normal types.Vec3
	d      float64

	bbox   [2]types.Vec3
	center types.Vec3

	mat Attenuator
}

func newSurface(id SurfaceID, v0, v1, v2 types.Vec3, mat Attenuator) (*Surface, error) {
	if !v0.IsFinite() || !v1.IsFinite() || !v2.IsFinite() {
		return nil, fmt.Errorf("%w: surface %d has non-finite coordinates", ErrInvalidGeometry, id)
	}

	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	n := e1.Cross(e2)
	if n.Len() < minSurfaceArea {
		return nil, fmt.Errorf("%w: surface %d is degenerate (zero area)", ErrInvalidGeometry, id)
	}
	if mat == nil {
		mat = Material{Reflectivity: 1}
	}

	normal := n.Normalize()
	s := &Surface{
		id:     id,
		v0:     v0,
		v1:     v1,
		v2:     v2,
		e1:     e1,
		e2:     e2,
		normal: normal,
		d:      normal.Dot(v0),
		bbox: [2]types.Vec3{
			types.MinVec3(v0, types.MinVec3(v1, v2)),
			types.MaxVec3(v0, types.MaxVec3(v1, v2)),
		},
		center: v0.Add(v1).Add(v2).Mul(1.0 / 3.0),
		mat:    mat,
	}
	return s, nil
}

// Get surface id.
func (s *Surface) ID() SurfaceID {
	return s.id
}

// Get the triangle vertices.
func (s *Surface) Vertices() (types.Vec3, types.Vec3, types.Vec3) {
	return s.v0, s.v1, s.v2
}

// Get the unit outward normal.
func (s *Surface) Normal() types.Vec3 {
	return s.normal
}

// Get the surface material.
func (s *Surface) Material() Attenuator {
	return s.mat
}

// Get the surface bounding box. Satisfies bvh.BoundedVolume.
func (s *Surface) BBox() [2]types.Vec3 {
	return s.bbox
}

// Get the surface centroid. Satisfies bvh.BoundedVolume.
func (s *Surface) Center() types.Vec3 {
	return s.center
}

// Intersect tests a ray against the triangle using the Moller-Trumbore
// formulation and returns the parametric hit distance. Hits outside
// (near, far) are rejected. The test is double-sided; occlusion does not
// depend on which face the ray strikes.
func (s *Surface) Intersect(origin, dir types.Vec3, near, far float64) (float64, bool) {
	p := dir.Cross(s.e2)
	det := s.e1.Dot(p)
	if det > -types.Epsilon && det < types.Epsilon {
		return 0, false
	}

	invDet := 1.0 / det
	tv := origin.Sub(s.v0)
	u := tv.Dot(p) * invDet
	if u < -surfaceEpsilon || u > 1+surfaceEpsilon {
		return 0, false
	}

	q := tv.Cross(s.e1)
	v := dir.Dot(q) * invDet
	if v < -surfaceEpsilon || u+v > 1+surfaceEpsilon {
		return 0, false
	}

	t := s.e2.Dot(q) * invDet
	if t <= near || t >= far {
		return 0, false
	}
	return t, true
}

// SignedDistance returns the distance from p to the surface plane, positive
// on the side the outward normal points to.
func (s *Surface) SignedDistance(p types.Vec3) float64 {
	return s.normal.Dot(p) - s.d
}

// Mirror reflects a point across the surface plane. This is the image-source
// construction primitive used by the path tracer.
func (s *Surface) Mirror(p types.Vec3) types.Vec3 {
	return p.Sub(s.normal.Mul(2 * s.SignedDistance(p)))
}

// Contains reports whether a point lies on the surface, i.e. on the plane
// and within the finite triangle extent.
func (s *Surface) Contains(p types.Vec3) bool {
	if dist := s.SignedDistance(p); dist < -surfaceEpsilon || dist > surfaceEpsilon {
		return false
	}

	w := p.Sub(s.v0)
	d11 := s.e1.Dot(s.e1)
	d12 := s.e1.Dot(s.e2)
	d22 := s.e2.Dot(s.e2)
	dw1 := w.Dot(s.e1)
	dw2 := w.Dot(s.e2)

	det := d11*d22 - d12*d12
	if det == 0 {
		return false
	}
	u := (d22*dw1 - d12*dw2) / det
	v := (d11*dw2 - d12*dw1) / det
	return u >= -surfaceEpsilon && v >= -surfaceEpsilon && u+v <= 1+surfaceEpsilon
}
