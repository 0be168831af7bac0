package tracer

import (
	"math"

	"github.com/MillerLab-UCDavis/ARTRS/types"
)

const (
	// Margin excluded from both ends of occlusion segments so endpoints
	// that lie exactly on a reflecting surface are not reported as
	// blockers.
	segmentEpsilon = 1e-6

	// Points closer than this to a surface plane (and within its extent)
	// count as lying on the surface.
	onSurfaceEpsilon = 1e-7
)

// A Ray is a transient query object: origin, unit direction and the valid
// parametric interval (Near, Far).
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
	Near   float64
	Far    float64
}

// NewRay builds an unbounded ray. The direction is normalized.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
		Near:   segmentEpsilon,
		Far:    math.Inf(1),
	}
}

// segmentRay builds the ray used for occlusion tests between two points:
// the interval covers the open segment, shrunk by segmentEpsilon at both
// ends. Returns false when the points are too close to test.
func segmentRay(from, to types.Vec3) (Ray, bool) {
	seg := to.Sub(from)
	dist := seg.Len()
	if dist <= 2*segmentEpsilon {
		return Ray{}, false
	}
	return Ray{
		Origin: from,
		Dir:    seg.Mul(1 / dist),
		Near:   segmentEpsilon,
		Far:    dist - segmentEpsilon,
	}, true
}
