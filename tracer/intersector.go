package tracer

import (
	"github.com/MillerLab-UCDavis/ARTRS/scene"
	"github.com/MillerLab-UCDavis/ARTRS/types"
)

// A Hit describes the nearest surface intersection along a ray.
type Hit struct {
	Surface  scene.SurfaceID
	Point    types.Vec3
	Normal   types.Vec3
	Distance float64
}

// An Intersector answers nearest-hit and occlusion queries against a frozen
// scene. It holds no mutable state and is safe for concurrent use.
type Intersector struct {
	sc *scene.Scene
}

func NewIntersector(sc *scene.Scene) *Intersector {
	return &Intersector{sc: sc}
}

// NearestHit returns the closest surface intersection within the ray
// interval, if any. Candidates are taken from the spatial index in
// front-to-back order; traversal stops descending into nodes that start
// beyond the best confirmed hit.
func (in *Intersector) NearestHit(r Ray) (Hit, bool) {
	index := in.sc.Index()
	if index == nil {
		return Hit{}, false
	}

	surfaces := in.sc.Surfaces()
	best := Hit{Distance: r.Far}
	found := false

	index.Query(r.Origin, r.Dir, r.Near, r.Far, func(item int32, _ float64) float64 {
		s := surfaces[item]
		if t, ok := s.Intersect(r.Origin, r.Dir, r.Near, best.Distance); ok {
			best = Hit{
				Surface:  s.ID(),
				Point:    r.Origin.Add(r.Dir.Mul(t)),
				Normal:   s.Normal(),
				Distance: t,
			}
			found = true
		}
		return best.Distance
	})

	return best, found
}

// Occluded is the shadow test: it reports whether any surface blocks the
// open segment between a and b. The segment interval excludes both
// endpoints by an epsilon margin so points lying on surfaces (reflection
// points) do not occlude their own segments.
func (in *Intersector) Occluded(a, b types.Vec3) bool {
	r, ok := segmentRay(a, b)
	if !ok {
		return false
	}
	_, hit := in.NearestHit(r)
	return hit
}
