package tracer

import (
	"github.com/MillerLab-UCDavis/ARTRS/scene"
	"github.com/MillerLab-UCDavis/ARTRS/types"
)

// A Path is a valid propagation route from a source to a receiver. Points
// holds the source position, the reflection points in bounce order and the
// receiver position; Surfaces holds the id of the reflector at each bounce.
type Path struct {
	Points   []types.Vec3
	Surfaces []scene.SurfaceID
}

// Order returns the number of specular reflections along the path.
func (p Path) Order() int {
	return len(p.Surfaces)
}

// Distance returns the total traveled distance as the sum of segment
// lengths.
func (p Path) Distance() float64 {
	var sum float64
	for i := 1; i < len(p.Points); i++ {
		sum += p.Points[i].Sub(p.Points[i-1]).Len()
	}
	return sum
}
