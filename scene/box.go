package scene

import (
	"fmt"

	"github.com/MillerLab-UCDavis/ARTRS/types"
)

// AddBox registers the six walls of an axis-aligned rectangular room as
// twelve triangles with normals facing the room interior. Returns the ids of
// the added surfaces in wall order (two per wall: -x, +x, -y, +y, -z, +z).
func (b *Builder) AddBox(min, max types.Vec3, mat Attenuator) ([]SurfaceID, error) {
	if min.X >= max.X || min.Y >= max.Y || min.Z >= max.Z {
		return nil, fmt.Errorf("%w: box min %v is not strictly below max %v", ErrInvalidGeometry, min, max)
	}

	// Wall corner loops, counter-clockwise as seen from inside the room.
	quads := [6][4]types.Vec3{
		{ // wall at x = min.X, normal +x
			{X: min.X, Y: min.Y, Z: min.Z},
			{X: min.X, Y: max.Y, Z: min.Z},
			{X: min.X, Y: max.Y, Z: max.Z},
			{X: min.X, Y: min.Y, Z: max.Z},
		},
		{ // wall at x = max.X, normal -x
			{X: max.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: min.Y, Z: max.Z},
			{X: max.X, Y: max.Y, Z: max.Z},
			{X: max.X, Y: max.Y, Z: min.Z},
		},
		{ // wall at y = min.Y, normal +y
			{X: min.X, Y: min.Y, Z: min.Z},
			{X: min.X, Y: min.Y, Z: max.Z},
			{X: max.X, Y: min.Y, Z: max.Z},
			{X: max.X, Y: min.Y, Z: min.Z},
		},
		{ // wall at y = max.Y, normal -y
			{X: min.X, Y: max.Y, Z: min.Z},
			{X: max.X, Y: max.Y, Z: min.Z},
			{X: max.X, Y: max.Y, Z: max.Z},
			{X: min.X, Y: max.Y, Z: max.Z},
		},
		{ // wall at z = min.Z, normal +z
			{X: min.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: max.Y, Z: min.Z},
			{X: min.X, Y: max.Y, Z: min.Z},
		},
		{ // wall at z = max.Z, normal -z
			{X: min.X, Y: min.Y, Z: max.Z},
			{X: min.X, Y: max.Y, Z: max.Z},
			{X: max.X, Y: max.Y, Z: max.Z},
			{X: max.X, Y: min.Y, Z: max.Z},
		},
	}

	ids := make([]SurfaceID, 0, 12)
	for _, q := range quads {
		id, err := b.AddSurface(q[0], q[1], q[2], mat)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)

		id, err = b.AddSurface(q[0], q[2], q[3], mat)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
