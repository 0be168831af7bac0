package tracer

import (
	"errors"
	"fmt"

	"github.com/MillerLab-UCDavis/ARTRS/log"
	"github.com/MillerLab-UCDavis/ARTRS/scene"
	"github.com/MillerLab-UCDavis/ARTRS/types"
)

var (
	// ErrDegenerateQuery is returned when a source or receiver lies on a
	// surface; paths through such a point are undefined.
	ErrDegenerateQuery = errors.New("tracer: source or receiver coincides with scene geometry")
)

// A Tracer enumerates all valid specular paths between a source and a
// receiver up to the scene's configured maximum reflection order, using the
// method of images. Tracers only read the frozen scene and are safe for
// concurrent use.
type Tracer struct {
	sc     *scene.Scene
	in     *Intersector
	logger log.Logger
}

func New(sc *scene.Scene) *Tracer {
	return &Tracer{
		sc:     sc,
		in:     NewIntersector(sc),
		logger: log.New("tracer"),
	}
}

// Intersector exposes the tracer's intersection engine.
func (t *Tracer) Intersector() *Intersector {
	return t.in
}

// Trace returns every valid path from src to rcv: the direct path when the
// receiver is visible from the source, plus one path per ordered sequence of
// distinct surfaces whose image-source construction survives extent and
// occlusion checks. The result set is deterministic for a fixed scene and
// endpoint pair; candidate traversal order only affects early exits.
func (t *Tracer) Trace(src scene.Source, rcv scene.Receiver) ([]Path, error) {
	if err := t.checkEndpoint(src.Position, "source"); err != nil {
		return nil, err
	}
	if err := t.checkEndpoint(rcv.Position, "receiver"); err != nil {
		return nil, err
	}

	var paths []Path
	if !t.in.Occluded(src.Position, rcv.Position) {
		paths = append(paths, Path{
			Points: []types.Vec3{src.Position, rcv.Position},
		})
	}

	maxOrder := t.sc.Config().MaxOrder
	if maxOrder > 0 && len(t.sc.Surfaces()) > 0 {
		w := &imageWalk{
			tracer: t,
			src:    src.Position,
			rcv:    rcv.Position,
			used:   make([]bool, len(t.sc.Surfaces())),
		}
		w.descend(src.Position, maxOrder)
		paths = append(paths, w.found...)
	}

	t.logger.Debugf("traced pair: %d paths up to order %d", len(paths), maxOrder)
	return paths, nil
}

// checkEndpoint rejects query points that lie on a surface.
func (t *Tracer) checkEndpoint(p types.Vec3, role string) error {
	for _, s := range t.sc.Surfaces() {
		if d := s.SignedDistance(p); d > -onSurfaceEpsilon && d < onSurfaceEpsilon && s.Contains(p) {
			return fmt.Errorf("%w: %s lies on surface %d", ErrDegenerateQuery, role, s.ID())
		}
	}
	return nil
}

// imageWalk is the bounded-depth search over reflecting-surface sequences.
// It carries the image-source stack explicitly: images[i] is the source
// mirrored across seq[0..i].
type imageWalk struct {
	tracer *Tracer
	src    types.Vec3
	rcv    types.Vec3

	seq    []*scene.Surface
	images []types.Vec3
	used   []bool

	found []Path
}

// descend extends the current sequence by every admissible surface and
// recurses while reflection budget remains. A surface is admissible when it
// is not already part of the sequence and the current image source lies
// strictly on its reflecting side; mirroring an image that is behind a
// candidate cannot produce a physical bounce, which prunes most sequences
// long before validation.
func (w *imageWalk) descend(image types.Vec3, remaining int) {
	for _, s := range w.tracer.sc.Surfaces() {
		if w.used[s.ID()] {
			continue
		}
		if s.SignedDistance(image) <= onSurfaceEpsilon {
			continue
		}

		w.seq = append(w.seq, s)
		w.images = append(w.images, s.Mirror(image))
		w.used[s.ID()] = true

		if p, ok := w.buildPath(); ok {
			w.found = append(w.found, p)
		}
		if remaining > 1 {
			w.descend(w.images[len(w.images)-1], remaining-1)
		}

		w.used[s.ID()] = false
		w.seq = w.seq[:len(w.seq)-1]
		w.images = w.images[:len(w.images)-1]
	}
}

// buildPath folds the current image-source sequence back into a geometric
// path. Walking backwards from the receiver, each reflection point is the
// intersection of the segment towards the current image source with the
// corresponding surface; the construction fails when a reflection point
// falls outside the surface's finite extent. The folded path is then
// validated segment by segment with the shadow test.
func (w *imageWalk) buildPath() (Path, bool) {
	k := len(w.seq)
	points := make([]types.Vec3, k+2)
	points[0] = w.src
	points[k+1] = w.rcv

	target := w.rcv
	for i := k - 1; i >= 0; i-- {
		img := w.images[i]
		seg := img.Sub(target)
		dist := seg.Len()
		if dist <= 2*segmentEpsilon {
			return Path{}, false
		}

		dir := seg.Mul(1 / dist)
		tHit, ok := w.seq[i].Intersect(target, dir, segmentEpsilon, dist-segmentEpsilon)
		if !ok {
			return Path{}, false
		}

		target = target.Add(dir.Mul(tHit))
		points[i+1] = target
	}

	for i := 0; i <= k; i++ {
		if w.tracer.in.Occluded(points[i], points[i+1]) {
			return Path{}, false
		}
	}

	ids := make([]scene.SurfaceID, k)
	for i, s := range w.seq {
		ids[i] = s.ID()
	}
	return Path{Points: points, Surfaces: ids}, true
}
