package scene

import (
	"fmt"
	"math"

	"github.com/MillerLab-UCDavis/ARTRS/log"
	"github.com/MillerLab-UCDavis/ARTRS/scene/bvh"
	"github.com/MillerLab-UCDavis/ARTRS/types"
)

// Observation window for arrival times. Contributions arriving outside
// [TMin, TMax] are deliberately discarded by the accumulator.
type Window struct {
	TMin float64
	TMax float64
}

// Config holds the global simulation parameters fixed at scene build time.
type Config struct {
	// Maximum number of specular reflections per path.
	MaxOrder int

	// Propagation speed in scene units per second.
	SpeedOfSound float64

	// Arrival time observation window in seconds.
	Window Window

	// Sample rate for rasterized impulse responses. Zero disables
	// rasterization (sparse output only).
	SampleRate float64
}

// DefaultConfig returns the parameters used when the caller has no opinion:
// speed of sound in air at room temperature, three reflection orders and an
// unbounded observation window.
func DefaultConfig() Config {
	return Config{
		MaxOrder:     3,
		SpeedOfSound: 343.0,
		Window:       Window{TMin: 0, TMax: math.Inf(1)},
	}
}

// Validate config values.
func (c Config) Validate() error {
	if c.MaxOrder < 0 {
		return fmt.Errorf("%w: max reflection order must be >= 0 (got %d)", ErrInvalidConfig, c.MaxOrder)
	}
	if c.SpeedOfSound <= 0 || math.IsNaN(c.SpeedOfSound) {
		return fmt.Errorf("%w: speed of sound must be > 0 (got %g)", ErrInvalidConfig, c.SpeedOfSound)
	}
	if math.IsNaN(c.Window.TMin) || math.IsNaN(c.Window.TMax) || c.Window.TMax < c.Window.TMin {
		return fmt.Errorf("%w: observation window [%g, %g] is empty", ErrInvalidConfig, c.Window.TMin, c.Window.TMax)
	}
	if c.SampleRate < 0 || math.IsNaN(c.SampleRate) {
		return fmt.Errorf("%w: sample rate must be >= 0 (got %g)", ErrInvalidConfig, c.SampleRate)
	}
	return nil
}

// A Source is an omnidirectional point emitter.
type Source struct {
	Position  types.Vec3
	Amplitude float64
}

// A Receiver is a point microphone with no directivity pattern.
type Receiver struct {
	Position types.Vec3
}

// A Builder assembles the geometry store. Surfaces, sources and receivers
// are registered on the builder; Build freezes the store, constructs the
// spatial index and returns the immutable scene.
type Builder struct {
	logger log.Logger

	surfaces  []*Surface
	sources   []Source
	receivers []Receiver
	frozen    bool
}

// Create an empty scene builder.
func NewBuilder() *Builder {
	return &Builder{
		logger: log.New("scene"),
	}
}

// AddSurface registers a triangular reflector given its vertices in
// counter-clockwise order (as seen from the reflecting side) and a material.
// A nil material behaves as a perfect reflector.
func (b *Builder) AddSurface(v0, v1, v2 types.Vec3, mat Attenuator) (SurfaceID, error) {
	if b.frozen {
		return 0, ErrSceneFrozen
	}

	s, err := newSurface(SurfaceID(len(b.surfaces)), v0, v1, v2, mat)
	if err != nil {
		return 0, err
	}
	b.surfaces = append(b.surfaces, s)
	return s.id, nil
}

// AddSource registers a point source.
func (b *Builder) AddSource(src Source) error {
	if b.frozen {
		return ErrSceneFrozen
	}
	if !src.Position.IsFinite() || math.IsNaN(src.Amplitude) {
		return fmt.Errorf("%w: source has non-finite position or amplitude", ErrInvalidGeometry)
	}
	b.sources = append(b.sources, src)
	return nil
}

// AddReceiver registers a point receiver.
func (b *Builder) AddReceiver(rcv Receiver) error {
	if b.frozen {
		return ErrSceneFrozen
	}
	if !rcv.Position.IsFinite() {
		return fmt.Errorf("%w: receiver has non-finite position", ErrInvalidGeometry)
	}
	b.receivers = append(b.receivers, rcv)
	return nil
}

// Build validates the configuration, freezes the geometry store and
// constructs the spatial index. A failed build leaves no usable scene
// behind; the builder stays frozen either way.
func (b *Builder) Build(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b.frozen = true

	// A scene without geometry is still traceable (only the direct path
	// can exist) but there is nothing to index; bvh.Build would reject
	// an empty work list.
	var tree *bvh.Tree
	if len(b.surfaces) > 0 {
		volumes := make([]bvh.BoundedVolume, len(b.surfaces))
		for idx, s := range b.surfaces {
			volumes[idx] = s
		}

		var err error
		tree, err = bvh.Build(volumes, bvh.DefaultMinLeafItems, bvh.SurfaceAreaHeuristic)
		if err != nil {
			return nil, err
		}
	}

	b.logger.Infof(
		"built scene: %d surfaces, %d sources, %d receivers, max order %d",
		len(b.surfaces), len(b.sources), len(b.receivers), cfg.MaxOrder,
	)

	return &Scene{
		surfaces:  b.surfaces,
		sources:   b.sources,
		receivers: b.receivers,
		cfg:       cfg,
		tree:      tree,
	}, nil
}

// A Scene is the frozen geometry store together with its spatial index and
// global parameters. Scenes are immutable and safe for unsynchronized
// concurrent reads.
type Scene struct {
	surfaces  []*Surface
	sources   []Source
	receivers []Receiver
	cfg       Config
	tree      *bvh.Tree
}

// Get scene configuration.
func (sc *Scene) Config() Config {
	return sc.cfg
}

// Get all surfaces in insertion order. The returned slice must not be
// mutated.
func (sc *Scene) Surfaces() []*Surface {
	return sc.surfaces
}

// Look up a surface by id.
func (sc *Scene) Surface(id SurfaceID) (*Surface, error) {
	if id < 0 || int(id) >= len(sc.surfaces) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSurface, id)
	}
	return sc.surfaces[id], nil
}

// Get registered sources.
func (sc *Scene) Sources() []Source {
	return sc.sources
}

// Get registered receivers.
func (sc *Scene) Receivers() []Receiver {
	return sc.receivers
}

// Get the spatial index. Nil for scenes without geometry.
func (sc *Scene) Index() *bvh.Tree {
	return sc.tree
}
