package response

import (
	"fmt"
	"math"
	"sort"

	"github.com/MillerLab-UCDavis/ARTRS/scene"
	"github.com/MillerLab-UCDavis/ARTRS/tracer"
)

// A Contribution is one path's arrival at the receiver: total traveled
// distance, arrival time, amplitude after spreading loss and per-reflection
// attenuation, and the reflecting surfaces in bounce order.
type Contribution struct {
	Distance  float64
	Time      float64
	Amplitude float64
	Order     []scene.SurfaceID
}

// An ImpulseResponse is the per-(source, receiver) output artifact: the
// surviving contributions sorted by ascending arrival time.
type ImpulseResponse struct {
	Contributions []Contribution
}

// An Accumulator converts traced paths into impulse responses using the
// scene's materials and global parameters.
type Accumulator struct {
	sc *scene.Scene
}

func NewAccumulator(sc *scene.Scene) *Accumulator {
	return &Accumulator{sc: sc}
}

// Accumulate derives a contribution from every path and merges them into a
// time-ordered impulse response. The amplitude of a path is the source
// amplitude scaled by 1/distance geometric spreading and attenuated once per
// reflection by the reflecting surface's material. Contributions arriving
// outside the configured observation window are dropped; this is the
// documented truncation policy, not an error.
func (a *Accumulator) Accumulate(src scene.Source, paths []tracer.Path) (*ImpulseResponse, error) {
	cfg := a.sc.Config()

	contributions := make([]Contribution, 0, len(paths))
	for _, p := range paths {
		dist := p.Distance()
		arrival := dist / cfg.SpeedOfSound
		if arrival < cfg.Window.TMin || arrival > cfg.Window.TMax {
			continue
		}

		amplitude := src.Amplitude / dist
		for _, id := range p.Surfaces {
			s, err := a.sc.Surface(id)
			if err != nil {
				return nil, err
			}
			amplitude = s.Material().Attenuate(amplitude)
		}

		contributions = append(contributions, Contribution{
			Distance:  dist,
			Time:      arrival,
			Amplitude: amplitude,
			Order:     append([]scene.SurfaceID(nil), p.Surfaces...),
		})
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Time < contributions[j].Time
	})

	return &ImpulseResponse{Contributions: contributions}, nil
}

// TotalEnergy sums the absolute contribution amplitudes. Used as the
// conservation reference for rasterization.
func (ir *ImpulseResponse) TotalEnergy() float64 {
	var sum float64
	for _, c := range ir.Contributions {
		sum += math.Abs(c.Amplitude)
	}
	return sum
}

// Rasterize distributes the sparse contributions into a fixed-rate sample
// sequence. Each contribution is split linearly between the two sample bins
// bracketing its arrival time, so the summed amplitude is preserved exactly
// up to floating point error; no contribution is silently lost.
func (ir *ImpulseResponse) Rasterize(sampleRate float64) ([]float64, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: raster sample rate must be > 0 (got %g)", scene.ErrInvalidConfig, sampleRate)
	}
	if len(ir.Contributions) == 0 {
		return []float64{}, nil
	}

	last := ir.Contributions[len(ir.Contributions)-1].Time
	samples := make([]float64, int(math.Ceil(last*sampleRate))+2)

	for _, c := range ir.Contributions {
		pos := c.Time * sampleRate
		bin := int(math.Floor(pos))
		frac := pos - float64(bin)
		samples[bin] += c.Amplitude * (1 - frac)
		samples[bin+1] += c.Amplitude * frac
	}

	return samples, nil
}
