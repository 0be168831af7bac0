package response

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/MillerLab-UCDavis/ARTRS/scene"
	"github.com/MillerLab-UCDavis/ARTRS/tracer"
	"github.com/MillerLab-UCDavis/ARTRS/types"
)

func boxResponse(t *testing.T, cfg scene.Config) (*scene.Scene, scene.Source, []tracer.Path) {
	t.Helper()

	b := scene.NewBuilder()
	if _, err := b.AddBox(types.XYZ(0, 0, 0), types.XYZ(4, 5, 3), scene.Material{Reflectivity: 0.9}); err != nil {
		t.Fatal(err)
	}
	sc, err := b.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	src := scene.Source{Position: types.XYZ(1.2, 2, 1.4), Amplitude: 1}
	paths, err := tracer.New(sc).Trace(src, scene.Receiver{Position: types.XYZ(2.2, 2, 1.4)})
	if err != nil {
		t.Fatal(err)
	}
	return sc, src, paths
}

func TestAccumulateAmplitudeAndOrdering(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.MaxOrder = 1

	sc, src, paths := boxResponse(t, cfg)
	ir, err := NewAccumulator(sc).Accumulate(src, paths)
	if err != nil {
		t.Fatal(err)
	}

	if len(ir.Contributions) != len(paths) {
		t.Fatalf("expected %d contributions; got %d", len(paths), len(ir.Contributions))
	}
	if !sort.SliceIsSorted(ir.Contributions, func(i, j int) bool {
		return ir.Contributions[i].Time < ir.Contributions[j].Time
	}) {
		t.Fatal("expected contributions sorted by ascending arrival time")
	}

	for index, c := range ir.Contributions {
		expTime := c.Distance / cfg.SpeedOfSound
		if math.Abs(c.Time-expTime) > 1e-12 {
			t.Fatalf("[contribution %d] expected arrival %v; got %v", index, expTime, c.Time)
		}

		expAmp := src.Amplitude / c.Distance
		for range c.Order {
			expAmp *= 0.9
		}
		if math.Abs(c.Amplitude-expAmp) > 1e-12 {
			t.Fatalf("[contribution %d] expected amplitude %v; got %v", index, expAmp, c.Amplitude)
		}
	}

	// The direct arrival travels 1 unit: earliest, unattenuated.
	first := ir.Contributions[0]
	if len(first.Order) != 0 || math.Abs(first.Amplitude-1) > 1e-12 {
		t.Fatalf("expected the direct arrival first with amplitude 1; got order %d amplitude %v", len(first.Order), first.Amplitude)
	}
}

func TestAccumulateWindowTruncation(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.MaxOrder = 1
	// A 10 ms window keeps the direct path and the nearest wall bounces
	// but drops the late arrivals.
	cfg.Window = scene.Window{TMin: 0, TMax: 0.010}

	sc, src, paths := boxResponse(t, cfg)
	ir, err := NewAccumulator(sc).Accumulate(src, paths)
	if err != nil {
		t.Fatal(err)
	}

	if len(ir.Contributions) >= len(paths) {
		t.Fatalf("expected the window to drop late arrivals; kept %d of %d", len(ir.Contributions), len(paths))
	}
	for index, c := range ir.Contributions {
		if c.Time > cfg.Window.TMax {
			t.Fatalf("[contribution %d] expected arrival within the window; got %v", index, c.Time)
		}
	}
}

func TestRasterizeConservesEnergy(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.MaxOrder = 2
	cfg.SampleRate = 44100

	sc, src, paths := boxResponse(t, cfg)
	ir, err := NewAccumulator(sc).Accumulate(src, paths)
	if err != nil {
		t.Fatal(err)
	}

	samples, err := ir.Rasterize(cfg.SampleRate)
	if err != nil {
		t.Fatal(err)
	}

	var rasterEnergy float64
	for _, amp := range samples {
		rasterEnergy += math.Abs(amp)
	}

	sparseEnergy := ir.TotalEnergy()
	if sparseEnergy == 0 {
		t.Fatal("expected a non-empty impulse response")
	}
	if rel := math.Abs(rasterEnergy-sparseEnergy) / sparseEnergy; rel > 1e-6 {
		t.Fatalf("expected rasterization to conserve energy within 1e-6; relative error %v", rel)
	}
}

func TestRasterizeEmptyResponse(t *testing.T) {
	ir := &ImpulseResponse{}
	samples, err := ir.Rasterize(44100)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected no samples for an empty response; got %d", len(samples))
	}
}

func TestRasterizeRejectsBadSampleRate(t *testing.T) {
	ir := &ImpulseResponse{Contributions: []Contribution{{Distance: 1, Time: 1.0 / 343, Amplitude: 1}}}

	for index, rate := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if _, err := ir.Rasterize(rate); !errors.Is(err, scene.ErrInvalidConfig) {
			t.Fatalf("[spec %d] expected ErrInvalidConfig for rate %v; got %v", index, rate, err)
		}
	}
}
