package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MillerLab-UCDavis/ARTRS/scene"
	"github.com/MillerLab-UCDavis/ARTRS/sim"
	"github.com/MillerLab-UCDavis/ARTRS/types"
	"github.com/urfave/cli"
)

// Margin that keeps randomized sources and receivers away from the walls.
const wallMargin = 0.3

// GenerateDataset traces a batch of randomized rectangular rooms and writes
// one rasterized impulse response per (room, source, receiver) combination
// as a CSV file. This is dataset tooling for separation experiments; the
// core defines no file format.
func GenerateDataset(ctx *cli.Context) error {
	setupLogging(ctx)

	outDir := ctx.String("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	rooms := ctx.Int("rooms")
	sampleRate := ctx.Float64("sample-rate")

	cfg := scene.DefaultConfig()
	cfg.MaxOrder = ctx.Int("max-order")
	cfg.SampleRate = sampleRate

	for room := 0; room < rooms; room++ {
		max := types.XYZ(
			2+rng.Float64()*8,
			2+rng.Float64()*8,
			2+rng.Float64()*3,
		)

		b := scene.NewBuilder()
		if _, err := b.AddBox(types.XYZ(0, 0, 0), max, scene.Material{Reflectivity: 0.5 + rng.Float64()*0.45}); err != nil {
			return err
		}
		if err := b.AddSource(scene.Source{Position: randomInterior(rng, max), Amplitude: 1}); err != nil {
			return err
		}
		if err := b.AddReceiver(scene.Receiver{Position: randomInterior(rng, max)}); err != nil {
			return err
		}

		sc, err := b.Build(cfg)
		if err != nil {
			return err
		}

		s, err := sim.New(sc, sim.Options{Workers: ctx.Int("workers")})
		if err != nil {
			return err
		}
		results, err := s.Run(context.Background())
		if err != nil {
			return err
		}

		for _, res := range results {
			if res.Err != nil {
				logger.Warningf("room %d pair (%d, %d): %v", room, res.Source, res.Receiver, res.Err)
				continue
			}

			samples, err := res.Response.Rasterize(sampleRate)
			if err != nil {
				return err
			}

			name := filepath.Join(outDir, fmt.Sprintf("room%03d_s%d_r%d.csv", room, res.Source, res.Receiver))
			if err := writeSamples(name, sampleRate, samples); err != nil {
				return err
			}
		}
	}

	logger.Noticef("wrote dataset for %d rooms to %s", rooms, outDir)
	return nil
}

func randomInterior(rng *rand.Rand, max types.Vec3) types.Vec3 {
	return types.XYZ(
		wallMargin+rng.Float64()*(max.X-2*wallMargin),
		wallMargin+rng.Float64()*(max.Y-2*wallMargin),
		wallMargin+rng.Float64()*(max.Z-2*wallMargin),
	)
}

func writeSamples(name string, sampleRate float64, samples []float64) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "amplitude"}); err != nil {
		return err
	}
	for idx, amp := range samples {
		record := []string{
			strconv.FormatFloat(float64(idx)/sampleRate, 'g', -1, 64),
			strconv.FormatFloat(amp, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
