package cmd

import (
	"fmt"
	"os"

	"github.com/MillerLab-UCDavis/ARTRS/response"
	"github.com/MillerLab-UCDavis/ARTRS/scene"
	"github.com/MillerLab-UCDavis/ARTRS/tracer"
	"github.com/MillerLab-UCDavis/ARTRS/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// TraceDemo traces a rectangular demo room with a single source and receiver
// and prints the arrival table.
func TraceDemo(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg := scene.DefaultConfig()
	cfg.MaxOrder = ctx.Int("max-order")
	cfg.SpeedOfSound = ctx.Float64("speed")

	roomMin := types.XYZ(0, 0, 0)
	roomMax := types.XYZ(4, 5, 3)
	center := roomMin.Add(roomMax).Mul(0.5)

	b := scene.NewBuilder()
	if _, err := b.AddBox(roomMin, roomMax, scene.Material{Reflectivity: ctx.Float64("reflectivity")}); err != nil {
		return err
	}

	sc, err := b.Build(cfg)
	if err != nil {
		return err
	}

	src := scene.Source{Position: center, Amplitude: 1}
	rcv := scene.Receiver{Position: center.Add(types.XYZ(1, 0, 0))}

	paths, err := tracer.New(sc).Trace(src, rcv)
	if err != nil {
		return err
	}

	ir, err := response.NewAccumulator(sc).Accumulate(src, paths)
	if err != nil {
		return err
	}

	logger.Noticef("found %d paths up to order %d", len(paths), cfg.MaxOrder)
	displayArrivals(ir)
	return nil
}

func displayArrivals(ir *response.ImpulseResponse) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"Order", "Surfaces", "Distance", "Arrival", "Amplitude"})
	for _, c := range ir.Contributions {
		table.Append([]string{
			fmt.Sprintf("%d", len(c.Order)),
			fmt.Sprintf("%v", c.Order),
			fmt.Sprintf("%.3f m", c.Distance),
			fmt.Sprintf("%.3f ms", c.Time*1e3),
			fmt.Sprintf("%.6f", c.Amplitude),
		})
	}
	table.SetFooter([]string{"", "", "", "total energy", fmt.Sprintf("%.6f", ir.TotalEnergy())})
	table.Render()
}
