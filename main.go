package main

import (
	"os"

	"github.com/MillerLab-UCDavis/ARTRS/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "artrs"
	app.Usage = "simulate acoustic propagation with geometric ray tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "demo",
			Usage: "trace a demo room and print the arrival table",
			Description: `
Build a rectangular room with uniformly reflective walls, place a source at
the room center and a receiver one unit away, discover all specular paths up
to the requested reflection order and print the resulting arrivals.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "max-order",
					Value: 2,
					Usage: "maximum number of reflections per path",
				},
				cli.Float64Flag{
					Name:  "speed",
					Value: 343.0,
					Usage: "speed of sound in scene units per second",
				},
				cli.Float64Flag{
					Name:  "reflectivity",
					Value: 0.9,
					Usage: "wall amplitude reflection coefficient",
				},
			},
			Action: cmd.TraceDemo,
		},
		{
			Name:  "dataset",
			Usage: "generate impulse responses for randomized rooms",
			Description: `
Generate randomized rectangular rooms with one source and one receiver each,
trace every (source, receiver) pair and write the rasterized impulse
responses as CSV files.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "rooms",
					Value: 10,
					Usage: "number of rooms to generate",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "seed for the room generator",
				},
				cli.IntFlag{
					Name:  "max-order",
					Value: 3,
					Usage: "maximum number of reflections per path",
				},
				cli.Float64Flag{
					Name:  "sample-rate",
					Value: 44100,
					Usage: "impulse response sample rate",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "tracing workers (0 selects the CPU count)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "dataset",
					Usage: "output directory for the CSV files",
				},
			},
			Action: cmd.GenerateDataset,
		},
	}

	app.Run(os.Args)
}
