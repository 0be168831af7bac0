package cmd

import (
	"github.com/MillerLab-UCDavis/ARTRS/log"
	"github.com/urfave/cli"
)

var logger = log.New("artrs")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
