package cmd

import (
	"github.com/urfave/cli"
	"github.com/venomrt/venom/log"
)

var logger = log.New("venom")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// Log err and convert it into an error that makes the cli exit with a
// non-zero status.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	logger.Error(err.Error())
	return cli.NewExitError("", 1)
}
