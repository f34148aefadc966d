package cmd

import (
	"errors"

	"github.com/urfave/cli"
	"github.com/venomrt/venom/spatial/octree"
)

// Display scene and octree statistics.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return exitError(errors.New("missing scene file argument"))
	}

	sc, err := loadScene(ctx)
	if err != nil {
		return exitError(err)
	}
	logger.Noticef("scene information:\n%s", sc.Stats())

	index, err := octree.Build(sc, ctx.Int("depth"))
	if err != nil {
		return exitError(err)
	}
	logger.Noticef("octree statistics (bounds %s)\n%s", index.Bounds(), index.Stats())

	return nil
}
