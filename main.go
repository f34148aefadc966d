package main

import (
	"os"

	"github.com/urfave/cli"
	"github.com/venomrt/venom/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	frameFlags := []cli.Flag{
		cli.IntFlag{
			Name:   "width",
			Value:  512,
			Usage:  "frame width",
			EnvVar: "VENOM_WIDTH",
		},
		cli.IntFlag{
			Name:   "height",
			Value:  512,
			Usage:  "frame height",
			EnvVar: "VENOM_HEIGHT",
		},
		cli.Float64Flag{
			Name:   "fov",
			Value:  45,
			Usage:  "vertical field of view in degrees",
			EnvVar: "VENOM_FOV",
		},
	}

	app := cli.NewApp()
	app.Name = "venom"
	app.Usage = "render scenes with a parallel ray caster"
	app.Version = "0.0.1"
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
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Load one or more wavefront obj files, cast one ray per pixel and shade each
pixel with the normal of the closest surface. The frame is written as a png.

When no scene files are specified, a demo scene consisting of a quad and a
unit sphere at the origin is rendered instead.`,
			ArgsUsage: "[scene_file1.obj scene_file2.obj ...]",
			Flags: append(frameFlags,
				cli.IntFlag{
					Name:   "chunks",
					Usage:  "number of column chunks per frame (0 = number of CPUs)",
					EnvVar: "VENOM_CHUNKS",
				},
				cli.IntFlag{
					Name:   "workers",
					Usage:  "number of render workers (0 = number of chunks)",
					EnvVar: "VENOM_WORKERS",
				},
				cli.StringFlag{
					Name:   "scheduler",
					Value:  "even",
					Usage:  "column scheduler (even, adaptive)",
					EnvVar: "VENOM_SCHEDULER",
				},
				cli.StringFlag{
					Name:   "eye",
					Value:  "0,0,10",
					Usage:  "camera position",
					EnvVar: "VENOM_EYE",
				},
				cli.StringFlag{
					Name:   "look",
					Value:  "0,0,0",
					Usage:  "point the camera looks at",
					EnvVar: "VENOM_LOOK",
				},
				cli.StringFlag{
					Name:   "up",
					Value:  "0,1,0",
					Usage:  "camera up vector",
					EnvVar: "VENOM_UP",
				},
				cli.IntFlag{
					Name:   "depth",
					Value:  8,
					Usage:  "max octree depth",
					EnvVar: "VENOM_DEPTH",
				},
				cli.BoolFlag{
					Name:   "cull",
					Usage:  "build an octree and skip triangle tests for rays that miss its bounds",
					EnvVar: "VENOM_CULL",
				},
				cli.StringFlag{
					Name:   "background",
					Value:  "0,0,0",
					Usage:  "r,g,b colour for pixels that miss the scene",
					EnvVar: "VENOM_BACKGROUND",
				},
				cli.StringFlag{
					Name:   "out, o",
					Value:  "frame.png",
					Usage:  "image filename for the rendered frame",
					EnvVar: "VENOM_OUT",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene and octree statistics",
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:   "depth",
					Value:  8,
					Usage:  "max octree depth",
					EnvVar: "VENOM_DEPTH",
				},
			},
			Action: cmd.ShowSceneInfo,
		},
		{
			Name:   "intrinsics",
			Usage:  "display the camera intrinsic matrix for a frame size and fov",
			Flags:  frameFlags,
			Action: cmd.ShowIntrinsics,
		},
	}

	app.Run(os.Args)
}
