package cmd

import (
	"context"
	"image/png"
	"os"
	"time"

	"github.com/urfave/cli"
	"github.com/venomrt/venom/asset/scene"
	"github.com/venomrt/venom/asset/scene/reader"
	"github.com/venomrt/venom/camera"
	"github.com/venomrt/venom/renderer"
	"github.com/venomrt/venom/spatial/octree"
	"github.com/venomrt/venom/tracer/cpu"
	"github.com/venomrt/venom/types"
)

// Render a still frame and write it out as a png file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return exitError(err)
	}

	cam, err := setupCamera(ctx)
	if err != nil {
		return exitError(err)
	}

	tracerScene, err := buildScene(ctx, sc)
	if err != nil {
		return exitError(err)
	}

	opts, err := renderOptions(ctx)
	if err != nil {
		return exitError(err)
	}

	r, err := renderer.New(tracerScene, cam, opts)
	if err != nil {
		return exitError(err)
	}
	defer r.Close()

	logger.Notice("rendering frame")
	start := time.Now()
	frame, err := r.Render()
	if err != nil {
		return exitError(err)
	}
	logger.Noticef("rendered frame in %d ms", time.Since(start).Nanoseconds()/1000000)
	logger.Noticef("frame statistics\n%s", r.Stats())

	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return exitError(err)
	}
	defer f.Close()

	start = time.Now()
	if err = png.Encode(f, frame); err != nil {
		return exitError(err)
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)

	return nil
}

// Load the scene files passed as arguments or fall back to the demo scene.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.NArg() == 0 {
		logger.Notice("no scene files specified; using demo scene")
		return demoScene(), nil
	}

	sc, err := reader.ReadScenes(context.Background(), ctx.Args()...)
	if err != nil {
		return nil, err
	}
	logger.Infof("scene information:\n%s", sc.Stats())
	return sc, nil
}

// A 3x3 quad on the z=0 plane. The demo renderer adds a unit sphere at the
// origin on top of it.
func demoScene() *scene.Scene {
	n := types.Vec3{0, 0, -1}
	v := func(x, y float32) scene.Vertex {
		return scene.Vertex{Position: types.Vec3{x, y, 0}, Normal: n}
	}
	quad := &scene.Mesh{
		Name: "quad",
		Vertices: []scene.Vertex{
			v(-1.5, -1.5), v(1.5, -1.5), v(1.5, 1.5),
			v(-1.5, -1.5), v(1.5, 1.5), v(-1.5, 1.5),
		},
	}
	return &scene.Scene{
		Models: []*scene.Model{
			{Name: "demo", Meshes: []*scene.Mesh{quad}},
		},
	}
}

// Build the intersectable scene, optionally backed by an octree whose bounds
// are used for ray culling.
func buildScene(ctx *cli.Context, sc *scene.Scene) (*cpu.Scene, error) {
	builder := cpu.NewBuilder()
	if err := builder.AddSceneGraph(sc); err != nil {
		return nil, err
	}
	if ctx.NArg() == 0 {
		if _, err := builder.AddSphere(types.Vec3{}, 1); err != nil {
			return nil, err
		}
	}

	if ctx.Bool("cull") {
		index, err := octree.Build(sc, ctx.Int("depth"))
		if err != nil {
			return nil, err
		}
		logger.Infof("octree statistics\n%s", index.Stats())
		builder.WithSpatialIndex(index)
	}

	return builder.Commit()
}

func setupCamera(ctx *cli.Context) (*camera.Camera, error) {
	eye, err := parseVec3(ctx.String("eye"))
	if err != nil {
		return nil, err
	}
	look, err := parseVec3(ctx.String("look"))
	if err != nil {
		return nil, err
	}
	up, err := parseVec3(ctx.String("up"))
	if err != nil {
		return nil, err
	}

	pose, err := camera.LookAt(eye, look, up)
	if err != nil {
		return nil, err
	}

	width, height, err := frameSize(ctx)
	if err != nil {
		return nil, err
	}

	cam, err := camera.New(pose, float32(ctx.Float64("fov")), width, height)
	if err != nil {
		return nil, err
	}
	logger.Debugf("camera intrinsics: %s", cam.Intrinsics())
	return cam, nil
}

func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	background, err := parseRGB(ctx.String("background"))
	if err != nil {
		return renderer.Options{}, err
	}
	scheduler, err := renderer.ParseSchedulerType(ctx.String("scheduler"))
	if err != nil {
		return renderer.Options{}, err
	}

	return renderer.Options{
		NumChunks:  ctx.Int("chunks"),
		NumWorkers: ctx.Int("workers"),
		Background: background,
		Scheduler:  scheduler,
	}, nil
}
