package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"github.com/venomrt/venom/camera"
	"github.com/venomrt/venom/types"
)

// Print the intrinsic matrix and its inverse for a frame size and fov.
func ShowIntrinsics(ctx *cli.Context) error {
	setupLogging(ctx)

	width, height, err := frameSize(ctx)
	if err != nil {
		return exitError(err)
	}

	in, err := camera.ComputeIntrinsics(float32(ctx.Float64("fov")), width, height)
	if err != nil {
		return exitError(err)
	}

	logger.Noticef(
		"%dx%d vfov: %3.3f hfov: %3.3f\nK\n%sK^-1\n%s",
		in.Width, in.Height, in.VFov, in.HFov,
		matrixTable(in.K), matrixTable(in.KInv),
	)
	return nil
}

func matrixTable(m types.Mat3) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for row := 0; row < 3; row++ {
		table.Append([]string{
			fmt.Sprintf("%.6f", m.At(row, 0)),
			fmt.Sprintf("%.6f", m.At(row, 1)),
			fmt.Sprintf("%.6f", m.At(row, 2)),
		})
	}
	table.Render()
	return buf.String()
}
