package cmd

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/urfave/cli"
	"github.com/venomrt/venom/types"
)

// Get the frame dimensions from the width and height flags.
func frameSize(ctx *cli.Context) (uint32, uint32, error) {
	width, err := parseDimension("width", ctx.Int("width"))
	if err != nil {
		return 0, 0, err
	}
	height, err := parseDimension("height", ctx.Int("height"))
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func parseDimension(name string, value int) (uint32, error) {
	if value <= 0 || int64(value) > math.MaxUint32 {
		return 0, fmt.Errorf("frame %s must be in the range [1, %d]; got %d", name, uint32(math.MaxUint32), value)
	}
	return uint32(value), nil
}

// Parse a "x,y,z" flag value.
func parseVec3(value string) (types.Vec3, error) {
	var out types.Vec3
	tokens := strings.Split(value, ",")
	if len(tokens) != 3 {
		return out, fmt.Errorf("expected 3 comma-separated components; got %q", value)
	}

	for idx, token := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return out, fmt.Errorf("could not parse component %d of %q: %w", idx, value, err)
		}
		out[idx] = float32(v)
	}
	if !out.IsFinite() {
		return out, fmt.Errorf("components of %q must be finite", value)
	}
	return out, nil
}

// Parse a "r,g,b" flag value with 8-bit components.
func parseRGB(value string) (color.RGBA, error) {
	tokens := strings.Split(value, ",")
	if len(tokens) != 3 {
		return color.RGBA{}, fmt.Errorf("expected 3 comma-separated components; got %q", value)
	}

	var rgb [3]uint8
	for idx, token := range tokens {
		v, err := strconv.ParseUint(strings.TrimSpace(token), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("could not parse component %d of %q: %w", idx, value, err)
		}
		rgb[idx] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}
