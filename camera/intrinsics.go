package camera

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/venomrt/venom/types"
)

// Projection parameters for a pinhole camera. K maps camera-space directions
// to homogeneous pixel coordinates and KInv maps pixel coordinates back to
// directions. Both are always computed together from Width, Height and VFov.
//
// Camera space uses +z forward, +x right (increasing column) and +y down
// (increasing row).
type Intrinsics struct {
	Width  uint32
	Height uint32

	// Field of view in degrees.
	VFov float32
	HFov float32

	K    types.Mat3
	KInv types.Mat3
}

// Calculate the intrinsic matrix and its inverse for a frame of the given size.
// The horizontal fov is derived from the vertical fov and the aspect ratio so
// that both focal lengths coincide (square pixels) and the principal point
// sits at the image centre.
func ComputeIntrinsics(vfovDeg float32, width, height uint32) (Intrinsics, error) {
	if width == 0 || height == 0 {
		return Intrinsics{}, ErrInvalidDimensions
	}
	if math32.IsNaN(vfovDeg) || math32.IsInf(vfovDeg, 0) || vfovDeg <= 0 || vfovDeg >= 180 {
		return Intrinsics{}, ErrInvalidFOV
	}

	halfW := float32(width) * 0.5
	halfH := float32(height) * 0.5
	halfVFov := vfovDeg * math32.Pi / 360

	d := halfH / math32.Tan(halfVFov)
	hfov := 2 * math32.Atan(halfW/d)

	// tan(hfov/2) = halfW/d so fx == d; computing it through tan(atan(x))
	// can overflow past pi/2 in float32 and flip its sign for very wide frames.
	fx := d
	fy := d
	cx := (float32(width) - 1) * 0.5
	cy := (float32(height) - 1) * 0.5

	k := types.Mat3FromRows(
		types.Vec3{fx, 0, cx},
		types.Vec3{0, fy, cy},
		types.Vec3{0, 0, 1},
	)
	det := k.Det()
	if !k.IsFinite() || det == 0 || math32.IsNaN(det) || math32.IsInf(det, 0) {
		return Intrinsics{}, ErrSingularIntrinsics
	}
	kInv := k.Inv()
	if !kInv.IsFinite() || kInv == (types.Mat3{}) {
		return Intrinsics{}, ErrSingularIntrinsics
	}

	return Intrinsics{
		Width:  width,
		Height: height,
		VFov:   vfovDeg,
		HFov:   hfov * 180 / math32.Pi,
		K:      k,
		KInv:   kInv,
	}, nil
}

func (in Intrinsics) String() string {
	return fmt.Sprintf(
		"%dx%d vfov: %3.3f hfov: %3.3f\nK:\n%s\nK^-1:\n%s",
		in.Width, in.Height, in.VFov, in.HFov, in.K, in.KInv,
	)
}

// Generate one camera-space ray per pixel. Rays are stored row-major with row 0
// at the top of the image so the ray for pixel (x, y) lives at index
// y*width + x. All rays start at the origin and have unit-length directions.
func GenerateRays(kInv types.Mat3, width, height uint32) []types.Ray {
	rays := make([]types.Ray, int(width)*int(height))

	// Columns of K^-1; K^-1 * (x, y, 1) = x*c0 + y*c1 + c2
	c0 := types.Vec3{kInv.At(0, 0), kInv.At(1, 0), kInv.At(2, 0)}
	c1 := types.Vec3{kInv.At(0, 1), kInv.At(1, 1), kInv.At(2, 1)}
	c2 := types.Vec3{kInv.At(0, 2), kInv.At(1, 2), kInv.At(2, 2)}

	index := 0
	for y := uint32(0); y < height; y++ {
		rowBase := c1.Mul(float32(y)).Add(c2)
		for x := uint32(0); x < width; x++ {
			rays[index].Dir = c0.Mul(float32(x)).Add(rowBase).Normalize()
			index++
		}
	}
	return rays
}
