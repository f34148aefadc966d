package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/venomrt/venom/types"
)

// Linear parts with a determinant below this threshold are rejected.
const minPoseDet float32 = 1e-6

// An immutable copy of the camera state. Renders work off a snapshot so that
// camera updates never interfere with an in-flight frame.
type Snapshot struct {
	Pose       types.Mat4
	Intrinsics Intrinsics
}

// Camera-space rays; see GenerateRays.
func (s Snapshot) Rays() []types.Ray {
	return GenerateRays(s.Intrinsics.KInv, s.Intrinsics.Width, s.Intrinsics.Height)
}

// World-space rays. Every ray starts at the pose translation and its
// direction is rotated by the linear part of the pose.
func (s Snapshot) TransformedRays() []types.Ray {
	rays := s.Rays()
	origin := s.Pose.Translation()
	linear := s.Pose.Mat3()
	for idx := range rays {
		rays[idx].Origin = origin
		rays[idx].Dir = linear.Mul3x1(rays[idx].Dir).Normalize()
	}
	return rays
}

// A pinhole camera with a world pose. All methods are safe for concurrent use.
// Mutators validate their input before touching any state so a failed call
// leaves the camera unchanged.
type Camera struct {
	mu sync.RWMutex

	pose       types.Mat4
	intrinsics Intrinsics
}

// Create a camera with the given world pose, vertical fov (in degrees) and
// frame dimensions.
func New(pose types.Mat4, vfovDeg float32, width, height uint32) (*Camera, error) {
	if err := validatePose(pose); err != nil {
		return nil, err
	}
	intrinsics, err := ComputeIntrinsics(vfovDeg, width, height)
	if err != nil {
		return nil, err
	}

	return &Camera{
		pose:       pose,
		intrinsics: intrinsics,
	}, nil
}

// Change the frame dimensions.
func (c *Camera) Resize(width, height uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	intrinsics, err := ComputeIntrinsics(c.intrinsics.VFov, width, height)
	if err != nil {
		return err
	}
	c.intrinsics = intrinsics
	return nil
}

// Change the vertical fov (in degrees).
func (c *Camera) SetFOV(vfovDeg float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	intrinsics, err := ComputeIntrinsics(vfovDeg, c.intrinsics.Width, c.intrinsics.Height)
	if err != nil {
		return err
	}
	c.intrinsics = intrinsics
	return nil
}

// Replace the world pose.
func (c *Camera) SetPose(pose types.Mat4) error {
	if err := validatePose(pose); err != nil {
		return err
	}

	c.mu.Lock()
	c.pose = pose
	c.mu.Unlock()
	return nil
}

// Replace the rotation part of the pose with a rotation of angle radians
// around axis. The translation is preserved.
func (c *Camera) SetRotation(axis types.Vec3, angle float32) error {
	if !axis.IsFinite() || axis.Len() == 0 {
		return ErrInvalidAxis
	}
	if math32.IsNaN(angle) || math32.IsInf(angle, 0) {
		return ErrInvalidAngle
	}
	rotation := types.AxisAngle3(axis, angle)

	c.mu.Lock()
	defer c.mu.Unlock()

	pose := c.pose.SetLinear(rotation)
	if err := validatePose(pose); err != nil {
		return err
	}
	c.pose = pose
	return nil
}

// Replace the translation part of the pose.
func (c *Camera) SetTranslation(v types.Vec3) error {
	if !v.IsFinite() {
		return ErrInvalidTranslation
	}

	c.mu.Lock()
	c.pose = c.pose.SetTranslation(v)
	c.mu.Unlock()
	return nil
}

// Get a consistent copy of the camera state.
func (c *Camera) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Pose:       c.pose,
		Intrinsics: c.intrinsics,
	}
}

// Current world pose.
func (c *Camera) Pose() types.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pose
}

// Current projection parameters.
func (c *Camera) Intrinsics() Intrinsics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.intrinsics
}

// Camera-space rays for the current state.
func (c *Camera) Rays() []types.Ray {
	return c.Snapshot().Rays()
}

// World-space rays for the current state.
func (c *Camera) TransformedRays() []types.Ray {
	return c.Snapshot().TransformedRays()
}

// Build a camera pose located at eye and facing target. The pose columns are
// the camera right, down and forward axes followed by the eye position, which
// matches the +x right, +y down, +z forward camera-space convention.
func LookAt(eye, target, up types.Vec3) (types.Mat4, error) {
	if !eye.IsFinite() || !target.IsFinite() || !up.IsFinite() {
		return types.Mat4{}, ErrDegenerateLookAt
	}

	forward := target.Sub(eye).Normalize()
	if forward.Len() == 0 {
		return types.Mat4{}, ErrDegenerateLookAt
	}
	right := forward.Cross(up).Normalize()
	if right.Len() == 0 {
		return types.Mat4{}, ErrDegenerateLookAt
	}
	down := forward.Cross(right)

	return types.Transform4(types.Mat3FromCols(right, down, forward), eye), nil
}

func validatePose(pose types.Mat4) error {
	if !pose.IsFinite() || !pose.IsAffine() {
		return ErrInvalidPose
	}
	if det := pose.Mat3().Det(); math32.Abs(det) < minPoseDet {
		return ErrInvalidPose
	}
	return nil
}
