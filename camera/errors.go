package camera

import "errors"

var (
	ErrInvalidDimensions  = errors.New("camera: frame width and height must be greater than zero")
	ErrInvalidFOV         = errors.New("camera: vertical fov must be a finite value in the (0, 180) degree range")
	ErrSingularIntrinsics = errors.New("camera: intrinsic matrix is not invertible")
	ErrInvalidPose        = errors.New("camera: pose must be a finite affine transform with an invertible linear part")
	ErrInvalidAxis        = errors.New("camera: rotation axis must be a finite non-zero vector")
	ErrInvalidAngle       = errors.New("camera: rotation angle must be finite")
	ErrInvalidTranslation = errors.New("camera: translation must be finite")
	ErrDegenerateLookAt   = errors.New("camera: eye and target must differ and the up vector must not be parallel to the view direction")
)
