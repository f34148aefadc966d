package cpu

import "errors"

var (
	ErrEmptyScene       = errors.New("cpu: scene contains no primitives")
	ErrDegenerateSphere = errors.New("cpu: sphere radius must be a finite value greater than zero")
	ErrInvalidTriangle  = errors.New("cpu: triangle vertices must be finite")
	ErrCommitted        = errors.New("cpu: scene has already been committed")
	ErrInvalidRay       = errors.New("cpu: ray origin and direction must be finite and the direction non-zero")
)
