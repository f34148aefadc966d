package tracer

import (
	"fmt"

	"github.com/venomrt/venom/types"
)

// Surface information for the closest intersection along a ray.
type Hit struct {
	// Distance along the ray in units of the ray direction length.
	Distance float32

	// Unit-length geometric normal at the hit point.
	Normal types.Vec3

	// Id of the intersected primitive, assigned in insertion order by the
	// backend that built the scene.
	PrimitiveID uint32
}

func (h Hit) String() string {
	return fmt.Sprintf("hit prim %d at t=%3.3f normal %v", h.PrimitiveID, h.Distance, h.Normal)
}

// The Scene interface is implemented by committed intersection backends.
// Implementations must be safe for concurrent use by multiple render workers.
type Scene interface {
	// Find the closest intersection along the ray. If the ray hits the scene
	// the hit argument is populated and true is returned.
	Intersect(ray types.Ray, hit *Hit) (bool, error)
}
