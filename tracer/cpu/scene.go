package cpu

import (
	"github.com/venomrt/venom/tracer"
	"github.com/venomrt/venom/types"
)

// A committed set of primitives. Scenes are never modified after Commit and
// can be shared by any number of goroutines.
type Scene struct {
	triangles []triangle
	spheres   []sphere

	// Set when a spatial index was attached to the builder.
	cullBox *types.BBox
}

// Number of primitives in the scene.
func (sc *Scene) NumPrimitives() int {
	return len(sc.triangles) + len(sc.spheres)
}

// Find the closest primitive hit by the ray.
func (sc *Scene) Intersect(ray types.Ray, hit *tracer.Hit) (bool, error) {
	if !ray.Origin.IsFinite() || !ray.Dir.IsFinite() || ray.Dir == (types.Vec3{}) {
		return false, ErrInvalidRay
	}

	var (
		found    bool
		closestT float32
		normal   types.Vec3
		primID   uint32
	)

	testTriangles := true
	if sc.cullBox != nil {
		_, _, testTriangles = sc.cullBox.IntersectRay(ray)
	}

	if testTriangles {
		for idx := range sc.triangles {
			tri := &sc.triangles[idx]
			if t, ok := tri.intersect(ray); ok && (!found || t < closestT) {
				found, closestT, normal, primID = true, t, tri.normal, tri.id
			}
		}
	}

	var closestSphere *sphere
	for idx := range sc.spheres {
		s := &sc.spheres[idx]
		if t, ok := s.intersect(ray); ok && (!found || t < closestT) {
			found, closestT, primID = true, t, s.id
			closestSphere = s
		}
	}

	if !found {
		return false, nil
	}
	if closestSphere != nil && closestSphere.id == primID {
		normal = closestSphere.normalAt(ray.At(closestT))
	}

	hit.Distance = closestT
	hit.Normal = normal
	hit.PrimitiveID = primID
	return true, nil
}
