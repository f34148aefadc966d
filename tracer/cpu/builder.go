package cpu

import (
	"math"

	"github.com/venomrt/venom/asset/scene"
	"github.com/venomrt/venom/log"
	"github.com/venomrt/venom/spatial/octree"
	"github.com/venomrt/venom/types"
)

// Builder collects primitives and commits them into an immutable Scene.
// Primitive ids are assigned sequentially in insertion order.
type Builder struct {
	logger log.Logger

	triangles []triangle
	spheres   []sphere
	nextID    uint32

	index     *octree.Octree
	committed bool
}

// Create a new scene builder.
func NewBuilder() *Builder {
	return &Builder{
		logger:    log.New("cpu builder"),
		triangles: make([]triangle, 0),
		spheres:   make([]sphere, 0),
	}
}

// Add every mesh of a scene graph.
func (b *Builder) AddSceneGraph(sc *scene.Scene) error {
	for _, model := range sc.Models {
		for _, mesh := range model.Meshes {
			if err := b.AddMesh(mesh); err != nil {
				return err
			}
		}
	}
	return nil
}

// Add the triangles of a mesh. Trailing vertices that do not form a full
// triangle are ignored.
func (b *Builder) AddMesh(mesh *scene.Mesh) error {
	for triIndex := 0; triIndex < mesh.NumTriangles(); triIndex++ {
		tri := mesh.Triangle(triIndex)
		if _, err := b.AddTriangle(tri[0].Position, tri[1].Position, tri[2].Position); err != nil {
			return err
		}
	}
	return nil
}

// Add a triangle and return its primitive id.
func (b *Builder) AddTriangle(v0, v1, v2 types.Vec3) (uint32, error) {
	if b.committed {
		return 0, ErrCommitted
	}
	if !v0.IsFinite() || !v1.IsFinite() || !v2.IsFinite() {
		return 0, ErrInvalidTriangle
	}

	id := b.nextID
	b.triangles = append(b.triangles, newTriangle(id, v0, v1, v2))
	b.nextID++
	return id, nil
}

// Add a sphere and return its primitive id.
func (b *Builder) AddSphere(center types.Vec3, radius float32) (uint32, error) {
	if b.committed {
		return 0, ErrCommitted
	}
	if !center.IsFinite() || !(radius > 0) || radius > math.MaxFloat32 {
		return 0, ErrDegenerateSphere
	}

	id := b.nextID
	b.spheres = append(b.spheres, sphere{id: id, center: center, radius: radius})
	b.nextID++
	return id, nil
}

// Use the root bounds of a spatial index to skip triangle tests for rays that
// miss the indexed geometry.
func (b *Builder) WithSpatialIndex(index *octree.Octree) *Builder {
	b.index = index
	return b
}

// Freeze the collected primitives into a Scene. The builder can not be used
// after a successful commit.
func (b *Builder) Commit() (*Scene, error) {
	if b.committed {
		return nil, ErrCommitted
	}
	if len(b.triangles) == 0 && len(b.spheres) == 0 {
		return nil, ErrEmptyScene
	}
	b.committed = true

	sc := &Scene{
		triangles: b.triangles,
		spheres:   b.spheres,
	}

	if b.index != nil && len(b.triangles) != 0 {
		cullBox := b.index.Bounds()
		for idx := range b.triangles {
			tri := &b.triangles[idx]
			for _, v := range [3]types.Vec3{tri.v0, tri.v0.Add(tri.e1), tri.v0.Add(tri.e2)} {
				if !cullBox.Contains(v) {
					cullBox = cullBox.Extend(v)
				}
			}
		}
		if cullBox != b.index.Bounds() {
			b.logger.Warningf("spatial index bounds %v do not cover all triangles; culling with %v", b.index.Bounds(), cullBox)
		}
		sc.cullBox = &cullBox
	}

	b.logger.Debugf("committed scene with %d triangles and %d spheres (culling: %t)", len(sc.triangles), len(sc.spheres), sc.cullBox != nil)
	return sc, nil
}
