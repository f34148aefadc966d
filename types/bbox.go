package types

import (
	"fmt"
	"math"
)

// An axis-aligned bounding box.
type BBox struct {
	Min Vec3
	Max Vec3
}

// An inverted box that any call to Extend will replace.
func EmptyBBox() BBox {
	return BBox{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Returns true if Min <= Max along every axis.
func (b BBox) IsValid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Grow the box so it includes p.
func (b BBox) Extend(p Vec3) BBox {
	return BBox{Min: MinVec3(b.Min, p), Max: MaxVec3(b.Max, p)}
}

// Box center.
func (b BBox) Center() Vec3 {
	return Vec3{
		(b.Min[0] + b.Max[0]) * 0.5,
		(b.Min[1] + b.Max[1]) * 0.5,
		(b.Min[2] + b.Max[2]) * 0.5,
	}
}

// Box extents along each axis.
func (b BBox) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Box volume.
func (b BBox) Volume() float32 {
	s := b.Size()
	return s[0] * s[1] * s[2]
}

// Point containment test; inclusive on every face.
func (b BBox) Contains(p Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Returns true if the two boxes share any point (touching faces included).
func (b BBox) Intersects(b2 BBox) bool {
	return b.Min[0] <= b2.Max[0] && b.Max[0] >= b2.Min[0] &&
		b.Min[1] <= b2.Max[1] && b.Max[1] >= b2.Min[1] &&
		b.Min[2] <= b2.Max[2] && b.Max[2] >= b2.Min[2]
}

// Returns true if the interiors of the two boxes overlap. Boxes that only
// share a face, edge or corner do not overlap.
func (b BBox) Overlaps(b2 BBox) bool {
	return b.Min[0] < b2.Max[0] && b.Max[0] > b2.Min[0] &&
		b.Min[1] < b2.Max[1] && b.Max[1] > b2.Min[1] &&
		b.Min[2] < b2.Max[2] && b.Max[2] > b2.Min[2]
}

// Slab test. Returns the parametric entry/exit distances along the ray and
// whether the ray hits the box for some t >= 0.
func (b BBox) IntersectRay(r Ray) (tMin, tMax float32, hit bool) {
	tMin, tMax = 0, math.MaxFloat32
	for axis := 0; axis < 3; axis++ {
		if r.Dir[axis] == 0 {
			if r.Origin[axis] < b.Min[axis] || r.Origin[axis] > b.Max[axis] {
				return 0, 0, false
			}
			continue
		}

		invD := 1 / r.Dir[axis]
		t0 := (b.Min[axis] - r.Origin[axis]) * invD
		t1 := (b.Max[axis] - r.Origin[axis]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

func (b BBox) String() string {
	return fmt.Sprintf("[%v - %v]", b.Min, b.Max)
}
