package cpu

import (
	"github.com/chewxy/math32"
	"github.com/venomrt/venom/types"
)

// Intersections closer than this distance are ignored.
const intersectEpsilon float32 = 1e-5

// Determinants below this threshold indicate a ray parallel to the triangle plane.
const parallelEpsilon float32 = 1e-12

type triangle struct {
	id uint32

	v0     types.Vec3
	e1, e2 types.Vec3
	normal types.Vec3
}

func newTriangle(id uint32, v0, v1, v2 types.Vec3) triangle {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	return triangle{
		id:     id,
		v0:     v0,
		e1:     e1,
		e2:     e2,
		normal: e1.Cross(e2).Normalize(),
	}
}

// Moller-Trumbore ray/triangle test.
func (tri *triangle) intersect(ray types.Ray) (float32, bool) {
	pvec := ray.Dir.Cross(tri.e2)
	det := tri.e1.Dot(pvec)
	if math32.Abs(det) < parallelEpsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(tri.v0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(tri.e1)
	v := ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := tri.e2.Dot(qvec) * invDet
	if t <= intersectEpsilon {
		return 0, false
	}
	return t, true
}

type sphere struct {
	id uint32

	center types.Vec3
	radius float32
}

// Solve |o + t*d - c|^2 = r^2 for the nearest t in front of the ray origin.
// The direction does not need to be normalized.
func (s *sphere) intersect(ray types.Ray) (float32, bool) {
	oc := ray.Origin.Sub(s.center)
	a := ray.Dir.Dot(ray.Dir)
	b := oc.Dot(ray.Dir)
	c := oc.Dot(oc) - s.radius*s.radius

	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)

	t := (-b - sq) / a
	if t <= intersectEpsilon {
		t = (-b + sq) / a
		if t <= intersectEpsilon {
			return 0, false
		}
	}
	return t, true
}

func (s *sphere) normalAt(p types.Vec3) types.Vec3 {
	return p.Sub(s.center).Mul(1 / s.radius)
}
