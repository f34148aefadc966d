package types

import "testing"

func TestBBoxContainsIsInclusive(t *testing.T) {
	b := BBox{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}

	type spec struct {
		p   Vec3
		exp bool
	}
	specs := []spec{
		{Vec3{0, 0, 0}, true},
		{Vec3{1, 1, 1}, true},
		{Vec3{-1, 0, 1}, true},
		{Vec3{1.001, 0, 0}, false},
		{Vec3{0, -1.001, 0}, false},
	}

	for idx, s := range specs {
		if got := b.Contains(s.p); got != s.exp {
			t.Fatalf("[spec %d] expected Contains(%v) to be %t; got %t", idx, s.p, s.exp, got)
		}
	}
}

func TestBBoxExtend(t *testing.T) {
	b := EmptyBBox()
	if b.IsValid() {
		t.Fatal("expected empty box to be invalid")
	}

	b = b.Extend(Vec3{1, -2, 3}).Extend(Vec3{-1, 2, 0})
	exp := BBox{Min: Vec3{-1, -2, 0}, Max: Vec3{1, 2, 3}}
	if b != exp {
		t.Fatalf("expected %v; got %v", exp, b)
	}
	if b.Volume() != 2*4*3 {
		t.Fatalf("expected volume 24; got %f", b.Volume())
	}
	if b.Center() != (Vec3{0, 0, 1.5}) {
		t.Fatalf("expected center (0, 0, 1.5); got %v", b.Center())
	}
}

func TestBBoxOverlap(t *testing.T) {
	a := BBox{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	touching := BBox{Min: Vec3{1, 0, 0}, Max: Vec3{2, 1, 1}}
	inside := BBox{Min: Vec3{0.5, 0.5, 0.5}, Max: Vec3{2, 2, 2}}

	if a.Overlaps(touching) {
		t.Fatal("expected face-sharing boxes not to overlap")
	}
	if !a.Intersects(touching) {
		t.Fatal("expected face-sharing boxes to intersect")
	}
	if !a.Overlaps(inside) {
		t.Fatal("expected boxes to overlap")
	}
}

func TestBBoxIntersectRay(t *testing.T) {
	b := BBox{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}

	tMin, tMax, hit := b.IntersectRay(Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{0, 0, -1}})
	if !hit || tMin != 9 || tMax != 11 {
		t.Fatalf("expected hit with t in [9, 11]; got %t [%f, %f]", hit, tMin, tMax)
	}

	if _, _, hit = b.IntersectRay(Ray{Origin: Vec3{0, 0, 10}, Dir: Vec3{0, 0, 1}}); hit {
		t.Fatal("expected ray pointing away from the box to miss")
	}

	if _, _, hit = b.IntersectRay(Ray{Origin: Vec3{5, 0, 10}, Dir: Vec3{0, 0, -1}}); hit {
		t.Fatal("expected parallel ray outside the slab to miss")
	}

	tMin, _, hit = b.IntersectRay(Ray{Origin: Vec3{0, 0, 0}, Dir: Vec3{1, 0, 0}})
	if !hit || tMin != 0 {
		t.Fatalf("expected ray starting inside the box to hit at t=0; got %t %f", hit, tMin)
	}
}
