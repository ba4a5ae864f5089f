package physics

import "github.com/go-gl/mathgl/mgl32"

// collide computes the manifold between a and b. The normal points from b
// toward a.
func collide(a, b placement) (Manifold, bool) {
	ka, kb := a.collider.Shape.Kind, b.collider.Shape.Kind
	switch {
	case ka == ShapeBox && kb == ShapeBox:
		return boxBox(a, b)
	case ka != ShapeBox && kb != ShapeBox:
		return roundRound(a, b)
	case kb == ShapeBox:
		return roundBox(a, b)
	default:
		m, ok := roundBox(b, a)
		m.Normal = m.Normal.Mul(-1)
		return m, ok
	}
}

// roundRound handles sphere and capsule pairs via closest points between
// their core segments.
func roundRound(a, b placement) (Manifold, bool) {
	a0, a1 := a.segment()
	b0, b1 := b.segment()
	pa, pb := closestSegmentPoints(a0, a1, b0, b1)

	ra, rb := a.collider.Shape.Radius, b.collider.Shape.Radius
	d := pa.Sub(pb)
	dist := d.Len()
	if dist >= ra+rb {
		return Manifold{}, false
	}

	normal := mgl32.Vec3{0, 1, 0}
	if dist > 1e-6 {
		normal = d.Mul(1 / dist)
	}
	return Manifold{
		Normal: normal,
		Points: []ContactPoint{{Point: pb.Add(normal.Mul(rb)), Depth: ra + rb - dist}},
	}, true
}

// roundBox handles a sphere or capsule a against box b.
func roundBox(a, b placement) (Manifold, bool) {
	box := b.obb()
	s0, s1 := a.segment()
	r := a.collider.Shape.Radius

	p := closestPointOnSegment(s0, s1, box.Center)
	var q mgl32.Vec3
	for i := 0; i < 4; i++ {
		q = ClosestPointOnOBB(box, p)
		p = closestPointOnSegment(s0, s1, q)
	}
	q = ClosestPointOnOBB(box, p)

	d := p.Sub(q)
	dist := d.Len()
	if dist >= r {
		return Manifold{}, false
	}

	if dist > 1e-6 {
		normal := d.Mul(1 / dist)
		return Manifold{
			Normal: normal,
			Points: []ContactPoint{{Point: q, Depth: r - dist}},
		}, true
	}

	// Core segment is inside the box
	normal, faceDist := box.nearestFace(p)
	return Manifold{
		Normal: normal,
		Points: []ContactPoint{{Point: p.Add(normal.Mul(faceDist)), Depth: r + faceDist}},
	}, true
}

func boxBox(a, b placement) (Manifold, bool) {
	oa, ob := a.obb(), b.obb()
	mtv, ok := oa.separation(ob)
	if !ok {
		return Manifold{}, false
	}
	depth := mtv.Len()
	normal := normalizeOrZero(mtv)
	if normal == (mgl32.Vec3{}) {
		normal = mgl32.Vec3{0, 1, 0}
	}
	return Manifold{
		Normal: normal,
		Points: []ContactPoint{{Point: ClosestPointOnOBB(ob, oa.Center), Depth: depth}},
	}, true
}

func closestPointOnSegment(a, b, p mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-12 {
		return a
	}
	t := clampf(p.Sub(a).Dot(ab)/denom, 0, 1)
	return a.Add(ab.Mul(t))
}

// closestSegmentPoints returns the closest points between segments p1q1 and
// p2q2.
func closestSegmentPoints(p1, q1, p2, q2 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	const eps = 1e-12
	var s, t float32
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = clampf(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= eps {
			s = clampf(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > eps {
				s = clampf((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clampf(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clampf((b-c)/a, 0, 1)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}
