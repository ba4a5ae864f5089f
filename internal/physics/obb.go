package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   mgl32.Vec3    // World-space center
	HalfSize mgl32.Vec3    // Half-extents along local axes
	Axes     [3]mgl32.Vec3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from a center, half extents and an orientation.
func NewOBB(center, halfSize mgl32.Vec3, rotation mgl32.Quat) OBB {
	return OBB{
		Center:   center,
		HalfSize: halfSize,
		Axes: [3]mgl32.Vec3{
			rotation.Rotate(mgl32.Vec3{1, 0, 0}),
			rotation.Rotate(mgl32.Vec3{0, 1, 0}),
			rotation.Rotate(mgl32.Vec3{0, 0, 1}),
		},
	}
}

// projectedRadius is the half-length of the box projected onto axis.
func (o OBB) projectedRadius(axis mgl32.Vec3) float32 {
	return o.HalfSize.X()*absf(o.Axes[0].Dot(axis)) +
		o.HalfSize.Y()*absf(o.Axes[1].Dot(axis)) +
		o.HalfSize.Z()*absf(o.Axes[2].Dot(axis))
}

// separation tests the 15 SAT axes and returns the push-out of a along the
// axis of least penetration.
func (a OBB) separation(b OBB) (mtv mgl32.Vec3, overlapping bool) {
	t := b.Center.Sub(a.Center)
	minPenetration := float32(math.MaxFloat32)
	separated := false

	testAxis := func(axis mgl32.Vec3) {
		if separated {
			return
		}
		l := axis.Len()
		if l < 0.0001 {
			return
		}
		axis = axis.Mul(1 / l)

		dist := t.Dot(axis)
		penetration := a.projectedRadius(axis) + b.projectedRadius(axis) - absf(dist)
		if penetration < 0 {
			separated = true
			return
		}
		if penetration < minPenetration {
			minPenetration = penetration
			// Push in the direction away from B
			if dist < 0 {
				mtv = axis.Mul(penetration)
			} else {
				mtv = axis.Mul(-penetration)
			}
		}
	}

	for i := 0; i < 3; i++ {
		testAxis(a.Axes[i])
	}
	for i := 0; i < 3; i++ {
		testAxis(b.Axes[i])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			testAxis(a.Axes[i].Cross(b.Axes[j]))
		}
	}

	if separated {
		return mgl32.Vec3{}, false
	}
	return mtv, true
}

// local transforms a world point into the box frame.
func (o OBB) local(point mgl32.Vec3) mgl32.Vec3 {
	d := point.Sub(o.Center)
	return mgl32.Vec3{d.Dot(o.Axes[0]), d.Dot(o.Axes[1]), d.Dot(o.Axes[2])}
}

// ClosestPointOnOBB returns the closest point on or inside the OBB to the given point
func ClosestPointOnOBB(o OBB, point mgl32.Vec3) mgl32.Vec3 {
	l := o.local(point)

	result := o.Center
	result = result.Add(o.Axes[0].Mul(clampf(l.X(), -o.HalfSize.X(), o.HalfSize.X())))
	result = result.Add(o.Axes[1].Mul(clampf(l.Y(), -o.HalfSize.Y(), o.HalfSize.Y())))
	result = result.Add(o.Axes[2].Mul(clampf(l.Z(), -o.HalfSize.Z(), o.HalfSize.Z())))
	return result
}

// nearestFace returns the outward face normal closest to an interior point
// and the distance from the point to that face.
func (o OBB) nearestFace(point mgl32.Vec3) (mgl32.Vec3, float32) {
	l := o.local(point)
	best := float32(math.MaxFloat32)
	var normal mgl32.Vec3
	for i := 0; i < 3; i++ {
		d := o.HalfSize[i] - absf(l[i])
		if d < best {
			best = d
			normal = o.Axes[i]
			if l[i] < 0 {
				normal = normal.Mul(-1)
			}
		}
	}
	return normal, best
}

// Bounds returns the world-space AABB enclosing the box.
func (o OBB) Bounds() AABB {
	var ext mgl32.Vec3
	for i := 0; i < 3; i++ {
		axis := mgl32.Vec3{}
		axis[i] = 1
		ext[i] = o.projectedRadius(axis)
	}
	return AABB{Min: o.Center.Sub(ext), Max: o.Center.Add(ext)}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// normalizeOrZero returns v scaled to unit length, or the zero vector when v
// is too short to carry a direction.
func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
