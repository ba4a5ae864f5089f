package physics

import "github.com/go-gl/mathgl/mgl32"

// ColliderID identifies a collider inside a World. Zero is never assigned.
type ColliderID uint32

type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
	ShapeCapsule
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeCapsule:
		return "capsule"
	}
	return "unknown"
}

// Shape is the geometry of a collider in body-local space. Capsules are
// aligned with the local Y axis.
type Shape struct {
	Kind        ShapeKind
	HalfExtents mgl32.Vec3
	Radius      float32
	HalfHeight  float32
}

// Box returns a box shape with the given half extents.
func Box(halfExtents mgl32.Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// Sphere returns a sphere shape.
func Sphere(radius float32) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Capsule returns a capsule whose cylinder is 2*halfHeight long.
func Capsule(radius, halfHeight float32) Shape {
	return Shape{Kind: ShapeCapsule, Radius: radius, HalfHeight: halfHeight}
}

// ColliderDef describes a collider to attach with World.AddCollider.
type ColliderDef struct {
	Shape       Shape
	Offset      mgl32.Vec3
	Friction    float32
	Restitution float32
}

type Collider struct {
	ID          ColliderID
	Body        BodyID
	Shape       Shape
	Offset      mgl32.Vec3
	Friction    float32
	Restitution float32
}

// placement is a collider resolved into world space for one step.
type placement struct {
	collider *Collider
	body     *Body
	center   mgl32.Vec3
	rotation mgl32.Quat
	bounds   AABB
}

func place(c *Collider, b *Body) placement {
	p := placement{
		collider: c,
		body:     b,
		center:   b.Position.Add(b.Rotation.Rotate(c.Offset)),
		rotation: b.Rotation,
	}
	switch c.Shape.Kind {
	case ShapeBox:
		p.bounds = p.obb().Bounds()
	default:
		a, z := p.segment()
		r := c.Shape.Radius
		p.bounds = AABB{
			Min: mgl32.Vec3{minf(a.X(), z.X()) - r, minf(a.Y(), z.Y()) - r, minf(a.Z(), z.Z()) - r},
			Max: mgl32.Vec3{maxf(a.X(), z.X()) + r, maxf(a.Y(), z.Y()) + r, maxf(a.Z(), z.Z()) + r},
		}
	}
	return p
}

func (p placement) obb() OBB {
	return NewOBB(p.center, p.collider.Shape.HalfExtents, p.rotation)
}

// segment returns the core segment of a sphere or capsule. Spheres
// degenerate to a single point.
func (p placement) segment() (mgl32.Vec3, mgl32.Vec3) {
	if p.collider.Shape.Kind != ShapeCapsule {
		return p.center, p.center
	}
	axis := p.rotation.Rotate(mgl32.Vec3{0, p.collider.Shape.HalfHeight, 0})
	return p.center.Sub(axis), p.center.Add(axis)
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
