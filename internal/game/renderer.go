package game

import (
	"math"

	"github.com/bravely-beep/beepcraft/internal/components"
	"github.com/bravely-beep/beepcraft/internal/engine"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// MeshRenderer draws its collider's shape.
type MeshRenderer struct {
	engine.BaseComponent
	Collider *components.Collider
	Color    rl.Color
	Wires    bool
}

func NewMeshRenderer(c *components.Collider, color rl.Color) *MeshRenderer {
	return &MeshRenderer{Collider: c, Color: color, Wires: true}
}

func (m *MeshRenderer) Draw() {
	g := m.GetGameObject()
	if g == nil || !g.Active || m.Collider == nil {
		return
	}
	shape, ok := m.Collider.Shape()
	if !ok {
		return
	}
	center, rot, ok := m.Collider.Pose()
	if !ok {
		return
	}

	switch shape.Kind {
	case physics.ShapeBox:
		angle, axis := axisAngle(rot)
		size := vec3(shape.HalfExtents.Mul(2))
		rl.PushMatrix()
		rl.Translatef(center.X(), center.Y(), center.Z())
		rl.Rotatef(angle, axis.X(), axis.Y(), axis.Z())
		rl.DrawCubeV(rl.Vector3{}, size, m.Color)
		if m.Wires {
			rl.DrawCubeWiresV(rl.Vector3{}, size, rl.DarkGray)
		}
		rl.PopMatrix()
	case physics.ShapeSphere:
		rl.DrawSphere(vec3(center), shape.Radius, m.Color)
		if m.Wires {
			rl.DrawSphereWires(vec3(center), shape.Radius, 8, 8, rl.DarkGray)
		}
	case physics.ShapeCapsule:
		half := rot.Rotate(mgl32.Vec3{0, shape.HalfHeight, 0})
		start, end := vec3(center.Sub(half)), vec3(center.Add(half))
		rl.DrawCapsule(start, end, shape.Radius, 16, 8, m.Color)
		if m.Wires {
			rl.DrawCapsuleWires(start, end, shape.Radius, 16, 8, rl.DarkGray)
		}
	}
}

func vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X(), v.Y(), v.Z())
}

// axisAngle converts q to the degrees-and-axis form rlgl expects.
func axisAngle(q mgl32.Quat) (float32, mgl32.Vec3) {
	q = q.Normalize()
	w := mgl32.Clamp(q.W, -1, 1)
	s := float32(math.Sqrt(float64(1 - w*w)))
	if s < 1e-4 {
		return 0, mgl32.Vec3{0, 1, 0}
	}
	return mgl32.RadToDeg(2 * float32(math.Acos(float64(w)))), q.V.Mul(1 / s)
}
