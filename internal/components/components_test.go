package components

import (
	"math"
	"testing"

	"github.com/bravely-beep/beepcraft/internal/engine"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

func TestRigidbodySyncsTransform(t *testing.T) {
	w := physics.NewWorld()
	id := w.AddBody(physics.BodyDef{Kind: physics.BodyDynamic, Position: mgl32.Vec3{1, 2, 3}, LinearVelocity: mgl32.Vec3{0, 0, 4}})

	g := engine.NewGameObject("Ball")
	rb := NewRigidbody(w, id)
	g.AddComponent(rb)
	g.Start()

	if g.Transform.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Expected position synced on Start, got %v", g.Transform.Position)
	}

	if _, err := w.Step(0.1, nil); err != nil {
		t.Fatal(err)
	}
	g.Update(0.1)

	if math.Abs(float64(g.Transform.Position.Z()-3.4)) > 1e-4 {
		t.Errorf("Expected z=3.4 after one step, got %f", g.Transform.Position.Z())
	}
	if rb.Velocity.Z() != 4 {
		t.Errorf("Expected velocity z=4, got %f", rb.Velocity.Z())
	}
}

func TestRigidbodyMissingBody(t *testing.T) {
	w := physics.NewWorld()
	g := engine.NewGameObject("Ghost")
	rb := NewRigidbody(w, 42)
	g.AddComponent(rb)
	if rb.Sync() {
		t.Error("Expected Sync to fail for an unknown body")
	}
}

func TestColliderTracksTouching(t *testing.T) {
	w := physics.NewWorld()
	floor := w.AddBody(physics.BodyDef{Kind: physics.BodyStatic})
	fc, _ := w.AddCollider(floor, physics.ColliderDef{Shape: physics.Box(mgl32.Vec3{5, 0.5, 5})})
	ball := w.AddBody(physics.BodyDef{Kind: physics.BodyDynamic, Position: mgl32.Vec3{0, 0.9, 0}})
	if _, err := w.AddCollider(ball, physics.ColliderDef{Shape: physics.Sphere(0.5)}); err != nil {
		t.Fatal(err)
	}

	c := NewCollider(w, fc)
	w.CollisionEnter.AddListener(c.OnCollisionEnter)
	w.CollisionExit.AddListener(c.OnCollisionExit)

	if _, err := w.Step(1.0/60, nil); err != nil {
		t.Fatal(err)
	}
	if c.Touching != 1 {
		t.Fatalf("Expected 1 touching collider, got %d", c.Touching)
	}

	if err := w.SetPosition(ball, mgl32.Vec3{0, 10, 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Step(1.0/60, nil); err != nil {
		t.Fatal(err)
	}
	if c.Touching != 0 {
		t.Errorf("Expected 0 touching colliders after separating, got %d", c.Touching)
	}

	shape, ok := c.Shape()
	if !ok || shape.Kind != physics.ShapeBox {
		t.Errorf("Expected box shape, got %v (ok=%v)", shape.Kind, ok)
	}
}

func TestPlayerCameraDefaultPose(t *testing.T) {
	c := NewPlayerCamera()

	if !approxVec(c.Position(), mgl32.Vec3{0, 5, 5}, 1e-4) {
		t.Errorf("Expected camera at (0,5,5), got %v", c.Position())
	}
	want := mgl32.Vec3{0, -1, -1}.Normalize()
	if !approxVec(c.Forward(), want, 1e-4) {
		t.Errorf("Expected forward %v, got %v", want, c.Forward())
	}
}

func TestPlayerCameraOrbit(t *testing.T) {
	tests := []struct {
		name      string
		dx, dy    float32
		wantYaw   float32
		wantPitch float32
	}{
		{"turn left", -450, 0, 90, DefaultOrbitPitch},
		{"turn right wraps", 450, 0, 270, DefaultOrbitPitch},
		{"pitch clamps down", 0, 1000, 0, -maxOrbitPitch},
		{"pitch clamps up", 0, -1000, 0, maxOrbitPitch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPlayerCamera()
			c.Orbit(tt.dx, tt.dy)
			if math.Abs(float64(c.Yaw-tt.wantYaw)) > 1e-3 {
				t.Errorf("Expected yaw %f, got %f", tt.wantYaw, c.Yaw)
			}
			if math.Abs(float64(c.Pitch-tt.wantPitch)) > 1e-3 {
				t.Errorf("Expected pitch %f, got %f", tt.wantPitch, c.Pitch)
			}
		})
	}
}

func TestPlayerCameraYawTurnsWalkBasis(t *testing.T) {
	c := NewPlayerCamera()
	c.Yaw = 90

	forward, right := locomotion.HorizontalBasis(c.Rotation(), mgl32.Vec3{0, 1, 0})
	if !approxVec(forward, mgl32.Vec3{-1, 0, 0}, 1e-4) {
		t.Errorf("Expected forward -X at yaw 90, got %v", forward)
	}
	if !approxVec(right, mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("Expected right -Z at yaw 90, got %v", right)
	}
}

func TestPlayerCameraFollows(t *testing.T) {
	target := engine.NewGameObject("Player")
	target.Transform.Position = mgl32.Vec3{3, 1, -2}

	c := NewPlayerCamera()
	c.Follow = target
	c.Update(0)

	if c.Target != target.Transform.Position {
		t.Errorf("Expected target %v, got %v", target.Transform.Position, c.Target)
	}
}

func TestPlayerState(t *testing.T) {
	reg := locomotion.NewRegistry()
	s, err := reg.Spawn(7, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.DesiredVelocity = mgl32.Vec3{2, 0, 0}

	p := NewPlayer(reg, 7)
	if got := p.DesiredVelocity(); got != (mgl32.Vec3{2, 0, 0}) {
		t.Errorf("Expected desired velocity (2,0,0), got %v", got)
	}

	reg.Despawn(7)
	if p.Registered() {
		t.Error("Expected player to be unregistered after Despawn")
	}
}

func approxVec(a, b mgl32.Vec3, tol float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
