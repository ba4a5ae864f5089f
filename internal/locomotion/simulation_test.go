package locomotion

import (
	"math"
	"testing"

	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/input"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

type scene struct {
	sim    *Simulation
	world  *physics.World
	player physics.BodyID
	collid physics.ColliderID
	camera mgl32.Quat
}

// newScene builds a static floor with its top at y=0.5 and a resting capsule
// player on it.
func newScene(t *testing.T, withWall bool) *scene {
	t.Helper()
	tu := config.Default()
	w := physics.NewWorld()

	floor := w.AddBody(physics.BodyDef{Kind: physics.BodyStatic})
	if _, err := w.AddCollider(floor, physics.ColliderDef{Shape: physics.Box(mgl32.Vec3{10, 0.5, 10}), Friction: 0.5}); err != nil {
		t.Fatal(err)
	}

	restY := 0.5 + tu.Player.HalfHeight + tu.Player.Radius
	player := w.AddBody(physics.BodyDef{
		Kind:         physics.BodyDynamic,
		Position:     mgl32.Vec3{0, restY, 0},
		Mass:         tu.Player.Mass,
		LockRotation: true,
	})
	pc, err := w.AddCollider(player, physics.ColliderDef{
		Shape:    physics.Capsule(tu.Player.Radius, tu.Player.HalfHeight),
		Friction: tu.Player.Friction,
	})
	if err != nil {
		t.Fatal(err)
	}

	if withWall {
		wall := w.AddBody(physics.BodyDef{Kind: physics.BodyStatic, Position: mgl32.Vec3{0, 2, -3}})
		if _, err := w.AddCollider(wall, physics.ColliderDef{Shape: physics.Box(mgl32.Vec3{5, 2, 0.5}), Friction: 0.5}); err != nil {
			t.Fatal(err)
		}
	}

	reg := NewRegistry()
	if _, err := reg.Spawn(pc, player); err != nil {
		t.Fatal(err)
	}
	sc := &scene{
		sim:    NewSimulation(w, reg, tu),
		world:  w,
		player: player,
		collid: pc,
		camera: demoCamera(),
	}
	sc.run(t, input.Snapshot{}, 10)
	return sc
}

func (sc *scene) run(t *testing.T, snap input.Snapshot, ticks int) TickReport {
	t.Helper()
	var total TickReport
	for i := 0; i < ticks; i++ {
		tr, err := sc.sim.Tick(snap, &sc.camera, sc.sim.FixedStep)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		total.Steps += tr.Steps
		total.Jumps += tr.Jumps
	}
	return total
}

func (sc *scene) body(t *testing.T) physics.Body {
	t.Helper()
	b, ok := sc.world.Body(sc.player)
	if !ok {
		t.Fatal("player body missing")
	}
	return b
}

func approx(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

// approxVec compares per component with an absolute tolerance.
func approxVec(a, b mgl32.Vec3, tol float32) bool {
	return approx(a.X(), b.X(), tol) && approx(a.Y(), b.Y(), tol) && approx(a.Z(), b.Z(), tol)
}

func TestWalkForwardOnFlatGround(t *testing.T) {
	sc := newScene(t, false)
	start := sc.body(t).Position

	sc.run(t, held(input.ActionForward), 120)

	b := sc.body(t)
	if !approx(b.LinearVelocity.Z(), -2, 0.05) {
		t.Errorf("Expected vz=-2, got %f", b.LinearVelocity.Z())
	}
	if !approx(b.LinearVelocity.X(), 0, 1e-3) {
		t.Errorf("Expected vx=0, got %f", b.LinearVelocity.X())
	}
	if b.Position.Z() >= start.Z()-2 {
		t.Errorf("Expected player to travel forward, z %f -> %f", start.Z(), b.Position.Z())
	}
	if !approx(b.Position.Y(), start.Y(), 0.05) {
		t.Errorf("Expected player to stay on the floor, y %f -> %f", start.Y(), b.Position.Y())
	}
}

func TestIdlePlayerDoesNotDrift(t *testing.T) {
	sc := newScene(t, false)
	start := sc.body(t).Position

	sc.run(t, held(), 120)

	b := sc.body(t)
	if d := b.Position.Sub(start); !approx(d.X(), 0, 1e-4) || !approx(d.Z(), 0, 1e-4) {
		t.Errorf("Expected no horizontal drift, moved %v", d)
	}
}

func TestReleasingInputStopsPlayer(t *testing.T) {
	sc := newScene(t, false)
	sc.run(t, held(input.ActionRight), 60)
	sc.run(t, held(), 60)

	b := sc.body(t)
	if !approx(b.LinearVelocity.X(), 0, 1e-3) {
		t.Errorf("Expected player to stop, got vx=%f", b.LinearVelocity.X())
	}
}

func TestWalkingIntoWallDoesNotClimb(t *testing.T) {
	sc := newScene(t, true)
	start := sc.body(t).Position

	sc.run(t, held(input.ActionForward), 180)

	b := sc.body(t)
	if b.Position.Z() < -2.0-0.05 {
		t.Errorf("Expected wall to stop the player at z=-2, got %f", b.Position.Z())
	}
	if !approx(b.LinearVelocity.Z(), 0, 0.05) {
		t.Errorf("Expected no speed into the wall, got vz=%f", b.LinearVelocity.Z())
	}
	if !approx(b.Position.Y(), start.Y(), 0.05) {
		t.Errorf("Expected player to stay on the floor, y %f -> %f", start.Y(), b.Position.Y())
	}
}

func TestJumpFromGroundOnce(t *testing.T) {
	sc := newScene(t, false)
	start := sc.body(t).Position

	press := input.Snapshot{Held: input.SetOf(input.ActionJump), Pressed: input.SetOf(input.ActionJump)}
	tr := sc.run(t, press, 1)
	if tr.Jumps != 1 {
		t.Fatalf("Expected one jump on the press tick, got %d", tr.Jumps)
	}
	if vy := sc.body(t).LinearVelocity.Y(); !approx(vy, config.Default().JumpSpeed, 1e-3) {
		t.Errorf("Expected vy=%v after the jump, got %f", config.Default().JumpSpeed, vy)
	}

	hold := input.Snapshot{Held: input.SetOf(input.ActionJump)}
	tr = sc.run(t, hold, 20)
	if tr.Jumps != 0 {
		t.Errorf("Expected holding jump not to jump again, got %d", tr.Jumps)
	}
	if y := sc.body(t).Position.Y(); y < start.Y()+0.5 {
		t.Errorf("Expected player to be airborne, y=%f", y)
	}
}

func TestJumpInAirIsDropped(t *testing.T) {
	sc := newScene(t, false)
	if err := sc.world.SetPosition(sc.player, mgl32.Vec3{0, 5, 0}); err != nil {
		t.Fatal(err)
	}

	press := input.Snapshot{Pressed: input.SetOf(input.ActionJump)}
	if tr := sc.run(t, press, 1); tr.Jumps != 0 {
		t.Errorf("Expected no jump in the air, got %d", tr.Jumps)
	}
	s, _ := sc.sim.Registry.Lookup(sc.collid)
	if s.JumpIntent {
		t.Error("Expected the intent to be consumed after the step")
	}

	// Land, then confirm the stale press did not linger.
	if tr := sc.run(t, held(), 120); tr.Jumps != 0 {
		t.Errorf("Expected no buffered jump on landing, got %d", tr.Jumps)
	}
}

func TestShortFramesLatchJumpEdge(t *testing.T) {
	sc := newScene(t, false)
	half := sc.sim.FixedStep / 2

	press := input.Snapshot{Held: input.SetOf(input.ActionJump), Pressed: input.SetOf(input.ActionJump)}
	tr, err := sc.sim.Tick(press, &sc.camera, half)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Steps != 0 {
		t.Fatalf("Expected no step on a half frame, got %d", tr.Steps)
	}

	tr, err = sc.sim.Tick(input.Snapshot{Held: input.SetOf(input.ActionJump)}, &sc.camera, half)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Steps != 1 || tr.Jumps != 1 {
		t.Errorf("Expected the latched press to jump on the next step, got %d steps/%d jumps", tr.Steps, tr.Jumps)
	}
}

func TestSubstepsAreCapped(t *testing.T) {
	sc := newScene(t, false)
	tr, err := sc.sim.Tick(input.Snapshot{}, &sc.camera, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Steps != sc.sim.MaxSubsteps {
		t.Errorf("Expected %d steps for a long frame, got %d", sc.sim.MaxSubsteps, tr.Steps)
	}
}

func TestNilCameraKeepsPreviousIntent(t *testing.T) {
	sc := newScene(t, false)
	sc.run(t, held(input.ActionRight), 30)

	tr, err := sc.sim.Tick(held(), nil, sc.sim.FixedStep)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Resolved {
		t.Error("Expected no resolution without a camera")
	}
	s, _ := sc.sim.Registry.Lookup(sc.collid)
	if !approx(s.DesiredVelocity.X(), 2, 1e-5) {
		t.Errorf("Expected previous desired velocity to persist, got %v", s.DesiredVelocity)
	}
}

func TestSetTuningAppliesOnNextTick(t *testing.T) {
	sc := newScene(t, false)
	tu := config.Default()
	tu.MaxWalkSpeed = 4
	sc.sim.SetTuning(tu)

	if sc.sim.Resolver.MaxWalkSpeed != config.Default().MaxWalkSpeed {
		t.Error("Expected tuning to wait for the next tick")
	}

	sc.run(t, held(input.ActionForward), 120)
	if vz := sc.body(t).LinearVelocity.Z(); !approx(vz, -4, 0.05) {
		t.Errorf("Expected vz=-4 after retuning, got %f", vz)
	}
}

func TestParallelWorkersMatchSerial(t *testing.T) {
	final := func(workers int) mgl32.Vec3 {
		sc := newScene(t, true)
		tu := config.Default()
		tu.Workers = workers
		sc.sim.SetTuning(tu)
		sc.run(t, held(input.ActionForward, input.ActionLeft), 90)
		return sc.body(t).Position
	}
	if a, b := final(1), final(4); a != b {
		t.Errorf("Expected identical results, serial %v parallel %v", a, b)
	}
}
