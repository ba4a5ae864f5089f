package level

import (
	"errors"
	"math"
	"testing"

	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/input"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

type scene struct {
	sim   *locomotion.Simulation
	world *physics.World
	demo  Demo
}

func build(t *testing.T, opts Options) scene {
	t.Helper()
	world := physics.NewWorld()
	reg := locomotion.NewRegistry()
	tu := config.Default()
	d, err := Build(world, reg, tu, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return scene{sim: locomotion.NewSimulation(world, reg, tu), world: world, demo: d}
}

func (sc scene) tick(t *testing.T, snap input.Snapshot, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := sc.sim.Tick(snap, &sc.demo.Camera, sc.sim.FixedStep); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

func TestCameraLooksAtOrigin(t *testing.T) {
	d := build(t, Options{}).demo
	if !approxVec(d.CameraPosition, mgl32.Vec3{0, 5, 5}, 1e-4) {
		t.Errorf("Expected camera at (0,5,5), got %v", d.CameraPosition)
	}
	forward := d.Camera.Rotate(mgl32.Vec3{0, 0, -1})
	if !approxVec(forward, mgl32.Vec3{0, -5, -5}.Normalize(), 1e-4) {
		t.Errorf("Expected camera to look at the origin, forward %v", forward)
	}
}

func TestSecondBuildRejectsSecondPlayer(t *testing.T) {
	world := physics.NewWorld()
	reg := locomotion.NewRegistry()
	if _, err := Build(world, reg, config.Default(), Options{}); err != nil {
		t.Fatal(err)
	}
	_, err := Build(world, reg, config.Default(), Options{})
	if !errors.Is(err, locomotion.ErrPlayerLimit) {
		t.Errorf("Expected ErrPlayerLimit, got %v", err)
	}
}

func TestPlayerLandsAndWalks(t *testing.T) {
	sc := build(t, Options{})

	sc.tick(t, input.Snapshot{}, 120)
	b, _ := sc.world.Body(sc.demo.Player.Body)
	if math.Abs(float64(b.Position.Y()-1.35)) > 0.05 {
		t.Fatalf("Expected player to land at y=1.35, got %f", b.Position.Y())
	}

	sc.tick(t, input.Snapshot{Held: input.SetOf(input.ActionForward)}, 45)
	b, _ = sc.world.Body(sc.demo.Player.Body)
	if math.Abs(float64(b.LinearVelocity.Z()+2)) > 0.05 {
		t.Errorf("Expected vz=-2 walking away from the camera, got %f", b.LinearVelocity.Z())
	}
}

func TestMovingFloorCarriesIdlePlayer(t *testing.T) {
	sc := build(t, DefaultOptions())

	sc.tick(t, input.Snapshot{}, 90)

	floor, _ := sc.world.Body(sc.demo.Floor.Body)
	player, _ := sc.world.Body(sc.demo.Player.Body)
	if math.Abs(float64(player.LinearVelocity.Z()-floor.LinearVelocity.Z())) > 0.05 {
		t.Errorf("Expected idle player to ride the floor, player vz=%f floor vz=%f",
			player.LinearVelocity.Z(), floor.LinearVelocity.Z())
	}
}

func TestMovingFloorWalkIsRelative(t *testing.T) {
	sc := build(t, DefaultOptions())
	sc.tick(t, input.Snapshot{}, 90)

	sc.tick(t, input.Snapshot{Held: input.SetOf(input.ActionRight)}, 60)

	player, _ := sc.world.Body(sc.demo.Player.Body)
	if math.Abs(float64(player.LinearVelocity.X()-2)) > 0.05 {
		t.Errorf("Expected vx=2 relative to the floor, got %f", player.LinearVelocity.X())
	}
	if math.Abs(float64(player.LinearVelocity.Z()-1)) > 0.05 {
		t.Errorf("Expected the floor's vz=1 to carry over, got %f", player.LinearVelocity.Z())
	}
}

func TestPiecesIncludeWall(t *testing.T) {
	d := build(t, Options{Wall: true}).demo
	if got := len(d.Pieces()); got != 3 {
		t.Errorf("Expected 3 pieces with a wall, got %d", got)
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
