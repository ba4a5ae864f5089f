// Stress test comparing serial and parallel contact hook dispatch
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	workers := flag.Int("workers", 4, "hook workers for the parallel run")
	steps := flag.Int("steps", 120, "steps timed per run")
	flag.Parse()

	testCounts := []int{100, 500, 1000, 2000, 5000}
	for _, count := range testCounts {
		testDispatch(count, *workers, *steps)
	}
}

// buildPile drops count spheres onto a floor, with one player capsule in
// the middle so the injector has real work.
func buildPile(count int) (*physics.World, *locomotion.Registry, error) {
	w := physics.NewWorld()
	rng := rand.New(rand.NewSource(42)) // Consistent results

	// Spawn area grows with count to keep density reasonable
	spawnSize := float32(20.0) + float32(count)/50.0

	floor := w.AddBody(physics.BodyDef{Kind: physics.BodyStatic})
	if _, err := w.AddCollider(floor, physics.ColliderDef{
		Shape:    physics.Box(mgl32.Vec3{spawnSize, 0.5, spawnSize}),
		Friction: 0.5,
	}); err != nil {
		return nil, nil, fmt.Errorf("floor: %w", err)
	}

	for i := 0; i < count; i++ {
		b := w.AddBody(physics.BodyDef{
			Kind: physics.BodyDynamic,
			Position: mgl32.Vec3{
				rng.Float32()*spawnSize - spawnSize/2,
				1 + rng.Float32()*5,
				rng.Float32()*spawnSize - spawnSize/2,
			},
			CanSleep: true,
		})
		if _, err := w.AddCollider(b, physics.ColliderDef{
			Shape:       physics.Sphere(0.25 + rng.Float32()*0.25),
			Friction:    0.4,
			Restitution: 0.2,
		}); err != nil {
			return nil, nil, fmt.Errorf("sphere %d: %w", i, err)
		}
	}

	t := config.Default()
	reg := locomotion.NewRegistry()
	player := w.AddBody(physics.BodyDef{Kind: physics.BodyDynamic, Position: mgl32.Vec3{0, 2, 0}, LockRotation: true})
	pc, err := w.AddCollider(player, physics.ColliderDef{
		Shape:    physics.Capsule(t.Player.Radius, t.Player.HalfHeight),
		Friction: t.Player.Friction,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("player: %w", err)
	}
	if _, err := reg.Spawn(pc, player); err != nil {
		return nil, nil, fmt.Errorf("player: %w", err)
	}
	return w, reg, nil
}

func run(count, workers, steps int) (time.Duration, int, error) {
	world, reg, err := buildPile(count)
	if err != nil {
		return 0, 0, err
	}
	world.Configure(world.Gravity, workers)

	var in locomotion.Injector
	in.Classifier = locomotion.DefaultClassifier()
	hook := in.Hook(reg)

	// Warm up
	for i := 0; i < 30; i++ {
		if _, err := world.Step(1.0/60, hook); err != nil {
			return 0, 0, fmt.Errorf("warm-up step %d: %w", i, err)
		}
	}

	start := time.Now()
	pairs := 0
	for i := 0; i < steps; i++ {
		report, err := world.Step(1.0/60, hook)
		if err != nil {
			return 0, 0, fmt.Errorf("step %d: %w", i, err)
		}
		pairs += len(report.Contacts)
	}
	return time.Since(start) / time.Duration(steps), pairs / steps, nil
}

func testDispatch(count, workers, steps int) {
	serial, serialPairs, err := run(count, 1, steps)
	if err != nil {
		log.Fatalf("serial run with %d objects: %v", count, err)
	}
	parallel, parallelPairs, err := run(count, workers, steps)
	if err != nil {
		log.Fatalf("parallel run with %d objects: %v", count, err)
	}

	speedup := float64(serial) / float64(parallel)

	fmt.Printf("%5d objects: serial %8v (%4d pairs) | %d workers %8v (%4d pairs) | %.2fx\n",
		count, serial.Round(time.Microsecond), serialPairs,
		workers, parallel.Round(time.Microsecond), parallelPairs, speedup)
}
