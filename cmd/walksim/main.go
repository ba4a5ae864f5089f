// Command walksim runs the demo scene without a window under a scripted
// input timeline and logs the player's pose after every physics step.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/input"
	"github.com/bravely-beep/beepcraft/internal/level"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// script is the input timeline: hold is applied from step holdFrom on, and
// jump is pressed on step jumpAt (negative disables it).
type script struct {
	steps    int
	hold     input.ActionSet
	holdFrom int
	jumpAt   int
}

func (s script) snapshot(step int) input.Snapshot {
	var snap input.Snapshot
	if step >= s.holdFrom {
		snap.Held = s.hold
	}
	if step == s.jumpAt {
		snap.Held = snap.Held.With(input.ActionJump)
		snap.Pressed = input.SetOf(input.ActionJump)
	}
	return snap
}

// parseHold reads a comma separated action list such as "forward,left".
func parseHold(s string) (input.ActionSet, error) {
	var set input.ActionSet
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		a, err := input.ParseAction(name)
		if err != nil {
			return 0, err
		}
		set = set.With(a)
	}
	return set, nil
}

type sample struct {
	Step     int
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Jumped   bool
}

func simulate(t config.Tuning, opts level.Options, sc script, out *log.Logger) ([]sample, error) {
	world := physics.NewWorld()
	reg := locomotion.NewRegistry()
	demo, err := level.Build(world, reg, t, opts)
	if err != nil {
		return nil, err
	}
	sim := locomotion.NewSimulation(world, reg, t)

	samples := make([]sample, 0, sc.steps)
	for step := 0; step < sc.steps; step++ {
		tr, err := sim.Tick(sc.snapshot(step), &demo.Camera, sim.FixedStep)
		if err != nil {
			return samples, err
		}
		b, _ := world.Body(demo.Player.Body)
		s := sample{Step: step, Position: b.Position, Velocity: b.LinearVelocity, Jumped: tr.Jumps > 0}
		samples = append(samples, s)
		if out != nil {
			out.Printf("step %4d pos (%7.3f, %7.3f, %7.3f) vel (%6.3f, %6.3f, %6.3f)%s",
				s.Step, s.Position.X(), s.Position.Y(), s.Position.Z(),
				s.Velocity.X(), s.Velocity.Y(), s.Velocity.Z(), jumpMark(s.Jumped))
		}
	}
	return samples, nil
}

func jumpMark(jumped bool) string {
	if jumped {
		return " jump"
	}
	return ""
}

func main() {
	configPath := flag.String("config", "", "tuning file (default: built-in tuning)")
	steps := flag.Int("steps", 120, "number of physics steps to run")
	hold := flag.String("hold", "", "actions held, comma separated (forward,back,left,right)")
	holdFrom := flag.Int("hold-from", 60, "step at which the held actions start")
	jump := flag.Int("jump", -1, "step on which jump is pressed (-1 for never)")
	static := flag.Bool("static", false, "keep the floor still")
	wall := flag.Bool("wall", false, "add a wall in front of the player")
	workers := flag.Int("workers", 0, "contact hook workers (0 uses the tuning file)")
	flag.Parse()

	t, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *workers > 0 {
		t.Workers = *workers
	}
	held, err := parseHold(*hold)
	if err != nil {
		log.Fatal(err)
	}

	opts := level.DefaultOptions()
	opts.Wall = *wall
	if *static {
		opts.FloorVelocity = mgl32.Vec3{}
	}

	sc := script{steps: *steps, hold: held, holdFrom: *holdFrom, jumpAt: *jump}
	out := log.New(os.Stdout, "", 0)
	if _, err := simulate(t, opts, sc, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
