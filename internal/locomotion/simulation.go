package locomotion

import (
	"log"

	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/input"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Engine is a physics backend the Simulation can drive.
type Engine interface {
	Orientations
	Impulser
	Step(dt float32, hook physics.ContactHook) (physics.StepReport, error)
	Configure(gravity mgl32.Vec3, workers int)
}

// Simulation runs control ticks and fixed physics steps in order: input is
// resolved, then every due step runs with the contact injector installed,
// then jumps are applied and consumed.
type Simulation struct {
	Engine   Engine
	Registry *Registry
	Resolver Resolver
	Injector Injector
	Jumps    JumpSystem

	FixedStep   float32
	MaxSubsteps int
	Verbose     bool

	accumulator float32
	latched     input.Snapshot
	pending     *config.Tuning
}

// TickReport describes what one Tick did.
type TickReport struct {
	Steps      int
	Resolved   bool
	Resolution Resolution
	Jumps      int
	Contacts   int
}

func NewSimulation(engine Engine, reg *Registry, t config.Tuning) *Simulation {
	s := &Simulation{Engine: engine, Registry: reg}
	s.Resolver.Registry = reg
	s.apply(t)
	return s
}

// SetTuning queues new tuning for the start of the next Tick.
func (s *Simulation) SetTuning(t config.Tuning) {
	s.pending = &t
}

func (s *Simulation) apply(t config.Tuning) {
	up := t.UpVector()
	s.Resolver.MaxWalkSpeed = t.MaxWalkSpeed
	s.Resolver.Up = up
	s.Injector.Classifier = Classifier{Up: up, Threshold: t.GroundThreshold}
	s.Jumps = JumpSystem{Speed: t.JumpSpeed, Up: up}
	s.FixedStep = t.FixedStep()
	s.MaxSubsteps = t.MaxSubsteps
	s.Engine.Configure(t.GravityVector(), t.Workers)
	if limit := float32(s.MaxSubsteps) * s.FixedStep; s.accumulator > limit {
		s.accumulator = limit
	}
}

// Tick advances the simulation by dt of wall time. A frame too short to owe
// a physics step only latches its input; press edges carry over to the next
// frame that does step. A nil camera skips input resolution for the tick
// and players keep their previous state.
//
// A step error is fatal to the simulation and is returned as is.
func (s *Simulation) Tick(snap input.Snapshot, camera *mgl32.Quat, dt float32) (TickReport, error) {
	if s.pending != nil {
		s.apply(*s.pending)
		s.pending = nil
		log.Printf("Locomotion: tuning applied (speed %.2f, threshold %.2f, %d Hz)",
			s.Resolver.MaxWalkSpeed, s.Injector.Classifier.Threshold, int(1/s.FixedStep+0.5))
	}

	s.accumulator += dt
	if limit := float32(s.MaxSubsteps) * s.FixedStep; s.accumulator > limit {
		s.accumulator = limit
	}
	if !s.stepDue() {
		s.latched = s.latched.Merge(snap)
		return TickReport{}, nil
	}

	snap = s.latched.Merge(snap)
	s.latched = input.Snapshot{}

	var tr TickReport
	tr.Resolution, tr.Resolved = s.Resolver.Resolve(snap, camera, s.Engine)

	hook := s.Injector.Hook(s.Registry)
	for s.stepDue() && tr.Steps < s.MaxSubsteps {
		report, err := s.Engine.Step(s.FixedStep, hook)
		if err != nil {
			log.Printf("Locomotion: step %d aborted: %v", report.Step+1, err)
			return tr, err
		}
		s.accumulator = max(s.accumulator-s.FixedStep, 0)
		tr.Steps++
		tr.Contacts += len(report.Contacts)
		tr.Jumps += s.Jumps.Apply(s.Engine, report, s.Registry)
		s.Jumps.Consume(s.Registry)
	}

	if s.Verbose && tr.Jumps > 0 {
		log.Printf("Locomotion: jump")
	}
	return tr, nil
}

// stepDue reports whether a full step has accumulated, allowing for float
// rounding in the running total.
func (s *Simulation) stepDue() bool {
	return s.accumulator >= s.FixedStep*(1-1e-3)
}
