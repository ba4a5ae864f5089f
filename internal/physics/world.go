package physics

import (
	"errors"
	"fmt"
	"log"

	"github.com/bravely-beep/beepcraft/internal/engine"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownBody     = errors.New("physics: unknown body")
	ErrUnknownCollider = errors.New("physics: unknown collider")
	ErrNotDynamic      = errors.New("physics: body is not dynamic")
)

// World is a stepped rigid-body simulation with a contact-modification hook
// between narrow-phase and the solver.
type World struct {
	Gravity    mgl32.Vec3
	Iterations int
	// Workers > 1 runs contact hooks concurrently on up to Workers goroutines.
	Workers int
	Verbose bool

	CollisionEnter engine.EventWithArg[ContactEvent]
	CollisionExit  engine.EventWithArg[ContactEvent]

	bodies       map[BodyID]*Body
	bodyOrder    []BodyID
	colliders    map[ColliderID]*Collider
	colliderList []ColliderID
	nextBody     BodyID
	nextCollider ColliderID

	broad      *broadPhase
	placements []placement
	active     map[pairKey]bool
	steps      uint64
}

func NewWorld() *World {
	return &World{
		Gravity:    mgl32.Vec3{0, -9.81, 0},
		Iterations: DefaultIterations,
		Workers:    1,
		bodies:     make(map[BodyID]*Body),
		colliders:  make(map[ColliderID]*Collider),
		broad:      newBroadPhase(),
		active:     make(map[pairKey]bool),
	}
}

// AddBody creates a body and returns its ID.
func (w *World) AddBody(def BodyDef) BodyID {
	w.nextBody++
	id := w.nextBody
	w.bodies[id] = newBody(id, def)
	w.bodyOrder = append(w.bodyOrder, id)
	return id
}

// RemoveBody deletes a body together with its colliders.
func (w *World) RemoveBody(id BodyID) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	for _, c := range append([]ColliderID(nil), b.colliders...) {
		if err := w.RemoveCollider(c); err != nil {
			return err
		}
	}
	delete(w.bodies, id)
	for i, other := range w.bodyOrder {
		if other == id {
			w.bodyOrder = append(w.bodyOrder[:i], w.bodyOrder[i+1:]...)
			break
		}
	}
	return nil
}

// AddCollider attaches a collider to a body.
func (w *World) AddCollider(body BodyID, def ColliderDef) (ColliderID, error) {
	b, ok := w.bodies[body]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownBody, body)
	}
	w.nextCollider++
	id := w.nextCollider
	w.colliders[id] = &Collider{
		ID:          id,
		Body:        body,
		Shape:       def.Shape,
		Offset:      def.Offset,
		Friction:    def.Friction,
		Restitution: def.Restitution,
	}
	w.colliderList = append(w.colliderList, id)
	b.colliders = append(b.colliders, id)
	return id, nil
}

func (w *World) RemoveCollider(id ColliderID) error {
	c, ok := w.colliders[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCollider, id)
	}
	delete(w.colliders, id)
	for i, other := range w.colliderList {
		if other == id {
			w.colliderList = append(w.colliderList[:i], w.colliderList[i+1:]...)
			break
		}
	}
	if b, ok := w.bodies[c.Body]; ok {
		for i, other := range b.colliders {
			if other == id {
				b.colliders = append(b.colliders[:i], b.colliders[i+1:]...)
				break
			}
		}
	}
	for key := range w.active {
		if key.a == id || key.b == id {
			delete(w.active, key)
		}
	}
	return nil
}

// Body returns a copy of the body's state.
func (w *World) Body(id BodyID) (Body, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// BodyRotation returns the orientation of a body.
func (w *World) BodyRotation(id BodyID) (mgl32.Quat, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return mgl32.Quat{}, false
	}
	return b.Rotation, true
}

// Collider returns a copy of a collider.
func (w *World) Collider(id ColliderID) (Collider, bool) {
	c, ok := w.colliders[id]
	if !ok {
		return Collider{}, false
	}
	return *c, true
}

// ColliderPose returns the world-space center and orientation of a collider.
func (w *World) ColliderPose(id ColliderID) (mgl32.Vec3, mgl32.Quat, bool) {
	c, ok := w.colliders[id]
	if !ok {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	p := place(c, w.bodies[c.Body])
	return p.center, p.rotation, true
}

// Bodies lists body IDs in creation order.
func (w *World) Bodies() []BodyID {
	return append([]BodyID(nil), w.bodyOrder...)
}

// Colliders lists collider IDs in creation order.
func (w *World) Colliders() []ColliderID {
	return w.colliderList
}

func (w *World) SetVelocity(id BodyID, v mgl32.Vec3) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	b.LinearVelocity = v
	b.Wake()
	return nil
}

func (w *World) SetPosition(id BodyID, p mgl32.Vec3) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	b.Position = p
	b.Wake()
	return nil
}

// ApplyImpulse changes a dynamic body's velocity by impulse/mass.
func (w *World) ApplyImpulse(id BodyID, impulse mgl32.Vec3) error {
	b, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	if b.Kind != BodyDynamic {
		return fmt.Errorf("%w: %d is %s", ErrNotDynamic, id, b.Kind)
	}
	b.Wake()
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(b.InverseMass()))
	return nil
}

// Configure sets gravity and the hook worker count. Workers below 1 means 1.
func (w *World) Configure(gravity mgl32.Vec3, workers int) {
	w.Gravity = gravity
	w.Workers = max(workers, 1)
}

// StepCount returns the number of completed steps.
func (w *World) StepCount() uint64 {
	return w.steps
}

// Step advances the world by dt. Contacts are detected, handed to hook, and
// then solved. If the hook fails for any pair the step is abandoned before
// anything is integrated and the world is left as it was.
func (w *World) Step(dt float32, hook ContactHook) (StepReport, error) {
	pairs := w.detect()

	decisions, err := w.runHooks(pairs, hook)
	if err != nil {
		return StepReport{Step: w.steps}, err
	}

	report := StepReport{Step: w.steps + 1}
	kept := pairs[:0:0]
	jumped := make(map[ColliderID]bool)
	for i, d := range decisions {
		if d.GroundedJump != 0 && !jumped[d.GroundedJump] {
			jumped[d.GroundedJump] = true
			report.GroundedJumps = append(report.GroundedJumps, d.GroundedJump)
		}
		if !d.Keep {
			report.Dropped++
			continue
		}
		kept = append(kept, pairs[i])
	}

	w.integrateForces(dt)
	w.prepareContacts(kept)
	w.solveVelocities(kept)
	w.integratePositions(dt)
	w.correctPositions(kept)
	w.dispatchEvents(pairs)
	for _, id := range w.bodyOrder {
		w.bodies[id].TrySleep(dt)
	}

	w.steps++
	report.Contacts = kept
	if w.Verbose {
		log.Printf("Physics: step %d, %d contact pairs (%d dropped)", w.steps, len(kept), report.Dropped)
	}
	return report, nil
}

// detect runs the broad and narrow phases and returns the touching pairs in
// collider ID order.
func (w *World) detect() []ContactPair {
	w.placements = w.placements[:0]
	for _, id := range w.colliderList {
		c := w.colliders[id]
		w.placements = append(w.placements, place(c, w.bodies[c.Body]))
	}

	var pairs []ContactPair
	for _, ij := range w.broad.candidates(w.placements) {
		a, b := w.placements[ij[0]], w.placements[ij[1]]
		m, ok := collide(a, b)
		if !ok {
			continue
		}
		m.Friction = (a.collider.Friction + b.collider.Friction) / 2
		m.Restitution = (a.collider.Restitution + b.collider.Restitution) / 2
		pairs = append(pairs, ContactPair{
			Collider1: a.collider.ID,
			Collider2: b.collider.ID,
			Body1:     a.body.ID,
			Body2:     b.body.ID,
			Manifolds: []Manifold{m},
		})
	}
	return pairs
}

// runHooks calls hook on every pair, serially or on a bounded errgroup.
// Each call writes only its own pair and decision slot.
func (w *World) runHooks(pairs []ContactPair, hook ContactHook) ([]ContactDecision, error) {
	decisions := make([]ContactDecision, len(pairs))
	if hook == nil {
		for i := range decisions {
			decisions[i].Keep = true
		}
		return decisions, nil
	}

	call := func(i int) error {
		d, err := hook(&pairs[i])
		if err != nil {
			return fmt.Errorf("physics: contact hook on colliders %d/%d: %w", pairs[i].Collider1, pairs[i].Collider2, err)
		}
		decisions[i] = d
		return nil
	}

	if w.Workers <= 1 || len(pairs) < 2 {
		for i := range pairs {
			if err := call(i); err != nil {
				return nil, err
			}
		}
		return decisions, nil
	}

	var g errgroup.Group
	g.SetLimit(w.Workers)
	for i := range pairs {
		i := i
		g.Go(func() error { return call(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decisions, nil
}

func (w *World) integrateForces(dt float32) {
	for _, id := range w.bodyOrder {
		b := w.bodies[id]
		if b.Kind != BodyDynamic || b.IsSleeping {
			continue
		}
		b.LinearVelocity = b.LinearVelocity.Add(w.Gravity.Mul(b.GravityScale * dt))
	}
}

func (w *World) integratePositions(dt float32) {
	for _, id := range w.bodyOrder {
		b := w.bodies[id]
		if b.Kind == BodyStatic || b.IsSleeping {
			continue
		}
		b.Position = b.Position.Add(b.LinearVelocity.Mul(dt))
		b.integrateRotation(dt)
	}
}

// dispatchEvents fires enter/exit events against the previous step's pairs.
func (w *World) dispatchEvents(pairs []ContactPair) {
	current := make(map[pairKey]bool, len(pairs))
	for _, p := range pairs {
		key := makePair(p.Collider1, p.Collider2)
		current[key] = true
		if !w.active[key] {
			w.CollisionEnter.Invoke(ContactEvent{Collider1: key.a, Collider2: key.b})
		}
	}
	for key := range w.active {
		if !current[key] {
			w.CollisionExit.Invoke(ContactEvent{Collider1: key.a, Collider2: key.b})
		}
	}
	w.active = current
}
