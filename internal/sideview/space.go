// Package sideview runs the locomotion injector on a Chipmunk space.
//
// The space works in screen pixels with Y pointing down. Everything that
// crosses into the locomotion packages is converted to world units with Y
// up, so the same Resolver, Injector and JumpSystem drive both front-ends.
package sideview

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
)

// PixelsPerUnit is the default world-to-screen scale.
const PixelsPerUnit = 32.0

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlayer
)

var ErrUnknownBody = errors.New("sideview: unknown body")

// Space adapts a cp.Space to locomotion.Engine.
type Space struct {
	PixelsPerUnit float64
	Verbose       bool

	space     *cp.Space
	bodies    map[physics.BodyID]*cp.Body
	bodyIDs   map[*cp.Body]physics.BodyID
	shapes    map[physics.ColliderID]*cp.Shape
	shapeIDs  map[*cp.Shape]physics.ColliderID
	nextBody  physics.BodyID
	nextShape physics.ColliderID
	steps     uint64

	// Surface targets are player velocities relative to their ground, in
	// world units. pending is filled by the pre-solve callback and becomes
	// applied at the start of the next step.
	players map[physics.ColliderID]bool
	pending map[physics.ColliderID]mgl32.Vec3
	applied map[physics.ColliderID]mgl32.Vec3

	// Per-step state written by the pre-solve callback.
	hook   physics.ContactHook
	report physics.StepReport
	jumped map[physics.ColliderID]bool
	err    error
}

func NewSpace() *Space {
	s := &Space{
		PixelsPerUnit: PixelsPerUnit,
		space:         cp.NewSpace(),
		bodies:        make(map[physics.BodyID]*cp.Body),
		bodyIDs:       make(map[*cp.Body]physics.BodyID),
		shapes:        make(map[physics.ColliderID]*cp.Shape),
		shapeIDs:      make(map[*cp.Shape]physics.ColliderID),
		players:       make(map[physics.ColliderID]bool),
		pending:       make(map[physics.ColliderID]mgl32.Vec3),
		applied:       make(map[physics.ColliderID]mgl32.Vec3),
	}
	s.space.Iterations = physics.DefaultIterations
	s.Configure(mgl32.Vec3{0, -9.81, 0}, 1)

	solid := s.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSolid)
	solid.UserData = s
	solid.PreSolveFunc = preSolve
	players := s.space.NewCollisionHandler(collisionTypePlayer, collisionTypePlayer)
	players.UserData = s
	players.PreSolveFunc = preSolve
	return s
}

// CP exposes the underlying space for drawing.
func (s *Space) CP() *cp.Space {
	return s.space
}

// ToScreen converts a world-space vector to screen pixels.
func (s *Space) ToScreen(v mgl32.Vec3) cp.Vector {
	return cp.Vector{X: float64(v.X()) * s.PixelsPerUnit, Y: -float64(v.Y()) * s.PixelsPerUnit}
}

// ToWorld converts screen pixels to world units.
func (s *Space) ToWorld(v cp.Vector) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X / s.PixelsPerUnit), float32(-v.Y / s.PixelsPerUnit), 0}
}

// direction converts a screen-space unit vector without scaling it.
func direction(v cp.Vector) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(-v.Y), 0}
}

// AddBox adds a box. Static and kinematic boxes take friction only; mass is
// ignored for them. The Z components of center, half and velocity are
// dropped.
func (s *Space) AddBox(kind physics.BodyKind, center, half, velocity mgl32.Vec3, mass, friction float32) (physics.BodyID, physics.ColliderID) {
	w := float64(half.X()) * 2 * s.PixelsPerUnit
	h := float64(half.Y()) * 2 * s.PixelsPerUnit

	var body *cp.Body
	switch kind {
	case physics.BodyStatic:
		body = cp.NewStaticBody()
	case physics.BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		if mass <= 0 {
			mass = 1
		}
		body = cp.NewBody(float64(mass), cp.MomentForBox(float64(mass), w, h))
	}
	body.SetPosition(s.ToScreen(center))
	body.SetVelocityVector(s.ToScreen(velocity))
	s.space.AddBody(body)

	shape := cp.NewBox(body, w, h, 0)
	shape.SetFriction(float64(friction))
	shape.SetCollisionType(collisionTypeSolid)
	s.space.AddShape(shape)
	return s.register(body, shape)
}

// AddPlayer adds a rotation-locked capsule standing along world Y.
func (s *Space) AddPlayer(center mgl32.Vec3, radius, halfHeight, mass, friction float32) (physics.BodyID, physics.ColliderID) {
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(float64(mass), math.Inf(1))
	body.SetPosition(s.ToScreen(center))
	s.space.AddBody(body)

	hh := float64(halfHeight) * s.PixelsPerUnit
	shape := cp.NewSegment(body, cp.Vector{Y: -hh}, cp.Vector{Y: hh}, float64(radius)*s.PixelsPerUnit)
	shape.SetFriction(float64(friction))
	shape.SetCollisionType(collisionTypePlayer)
	s.space.AddShape(shape)
	bid, cid := s.register(body, shape)
	s.players[cid] = true
	return bid, cid
}

func (s *Space) register(body *cp.Body, shape *cp.Shape) (physics.BodyID, physics.ColliderID) {
	s.nextBody++
	s.nextShape++
	s.bodies[s.nextBody] = body
	s.bodyIDs[body] = s.nextBody
	s.shapes[s.nextShape] = shape
	s.shapeIDs[shape] = s.nextShape
	return s.nextBody, s.nextShape
}

// Configure sets gravity. Chipmunk runs callbacks on one goroutine, so
// workers is ignored.
func (s *Space) Configure(gravity mgl32.Vec3, workers int) {
	s.space.SetGravity(s.ToScreen(gravity))
}

func kindOf(b *cp.Body) physics.BodyKind {
	switch b.GetType() {
	case cp.BODY_STATIC:
		return physics.BodyStatic
	case cp.BODY_KINEMATIC:
		return physics.BodyKinematic
	}
	return physics.BodyDynamic
}

// Body reports a body's state in world units.
func (s *Space) Body(id physics.BodyID) (physics.Body, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return physics.Body{}, false
	}
	rot, _ := s.BodyRotation(id)
	out := physics.Body{
		ID:             id,
		Kind:           kindOf(b),
		Position:       s.ToWorld(b.Position()),
		Rotation:       rot,
		LinearVelocity: s.ToWorld(b.Velocity()),
		IsSleeping:     b.IsSleeping(),
	}
	if out.Kind == physics.BodyDynamic {
		out.Mass = float32(b.Mass())
	}
	return out, true
}

// BodyRotation turns the body's screen angle into a rotation about world Z.
// The Y flip reverses the sense of the angle.
func (s *Space) BodyRotation(id physics.BodyID) (mgl32.Quat, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return mgl32.Quat{}, false
	}
	return mgl32.QuatRotate(float32(-b.Angle()), mgl32.Vec3{0, 0, 1}), true
}

// ApplyImpulse applies a world-space impulse at the body's center.
func (s *Space) ApplyImpulse(id physics.BodyID, impulse mgl32.Vec3) error {
	b, ok := s.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	if b.GetType() != cp.BODY_DYNAMIC {
		return fmt.Errorf("%w: %d is %s", physics.ErrNotDynamic, id, kindOf(b))
	}
	b.Activate()
	b.ApplyImpulseAtLocalPoint(s.ToScreen(impulse), cp.Vector{})
	return nil
}

// StepCount returns the number of completed steps.
func (s *Space) StepCount() uint64 {
	return s.steps
}

// SurfaceTarget returns the player velocity, relative to the ground, that
// drove the player's contacts during the last step.
func (s *Space) SurfaceTarget(id physics.ColliderID) (mgl32.Vec3, bool) {
	if !s.players[id] {
		return mgl32.Vec3{}, false
	}
	return s.applied[id], true
}

// Step advances the space by dt with hook installed as the pre-solve
// callback for player contacts. Chipmunk cannot abandon a step once it has
// started: a pair whose hook fails is ignored for this step and the first
// error is returned after the step completes.
//
// Chipmunk folds shape surface velocities into each arbiter before
// pre-solve runs, so the tangent the hook writes takes effect on the next
// step, as the player shape's surface velocity.
func (s *Space) Step(dt float32, hook physics.ContactHook) (physics.StepReport, error) {
	s.applySurfaceTargets()
	s.hook = hook
	s.report = physics.StepReport{Step: s.steps + 1}
	s.jumped = make(map[physics.ColliderID]bool)
	s.err = nil

	s.space.Step(float64(dt))
	s.steps++

	report, err := s.report, s.err
	s.hook = nil
	if err != nil {
		return report, err
	}
	if s.Verbose {
		log.Printf("Sideview: step %d, %d contact pairs (%d dropped)", s.steps, len(report.Contacts), report.Dropped)
	}
	return report, nil
}

// applySurfaceTargets moves pending targets onto the player shapes. cp
// drives the tangential part of vB - vA toward sA - sB, so whichever side
// the player lands on, a surface velocity of -target moves it at target
// relative to the other shape.
func (s *Space) applySurfaceTargets() {
	for id := range s.players {
		target := s.pending[id]
		s.applied[id] = target
		s.shapes[id].SetSurfaceV(s.ToScreen(target.Mul(-1)))
	}
	s.pending = make(map[physics.ColliderID]mgl32.Vec3, len(s.players))
}

func preSolve(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
	s, ok := userData.(*Space)
	if !ok || s == nil || s.hook == nil {
		return true
	}
	return s.modify(arb)
}

// modify builds a ContactPair for arb, runs the hook and records the tangent
// it wrote as the player's next surface target.
//
// cp's normal points from shape A to shape B. The pair orders colliders by
// ID, so flip is set when B becomes collider 1.
func (s *Space) modify(arb *cp.Arbiter) bool {
	a, b := arb.Shapes()
	idA, okA := s.shapeIDs[a]
	idB, okB := s.shapeIDs[b]
	if !okA || !okB {
		return true
	}

	flip := idB < idA
	normal := direction(arb.Normal()).Mul(-1)
	pair := physics.ContactPair{
		Collider1: idA,
		Collider2: idB,
		Body1:     s.bodyIDs[a.Body()],
		Body2:     s.bodyIDs[b.Body()],
	}
	if flip {
		normal = normal.Mul(-1)
		pair.Collider1, pair.Collider2 = idB, idA
		pair.Body1, pair.Body2 = pair.Body2, pair.Body1
	}

	m := physics.Manifold{Normal: normal, Friction: float32(a.Friction() * b.Friction())}
	set := arb.ContactPointSet()
	for i := 0; i < set.Count; i++ {
		p := set.Points[i]
		m.Points = append(m.Points, physics.ContactPoint{
			Point: s.ToWorld(p.PointA),
			Depth: float32(-p.Distance / s.PixelsPerUnit),
		})
	}
	pair.Manifolds = []physics.Manifold{m}

	dec, err := s.hook(&pair)
	if err != nil {
		if s.err == nil {
			s.err = fmt.Errorf("sideview: contact hook on colliders %d/%d: %w", pair.Collider1, pair.Collider2, err)
		}
		return false
	}
	if dec.GroundedJump != 0 && !s.jumped[dec.GroundedJump] {
		s.jumped[dec.GroundedJump] = true
		s.report.GroundedJumps = append(s.report.GroundedJumps, dec.GroundedJump)
	}
	if !dec.Keep {
		s.report.Dropped++
		return false
	}

	// TangentVelocity targets v1 - v2, so collider 2 sees it negated.
	tangent := pair.Manifolds[0].TangentVelocity
	if tangent.Len() > 0 {
		if s.players[pair.Collider1] {
			s.pending[pair.Collider1] = tangent
		}
		if s.players[pair.Collider2] {
			s.pending[pair.Collider2] = tangent.Mul(-1)
		}
	}
	s.report.Contacts = append(s.report.Contacts, pair)
	return true
}
