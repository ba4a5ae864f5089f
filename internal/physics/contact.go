package physics

import "github.com/go-gl/mathgl/mgl32"

// ContactPoint is one point of a manifold, in world space.
type ContactPoint struct {
	Point mgl32.Vec3
	Depth float32
}

// Manifold is a set of contact points sharing one normal.
//
// Normal is unit length and points from the pair's second collider toward
// its first. TangentVelocity is the world-space target for the tangential
// part of (velocity of body 1 - velocity of body 2) at the contact; the
// solver's friction drives the relative velocity toward it. Hooks may
// overwrite TangentVelocity, Friction and Restitution.
type Manifold struct {
	Normal          mgl32.Vec3
	Points          []ContactPoint
	Friction        float32
	Restitution     float32
	TangentVelocity mgl32.Vec3

	normalImpulse  float32
	tangentImpulse mgl32.Vec3
	bounce         float32
}

// Depth returns the deepest penetration of the manifold.
func (m *Manifold) Depth() float32 {
	var d float32
	for _, p := range m.Points {
		if p.Depth > d {
			d = p.Depth
		}
	}
	return d
}

// ContactPair is the narrow-phase result for two colliders touching in a
// step. Collider1 always has the smaller ID.
type ContactPair struct {
	Collider1 ColliderID
	Collider2 ColliderID
	Body1     BodyID
	Body2     BodyID
	Manifolds []Manifold
}

// ContactDecision is what a hook returns for one pair.
type ContactDecision struct {
	// Keep false drops the pair from the solver for this step.
	Keep bool
	// GroundedJump names a collider whose pending jump is satisfied by a
	// ground contact in this pair. Zero means none.
	GroundedJump ColliderID
}

// ContactHook is invoked once per pair per step, after narrow-phase and
// before the solver. Hooks may run concurrently on different pairs; each
// invocation owns only its pair. A returned error aborts the step.
type ContactHook func(pair *ContactPair) (ContactDecision, error)

// StepReport summarises one World.Step.
type StepReport struct {
	Step          uint64
	Contacts      []ContactPair
	Dropped       int
	GroundedJumps []ColliderID
}

// ContactEvent is raised when two colliders start or stop touching.
type ContactEvent struct {
	Collider1 ColliderID
	Collider2 ColliderID
}

type pairKey struct {
	a, b ColliderID
}

// makePair creates a consistent collision pair (smaller ID first)
func makePair(a, b ColliderID) pairKey {
	if a > b {
		return pairKey{a: b, b: a}
	}
	return pairKey{a: a, b: b}
}
