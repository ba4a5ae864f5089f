package physics

import "github.com/go-gl/mathgl/mgl32"

// BodyID identifies a rigid body inside a World. Zero is never assigned.
type BodyID uint32

// BodyKind selects how a body participates in the simulation.
type BodyKind int

const (
	// BodyStatic never moves.
	BodyStatic BodyKind = iota
	// BodyKinematic moves with its own velocity and is never pushed by contacts.
	BodyKinematic
	// BodyDynamic is driven by gravity, impulses and contacts.
	BodyDynamic
)

func (k BodyKind) String() string {
	switch k {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	}
	return "unknown"
}

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.3 // units/sec - below this, a body might sleep
	SleepAngularThreshold  = 0.1 // rad/sec
	SleepTimeThreshold     = 0.3 // seconds of low velocity before sleeping
)

// BodyDef describes a body to be added with World.AddBody.
type BodyDef struct {
	Kind            BodyKind
	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3
	Mass            float32
	IgnoreGravity   bool
	LockRotation    bool
	CanSleep        bool
}

// Body is the simulated state of one rigid body.
type Body struct {
	ID              BodyID
	Kind            BodyKind
	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3 // radians per second
	Mass            float32
	GravityScale    float32
	LockRotation    bool

	// Sleep state - sleeping bodies skip integration
	CanSleep   bool
	IsSleeping bool
	sleepTimer float32

	colliders []ColliderID
}

func newBody(id BodyID, def BodyDef) *Body {
	rot := def.Rotation
	if rot.W == 0 && rot.V == (mgl32.Vec3{}) {
		rot = mgl32.QuatIdent()
	}
	gravity := float32(1)
	if def.IgnoreGravity {
		gravity = 0
	}
	mass := def.Mass
	if def.Kind == BodyDynamic && mass <= 0 {
		mass = 1
	}
	return &Body{
		ID:              id,
		Kind:            def.Kind,
		Position:        def.Position,
		Rotation:        rot.Normalize(),
		LinearVelocity:  def.LinearVelocity,
		AngularVelocity: def.AngularVelocity,
		Mass:            mass,
		GravityScale:    gravity,
		LockRotation:    def.LockRotation,
		CanSleep:        def.CanSleep,
	}
}

// InverseMass is zero for static and kinematic bodies.
func (b *Body) InverseMass() float32 {
	if b.Kind != BodyDynamic || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// Colliders returns the colliders attached to the body.
func (b *Body) Colliders() []ColliderID {
	return b.colliders
}

// Wake forces the body out of sleep state
func (b *Body) Wake() {
	b.IsSleeping = false
	b.sleepTimer = 0
}

// TrySleep puts the body to sleep once it has been slow for long enough.
func (b *Body) TrySleep(deltaTime float32) {
	if b.Kind != BodyDynamic || !b.CanSleep || b.IsSleeping {
		return
	}

	if b.LinearVelocity.Len() < SleepVelocityThreshold && b.AngularVelocity.Len() < SleepAngularThreshold {
		b.sleepTimer += deltaTime
		if b.sleepTimer >= SleepTimeThreshold {
			b.IsSleeping = true
			b.LinearVelocity = mgl32.Vec3{}
			b.AngularVelocity = mgl32.Vec3{}
		}
		return
	}
	b.sleepTimer = 0
}

func (b *Body) integrateRotation(dt float32) {
	if b.LockRotation || b.Kind == BodyStatic {
		return
	}
	w := b.AngularVelocity
	if w.Len() == 0 {
		return
	}
	spin := mgl32.Quat{W: 0, V: w}.Mul(b.Rotation).Scale(0.5 * dt)
	b.Rotation = b.Rotation.Add(spin).Normalize()
}
