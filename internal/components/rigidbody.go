package components

import (
	"github.com/bravely-beep/beepcraft/internal/engine"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// BodyReader is the read side of a physics world.
type BodyReader interface {
	Body(id physics.BodyID) (physics.Body, bool)
}

// Rigidbody mirrors a physics body onto its GameObject's transform.
type Rigidbody struct {
	engine.BaseComponent
	Body  physics.BodyID
	World BodyReader

	// Velocity is the body's linear velocity as of the last sync.
	Velocity   mgl32.Vec3
	IsSleeping bool
}

func NewRigidbody(world BodyReader, body physics.BodyID) *Rigidbody {
	return &Rigidbody{World: world, Body: body}
}

func (r *Rigidbody) Start() {
	r.Sync()
}

func (r *Rigidbody) Update(deltaTime float32) {
	r.Sync()
}

// Sync copies the body's pose into the transform. It reports false when the
// body no longer exists.
func (r *Rigidbody) Sync() bool {
	g := r.GetGameObject()
	if g == nil || r.World == nil {
		return false
	}
	b, ok := r.World.Body(r.Body)
	if !ok {
		return false
	}
	g.Transform.Position = b.Position
	g.Transform.Rotation = b.Rotation
	r.Velocity = b.LinearVelocity
	r.IsSleeping = b.IsSleeping
	return true
}
