package components

import (
	"github.com/bravely-beep/beepcraft/internal/engine"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// ColliderSource is the collider query side of a physics world.
type ColliderSource interface {
	Collider(id physics.ColliderID) (physics.Collider, bool)
	ColliderPose(id physics.ColliderID) (mgl32.Vec3, mgl32.Quat, bool)
}

// Collider links a GameObject to one physics collider.
type Collider struct {
	engine.BaseComponent
	ID    physics.ColliderID
	World ColliderSource

	// Touching counts the colliders currently in contact.
	Touching int
}

func NewCollider(world ColliderSource, id physics.ColliderID) *Collider {
	return &Collider{World: world, ID: id}
}

// Shape returns the collider's geometry.
func (c *Collider) Shape() (physics.Shape, bool) {
	col, ok := c.World.Collider(c.ID)
	if !ok {
		return physics.Shape{}, false
	}
	return col.Shape, true
}

// Pose returns the world-space center and rotation of the collider.
func (c *Collider) Pose() (mgl32.Vec3, mgl32.Quat, bool) {
	return c.World.ColliderPose(c.ID)
}

// OnCollisionEnter and OnCollisionExit keep Touching current. They are
// meant to be registered on the world's collision events.
func (c *Collider) OnCollisionEnter(e physics.ContactEvent) {
	if e.Collider1 == c.ID || e.Collider2 == c.ID {
		c.Touching++
	}
}

func (c *Collider) OnCollisionExit(e physics.ContactEvent) {
	if (e.Collider1 == c.ID || e.Collider2 == c.ID) && c.Touching > 0 {
		c.Touching--
	}
}
