package locomotion

import (
	"log"

	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultJumpSpeed is the upward launch speed in units per second.
const DefaultJumpSpeed = 5.0

// Impulser is the part of a physics world the JumpSystem needs.
type Impulser interface {
	Body(id physics.BodyID) (physics.Body, bool)
	ApplyImpulse(id physics.BodyID, impulse mgl32.Vec3) error
}

// JumpSystem launches players whose jump intent met a ground contact.
type JumpSystem struct {
	Speed float32
	Up    mgl32.Vec3
}

// Apply launches each grounded jumper named in report once and returns how
// many jumped. The impulse tops the velocity along up to Speed.
func (j *JumpSystem) Apply(world Impulser, report physics.StepReport, reg *Registry) int {
	up := normalizeOrZero(j.Up)
	jumped := 0
	for _, collider := range report.GroundedJumps {
		if _, ok := reg.Lookup(collider); !ok {
			continue
		}
		id, _ := reg.Body(collider)
		body, ok := world.Body(id)
		if !ok {
			continue
		}
		rise := j.Speed - body.LinearVelocity.Dot(up)
		if rise <= 0 {
			continue
		}
		if err := world.ApplyImpulse(id, up.Mul(rise*body.Mass)); err != nil {
			log.Printf("Locomotion: jump for collider %d: %v", collider, err)
			continue
		}
		jumped++
	}
	return jumped
}

// Consume clears every player's jump intent.
func (j *JumpSystem) Consume(reg *Registry) {
	reg.Each(func(_ physics.ColliderID, _ physics.BodyID, s *State) {
		s.JumpIntent = false
	})
}
