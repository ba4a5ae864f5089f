package components

import (
	"github.com/bravely-beep/beepcraft/internal/engine"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Player marks the GameObject driven by the locomotion registry.
type Player struct {
	engine.BaseComponent
	Collider physics.ColliderID
	Registry *locomotion.Registry
}

func NewPlayer(reg *locomotion.Registry, collider physics.ColliderID) *Player {
	return &Player{Registry: reg, Collider: collider}
}

// State returns a copy of the player's locomotion state.
func (p *Player) State() (locomotion.State, bool) {
	s, ok := p.Registry.Lookup(p.Collider)
	if !ok {
		return locomotion.State{}, false
	}
	return *s, true
}

// DesiredVelocity is the walk velocity the player is asking for.
func (p *Player) DesiredVelocity() mgl32.Vec3 {
	s, _ := p.State()
	return s.DesiredVelocity
}

// Registered reports whether the player is still in the registry.
func (p *Player) Registered() bool {
	_, ok := p.Registry.Lookup(p.Collider)
	return ok
}
