package locomotion

import (
	"fmt"

	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Injector rewrites the tangent velocity of player ground contacts.
type Injector struct {
	Classifier Classifier
}

// Modify inspects one contact pair. Pairs without a player pass through
// untouched. For the player side it overwrites TangentVelocity on every
// ground manifold and leaves other manifolds alone. A pair with players on
// both sides returns ErrPlayerContact.
//
// Modify only writes to pair, so it may run concurrently on distinct pairs.
func (in *Injector) Modify(pair *physics.ContactPair, lookup StateLookup) (physics.ContactDecision, error) {
	dec := physics.ContactDecision{Keep: true}

	s1, ok1 := lookup.Lookup(pair.Collider1)
	s2, ok2 := lookup.Lookup(pair.Collider2)

	var state *State
	var side Side
	var player physics.ColliderID
	switch {
	case ok1 && ok2:
		return dec, fmt.Errorf("%w: colliders %d and %d", ErrPlayerContact, pair.Collider1, pair.Collider2)
	case ok1:
		state, side, player = s1, SideCollider1, pair.Collider1
	case ok2:
		state, side, player = s2, SideCollider2, pair.Collider2
	default:
		return dec, nil
	}

	for i := range pair.Manifolds {
		m := &pair.Manifolds[i]
		if in.Classifier.Classify(m.Normal, side) != Ground {
			continue
		}
		m.TangentVelocity = TangentTarget(state.DesiredVelocity, m.Normal, side)
		if state.JumpIntent {
			dec.GroundedJump = player
		}
	}
	return dec, nil
}

// Hook adapts Modify to a physics.ContactHook.
func (in *Injector) Hook(lookup StateLookup) physics.ContactHook {
	return func(pair *physics.ContactPair) (physics.ContactDecision, error) {
		return in.Modify(pair, lookup)
	}
}

// TangentTarget converts a desired player velocity into the manifold's
// tangent velocity: the part of v in the contact plane, signed so the solver
// drives the player (not the surface) along it.
func TangentTarget(v, normal mgl32.Vec3, side Side) mgl32.Vec3 {
	n := normal.Mul(float32(side))
	t := v.Sub(n.Mul(v.Dot(n)))
	return t.Mul(float32(side))
}
