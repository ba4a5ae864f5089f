// Package locomotion turns player input into contact-level walking and
// jumping for a rigid-body player.
//
// Each control tick the Resolver writes the desired velocity and jump intent
// of every registered player. During the following physics step the Injector
// rewrites the tangent velocity of the player's ground contacts so the
// solver's friction walks the body, and reports jump eligibility back to the
// JumpSystem. Simulation sequences the two.
package locomotion

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrPlayerLimit is returned when spawning more players than the
	// registry allows.
	ErrPlayerLimit = errors.New("locomotion: player limit reached")
	// ErrInvalidCollider is returned for a zero collider id.
	ErrInvalidCollider = errors.New("locomotion: invalid collider")
	// ErrPlayerContact reports a contact pair with a player on both sides.
	ErrPlayerContact = errors.New("locomotion: contact between two players")
)

// State is the per-player locomotion state written by the Resolver and read
// by the Injector.
type State struct {
	DesiredVelocity mgl32.Vec3
	JumpIntent      bool
}

// StateLookup resolves a collider to a player's state. Implementations must
// be safe for concurrent reads.
type StateLookup interface {
	Lookup(id physics.ColliderID) (*State, bool)
}

type entry struct {
	state *State
	body  physics.BodyID
}

// Registry maps player colliders to their locomotion state. It is written
// only between physics steps.
type Registry struct {
	limit   int
	players map[physics.ColliderID]entry
}

// NewRegistry returns a registry that accepts a single player.
func NewRegistry() *Registry {
	return &Registry{limit: 1, players: make(map[physics.ColliderID]entry)}
}

// Spawn registers a player collider and the body it belongs to. State starts
// at zero.
func (r *Registry) Spawn(id physics.ColliderID, body physics.BodyID) (*State, error) {
	if id == 0 {
		return nil, ErrInvalidCollider
	}
	if _, exists := r.players[id]; exists {
		return nil, fmt.Errorf("locomotion: collider %d already registered", id)
	}
	if len(r.players) >= r.limit {
		return nil, fmt.Errorf("%w: cannot add collider %d", ErrPlayerLimit, id)
	}
	s := &State{}
	r.players[id] = entry{state: s, body: body}
	return s, nil
}

func (r *Registry) Despawn(id physics.ColliderID) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	return true
}

func (r *Registry) Lookup(id physics.ColliderID) (*State, bool) {
	e, ok := r.players[id]
	if !ok {
		return nil, false
	}
	return e.state, true
}

// Body returns the body a player collider is attached to.
func (r *Registry) Body(id physics.ColliderID) (physics.BodyID, bool) {
	e, ok := r.players[id]
	return e.body, ok
}

func (r *Registry) Len() int {
	return len(r.players)
}

// Each visits players in collider order.
func (r *Registry) Each(fn func(id physics.ColliderID, body physics.BodyID, s *State)) {
	ids := make([]physics.ColliderID, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		e := r.players[id]
		fn(id, e.body, e.state)
	}
}
