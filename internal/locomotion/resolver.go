package locomotion

import (
	"github.com/bravely-beep/beepcraft/internal/input"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaxWalkSpeed is the walking speed in units per second.
const DefaultMaxWalkSpeed = 2.0

// Orientations reports the rotation of a player body.
type Orientations interface {
	BodyRotation(id physics.BodyID) (mgl32.Quat, bool)
}

// Resolver turns input into each player's desired velocity and jump intent.
type Resolver struct {
	Registry     *Registry
	MaxWalkSpeed float32
	Up           mgl32.Vec3
}

// Resolution is the outcome of one control tick.
type Resolution struct {
	// Direction is the unit (or zero) horizontal walk direction.
	Direction mgl32.Vec3
	// Velocity is Direction scaled by the walk speed, before any body rotation.
	Velocity mgl32.Vec3
	Jump     bool
	Players  int
}

// Resolve writes State for every registered player. It returns false and
// leaves all state untouched when there is no camera.
func (r *Resolver) Resolve(snap input.Snapshot, camera *mgl32.Quat, bodies Orientations) (Resolution, bool) {
	if camera == nil {
		return Resolution{}, false
	}

	forward, right := HorizontalBasis(*camera, r.Up)
	dir := WalkDirection(snap.Held, forward, right)
	res := Resolution{
		Direction: dir,
		Velocity:  dir.Mul(r.MaxWalkSpeed),
		Jump:      snap.Pressed.Has(input.ActionJump),
	}

	if r.Registry == nil {
		return res, true
	}
	r.Registry.Each(func(_ physics.ColliderID, body physics.BodyID, s *State) {
		rot := mgl32.QuatIdent()
		if bodies != nil {
			if q, ok := bodies.BodyRotation(body); ok {
				rot = q
			}
		}
		s.DesiredVelocity = rot.Rotate(res.Velocity)
		s.JumpIntent = res.Jump
		res.Players++
	})
	return res, true
}

// HorizontalBasis returns the camera's forward and right directions with the
// pitch and roll removed. When the camera looks straight along up, its own up
// vector stands in for forward. Both results are zero if no horizontal
// direction can be recovered.
func HorizontalBasis(camera mgl32.Quat, up mgl32.Vec3) (forward, right mgl32.Vec3) {
	up = normalizeOrZero(up)
	if up == (mgl32.Vec3{}) {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}

	forward = flatten(camera.Rotate(mgl32.Vec3{0, 0, -1}), up)
	if forward == (mgl32.Vec3{}) {
		forward = flatten(camera.Rotate(mgl32.Vec3{0, 1, 0}), up)
	}
	if forward == (mgl32.Vec3{}) {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	return forward, forward.Cross(up)
}

// WalkDirection sums the held movement actions and normalizes the result.
// Opposing actions cancel to exactly zero.
func WalkDirection(held input.ActionSet, forward, right mgl32.Vec3) mgl32.Vec3 {
	var dir mgl32.Vec3
	if held.Has(input.ActionForward) {
		dir = dir.Add(forward)
	}
	if held.Has(input.ActionBack) {
		dir = dir.Sub(forward)
	}
	if held.Has(input.ActionLeft) {
		dir = dir.Sub(right)
	}
	if held.Has(input.ActionRight) {
		dir = dir.Add(right)
	}
	return normalizeOrZero(dir)
}

func flatten(v, up mgl32.Vec3) mgl32.Vec3 {
	return normalizeOrZero(v.Sub(up.Mul(v.Dot(up))))
}

const minDirectionLength = 1e-4

func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if !(l > minDirectionLength) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}
