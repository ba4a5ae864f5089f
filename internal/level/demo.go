// Package level builds the demo scenes shared by the windowed and headless
// front-ends.
package level

import (
	"fmt"

	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Options controls the demo layout.
type Options struct {
	// FloorVelocity moves the floor as a kinematic body. Zero leaves it static.
	FloorVelocity mgl32.Vec3
	// Wall adds a static wall in front of the player.
	Wall bool
}

// DefaultOptions matches the classic scene: a floor drifting along +Z.
func DefaultOptions() Options {
	return Options{FloorVelocity: mgl32.Vec3{0, 0, 1}}
}

// Piece is one static or moving prop of the scene.
type Piece struct {
	Name     string
	Body     physics.BodyID
	Collider physics.ColliderID
}

// Demo is the built scene.
type Demo struct {
	Floor  Piece
	Wall   Piece
	Player Piece
	// Camera is the view rotation of a camera at CameraPosition looking at
	// the origin.
	Camera         mgl32.Quat
	CameraPosition mgl32.Vec3
}

// Pieces lists everything that should be drawn.
func (d Demo) Pieces() []Piece {
	out := []Piece{d.Floor}
	if d.Wall.Collider != 0 {
		out = append(out, d.Wall)
	}
	return append(out, d.Player)
}

// CameraDistance and CameraPitch place the camera at (0,5,5) looking at the
// origin.
const (
	CameraDistance = 7.0710678
	CameraPitch    = -45.0
)

// Build adds the demo bodies to world and registers the player.
func Build(world *physics.World, reg *locomotion.Registry, t config.Tuning, opts Options) (Demo, error) {
	var d Demo

	floorKind := physics.BodyStatic
	if opts.FloorVelocity != (mgl32.Vec3{}) {
		floorKind = physics.BodyKinematic
	}
	floor := world.AddBody(physics.BodyDef{Kind: floorKind, LinearVelocity: opts.FloorVelocity})
	fc, err := world.AddCollider(floor, physics.ColliderDef{
		Shape:    physics.Box(mgl32.Vec3{2.5, 0.5, 2.5}),
		Friction: t.Player.Friction,
	})
	if err != nil {
		return Demo{}, fmt.Errorf("level: floor: %w", err)
	}
	d.Floor = Piece{Name: "Floor", Body: floor, Collider: fc}

	if opts.Wall {
		wall := world.AddBody(physics.BodyDef{Kind: physics.BodyStatic, Position: mgl32.Vec3{0, 1.5, -2}})
		wc, err := world.AddCollider(wall, physics.ColliderDef{
			Shape:    physics.Box(mgl32.Vec3{2.5, 1, 0.25}),
			Friction: t.Player.Friction,
		})
		if err != nil {
			return Demo{}, fmt.Errorf("level: wall: %w", err)
		}
		d.Wall = Piece{Name: "Wall", Body: wall, Collider: wc}
	}

	player := world.AddBody(physics.BodyDef{
		Kind:         physics.BodyDynamic,
		Position:     mgl32.Vec3{0, 3, 0},
		Mass:         t.Player.Mass,
		LockRotation: true,
	})
	pc, err := world.AddCollider(player, physics.ColliderDef{
		Shape:    physics.Capsule(t.Player.Radius, t.Player.HalfHeight),
		Friction: t.Player.Friction,
	})
	if err != nil {
		return Demo{}, fmt.Errorf("level: player: %w", err)
	}
	if _, err := reg.Spawn(pc, player); err != nil {
		return Demo{}, fmt.Errorf("level: player: %w", err)
	}
	d.Player = Piece{Name: "Player", Body: player, Collider: pc}

	d.Camera = mgl32.QuatRotate(mgl32.DegToRad(CameraPitch), mgl32.Vec3{1, 0, 0})
	d.CameraPosition = d.Camera.Rotate(mgl32.Vec3{0, 0, CameraDistance})
	return d, nil
}
