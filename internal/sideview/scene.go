package sideview

import (
	"fmt"

	"github.com/bravely-beep/beepcraft/internal/config"
	"github.com/bravely-beep/beepcraft/internal/locomotion"
	"github.com/bravely-beep/beepcraft/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

type SceneOptions struct {
	// Width of the ground in world units.
	Width float32
	// GroundVelocity makes the ground a kinematic conveyor when non-zero.
	GroundVelocity mgl32.Vec3
	// Wall adds a wall to the right of the player.
	Wall bool
	// Ledge adds a raised static block to jump onto.
	Ledge bool
}

func DefaultSceneOptions() SceneOptions {
	return SceneOptions{Width: 18, Wall: true, Ledge: true}
}

type Piece struct {
	Body     physics.BodyID
	Collider physics.ColliderID
}

// Scene is the side-on level. Its ground top sits at world y=0.
type Scene struct {
	Ground Piece
	Wall   Piece
	Ledge  Piece
	Player Piece
	// Camera looks along -Z, so left and right input walk along X.
	Camera mgl32.Quat
}

// RestHeight is the player center height when standing on the ground.
func RestHeight(t config.Tuning) float32 {
	return t.Player.HalfHeight + t.Player.Radius
}

func BuildScene(s *Space, reg *locomotion.Registry, t config.Tuning, opts SceneOptions) (Scene, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultSceneOptions().Width
	}
	sc := Scene{Camera: mgl32.QuatIdent()}

	kind := physics.BodyStatic
	if opts.GroundVelocity != (mgl32.Vec3{}) {
		kind = physics.BodyKinematic
	}
	sc.Ground.Body, sc.Ground.Collider = s.AddBox(kind,
		mgl32.Vec3{0, -0.5, 0}, mgl32.Vec3{opts.Width / 2, 0.5, 0}, opts.GroundVelocity, 0, 1)

	if opts.Wall {
		sc.Wall.Body, sc.Wall.Collider = s.AddBox(physics.BodyStatic,
			mgl32.Vec3{opts.Width/2 - 0.5, 2, 0}, mgl32.Vec3{0.5, 2, 0}, mgl32.Vec3{}, 0, 1)
	}
	if opts.Ledge {
		sc.Ledge.Body, sc.Ledge.Collider = s.AddBox(physics.BodyStatic,
			mgl32.Vec3{-opts.Width / 4, 0.4, 0}, mgl32.Vec3{1.5, 0.4, 0}, mgl32.Vec3{}, 0, 1)
	}

	sc.Player.Body, sc.Player.Collider = s.AddPlayer(mgl32.Vec3{0, RestHeight(t), 0},
		t.Player.Radius, t.Player.HalfHeight, t.Player.Mass, t.Player.Friction)
	if _, err := reg.Spawn(sc.Player.Collider, sc.Player.Body); err != nil {
		return Scene{}, fmt.Errorf("sideview: player: %w", err)
	}
	return sc, nil
}
