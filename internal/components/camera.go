package components

import (
	"github.com/bravely-beep/beepcraft/internal/engine"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultOrbitDistance = 7.0710678
	DefaultOrbitPitch    = -45.0
	maxOrbitPitch        = 89.0
)

// PlayerCamera orbits a target point. Yaw turns about +Y and pitch about the
// camera's local X axis; both are in degrees. At yaw 0 the camera sits on the
// +Z side of the target and looks toward -Z.
type PlayerCamera struct {
	engine.BaseComponent
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
	FOV      float32

	// Follow, when set, moves Target to the object's position every update.
	Follow *engine.GameObject
	// Sensitivity is degrees of rotation per pixel of mouse motion.
	Sensitivity float32
}

func NewPlayerCamera() *PlayerCamera {
	return &PlayerCamera{
		Distance:    DefaultOrbitDistance,
		Pitch:       DefaultOrbitPitch,
		FOV:         45.0,
		Sensitivity: 0.2,
	}
}

// Rotation is the view rotation handed to the locomotion resolver.
func (c *PlayerCamera) Rotation() mgl32.Quat {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(c.Yaw), mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(mgl32.DegToRad(c.Pitch), mgl32.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Normalize()
}

// Position is the eye position.
func (c *PlayerCamera) Position() mgl32.Vec3 {
	return c.Target.Add(c.Rotation().Rotate(mgl32.Vec3{0, 0, c.Distance}))
}

// Forward is the view direction.
func (c *PlayerCamera) Forward() mgl32.Vec3 {
	return c.Rotation().Rotate(mgl32.Vec3{0, 0, -1})
}

// Orbit turns the camera by a mouse delta in pixels. Pitch is clamped short
// of straight up and straight down.
func (c *PlayerCamera) Orbit(dx, dy float32) {
	c.Yaw -= dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -maxOrbitPitch, maxOrbitPitch)
	for c.Yaw >= 360 {
		c.Yaw -= 360
	}
	for c.Yaw < 0 {
		c.Yaw += 360
	}
}

func (c *PlayerCamera) Update(deltaTime float32) {
	if c.Follow != nil {
		c.Target = c.Follow.Transform.Position
	}
}
