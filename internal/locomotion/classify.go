package locomotion

import "github.com/go-gl/mathgl/mgl32"

// DefaultGroundThreshold is the cosine of the steepest walkable slope.
const DefaultGroundThreshold = 0.95

// Side says which collider of a pair is the player. Manifold normals point
// from collider 2 toward collider 1, so multiplying by Side yields the
// normal pointing away from the other surface toward the player.
type Side int8

const (
	SideCollider1 Side = 1
	SideCollider2 Side = -1
)

type Classification int

const (
	NonGround Classification = iota
	Ground
)

func (c Classification) String() string {
	if c == Ground {
		return "ground"
	}
	return "non-ground"
}

// Classifier decides whether a contact normal supports the player.
type Classifier struct {
	Up        mgl32.Vec3
	Threshold float32
}

func DefaultClassifier() Classifier {
	return Classifier{Up: mgl32.Vec3{0, 1, 0}, Threshold: DefaultGroundThreshold}
}

func (c Classifier) Classify(normal mgl32.Vec3, side Side) Classification {
	return Classify(normal, side, c.Up, c.Threshold)
}

// Classify returns Ground iff dot(side*normal, up) > threshold. Zero or NaN
// normals are never ground.
func Classify(normal mgl32.Vec3, side Side, up mgl32.Vec3, threshold float32) Classification {
	if normal.Mul(float32(side)).Dot(up) > threshold {
		return Ground
	}
	return NonGround
}
