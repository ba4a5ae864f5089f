package physics

import "github.com/go-gl/mathgl/mgl32"

const (
	// DefaultIterations is the number of velocity solver passes per step.
	DefaultIterations = 10

	restitutionThreshold = 1.0   // approach speeds below this never bounce
	positionSlop         = 0.005 // allowed penetration before correction
	positionCorrection   = 0.8   // fraction of remaining penetration removed per step
)

func (w *World) effectiveInverseMass(b *Body) float32 {
	if b.IsSleeping {
		return 0
	}
	return b.InverseMass()
}

// prepareContacts wakes sleepers touched by moving bodies and records the
// restitution target of each manifold from the pre-solve approach speed.
func (w *World) prepareContacts(pairs []ContactPair) {
	for i := range pairs {
		p := &pairs[i]
		b1, b2 := w.bodies[p.Body1], w.bodies[p.Body2]
		wakeIfPushed(b1, b2)
		wakeIfPushed(b2, b1)

		for j := range p.Manifolds {
			m := &p.Manifolds[j]
			m.normalImpulse = 0
			m.tangentImpulse = mgl32.Vec3{}
			m.bounce = 0
			vn := b1.LinearVelocity.Sub(b2.LinearVelocity).Dot(m.Normal)
			if vn < -restitutionThreshold {
				m.bounce = -m.Restitution * vn
			}
		}
	}
}

func wakeIfPushed(sleeper, other *Body) {
	if !sleeper.IsSleeping {
		return
	}
	if other.Kind == BodyDynamic && !other.IsSleeping {
		sleeper.Wake()
		return
	}
	if other.Kind == BodyKinematic && other.LinearVelocity.Len() > SleepVelocityThreshold {
		sleeper.Wake()
	}
}

// solveVelocities runs sequential impulses over every manifold. Friction is
// Coulomb-clamped and drives the tangential relative velocity toward the
// manifold's TangentVelocity.
func (w *World) solveVelocities(pairs []ContactPair) {
	for it := 0; it < w.Iterations; it++ {
		for i := range pairs {
			p := &pairs[i]
			b1, b2 := w.bodies[p.Body1], w.bodies[p.Body2]
			im1, im2 := w.effectiveInverseMass(b1), w.effectiveInverseMass(b2)
			sum := im1 + im2
			if sum == 0 {
				continue
			}

			apply := func(impulse mgl32.Vec3) {
				b1.LinearVelocity = b1.LinearVelocity.Add(impulse.Mul(im1))
				b2.LinearVelocity = b2.LinearVelocity.Sub(impulse.Mul(im2))
			}

			for j := range p.Manifolds {
				m := &p.Manifolds[j]
				n := m.Normal

				// Normal
				vn := b1.LinearVelocity.Sub(b2.LinearVelocity).Dot(n)
				lambda := (m.bounce - vn) / sum
				acc := m.normalImpulse + lambda
				if acc < 0 {
					acc = 0
				}
				lambda = acc - m.normalImpulse
				m.normalImpulse = acc
				apply(n.Mul(lambda))

				// Friction
				rel := b1.LinearVelocity.Sub(b2.LinearVelocity)
				target := m.TangentVelocity.Sub(n.Mul(m.TangentVelocity.Dot(n)))
				vt := rel.Sub(n.Mul(rel.Dot(n))).Sub(target)
				step := vt.Mul(-1 / sum)

				maxFriction := m.Friction * m.normalImpulse
				total := m.tangentImpulse.Add(step)
				if l := total.Len(); l > maxFriction && l > 0 {
					total = total.Mul(maxFriction / l)
				}
				step = total.Sub(m.tangentImpulse)
				m.tangentImpulse = total
				apply(step)
			}
		}
	}
}

// correctPositions pushes overlapping bodies apart along the contact normal.
func (w *World) correctPositions(pairs []ContactPair) {
	for i := range pairs {
		p := &pairs[i]
		b1, b2 := w.bodies[p.Body1], w.bodies[p.Body2]
		im1, im2 := w.effectiveInverseMass(b1), w.effectiveInverseMass(b2)
		sum := im1 + im2
		if sum == 0 {
			continue
		}
		for j := range p.Manifolds {
			m := &p.Manifolds[j]
			excess := m.Depth() - positionSlop
			if excess <= 0 {
				continue
			}
			push := m.Normal.Mul(excess * positionCorrection / sum)
			b1.Position = b1.Position.Add(push.Mul(im1))
			b2.Position = b2.Position.Sub(push.Mul(im2))
		}
	}
}
