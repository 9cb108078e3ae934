package integrators

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
)

// Euler is the explicit (forward) scheme: position advances with the old
// velocity. It drifts in energy and is kept for comparison only.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(bodies []physics.Body, forces []mgl32.Vec2, dt float32) {
	for i := range bodies {
		b := &bodies[i]
		b.ApplyForce(forces[i])
		b.Pos = b.Pos.Add(b.Vel.Mul(dt))
		b.Vel = b.Vel.Add(b.Acc.Mul(dt))
		b.Acc = mgl32.Vec2{}
	}
}
