package integrators

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
)

// SymplecticEuler updates velocity before position (semi-implicit Euler).
// Energy error stays bounded over long runs instead of growing.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }

// Step advances every body once using forces computed from a single snapshot
// of positions. forces must have one entry per body.
func (s *SymplecticEuler) Step(bodies []physics.Body, forces []mgl32.Vec2, dt float32) {
	for i := range bodies {
		b := &bodies[i]
		b.ApplyForce(forces[i])
		b.Vel = b.Vel.Add(b.Acc.Mul(dt))
		b.Pos = b.Pos.Add(b.Vel.Mul(dt))
		b.Acc = mgl32.Vec2{}
	}
}
