package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Energy returns total kinetic plus potential energy. Sums are carried in
// float64 so that drift measurements are not dominated by accumulation error.
func (f *ForceField) Energy(bodies []Body) float64 {
	return KineticEnergy(bodies) + f.PotentialEnergy(bodies)
}

func KineticEnergy(bodies []Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		vx, vy := float64(b.Vel.X()), float64(b.Vel.Y())
		ke += 0.5 * float64(b.Mass) * (vx*vx + vy*vy)
	}
	return ke
}

// PotentialEnergy uses the same softened distance as the force calculation.
func (f *ForceField) PotentialEnergy(bodies []Body) float64 {
	pe := 0.0
	soft := float64(f.Softening)
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			dx := float64(bodies[j].Pos.X()) - float64(bodies[i].Pos.X())
			dy := float64(bodies[j].Pos.Y()) - float64(bodies[i].Pos.Y())
			r2 := math.Max(dx*dx+dy*dy, soft)
			pe -= float64(f.G) * float64(bodies[i].Mass) * float64(bodies[j].Mass) / math.Sqrt(r2)
		}
	}
	return pe
}

func Momentum(bodies []Body) (px, py float64) {
	for _, b := range bodies {
		px += float64(b.Mass) * float64(b.Vel.X())
		py += float64(b.Mass) * float64(b.Vel.Y())
	}
	return
}

// CenterOfMass returns the mass-weighted mean position, or the origin for an
// empty system.
func CenterOfMass(bodies []Body) mgl32.Vec2 {
	var total float64
	var cx, cy float64
	for _, b := range bodies {
		m := float64(b.Mass)
		total += m
		cx += m * float64(b.Pos.X())
		cy += m * float64(b.Pos.Y())
	}
	if total == 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{float32(cx / total), float32(cy / total)}
}
