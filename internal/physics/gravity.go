package physics

import "github.com/go-gl/mathgl/mgl32"

// ForceField computes pairwise Newtonian gravity between bodies.
type ForceField struct {
	G         float32
	Softening float32
}

func NewForceField() *ForceField {
	return &ForceField{G: G, Softening: Softening}
}

// NewScaledForceField derives G from a display scale the same way G is derived
// from DisplayScale.
func NewScaledForceField(displayScale, softening float32) *ForceField {
	return &ForceField{
		G:         displayScale * displayScale * displayScale,
		Softening: softening,
	}
}

// Forces returns the net force on every body for the current positions.
// Each unordered pair is visited once and contributes equal and opposite forces.
func (f *ForceField) Forces(bodies []Body) []mgl32.Vec2 {
	forces := make([]mgl32.Vec2, len(bodies))
	f.Accumulate(bodies, forces)
	return forces
}

// Accumulate is Forces writing into a caller-owned buffer, which is zeroed first.
func (f *ForceField) Accumulate(bodies []Body, forces []mgl32.Vec2) {
	for i := range forces {
		forces[i] = mgl32.Vec2{}
	}

	n := len(bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			force := f.Pair(bodies[i], bodies[j])
			forces[i] = forces[i].Add(force)
			forces[j] = forces[j].Sub(force)
		}
	}
}

// Pair returns the force body a feels from body b.
func (f *ForceField) Pair(a, b Body) mgl32.Vec2 {
	dir := b.Pos.Sub(a.Pos)
	distSq := dir.LenSqr()
	if distSq == 0 {
		// coincident bodies have no direction
		return mgl32.Vec2{}
	}
	if distSq < f.Softening {
		distSq = f.Softening
	}
	mag := f.G * (a.Mass * b.Mass) / distSq
	return dir.Normalize().Mul(mag)
}
