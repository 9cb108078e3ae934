package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// TimeStep is the fixed integration step. It does not depend on frame timing.
	TimeStep float32 = 0.01

	// DisplayScale converts normalized document units into simulation units.
	DisplayScale float32 = 250

	// G is the gravitational constant in simulation units. Scaling it with the
	// cube of DisplayScale keeps orbits from normalized documents unchanged in shape
	// and period.
	G float32 = DisplayScale * DisplayScale * DisplayScale

	// Softening is the minimum squared distance used by the force calculation.
	Softening float32 = 5.0

	// RadiusScale multiplies sqrt(mass/pi) to produce the visual radius.
	RadiusScale float32 = 20

	// HitMargin widens the visual radius when testing a pointer against a body.
	HitMargin float32 = 1
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Normalized returns the channels mapped to [0, 1].
func (c Color) Normalized() [3]float32 {
	return [3]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
	}
}

// Body is a point mass. Acc only holds a value while forces are being
// folded in during a step; it is zero between ticks.
type Body struct {
	Pos   mgl32.Vec2
	Vel   mgl32.Vec2
	Acc   mgl32.Vec2
	Mass  float32
	Color Color
}

func NewBody(pos, vel mgl32.Vec2, mass float32, color Color) Body {
	return Body{
		Pos:   pos,
		Vel:   vel,
		Mass:  mass,
		Color: color,
	}
}

// ApplyForce folds a force into the acceleration accumulator.
func (b *Body) ApplyForce(force mgl32.Vec2) {
	b.Acc = b.Acc.Add(force.Mul(1 / b.Mass))
}

// Radius returns the drawn radius for a body of the given mass.
func Radius(mass, scale float32) float32 {
	return scale * float32(math.Sqrt(float64(mass)/math.Pi))
}

// Contains reports whether p lies inside the body's visual radius widened by margin.
func (b Body) Contains(p mgl32.Vec2, radiusScale, margin float32) bool {
	return b.Pos.Sub(p).Len() < Radius(b.Mass, radiusScale)+margin
}

// Clone returns an independent copy of bodies.
func Clone(bodies []Body) []Body {
	if bodies == nil {
		return nil
	}
	c := make([]Body, len(bodies))
	copy(c, bodies)
	return c
}
