package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

func body(x, y, vx, vy, m float32, r, g, b uint8) physics.Body {
	return physics.NewBody(mgl32.Vec2{x, y}, mgl32.Vec2{vx, vy}, m, physics.Color{R: r, G: g, B: b})
}

// Presets hold built-in configurations in normalized units with G = 1.
var Presets = map[string][]physics.Body{
	// Chenciner-Montgomery periodic solution.
	"figure-eight": {
		body(0.97000436, -0.24308753, 0.466203685, 0.43236573, 1, 230, 80, 80),
		body(-0.97000436, 0.24308753, 0.466203685, 0.43236573, 1, 80, 200, 120),
		body(0, 0, -0.93240737, -0.86473146, 1, 90, 140, 240),
	},
	"binary": {
		body(-0.5, 0, 0, -0.70710678, 1, 250, 200, 90),
		body(0.5, 0, 0, 0.70710678, 1, 120, 170, 250),
	},
	"sun-planet": {
		body(0, 0, 0, -0.031622777, 10, 255, 210, 60),
		body(1, 0, 0, 3.1622777, 0.1, 80, 160, 255),
	},
	"lagrange": {
		body(0, 0.6, -0.98097, 0, 1, 240, 90, 90),
		body(-0.519615, -0.3, 0.490485, -0.849545, 1, 90, 240, 90),
		body(0.519615, -0.3, 0.490485, 0.849545, 1, 90, 90, 240),
	},
}

// GetPreset returns a copy of the named preset multiplied into simulation
// units by scale.
func GetPreset(name string, scale float32) ([]physics.Body, error) {
	bodies, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	scaled := physics.Clone(bodies)
	for i := range scaled {
		scaled[i].Pos = scaled[i].Pos.Mul(scale)
		scaled[i].Vel = scaled[i].Vel.Mul(scale)
	}
	return scaled, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
