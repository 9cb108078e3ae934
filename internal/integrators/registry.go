package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// Integrator advances bodies by one tick from their net forces and leaves
// every acceleration accumulator zeroed.
type Integrator interface {
	Name() string
	Step(bodies []physics.Body, forces []mgl32.Vec2, dt float32)
}

var registry = map[string]func() Integrator{
	"symplectic": func() Integrator { return NewSymplecticEuler() },
	"euler":      func() Integrator { return NewEuler() },
}

// Get returns a new integrator by name. An empty name selects the symplectic scheme.
func Get(name string) (Integrator, error) {
	if name == "" {
		name = "symplectic"
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownIntegrator, name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
