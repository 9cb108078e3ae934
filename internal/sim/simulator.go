package sim

import (
	"context"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/integrators"
	"github.com/san-kum/orbits/internal/physics"
)

// Simulator runs the tick loop: signals, then forces from a frozen snapshot
// of positions, then one integration of every body.
type Simulator struct {
	state      *State
	ctrl       *Controller
	field      *physics.ForceField
	integrator integrators.Integrator
	cfg        Config
	forces     []mgl32.Vec2
	observers  []Observer
}

func New(state *State, field *physics.ForceField, integrator integrators.Integrator, store Persistence, cfg Config, log *slog.Logger) *Simulator {
	return &Simulator{
		state:      state,
		ctrl:       NewController(state, store, cfg, log),
		field:      field,
		integrator: integrator,
		cfg:        cfg,
		observers:  make([]Observer, 0),
	}
}

// AddObserver registers o for step notifications, and for persistence
// notifications when it implements PersistenceObserver.
func (s *Simulator) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
	if po, ok := o.(PersistenceObserver); ok {
		s.ctrl.AddObserver(po)
	}
}

func (s *Simulator) State() *State                      { return s.state }
func (s *Simulator) Field() *physics.ForceField         { return s.field }
func (s *Simulator) Integrator() integrators.Integrator { return s.integrator }

// Tick applies signals and, when running, advances physics by one step.
// A tick that resets or loads bodies presents them unchanged.
func (s *Simulator) Tick(sig Signals) {
	s.ctrl.Apply(sig)
	if !s.state.running || s.ctrl.Replaced() {
		return
	}
	s.step()
}

func (s *Simulator) step() {
	bodies := s.state.bodies
	if cap(s.forces) < len(bodies) {
		s.forces = make([]mgl32.Vec2, len(bodies))
	}
	forces := s.forces[:len(bodies)]

	s.field.Accumulate(bodies, forces)
	s.integrator.Step(bodies, forces, s.cfg.Dt)

	// the held body feels forces but stays under the pointer
	if p, ok := s.ctrl.Holding(); ok {
		s.state.Hold(p)
	}

	s.state.steps++
	for _, o := range s.observers {
		o.OnStep(s.state.steps, bodies)
	}
}

// Frame returns draw records for the current bodies in index order.
func (s *Simulator) Frame() []DrawRecord {
	frame := make([]DrawRecord, len(s.state.bodies))
	for i, b := range s.state.bodies {
		frame[i] = DrawRecord{
			Position: b.Pos,
			Radius:   physics.Radius(b.Mass, s.cfg.RadiusScale),
			Color:    b.Color.Normalized(),
		}
	}
	return frame
}

// Run advances n ticks with no input.
func (s *Simulator) Run(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Tick(Signals{})
	}
	return nil
}

// RunWithCallback ticks until the context ends or next reports false. next
// supplies the signals for each tick; render receives the resulting frame.
func (s *Simulator) RunWithCallback(ctx context.Context, next func() (Signals, bool), render func([]DrawRecord)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sig, ok := next()
		if !ok {
			return nil
		}
		s.Tick(sig)
		if render != nil {
			render(s.Frame())
		}
	}
}
