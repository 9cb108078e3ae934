package metrics

import (
	"math"

	"github.com/san-kum/orbits/internal/physics"
)

// EnergyDrift tracks the largest relative change of total energy since the
// first observed step.
type EnergyDrift struct {
	field         *physics.ForceField
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	history       []float64
	keepHistory   bool
}

func NewEnergyDrift(field *physics.ForceField) *EnergyDrift {
	return &EnergyDrift{field: field}
}

// WithHistory records the relative drift of every observation.
func (e *EnergyDrift) WithHistory() *EnergyDrift {
	e.keepHistory = true
	return e
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

// Start sets the reference energy from bodies before any step.
func (e *EnergyDrift) Start(bodies []physics.Body) {
	e.Reset()
	e.observe(bodies)
}

func (e *EnergyDrift) OnStep(_ uint64, bodies []physics.Body) {
	e.observe(bodies)
}

func (e *EnergyDrift) observe(bodies []physics.Body) {
	energy := e.field.Energy(bodies)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++

	drift := 0.0
	if e.initialEnergy != 0 {
		drift = math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
	if e.keepHistory {
		e.history = append(e.history, drift)
	}
}

// Value is the maximum relative drift seen so far.
func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Initial() float64 { return e.initialEnergy }
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

// History returns the per-observation drift when WithHistory was set.
func (e *EnergyDrift) History() []float64 { return e.history }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	e.history = e.history[:0]
}
