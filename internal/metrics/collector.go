package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/orbits/internal/physics"
)

// Collector exposes simulation metrics to Prometheus. A nil *Collector is
// valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer
	field    *physics.ForceField

	StepsTotal     prometheus.Counter
	Bodies         prometheus.Gauge
	TotalEnergy    prometheus.Gauge
	PersistenceOps *prometheus.CounterVec
}

// NewCollector registers metrics against reg, or the default registerer when
// reg is nil. field is used to compute total energy; nil skips the gauge.
func NewCollector(reg prometheus.Registerer, field *physics.ForceField) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orbits_steps_total",
		Help: "Physics steps taken.",
	})
	if err := register(reg, steps, "orbits_steps_total"); err != nil {
		return nil, err
	}

	bodies := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orbits_bodies",
		Help: "Bodies in the live simulation.",
	})
	if err := register(reg, bodies, "orbits_bodies"); err != nil {
		return nil, err
	}

	energy := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orbits_total_energy",
		Help: "Kinetic plus potential energy in simulation units.",
	})
	if err := register(reg, energy, "orbits_total_energy"); err != nil {
		return nil, err
	}

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orbits_persistence_operations_total",
		Help: "Save and load attempts by outcome.",
	}, []string{"op", "result"})
	if err := register(reg, ops, "orbits_persistence_operations_total"); err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		field:          field,
		StepsTotal:     steps,
		Bodies:         bodies,
		TotalEnergy:    energy,
		PersistenceOps: ops,
	}, nil
}

func (c *Collector) OnStep(_ uint64, bodies []physics.Body) {
	if c == nil {
		return
	}
	c.StepsTotal.Inc()
	c.Bodies.Set(float64(len(bodies)))
	if c.field != nil {
		c.TotalEnergy.Set(c.field.Energy(bodies))
	}
}

func (c *Collector) OnPersist(op, _ string, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.PersistenceOps.WithLabelValues(op, result).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register(reg prometheus.Registerer, c prometheus.Collector, name string) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return fmt.Errorf("collector %s already registered", name)
		}
		return err
	}
	return nil
}
