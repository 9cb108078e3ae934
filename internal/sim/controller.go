package sim

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/logging"
)

// Controller turns per-tick Signals into State mutations.
type Controller struct {
	state     *State
	store     Persistence
	log       *slog.Logger
	cfg       Config
	observers []PersistenceObserver

	toggleDown bool
	held       bool
	holdPoint  mgl32.Vec2
	replaced   bool
}

// NewController wires a controller to state. store may be nil, in which case
// save and load requests are logged and ignored.
func NewController(state *State, store Persistence, cfg Config, log *slog.Logger) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{state: state, store: store, cfg: cfg, log: log}
}

func (c *Controller) AddObserver(o PersistenceObserver) { c.observers = append(c.observers, o) }

// Holding reports whether a body was dragged this tick and where to.
func (c *Controller) Holding() (mgl32.Vec2, bool) {
	return c.holdPoint, c.held
}

// Replaced reports whether the last Apply reset or loaded the bodies.
func (c *Controller) Replaced() bool { return c.replaced }

// Apply processes one tick of signals.
func (c *Controller) Apply(sig Signals) {
	c.replaced = false
	if sig.ToggleRun && !c.toggleDown {
		c.state.SetRunning(!c.state.Running())
	}
	c.toggleDown = sig.ToggleRun

	if sig.Reset {
		c.state.Reset()
		c.replaced = true
	}

	c.applyPointer(sig.Pointer)

	if sig.Save != nil {
		c.save(sig.Save.Path)
	}
	if sig.Load != nil {
		c.load(sig.Load.Path)
	}
}

func (c *Controller) applyPointer(p Pointer) {
	c.held = false
	if !p.Down {
		c.state.Deselect()
		return
	}

	if _, ok := c.state.Selected(); ok {
		c.state.Hold(p.Pos)
		c.held = true
		c.holdPoint = p.Pos
		return
	}

	if i, ok := c.state.HitTest(p.Pos, c.cfg.RadiusScale, c.cfg.HitMargin); ok {
		c.state.Select(i)
	}
}

func (c *Controller) save(path string) {
	if path == "" {
		c.log.Debug("save cancelled")
		return
	}
	if c.store == nil {
		c.log.Warn("save requested without storage", "path", path)
		return
	}

	bodies := c.state.Bodies()
	err := c.store.Save(path, bodies)
	c.notify("save", path, err)
	if err != nil {
		c.log.Error("save failed", "op", "save", "path", path, "err", err)
		return
	}
	c.log.Info("saved bodies", "path", path, "bodies", len(bodies))
}

func (c *Controller) load(path string) {
	if path == "" {
		c.log.Debug("load cancelled")
		return
	}
	if c.store == nil {
		c.log.Warn("load requested without storage", "path", path)
		return
	}

	bodies, err := c.store.Load(path)
	c.notify("load", path, err)
	if err != nil {
		c.log.Error("load failed", "op", "load", "path", path, "err", err)
		return
	}
	c.state.Replace(bodies)
	c.held = false
	c.replaced = true
	c.log.Info("loaded bodies", "path", path, "bodies", len(bodies))
}

func (c *Controller) notify(op, path string, err error) {
	for _, o := range c.observers {
		o.OnPersist(op, path, err)
	}
}
