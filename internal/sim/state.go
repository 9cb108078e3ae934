package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
)

// State owns the live bodies, the reset snapshot, the run flag and the
// dragged body. selected is -1 when nothing is held and otherwise always
// indexes bodies.
type State struct {
	bodies   []physics.Body
	initial  []physics.Body
	running  bool
	selected int
	steps    uint64
}

// NewState starts running with bodies as both the live and the reset set.
func NewState(bodies []physics.Body) *State {
	return &State{
		bodies:   physics.Clone(bodies),
		initial:  physics.Clone(bodies),
		running:  true,
		selected: -1,
	}
}

// Bodies returns a copy of the live bodies.
func (s *State) Bodies() []physics.Body { return physics.Clone(s.bodies) }

// Initial returns a copy of the reset snapshot.
func (s *State) Initial() []physics.Body { return physics.Clone(s.initial) }

func (s *State) Len() int          { return len(s.bodies) }
func (s *State) Running() bool     { return s.running }
func (s *State) Steps() uint64     { return s.steps }
func (s *State) SetRunning(r bool) { s.running = r }

func (s *State) Selected() (int, bool) {
	return s.selected, s.selected >= 0
}

// Reset restores the snapshot and drops the selection.
func (s *State) Reset() {
	s.bodies = physics.Clone(s.initial)
	s.selected = -1
}

// Replace installs a new configuration; it becomes the reset snapshot too.
func (s *State) Replace(bodies []physics.Body) {
	s.bodies = physics.Clone(bodies)
	s.initial = physics.Clone(bodies)
	s.selected = -1
}

// Select marks body i as held. Out of range indices are ignored.
func (s *State) Select(i int) {
	if i >= 0 && i < len(s.bodies) {
		s.selected = i
	}
}

func (s *State) Deselect() { s.selected = -1 }

// Hold moves the selected body to p and stops it.
func (s *State) Hold(p mgl32.Vec2) {
	if s.selected < 0 {
		return
	}
	b := &s.bodies[s.selected]
	b.Pos = p
	b.Vel = mgl32.Vec2{}
}

// HitTest returns the first body, in index order, whose visual radius plus
// margin contains p.
func (s *State) HitTest(p mgl32.Vec2, radiusScale, margin float32) (int, bool) {
	for i, b := range s.bodies {
		if b.Contains(p, radiusScale, margin) {
			return i, true
		}
	}
	return -1, false
}
