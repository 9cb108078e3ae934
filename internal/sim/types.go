package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
)

// Pointer is the pointer state sampled for one tick.
type Pointer struct {
	Down bool
	Pos  mgl32.Vec2
}

// FileRequest asks for a save or load. An empty Path means the user
// cancelled the request.
type FileRequest struct {
	Path string
}

// Signals is the batch of input delivered with one tick. ToggleRun is the
// level of the toggle key; the controller detects the rising edge.
type Signals struct {
	ToggleRun bool
	Reset     bool
	Pointer   Pointer
	Save      *FileRequest
	Load      *FileRequest
}

// DrawRecord is everything a renderer needs to draw one body.
type DrawRecord struct {
	Position mgl32.Vec2
	Radius   float32
	Color    [3]float32
}

// Persistence reads and writes body documents.
type Persistence interface {
	Load(path string) ([]physics.Body, error)
	Save(path string, bodies []physics.Body) error
}

// Observer is notified after every physics step.
type Observer interface {
	OnStep(step uint64, bodies []physics.Body)
}

// PersistenceObserver is notified after every save or load attempt.
type PersistenceObserver interface {
	OnPersist(op, path string, err error)
}

type Config struct {
	Dt          float32
	RadiusScale float32
	HitMargin   float32
}

func DefaultConfig() Config {
	return Config{
		Dt:          physics.TimeStep,
		RadiusScale: physics.RadiusScale,
		HitMargin:   physics.HitMargin,
	}
}
