package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
)

var (
	// ErrInvalidMass indicates a record with zero or negative mass.
	ErrInvalidMass = errors.New("storage: mass must be positive")

	// ErrInvalidNumber indicates a NaN or infinite value after scaling.
	ErrInvalidNumber = errors.New("storage: non-finite position or velocity")

	// ErrEmptyPath indicates a load or save without a path.
	ErrEmptyPath = errors.New("storage: empty path")
)

// RecordError reports which record of a document failed validation.
type RecordError struct {
	Index   int
	Wrapped error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Wrapped)
}

func (e *RecordError) Unwrap() error {
	return e.Wrapped
}

type colorRecord struct {
	Red   uint8 `json:"red"`
	Green uint8 `json:"green"`
	Blue  uint8 `json:"blue"`
}

// record is one body on disk. Acc is accepted for compatibility with older
// documents and never written.
type record struct {
	Pos   [2]float32  `json:"pos"`
	Vel   [2]float32  `json:"vel"`
	Acc   *[2]float32 `json:"acc,omitempty"`
	Mass  float32     `json:"mass"`
	Color colorRecord `json:"color"`
}

// Codec maps between body documents in normalized units and in-memory bodies
// in simulation units.
type Codec struct {
	Scale float32
}

func NewCodec(scale float32) *Codec {
	if scale == 0 {
		scale = physics.DisplayScale
	}
	return &Codec{Scale: scale}
}

// Decode reads a document and scales it up. Nothing is returned unless every
// record is valid.
func (c *Codec) Decode(r io.Reader) ([]physics.Body, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode bodies: %w", err)
	}

	bodies := make([]physics.Body, 0, len(records))
	for i, rec := range records {
		if !(rec.Mass > 0) {
			return nil, &RecordError{Index: i, Wrapped: ErrInvalidMass}
		}
		b := physics.NewBody(
			mgl32.Vec2{rec.Pos[0], rec.Pos[1]}.Mul(c.Scale),
			mgl32.Vec2{rec.Vel[0], rec.Vel[1]}.Mul(c.Scale),
			rec.Mass,
			physics.Color{R: rec.Color.Red, G: rec.Color.Green, B: rec.Color.Blue},
		)
		if !finite(b.Pos) || !finite(b.Vel) {
			return nil, &RecordError{Index: i, Wrapped: ErrInvalidNumber}
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// Encode scales bodies back to normalized units and writes them as a document.
func (c *Codec) Encode(w io.Writer, bodies []physics.Body) error {
	records := make([]record, len(bodies))
	inv := 1 / c.Scale
	for i, b := range bodies {
		pos := b.Pos.Mul(inv)
		vel := b.Vel.Mul(inv)
		records[i] = record{
			Pos:   [2]float32{pos.X(), pos.Y()},
			Vel:   [2]float32{vel.X(), vel.Y()},
			Mass:  b.Mass,
			Color: colorRecord{Red: b.Color.R, Green: b.Color.G, Blue: b.Color.B},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Load reads the document at path.
func (c *Codec) Load(path string) ([]physics.Body, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bodies, err := c.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bodies, nil
}

// Save writes bodies to path, creating parent directories as needed. The
// document is written to a temporary file first so a failed save never
// truncates an existing file.
func (c *Codec) Save(path string, bodies []physics.Body) error {
	if path == "" {
		return ErrEmptyPath
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".orbits-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := c.Encode(tmp, bodies); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func finite(v mgl32.Vec2) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
