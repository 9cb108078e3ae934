// Package input maps raw device state into simulation signals and converts
// between screen pixels and world coordinates.
package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/sim"
)

// Frame is the device state sampled once per tick. Held fields are levels;
// Pressed fields are true only on the tick the key went down.
type Frame struct {
	ToggleHeld  bool
	ResetHeld   bool
	SavePressed bool
	LoadPressed bool
	MouseDown   bool
	CursorX     int
	CursorY     int
}

// Screen maps pixels (origin top-left, y down) to world coordinates (origin
// centre, y up).
type Screen struct {
	Width, Height int
}

func (s Screen) ToWorld(x, y int) mgl32.Vec2 {
	return mgl32.Vec2{
		float32(x) - float32(s.Width)/2,
		float32(s.Height)/2 - float32(y),
	}
}

func (s Screen) ToScreen(p mgl32.Vec2) (float32, float32) {
	return p.X() + float32(s.Width)/2, float32(s.Height)/2 - p.Y()
}

// Mapper turns frames into signals. SavePath and LoadPath pick the file for
// a request; returning "" cancels it. Nil funcs cancel every request.
type Mapper struct {
	Screen   Screen
	SavePath func() string
	LoadPath func() string
}

func (m *Mapper) Signals(f Frame) sim.Signals {
	sig := sim.Signals{
		ToggleRun: f.ToggleHeld,
		Reset:     f.ResetHeld,
		Pointer: sim.Pointer{
			Down: f.MouseDown,
			Pos:  m.Screen.ToWorld(f.CursorX, f.CursorY),
		},
	}
	if f.SavePressed {
		sig.Save = &sim.FileRequest{Path: pick(m.SavePath)}
	}
	if f.LoadPressed {
		sig.Load = &sim.FileRequest{Path: pick(m.LoadPath)}
	}
	return sig
}

func pick(fn func() string) string {
	if fn == nil {
		return ""
	}
	return fn()
}
