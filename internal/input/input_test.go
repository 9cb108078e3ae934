package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestScreenRoundTrip(t *testing.T) {
	s := Screen{Width: 800, Height: 600}

	if got := s.ToWorld(400, 300); got != (mgl32.Vec2{0, 0}) {
		t.Errorf("centre = %v, want origin", got)
	}
	if got := s.ToWorld(0, 0); got != (mgl32.Vec2{-400, 300}) {
		t.Errorf("top-left = %v", got)
	}

	x, y := s.ToScreen(mgl32.Vec2{100, -50})
	if x != 500 || y != 350 {
		t.Errorf("ToScreen = (%v, %v), want (500, 350)", x, y)
	}
}

func TestMapperSignals(t *testing.T) {
	m := &Mapper{
		Screen:   Screen{Width: 200, Height: 100},
		SavePath: func() string { return "out.json" },
	}

	sig := m.Signals(Frame{ToggleHeld: true, MouseDown: true, CursorX: 150, CursorY: 25})
	if !sig.ToggleRun || sig.Reset {
		t.Errorf("unexpected flags: %+v", sig)
	}
	if !sig.Pointer.Down || sig.Pointer.Pos != (mgl32.Vec2{50, 25}) {
		t.Errorf("pointer = %+v", sig.Pointer)
	}
	if sig.Save != nil || sig.Load != nil {
		t.Error("no file requests expected")
	}
}

func TestMapperFileRequests(t *testing.T) {
	m := &Mapper{SavePath: func() string { return "out.json" }}

	sig := m.Signals(Frame{SavePressed: true, LoadPressed: true})
	if sig.Save == nil || sig.Save.Path != "out.json" {
		t.Errorf("save = %+v", sig.Save)
	}
	// no LoadPath func means the request is cancelled
	if sig.Load == nil || sig.Load.Path != "" {
		t.Errorf("load = %+v", sig.Load)
	}
}
