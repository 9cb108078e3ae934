package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
	"github.com/san-kum/orbits/internal/sim"
)

func TestTrailsSampling(t *testing.T) {
	bodies := []physics.Body{
		physics.NewBody(mgl32.Vec2{0, 0}, mgl32.Vec2{}, 1, physics.Color{R: 255}),
	}
	tr := NewTrails(bodies, 2)

	for step := uint64(1); step <= 6; step++ {
		bodies[0].Pos = mgl32.Vec2{float32(step), 0}
		tr.OnStep(step, bodies)
	}

	want := []mgl32.Vec2{{0, 0}, {2, 0}, {4, 0}, {6, 0}}
	got := tr.Points[0]
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: got %v, want %v", i, got[i], want[i])
		}
	}

	// a load that changes the body count stops recording
	tr.OnStep(8, append(bodies, bodies[0]))
	if len(tr.Points[0]) != len(want) {
		t.Error("recorded a step with a different body count")
	}
}

func TestTrailsBounds(t *testing.T) {
	tr := &Trails{Points: [][]mgl32.Vec2{
		{{-1, 2}, {3, 4}},
		{{0, -5}},
	}}
	lo, hi := tr.Bounds()
	if lo != (mgl32.Vec2{-1, -5}) || hi != (mgl32.Vec2{3, 4}) {
		t.Errorf("bounds: got %v %v", lo, hi)
	}
}

func TestWriteSVG(t *testing.T) {
	bodies := []physics.Body{
		physics.NewBody(mgl32.Vec2{-100, 0}, mgl32.Vec2{}, 1, physics.Color{R: 255}),
		physics.NewBody(mgl32.Vec2{100, 0}, mgl32.Vec2{}, 1, physics.Color{B: 255}),
	}
	tr := NewTrails(bodies, 1)
	bodies[0].Pos = mgl32.Vec2{-90, 10}
	tr.OnStep(1, bodies)

	frame := []sim.DrawRecord{
		{Position: bodies[0].Pos, Radius: 10, Color: [3]float32{1, 0, 0}},
		{Position: bodies[1].Pos, Radius: 10, Color: [3]float32{0, 0, 1}},
	}

	var buf bytes.Buffer
	if err := WriteSVG(&buf, frame, tr, 400, 300); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("not a complete svg document")
	}
	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("got %d circles, want 2", n)
	}
	if n := strings.Count(out, "<path"); n != 2 {
		t.Errorf("got %d paths, want 2", n)
	}
	if !strings.Contains(out, `fill="#ff0000"`) || !strings.Contains(out, `stroke="#ff0000"`) {
		t.Error("body colors missing")
	}
}

func TestWriteSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, nil, nil, 100, 100); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(buf.String(), "<circle") {
		t.Error("empty frame drew circles")
	}
}
