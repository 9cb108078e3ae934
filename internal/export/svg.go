package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
	"github.com/san-kum/orbits/internal/sim"
)

// Trails records body positions every Every steps. It is a sim.Observer.
type Trails struct {
	Every  uint64
	Colors []physics.Color
	Points [][]mgl32.Vec2
}

func NewTrails(bodies []physics.Body, every uint64) *Trails {
	if every == 0 {
		every = 1
	}
	t := &Trails{
		Every:  every,
		Colors: make([]physics.Color, len(bodies)),
		Points: make([][]mgl32.Vec2, len(bodies)),
	}
	for i, b := range bodies {
		t.Colors[i] = b.Color
		t.Points[i] = []mgl32.Vec2{b.Pos}
	}
	return t
}

func (t *Trails) OnStep(step uint64, bodies []physics.Body) {
	if step%t.Every != 0 || len(bodies) != len(t.Points) {
		return
	}
	for i, b := range bodies {
		t.Points[i] = append(t.Points[i], b.Pos)
	}
}

// Bounds returns the smallest box holding every recorded point.
func (t *Trails) Bounds() (lo, hi mgl32.Vec2) {
	lo = mgl32.Vec2{math.MaxFloat32, math.MaxFloat32}
	hi = mgl32.Vec2{-math.MaxFloat32, -math.MaxFloat32}
	for _, pts := range t.Points {
		for _, p := range pts {
			lo = mgl32.Vec2{min(lo.X(), p.X()), min(lo.Y(), p.Y())}
			hi = mgl32.Vec2{max(hi.X(), p.X()), max(hi.Y(), p.Y())}
		}
	}
	return lo, hi
}

// WriteSVG draws the trails and the final frame. World y points up; the
// picture is flipped to SVG's y-down coordinates and padded by 10%.
func WriteSVG(w io.Writer, frame []sim.DrawRecord, trails *Trails, width, height int) error {
	lo, hi := mgl32.Vec2{-1, -1}, mgl32.Vec2{1, 1}
	if trails != nil && len(trails.Points) > 0 {
		lo, hi = trails.Bounds()
	}
	for _, d := range frame {
		r := mgl32.Vec2{d.Radius, d.Radius}
		lo = mgl32.Vec2{min(lo.X(), d.Position.Sub(r).X()), min(lo.Y(), d.Position.Sub(r).Y())}
		hi = mgl32.Vec2{max(hi.X(), d.Position.Add(r).X()), max(hi.Y(), d.Position.Add(r).Y())}
	}

	span := hi.Sub(lo)
	if span.X() == 0 {
		span[0] = 1
	}
	if span.Y() == 0 {
		span[1] = 1
	}
	lo = lo.Sub(span.Mul(0.1))
	span = span.Mul(1.2)

	// one scale for both axes keeps circles round
	scale := min(float32(width)/span.X(), float32(height)/span.Y())
	project := func(p mgl32.Vec2) (float32, float32) {
		return (p.X() - lo.X()) * scale, float32(height) - (p.Y()-lo.Y())*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height)

	if trails != nil {
		for i, pts := range trails.Points {
			if len(pts) < 2 {
				continue
			}
			c := trails.Colors[i]
			fmt.Fprintf(&sb, `<path fill="none" stroke="#%02x%02x%02x" stroke-opacity="0.6" stroke-width="1.5" d="M`, c.R, c.G, c.B)
			for j, p := range pts {
				x, y := project(p)
				if j == 0 {
					fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
	}

	for _, d := range frame {
		x, y := project(d.Position)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, d.Radius*scale, hex(d.Color))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func hex(c [3]float32) string {
	return fmt.Sprintf("#%02x%02x%02x", uint8(c[0]*255+0.5), uint8(c[1]*255+0.5), uint8(c[2]*255+0.5))
}
