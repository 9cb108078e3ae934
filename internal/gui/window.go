// Package gui draws a simulator in a desktop window with ebiten.
package gui

import (
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/orbits/internal/input"
	"github.com/san-kum/orbits/internal/logging"
	"github.com/san-kum/orbits/internal/sim"
)

// fade is the alpha of the black overlay drawn each frame; lower values give
// longer trails.
const fade = 13

type Options struct {
	Title      string
	Width      int
	Height     int
	TPS        int
	Fullscreen bool
	// SavePath and LoadPath choose files for the s and l keys. Returning ""
	// cancels the request.
	SavePath func() string
	LoadPath func() string
}

type Game struct {
	sim     *sim.Simulator
	mapper  *input.Mapper
	log     *slog.Logger
	started bool
}

func NewGame(s *sim.Simulator, opts Options, log *slog.Logger) *Game {
	if log == nil {
		log = logging.Discard()
	}
	return &Game{
		sim: s,
		mapper: &input.Mapper{
			Screen:   input.Screen{Width: opts.Width, Height: opts.Height},
			SavePath: opts.SavePath,
			LoadPath: opts.LoadPath,
		},
		log: log,
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	frame := input.Frame{
		ToggleHeld:  ebiten.IsKeyPressed(ebiten.KeySpace),
		ResetHeld:   ebiten.IsKeyPressed(ebiten.KeyR),
		SavePressed: inpututil.IsKeyJustPressed(ebiten.KeyS),
		LoadPressed: inpututil.IsKeyJustPressed(ebiten.KeyL),
		MouseDown:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		CursorX:     x,
		CursorY:     y,
	}
	sig := g.mapper.Signals(frame)
	if sig.Save != nil {
		g.log.Debug("save key", "path", sig.Save.Path)
	}
	if sig.Load != nil {
		g.log.Debug("load key", "path", sig.Load.Path)
	}
	g.sim.Tick(sig)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if !g.started {
		screen.Fill(color.Black)
		g.started = true
	} else {
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), color.RGBA{A: fade}, false)
	}

	for _, rec := range g.sim.Frame() {
		cx, cy := g.mapper.Screen.ToScreen(rec.Position)
		clr := color.RGBA{
			R: uint8(rec.Color[0]*255 + 0.5),
			G: uint8(rec.Color[1]*255 + 0.5),
			B: uint8(rec.Color[2]*255 + 0.5),
			A: 255,
		}
		vector.DrawFilledCircle(screen, cx, cy, rec.Radius, clr, true)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mapper.Screen = input.Screen{Width: outsideWidth, Height: outsideHeight}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Simulator, opts Options, log *slog.Logger) error {
	if opts.Title == "" {
		opts.Title = "orbits"
	}
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(opts.Fullscreen)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	// trails come from fading the previous frame instead of clearing it
	ebiten.SetScreenClearedEveryFrame(false)

	return ebiten.RunGame(NewGame(s, opts, log))
}
