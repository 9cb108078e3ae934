package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbits/internal/physics"
	"github.com/san-kum/orbits/internal/sim"
)

const statusLines = 2

type TickMsg time.Time

const (
	promptNone = iota
	promptSave
	promptLoad
)

// Model renders a simulator in the terminal and turns key and mouse events
// into per-tick signals. Key presses are delivered for exactly one tick.
type Model struct {
	sim    *sim.Simulator
	canvas *Canvas
	status *status
	view   viewport
	fps    int

	pending sim.Signals
	pointer sim.Pointer

	prompt  int
	editBuf string

	width, height int
}

// status is registered as a simulator observer so persistence results reach
// the status bar.
type status struct {
	message string
	failed  bool
}

func (s *status) OnStep(uint64, []physics.Body) {}

func (s *status) OnPersist(op, path string, err error) {
	if err != nil {
		s.message, s.failed = fmt.Sprintf("%s failed: %v", op, err), true
		return
	}
	s.message, s.failed = fmt.Sprintf("%s %s", op, path), false
}

// NewModel builds a terminal model. extent is the world distance from the
// centre to the nearest screen edge.
func NewModel(s *sim.Simulator, extent float32, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	st := &status{}
	s.AddObserver(st)
	m := Model{
		sim:    s,
		canvas: NewCanvas(80, 22),
		status: st,
		fps:    fps,
		width:  80,
		height: 24,
	}
	m.view = newViewport(80, 22, extent)
	return m
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		sig := m.pending
		sig.Pointer = m.pointer
		m.sim.Tick(sig)
		m.pending = sim.Signals{}
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := max(msg.Height-statusLines, 1)
		m.canvas.Resize(msg.Width, rows)
		m.view = newViewport(msg.Width, rows, m.view.extent)
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointer = sim.Pointer{Down: true, Pos: m.view.toWorld(msg.X, msg.Y)}
		}
	case tea.MouseActionMotion:
		if m.pointer.Down {
			m.pointer.Pos = m.view.toWorld(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		m.pointer.Down = false
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.prompt != promptNone {
		switch msg.Type {
		case tea.KeyEnter:
			m.submit(strings.TrimSpace(m.editBuf))
		case tea.KeyEsc:
			m.submit("")
		case tea.KeyBackspace:
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		case tea.KeyRunes, tea.KeySpace:
			m.editBuf += string(msg.Runes)
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "space":
		m.pending.ToggleRun = true
	case "r":
		m.pending.Reset = true
	case "s":
		m.prompt, m.editBuf = promptSave, ""
	case "l":
		m.prompt, m.editBuf = promptLoad, ""
	}
	return m, nil
}

// submit delivers the prompt result; an empty path is a cancelled request.
func (m *Model) submit(path string) {
	req := &sim.FileRequest{Path: path}
	if m.prompt == promptSave {
		m.pending.Save = req
	} else {
		m.pending.Load = req
	}
	m.prompt, m.editBuf = promptNone, ""
}

func (m Model) View() string {
	m.canvas.Clear()
	for _, rec := range m.sim.Frame() {
		x, y := m.view.toDots(rec.Position)
		r := int(rec.Radius / m.view.unitsPerDot)
		m.canvas.FillCircle(x, y, r, hexColor(rec.Color))
	}

	var b strings.Builder
	b.WriteString(m.canvas.String())
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.hintLine())
	return b.String()
}

func (m Model) statusLine() string {
	state := m.sim.State()
	run := StatusRunning.Render("running")
	if !state.Running() {
		run = StatusPaused.Render("paused")
	}

	parts := []string{
		run,
		MetricLabel.Render("step ") + MetricValue.Render(fmt.Sprintf("%d", state.Steps())),
		MetricLabel.Render("bodies ") + MetricValue.Render(fmt.Sprintf("%d", state.Len())),
	}
	if i, ok := state.Selected(); ok {
		parts = append(parts, MetricLabel.Render("holding ")+MetricValue.Render(fmt.Sprintf("#%d", i)))
	}
	if m.status.message != "" {
		style := Subtle
		if m.status.failed {
			style = ErrorText
		}
		parts = append(parts, style.Render(m.status.message))
	}
	return strings.Join(parts, "  ")
}

func (m Model) hintLine() string {
	switch m.prompt {
	case promptSave:
		return KeyHint.Render("save to: ") + m.editBuf + "_"
	case promptLoad:
		return KeyHint.Render("load from: ") + m.editBuf + "_"
	}
	return KeyHint.Render("space pause  r reset  drag mouse to move  s save  l load  q quit")
}

// viewport maps world coordinates (origin centre, y up) to braille dots.
type viewport struct {
	cols, rows  int
	extent      float32
	unitsPerDot float32
}

func newViewport(cols, rows int, extent float32) viewport {
	if extent <= 0 {
		extent = 2 * physics.DisplayScale
	}
	dotsW := float32(cols * 2)
	dotsH := float32(rows * 4)
	return viewport{
		cols:        cols,
		rows:        rows,
		extent:      extent,
		unitsPerDot: 2 * extent / min(dotsW, dotsH),
	}
}

func (v viewport) toDots(p mgl32.Vec2) (int, int) {
	x := float32(v.cols) + p.X()/v.unitsPerDot
	y := float32(v.rows*2) - p.Y()/v.unitsPerDot
	return int(x), int(y)
}

// toWorld maps the centre of a terminal cell back to world coordinates.
func (v viewport) toWorld(col, row int) mgl32.Vec2 {
	dx := float32(col*2+1) - float32(v.cols)
	dy := float32(v.rows*2) - float32(row*4+2)
	return mgl32.Vec2{dx * v.unitsPerDot, dy * v.unitsPerDot}
}

func hexColor(c [3]float32) string {
	return fmt.Sprintf("#%02x%02x%02x", uint8(c[0]*255+0.5), uint8(c[1]*255+0.5), uint8(c[2]*255+0.5))
}

// Run starts the terminal program and blocks until the user quits.
func Run(s *sim.Simulator, extent float32, fps int) error {
	p := tea.NewProgram(NewModel(s, extent, fps), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

