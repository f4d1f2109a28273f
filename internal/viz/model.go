package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/control"
	"github.com/san-kum/rigid2d/internal/export"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/sim"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/world"
)

const (
	DefaultWidth     = 80
	DefaultHeight    = 24
	DefaultMaxBodies = 200
	DefaultSpawnRate = 5
	DefaultPushForce = 40

	historyCapacity = 600
	pushTicks       = 8
	maxSpeed        = 8
)

var ErrNoScene = errors.New("viz: no scene")

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures a Model. Zero values fall back to the defaults above.
type Options struct {
	Scene     *config.Scene
	Width     int
	Height    int
	Theme     string
	MaxBodies int
	// SpawnRate is the sustained number of spawns per second.
	SpawnRate float64
	Seed      int64
	Logger    *zap.Logger
}

// Model hosts one World in the terminal. Every tick applies the active
// controllers and advances the world by speed steps.
type Model struct {
	cfg       *config.Scene
	opts      Options
	world     *world.World
	ctrl      sim.Controller
	manual    *control.Manual
	spawner   *scene.Spawner
	limiter   *rate.Limiter
	logger    *zap.Logger
	maxBodies int

	canvas *Canvas
	view   Viewport
	theme  Theme
	styles Styles

	running  bool
	showHelp bool
	speed    int
	pushLeft int
	notice   string
	err      error

	energy   []float64
	contacts []float64
}

func NewModel(opts Options) (Model, error) {
	if opts.Scene == nil {
		return Model{}, ErrNoScene
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.MaxBodies <= 0 {
		opts.MaxBodies = DefaultMaxBodies
	}
	if opts.SpawnRate <= 0 {
		opts.SpawnRate = DefaultSpawnRate
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		cfg:       opts.Scene.Clone(),
		opts:      opts,
		logger:    opts.Logger,
		maxBodies: opts.MaxBodies,
		canvas:    NewCanvas(opts.Width, opts.Height),
		theme:     theme,
		styles:    NewStyles(theme),
		speed:     1,
	}
	if err := m.load(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// load builds a fresh world and its controllers from the scene.
func (m *Model) load() error {
	w, err := scene.Build(m.cfg, world.WithLogger(m.logger), world.WithInvariantChecks(true))
	if err != nil {
		return err
	}
	ctrl, err := control.FromConfig(m.cfg.Controller, scene.FirstListedBody(m.cfg))
	if err != nil {
		return err
	}

	m.world = w
	m.ctrl = ctrl
	m.manual = control.NewManual(0, DefaultPushForce)
	m.spawner = scene.NewSpawner(m.opts.Seed)
	m.limiter = rate.NewLimiter(rate.Limit(m.opts.SpawnRate), int(math.Ceil(m.opts.SpawnRate)))
	m.running = true
	m.pushLeft = 0
	m.notice = ""
	m.err = nil
	m.energy = m.energy[:0]
	m.contacts = m.contacts[:0]

	pw, ph := m.canvas.PixelSize()
	min, max := sceneBounds(m.cfg, w.Bodies())
	m.view = NewViewport(min, max, pw, ph)
	return nil
}

// sceneBounds picks the world rectangle to show: the arena when there is
// one, otherwise the dynamic bodies plus the statics under them, padded
// so bodies have room to move.
func sceneBounds(cfg *config.Scene, bodies []body.Body) (vec.Vec2, vec.Vec2) {
	if cfg.Arena.Enabled {
		return vec.Zero, vec.New(cfg.Arena.Width, cfg.Arena.Height)
	}

	var dynamic, static []body.Body
	for _, b := range bodies {
		if b.IsStatic() {
			static = append(static, b)
		} else {
			dynamic = append(dynamic, b)
		}
	}
	if len(dynamic) == 0 {
		return export.Bounds(static)
	}

	min, max := export.Bounds(dynamic)
	for _, b := range static {
		lo, hi := b.Bounds()
		if hi.X < min.X || lo.X > max.X {
			continue
		}
		min.Y = math.Min(min.Y, lo.Y)
		max.Y = math.Max(max.Y, hi.Y)
	}

	pad := 0.5 * math.Max(max.X-min.X, max.Y-min.Y)
	return vec.New(min.X-pad, min.Y-pad/4), vec.New(max.X+pad, max.Y+pad/4)
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			if err := m.load(); err != nil {
				m.err = err
			}
		case "c":
			m.spawn(m.spawner.Circle(m.spawnPoint()))
		case "b":
			m.spawn(m.spawner.Box(m.spawnPoint()))
		case "up":
			m.push(vec.New(0, -1))
		case "down":
			m.push(vec.New(0, 1))
		case "left":
			m.push(vec.New(-1, 0))
		case "right":
			m.push(vec.New(1, 0))
		case "+", "=":
			m.speed = min(m.speed+1, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed-1, 1)
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = NewStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		at, ok := m.cellToWorld(msg.X, msg.Y)
		if !ok {
			break
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.spawn(m.spawner.Circle(at))
		case tea.MouseButtonRight:
			m.spawn(m.spawner.Box(at))
		}
	case TickMsg:
		if m.running {
			for range m.speed {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.pushLeft > 0 {
		m.pushLeft--
		if m.pushLeft == 0 {
			m.manual.Push(vec.Zero)
		}
	}

	t := m.world.Time()
	for _, c := range []sim.Controller{m.ctrl, m.manual} {
		if err := c.Apply(m.world, t); err != nil {
			m.err = err
			m.logger.Debug("controller failed", zap.Error(err), zap.Float64("time", t))
		}
	}
	m.world.Step()

	f := sim.Snapshot(m.world)
	m.energy = appendCapped(m.energy, metrics.Mechanical(f))
	m.contacts = appendCapped(m.contacts, float64(f.Contacts))
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) spawn(b body.Body) {
	if m.world.Len() >= m.maxBodies {
		m.notice = fmt.Sprintf("body limit %d reached", m.maxBodies)
		return
	}
	if !m.limiter.Allow() {
		m.notice = "spawning too fast"
		return
	}
	id := m.world.Add(b)
	m.notice = fmt.Sprintf("spawned %s #%d", b.Shape.Type(), id)
}

// spawnPoint is a random point in the upper third of the view.
func (m *Model) spawnPoint() vec.Vec2 {
	lo, hi := m.view.Min, m.view.Max
	margin := math.Min(hi.X-lo.X, hi.Y-lo.Y) * 0.1
	return m.spawner.Point(
		vec.New(lo.X+margin, lo.Y+margin),
		vec.New(hi.X-margin, lo.Y+(hi.Y-lo.Y)/3),
	)
}

// push drives the most recently added dynamic body for a few ticks.
// Terminals report key presses only, so a push decays on its own.
func (m *Model) push(dir vec.Vec2) {
	bodies := m.world.Bodies()
	for i := len(bodies) - 1; i >= 0; i-- {
		if !bodies[i].IsStatic() {
			m.manual.Body = world.BodyID(i)
			m.manual.Push(dir)
			m.pushLeft = pushTicks
			return
		}
	}
	m.notice = "nothing to push"
}

// cellToWorld maps a terminal cell inside the bordered canvas to the world
// point at the centre of that cell.
func (m *Model) cellToWorld(x, y int) (vec.Vec2, bool) {
	col, row := x-1, y-1
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return vec.Zero, false
	}
	return m.view.ToWorld(col*2+1, row*4+2), true
}

// World exposes the hosted world to tests and the SSH host.
func (m Model) World() *world.World { return m.world }

func (m Model) Running() bool { return m.running }

func (m Model) Theme() Theme { return m.theme }

func (m *Model) draw() {
	m.canvas.Clear()
	for _, b := range m.world.Bodies() {
		m.canvas.DrawBody(m.view, b)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := m.styles.Canvas.Render(strings.TrimSuffix(m.canvas.String(), "\n"))
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.Panel.Render(m.panel()))
	if m.showHelp {
		return main + "\n" + m.help()
	}
	return main
}

func (m Model) panel() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	if m.running {
		b.WriteString(s.Running.Render(fmt.Sprintf("RUNNING x%d", m.speed)) + "\n\n")
	} else {
		b.WriteString(s.Paused.Render("PAUSED") + "\n\n")
	}

	f := sim.Snapshot(m.world)
	row := func(label, value string) {
		b.WriteString(s.Label.Render(label) + s.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.Time))
	row("Steps", fmt.Sprintf("%d", f.Step))
	row("Bodies", fmt.Sprintf("%d / %d", len(f.Bodies), m.maxBodies))
	row("Contacts", fmt.Sprintf("%d", f.Contacts))
	row("Max pen.", fmt.Sprintf("%.3f", f.MaxPenetration))
	row("Energy", fmt.Sprintf("%.1f", metrics.Mechanical(f)))
	row("Theme", m.theme.Name)
	if v := m.world.Violations(); v > 0 {
		b.WriteString(s.Alert.Render(fmt.Sprintf("invalid state x%d", v)) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		b.WriteString(s.Graph.Render(chart) + "\n")
	}
	b.WriteString(s.Label.Render("Contacts") + Sparkline(m.contacts, 24) + "\n")

	if m.notice != "" {
		b.WriteString("\n" + s.Subtle.Render(m.notice) + "\n")
	}
	if m.err != nil {
		b.WriteString(s.Alert.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + s.Separator(30) + "\n")
	b.WriteString(s.KeyHint.Render("SP:Pause N:Step R:Reset Q:Quit\nC/B:Spawn ←↑↓→:Push ?:Help"))
	return b.String()
}

func (m Model) help() string {
	return m.styles.KeyHint.Render(`
  Space      pause / resume
  N          single step while paused
  R          rebuild the scene
  C / B      spawn a circle / box
  click      spawn at the pointer (left circle, right box)
  Arrows     push the newest body
  + / -      steps per frame
  T          cycle themes
  Q          quit`)
}
