// Package viz renders the peel simulation in the terminal. The live
// view drives the surface from real mouse input: motion hovers, a
// press-drag-release performs a peel, and the tear mask is drawn as a
// character field.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"peelsim/internal/config"
	"peelsim/internal/geom"
	"peelsim/internal/peel"
	"peelsim/internal/surface"
	"peelsim/internal/zones"
)

const (
	fps             = 60
	historyCapacity = 240
	defaultCanvasW  = 64
	defaultCanvasH  = 20
	statsPaneWidth  = 38
)

type TickMsg time.Time

// Model is the bubbletea model for the live view.
type Model struct {
	surf *surface.Surface
	cfg  config.Config

	canvasW, canvasH int
	lastTick         time.Time
	paused           bool
	showHelp         bool

	hovering  bool
	lastEvent string

	frac        *gauge
	progHistory []float64
}

func NewModel(cfg config.Config) *Model {
	m := &Model{
		cfg:         cfg,
		canvasW:     defaultCanvasW,
		canvasH:     defaultCanvasH,
		frac:        newGauge(fps),
		progHistory: make([]float64, 0, historyCapacity),
	}
	m.surf = surface.New(cfg, geom.Viewport{W: float64(m.canvasW), H: float64(m.canvasH)})

	m.surf.OnHoverChange = func(hit *zones.Hit) { m.hovering = hit != nil }
	m.surf.OnSnapOff = func(front, normal geom.Vec) {
		m.lastEvent = fmt.Sprintf("snap-off at (%.2f, %.2f)", front.X, front.Y)
	}
	m.surf.OnCleared = func() { m.lastEvent = "surface cleared" }
	return m
}

func (m *Model) Init() tea.Cmd {
	m.lastTick = time.Now()
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.surf.Reset()
			m.frac.reset()
			m.progHistory = m.progHistory[:0]
			m.lastEvent = "reset"
		case "p", " ":
			m.paused = !m.paused
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.MouseMsg:
		uv, inside := m.cellToUV(msg.X, msg.Y)
		if !inside {
			break
		}
		switch msg.Action {
		case tea.MouseActionMotion:
			m.surf.PointerMove(uv)
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft {
				m.surf.PointerDown(uv)
			}
		case tea.MouseActionRelease:
			m.surf.PointerUp(uv)
		}

	case tea.WindowSizeMsg:
		w := msg.Width - statsPaneWidth - 6
		h := msg.Height - 6
		if w < 16 {
			w = 16
		}
		if h < 8 {
			h = 8
		}
		m.canvasW, m.canvasH = w, h
		m.surf.Resize(geom.Viewport{W: float64(w), H: float64(h)})

	case TickMsg:
		now := time.Time(msg)
		elapsed := now.Sub(m.lastTick)
		m.lastTick = now

		if !m.paused {
			m.surf.Update(elapsed)
		}

		f := m.surf.Frame()
		m.progHistory = append(m.progHistory, f.Progress)
		if len(m.progHistory) > historyCapacity {
			m.progHistory = m.progHistory[len(m.progHistory)-historyCapacity:]
		}
		return m, tick()
	}
	return m, nil
}

// cellToUV maps a terminal cell inside the canvas border to UV space.
// The canvas is drawn at the top-left of the screen with a one-cell
// border, and the terminal grid doubles as the physical pixel grid.
func (m *Model) cellToUV(x, y int) (geom.Vec, bool) {
	cx, cy := x-1, y-1
	if cx < 0 || cy < 0 || cx >= m.canvasW || cy >= m.canvasH {
		return geom.Vec{}, false
	}
	return m.surf.Viewport().FromPixels(float64(cx), float64(cy)), true
}

func (m *Model) View() string {
	f := m.surf.Frame()
	canvas := canvasStyle.Render(m.renderField(f))
	stats := statsStyle.Render(m.renderStats(f))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvas, stats)
	if m.showHelp {
		view += helpStyle.Render("\nmouse: hover an edge, press+drag to peel, release to tear" +
			"\nkeys:  r reset · p pause · ? help · q quit")
	} else {
		view += helpStyle.Render("\n? for help · q to quit")
	}
	return view
}

// renderField samples the mask once per cell, then overlays recent
// crack flashes and the fold point. Terminal rows grow downward while
// UV y grows upward, so rows are flipped.
func (m *Model) renderField(f surface.Frame) string {
	grid := make([][]rune, m.canvasH)
	for cy := 0; cy < m.canvasH; cy++ {
		grid[cy] = make([]rune, m.canvasW)
		for cx := 0; cx < m.canvasW; cx++ {
			u := geom.Vec{
				X: (float64(cx) + 0.5) / float64(m.canvasW),
				Y: 1 - (float64(cy)+0.5)/float64(m.canvasH),
			}
			if f.Mask.Sample(u) == 1 {
				grid[cy][cx] = '▒'
			} else {
				grid[cy][cx] = ' '
			}
		}
	}

	for _, tear := range f.RecentTears {
		m.plotPath(grid, tear.Primary, '+')
		for _, br := range tear.Branches {
			m.plotPath(grid, br.Points, '·')
		}
	}

	if f.State != peel.Idle {
		m.plotPath(grid, []geom.Vec{f.FoldPoint}, '@')
	}

	var b strings.Builder
	for cy, row := range grid {
		if cy > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func (m *Model) plotPath(grid [][]rune, path []geom.Vec, ch rune) {
	for _, p := range path {
		cx := int(p.X * float64(m.canvasW))
		cy := int((1 - p.Y) * float64(m.canvasH))
		if cx < 0 || cy < 0 || cx >= m.canvasW || cy >= m.canvasH {
			continue
		}
		grid[cy][cx] = ch
	}
}

func (m *Model) renderStats(f surface.Frame) string {
	smoothed := m.frac.step(f.TornFraction)

	var b strings.Builder
	b.WriteString(headerStyle.Render("peelsim"))
	b.WriteString("\n\n")

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteByte('\n')
	}

	b.WriteString(labelStyle.Render("state"))
	b.WriteString(stateStyle.Render(f.State.String()))
	b.WriteByte('\n')

	line("progress", progressBar(f.Progress, 18))
	line("torn", fmt.Sprintf("%5.1f%% %s", f.TornFraction*100, progressBar(smoothed, 12)))
	line("zones", fmt.Sprintf("%d", f.ZoneCount))
	line("tears", fmt.Sprintf("%d", m.surf.TearCount()))
	if m.hovering {
		line("hover", "grab here")
	} else {
		line("hover", "-")
	}
	if m.lastEvent != "" {
		b.WriteByte('\n')
		b.WriteString(flashStyle.Render(m.lastEvent))
		b.WriteByte('\n')
	}

	if len(m.progHistory) > 2 {
		graph := asciigraph.Plot(m.progHistory,
			asciigraph.Height(5),
			asciigraph.Width(statsPaneWidth-8),
			asciigraph.Caption("peel progress"),
		)
		b.WriteString(graphStyle.Render(graph))
	}
	return b.String()
}

func progressBar(v float64, width int) string {
	v = geom.Clamp(v, 0, 1)
	filled := int(v * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
