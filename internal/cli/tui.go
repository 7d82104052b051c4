package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/argmap/pkg/diagram"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/render"
	"github.com/matzehuels/argmap/pkg/viewport"
)

// Terminal size before the first WindowSizeMsg arrives.
const (
	defaultCols = 100
	defaultRows = 30
)

const (
	chromeRows   = 3 // title, status and help lines
	panFraction  = 0.1
	keyZoomDY    = 40.0
	wheelZoomDY  = 20.0
	refreshEvery = 250 * time.Millisecond
)

var (
	viewerTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewerStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewerHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewerErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	viewerInfoStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Messages
// =============================================================================

type tickMsg time.Time

type expandDoneMsg struct {
	nodeID string
	notice errors.Notice
	shown  bool
}

type savedMsg struct {
	path string
	err  error
}

// =============================================================================
// ViewerModel - Interactive diagram viewer
// =============================================================================

// ViewerModel is the bubbletea model that drives one diagram from the
// terminal.
type ViewerModel struct {
	ctx      context.Context
	d        *diagram.Diagram
	title    string
	savePath string

	cols, rows int
	dragging   bool
	message    string
	help       bool
}

// NewViewerModel creates a viewer for d. Expansions run under ctx.
func NewViewerModel(ctx context.Context, d *diagram.Diagram, title, savePath string) ViewerModel {
	return ViewerModel{
		ctx:      ctx,
		d:        d,
		title:    title,
		savePath: savePath,
		cols:     defaultCols,
		rows:     defaultRows - chromeRows,
	}
}

func (m ViewerModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 10)
		m.rows = max(msg.Height-chromeRows, 3)
	case tickMsg:
		return m, tick()
	case expandDoneMsg:
		if !msg.shown {
			m.message = "Expanded " + msg.nodeID
		} else {
			m.message = ""
		}
	case savedMsg:
		if msg.err != nil {
			m.message = "Save failed: " + msg.err.Error()
		} else {
			m.message = "Saved " + msg.path
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	canvas := m.canvas()
	stepX, stepY := canvas.Width*panFraction, canvas.Height*panFraction
	center := viewport.Point{X: canvas.Width / 2, Y: canvas.Height / 2}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if _, ok := m.d.Notice(); ok {
			m.d.DismissNotice()
			return m, nil
		}
		return m, tea.Quit
	case "left", "h":
		m.d.Pan(viewport.Point{X: stepX})
	case "right", "l":
		m.d.Pan(viewport.Point{X: -stepX})
	case "up", "k":
		m.d.Pan(viewport.Point{Y: stepY})
	case "down", "j":
		m.d.Pan(viewport.Point{Y: -stepY})
	case "+", "=":
		m.d.Wheel(center, -keyZoomDY)
	case "-", "_":
		m.d.Wheel(center, keyZoomDY)
	case "r", "0":
		m.d.ResetView()
	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)
	case "enter", "e":
		return m, m.expandSelected()
	case "x":
		m.d.DismissNotice()
		m.message = ""
	case "s":
		return m, m.save()
	case "?":
		m.help = !m.help
	}
	return m, nil
}

func (m *ViewerModel) handleMouse(msg tea.MouseMsg) {
	p := m.toCanvas(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.d.Wheel(p, -wheelZoomDY)
	case msg.Button == tea.MouseButtonWheelDown:
		m.d.Wheel(p, wheelZoomDY)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if id := m.nodeAt(p); id != "" {
			m.d.Click(id)
			return
		}
		m.d.PointerDown(p, viewport.ModePan)
		m.dragging = true
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight:
		m.d.PointerDown(p, viewport.ModeZoom)
		m.dragging = true
	case msg.Action == tea.MouseActionMotion:
		if m.dragging {
			m.d.PointerMove(p)
			return
		}
		m.d.Hover(m.nodeAt(p))
	case msg.Action == tea.MouseActionRelease:
		if m.dragging {
			m.d.PointerUp()
			m.dragging = false
		}
	}
}

// toCanvas maps a terminal cell to canvas pixels, taking the title line
// into account.
func (m ViewerModel) toCanvas(col, row int) viewport.Point {
	c := m.canvas()
	return viewport.Point{
		X: (float64(col) + 0.5) * c.Width / float64(m.cols),
		Y: (float64(row-1) + 0.5) * c.Height / float64(m.rows),
	}
}

// nodeAt returns the topmost node under canvas point p.
func (m ViewerModel) nodeAt(p viewport.Point) string {
	s := m.d.Scene()
	w := viewport.ToWorld(s.Viewport, s.Canvas, p)
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		b := s.Nodes[i].Box
		if w.X >= b.X && w.X <= b.Right() && w.Y >= b.Y && w.Y <= b.Bottom() {
			return s.Nodes[i].ID
		}
	}
	return ""
}

func (m ViewerModel) canvas() viewport.Canvas {
	return m.d.Scene().Canvas
}

func (m ViewerModel) cycleSelection(dir int) {
	r := m.d.Layout()
	if r == nil || len(r.Nodes) == 0 {
		return
	}
	selected := m.d.Frame().Selected
	next := 0
	for i, n := range r.Nodes {
		if n.ID == selected {
			next = (i + dir + len(r.Nodes)) % len(r.Nodes)
			break
		}
	}
	m.d.Click(r.Nodes[next].ID)
}

func (m ViewerModel) expandSelected() tea.Cmd {
	id := m.d.Frame().Selected
	if id == "" {
		return nil
	}
	ctx, d := m.ctx, m.d
	return func() tea.Msg {
		n, shown := d.Expand(ctx, id)
		return expandDoneMsg{nodeID: id, notice: n, shown: shown}
	}
}

func (m ViewerModel) save() tea.Cmd {
	path, d := m.savePath, m.d
	return func() tea.Msg {
		return savedMsg{path: path, err: os.WriteFile(path, d.SVG(), 0o644)}
	}
}

func (m ViewerModel) View() string {
	var b strings.Builder

	f := m.d.Frame()
	g := m.d.Graph()
	title := fmt.Sprintf("%s  %s", m.title, statsLine(g, string(m.d.Type())))
	b.WriteString(viewerTitleStyle.Render(truncate(title, m.cols)))
	b.WriteString("\n")

	b.WriteString(drawScene(render.Render(f), m.cols, m.rows).Render())
	b.WriteString("\n")

	b.WriteString(m.statusLine(f))
	b.WriteString("\n")
	b.WriteString(viewerHelpStyle.Render(truncate(m.helpLine(), m.cols)))
	return b.String()
}

func (m ViewerModel) statusLine(f render.Frame) string {
	if n, ok := m.d.Notice(); ok {
		msg := truncate(n.Message+"  (x to dismiss)", m.cols)
		if n.Level == errors.LevelBlocking {
			return viewerErrorStyle.Render(msg)
		}
		return viewerInfoStyle.Render(msg)
	}
	if f.Expansion.Pending != "" {
		return viewerStatusStyle.Render("Expanding " + f.Expansion.Pending + "…")
	}
	if m.message != "" {
		return viewerStatusStyle.Render(truncate(m.message, m.cols))
	}
	if f.Selected == "" {
		return viewerStatusStyle.Render("No node selected")
	}

	parts := []string{f.Selected}
	if n, ok := m.d.Graph().Node(f.Selected); ok {
		if label := n.DisplayLabel(); label != "" && label != n.ID {
			parts = append(parts, label)
		}
	}
	switch {
	case f.Expansion.IsExpanded(f.Selected):
		parts = append(parts, "expanded")
	default:
		if s, ok := f.Summaries[f.Selected]; ok {
			parts = append(parts, fmt.Sprintf("%d support · %d conflict · %d preference",
				s.SupportCount, s.ConflictCount, s.PreferenceCount))
		}
	}
	return viewerStatusStyle.Render(truncate(strings.Join(parts, " · "), m.cols))
}

func (m ViewerModel) helpLine() string {
	if !m.help {
		return "←↑↓→ pan  +/- zoom  tab select  ⏎ expand  ? help  q quit"
	}
	return "drag pan  right-drag zoom  wheel zoom  click select  r reset  s save " + m.savePath + "  x dismiss  esc quit"
}
