package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/backdrop/internal/sim"
)

// statusLines is the number of terminal rows reserved below the canvas.
const statusLines = 1

const sparkWidth = 24

type TickMsg time.Time

// Model is the terminal surface. Terminal cells map to surface units through
// the braille adapter, so the scene sees an ordinary resizable surface and a
// mouse pointer.
type Model struct {
	ctrl     *sim.Controller
	canvas   *Braille
	theme    int
	styles   styles
	fps      int
	paused   bool
	showHelp bool
	width    int
	height   int
	energy   []float64
	quitting bool
}

func NewModel(ctrl *sim.Controller, scale float64, theme string) Model {
	idx := themeIndex(theme)
	return Model{
		ctrl:   ctrl,
		canvas: NewBraille(0, 0, scale),
		theme:  idx,
		styles: newStyles(Themes[idx]),
		fps:    ctrl.FrameRate(),
	}
}

func (m Model) Init() tea.Cmd {
	return tick(m.fps)
}

func tick(fps int) tea.Cmd {
	if fps <= 0 {
		fps = sim.DefaultFrameRate
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) canvasRows() int {
	rows := m.height - statusLines
	if rows < 0 {
		return 0
	}
	return rows
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(m.width, m.canvasRows())
		surface := m.canvas.Surface()
		if !m.ctrl.Mount(surface) {
			m.ctrl.Resize(surface)
		}

	case tea.MouseMsg:
		if msg.Y >= m.canvasRows() {
			return m, nil
		}
		p := m.canvas.CellCenter(msg.X, msg.Y)
		switch {
		case msg.Action == tea.MouseActionMotion:
			m.ctrl.PointerMove(p.X, p.Y)
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.ctrl.PointerMove(p.X, p.Y)
			m.ctrl.Click(p.X, p.Y)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.ctrl.Unmount()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
		case "r":
			m.ctrl.Resize(m.canvas.Surface())
			m.energy = m.energy[:0]
		case "?":
			m.showHelp = !m.showHelp
		}

	case TickMsg:
		if m.ctrl.Stopped() {
			return m, nil
		}
		if !m.paused && m.ctrl.Frame(m.canvas) {
			m.energy = append(m.energy, m.ctrl.Metrics()["kinetic_energy"])
			if len(m.energy) > sparkWidth*4 {
				m.energy = m.energy[len(m.energy)-sparkWidth:]
			}
		}
		return m, tick(m.fps)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.styles.help.Render(helpText))
	}
	return m.canvas.Grid().Render() + m.statusBar()
}

const helpText = `backdrop

mouse     attract agents
click     impulse ring
space     pause / resume
r         regenerate
t         cycle theme
?         toggle help
q         quit`

func (m Model) statusBar() string {
	st := m.ctrl.Stats()
	state := m.styles.running.Render("● LIVE")
	if m.paused {
		state = m.styles.paused.Render("❚❚ PAUSED")
	}
	ring := "-"
	if st.RingActive {
		ring = "on"
	}
	parts := []string{
		state,
		m.styles.label.Render("frame ") + m.styles.value.Render(fmt.Sprintf("%d", st.Frames)),
		m.styles.label.Render("agents ") + m.styles.value.Render(fmt.Sprintf("%d", st.Agents)),
		m.styles.label.Render("links ") + m.styles.value.Render(fmt.Sprintf("%d", st.Links)),
		m.styles.label.Render("ring ") + m.styles.value.Render(ring),
		m.styles.spark.Render(Sparkline(m.energy, sparkWidth)),
		m.styles.hint.Render("? help"),
	}
	return statusBar.Render(strings.Join(parts, "  "))
}

// Run takes over the terminal until the user quits, then unmounts ctrl.
func Run(ctrl *sim.Controller, scale float64, theme string) error {
	p := tea.NewProgram(NewModel(ctrl, scale, theme), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	ctrl.Unmount()
	return err
}
