// Package window shows the backdrop in a resizable desktop window.
//
// Each displayed frame is one controller frame: Update only forwards input,
// Draw steps and paints the scene. The layout runs at device resolution so
// the scene sees CSS-like units and a DPR.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
)

type Game struct {
	ctrl    *sim.Controller
	canvas  *Canvas
	hud     bool
	surface scene.Surface
	cursor  [2]int
	seen    bool
}

func NewGame(ctrl *sim.Controller, hud bool) *Game {
	return &Game{ctrl: ctrl, canvas: NewCanvas(), hud: hud}
}

// Layout reports the device resolution for the outside size and mounts or
// resizes the controller when the measured surface changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := 1.0
	if m := ebiten.Monitor(); m != nil {
		dpr = m.DeviceScaleFactor()
	}
	s := scene.Surface{Width: float64(outsideWidth), Height: float64(outsideHeight), DPR: dpr}.Normalized()
	g.measure(s)
	return s.PixelSize()
}

func (g *Game) measure(s scene.Surface) {
	if s == g.surface {
		return
	}
	g.surface = s
	if !g.ctrl.Mount(s) {
		g.ctrl.Resize(s)
	}
}

// toSurface maps a cursor position in device pixels to surface units.
func (g *Game) toSurface(x, y int) (float64, float64) {
	dpr := g.surface.Normalized().DPR
	return float64(x) / dpr, float64(y) / dpr
}

func (g *Game) Update() error {
	if g.ctrl.Stopped() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.ctrl.Unmount()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud = !g.hud
	}

	cx, cy := ebiten.CursorPosition()
	if !g.seen || cx != g.cursor[0] || cy != g.cursor[1] {
		g.cursor = [2]int{cx, cy}
		if g.seen {
			g.ctrl.PointerMove(g.toSurface(cx, cy))
		}
		g.seen = true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.ctrl.Click(g.toSurface(cx, cy))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.Target(screen)
	if !g.ctrl.Frame(g.canvas) {
		return
	}
	if g.hud {
		st := g.ctrl.Stats()
		ebitenutil.DebugPrintAt(screen, hudLine(ebiten.ActualFPS(), st), 12, 12)
	}
}

func hudLine(fps float64, st sim.Stats) string {
	ring := "idle"
	if st.RingActive {
		ring = "active"
	}
	return fmt.Sprintf("%.0f fps  frame %d  %.0fx%.0f@%.2g  agents %d  links %d  ring %s",
		math.Round(fps), st.Frames, st.Surface.Width, st.Surface.Height, st.Surface.DPR,
		st.Agents, st.Links, ring)
}

// Run opens the window and blocks until it is closed. The controller is
// unmounted on return.
func Run(ctrl *sim.Controller, opts config.WindowConfig) error {
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ctrl.FrameRate())

	err := ebiten.RunGame(NewGame(ctrl, opts.HUD))
	ctrl.Unmount()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
