// Package gui shows the backdrop in a raylib window.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
)

var (
	ColBg   = rl.NewColor(2, 6, 23, 255)
	ColText = rl.NewColor(140, 140, 140, 255)
)

type App struct {
	Ctrl    *sim.Controller
	Canvas  *Canvas
	HUD     bool
	mounted bool
	mouse   rl.Vector2
	seen    bool
}

// initWindow opens a resizable high-DPI window and caps the frame rate.
func initWindow(opts config.WindowConfig, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func NewApp(ctrl *sim.Controller, hud bool) *App {
	return &App{Ctrl: ctrl, Canvas: NewCanvas(), HUD: hud}
}

// Run opens the window and blocks until it is closed or the controller is
// unmounted. The controller is unmounted on return.
func Run(ctrl *sim.Controller, opts config.WindowConfig) error {
	initWindow(opts, ctrl.FrameRate())
	defer rl.CloseWindow()

	app := NewApp(ctrl, opts.HUD)
	defer app.Canvas.Close()
	app.RunLoop()
	ctrl.Unmount()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Ctrl.Stopped() {
		a.Update()
		a.Draw()
	}
}

func currentSurface() scene.Surface {
	dpi := rl.GetWindowScaleDPI()
	return scene.Surface{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
		DPR:    float64(dpi.X),
	}.Normalized()
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.Ctrl.Unmount()
		return
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.HUD = !a.HUD
	}

	// A minimized window reports no size; keep trying until it does.
	if !a.mounted {
		a.mounted = a.Ctrl.Mount(currentSurface())
	} else if rl.IsWindowResized() {
		a.Ctrl.Resize(currentSurface())
	}

	pos := rl.GetMousePosition()
	if a.seen && pos != a.mouse {
		a.Ctrl.PointerMove(float64(pos.X), float64(pos.Y))
	}
	a.mouse, a.seen = pos, true
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		a.Ctrl.Click(float64(pos.X), float64(pos.Y))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	if !a.Ctrl.Frame(a.Canvas) {
		rl.ClearBackground(ColBg)
		return
	}
	if a.HUD {
		rl.DrawFPS(12, 12)
		rl.DrawText(hudText(a.Ctrl.Stats()), 12, 36, 16, ColText)
	}
}

func hudText(st sim.Stats) string {
	return fmt.Sprintf("frame %d  agents %d  links %d  reseeds %d", st.Frames, st.Agents, st.Links, st.Reseeds)
}
