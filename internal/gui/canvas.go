package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

const (
	glowSize     = 128
	ringSegments = 96
)

// Canvas draws with raylib immediate-mode calls. Coordinates stay in
// surface units; raylib scales high-DPI framebuffers itself.
type Canvas struct {
	glow    rl.Texture2D
	surface scene.Surface
	blend   render.Blend
}

// NewCanvas needs an open window.
func NewCanvas() *Canvas {
	img := rl.GenImageGradientRadial(glowSize, glowSize, 0.0, rl.White, rl.NewColor(0, 0, 0, 0))
	glow := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(glow, rl.FilterBilinear)
	return &Canvas{glow: glow}
}

func (c *Canvas) Close() {
	rl.UnloadTexture(c.glow)
}

func rgba(c scene.Color) color.RGBA {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func vec(v scene.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}

func (c *Canvas) Begin(surface scene.Surface) {
	c.surface = surface
	c.blend = render.BlendNormal
}

func (c *Canvas) Background(top, bottom scene.Color) {
	rl.DrawRectangleGradientV(0, 0, int32(c.surface.Width), int32(c.surface.Height), rgba(top), rgba(bottom))
}

func (c *Canvas) SetBlend(b render.Blend) {
	if b == c.blend {
		return
	}
	if c.blend == render.BlendLighter {
		rl.EndBlendMode()
	}
	if b == render.BlendLighter {
		rl.BeginBlendMode(rl.BlendAdditive)
	}
	c.blend = b
}

func (c *Canvas) FillRadial(center scene.Vec2, radius float64, clr scene.Color) {
	if radius <= 0 {
		return
	}
	src := rl.NewRectangle(0, 0, glowSize, glowSize)
	d := float32(radius * 2)
	dst := rl.NewRectangle(float32(center.X), float32(center.Y), d, d)
	rl.DrawTexturePro(c.glow, src, dst, rl.NewVector2(d/2, d/2), 0, rgba(clr))
}

func (c *Canvas) FillCircle(center scene.Vec2, radius float64, clr scene.Color) {
	rl.DrawCircleV(vec(center), float32(radius), rgba(clr))
}

func (c *Canvas) StrokeLine(a, b scene.Vec2, width float64, clr scene.Color) {
	rl.DrawLineEx(vec(a), vec(b), float32(width), rgba(clr))
}

func (c *Canvas) StrokeCircle(center scene.Vec2, radius, width float64, clr scene.Color) {
	half := float32(width / 2)
	inner := float32(radius) - half
	if inner < 0 {
		inner = 0
	}
	rl.DrawRing(vec(center), inner, float32(radius)+half, 0, 360, ringSegments, rgba(clr))
}

func (c *Canvas) End() {
	c.SetBlend(render.BlendNormal)
}
