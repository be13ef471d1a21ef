package window

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

const glowSize = 256

// Canvas draws onto an ebiten screen. Bodies are a cached radial texture
// scaled and tinted per draw; everything else goes through the vector package.
type Canvas struct {
	screen *ebiten.Image
	dpr    float32
	blend  render.Blend

	glow *ebiten.Image

	bg                *ebiten.Image
	bgTop, bgBottom   scene.Color
	bgWidth, bgHeight int
}

func NewCanvas() *Canvas {
	glow := ebiten.NewImage(glowSize, glowSize)
	glow.WritePixels(glowPixels(glowSize))
	return &Canvas{glow: glow, dpr: 1}
}

// Target sets the image the next frame draws into.
func (c *Canvas) Target(screen *ebiten.Image) { c.screen = screen }

// glowPixels is a premultiplied white disc fading linearly to transparent.
func glowPixels(size int) []byte {
	pixels := make([]byte, size*size*4)
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-half, float64(y)+0.5-half)
			if d >= half {
				continue
			}
			v := uint8(math.Round((1 - d/half) * 255))
			i := (y*size + x) * 4
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = v, v, v, v
		}
	}
	return pixels
}

// gradientPixels fills a width x height image top to bottom.
func gradientPixels(width, height int, top, bottom scene.Color) []byte {
	pixels := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		r, g, b := lerp(top.R, bottom.R, t), lerp(top.G, bottom.G, t), lerp(top.B, bottom.B, t)
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = r, g, b, 0xff
		}
	}
	return pixels
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func (c *Canvas) Begin(surface scene.Surface) {
	c.dpr = float32(surface.Normalized().DPR)
	c.blend = render.BlendNormal
}

func (c *Canvas) Background(top, bottom scene.Color) {
	if c.screen == nil {
		return
	}
	b := c.screen.Bounds()
	w, h := b.Dx(), b.Dy()
	if c.bg == nil || w != c.bgWidth || h != c.bgHeight || top != c.bgTop || bottom != c.bgBottom {
		if c.bg != nil {
			c.bg.Deallocate()
		}
		c.bg = ebiten.NewImage(w, h)
		c.bg.WritePixels(gradientPixels(w, h, top, bottom))
		c.bgWidth, c.bgHeight, c.bgTop, c.bgBottom = w, h, top, bottom
	}
	c.screen.DrawImage(c.bg, nil)
}

func (c *Canvas) SetBlend(b render.Blend) { c.blend = b }

func (c *Canvas) FillRadial(center scene.Vec2, radius float64, clr scene.Color) {
	if c.screen == nil || radius <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	if c.blend == render.BlendLighter {
		op.Blend = ebiten.BlendLighter
	}
	half := float64(glowSize) / 2
	scale := radius * float64(c.dpr) / half
	op.GeoM.Translate(-half, -half)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(center.X*float64(c.dpr), center.Y*float64(c.dpr))

	a := clr.Alpha()
	r, g, b := float64(clr.R)/255, float64(clr.G)/255, float64(clr.B)/255
	op.ColorScale.Scale(float32(r*a), float32(g*a), float32(b*a), float32(a))
	c.screen.DrawImage(c.glow, op)
}

func (c *Canvas) FillCircle(center scene.Vec2, radius float64, clr scene.Color) {
	if c.screen == nil {
		return
	}
	vector.DrawFilledCircle(c.screen, float32(center.X)*c.dpr, float32(center.Y)*c.dpr, float32(radius)*c.dpr, color.NRGBA(clr), true)
}

func (c *Canvas) StrokeLine(a, b scene.Vec2, width float64, clr scene.Color) {
	if c.screen == nil {
		return
	}
	vector.StrokeLine(c.screen,
		float32(a.X)*c.dpr, float32(a.Y)*c.dpr,
		float32(b.X)*c.dpr, float32(b.Y)*c.dpr,
		float32(width)*c.dpr, color.NRGBA(clr), true)
}

func (c *Canvas) StrokeCircle(center scene.Vec2, radius, width float64, clr scene.Color) {
	if c.screen == nil {
		return
	}
	vector.StrokeCircle(c.screen, float32(center.X)*c.dpr, float32(center.Y)*c.dpr,
		float32(radius)*c.dpr, float32(width)*c.dpr, color.NRGBA(clr), true)
}

func (c *Canvas) End() {}
