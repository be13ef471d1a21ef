// Package raster is a headless render.Canvas backed by an image.RGBA.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

// circleSegments is the polygon resolution used for discs and rings.
const circleSegments = 48

// Canvas rasterises filled shapes with x/image/vector and blends radial
// gradients per pixel. The image is sized in device pixels.
type Canvas struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	dpr   float64
	blend render.Blend
}

func New() *Canvas {
	return &Canvas{z: vector.NewRasterizer(0, 0), dpr: 1}
}

// Image returns the last drawn frame. It is reused by the next Begin.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Begin(s scene.Surface) {
	s = s.Normalized()
	w, h := s.PixelSize()
	if c.img == nil || c.img.Bounds().Dx() != w || c.img.Bounds().Dy() != h {
		c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	c.dpr = s.DPR
	c.blend = render.BlendNormal
}

func (c *Canvas) Background(top, bottom scene.Color) {
	b := c.img.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		row := color.RGBA{
			R: lerp8(top.R, bottom.R, t),
			G: lerp8(top.G, bottom.G, t),
			B: lerp8(top.B, bottom.B, t),
			A: 255,
		}
		draw.Draw(c.img, image.Rect(b.Min.X, y, b.Max.X, y+1), image.NewUniform(row), image.Point{}, draw.Src)
	}
}

func (c *Canvas) SetBlend(b render.Blend) { c.blend = b }

// FillRadial fades linearly from col at the center to nothing at radius.
// Lighter blending adds and saturates; normal blending is source-over.
func (c *Canvas) FillRadial(center scene.Vec2, radius float64, col scene.Color) {
	cx, cy, r := center.X*c.dpr, center.Y*c.dpr, radius*c.dpr
	if r <= 0 {
		return
	}
	bounds := image.Rect(int(cx-r), int(cy-r), int(cx+r)+1, int(cy+r)+1).Intersect(c.img.Bounds())
	base := col.Alpha()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d >= r {
				continue
			}
			c.blendPixel(x, y, col, base*(1-d/r))
		}
	}
}

func (c *Canvas) blendPixel(x, y int, col scene.Color, a float64) {
	i := c.img.PixOffset(x, y)
	px := c.img.Pix[i : i+4 : i+4]
	src := [3]float64{float64(col.R) * a, float64(col.G) * a, float64(col.B) * a}
	for k := 0; k < 3; k++ {
		dst := float64(px[k])
		if c.blend == render.BlendLighter {
			px[k] = uint8(math.Min(255, dst+src[k]))
		} else {
			px[k] = uint8(math.Min(255, src[k]+dst*(1-a)))
		}
	}
	if c.blend == render.BlendLighter {
		px[3] = uint8(math.Min(255, float64(px[3])+a*255))
	} else {
		px[3] = uint8(math.Min(255, a*255+float64(px[3])*(1-a)))
	}
}

func (c *Canvas) FillCircle(center scene.Vec2, radius float64, col scene.Color) {
	if radius <= 0 {
		return
	}
	c.reset()
	c.circle(center, radius, false)
	c.flush(col)
}

func (c *Canvas) StrokeLine(a, b scene.Vec2, width float64, col scene.Color) {
	dir := b.Sub(a)
	l := dir.Len()
	if l == 0 || width <= 0 {
		return
	}
	n := scene.Vec2{X: -dir.Y / l, Y: dir.X / l}.Scale(width / 2)
	c.reset()
	c.moveTo(a.Add(n))
	c.lineTo(b.Add(n))
	c.lineTo(b.Sub(n))
	c.lineTo(a.Sub(n))
	c.z.ClosePath()
	c.flush(col)
}

// StrokeCircle draws an annulus as an outer and a reversed inner contour.
func (c *Canvas) StrokeCircle(center scene.Vec2, radius, width float64, col scene.Color) {
	outer := radius + width/2
	if outer <= 0 || width <= 0 {
		return
	}
	c.reset()
	c.circle(center, outer, false)
	if inner := radius - width/2; inner > 0 {
		c.circle(center, inner, true)
	}
	c.flush(col)
}

func (c *Canvas) End() {}

func (c *Canvas) reset() {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Over
}

func (c *Canvas) flush(col scene.Color) {
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(color.NRGBA(col)), image.Point{})
}

func (c *Canvas) circle(center scene.Vec2, radius float64, reverse bool) {
	for i := 0; i <= circleSegments; i++ {
		t := 2 * math.Pi * float64(i) / circleSegments
		if reverse {
			t = -t
		}
		sin, cos := math.Sincos(t)
		p := scene.Vec2{X: center.X + radius*cos, Y: center.Y + radius*sin}
		if i == 0 {
			c.moveTo(p)
		} else {
			c.lineTo(p)
		}
	}
	c.z.ClosePath()
}

func (c *Canvas) moveTo(p scene.Vec2) {
	c.z.MoveTo(float32(p.X*c.dpr), float32(p.Y*c.dpr))
}

func (c *Canvas) lineTo(p scene.Vec2) {
	c.z.LineTo(float32(p.X*c.dpr), float32(p.Y*c.dpr))
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
