package viz

import (
	"math"

	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

// DefaultScale is the number of surface units covered by one braille dot.
const DefaultScale = 4

// strokeGain lifts faint strokes so that a link at its maximum alpha draws
// solid and weaker links thin out.
const strokeGain = 4

// bayer is the 4x4 ordered dither matrix.
var bayer = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

func threshold(x, y int) float64 {
	return (bayer[y&3][x&3] + 0.5) / 16
}

// Braille adapts a braille Canvas to render.Canvas. Soft fills and faint
// strokes are reduced to dots by ordered dithering.
type Braille struct {
	grid  *Canvas
	scale float64
	blend render.Blend
}

func NewBraille(cols, rows int, scale float64) *Braille {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Braille{grid: NewCanvas(cols, rows), scale: scale}
}

// Resize replaces the grid with one of cols by rows cells.
func (b *Braille) Resize(cols, rows int) {
	if cols == b.grid.Width && rows == b.grid.Height {
		return
	}
	b.grid = NewCanvas(cols, rows)
}

func (b *Braille) Grid() *Canvas { return b.grid }

// Surface is the scene surface covered by the grid.
func (b *Braille) Surface() scene.Surface {
	w, h := b.grid.SubSize()
	return scene.Surface{Width: float64(w) * b.scale, Height: float64(h) * b.scale, DPR: 1}
}

// CellCenter maps a terminal cell to the surface point at its center.
func (b *Braille) CellCenter(col, row int) scene.Vec2 {
	return scene.Vec2{
		X: (float64(col)*2 + 1) * b.scale,
		Y: (float64(row)*4 + 2) * b.scale,
	}
}

func (b *Braille) dot(p scene.Vec2) (int, int) {
	return int(math.Floor(p.X / b.scale)), int(math.Floor(p.Y / b.scale))
}

func (b *Braille) plot(x, y int, c scene.Color) {
	if b.blend == render.BlendLighter {
		b.grid.Add(x, y, c)
		return
	}
	b.grid.Paint(x, y, c)
}

func (b *Braille) Begin(scene.Surface) {
	b.grid.Clear()
	b.blend = render.BlendNormal
}

// Background is left to the terminal.
func (b *Braille) Background(top, bottom scene.Color) {}

func (b *Braille) SetBlend(mode render.Blend) { b.blend = mode }

func (b *Braille) FillRadial(center scene.Vec2, radius float64, c scene.Color) {
	r := radius / b.scale
	if r <= 0 {
		return
	}
	cx, cy := center.X/b.scale, center.Y/b.scale
	w, h := b.grid.SubSize()
	x0, x1 := clampInt(int(cx-r), 0, w-1), clampInt(int(cx+r), 0, w-1)
	y0, y1 := clampInt(int(cy-r), 0, h-1), clampInt(int(cy+r), 0, h-1)
	a := c.Alpha()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d >= r {
				continue
			}
			if a*(1-d/r) > threshold(x, y) {
				b.plot(x, y, c)
			}
		}
	}
}

func (b *Braille) FillCircle(center scene.Vec2, radius float64, c scene.Color) {
	x, y := b.dot(center)
	r := radius / b.scale
	if r < 1 {
		b.plot(x, y, c)
		return
	}
	ri := int(math.Ceil(r))
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				b.plot(x+dx, y+dy, c)
			}
		}
	}
}

func (b *Braille) StrokeLine(p, q scene.Vec2, width float64, c scene.Color) {
	a := c.Alpha() * strokeGain
	x0, y0 := b.dot(p)
	x1, y1 := b.dot(q)
	line(x0, y0, x1, y1, func(x, y int) {
		if a > threshold(x, y) {
			b.plot(x, y, c)
		}
	})
}

func (b *Braille) StrokeCircle(center scene.Vec2, radius, width float64, c scene.Color) {
	a := c.Alpha() * strokeGain
	x, y := b.dot(center)
	circle(x, y, int(math.Round(radius/b.scale)), func(px, py int) {
		if a > threshold(px, py) {
			b.plot(px, py, c)
		}
	})
}

func (b *Braille) End() {}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
