package raster

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// WritePNG encodes the current frame.
func (c *Canvas) WritePNG(w io.Writer) error {
	if c.img == nil {
		return fmt.Errorf("raster: no frame drawn")
	}
	return png.Encode(w, c.img)
}

// GIFRecorder collects frames into an animated GIF. Frames are optionally
// downscaled before quantisation to the Plan 9 palette.
type GIFRecorder struct {
	Scale float64
	Delay int // hundredths of a second

	anim gif.GIF
}

func NewGIFRecorder(scale float64, fps int) *GIFRecorder {
	delay := 2
	if fps > 0 {
		delay = max(1, 100/fps)
	}
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	return &GIFRecorder{Scale: scale, Delay: delay}
}

// Add captures src as the next frame.
func (g *GIFRecorder) Add(src *image.RGBA) {
	b := src.Bounds()
	w := max(1, int(float64(b.Dx())*g.Scale))
	h := max(1, int(float64(b.Dy())*g.Scale))

	var frame image.Image = src
	if w != b.Dx() || h != b.Dy() {
		small := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.ApproxBiLinear.Scale(small, small.Bounds(), src, b, xdraw.Src, nil)
		frame = small
	}

	p := image.NewPaletted(image.Rect(0, 0, w, h), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), frame, frame.Bounds().Min)
	g.anim.Image = append(g.anim.Image, p)
	g.anim.Delay = append(g.anim.Delay, g.Delay)
}

func (g *GIFRecorder) Len() int { return len(g.anim.Image) }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.anim.Image) == 0 {
		return fmt.Errorf("raster: no frames recorded")
	}
	g.anim.LoopCount = 0
	return gif.EncodeAll(w, &g.anim)
}
