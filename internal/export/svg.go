package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

// SVG is a render.Canvas that writes one frame as an SVG document.
// Radial bodies become <radialGradient> defs; lighter blending maps to
// mix-blend-mode: screen.
type SVG struct {
	surface scene.Surface
	defs    strings.Builder
	body    strings.Builder
	blend   render.Blend
	grads   int
	doc     string
}

func NewSVG() *SVG { return &SVG{} }

func (s *SVG) Begin(surface scene.Surface) {
	s.surface = surface
	s.defs.Reset()
	s.body.Reset()
	s.blend = render.BlendNormal
	s.grads = 0
	s.doc = ""
}

func (s *SVG) Background(top, bottom scene.Color) {
	s.defs.WriteString(fmt.Sprintf(`<linearGradient id="bg" x1="0" y1="0" x2="0" y2="1">
<stop offset="0" stop-color="%s"/>
<stop offset="1" stop-color="%s"/>
</linearGradient>
`, hex(top), hex(bottom)))
	s.body.WriteString(`<rect width="100%" height="100%" fill="url(#bg)"/>
`)
}

func (s *SVG) SetBlend(b render.Blend) { s.blend = b }

func (s *SVG) FillRadial(center scene.Vec2, radius float64, c scene.Color) {
	id := fmt.Sprintf("g%d", s.grads)
	s.grads++
	s.defs.WriteString(fmt.Sprintf(`<radialGradient id="%s">
<stop offset="0" stop-color="%s" stop-opacity="%.3f"/>
<stop offset="1" stop-color="%s" stop-opacity="0"/>
</radialGradient>
`, id, hex(c), c.Alpha(), hex(c)))
	s.body.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="url(#%s)"%s/>
`, center.X, center.Y, radius, id, s.style()))
}

func (s *SVG) FillCircle(center scene.Vec2, radius float64, c scene.Color) {
	s.body.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.3f"%s/>
`, center.X, center.Y, radius, hex(c), c.Alpha(), s.style()))
}

func (s *SVG) StrokeLine(a, b scene.Vec2, width float64, c scene.Color) {
	s.body.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"%s/>
`, a.X, a.Y, b.X, b.Y, hex(c), c.Alpha(), width, s.style()))
}

func (s *SVG) StrokeCircle(center scene.Vec2, radius, width float64, c scene.Color) {
	s.body.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"%s/>
`, center.X, center.Y, radius, hex(c), c.Alpha(), width, s.style()))
}

func (s *SVG) End() {
	var sb strings.Builder
	w, h := s.surface.Width, s.surface.Height
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, w, h, w, h))
	if s.defs.Len() > 0 {
		sb.WriteString("<defs>\n")
		sb.WriteString(s.defs.String())
		sb.WriteString("</defs>\n")
	}
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>")
	s.doc = sb.String()
}

// String returns the document produced by the last End.
func (s *SVG) String() string { return s.doc }

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.doc)
	return int64(n), err
}

func (s *SVG) style() string {
	if s.blend == render.BlendLighter {
		return ` style="mix-blend-mode:screen"`
	}
	return ""
}

// hex drops the alpha byte; opacity is written as its own attribute.
func hex(c scene.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
