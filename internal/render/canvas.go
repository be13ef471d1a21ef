// Package render turns a stepped scene into drawing calls on a Canvas.
//
// Surfaces (desktop window, terminal, raster, SVG) implement Canvas; Draw is
// the only place that knows the paint order.
package render

import "github.com/san-kum/backdrop/internal/scene"

// Blend selects how subsequent fills combine with what is already drawn.
type Blend int

const (
	// BlendNormal is source-over compositing.
	BlendNormal Blend = iota
	// BlendLighter adds source to destination so overlaps brighten.
	BlendLighter
)

func (b Blend) String() string {
	switch b {
	case BlendLighter:
		return "lighter"
	default:
		return "normal"
	}
}

// Canvas is a drawing surface in CSS-pixel coordinates. Implementations scale
// by the surface DPR themselves.
type Canvas interface {
	Begin(surface scene.Surface)
	Background(top, bottom scene.Color)
	SetBlend(b Blend)
	// FillRadial fills a disc fading from c at the center to transparent at radius.
	FillRadial(center scene.Vec2, radius float64, c scene.Color)
	FillCircle(center scene.Vec2, radius float64, c scene.Color)
	StrokeLine(a, b scene.Vec2, width float64, c scene.Color)
	StrokeCircle(center scene.Vec2, radius, width float64, c scene.Color)
	End()
}
