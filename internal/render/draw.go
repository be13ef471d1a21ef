package render

import (
	"math"
	"math/rand"

	"github.com/san-kum/backdrop/internal/physics"
	"github.com/san-kum/backdrop/internal/scene"
)

// Draw paints s: background, additive bodies, agents, links, then the ring.
// rng supplies the per-frame alpha flicker and may be nil for a steady image.
func Draw(s *scene.Scene, c Canvas, rng *rand.Rand) {
	p := &s.Params
	c.Begin(s.Surface)
	c.Background(p.Background.Top, p.Background.Bottom)

	c.SetBlend(BlendLighter)
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if b.Radius <= 0 {
			continue
		}
		c.FillRadial(b.Pos, b.Radius, b.Color)
	}

	c.SetBlend(BlendNormal)
	for i := range s.Agents {
		a := &s.Agents[i]
		c.FillCircle(a.Pos, a.Size, a.Tint.WithAlpha(AgentAlpha(a.Alpha, p.Agents.Flicker, rng)))
	}

	for _, l := range s.Links {
		c.StrokeLine(l.A, l.B, l.Width, p.Links.Color.WithAlpha(l.Alpha))
	}

	if s.Ring.Active {
		alpha := physics.RingAlpha(s.Ring.Radius, p.Pulse)
		c.StrokeCircle(s.Ring.Center, s.Ring.Radius, p.Pulse.Width, p.Pulse.Color.WithAlpha(alpha))
	}
	c.End()
}

// AgentAlpha subtracts a flicker in [0, flicker) from base and clamps at 0.
func AgentAlpha(base, flicker float64, rng *rand.Rand) float64 {
	if rng != nil && flicker > 0 {
		base -= rng.Float64() * flicker
	}
	return math.Max(0, base)
}
