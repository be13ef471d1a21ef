package physics

import (
	"math"

	"github.com/san-kum/backdrop/internal/scene"
)

// Trigger starts a ring at the click position, replacing any ring in flight.
func Trigger(r *scene.ImpulseRing, at scene.Vec2) {
	r.Center = at
	r.Active = true
	r.Radius = 0
}

// AdvanceRing grows an active ring by one frame and deactivates it once it
// has passed ExtentFactor times the larger surface dimension.
func AdvanceRing(r *scene.ImpulseRing, surface scene.Surface, p scene.PulseParams) {
	if !r.Active {
		return
	}
	r.Radius += p.Speed
	if r.Radius > surface.Extent()*p.ExtentFactor {
		r.Active = false
	}
}

// RingAlpha fades linearly to zero at FadeDistance regardless of surface size.
func RingAlpha(radius float64, p scene.PulseParams) float64 {
	return math.Max(0, (1-radius/p.FadeDistance)*p.MaxAlpha)
}
