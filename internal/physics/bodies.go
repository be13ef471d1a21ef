package physics

import (
	"math"

	"github.com/san-kum/backdrop/internal/scene"
)

// StepBodies integrates, pulses and bounces every field body.
func StepBodies(bodies []scene.FieldBody, surface scene.Surface, p scene.BodyParams) {
	for i := range bodies {
		stepBody(&bodies[i], surface.Width, surface.Height, p.PulseAmplitude)
	}
}

func stepBody(b *scene.FieldBody, w, h, amplitude float64) {
	b.Pos = b.Pos.Add(b.Vel)
	b.Phase += b.AngularSpeed
	b.Radius = b.BaseRadius + amplitude*math.Sin(b.Phase)

	// Bounce off a box grown by the body's own radius so large bodies turn
	// before their edge clips the surface. Clamping keeps the body inside the
	// box when the pulse shrinks the radius under it.
	r := b.Radius
	b.Pos.X, b.Vel.X = bounce(b.Pos.X, b.Vel.X, -r, w+r)
	b.Pos.Y, b.Vel.Y = bounce(b.Pos.Y, b.Vel.Y, -r, h+r)
}

func bounce(pos, vel, lo, hi float64) (float64, float64) {
	switch {
	case pos < lo:
		return lo, math.Abs(vel)
	case pos > hi:
		return hi, -math.Abs(vel)
	}
	return pos, vel
}
