package physics

import (
	"math"

	"github.com/san-kum/backdrop/internal/scene"
)

// Fields is the per-frame input snapshot the agent forces read.
type Fields struct {
	Pointer scene.PointerState
	Ring    scene.ImpulseRing
}

// StepAgent applies self-drive, pointer attraction and impulse push, then
// friction, then integrates and wraps. Friction comes after every additive
// force and before integration.
func StepAgent(a *scene.PointAgent, f Fields, p *scene.Params, surface scene.Surface) {
	a.Vel = a.Vel.Add(DriftForce(a, p.Agents))
	a.Vel = a.Vel.Add(PointerForce(a.Pos, f.Pointer, p.Pointer))
	a.Vel = a.Vel.Add(ImpulseForce(a.Pos, f.Ring, p.Pulse))

	a.Vel = a.Vel.Scale(p.Agents.Friction)

	a.Pos = a.Pos.Add(a.Vel)
	a.Pos.X = Wrap(a.Pos.X, surface.Width)
	a.Pos.Y = Wrap(a.Pos.Y, surface.Height)
}

// StepAgents runs StepAgent over the whole population.
func StepAgents(agents []scene.PointAgent, f Fields, p *scene.Params, surface scene.Surface) {
	for i := range agents {
		StepAgent(&agents[i], f, p, surface)
	}
}

// DriftForce advances the agent's phase and returns the slow looping
// perturbation that keeps idle agents from settling.
func DriftForce(a *scene.PointAgent, p scene.AgentParams) scene.Vec2 {
	a.Phase += p.DriftStep
	sin, cos := math.Sincos(a.Phase)
	return scene.Vec2{X: cos * p.DriftStrength, Y: sin * p.DriftStrength}
}

// PointerForce pulls toward an active pointer, linearly weaker with distance
// and exactly zero from Radius on.
func PointerForce(pos scene.Vec2, ptr scene.PointerState, p scene.PointerParams) scene.Vec2 {
	if !ptr.Active {
		return scene.Vec2{}
	}
	toward := ptr.Pos.Sub(pos)
	d := toward.Len()
	if d >= p.Radius || d == 0 {
		return scene.Vec2{}
	}
	weight := (p.Radius - d) / p.Radius
	return toward.Scale(weight * p.Strength / d)
}

// ImpulseForce pushes outward with constant magnitude while the agent sits in
// the band (max(0, r-Trail), r+Lead) around the ring edge.
func ImpulseForce(pos scene.Vec2, ring scene.ImpulseRing, p scene.PulseParams) scene.Vec2 {
	if !ring.Active {
		return scene.Vec2{}
	}
	away := pos.Sub(ring.Center)
	d := away.Len()
	if d == 0 || !InBand(d, ring.Radius, p) {
		return scene.Vec2{}
	}
	return away.Scale(p.Force / d)
}

// InBand reports whether distance d from the ring center lies in the push band.
func InBand(d, radius float64, p scene.PulseParams) bool {
	return d < radius+p.Lead && d > math.Max(0, radius-p.Trail)
}

// Wrap maps v into [0, max). A value leaving one edge re-enters at the other.
func Wrap(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	if v >= 0 && v < max {
		return v
	}
	v = math.Mod(v, max)
	if v < 0 {
		v += max
	}
	if v >= max {
		v = 0
	}
	return v
}
