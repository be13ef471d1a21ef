package scene

import (
	"math"
	"math/rand"
)

// Scene is the explicit simulation context. The controller owns it and hands
// it by pointer to the update and draw passes; nothing else holds a reference
// across frames.
type Scene struct {
	Surface Surface
	Pointer PointerState
	Ring    ImpulseRing
	Bodies  []FieldBody
	Agents  []PointAgent
	Links   []Link
	Frame   uint64
	Params  Params
	Rand    *rand.Rand
}

func New(params Params, seed int64) *Scene {
	return &Scene{
		Params: params,
		Rand:   rand.New(rand.NewSource(seed)),
		Bodies: make([]FieldBody, 0, params.Bodies.Count),
		Agents: make([]PointAgent, 0, params.Agents.Count),
		Links:  make([]Link, 0, params.Agents.Count*4),
	}
}

// Reseed regenerates both populations for the given surface. Positions are
// drawn fresh, not rescaled from the previous generation.
func (s *Scene) Reseed(surface Surface) {
	s.Surface = surface.Normalized()
	s.Bodies = s.Bodies[:0]
	s.Agents = s.Agents[:0]
	s.Links = s.Links[:0]

	w, h := s.Surface.Width, s.Surface.Height
	bp := s.Params.Bodies
	for i := 0; i < bp.Count; i++ {
		base := s.Rand.Float64()*bp.RadiusSpread + bp.MinRadius
		phase := s.Rand.Float64() * 2 * math.Pi
		s.Bodies = append(s.Bodies, FieldBody{
			Pos:          Vec2{s.Rand.Float64() * w, s.Rand.Float64() * h},
			Vel:          Vec2{s.spread(bp.MaxSpeed), s.spread(bp.MaxSpeed)},
			BaseRadius:   base,
			Radius:       base + bp.PulseAmplitude*math.Sin(phase),
			Phase:        phase,
			AngularSpeed: s.Rand.Float64()*bp.AngularSpread + bp.MinAngular,
			Color:        s.paletteColor(i),
		})
	}

	ap := s.Params.Agents
	for i := 0; i < ap.Count; i++ {
		s.Agents = append(s.Agents, PointAgent{
			Pos:   Vec2{s.Rand.Float64() * w, s.Rand.Float64() * h},
			Vel:   Vec2{s.spread(ap.MaxSpeed), s.spread(ap.MaxSpeed)},
			Size:  s.Rand.Float64()*ap.SizeSpread + ap.MinSize,
			Tint:  ap.Tint,
			Alpha: s.Rand.Float64()*ap.AlphaSpread + ap.MinAlpha,
			Phase: s.Rand.Float64() * 2 * math.Pi,
		})
	}
}

func (s *Scene) paletteColor(i int) Color {
	palette := s.Params.Bodies.Palette
	if len(palette) == 0 {
		return RGBA(255, 255, 255, 0.3)
	}
	return palette[i%len(palette)]
}

// spread returns a uniform value in [-max, max).
func (s *Scene) spread(max float64) float64 {
	return (s.Rand.Float64()*2 - 1) * max
}

// CheckState returns a *SimulationError for the first entity holding a
// non-finite value.
func (s *Scene) CheckState() error {
	for i := range s.Bodies {
		if !s.Bodies[i].IsValid() {
			return &SimulationError{Frame: s.Frame, Entity: "body", Index: i, Wrapped: ErrInvalidState}
		}
	}
	for i := range s.Agents {
		if !s.Agents[i].IsValid() {
			return &SimulationError{Frame: s.Frame, Entity: "agent", Index: i, Wrapped: ErrInvalidState}
		}
	}
	return nil
}

// Snapshot returns a deep copy that shares no slices with s. The copy gets
// its own generator seeded from the frame counter, so taking a snapshot does
// not disturb the random sequence of s.
func (s *Scene) Snapshot() *Scene {
	c := *s
	c.Bodies = append([]FieldBody(nil), s.Bodies...)
	c.Agents = append([]PointAgent(nil), s.Agents...)
	c.Links = append([]Link(nil), s.Links...)
	c.Params.Bodies.Palette = append([]Color(nil), s.Params.Bodies.Palette...)
	c.Rand = rand.New(rand.NewSource(int64(s.Frame)))
	return &c
}
