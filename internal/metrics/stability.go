package metrics

import "github.com/san-kum/backdrop/internal/scene"

// Stability is the share of frames in which every agent stayed on the
// surface and under maxSpeed. A runaway agent costs its frame, not the run.
type Stability struct {
	maxSpeed float64
	frames   int
	clean    int
}

func NewStability(maxSpeed float64) *Stability {
	return &Stability{maxSpeed: maxSpeed}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(sc *scene.Scene) {
	s.frames++
	if bounded(sc.Agents, sc.Surface, s.maxSpeed) {
		s.clean++
	}
}

func bounded(agents []scene.PointAgent, surface scene.Surface, maxSpeed float64) bool {
	for i := range agents {
		a := &agents[i]
		if a.Speed() > maxSpeed {
			return false
		}
		if a.Pos.X < 0 || a.Pos.X >= surface.Width || a.Pos.Y < 0 || a.Pos.Y >= surface.Height {
			return false
		}
	}
	return true
}

// Value is 1 before the first frame.
func (s *Stability) Value() float64 {
	if s.frames == 0 {
		return 1
	}
	return float64(s.clean) / float64(s.frames)
}

func (s *Stability) Reset() { s.frames, s.clean = 0, 0 }
