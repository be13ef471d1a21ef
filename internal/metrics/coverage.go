package metrics

import (
	"github.com/san-kum/backdrop/internal/physics"
	"github.com/san-kum/backdrop/internal/scene"
)

// PulseCoverage averages the fraction of agents inside the impulse band over
// the frames where a ring is active.
type PulseCoverage struct {
	name    string
	sum     float64
	samples int
}

func NewPulseCoverage() *PulseCoverage {
	return &PulseCoverage{name: "pulse_coverage"}
}

func (c *PulseCoverage) Name() string {
	return c.name
}

func (c *PulseCoverage) Observe(s *scene.Scene) {
	if !s.Ring.Active || len(s.Agents) == 0 {
		return
	}
	in := 0
	for i := range s.Agents {
		if physics.InBand(s.Agents[i].Pos.Dist(s.Ring.Center), s.Ring.Radius, s.Params.Pulse) {
			in++
		}
	}
	c.sum += float64(in) / float64(len(s.Agents))
	c.samples++
}

func (c *PulseCoverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *PulseCoverage) Reset() {
	c.sum = 0
	c.samples = 0
}
