package metrics

import (
	"math"

	"github.com/san-kum/backdrop/internal/scene"
)

type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(s *scene.Scene) {
	if len(s.Agents) == 0 {
		return
	}
	total := 0.0
	for i := range s.Agents {
		total += s.Agents[i].Speed()
	}
	m.sum += total / float64(len(s.Agents))
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

type PeakSpeed struct {
	name string
	max  float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(s *scene.Scene) {
	for i := range s.Agents {
		p.max = math.Max(p.max, s.Agents[i].Speed())
	}
}

func (p *PeakSpeed) Value() float64 { return p.max }

func (p *PeakSpeed) Reset() { p.max = 0 }
