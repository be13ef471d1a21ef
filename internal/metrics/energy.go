package metrics

import (
	"math"

	"github.com/san-kum/backdrop/internal/scene"
)

// KineticEnergy averages the total agent kinetic energy (unit mass) per frame.
type KineticEnergy struct {
	name    string
	sum     float64
	last    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s *scene.Scene) {
	e.last = AgentEnergy(s.Agents)
	e.sum += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.sum = 0
	e.last = 0
	e.samples = 0
}

// AgentEnergy is sum(|v|^2)/2 over agents.
func AgentEnergy(agents []scene.PointAgent) float64 {
	total := 0.0
	for i := range agents {
		total += 0.5 * agents[i].Vel.LenSq()
	}
	return total
}

// EnergyBound tracks the largest per-frame energy seen. Friction keeps it
// finite for any run length.
type EnergyBound struct {
	name string
	max  float64
}

func NewEnergyBound() *EnergyBound {
	return &EnergyBound{name: "energy_peak"}
}

func (e *EnergyBound) Name() string { return e.name }

func (e *EnergyBound) Observe(s *scene.Scene) {
	e.max = math.Max(e.max, AgentEnergy(s.Agents))
}

func (e *EnergyBound) Value() float64 { return e.max }

func (e *EnergyBound) Reset() { e.max = 0 }
