package metrics

import "github.com/san-kum/backdrop/internal/scene"

// Columns names the per-frame series a Trace records, in Sample order.
var Columns = []string{"frame", "kinetic_energy", "mean_speed", "links", "ring_radius"}

// Sample is one frame of recorded series.
type Sample struct {
	Frame      uint64
	Energy     float64
	MeanSpeed  float64
	Links      int
	RingRadius float64
}

// Values returns the sample in Columns order.
func (s Sample) Values() []float64 {
	return []float64{float64(s.Frame), s.Energy, s.MeanSpeed, float64(s.Links), s.RingRadius}
}

// Take samples the scene as it stands after a step.
func Take(s *scene.Scene) Sample {
	mean := 0.0
	if n := len(s.Agents); n > 0 {
		for i := range s.Agents {
			mean += s.Agents[i].Speed()
		}
		mean /= float64(n)
	}
	radius := 0.0
	if s.Ring.Active {
		radius = s.Ring.Radius
	}
	return Sample{
		Frame:      s.Frame,
		Energy:     AgentEnergy(s.Agents),
		MeanSpeed:  mean,
		Links:      len(s.Links),
		RingRadius: radius,
	}
}

// Trace is a frame observer that keeps every Sample.
type Trace struct {
	Samples []Sample
}

func NewTrace(capacity int) *Trace {
	return &Trace{Samples: make([]Sample, 0, capacity)}
}

func (t *Trace) OnFrame(s *scene.Scene) {
	t.Samples = append(t.Samples, Take(s))
}

// Series extracts column i of every sample.
func (t *Trace) Series(column int) []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.Values()[column]
	}
	return out
}
