// Package metrics summarises a running scene one frame at a time.
package metrics

import "github.com/san-kum/backdrop/internal/scene"

type Metric interface {
	Name() string
	Observe(s *scene.Scene)
	Value() float64
	Reset()
}

// Defaults returns the standard metric set used by recorded runs.
func Defaults() []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewEnergyBound(),
		NewMeanSpeed(),
		NewPeakSpeed(),
		NewStability(20),
		NewLinkDensity(),
		NewPulseCoverage(),
	}
}
