package metrics

import "github.com/san-kum/backdrop/internal/scene"

// LinkDensity averages the number of plexus links drawn per frame.
type LinkDensity struct {
	name    string
	sum     int
	samples int
}

func NewLinkDensity() *LinkDensity {
	return &LinkDensity{name: "links_per_frame"}
}

func (l *LinkDensity) Name() string { return l.name }

func (l *LinkDensity) Observe(s *scene.Scene) {
	l.sum += len(s.Links)
	l.samples++
}

func (l *LinkDensity) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return float64(l.sum) / float64(l.samples)
}

func (l *LinkDensity) Reset() {
	l.sum = 0
	l.samples = 0
}
