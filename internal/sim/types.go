package sim

import (
	"time"

	"github.com/san-kum/backdrop/internal/scene"
)

// Observer is called at the end of every frame, inside the frame's exclusive
// section. It must not retain s.
type Observer interface {
	OnFrame(s *scene.Scene)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *scene.Scene)

func (f ObserverFunc) OnFrame(s *scene.Scene) { f(s) }

type Stats struct {
	Frames     uint64
	Mounted    bool
	Stopped    bool
	Surface    scene.Surface
	Bodies     int
	Agents     int
	Links      int
	RingActive bool
	Reseeds    int
}

// Result summarises a headless run.
type Result struct {
	Seed     int64
	Frames   int
	Elapsed  time.Duration
	Metrics  map[string]float64
	Reseeds  int
	Canceled bool
}

// FPS is the achieved frame rate of the run.
func (r *Result) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}
