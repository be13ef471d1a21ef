package sim

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

type EventKind int

const (
	EventMove EventKind = iota
	EventClick
	EventResize
)

// Event is a scripted input delivered just before frame Frame runs.
type Event struct {
	Frame   int
	Kind    EventKind
	Pos     scene.Vec2
	Surface scene.Surface
}

// Script is a list of events sorted by Frame.
type Script []Event

// OrbitScript moves the pointer along a Lissajous path over the surface and
// clicks every clickEvery frames. clickEvery <= 0 disables clicks.
func OrbitScript(surface scene.Surface, frames, clickEvery int) Script {
	w, h := surface.Width, surface.Height
	script := make(Script, 0, frames+frames/max(clickEvery, 1))
	for i := 0; i < frames; i++ {
		t := float64(i) / 60
		pos := scene.Vec2{
			X: w/2 + 0.35*w*math.Sin(0.7*t),
			Y: h/2 + 0.3*h*math.Sin(1.1*t+math.Pi/3),
		}
		script = append(script, Event{Frame: i, Kind: EventMove, Pos: pos})
		if clickEvery > 0 && i%clickEvery == 0 {
			script = append(script, Event{Frame: i, Kind: EventClick, Pos: pos})
		}
	}
	return script
}

// Play runs frames as fast as possible, feeding script events through the
// same input path as live surfaces. The controller must be mounted.
func (c *Controller) Play(ctx context.Context, frames int, script Script, canvas render.Canvas, after func(frame int) error) (*Result, error) {
	start := time.Now()
	res := &Result{}
	next := 0

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			res.Canceled = true
			c.finish(res, start)
			return res, ctx.Err()
		default:
		}

		for next < len(script) && script[next].Frame <= i {
			c.dispatch(script[next])
			next++
		}
		if !c.Frame(canvas) {
			break
		}
		res.Frames++
		if after != nil {
			if err := after(i); err != nil {
				c.finish(res, start)
				return res, err
			}
		}
	}

	c.finish(res, start)
	return res, nil
}

func (c *Controller) dispatch(e Event) {
	switch e.Kind {
	case EventMove:
		c.PointerMove(e.Pos.X, e.Pos.Y)
	case EventClick:
		c.Click(e.Pos.X, e.Pos.Y)
	case EventResize:
		c.Resize(e.Surface)
	}
}

func (c *Controller) finish(res *Result, start time.Time) {
	res.Elapsed = time.Since(start)
	res.Metrics = c.Metrics()
	res.Reseeds = c.Stats().Reseeds
}
