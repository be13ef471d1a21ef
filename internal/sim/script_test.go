package sim

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/scene"
)

func TestOrbitScript(t *testing.T) {
	script := OrbitScript(surface, 240, 120)

	clicks := 0
	for i, e := range script {
		if i > 0 && e.Frame < script[i-1].Frame {
			t.Fatal("expected events sorted by frame")
		}
		if e.Pos.X < 0 || e.Pos.X > surface.Width || e.Pos.Y < 0 || e.Pos.Y > surface.Height {
			t.Errorf("event %d off surface: %v", i, e.Pos)
		}
		if e.Kind == EventClick {
			clicks++
		}
	}
	if clicks != 2 {
		t.Errorf("expected 2 clicks, got %d", clicks)
	}
	if got := len(OrbitScript(surface, 10, 0)); got != 10 {
		t.Errorf("expected only moves without clicks, got %d events", got)
	}
}

func TestPlay(t *testing.T) {
	trace := metrics.NewTrace(100)
	c := newController(t, WithMetric(metrics.NewLinkDensity()), WithObserver(trace))
	c.Mount(surface)

	res, err := c.Play(context.Background(), 100, OrbitScript(surface, 100, 50), nil, nil)
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if res.Frames != 100 || len(trace.Samples) != 100 {
		t.Errorf("expected 100 frames, got %d (%d samples)", res.Frames, len(trace.Samples))
	}
	if _, ok := res.Metrics["links_per_frame"]; !ok {
		t.Error("expected metrics in result")
	}
	if !c.Snapshot().Pointer.Active {
		t.Error("expected scripted pointer to activate attraction")
	}
}

func TestPlayResizeEvent(t *testing.T) {
	c := newController(t)
	c.Mount(surface)
	small := scene.Surface{Width: 200, Height: 100, DPR: 1}
	script := Script{{Frame: 3, Kind: EventResize, Surface: small}}

	if _, err := c.Play(context.Background(), 5, script, nil, nil); err != nil {
		t.Fatal(err)
	}
	if got := c.Snapshot().Surface; got != small {
		t.Errorf("expected resized surface, got %+v", got)
	}
}

func TestPlayStopsOnCallbackError(t *testing.T) {
	c := newController(t)
	c.Mount(surface)
	stop := errors.New("stop")

	res, err := c.Play(context.Background(), 50, nil, nil, func(frame int) error {
		if frame == 9 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected callback error, got %v", err)
	}
	if res.Frames != 10 {
		t.Errorf("expected 10 frames, got %d", res.Frames)
	}
}

func TestPlayCanceled(t *testing.T) {
	c := newController(t)
	c.Mount(surface)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := c.Play(ctx, 50, nil, nil, nil)
	if !errors.Is(err, context.Canceled) || !res.Canceled || res.Frames != 0 {
		t.Errorf("expected immediate cancellation, got %v %+v", err, res)
	}
}

func TestEnsemble(t *testing.T) {
	e := NewEnsemble(scene.DefaultParams(), 4, 100, nil)
	e.SetWorkers(2)

	results, err := e.Run(context.Background(), surface, 60, OrbitScript(surface, 60, 30))
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != 100+int64(i) {
			t.Errorf("result %d: expected seed %d, got %d", i, 100+i, r.Seed)
		}
		if r.Frames != 60 {
			t.Errorf("result %d: expected 60 frames, got %d", i, r.Frames)
		}
		if len(r.Metrics) != len(metrics.Defaults()) {
			t.Errorf("result %d: expected every default metric, got %v", i, r.Metrics)
		}
	}
	if results[0].Metrics["kinetic_energy"] == results[1].Metrics["kinetic_energy"] {
		t.Error("expected different seeds to diverge")
	}
}

func TestEnsembleNoSurface(t *testing.T) {
	e := NewEnsemble(scene.DefaultParams(), 2, 1, nil)

	results, err := e.Run(context.Background(), scene.Surface{Width: 0, Height: 600}, 10, nil)
	if !errors.Is(err, scene.ErrNoSurface) {
		t.Errorf("expected ErrNoSurface, got %v", err)
	}
	if results != nil {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestEnsembleLogsPerSeed(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := NewEnsemble(scene.DefaultParams(), 3, 10, zap.New(core))

	if _, err := e.Run(context.Background(), surface, 5, nil); err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	seeds := make(map[int64]bool)
	for _, entry := range logs.FilterMessage("mounted").All() {
		if v, ok := entry.ContextMap()["seed"].(int64); ok {
			seeds[v] = true
		}
	}
	if len(seeds) != 3 {
		t.Errorf("expected a mount log for each of 3 seeds, got %v", seeds)
	}
	if n := logs.FilterMessage("unmounted").Len(); n != 3 {
		t.Errorf("expected 3 unmount logs, got %d", n)
	}
}
