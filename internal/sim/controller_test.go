package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var surface = scene.Surface{Width: 800, Height: 600, DPR: 1}

func newController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c := NewController(scene.New(scene.DefaultParams(), 11), nil, opts...)
	t.Cleanup(c.Unmount)
	return c
}

func TestMountInvalidSurface(t *testing.T) {
	tests := []struct {
		name    string
		surface scene.Surface
	}{
		{"zero", scene.Surface{}},
		{"no height", scene.Surface{Width: 100}},
		{"negative", scene.Surface{Width: -5, Height: 10}},
		{"nan", scene.Surface{Width: math.NaN(), Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t)
			if c.Mount(tt.surface) {
				t.Fatal("expected mount to be a no-op")
			}
			var rec render.Recorder
			if c.Frame(&rec) {
				t.Error("expected no frame without a mount")
			}
			if len(rec.Ops) != 0 {
				t.Errorf("expected nothing drawn, got %d ops", len(rec.Ops))
			}
		})
	}
}

func TestMountOnce(t *testing.T) {
	c := newController(t)
	if !c.Mount(surface) {
		t.Fatal("expected first mount to succeed")
	}
	if c.Mount(surface) {
		t.Error("expected second mount to be ignored")
	}
	c.Unmount()
	if c.Mount(surface) {
		t.Error("expected mount after unmount to be ignored")
	}
}

func TestNoFrameAfterUnmount(t *testing.T) {
	c := newController(t)
	c.Mount(surface)
	if !c.Frame(nil) {
		t.Fatal("expected a frame while mounted")
	}

	c.Unmount()
	c.Unmount()

	var rec render.Recorder
	if c.Frame(&rec) {
		t.Error("expected no frame after unmount")
	}
	if len(rec.Ops) != 0 {
		t.Error("expected nothing drawn after unmount")
	}
	st := c.Stats()
	if st.Mounted || !st.Stopped || st.Frames != 1 {
		t.Errorf("unexpected stats after unmount: %+v", st)
	}
}

func TestUnmountWaitsForInFlightFrame(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	block := ObserverFunc(func(*scene.Scene) {
		once.Do(func() {
			close(entered)
			<-release
		})
	})

	c := newController(t, WithObserver(block))
	c.Mount(surface)

	frameDone := make(chan struct{})
	go func() {
		c.Frame(nil)
		close(frameDone)
	}()
	<-entered

	unmounted := make(chan struct{})
	go func() {
		c.Unmount()
		close(unmounted)
	}()

	select {
	case <-unmounted:
		t.Fatal("unmount returned while a frame was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-frameDone
	<-unmounted

	if c.Frame(nil) {
		t.Error("expected no frame after unmount completed")
	}
}

func TestConcurrentUnmountDuringRun(t *testing.T) {
	var count atomic.Int64
	c := newController(t, WithFrameRate(1000), WithObserver(ObserverFunc(func(*scene.Scene) {
		count.Add(1)
	})))
	c.Mount(surface)

	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background(), &render.Recorder{}, nil)
	}()

	for count.Load() < 5 {
		time.Sleep(time.Millisecond)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Unmount()
		}()
	}
	wg.Wait()
	after := count.Load()

	if err := <-done; err != nil {
		t.Errorf("expected nil from Run after unmount, got %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if got := count.Load(); got != after {
		t.Errorf("frames ran after unmount: %d then %d", after, got)
	}
}

func TestRunCancel(t *testing.T) {
	c := newController(t, WithFrameRate(500))
	c.Mount(surface)

	ctx, cancel := context.WithCancel(context.Background())
	presented := 0
	err := c.Run(ctx, nil, func() error {
		presented++
		if presented == 3 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if presented != 3 {
		t.Errorf("expected 3 presented frames, got %d", presented)
	}
}

func TestRunPresentError(t *testing.T) {
	c := newController(t, WithFrameRate(500))
	c.Mount(surface)

	boom := errors.New("boom")
	err := c.Run(context.Background(), nil, func() error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected present error, got %v", err)
	}
}

func TestRunUnmounted(t *testing.T) {
	c := newController(t)
	if err := c.Run(context.Background(), nil, nil); err != nil {
		t.Errorf("expected immediate nil for unmounted controller, got %v", err)
	}
}

func TestClickAppliedAtNextFrame(t *testing.T) {
	c := newController(t)
	c.Mount(surface)
	c.Frame(nil)

	c.Click(10, 20)
	if c.Snapshot().Ring.Active {
		t.Fatal("click must not touch the scene between frames")
	}

	c.Frame(nil)
	ring := c.Snapshot().Ring
	if !ring.Active || ring.Center != (scene.Vec2{X: 10, Y: 20}) {
		t.Errorf("expected ring at (10,20), got %+v", ring)
	}
	if ring.Radius != 8 {
		t.Errorf("expected one frame of growth, got radius %f", ring.Radius)
	}
}

func TestLastClickWins(t *testing.T) {
	c := newController(t)
	c.Mount(surface)

	c.Click(1, 1)
	c.Click(50, 60)
	c.Frame(nil)

	if ring := c.Snapshot().Ring; ring.Center != (scene.Vec2{X: 50, Y: 60}) {
		t.Errorf("expected last click to win, got %+v", ring.Center)
	}
}

func TestPointerSticky(t *testing.T) {
	c := newController(t)
	c.Mount(surface)
	c.Frame(nil)
	if c.Snapshot().Pointer.Active {
		t.Fatal("expected pointer inactive before any move")
	}

	c.PointerMove(300, 200)
	c.Frame(nil)
	c.Frame(nil)

	ptr := c.Snapshot().Pointer
	if !ptr.Active || ptr.Pos != (scene.Vec2{X: 300, Y: 200}) {
		t.Errorf("expected sticky active pointer at (300,200), got %+v", ptr)
	}
}

func TestResizeRegenerates(t *testing.T) {
	c := newController(t)
	c.Mount(surface)
	c.Frame(nil)
	before := c.Snapshot()

	small := scene.Surface{Width: 400, Height: 300, DPR: 2}
	c.Resize(small)
	c.Frame(nil)
	after := c.Snapshot()

	if after.Surface != small {
		t.Errorf("expected surface %+v, got %+v", small, after.Surface)
	}
	if len(after.Agents) != len(before.Agents) || len(after.Bodies) != len(before.Bodies) {
		t.Error("expected the same population sizes after resize")
	}
	moved := 0
	for i, a := range after.Agents {
		if a.Pos.X < 0 || a.Pos.X >= 400 || a.Pos.Y < 0 || a.Pos.Y >= 300 {
			t.Errorf("agent %d outside resized surface: %v", i, a.Pos)
		}
		if a.Pos != before.Agents[i].Pos {
			moved++
		}
	}
	if moved == 0 {
		t.Error("expected a fresh generation after resize")
	}
}

func TestResizeInvalidIgnored(t *testing.T) {
	c := newController(t)
	c.Mount(surface)
	c.Resize(scene.Surface{Width: 0, Height: 300})
	c.Frame(nil)

	if got := c.Snapshot().Surface; got != surface {
		t.Errorf("expected surface unchanged, got %+v", got)
	}
}

func TestInvalidStateReseeds(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	corrupt := true
	poison := ObserverFunc(func(s *scene.Scene) {
		if corrupt {
			s.Agents[0].Vel = scene.Vec2{X: math.NaN()}
			corrupt = false
		}
	})

	c := NewController(scene.New(scene.DefaultParams(), 3), zap.New(core), WithObserver(poison))
	defer c.Unmount()
	c.Mount(surface)

	c.Frame(nil)
	c.Frame(nil)

	if got := c.Stats().Reseeds; got != 1 {
		t.Errorf("expected 1 reseed, got %d", got)
	}
	if err := c.Snapshot().CheckState(); err != nil {
		t.Errorf("expected clean state after reseed, got %v", err)
	}
	if n := logs.FilterMessage("non-finite scene state, reseeding").Len(); n != 1 {
		t.Errorf("expected one warning, got %d", n)
	}
	if logs.FilterMessage("mounted").Len() != 1 {
		t.Error("expected mount logged")
	}
}

func TestMetricsObserved(t *testing.T) {
	energy := metrics.NewKineticEnergy()
	c := newController(t, WithMetric(energy))
	c.Mount(surface)
	for i := 0; i < 5; i++ {
		c.Frame(nil)
	}

	got := c.Metrics()
	if _, ok := got["kinetic_energy"]; !ok {
		t.Fatalf("expected kinetic_energy in %v", got)
	}
	if got["kinetic_energy"] <= 0 {
		t.Errorf("expected positive energy, got %f", got["kinetic_energy"])
	}
}

func TestFrameDraws(t *testing.T) {
	c := newController(t, WithFlicker(nil))
	c.Mount(surface)

	var rec render.Recorder
	c.Frame(&rec)
	if rec.Count(render.OpBegin) != 1 || rec.Count(render.OpEnd) != 1 {
		t.Error("expected one complete frame drawn")
	}
	st := c.Stats()
	if rec.Count(render.OpFillCircle) != st.Agents || rec.Count(render.OpFillRadial) != st.Bodies {
		t.Errorf("expected %d agents and %d bodies drawn", st.Agents, st.Bodies)
	}
}
