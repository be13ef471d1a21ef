package sim

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/physics"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

const DefaultFrameRate = 60

// Controller owns one scene from Mount to Unmount. Input methods are safe
// from any goroutine and only touch the pending buffer; Frame holds the frame
// lock for the whole step and draw, so input never sees a half-updated scene.
type Controller struct {
	frameMu   sync.Mutex
	scene     *scene.Scene
	mounted   bool
	reseeds   int
	rng       *rand.Rand
	metrics   []metrics.Metric
	observers []Observer
	invalid   rate.Sometimes

	inputMu sync.Mutex
	pending input

	stopped   atomic.Bool
	frames    atomic.Uint64
	frameRate int
	logger    *zap.Logger
}

// input is written between frames and consumed at the top of the next one.
type input struct {
	pointer scene.Vec2
	moved   bool
	click   scene.Vec2
	clicked bool
	surface scene.Surface
	resized bool
}

type Option func(*Controller)

func WithMetric(m metrics.Metric) Option {
	return func(c *Controller) { c.metrics = append(c.metrics, m) }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func WithFrameRate(fps int) Option {
	return func(c *Controller) {
		if fps > 0 {
			c.frameRate = fps
		}
	}
}

// WithFlicker sets the source of per-frame agent alpha flicker. nil draws a
// steady image.
func WithFlicker(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

func NewController(s *scene.Scene, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		scene:     s,
		rng:       rand.New(rand.NewSource(s.Rand.Int63())),
		frameRate: DefaultFrameRate,
		logger:    logger,
		invalid:   rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount seeds both populations for surface and enables frames. An invalid
// surface, a second mount or a mount after Unmount is a silent no-op.
func (c *Controller) Mount(surface scene.Surface) bool {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	if c.stopped.Load() || c.mounted {
		return false
	}
	if !surface.Valid() {
		c.logger.Debug("mount skipped: no usable surface",
			zap.Float64("width", surface.Width), zap.Float64("height", surface.Height))
		return false
	}

	c.scene.Reseed(surface)
	for _, m := range c.metrics {
		m.Reset()
	}
	c.mounted = true
	c.logger.Info("mounted",
		zap.Float64("width", c.scene.Surface.Width),
		zap.Float64("height", c.scene.Surface.Height),
		zap.Float64("dpr", c.scene.Surface.DPR),
		zap.Int("bodies", len(c.scene.Bodies)),
		zap.Int("agents", len(c.scene.Agents)))
	return true
}

// Resize records a new surface. The populations are regenerated at the start
// of the next frame.
func (c *Controller) Resize(surface scene.Surface) {
	c.inputMu.Lock()
	c.pending.surface = surface
	c.pending.resized = true
	c.inputMu.Unlock()
}

// PointerMove records the pointer in surface coordinates. The first move
// activates attraction for the rest of the session.
func (c *Controller) PointerMove(x, y float64) {
	c.inputMu.Lock()
	c.pending.pointer = scene.Vec2{X: x, Y: y}
	c.pending.moved = true
	c.inputMu.Unlock()
}

// Click records an impulse at (x, y). Clicks between two frames collapse to
// the last one.
func (c *Controller) Click(x, y float64) {
	c.inputMu.Lock()
	c.pending.click = scene.Vec2{X: x, Y: y}
	c.pending.clicked = true
	c.inputMu.Unlock()
}

// Frame applies pending input, advances the scene one step and draws it on
// canvas when canvas is non-nil. It reports false, without touching the
// scene, when the controller is not mounted or has been unmounted.
func (c *Controller) Frame(canvas render.Canvas) bool {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	if c.stopped.Load() || !c.mounted {
		return false
	}

	c.apply(c.takeInput())
	physics.Step(c.scene)
	c.validate()

	for _, m := range c.metrics {
		m.Observe(c.scene)
	}
	for _, o := range c.observers {
		o.OnFrame(c.scene)
	}
	if canvas != nil {
		render.Draw(c.scene, canvas, c.rng)
	}
	c.frames.Add(1)
	return true
}

func (c *Controller) takeInput() input {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	in := c.pending
	c.pending = input{}
	return in
}

func (c *Controller) apply(in input) {
	s := c.scene
	if in.resized {
		if in.surface.Valid() {
			s.Reseed(in.surface)
			c.logger.Debug("resized",
				zap.Float64("width", s.Surface.Width),
				zap.Float64("height", s.Surface.Height),
				zap.Float64("dpr", s.Surface.DPR))
		} else {
			c.logger.Debug("resize ignored: no usable surface")
		}
	}
	if in.moved {
		s.Pointer = scene.PointerState{Pos: in.pointer, Active: true}
	}
	if in.clicked {
		physics.Trigger(&s.Ring, in.click)
	}
}

// validate reseeds the generation if a step produced non-finite state.
func (c *Controller) validate() {
	err := c.scene.CheckState()
	if err == nil {
		return
	}
	c.invalid.Do(func() {
		c.logger.Warn("non-finite scene state, reseeding", zap.Error(err))
	})
	c.scene.Reseed(c.scene.Surface)
	c.scene.Ring = scene.ImpulseRing{}
	c.reseeds++
}

// Unmount stops the controller. It waits for an in-flight frame, after which
// no frame runs again. Safe to call more than once and from any goroutine.
func (c *Controller) Unmount() {
	if !c.stopped.CompareAndSwap(false, true) {
		return
	}
	c.frameMu.Lock()
	wasMounted := c.mounted
	c.mounted = false
	c.frameMu.Unlock()

	if wasMounted {
		c.logger.Info("unmounted", zap.Uint64("frames", c.frames.Load()))
	}
}

// Stopped reports whether Unmount has been called.
func (c *Controller) Stopped() bool { return c.stopped.Load() }

func (c *Controller) FrameRate() int { return c.frameRate }

func (c *Controller) Stats() Stats {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	s := c.scene
	return Stats{
		Frames:     c.frames.Load(),
		Mounted:    c.mounted,
		Stopped:    c.stopped.Load(),
		Surface:    s.Surface,
		Bodies:     len(s.Bodies),
		Agents:     len(s.Agents),
		Links:      len(s.Links),
		RingActive: s.Ring.Active,
		Reseeds:    c.reseeds,
	}
}

// Snapshot returns a deep copy of the scene between frames.
func (c *Controller) Snapshot() *scene.Scene {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	return c.scene.Snapshot()
}

// Metrics returns the current value of every registered metric.
func (c *Controller) Metrics() map[string]float64 {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
