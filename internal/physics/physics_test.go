package physics

import (
	"math"
	"testing"

	"github.com/san-kum/backdrop/internal/scene"
)

func singleAgentScene(pos, vel scene.Vec2) *scene.Scene {
	p := scene.DefaultParams()
	p.Bodies.Count = 0
	p.Agents.Count = 0
	s := scene.New(p, 1)
	s.Reseed(scene.Surface{Width: 800, Height: 600, DPR: 1})
	s.Agents = append(s.Agents, scene.PointAgent{Pos: pos, Vel: vel, Size: 2, Alpha: 0.5})
	return s
}

func TestPointerPullScenario(t *testing.T) {
	s := singleAgentScene(scene.Vec2{X: 100, Y: 100}, scene.Vec2{})
	s.Pointer = scene.PointerState{Pos: scene.Vec2{X: 100, Y: 340}, Active: true}

	pull := PointerForce(s.Agents[0].Pos, s.Pointer, s.Params.Pointer)
	if math.Abs(pull.X) > 1e-12 {
		t.Errorf("expected no sideways pull, got %f", pull.X)
	}
	if want := (10.0 / 250.0) * 0.25; math.Abs(pull.Y-want) > 1e-12 {
		t.Errorf("expected pull %f, got %f", want, pull.Y)
	}

	Step(s)
	a := s.Agents[0]
	if a.Vel.Y <= 0 {
		t.Fatalf("expected positive vy toward pointer, got %f", a.Vel.Y)
	}
	if a.Pos.Y <= 100 {
		t.Errorf("expected agent to move toward pointer, got y=%f", a.Pos.Y)
	}
	if dy := a.Pos.Y - 100; math.Abs(dy-a.Vel.Y) > 1e-12 {
		t.Errorf("expected integration with the damped velocity %f, moved %f", a.Vel.Y, dy)
	}
}

func TestPointerForceCutoff(t *testing.T) {
	p := scene.DefaultParams().Pointer
	ptr := scene.PointerState{Pos: scene.Vec2{}, Active: true}

	tests := []struct {
		name string
		pos  scene.Vec2
		zero bool
	}{
		{"inside", scene.Vec2{X: 249}, false},
		{"at radius", scene.Vec2{X: 250}, true},
		{"beyond", scene.Vec2{X: 400}, true},
		{"coincident", scene.Vec2{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := PointerForce(tt.pos, ptr, p)
			if (f == scene.Vec2{}) != tt.zero {
				t.Errorf("PointerForce(%v) = %v, zero want %v", tt.pos, f, tt.zero)
			}
		})
	}

	inactive := scene.PointerState{Pos: scene.Vec2{}, Active: false}
	if f := PointerForce(scene.Vec2{X: 10}, inactive, p); f != (scene.Vec2{}) {
		t.Errorf("inactive pointer should exert nothing, got %v", f)
	}
}

func TestImpulseBand(t *testing.T) {
	p := scene.DefaultParams().Pulse

	tests := []struct {
		d, radius float64
		in        bool
	}{
		{30, 0, true},
		{60, 0, false},
		{0, 0, false},
		{200, 300, true},
		{180, 300, false},
		{359, 300, true},
		{361, 300, false},
		// both edges are open
		{180 + 1e-9, 300, true},
		{360, 300, false},
		{360 - 1e-9, 300, true},
		{60 - 1e-9, 0, true},
		// trailing edge clamps at the center, which is itself excluded
		{1e-9, 50, true},
		{0, 50, false},
	}

	for _, tt := range tests {
		if got := InBand(tt.d, tt.radius, p); got != tt.in {
			t.Errorf("InBand(d=%v, r=%v) = %v, want %v", tt.d, tt.radius, got, tt.in)
		}
	}
}

func TestImpulseForceConstantMagnitude(t *testing.T) {
	p := scene.DefaultParams().Pulse
	ring := scene.ImpulseRing{Center: scene.Vec2{X: 400, Y: 300}, Active: true, Radius: 200}

	for _, d := range []float64{90, 150, 220, 255} {
		f := ImpulseForce(scene.Vec2{X: 400 + d, Y: 300}, ring, p)
		if math.Abs(f.Len()-p.Force) > 1e-9 {
			t.Errorf("d=%v: expected magnitude %v, got %v", d, p.Force, f.Len())
		}
		if f.X <= 0 {
			t.Errorf("d=%v: expected outward push, got %v", d, f)
		}
	}

	if f := ImpulseForce(ring.Center, ring, p); f != (scene.Vec2{}) {
		t.Errorf("agent on ring center should get nothing, got %v", f)
	}
}

func TestFrictionConvergence(t *testing.T) {
	s := singleAgentScene(scene.Vec2{X: 400, Y: 300}, scene.Vec2{X: 3, Y: -4})
	s.Params.Agents.DriftStrength = 0

	prev := s.Agents[0].Speed()
	for frame := 0; prev > 1e-9; frame++ {
		if frame > 10000 {
			t.Fatalf("speed did not converge, still %g", prev)
		}
		Step(s)
		speed := s.Agents[0].Speed()
		if speed >= prev {
			t.Fatalf("frame %d: speed grew from %g to %g", frame, prev, speed)
		}
		prev = speed
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, max, want float64
	}{
		{5, 10, 5},
		{0, 10, 0},
		{10, 10, 0},
		{-0.5, 10, 9.5},
		{10.5, 10, 0.5},
		{-20, 10, 0},
		{3, 0, 0},
	}

	for _, tt := range tests {
		if got := Wrap(tt.v, tt.max); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Wrap(%v, %v) = %v, want %v", tt.v, tt.max, got, tt.want)
		}
	}

	if got := Wrap(-1e-18, 10); got < 0 || got >= 10 {
		t.Errorf("tiny negative should land in [0, 10), got %v", got)
	}
}

func TestLinkStyleMonotonic(t *testing.T) {
	p := scene.DefaultParams().Links

	prevAlpha, prevWidth, _ := LinkStyle(0, p)
	if math.Abs(prevAlpha-p.MaxAlpha) > 1e-12 || math.Abs(prevWidth-p.MaxWidth) > 1e-12 {
		t.Errorf("expected max style at d=0, got alpha=%f width=%f", prevAlpha, prevWidth)
	}
	for d := 0.5; d < p.Radius; d += 0.5 {
		alpha, width, ok := LinkStyle(d, p)
		if !ok {
			t.Fatalf("expected link at d=%v", d)
		}
		if alpha >= prevAlpha || width >= prevWidth {
			t.Fatalf("style not strictly decreasing at d=%v", d)
		}
		prevAlpha, prevWidth = alpha, width
	}

	for _, d := range []float64{p.Radius, p.Radius + 1, 1000} {
		if alpha, width, ok := LinkStyle(d, p); ok || alpha != 0 || width != 0 {
			t.Errorf("expected no link at d=%v, got alpha=%f width=%f", d, alpha, width)
		}
	}

	nearEdge, _, _ := LinkStyle(p.Radius-1e-6, p)
	if nearEdge > 1e-6 {
		t.Errorf("opacity should approach 0 continuously, got %g just inside", nearEdge)
	}
}

func TestRepulsionSymmetry(t *testing.T) {
	p := scene.DefaultParams()
	agents := []scene.PointAgent{
		{Pos: scene.Vec2{X: 100, Y: 100}, Vel: scene.Vec2{X: 0.1}},
		{Pos: scene.Vec2{X: 130, Y: 140}, Vel: scene.Vec2{Y: -0.2}},
	}
	before := []scene.Vec2{agents[0].Vel, agents[1].Vel}

	Interact(agents, nil, &p)

	da := agents[0].Vel.Sub(before[0])
	db := agents[1].Vel.Sub(before[1])
	if da == (scene.Vec2{}) {
		t.Fatal("expected repulsion between agents 50 apart")
	}
	if sum := da.Add(db); sum.Len() > 1e-12 {
		t.Errorf("deltas not equal and opposite: %v vs %v", da, db)
	}
	// A sits up-left of B, so A is pushed further up-left.
	if da.X >= 0 || da.Y >= 0 {
		t.Errorf("expected A pushed away from B, got %v", da)
	}
}

func TestRepulsionAndLinkBothApply(t *testing.T) {
	p := scene.DefaultParams()
	agents := []scene.PointAgent{
		{Pos: scene.Vec2{X: 200, Y: 200}},
		{Pos: scene.Vec2{X: 250, Y: 200}},
	}

	links := Interact(agents, nil, &p)

	if len(links) != 1 {
		t.Fatalf("expected 1 link for a pair 50 apart, got %d", len(links))
	}
	wantAlpha, wantWidth, _ := LinkStyle(50, p.Links)
	if math.Abs(links[0].Alpha-wantAlpha) > 1e-12 || math.Abs(links[0].Width-wantWidth) > 1e-12 {
		t.Errorf("unexpected link style: %+v", links[0])
	}
	wantPush := (60.0 - 50.0) / 60.0 * 0.5
	if math.Abs(agents[0].Vel.X+wantPush) > 1e-12 || math.Abs(agents[1].Vel.X-wantPush) > 1e-12 {
		t.Errorf("expected push of %f each way, got %v and %v", wantPush, agents[0].Vel, agents[1].Vel)
	}
}

func TestInteractCoincident(t *testing.T) {
	p := scene.DefaultParams()
	agents := []scene.PointAgent{
		{Pos: scene.Vec2{X: 10, Y: 10}},
		{Pos: scene.Vec2{X: 10, Y: 10}},
	}

	links := Interact(agents, nil, &p)

	for i, a := range agents {
		if !a.Vel.IsValid() || a.Vel != (scene.Vec2{}) {
			t.Errorf("agent %d: coincident pair should be a no-op, got %v", i, a.Vel)
		}
	}
	if len(links) != 1 || !links[0].A.IsValid() {
		t.Errorf("expected one finite link for coincident agents, got %v", links)
	}
}

func TestInteractReusesBuffer(t *testing.T) {
	p := scene.DefaultParams()
	agents := []scene.PointAgent{
		{Pos: scene.Vec2{X: 0, Y: 0}},
		{Pos: scene.Vec2{X: 100, Y: 0}},
		{Pos: scene.Vec2{X: 500, Y: 0}},
	}
	buf := make([]scene.Link, 5, 16)

	links := Interact(agents, buf, &p)
	if len(links) != 1 {
		t.Fatalf("expected stale entries dropped, got %d links", len(links))
	}
	if &links[0] != &buf[0] {
		t.Error("expected the link buffer to be reused")
	}
}

func TestRingLifecycle(t *testing.T) {
	s := singleAgentScene(scene.Vec2{X: 1, Y: 1}, scene.Vec2{})
	Trigger(&s.Ring, scene.Vec2{X: 10, Y: 20})

	if !s.Ring.Active || s.Ring.Radius != 0 || s.Ring.Center != (scene.Vec2{X: 10, Y: 20}) {
		t.Fatalf("unexpected ring after trigger: %+v", s.Ring)
	}

	limit := 1.2 * 800.0
	prev := s.Ring.Radius
	frames := 0
	for s.Ring.Active {
		Step(s)
		frames++
		if s.Ring.Radius <= prev {
			t.Fatalf("frame %d: radius did not grow (%f -> %f)", frames, prev, s.Ring.Radius)
		}
		if s.Ring.Active && s.Ring.Radius > limit {
			t.Fatalf("ring still active at radius %f > %f", s.Ring.Radius, limit)
		}
		prev = s.Ring.Radius
		if frames > 1000 {
			t.Fatal("ring never deactivated")
		}
	}
	if s.Ring.Radius <= limit {
		t.Errorf("ring deactivated early at radius %f", s.Ring.Radius)
	}
	if frames != 121 {
		t.Errorf("expected 121 frames at speed 8, got %d", frames)
	}
}

func TestRingRetrigger(t *testing.T) {
	var ring scene.ImpulseRing
	Trigger(&ring, scene.Vec2{X: 1, Y: 1})
	ring.Radius = 300

	Trigger(&ring, scene.Vec2{X: 50, Y: 60})
	if ring.Radius != 0 || ring.Center != (scene.Vec2{X: 50, Y: 60}) || !ring.Active {
		t.Errorf("new click should replace the ring in flight, got %+v", ring)
	}
}

func TestRingAlpha(t *testing.T) {
	p := scene.DefaultParams().Pulse
	if got := RingAlpha(0, p); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("expected 0.3 at radius 0, got %f", got)
	}
	if got := RingAlpha(350, p); math.Abs(got-0.15) > 1e-12 {
		t.Errorf("expected 0.15 at radius 350, got %f", got)
	}
	if got := RingAlpha(900, p); got != 0 {
		t.Errorf("expected 0 beyond fade distance, got %f", got)
	}
}

func TestBodyBounce(t *testing.T) {
	b := scene.FieldBody{
		Pos:        scene.Vec2{X: 805, Y: 300},
		Vel:        scene.Vec2{X: 10, Y: 0},
		BaseRadius: 0,
	}
	bodies := []scene.FieldBody{b}
	StepBodies(bodies, scene.Surface{Width: 800, Height: 600}, scene.BodyParams{})
	if bodies[0].Vel.X >= 0 {
		t.Errorf("expected velocity to turn back, got %f", bodies[0].Vel.X)
	}
	if bodies[0].Pos.X > 800 {
		t.Errorf("expected position clamped to buffer edge, got %f", bodies[0].Pos.X)
	}

	// Within the buffer nothing changes direction.
	bodies = []scene.FieldBody{{Pos: scene.Vec2{X: 850, Y: 300}, Vel: scene.Vec2{X: 1}, BaseRadius: 100}}
	StepBodies(bodies, scene.Surface{Width: 800, Height: 600}, scene.BodyParams{})
	if bodies[0].Vel.X != 1 {
		t.Errorf("expected no bounce inside the buffer, got %f", bodies[0].Vel.X)
	}
}

func TestBodyPulse(t *testing.T) {
	bodies := []scene.FieldBody{{Pos: scene.Vec2{X: 10, Y: 10}, BaseRadius: 200, Phase: 0, AngularSpeed: math.Pi / 2}}
	StepBodies(bodies, scene.Surface{Width: 800, Height: 600}, scene.BodyParams{PulseAmplitude: 30})
	if math.Abs(bodies[0].Radius-230) > 1e-9 {
		t.Errorf("expected radius 230 at phase pi/2, got %f", bodies[0].Radius)
	}
}
