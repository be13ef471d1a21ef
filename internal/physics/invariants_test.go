package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backdrop/internal/scene"
)

var _ = Describe("frame invariants", func() {
	var s *scene.Scene

	BeforeEach(func() {
		p := scene.DefaultParams()
		p.Bodies.MaxSpeed = 12
		p.Agents.MaxSpeed = 6
		s = scene.New(p, 42)
		s.Reseed(scene.Surface{Width: 640, Height: 360, DPR: 2})
	})

	// drive mixes pointer motion and clicks so every force path is hit.
	drive := func(frames int, check func()) {
		for i := 0; i < frames; i++ {
			if i%97 == 0 {
				Trigger(&s.Ring, scene.Vec2{X: s.Rand.Float64() * 640, Y: s.Rand.Float64() * 360})
			}
			s.Pointer = scene.PointerState{
				Pos:    scene.Vec2{X: 320 + 200*math.Cos(float64(i)/40), Y: 180 + 120*math.Sin(float64(i)/25)},
				Active: i%300 < 250,
			}
			Step(s)
			check()
		}
	}

	It("keeps every agent inside the surface", func() {
		drive(2000, func() {
			for i, a := range s.Agents {
				Expect(a.Pos.X).To(BeNumerically(">=", 0), "agent %d x at frame %d", i, s.Frame)
				Expect(a.Pos.X).To(BeNumerically("<", 640), "agent %d x at frame %d", i, s.Frame)
				Expect(a.Pos.Y).To(BeNumerically(">=", 0), "agent %d y at frame %d", i, s.Frame)
				Expect(a.Pos.Y).To(BeNumerically("<", 360), "agent %d y at frame %d", i, s.Frame)
			}
		})
	})

	It("keeps every body within its buffered box", func() {
		drive(2000, func() {
			for i, b := range s.Bodies {
				Expect(b.Pos.X).To(BeNumerically(">=", -b.Radius), "body %d", i)
				Expect(b.Pos.X).To(BeNumerically("<=", 640+b.Radius), "body %d", i)
				Expect(b.Pos.Y).To(BeNumerically(">=", -b.Radius), "body %d", i)
				Expect(b.Pos.Y).To(BeNumerically("<=", 360+b.Radius), "body %d", i)
			}
		})
	})

	It("keeps body radii in the pulse envelope", func() {
		amp := s.Params.Bodies.PulseAmplitude
		drive(500, func() {
			for _, b := range s.Bodies {
				Expect(b.Radius).To(BeNumerically("~", b.BaseRadius+amp*math.Sin(b.Phase), 1e-9))
				Expect(b.Radius).To(BeNumerically(">=", b.BaseRadius-amp))
				Expect(b.Radius).To(BeNumerically("<=", b.BaseRadius+amp))
			}
		})
	})

	It("never produces non-finite state", func() {
		drive(1500, func() {
			Expect(s.CheckState()).To(Succeed())
		})
	})

	It("only links pairs inside the link radius", func() {
		limit := s.Params.Links.Radius
		drive(300, func() {
			for _, l := range s.Links {
				Expect(l.A.Dist(l.B)).To(BeNumerically("<", limit))
				Expect(l.Alpha).To(BeNumerically(">", 0))
				Expect(l.Alpha).To(BeNumerically("<=", s.Params.Links.MaxAlpha))
			}
		})
	})

	It("draws links at post-integration positions", func() {
		Step(s)
		for _, l := range s.Links {
			Expect(hasAgentAt(s.Agents, l.A)).To(BeTrue())
			Expect(hasAgentAt(s.Agents, l.B)).To(BeTrue())
		}
	})

	It("counts frames", func() {
		drive(10, func() {})
		Expect(s.Frame).To(Equal(uint64(10)))
	})

	Context("with every agent force disabled", func() {
		BeforeEach(func() {
			s.Params.Agents.DriftStrength = 0
			s.Params.Repulsion.Strength = 0
		})

		It("decays all agents toward rest", func() {
			for i := 0; i < 600; i++ {
				Step(s)
			}
			for _, a := range s.Agents {
				Expect(a.Speed()).To(BeNumerically("<", 1e-9))
			}
		})
	})
})

func hasAgentAt(agents []scene.PointAgent, pos scene.Vec2) bool {
	for _, a := range agents {
		if a.Pos == pos {
			return true
		}
	}
	return false
}
