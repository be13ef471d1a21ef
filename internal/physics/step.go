package physics

import "github.com/san-kum/backdrop/internal/scene"

// Step advances s by one frame: bodies, agents, the pair pass, then the ring.
// Agents see the ring radius from before this frame's growth.
func Step(s *scene.Scene) {
	p := &s.Params
	StepBodies(s.Bodies, s.Surface, p.Bodies)
	StepAgents(s.Agents, Fields{Pointer: s.Pointer, Ring: s.Ring}, p, s.Surface)
	s.Links = Interact(s.Agents, s.Links, p)
	AdvanceRing(&s.Ring, s.Surface, p.Pulse)
	s.Frame++
}
