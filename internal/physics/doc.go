// Package physics advances a [scene.Scene] by one frame.
//
// Each entity family has its own update rule:
//
//   - [StepBodies]: field bodies drift, pulse and soft-bounce off a buffer
//     one radius outside the surface
//   - [StepAgent]: self-drive, pointer attraction, impulse push, friction,
//     integration and edge wrapping for one point agent
//   - [Interact]: the pairwise pass (repulsion and plexus links)
//   - [AdvanceRing]: the click shockwave
//
// [Step] runs them in frame order. Forces are plain velocity deltas per
// frame; there is no time step, the engine is tuned in frames.
//
// # Pair Pass
//
// [Interact] visits every unordered pair once, O(M²). At the default 90
// agents this is ~4k pairs per frame. A spatial grid is the first thing to
// reach for if the agent count grows by an order of magnitude:
//
//	go test -bench Interact ./internal/physics
package physics
