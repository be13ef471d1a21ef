// Package viz renders the backdrop in a terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the Bubble Tea model driving a [sim.Controller]
//   - [Canvas]: Braille-based dot canvas with per-cell color
//   - [Braille]: the render.Canvas adapter that dithers soft fills to dots
//
// # Key Bindings
//
//	Mouse - Attract agents
//	Click - Emit an impulse ring
//	Space - Pause/Resume
//	R     - Regenerate the populations
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
