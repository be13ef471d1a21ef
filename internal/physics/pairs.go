package physics

import (
	"math"

	"github.com/san-kum/backdrop/internal/scene"
)

// Interact evaluates every unordered pair once: agents closer than the
// repulsion radius push apart with equal and opposite velocity deltas, and
// agents closer than the link radius get a plexus segment. Both rules apply
// independently to the same pair. Links are appended to links[:0] and the
// grown buffer is returned.
func Interact(agents []scene.PointAgent, links []scene.Link, p *scene.Params) []scene.Link {
	links = links[:0]
	reach := math.Max(p.Repulsion.Radius, p.Links.Radius)
	reachSq := reach * reach

	for i := 0; i < len(agents); i++ {
		a := &agents[i]
		for j := i + 1; j < len(agents); j++ {
			b := &agents[j]
			sep := a.Pos.Sub(b.Pos)
			dSq := sep.LenSq()
			if dSq >= reachSq {
				continue
			}
			d := math.Sqrt(dSq)

			if f, ok := RepulsionForce(sep, d, p.Repulsion); ok {
				a.Vel = a.Vel.Add(f)
				b.Vel = b.Vel.Sub(f)
			}

			if alpha, width, ok := LinkStyle(d, p.Links); ok {
				links = append(links, scene.Link{A: a.Pos, B: b.Pos, Alpha: alpha, Width: width})
			}
		}
	}
	return links
}

// RepulsionForce returns the delta for the first agent of a pair separated by
// sep (first minus second) at distance d. The second agent receives the
// negation. Coincident agents get nothing.
func RepulsionForce(sep scene.Vec2, d float64, p scene.RepulsionParams) (scene.Vec2, bool) {
	if d >= p.Radius || d == 0 {
		return scene.Vec2{}, false
	}
	weight := (p.Radius - d) / p.Radius
	return sep.Scale(weight * p.Strength / d), true
}

// LinkStyle returns stroke opacity and width for two agents at distance d.
// Both fall continuously to zero at the link radius.
func LinkStyle(d float64, p scene.LinkParams) (alpha, width float64, ok bool) {
	if d >= p.Radius || d < 0 {
		return 0, 0, false
	}
	closeness := 1 - d/p.Radius
	return p.MaxAlpha * math.Pow(closeness, p.Exponent), p.MaxWidth * closeness, true
}
