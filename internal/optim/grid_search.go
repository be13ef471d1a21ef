// Package optim searches scene parameters for the lowest value of a metric.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/backdrop/internal/automation"
)

// GridSearch tries every combination of the listed parameter values.
type GridSearch struct {
	names  []string
	values [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{names: params, values: ranges}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	if len(g.names) == 0 {
		return 0
	}
	n := 1
	for _, vs := range g.values {
		n *= len(vs)
	}
	return n
}

// Search plays base once per grid point and returns the point with the
// smallest metricName. Points that fail to validate or run are skipped;
// an unknown parameter name or a done ctx ends the search with an error.
func (g *GridSearch) Search(ctx context.Context, base automation.Session, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestPoint map[string]float64

	idx := make([]int, len(g.names))
	for n := g.Size(); n > 0; n-- {
		if err := ctx.Err(); err != nil {
			return bestPoint, best, err
		}

		point := g.point(idx)
		val, ok, err := g.evaluate(ctx, base, point, metricName)
		if err != nil {
			return bestPoint, best, err
		}
		if ok && val < best {
			best, bestPoint = val, point
		}
		g.advance(idx)
	}
	return bestPoint, best, nil
}

func (g *GridSearch) point(idx []int) map[string]float64 {
	p := make(map[string]float64, len(idx))
	for i, j := range idx {
		p[g.names[i]] = g.values[i][j]
	}
	return p
}

// advance steps idx like an odometer, last parameter fastest.
func (g *GridSearch) advance(idx []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < len(g.values[i]) {
			return
		}
		idx[i] = 0
	}
}

func (g *GridSearch) evaluate(ctx context.Context, base automation.Session, point map[string]float64, metricName string) (float64, bool, error) {
	s := base
	for name, v := range point {
		if err := automation.SetParam(&s.Params, name, v); err != nil {
			return 0, false, err
		}
	}
	if s.Params.Validate() != nil {
		return 0, false, nil
	}

	res, err := s.Play(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, false, nil
	}
	val, ok := res.Metrics[metricName]
	return val, ok, nil
}
