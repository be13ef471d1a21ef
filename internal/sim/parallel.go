package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/scene"
)

// Ensemble plays the same script against several seeds in parallel. Each run
// owns its scene, controller and metric set.
type Ensemble struct {
	params    scene.Params
	numRuns   int
	seedStart int64
	workers   int
	logger    *zap.Logger
}

func NewEnsemble(params scene.Params, numRuns int, seedStart int64, logger *zap.Logger) *Ensemble {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ensemble{params: params, numRuns: numRuns, seedStart: seedStart, logger: logger}
}

// SetWorkers bounds concurrent runs. n <= 0 means no limit.
func (e *Ensemble) SetWorkers(n int) { e.workers = n }

func (e *Ensemble) Run(ctx context.Context, surface scene.Surface, frames int, script Script) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	for i := 0; i < e.numRuns; i++ {
		seed := e.seedStart + int64(i)
		g.Go(func() error {
			opts := make([]Option, 0, 8)
			for _, m := range metrics.Defaults() {
				opts = append(opts, WithMetric(m))
			}
			c := NewController(scene.New(e.params, seed), e.logger.With(zap.Int64("seed", seed)), opts...)
			defer c.Unmount()
			if !c.Mount(surface) {
				return fmt.Errorf("seed %d: %vx%v: %w", seed, surface.Width, surface.Height, scene.ErrNoSurface)
			}

			res, err := c.Play(ctx, frames, script, nil, nil)
			if res != nil {
				res.Seed = seed
			}
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
