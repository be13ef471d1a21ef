package sim

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/san-kum/backdrop/internal/render"
)

// Run drives frames at the configured rate until ctx is done or the
// controller is unmounted. present, when non-nil, is called after each frame
// with the drawn canvas; an error from it ends the loop. Run returns nil on
// unmount and ctx.Err() on cancellation. It starts no goroutines.
func (c *Controller) Run(ctx context.Context, canvas render.Canvas, present func() error) error {
	limiter := rate.NewLimiter(rate.Limit(c.frameRate), 1)

	for {
		if c.stopped.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		if !c.Frame(canvas) {
			return nil
		}
		if present != nil {
			if err := present(); err != nil {
				return err
			}
		}
	}
}
