package scene

import (
	"errors"
	"fmt"
)

// Domain errors for scene operations.
var (
	// ErrNoSurface indicates a missing or degenerate rendering surface.
	ErrNoSurface = errors.New("scene: no valid rendering surface")

	// ErrInvalidState indicates an entity picked up a NaN or Inf.
	ErrInvalidState = errors.New("scene: invalid state (NaN or Inf detected)")

	// ErrInvalidParams indicates a tuning value outside its valid range.
	ErrInvalidParams = errors.New("scene: parameter out of valid bounds")
)

// SimulationError wraps an error with frame context.
type SimulationError struct {
	Frame   uint64
	Entity  string
	Index   int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d: %s[%d]: %v", e.Frame, e.Entity, e.Index, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
