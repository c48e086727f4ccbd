package sim

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is the sentinel wrapped by every IndexError.
var ErrOutOfRange = errors.New("sim: terrain lookup out of range")

// IndexError reports a terrain lookup outside [0, width).
// It indicates a bug in the integrator, never a recoverable condition.
type IndexError struct {
	X     int
	Width int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("sim: terrain column %d outside [0, %d)", e.X, e.Width)
}

// Unwrap lets errors.Is match ErrOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrOutOfRange
}
