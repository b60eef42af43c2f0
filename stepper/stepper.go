// Package stepper turns elapsed wall-clock time into World steps.
package stepper

import (
	"errors"
	"time"
)

var (
	ErrNegativeElapsed = errors.New("stepper: negative elapsed time")
	ErrInvalidStep     = errors.New("stepper: invalid step size")
)

// Target is anything advanced in discrete steps, usually a *physics.World.
type Target interface {
	Step(dt float64) error
}

// Driver converts elapsed time into steps on its target. It returns the
// number of steps that succeeded.
type Driver interface {
	Advance(elapsed time.Duration) (int, error)
}
