package stepper

import (
	"fmt"
	"time"

	"github.com/milk9111/rigid2d/common"
)

// Variable steps its target once per Advance with the measured elapsed time.
type Variable struct {
	target   Target
	maxDelta float64
}

// NewVariable returns a variable-timestep driver. When maxDelta is positive
// each step is clamped to it.
func NewVariable(target Target, maxDelta float64) *Variable {
	return &Variable{target: target, maxDelta: maxDelta}
}

func (v *Variable) Advance(elapsed time.Duration) (int, error) {
	if elapsed < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeElapsed, elapsed)
	}
	dt := elapsed.Seconds()
	if v.maxDelta > 0 {
		dt = common.Clamp(dt, 0, v.maxDelta)
	}
	if err := v.target.Step(dt); err != nil {
		return 0, fmt.Errorf("stepper: variable step: %w", err)
	}
	if dt == 0 {
		return 0, nil
	}
	return 1, nil
}
