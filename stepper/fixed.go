package stepper

import (
	"fmt"
	"math"
	"time"

	"github.com/milk9111/rigid2d/common"
)

// Fixed advances its target in equal steps of DT, carrying leftover time to
// the next call.
type Fixed struct {
	target      Target
	dt          float64
	maxSubsteps int
	acc         float64
	dropped     float64
}

// NewFixed returns a fixed-timestep driver. maxSubsteps caps the steps run
// by one Advance call; backlog past the cap is dropped.
func NewFixed(target Target, dt float64, maxSubsteps int) (*Fixed, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", ErrInvalidStep)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: dt=%v", ErrInvalidStep, dt)
	}
	if maxSubsteps < 1 {
		return nil, fmt.Errorf("%w: max substeps %d", ErrInvalidStep, maxSubsteps)
	}
	return &Fixed{target: target, dt: dt, maxSubsteps: maxSubsteps}, nil
}

func (f *Fixed) Advance(elapsed time.Duration) (int, error) {
	if elapsed < 0 {
		return 0, fmt.Errorf("%w: %v", ErrNegativeElapsed, elapsed)
	}
	f.acc += elapsed.Seconds()

	steps := 0
	for f.acc >= f.dt {
		if steps == f.maxSubsteps {
			// keep the fractional part so Alpha stays meaningful
			keep := math.Mod(f.acc, f.dt)
			f.dropped += f.acc - keep
			f.acc = keep
			break
		}
		if err := f.target.Step(f.dt); err != nil {
			return steps, fmt.Errorf("stepper: fixed step %d: %w", steps, err)
		}
		f.acc -= f.dt
		steps++
	}
	return steps, nil
}

// Alpha is the fraction of a step left in the accumulator, for
// interpolating between the last two states.
func (f *Fixed) Alpha() float64 {
	return f.acc / f.dt
}

// Blend interpolates a scalar between its value before and after the last
// step by Alpha.
func (f *Fixed) Blend(prev, cur float64) float64 {
	return common.Lerp(prev, cur, f.Alpha())
}

// DT returns the step size in seconds.
func (f *Fixed) DT() float64 {
	return f.dt
}

// Dropped returns the total seconds discarded by the substep cap.
func (f *Fixed) Dropped() float64 {
	return f.dropped
}
