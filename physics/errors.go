package physics

import (
	"errors"
	"fmt"
)

var (
	ErrHandleExpired    = errors.New("physics: body handle expired")
	ErrNegativeTimestep = errors.New("physics: negative timestep")
	ErrInvalidTimestep  = errors.New("physics: timestep is not finite")
	ErrMaterialRange    = errors.New("physics: material out of range")
	ErrInvalidShape     = errors.New("physics: invalid shape")
	ErrInvalidMass      = errors.New("physics: invalid mass")
	ErrInvalidPose      = errors.New("physics: non-finite pose or velocity")
	ErrWorldClosed      = errors.New("physics: world closed")
	ErrReentrantStep    = errors.New("physics: world is mid-step")
	ErrBuilderConsumed  = errors.New("physics: builder already consumed")
)

func shapeError(kind, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidShape, kind, msg)
}
