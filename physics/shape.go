package physics

import (
	"fmt"
	"math"
)

// Shape is collider geometry in body-local coordinates. The set of shapes is
// closed: Box, Circle, Capsule and Segment.
type Shape interface {
	Validate() error
	shape()
}

// Box is an axis-aligned box in body space, centered at Offset.
type Box struct {
	HalfExtents Vector
	Offset      Vector
}

// Circle is a disc centered at Offset.
type Circle struct {
	Radius float64
	Offset Vector
}

// Capsule is a vertical capsule centered on the body origin. HalfHeight
// measures the straight part between the two cap centers.
type Capsule struct {
	HalfHeight float64
	Radius     float64
}

// Segment is a zero-thickness line between A and B.
type Segment struct {
	A Vector
	B Vector
}

func (Box) shape()     {}
func (Circle) shape()  {}
func (Capsule) shape() {}
func (Segment) shape() {}

func (s Box) Validate() error {
	if !finiteVector(s.HalfExtents) || !finiteVector(s.Offset) {
		return shapeError("box", "non-finite component")
	}
	if s.HalfExtents.X <= 0 || s.HalfExtents.Y <= 0 {
		return shapeError("box", "half extents must be positive")
	}
	return nil
}

func (s Circle) Validate() error {
	if !finite(s.Radius) || !finiteVector(s.Offset) {
		return shapeError("circle", "non-finite component")
	}
	if s.Radius <= 0 {
		return shapeError("circle", "radius must be positive")
	}
	return nil
}

func (s Capsule) Validate() error {
	if !finite(s.HalfHeight) || !finite(s.Radius) {
		return shapeError("capsule", "non-finite component")
	}
	if s.HalfHeight <= 0 || s.Radius <= 0 {
		return shapeError("capsule", "half height and radius must be positive")
	}
	return nil
}

func (s Segment) Validate() error {
	if !finiteVector(s.A) || !finiteVector(s.B) {
		return shapeError("segment", "non-finite component")
	}
	if s.A == s.B {
		return shapeError("segment", "endpoints must differ")
	}
	return nil
}

// shapeValue returns s as one of the four value variants. Pointers to a
// variant are dereferenced; anything else, including a type that embeds a
// variant, is rejected.
func shapeValue(s Shape) (Shape, error) {
	switch v := s.(type) {
	case Box, Circle, Capsule, Segment:
		return v, nil
	case *Box:
		if v != nil {
			return *v, nil
		}
	case *Circle:
		if v != nil {
			return *v, nil
		}
	case *Capsule:
		if v != nil {
			return *v, nil
		}
	case *Segment:
		if v != nil {
			return *v, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported shape %T", ErrInvalidShape, s)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
