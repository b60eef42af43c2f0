package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// DefaultMass is the mass of a dynamic body built without a mass or a
// density-bearing material.
const DefaultMass = 1.0

const collisionTypeBody cp.CollisionType = 1

func boxBB(s Box) cp.BB {
	return cp.BB{
		L: s.Offset.X - s.HalfExtents.X,
		B: s.Offset.Y - s.HalfExtents.Y,
		R: s.Offset.X + s.HalfExtents.X,
		T: s.Offset.Y + s.HalfExtents.Y,
	}
}

func capsuleEnds(s Capsule) (Vector, Vector) {
	return Vector{X: 0, Y: -s.HalfHeight}, Vector{X: 0, Y: s.HalfHeight}
}

// newSolverShape maps a Shape to its single Chipmunk primitive.
func newSolverShape(body *cp.Body, s Shape) *cp.Shape {
	switch s := s.(type) {
	case Box:
		return cp.NewBox2(body, boxBB(s), 0)
	case Circle:
		return cp.NewCircle(body, s.Radius, s.Offset)
	case Capsule:
		a, b := capsuleEnds(s)
		return cp.NewSegment(body, a, b, s.Radius)
	case Segment:
		return cp.NewSegment(body, s.A, s.B, 0)
	}
	panic(fmt.Sprintf("physics: unsupported shape %T", s))
}

// momentFor returns the moment of inertia of mass spread over s. A body
// without a collider is treated as a unit box.
func momentFor(mass float64, s Shape) float64 {
	switch s := s.(type) {
	case nil:
		return cp.MomentForBox(mass, 1, 1)
	case Box:
		return cp.MomentForBox2(mass, boxBB(s))
	case Circle:
		return cp.MomentForCircle(mass, 0, s.Radius, s.Offset)
	case Capsule:
		a, b := capsuleEnds(s)
		return cp.MomentForSegment(mass, a, b, s.Radius)
	case Segment:
		return cp.MomentForSegment(mass, s.A, s.B, 0)
	}
	panic(fmt.Sprintf("physics: unsupported shape %T", s))
}

func applyMaterial(shape *cp.Shape, m *Material, dynamic bool) {
	if m == nil {
		return
	}
	shape.SetElasticity(m.Restitution)
	shape.SetFriction(m.Friction)
	if dynamic && m.HasDensity() {
		shape.SetDensity(m.Density)
	}
}
