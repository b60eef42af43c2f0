package physics

import "github.com/jakecoffman/cp"

// Vector is a 2D vector in world units. It is the solver's own vector type so
// poses cross the solver boundary without conversion.
type Vector = cp.Vector

// Vec builds a Vector.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func finiteVector(v Vector) bool {
	return finite(v.X) && finite(v.Y)
}
