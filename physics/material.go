package physics

import (
	"fmt"
	"math"
)

// Material holds the surface properties of a collider. Density of zero means
// the collider does not contribute mass.
type Material struct {
	Restitution float64
	Friction    float64
	Density     float64
}

// NewMaterial returns a validated material.
func NewMaterial(restitution, friction, density float64) (Material, error) {
	m := Material{Restitution: restitution, Friction: friction, Density: density}
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	return m, nil
}

// Validate reports values outside the accepted ranges. Nothing is clamped.
func (m Material) Validate() error {
	switch {
	case math.IsNaN(m.Restitution) || m.Restitution < 0 || m.Restitution > 1:
		return fmt.Errorf("%w: restitution %v not in [0,1]", ErrMaterialRange, m.Restitution)
	case math.IsNaN(m.Friction) || math.IsInf(m.Friction, 0) || m.Friction < 0:
		return fmt.Errorf("%w: friction %v must be finite and >= 0", ErrMaterialRange, m.Friction)
	case math.IsNaN(m.Density) || math.IsInf(m.Density, 0) || m.Density < 0:
		return fmt.Errorf("%w: density %v must be finite and >= 0", ErrMaterialRange, m.Density)
	}
	return nil
}

// HasDensity reports whether the material drives body mass.
func (m Material) HasDensity() bool {
	return m.Density > 0
}
