package physics

import (
	"fmt"
	"math"
)

type bodyConfig struct {
	status        Status
	mass          float64
	position      Vector
	angle         float64
	velocity      Vector
	gravityScale  float64
	fixedRotation bool
	shape         Shape
	material      *Material
}

// RigidBodyBuilder collects everything needed to insert one body, and its
// optional collider, into a World in a single Build call.
type RigidBodyBuilder struct {
	cfg      bodyConfig
	consumed bool
}

// NewRigidBodyBuilder returns a builder for a dynamic body at the origin
// with no mass and no collider.
func NewRigidBodyBuilder() *RigidBodyBuilder {
	return &RigidBodyBuilder{cfg: bodyConfig{status: Dynamic, gravityScale: 1}}
}

// Mass sets the requested mass. A collider material with a density
// overrides it on dynamic bodies.
func (b *RigidBodyBuilder) Mass(m float64) *RigidBodyBuilder {
	b.cfg.mass = m
	return b
}

// MakeStatic builds an immovable body. Mass, velocity and gravity scale are
// ignored.
func (b *RigidBodyBuilder) MakeStatic() *RigidBodyBuilder {
	b.cfg.status = Static
	return b
}

// Collider attaches shape to the body. material may be nil.
func (b *RigidBodyBuilder) Collider(shape Shape, material *Material) *RigidBodyBuilder {
	b.cfg.shape = shape
	b.cfg.material = nil
	if material != nil {
		m := *material
		b.cfg.material = &m
	}
	return b
}

func (b *RigidBodyBuilder) Position(x, y float64) *RigidBodyBuilder {
	b.cfg.position = Vector{X: x, Y: y}
	return b
}

// Angle sets the initial rotation in radians.
func (b *RigidBodyBuilder) Angle(rad float64) *RigidBodyBuilder {
	b.cfg.angle = rad
	return b
}

func (b *RigidBodyBuilder) Velocity(x, y float64) *RigidBodyBuilder {
	b.cfg.velocity = Vector{X: x, Y: y}
	return b
}

// GravityScale multiplies world gravity for this body. 0 disables gravity.
func (b *RigidBodyBuilder) GravityScale(s float64) *RigidBodyBuilder {
	b.cfg.gravityScale = s
	return b
}

// FixedRotation gives the body infinite moment of inertia.
func (b *RigidBodyBuilder) FixedRotation() *RigidBodyBuilder {
	b.cfg.fixedRotation = true
	return b
}

// Build inserts the body and its collider into w. A builder can be built
// once; on error the World is left untouched.
func (b *RigidBodyBuilder) Build(w *World) (BodyHandle, error) {
	if b.consumed {
		return BodyHandle{}, ErrBuilderConsumed
	}
	if w == nil || w.closed {
		return BodyHandle{}, ErrWorldClosed
	}
	if w.stepping {
		return BodyHandle{}, ErrReentrantStep
	}
	if err := b.cfg.validate(); err != nil {
		return BodyHandle{}, err
	}
	b.consumed = true
	return w.handle(w.insert(&b.cfg)), nil
}

func (c *bodyConfig) validate() error {
	if math.IsNaN(c.mass) || math.IsInf(c.mass, 0) || c.mass < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidMass, c.mass)
	}
	if !finiteVector(c.position) || !finiteVector(c.velocity) || !finite(c.angle) || !finite(c.gravityScale) {
		return ErrInvalidPose
	}
	if c.shape == nil {
		if c.material != nil {
			return fmt.Errorf("%w: material without shape", ErrInvalidShape)
		}
		return nil
	}
	shape, err := shapeValue(c.shape)
	if err != nil {
		return err
	}
	if err := shape.Validate(); err != nil {
		return err
	}
	c.shape = shape
	if c.material != nil {
		if err := c.material.Validate(); err != nil {
			return err
		}
	}
	return nil
}
