package physics

import (
	"fmt"
	"math"
	"weak"

	"github.com/jakecoffman/cp"
)

// Status is chosen when a body is built and never changes.
type Status uint8

const (
	Dynamic Status = iota
	Static
)

func (s Status) String() string {
	switch s {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

type body struct {
	solver *cp.Body
	status Status
}

type collider struct {
	shape    Shape
	material *Material
	solver   *cp.Shape
}

// BodyHandle is a cheap, copyable reference to a body in a World. It does not
// keep the World alive. Handles compare equal when they name the same slot in
// the same World.
type BodyHandle struct {
	id    BodyID
	world weak.Pointer[World]
}

// ID returns the body slot id.
func (h BodyHandle) ID() BodyID {
	return h.id
}

func (h BodyHandle) String() string {
	if w := h.world.Value(); w != nil {
		return w.id.String() + "/" + h.id.String()
	}
	return "expired/" + h.id.String()
}

// Alive reports whether the handle still resolves.
func (h BodyHandle) Alive() bool {
	w := h.world.Value()
	return w != nil && w.bodies.isAlive(h.id)
}

// resolve panics when the World is gone or closed, or when it is mid-step.
func (h BodyHandle) resolve() *body {
	w := h.world.Value()
	if w == nil {
		panic(fmt.Errorf("%w: body %s: world released", ErrHandleExpired, h.id))
	}
	b, ok := w.bodies.get(h.id)
	if !ok {
		panic(fmt.Errorf("%w: body %s in world %s", ErrHandleExpired, h.id, w.id))
	}
	if w.stepping {
		panic(fmt.Errorf("%w: body %s read during step", ErrReentrantStep, h.id))
	}
	return b
}

// Position returns the body origin in world space.
func (h BodyHandle) Position() Vector {
	return h.resolve().solver.Position()
}

// Velocity returns the linear velocity.
func (h BodyHandle) Velocity() Vector {
	return h.resolve().solver.Velocity()
}

// Angle returns the rotation in radians.
func (h BodyHandle) Angle() float64 {
	return h.resolve().solver.Angle()
}

func (h BodyHandle) AngularVelocity() float64 {
	return h.resolve().solver.AngularVelocity()
}

// Mass returns the solver mass. Static bodies report +Inf rather than the
// solver's cp.INFINITY placeholder.
func (h BodyHandle) Mass() float64 {
	b := h.resolve()
	if b.status == Static {
		return math.Inf(1)
	}
	return b.solver.Mass()
}

// Moment returns the moment of inertia. Static and fixed-rotation bodies
// report +Inf.
func (h BodyHandle) Moment() float64 {
	b := h.resolve()
	if b.status == Static {
		return math.Inf(1)
	}
	return b.solver.Moment()
}

func (h BodyHandle) Status() Status {
	return h.resolve().status
}

// Collider returns the attached shape and a copy of its material. ok is false
// for a body built without a collider.
func (h BodyHandle) Collider() (shape Shape, material Material, ok bool) {
	h.resolve()
	c, ok := h.world.Value().colliders.get(h.id.index())
	if !ok {
		return nil, Material{}, false
	}
	if c.material != nil {
		material = *c.material
	}
	return c.shape, material, true
}
