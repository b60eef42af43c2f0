package physics

import (
	"fmt"
	"log"
	"math"
	"weak"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
)

const (
	defaultIterations uint = 10
	defaultDamping         = 1.0
)

// Options configures a World. Zero values select the defaults.
type Options struct {
	// Iterations is the number of solver iterations per step.
	Iterations uint
	// Damping is the fraction of velocity kept after one second.
	Damping float64
	Logger  *log.Logger
	// Debug logs every body insertion.
	Debug bool
	// OnContact runs inside Step whenever two colliders start touching.
	// Stepping the World or reading handles from it panics or fails.
	OnContact func(ContactEvent)
}

// World owns the body and collider storage of one simulation and the
// Chipmunk space that integrates it. A World is not safe for concurrent use.
type World struct {
	id      uuid.UUID
	self    weak.Pointer[World]
	gravity Vector
	space   *cp.Space

	bodies      bodyStore
	colliders   sparseSet[*collider]
	shapeToBody map[*cp.Shape]BodyID
	contacts    contactQueue
	onContact   func(ContactEvent)

	stepping     bool
	closePending bool
	closed       bool
	elapsed      float64
	steps        uint64

	logger *log.Logger
	debug  bool
}

// New creates an empty World with the given gravity.
func New(gravity Vector) *World {
	return NewWithOptions(gravity, Options{})
}

// NewWithOptions creates an empty World with the given gravity and options.
func NewWithOptions(gravity Vector, opts Options) *World {
	if opts.Iterations == 0 {
		opts.Iterations = defaultIterations
	}
	if opts.Damping <= 0 || math.IsNaN(opts.Damping) {
		opts.Damping = defaultDamping
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	space := cp.NewSpace()
	space.Iterations = opts.Iterations
	space.SetGravity(gravity)
	space.SetDamping(opts.Damping)

	w := &World{
		id:          uuid.New(),
		gravity:     gravity,
		space:       space,
		shapeToBody: make(map[*cp.Shape]BodyID),
		onContact:   opts.OnContact,
		logger:      opts.Logger,
		debug:       opts.Debug,
	}
	w.self = weak.Make(w)
	w.setupHandlers()
	w.logf("created gravity=(%g, %g) iterations=%d", gravity.X, gravity.Y, opts.Iterations)
	return w
}

// ID returns the World's unique id.
func (w *World) ID() uuid.UUID {
	return w.id
}

// Gravity returns the gravity the World was created with.
func (w *World) Gravity() Vector {
	return w.gravity
}

// Elapsed returns the simulated time in seconds.
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// Steps returns the number of non-empty steps taken.
func (w *World) Steps() uint64 {
	return w.steps
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return w.bodies.len()
}

// Closed reports whether Close has been called.
func (w *World) Closed() bool {
	return w.closed
}

// Bodies returns handles to every body in insertion order.
func (w *World) Bodies() []BodyHandle {
	ids := w.bodies.ids()
	out := make([]BodyHandle, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.handle(id))
	}
	return out
}

// Step advances the simulation by dt seconds. A zero dt does nothing.
// Positions integrate before velocities, so a body released from rest has
// its new velocity after the first step but has not moved yet.
func (w *World) Step(dt float64) error {
	switch {
	case w.closed:
		return ErrWorldClosed
	case w.stepping:
		return ErrReentrantStep
	case math.IsNaN(dt) || math.IsInf(dt, 0):
		return fmt.Errorf("%w: dt=%v", ErrInvalidTimestep, dt)
	case dt < 0:
		return fmt.Errorf("%w: dt=%v", ErrNegativeTimestep, dt)
	case dt == 0:
		return nil
	}

	w.contacts.flush()
	w.stepSpace(dt)
	w.elapsed += dt
	w.steps++
	if w.closePending {
		w.Close()
	}
	return nil
}

func (w *World) stepSpace(dt float64) {
	w.stepping = true
	defer func() { w.stepping = false }()
	w.space.Step(dt)
}

// Contacts drains the contacts that began during the most recent step.
func (w *World) Contacts() []ContactEvent {
	return w.contacts.drain()
}

// Close destroys the World. Every handle built from it stops resolving.
// Called from inside Step, the close takes effect once that step finishes.
func (w *World) Close() {
	if w.closed {
		return
	}
	if w.stepping {
		w.closePending = true
		return
	}
	w.closePending = false
	n := w.bodies.len()
	w.bodies.clear()
	w.colliders.reset()
	w.contacts.flush()
	w.shapeToBody = nil
	w.space = nil
	w.closed = true
	w.logf("closed bodies=%d steps=%d elapsed=%.3fs", n, w.steps, w.elapsed)
}

func (w *World) handle(id BodyID) BodyHandle {
	return BodyHandle{id: id, world: w.self}
}

// insert adds a configured body and its optional collider to the space.
// The config must already be validated.
func (w *World) insert(cfg *bodyConfig) BodyID {
	dynamic := cfg.status == Dynamic
	densityDriven := dynamic && cfg.shape != nil && cfg.material != nil && cfg.material.HasDensity()
	mass := cfg.mass
	if mass <= 0 {
		mass = DefaultMass
	}

	var cb *cp.Body
	switch {
	case !dynamic:
		cb = cp.NewStaticBody()
	case densityDriven:
		cb = cp.NewBody(0, 0)
	default:
		cb = cp.NewBody(mass, momentFor(mass, cfg.shape))
	}
	cb.SetPosition(cfg.position)
	cb.SetAngle(cfg.angle)
	if dynamic {
		cb.SetVelocityVector(cfg.velocity)
		if cfg.gravityScale != 1 {
			scale := cfg.gravityScale
			cb.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
				cp.BodyUpdateVelocity(body, gravity.Mult(scale), damping, dt)
			})
		}
	}
	w.space.AddBody(cb)

	id := w.bodies.insert(&body{solver: cb, status: cfg.status})

	if cfg.shape != nil {
		shape := newSolverShape(cb, cfg.shape)
		applyMaterial(shape, cfg.material, dynamic)
		shape.SetCollisionType(collisionTypeBody)
		w.space.AddShape(shape)
		w.shapeToBody[shape] = id
		w.colliders.set(id.index(), &collider{shape: cfg.shape, material: cfg.material, solver: shape})
	}

	if dynamic {
		// density can still produce no mass, e.g. on a zero-area segment
		if m := cb.Mass(); m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
			cb.SetMass(mass)
			cb.SetMoment(momentFor(mass, cfg.shape))
		}
		if cfg.fixedRotation {
			cb.SetMoment(math.Inf(1))
		}
	}

	if w.debug {
		w.logf("insert body %s status=%s mass=%g collider=%T", id, cfg.status, cb.Mass(), cfg.shape)
	}
	return id
}

func (w *World) setupHandlers() {
	handler := w.space.NewCollisionHandler(collisionTypeBody, collisionTypeBody)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		idA, okA := world.shapeToBody[shapeA]
		idB, okB := world.shapeToBody[shapeB]
		if !okA || !okB {
			return true
		}
		evt := ContactEvent{A: world.handle(idA), B: world.handle(idB)}
		world.contacts.push(evt)
		if world.onContact != nil {
			world.onContact(evt)
		}
		return true
	}
}

func (w *World) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf("physics: world %s: "+format, append([]any{w.id}, args...)...)
}
