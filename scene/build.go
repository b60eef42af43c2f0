package scene

import (
	"fmt"
	"strconv"

	"github.com/milk9111/rigid2d/physics"
	"github.com/milk9111/rigid2d/stepper"
)

// Scene is a World built from a SceneSpec, with its bodies indexed by name.
type Scene struct {
	Name   string
	World  *physics.World
	Step   StepSpec
	Bodies map[string]physics.BodyHandle
	// Order lists body names in build order.
	Order []string
}

// Open loads and builds the named scene.
func (l Loader) Open(name string, opts physics.Options) (*Scene, error) {
	spec, err := l.LoadSpec(name)
	if err != nil {
		return nil, err
	}
	return l.Build(spec, opts)
}

// Build creates a World for spec and inserts its YAML bodies followed by any
// bodies spawned by its script. The spec's iterations and damping override
// the ones in opts.
func (l Loader) Build(spec SceneSpec, opts physics.Options) (*Scene, error) {
	spec.Step.applyDefaults()
	scripted, err := l.runScript(spec)
	if err != nil {
		return nil, err
	}
	bodies := append(append([]BodySpec(nil), spec.Bodies...), scripted...)

	builders := make([]*physics.RigidBodyBuilder, 0, len(bodies))
	names := make([]string, 0, len(bodies))
	seen := make(map[string]bool, len(bodies))
	for i, b := range bodies {
		name := b.Name
		if name == "" {
			name = "body-" + strconv.Itoa(i)
		}
		if seen[name] {
			return nil, fmt.Errorf("scene: %s: duplicate body name %q", spec.Name, name)
		}
		seen[name] = true
		rb, err := b.Builder()
		if err != nil {
			return nil, fmt.Errorf("scene: %s: body %q: %w", spec.Name, name, err)
		}
		builders = append(builders, rb)
		names = append(names, name)
	}

	if spec.Iterations > 0 {
		opts.Iterations = spec.Iterations
	}
	if spec.Damping > 0 {
		opts.Damping = spec.Damping
	}
	w := physics.NewWithOptions(spec.Gravity.Vector(), opts)
	sc := &Scene{
		Name:   spec.Name,
		World:  w,
		Step:   spec.Step,
		Bodies: make(map[string]physics.BodyHandle, len(builders)),
		Order:  names,
	}
	for i, rb := range builders {
		h, err := rb.Build(w)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("scene: %s: body %q: %w", spec.Name, names[i], err)
		}
		sc.Bodies[names[i]] = h
	}
	return sc, nil
}

// Driver returns the stepper configured by the scene's step section.
func (s *Scene) Driver() (stepper.Driver, error) {
	switch s.Step.Mode {
	case StepFixed:
		f, err := stepper.NewFixed(s.World, s.Step.DT, s.Step.MaxSubsteps)
		if err != nil {
			return nil, fmt.Errorf("scene: %s: %w", s.Name, err)
		}
		return f, nil
	case StepVariable:
		// clamp long frames to a few steps' worth of time
		return stepper.NewVariable(s.World, s.Step.DT*float64(s.Step.MaxSubsteps)), nil
	}
	return nil, fmt.Errorf("scene: %s: unknown step mode %q", s.Name, s.Step.Mode)
}

func (s *Scene) Close() {
	if s == nil || s.World == nil {
		return
	}
	s.World.Close()
}
