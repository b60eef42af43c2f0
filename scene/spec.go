package scene

import (
	"fmt"

	"github.com/milk9111/rigid2d/physics"
	"gopkg.in/yaml.v3"
)

const (
	StepFixed    = "fixed"
	StepVariable = "variable"
)

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec2Spec) Vector() physics.Vector {
	return physics.Vec(v.X, v.Y)
}

type StepSpec struct {
	Mode        string  `yaml:"mode"`
	DT          float64 `yaml:"dt"`
	MaxSubsteps int     `yaml:"max_substeps"`
	Steps       int     `yaml:"steps"`
}

type MaterialSpec struct {
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Density     float64 `yaml:"density"`
}

type ColliderSpec struct {
	Shape      string        `yaml:"shape"`
	HalfWidth  float64       `yaml:"half_width"`
	HalfHeight float64       `yaml:"half_height"`
	Radius     float64       `yaml:"radius"`
	Offset     Vec2Spec      `yaml:"offset"`
	A          Vec2Spec      `yaml:"a"`
	B          Vec2Spec      `yaml:"b"`
	Material   *MaterialSpec `yaml:"material"`
}

type BodySpec struct {
	Name          string        `yaml:"name"`
	Static        bool          `yaml:"static"`
	Mass          float64       `yaml:"mass"`
	Position      Vec2Spec      `yaml:"position"`
	Angle         float64       `yaml:"angle"`
	Velocity      Vec2Spec      `yaml:"velocity"`
	GravityScale  *float64      `yaml:"gravity_scale"`
	FixedRotation bool          `yaml:"fixed_rotation"`
	Collider      *ColliderSpec `yaml:"collider"`
}

type SceneSpec struct {
	Name       string     `yaml:"name"`
	Gravity    Vec2Spec   `yaml:"gravity"`
	Iterations uint       `yaml:"iterations"`
	Damping    float64    `yaml:"damping"`
	Step       StepSpec   `yaml:"step"`
	Bodies     []BodySpec `yaml:"bodies"`
	Script     string     `yaml:"script"`
}

// Parse decodes a scene and fills in step defaults.
func Parse(name string, data []byte) (SceneSpec, error) {
	var spec SceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return SceneSpec{}, fmt.Errorf("scene: unmarshal %s: %w", name, err)
	}
	if spec.Name == "" {
		spec.Name = name
	}
	spec.Step.applyDefaults()
	return spec, nil
}

func (l Loader) LoadSpec(name string) (SceneSpec, error) {
	data, err := l.Load(name)
	if err != nil {
		return SceneSpec{}, fmt.Errorf("scene: load %s: %w", name, err)
	}
	return Parse(name, data)
}

func (s *StepSpec) applyDefaults() {
	if s.Mode == "" {
		s.Mode = StepFixed
	}
	if s.DT <= 0 {
		s.DT = 1.0 / 60.0
	}
	if s.MaxSubsteps <= 0 {
		s.MaxSubsteps = 8
	}
	if s.Steps <= 0 {
		s.Steps = 600
	}
}

// DecodeBodySpec converts a generic map, such as one produced by a script,
// into a BodySpec using the YAML field names.
func DecodeBodySpec(raw any) (BodySpec, error) {
	if raw == nil {
		return BodySpec{}, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return BodySpec{}, err
	}
	var out BodySpec
	if err := yaml.Unmarshal(b, &out); err != nil {
		return BodySpec{}, err
	}
	return out, nil
}

// ShapeValue returns the physics shape described by c.
func (c ColliderSpec) ShapeValue() (physics.Shape, error) {
	switch c.Shape {
	case "box":
		return physics.Box{HalfExtents: physics.Vec(c.HalfWidth, c.HalfHeight), Offset: c.Offset.Vector()}, nil
	case "circle":
		return physics.Circle{Radius: c.Radius, Offset: c.Offset.Vector()}, nil
	case "capsule":
		return physics.Capsule{HalfHeight: c.HalfHeight, Radius: c.Radius}, nil
	case "segment":
		return physics.Segment{A: c.A.Vector(), B: c.B.Vector()}, nil
	}
	return nil, fmt.Errorf("scene: unknown shape %q", c.Shape)
}

// Builder returns a body builder configured from b.
func (b BodySpec) Builder() (*physics.RigidBodyBuilder, error) {
	rb := physics.NewRigidBodyBuilder().
		Mass(b.Mass).
		Position(b.Position.X, b.Position.Y).
		Angle(b.Angle).
		Velocity(b.Velocity.X, b.Velocity.Y)
	if b.Static {
		rb.MakeStatic()
	}
	if b.GravityScale != nil {
		rb.GravityScale(*b.GravityScale)
	}
	if b.FixedRotation {
		rb.FixedRotation()
	}
	if b.Collider == nil {
		return rb, nil
	}

	shape, err := b.Collider.ShapeValue()
	if err != nil {
		return nil, err
	}
	var material *physics.Material
	if ms := b.Collider.Material; ms != nil {
		m, err := physics.NewMaterial(ms.Restitution, ms.Friction, ms.Density)
		if err != nil {
			return nil, err
		}
		material = &m
	}
	rb.Collider(shape, material)
	return rb, nil
}
