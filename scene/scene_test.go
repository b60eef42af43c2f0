package scene

import (
	"errors"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/physics"
	"github.com/milk9111/rigid2d/stepper"
)

func quiet() physics.Options {
	return physics.Options{Logger: log.New(io.Discard, "", 0)}
}

func TestEmbeddedScenesBuild(t *testing.T) {
	cases := []struct {
		name       string
		wantBodies int
		wantMode   string
	}{
		{"ball_fall", 1, StepVariable},
		{"stack", 5, StepFixed},
		{"rain", 10, StepFixed},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sc, err := Loader{}.Open(c.name, quiet())
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer sc.Close()
			if len(sc.Bodies) != c.wantBodies || sc.World.Len() != c.wantBodies {
				t.Fatalf("expected %d bodies, got map=%d world=%d", c.wantBodies, len(sc.Bodies), sc.World.Len())
			}
			if len(sc.Order) != c.wantBodies {
				t.Fatalf("expected %d ordered names, got %d", c.wantBodies, len(sc.Order))
			}
			if sc.Step.Mode != c.wantMode {
				t.Fatalf("expected mode %q, got %q", c.wantMode, sc.Step.Mode)
			}
			d, err := sc.Driver()
			if err != nil {
				t.Fatalf("driver: %v", err)
			}
			for i := 0; i < 30; i++ {
				if _, err := d.Advance(time.Duration(sc.Step.DT * float64(time.Second))); err != nil {
					t.Fatalf("advance %d: %v", i, err)
				}
			}
		})
	}
}

func TestBallFallMatchesHandBuiltWorld(t *testing.T) {
	sc, err := Loader{}.Open("ball_fall", quiet())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sc.Close()

	w := physics.NewWithOptions(physics.Vec(0, -9.81), quiet())
	defer w.Close()
	ball, err := physics.NewRigidBodyBuilder().Mass(1).Collider(physics.Circle{Radius: 4}, nil).Build(w)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	scBall := sc.Bodies["ball"]
	for i := 0; i < sc.Step.Steps; i++ {
		if err := sc.World.Step(sc.Step.DT); err != nil {
			t.Fatalf("scene step: %v", err)
		}
		if err := w.Step(0.5); err != nil {
			t.Fatalf("world step: %v", err)
		}
		if scBall.Position() != ball.Position() {
			t.Fatalf("step %d: scene %v, hand-built %v", i, scBall.Position(), ball.Position())
		}
	}
	want := -9.81 * 0.5 * float64(sc.Step.Steps)
	if !common.ApproxEqual(scBall.Velocity().Y, want, 1e-9) {
		t.Fatalf("expected vy=%v, got %v", want, scBall.Velocity().Y)
	}
}

func TestParseDefaultsAndFields(t *testing.T) {
	data := []byte(`
gravity: {x: 1, y: -2}
damping: 0.9
bodies:
  - name: wall
    static: true
    collider:
      shape: segment
      a: {x: 0, y: 0}
      b: {x: 0, y: 5}
  - mass: 3
    gravity_scale: 0
    velocity: {x: 2, y: 0}
`)
	spec, err := Parse("inline", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if spec.Name != "inline" {
		t.Fatalf("expected name fallback, got %q", spec.Name)
	}
	if spec.Step.Mode != StepFixed || spec.Step.DT != 1.0/60.0 || spec.Step.MaxSubsteps != 8 || spec.Step.Steps != 600 {
		t.Fatalf("unexpected step defaults %+v", spec.Step)
	}

	sc, err := Loader{}.Build(spec, quiet())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer sc.Close()
	if sc.World.Gravity() != physics.Vec(1, -2) {
		t.Fatalf("expected gravity (1,-2), got %v", sc.World.Gravity())
	}
	wall, ok := sc.Bodies["wall"]
	if !ok || wall.Status() != physics.Static {
		t.Fatalf("expected static wall")
	}
	floater, ok := sc.Bodies["body-1"]
	if !ok {
		t.Fatalf("expected generated name body-1, got %v", sc.Order)
	}
	if floater.Mass() != 3 || floater.Velocity() != physics.Vec(2, 0) {
		t.Fatalf("unexpected floater mass=%v v=%v", floater.Mass(), floater.Velocity())
	}
	if err := sc.World.Step(0.5); err != nil {
		t.Fatalf("step: %v", err)
	}
	// gravity_scale 0 keeps the body on a straight line; damping 0.9 slows it
	if v := floater.Velocity(); v.Y != 0 || !common.ApproxEqual(v.X, 2*math.Pow(0.9, 0.5), 1e-9) {
		t.Fatalf("unexpected floater velocity %v", v)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name   string
		yaml   string
		target error
	}{
		{"unknown_shape", "bodies:\n  - collider: {shape: star}\n", nil},
		{"bad_material", "bodies:\n  - collider: {shape: circle, radius: 1, material: {restitution: 3}}\n", physics.ErrMaterialRange},
		{"bad_shape", "bodies:\n  - collider: {shape: circle, radius: 0}\n", physics.ErrInvalidShape},
		{"negative_mass", "bodies:\n  - mass: -1\n", physics.ErrInvalidMass},
		{"duplicate_name", "bodies:\n  - name: a\n  - name: a\n", nil},
		{"missing_script", "script: nope\n", nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := Parse(c.name, []byte(c.yaml))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err = Loader{}.Build(spec, quiet())
			if err == nil {
				t.Fatalf("expected build error")
			}
			if c.target != nil && !errors.Is(err, c.target) {
				t.Fatalf("expected %v, got %v", c.target, err)
			}
		})
	}

	if _, err := Parse("broken", []byte("bodies: [")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if _, err := (Loader{}).LoadSpec("does_not_exist"); err == nil {
		t.Fatalf("expected load error")
	}
}

func TestRainScriptSpawnsDrops(t *testing.T) {
	sc, err := Loader{}.Open("rain", quiet())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sc.Close()

	for i := 0; i < 8; i++ {
		name := "drop-" + string(rune('0'+i))
		h, ok := sc.Bodies[name]
		if !ok {
			t.Fatalf("expected scripted body %s, got %v", name, sc.Order)
		}
		wantX := -5.0 + float64(i)*1.4
		if !common.ApproxEqual(h.Position().X, wantX, 1e-9) {
			t.Fatalf("%s: expected x=%v, got %v", name, wantX, h.Position().X)
		}
	}
	if sc.Order[0] != "ground" || sc.Order[1] != "balloon" || sc.Order[2] != "drop-0" {
		t.Fatalf("expected yaml bodies before scripted ones, got %v", sc.Order)
	}
}

func TestDiskOverrideAndScriptErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	scene := "name: ball_fall\ngravity: {x: 0, y: -1}\nscript: extra\nbodies:\n  - name: only\n"
	if err := os.WriteFile(filepath.Join(dir, "ball_fall.yaml"), []byte(scene), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	script := `spawn({name: "extra", static: true, position: {x: 1, y: 2}})`
	if err := os.WriteFile(filepath.Join(dir, "scripts", "extra.tengo"), []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	l := Loader{Dir: dir}
	if _, ok := l.ModTime("ball_fall"); !ok {
		t.Fatalf("expected disk mod time")
	}
	sc, err := l.Open("ball_fall", quiet())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer sc.Close()
	if sc.World.Gravity() != physics.Vec(0, -1) {
		t.Fatalf("expected override gravity, got %v", sc.World.Gravity())
	}
	extra, ok := sc.Bodies["extra"]
	if !ok || extra.Status() != physics.Static || extra.Position() != physics.Vec(1, 2) {
		t.Fatalf("expected scripted static body at (1,2), got %v", sc.Order)
	}

	bad := `spawn("not a map")`
	if err := os.WriteFile(filepath.Join(dir, "scripts", "extra.tengo"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := l.Open("ball_fall", quiet()); err == nil {
		t.Fatalf("expected script argument error")
	}
}

func TestSceneDriverModes(t *testing.T) {
	sc := &Scene{Name: "x", World: physics.NewWithOptions(physics.Vec(0, 0), quiet())}
	defer sc.Close()

	sc.Step = StepSpec{Mode: StepFixed, DT: 0.25, MaxSubsteps: 2}
	d, err := sc.Driver()
	if err != nil {
		t.Fatalf("fixed driver: %v", err)
	}
	if _, ok := d.(*stepper.Fixed); !ok {
		t.Fatalf("expected *stepper.Fixed, got %T", d)
	}

	sc.Step.Mode = StepVariable
	d, err = sc.Driver()
	if err != nil {
		t.Fatalf("variable driver: %v", err)
	}
	if _, ok := d.(*stepper.Variable); !ok {
		t.Fatalf("expected *stepper.Variable, got %T", d)
	}

	sc.Step.Mode = "warp"
	if _, err := sc.Driver(); err == nil {
		t.Fatalf("expected unknown mode error")
	}
}

func TestEmbeddedScriptsRun(t *testing.T) {
	entries, err := ScriptsFS.ReadDir("scripts")
	if err != nil {
		t.Fatalf("read scripts: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected embedded scripts")
	}
	for _, e := range entries {
		t.Run(e.Name(), func(t *testing.T) {
			spec := SceneSpec{Name: "check", Gravity: Vec2Spec{Y: -9.81}, Script: e.Name()}
			bodies, err := Loader{}.runScript(spec)
			if err != nil {
				t.Fatalf("run %s: %v", e.Name(), err)
			}
			if len(bodies) == 0 {
				t.Fatalf("expected %s to spawn bodies", e.Name())
			}
			for i, b := range bodies {
				if _, err := b.Builder(); err != nil {
					t.Fatalf("%s body %d: %v", e.Name(), i, err)
				}
			}
		})
	}
}
