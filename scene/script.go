package scene

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// runScript executes the scene's spawn script and returns the bodies it
// spawned, in call order.
func (l Loader) runScript(spec SceneSpec) ([]BodySpec, error) {
	if strings.TrimSpace(spec.Script) == "" {
		return nil, nil
	}
	src, err := l.LoadScript(spec.Script)
	if err != nil {
		return nil, fmt.Errorf("scene: load script %s: %w", spec.Script, err)
	}

	var spawned []BodySpec
	var spawnErr error
	spawn := &tengo.UserFunction{Name: "spawn", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		raw, ok := tengo.ToInterface(args[0]).(map[string]any)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "body", Expected: "map", Found: args[0].TypeName()}
		}
		body, err := DecodeBodySpec(raw)
		if err != nil {
			spawnErr = err
			return tengo.FalseValue, nil
		}
		spawned = append(spawned, body)
		return tengo.TrueValue, nil
	}}

	info := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"name": &tengo.String{Value: spec.Name},
		"gravity": &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"x": &tengo.Float{Value: spec.Gravity.X},
			"y": &tengo.Float{Value: spec.Gravity.Y},
		}},
	}}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add("spawn", spawn); err != nil {
		return nil, err
	}
	if err := script.Add("scene", info); err != nil {
		return nil, err
	}
	if _, err := script.Run(); err != nil {
		return nil, fmt.Errorf("scene: script %s: %w", spec.Script, err)
	}
	if spawnErr != nil {
		return nil, fmt.Errorf("scene: script %s: spawn: %w", spec.Script, spawnErr)
	}
	return spawned, nil
}
