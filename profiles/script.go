package profiles

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Tuning scripts define a tune(surface, profile) function that returns
// the adjusted profile table. The dispatch suffix calls it with the
// injected globals.
const tuningDispatchScript = `
__profile = tune(__surface, __profile)
`

// ApplyTuning runs a surface's tengo tuning script against its loaded
// parameters and returns the adjusted spec. Fields the script leaves out
// keep their loaded values.
func ApplyTuning(surface string, spec SurfaceSpec) (SurfaceSpec, error) {
	src, err := LoadScript(spec.Script)
	if err != nil {
		return spec, fmt.Errorf("load script %q: %w", spec.Script, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + tuningDispatchScript))
	_ = script.Add("__surface", surface)
	_ = script.Add("__profile", map[string]any{
		"max_speed":    spec.MaxSpeed,
		"acceleration": spec.Acceleration,
		"deceleration": spec.Deceleration,
		"jump_impulse": spec.JumpImpulse,
	})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Run()
	if err != nil {
		return spec, fmt.Errorf("run script %q: %w", spec.Script, err)
	}

	out := compiled.Get("__profile").Map()
	if out == nil {
		return spec, fmt.Errorf("script %q: tune did not return a profile table", spec.Script)
	}

	num := func(key string, fallback float64) float64 {
		switch v := out[key].(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		}
		return fallback
	}

	tuned := spec
	tuned.MaxSpeed = num("max_speed", spec.MaxSpeed)
	tuned.Acceleration = num("acceleration", spec.Acceleration)
	tuned.Deceleration = num("deceleration", spec.Deceleration)
	tuned.JumpImpulse = num("jump_impulse", spec.JumpImpulse)
	return tuned, nil
}
