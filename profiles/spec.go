package profiles

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/platformkit/controller"
)

// Spec is the on-disk surface-profile table: a default surface name plus
// per-surface movement parameters, optionally adjusted by a tengo script.
type Spec struct {
	Default  string                 `yaml:"default"`
	Surfaces map[string]SurfaceSpec `yaml:"surfaces"`
}

type SurfaceSpec struct {
	MaxSpeed     float64 `yaml:"max_speed"`
	Acceleration float64 `yaml:"acceleration"`
	Deceleration float64 `yaml:"deceleration"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	Script       string  `yaml:"script"`
}

// LoadSpec reads and unmarshals a YAML spec file.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("profiles: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("profiles: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadRegistry loads a surface table, runs each surface's tuning script,
// and builds a controller registry from the result. Any problem here is a
// configuration error and fails the load.
func LoadRegistry(filename string) (*controller.Registry, error) {
	spec, err := LoadSpec[Spec](filename)
	if err != nil {
		return nil, err
	}
	return BuildRegistry(spec)
}

// BuildRegistry converts a Spec into a controller registry, applying
// tuning scripts. Surfaces are processed in name order so script errors
// report deterministically.
func BuildRegistry(spec Spec) (*controller.Registry, error) {
	if len(spec.Surfaces) == 0 {
		return nil, fmt.Errorf("profiles: spec defines no surfaces")
	}

	names := make([]string, 0, len(spec.Surfaces))
	for name := range spec.Surfaces {
		names = append(names, name)
	}
	sort.Strings(names)

	built := make([]controller.SurfaceProfile, 0, len(names))
	for _, name := range names {
		ss := spec.Surfaces[name]
		if ss.Script != "" {
			tuned, err := ApplyTuning(name, ss)
			if err != nil {
				return nil, fmt.Errorf("profiles: tune %q: %w", name, err)
			}
			ss = tuned
		}
		built = append(built, controller.SurfaceProfile{
			Name:         name,
			MaxSpeed:     ss.MaxSpeed,
			Acceleration: ss.Acceleration,
			Deceleration: ss.Deceleration,
			JumpImpulse:  ss.JumpImpulse,
		})
	}

	reg, err := controller.NewRegistry(spec.Default, built...)
	if err != nil {
		return nil, fmt.Errorf("profiles: %w", err)
	}
	return reg, nil
}
