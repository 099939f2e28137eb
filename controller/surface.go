package controller

import (
	"fmt"
	"sort"
)

// SurfaceProfile is a named set of movement-tuning parameters associated
// with a ground material. Profiles are plain data and are not mutated
// after registration; per-surface behavior differences come from the
// numbers, not from types.
type SurfaceProfile struct {
	Name         string
	MaxSpeed     float64
	Acceleration float64
	Deceleration float64
	// JumpImpulse is applied verbatim to the vertical velocity on a jump.
	// The host owns the sign convention (screen coordinates use negative up).
	JumpImpulse float64
}

// Registry holds immutable surface profiles keyed by surface tag, plus a
// default profile used when a contact reports an unknown tag.
type Registry struct {
	profiles    map[string]SurfaceProfile
	defaultName string
}

// NewRegistry builds a registry from the given profiles. defaultName must
// name one of them; an empty or unknown default is a configuration error.
func NewRegistry(defaultName string, profiles ...SurfaceProfile) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("surface registry: no profiles defined")
	}
	r := &Registry{
		profiles:    make(map[string]SurfaceProfile, len(profiles)),
		defaultName: defaultName,
	}
	for _, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("surface registry: profile with empty name")
		}
		if _, dup := r.profiles[p.Name]; dup {
			return nil, fmt.Errorf("surface registry: duplicate profile %q", p.Name)
		}
		r.profiles[p.Name] = p
	}
	if _, ok := r.profiles[defaultName]; !ok {
		return nil, fmt.Errorf("surface registry: default profile %q not defined", defaultName)
	}
	return r, nil
}

// Lookup returns the profile for name, or the default profile and false
// when name is unknown. The tick never fails on an unrecognized surface.
func (r *Registry) Lookup(name string) (SurfaceProfile, bool) {
	if p, ok := r.profiles[name]; ok {
		return p, true
	}
	return r.profiles[r.defaultName], false
}

// Default returns the registry's fallback profile.
func (r *Registry) Default() SurfaceProfile {
	return r.profiles[r.defaultName]
}

// Replace swaps this registry's contents with other's, so trackers and
// controllers holding the registry observe reloaded profiles without
// rewiring. Call it from the simulation thread only.
func (r *Registry) Replace(other *Registry) {
	if other == nil {
		return
	}
	r.profiles = other.profiles
	r.defaultName = other.defaultName
}

// Names returns the registered profile names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
