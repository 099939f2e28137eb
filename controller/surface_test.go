package controller

import (
	"reflect"
	"testing"
)

func TestNewRegistryValidation(t *testing.T) {
	normal := SurfaceProfile{Name: "normal", MaxSpeed: 5}
	cases := []struct {
		name        string
		defaultName string
		profiles    []SurfaceProfile
		wantErr     bool
	}{
		{"valid", "normal", []SurfaceProfile{normal}, false},
		{"no_profiles", "normal", nil, true},
		{"empty_profile_name", "normal", []SurfaceProfile{normal, {Name: ""}}, true},
		{"duplicate_profile", "normal", []SurfaceProfile{normal, normal}, true},
		{"unknown_default", "ice", []SurfaceProfile{normal}, true},
		{"empty_default", "", []SurfaceProfile{normal}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewRegistry(c.defaultName, c.profiles...)
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, c.wantErr)
			}
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := newTestRegistry(t)

	p, known := reg.Lookup("sticky")
	if !known || p.MaxSpeed != 3 {
		t.Fatalf("lookup sticky = (%v, %v)", p, known)
	}

	p, known = reg.Lookup("lava")
	if known {
		t.Fatalf("unknown surface reported as known")
	}
	if p.Name != "normal" {
		t.Fatalf("unknown surface fell back to %q, want default normal", p.Name)
	}

	if reg.Default().Name != "normal" {
		t.Fatalf("default = %q, want normal", reg.Default().Name)
	}
}

func TestRegistryNames(t *testing.T) {
	reg := newTestRegistry(t)

	want := []string{"normal", "slippery", "sticky"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestRegistryReplace(t *testing.T) {
	reg := newTestRegistry(t)

	updated, err := NewRegistry("ice",
		SurfaceProfile{Name: "ice", MaxSpeed: 9},
	)
	if err != nil {
		t.Fatalf("build updated registry: %v", err)
	}

	reg.Replace(updated)
	if reg.Default().Name != "ice" {
		t.Fatalf("default after replace = %q, want ice", reg.Default().Name)
	}
	if _, known := reg.Lookup("normal"); known {
		t.Fatalf("old profile survived replace")
	}

	// nil replace is a no-op
	reg.Replace(nil)
	if reg.Default().Name != "ice" {
		t.Fatalf("nil replace changed registry")
	}
}
