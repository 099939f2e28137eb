package controller

import (
	"fmt"

	"go.uber.org/zap"
)

// GroundContactTracker maintains grounded state from the host's contact
// begin/end event stream. It counts active ground contacts instead of
// flipping a single boolean, so ending one of two overlapping contacts
// leaves the character grounded on the other.
//
// Events are delivered synchronously on the simulation thread; state
// reads reflect every event processed so far this tick.
type GroundContactTracker struct {
	registry *Registry
	logger   *zap.Logger

	// graceTicks keeps the tracker reporting grounded for a short window
	// after the last contact ends. Zero disables the window, which is the
	// baseline; a coyote-time extension only has to raise it.
	graceTicks int

	contacts map[ContactID]string
	order    []ContactID
	grace    int
	lastTag  string
}

// TrackerConfig configures a GroundContactTracker.
type TrackerConfig struct {
	Registry   *Registry
	GraceTicks int
	Logger     *zap.Logger
}

// NewGroundContactTracker builds a tracker. A nil registry fails fast.
func NewGroundContactTracker(cfg TrackerConfig) (*GroundContactTracker, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("ground tracker: registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.GraceTicks < 0 {
		cfg.GraceTicks = 0
	}
	return &GroundContactTracker{
		registry:   cfg.Registry,
		logger:     logger,
		graceTicks: cfg.GraceTicks,
		contacts:   make(map[ContactID]string),
	}, nil
}

// Begin records a ground contact. tag is the surface identifier reported
// by the host; unknown tags are kept and resolve to the default profile
// at lookup time. Duplicate begins for the same id are idempotent.
func (t *GroundContactTracker) Begin(id ContactID, tag string) {
	if _, exists := t.contacts[id]; exists {
		t.contacts[id] = tag
		return
	}
	if _, known := t.registry.Lookup(tag); !known {
		t.logger.Debug("unknown surface tag, will use default profile",
			zap.String("tag", tag),
			zap.Uint64("contact", uint64(id)))
	}
	t.contacts[id] = tag
	t.order = append(t.order, id)
	t.lastTag = tag
	t.grace = 0
}

// End removes a ground contact. Ends with no matching begin are ignored;
// hosts can report separations for shapes the tracker never saw.
func (t *GroundContactTracker) End(id ContactID) {
	if _, exists := t.contacts[id]; !exists {
		return
	}
	delete(t.contacts, id)
	for i, other := range t.order {
		if other == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	if len(t.order) == 0 {
		t.grace = t.graceTicks
	} else {
		t.lastTag = t.contacts[t.order[len(t.order)-1]]
	}
}

// Tick advances the leaving-grace window. The controller calls this once
// per simulation step.
func (t *GroundContactTracker) Tick() {
	if len(t.contacts) == 0 && t.grace > 0 {
		t.grace--
	}
}

// Grounded reports whether at least one ground contact is active, or the
// leaving-grace window is still open.
func (t *GroundContactTracker) Grounded() bool {
	return len(t.contacts) > 0 || t.grace > 0
}

// ContactCount returns the number of active ground contacts.
func (t *GroundContactTracker) ContactCount() int {
	return len(t.contacts)
}

// Surface returns the profile of the most recently begun active contact.
// While airborne it returns the zero profile and ErrAirborne. During the
// leaving-grace window it keeps returning the last grounded surface.
func (t *GroundContactTracker) Surface() (SurfaceProfile, error) {
	if len(t.order) > 0 {
		id := t.order[len(t.order)-1]
		tag, ok := t.contacts[id]
		if !ok {
			// Contact bookkeeping disagrees with the order list. Should not
			// happen; recover by forcing airborne rather than guessing.
			t.logger.Warn("grounded with no active surface, forcing airborne",
				zap.Uint64("contact", uint64(id)))
			t.ForceAirborne()
			return SurfaceProfile{}, ErrAirborne
		}
		p, _ := t.registry.Lookup(tag)
		return p, nil
	}
	if t.grace > 0 {
		p, _ := t.registry.Lookup(t.lastTag)
		return p, nil
	}
	return SurfaceProfile{}, ErrAirborne
}

// ForceAirborne drops all contact state. Used for invariant recovery and
// by hosts on teleports/respawns where separations may never arrive.
func (t *GroundContactTracker) ForceAirborne() {
	clear(t.contacts)
	t.order = t.order[:0]
	t.grace = 0
}
