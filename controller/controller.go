// Package controller implements an engine-agnostic 2D character-movement
// and ground-detection state machine. The host engine owns physics
// integration, collision solving and input polling; it drives the
// controller through a per-step callback and feeds it collision begin/end
// events. The controller only computes a velocity each step and writes it
// back to the host body.
package controller

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/platformkit/common"
)

// MotionState is the controller's per-step output snapshot.
type MotionState struct {
	VX, VY float64
	// Intent is the sampled horizontal intent, clamped to [-1, 1].
	Intent float64
}

// Config wires a Controller to its host collaborators.
type Config struct {
	Body    Body
	Tracker *GroundContactTracker
	// Sampler may be nil; a missing sampler reads as zero intent and no
	// jump, the same recovery as a transient input gap.
	Sampler AxisSampler

	// Smoothing enables acceleration/deceleration ramping toward the
	// target speed. Off by default: the baseline behavior is an instant
	// velocity set each step.
	Smoothing bool

	// GravityScale is pushed to the host body at construction. Zero means 1.
	GravityScale float64

	// UpSign is the vertical direction of "up" in the host's coordinate
	// system and only affects the derived motion-state name (jump vs
	// fall). Zero means -1, i.e. screen coordinates with Y growing down.
	UpSign float64

	Logger *zap.Logger
}

// Controller combines intent and ground state each simulation step into a
// target velocity, applying per-surface movement parameters.
type Controller struct {
	cfg     Config
	body    Body
	tracker *GroundContactTracker
	sampler AxisSampler
	logger  *zap.Logger
	upSign  float64

	motion       MotionState
	profile      SurfaceProfile
	stateName    string
	grounded     bool
	hadContacts  bool
	jumpConsumed bool
	jumpedTick   bool
}

// New builds a Controller. A missing body or tracker fails fast; every
// later per-step anomaly is recovered locally instead.
func New(cfg Config) (*Controller, error) {
	if cfg.Body == nil {
		return nil, fmt.Errorf("controller: physics body is required")
	}
	if cfg.Tracker == nil {
		return nil, fmt.Errorf("controller: ground tracker is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	upSign := cfg.UpSign
	if upSign == 0 {
		upSign = -1
	}
	scale := cfg.GravityScale
	if scale == 0 {
		scale = 1
	}
	cfg.Body.SetGravityScale(scale)

	return &Controller{
		cfg:     cfg,
		body:    cfg.Body,
		tracker: cfg.Tracker,
		sampler: cfg.Sampler,
		logger:  logger,
		upSign:  upSign,
		// before the first grounding, airborne control uses the default profile
		profile:   cfg.Tracker.registry.Default(),
		stateName: "idle",
	}, nil
}

// Step runs one simulation tick: sample intent, read ground state,
// compute the output velocity and write it to the host body. dt is the
// host step in seconds and only matters when Smoothing is on.
func (c *Controller) Step(dt float64) {
	c.jumpedTick = false

	intent := 0.0
	jump := false
	if c.sampler != nil {
		intent = c.sampler.MoveX()
		jump = c.sampler.JumpPressed()
	}
	if math.IsNaN(intent) {
		intent = 0
	}
	intent = common.Clamp(intent, -1, 1)

	grounded := c.tracker.Grounded()
	if grounded {
		p, err := c.tracker.Surface()
		if err != nil {
			// tracker detected an inconsistency and forced airborne
			c.logger.Warn("grounded without a surface, treating tick as airborne")
			grounded = false
		} else {
			c.profile = p
		}
	}
	// A fresh contact re-arms the jump. Keying on the contact count
	// rather than the grounded flag matters with a grace window longer
	// than a hop's airtime: the flag never drops between takeoff and
	// landing, but the contact count does.
	contacts := c.tracker.ContactCount() > 0
	if contacts && !c.hadContacts {
		c.jumpConsumed = false
	}

	vx, vy := c.body.Velocity()

	target := intent * c.profile.MaxSpeed
	if c.cfg.Smoothing {
		if target == 0 {
			vx = common.ApplyFriction(vx, c.profile.Deceleration*dt)
		} else {
			rate := c.profile.Acceleration
			if (vx != 0 && target*vx < 0) || math.Abs(target) < math.Abs(vx) {
				rate = c.profile.Deceleration
			}
			vx = common.MoveToward(vx, target, rate*dt)
		}
	} else {
		vx = target
	}

	// Vertical velocity is left to the host except on a jump. JumpPressed
	// is edge-triggered, and the contact is consumed until the character
	// leaves the ground and lands again, so a press persisting across
	// collision frames cannot re-fire.
	if jump && grounded && !c.jumpConsumed {
		vy = c.profile.JumpImpulse
		c.jumpConsumed = true
		c.jumpedTick = true
	}

	c.body.SetVelocity(vx, vy)
	c.motion = MotionState{VX: vx, VY: vy, Intent: intent}
	c.grounded = grounded
	c.hadContacts = contacts

	// Advance the leaving-grace window after this tick's reads, so a
	// contact-end from the preceding physics step still counts as
	// grounded for the full configured number of steps.
	c.tracker.Tick()

	switch {
	case c.jumpedTick:
		c.stateName = "jump"
	case grounded && intent != 0:
		c.stateName = "run"
	case grounded:
		c.stateName = "idle"
	case vy*c.upSign > 0:
		c.stateName = "jump"
	default:
		c.stateName = "fall"
	}
}

// Motion returns the output of the most recent Step.
func (c *Controller) Motion() MotionState {
	return c.motion
}

// Profile returns the profile in effect: the active surface when
// grounded, otherwise the last-grounded one.
func (c *Controller) Profile() SurfaceProfile {
	return c.profile
}

// Grounded reports the ground state the most recent Step acted on,
// including any active leaving-grace window.
func (c *Controller) Grounded() bool {
	return c.grounded
}

// StateName returns the derived motion state: idle, run, jump or fall.
func (c *Controller) StateName() string {
	return c.stateName
}
